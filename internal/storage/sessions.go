package storage

import "sync"

// SessionStorage keeps, per Telegram chat, the question a guest reopened for
// editing. Everything else about a form is derived from stored answers.
type SessionStorage struct {
	mu       sync.RWMutex
	reopened map[int64]string
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		reopened: make(map[int64]string),
	}
}

// Store saves the reopened question id for a chat.
func (s *SessionStorage) Store(chatID int64, questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reopened[chatID] = questionID
}

// Get returns the reopened question id for a chat.
func (s *SessionStorage) Get(chatID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.reopened[chatID]
	return id, ok
}

// Delete clears the reopened question of a chat.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reopened, chatID)
}

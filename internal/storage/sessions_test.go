package storage

import "testing"

func TestSessionStorage(t *testing.T) {
	s := NewSessionStorage()

	if _, ok := s.Get(1); ok {
		t.Fatal("empty storage returned a session")
	}

	s.Store(1, "amount")
	s.Store(2, "sleepover")
	if id, ok := s.Get(1); !ok || id != "amount" {
		t.Fatalf("Get(1) = %q, %v", id, ok)
	}

	s.Delete(1)
	if _, ok := s.Get(1); ok {
		t.Fatal("deleted session still present")
	}
	if id, _ := s.Get(2); id != "sleepover" {
		t.Fatalf("Get(2) = %q", id)
	}
}

func TestReminderStorageUpsert(t *testing.T) {
	s := NewReminderStorage()

	if _, had := s.UpsertAndGetPrev(7, 100); had {
		t.Fatal("first upsert reported a previous message")
	}
	prev, had := s.UpsertAndGetPrev(7, 101)
	if !had || prev.MessageID != 100 || prev.ChatID != 7 {
		t.Fatalf("prev = %+v, %v", prev, had)
	}
	if cur, _ := s.Get(7); cur.MessageID != 101 {
		t.Fatalf("current = %+v", cur)
	}

	s.Delete(7)
	if _, ok := s.Get(7); ok {
		t.Fatal("deleted reminder still present")
	}
}

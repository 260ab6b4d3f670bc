package service

import (
	"fmt"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

// VisibleQuestions returns the questions a guest currently sees. The first
// question is always visible; when it is answered false the rest are hidden.
// An unanswered first question hides nothing.
func VisibleQuestions(questions []entities.Question, answers entities.Answers) []entities.Question {
	if len(questions) == 0 {
		return []entities.Question{}
	}

	if a, ok := answers[questions[0].ID]; ok && a.IsFalse() {
		return questions[:1:1]
	}
	return questions
}

// NextUnanswered returns the lowest index of a visible question without a
// non-empty answer.
func NextUnanswered(visible []entities.Question, answers entities.Answers) (int, bool) {
	for i, q := range visible {
		if !answers.Answered(q.ID) {
			return i, true
		}
	}
	return 0, false
}

// Validate reports whether every visible required question is answered.
func Validate(visible []entities.Question, answers entities.Answers) bool {
	return len(MissingRequired(visible, answers)) == 0
}

// MissingRequired lists the visible required questions still unanswered.
func MissingRequired(visible []entities.Question, answers entities.Answers) []string {
	var missing []string
	for _, q := range visible {
		if q.Required && !answers.Answered(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

type FormStatus string

const (
	FormAnswering FormStatus = "answering"
	FormComplete  FormStatus = "complete"
)

// FormState is either Answering(Index) or Complete.
type FormState struct {
	Status FormStatus `json:"status"`
	Index  int        `json:"index"` // open question within the visible list; -1 when complete
}

func answering(i int) FormState { return FormState{Status: FormAnswering, Index: i} }

var completeState = FormState{Status: FormComplete, Index: -1}

// IsComplete reports whether no question is open.
func (s FormState) IsComplete() bool {
	return s.Status == FormComplete
}

// DeriveState computes the form state from answers alone.
func DeriveState(visible []entities.Question, answers entities.Answers) FormState {
	if i, ok := NextUnanswered(visible, answers); ok {
		return answering(i)
	}
	return completeState
}

// FormSession is one guest's pass through the questionnaire. Everything but
// an explicit Reopen is derived from the answers.
type FormSession struct {
	questions []entities.Question
	answers   entities.Answers
	reopened  string // id of a question the guest chose to revisit
}

// NewFormSession starts a session from previously stored answers.
func NewFormSession(questions []entities.Question, answers entities.Answers) *FormSession {
	if answers == nil {
		answers = entities.Answers{}
	}
	return &FormSession{questions: questions, answers: answers.Clone()}
}

func (f *FormSession) Questions() []entities.Question {
	return f.questions
}

func (f *FormSession) Visible() []entities.Question {
	return VisibleQuestions(f.questions, f.answers)
}

func (f *FormSession) Answers() entities.Answers {
	return f.answers.Clone()
}

// Reopened returns the id of the question the guest reopened, if any.
func (f *FormSession) Reopened() (string, bool) {
	return f.reopened, f.reopened != ""
}

// State returns the open question, honoring a reopen that is still visible.
func (f *FormSession) State() FormState {
	visible := f.Visible()
	if f.reopened != "" {
		for i, q := range visible {
			if q.ID == f.reopened {
				return answering(i)
			}
		}
	}
	return DeriveState(visible, f.answers)
}

// IsDone reports whether every visible question has an answer.
func (f *FormSession) IsDone() bool {
	_, open := NextUnanswered(f.Visible(), f.answers)
	return !open
}

// CanSubmit reports whether every visible required question is answered.
func (f *FormSession) CanSubmit() bool {
	return Validate(f.Visible(), f.answers)
}

// Answer records an answer to a visible question. Answering the reopened
// question returns the session to auto-advance.
func (f *FormSession) Answer(questionID string, a entities.Answer) error {
	if !f.isVisible(questionID) {
		return fmt.Errorf("%w: question %s is not visible", entities.ErrInvalidAnswer, questionID)
	}

	f.answers[questionID] = a
	if f.reopened == questionID {
		f.reopened = ""
	}
	return nil
}

// Reopen focuses a visible question by index, overriding auto-advance.
func (f *FormSession) Reopen(index int) error {
	visible := f.Visible()
	if index < 0 || index >= len(visible) {
		return fmt.Errorf("%w: index %d", entities.ErrQuestionNotFound, index)
	}
	f.reopened = visible[index].ID
	return nil
}

// ReopenQuestion focuses a visible question by id.
func (f *FormSession) ReopenQuestion(questionID string) error {
	for i, q := range f.Visible() {
		if q.ID == questionID {
			return f.Reopen(i)
		}
	}
	return fmt.Errorf("%w: %s", entities.ErrQuestionNotFound, questionID)
}

func (f *FormSession) isVisible(id string) bool {
	for _, q := range f.Visible() {
		if q.ID == id {
			return true
		}
	}
	return false
}

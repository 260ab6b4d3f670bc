package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidAnswer = errors.New("invalid answer")

// Reserved response fields that are not question answers.
const (
	FieldIsSubmitted = "isSubmitted"
	FieldSubmittedAt = "submittedAt"
)

// AnswerKind tags the variant held by an Answer.
type AnswerKind string

const (
	AnswerBoolean AnswerKind = "boolean"
	AnswerSelect  AnswerKind = "select"
)

// Answer is a guest's answer to one question: either a boolean or a select value.
type Answer struct {
	Kind  AnswerKind
	Bool  bool
	Value string
}

// BoolAnswer builds a boolean answer.
func BoolAnswer(v bool) Answer {
	return Answer{Kind: AnswerBoolean, Bool: v}
}

// SelectAnswer builds a select answer.
func SelectAnswer(v string) Answer {
	return Answer{Kind: AnswerSelect, Value: v}
}

// IsEmpty reports whether the answer carries no usable value.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case AnswerBoolean:
		return false
	case AnswerSelect:
		return strings.TrimSpace(a.Value) == ""
	default:
		return true
	}
}

// Raw returns the value as stored in a document.
func (a Answer) Raw() any {
	if a.Kind == AnswerBoolean {
		return a.Bool
	}
	return a.Value
}

// IsFalse reports whether the answer is an explicit boolean false.
func (a Answer) IsFalse() bool {
	return a.Kind == AnswerBoolean && !a.Bool
}

// IsTrue reports whether the answer is an explicit boolean true.
func (a Answer) IsTrue() bool {
	return a.Kind == AnswerBoolean && a.Bool
}

func (a Answer) String() string {
	if a.Kind == AnswerBoolean {
		return strconv.FormatBool(a.Bool)
	}
	return a.Value
}

// Answers maps question ids to answers.
type Answers map[string]Answer

// Clone returns a shallow copy of the map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Answered reports whether id holds a non-empty answer.
func (a Answers) Answered(id string) bool {
	v, ok := a[id]
	return ok && !v.IsEmpty()
}

// Merge returns a copy of a with every entry of partial applied on top.
func (a Answers) Merge(partial Answers) Answers {
	out := a.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Response is the per-guest RSVP record.
type Response struct {
	GuestID     string
	Answers     Answers
	IsSubmitted bool
	SubmittedAt *time.Time
}

// NewResponse creates an empty response for a guest.
func NewResponse(guestID string) *Response {
	return &Response{GuestID: guestID, Answers: Answers{}}
}

// DecodeAnswer converts a stored value into a typed answer for q.
// Select answers accept numbers, since party sizes may be stored numerically.
func DecodeAnswer(q Question, raw any) (Answer, error) {
	switch q.Type {
	case QuestionTypeBoolean:
		switch v := raw.(type) {
		case bool:
			return BoolAnswer(v), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return Answer{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidAnswer, v)
			}
			return BoolAnswer(b), nil
		}
	case QuestionTypeSelect:
		switch v := raw.(type) {
		case string:
			return SelectAnswer(v), nil
		case float64:
			return SelectAnswer(strconv.FormatFloat(v, 'f', -1, 64)), nil
		case int:
			return SelectAnswer(strconv.Itoa(v)), nil
		case int64:
			return SelectAnswer(strconv.FormatInt(v, 10)), nil
		}
	}
	return Answer{}, fmt.Errorf("%w: unexpected %T for question %s", ErrInvalidAnswer, raw, q.ID)
}

// ParseAnswer validates an incoming value against q, enforcing select options.
func ParseAnswer(q Question, raw any) (Answer, error) {
	a, err := DecodeAnswer(q, raw)
	if err != nil {
		return Answer{}, err
	}
	if q.Type == QuestionTypeSelect && a.Value != "" && !q.HasOption(a.Value) {
		return Answer{}, fmt.Errorf("%w: %q is not an option of %s", ErrInvalidAnswer, a.Value, q.ID)
	}
	return a, nil
}

// ParseAnswers validates a raw answer map at the API boundary.
// Keys that are not in questions are dropped.
func ParseAnswers(questions []Question, raw map[string]any) (Answers, error) {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	out := make(Answers, len(raw))
	for id, v := range raw {
		q, ok := byID[id]
		if !ok || v == nil {
			continue
		}
		a, err := ParseAnswer(q, v)
		if err != nil {
			return nil, err
		}
		out[id] = a
	}
	return out, nil
}

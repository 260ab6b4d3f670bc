// Package entities contains domain entities used across the application.
package entities

import (
	"errors"
	"regexp"
)

// QuestionType is the answer type of an RSVP question.
type QuestionType string

const (
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeSelect  QuestionType = "select"
)

// Well-known predefined question ids.
const (
	QuestionAttendance     = "attendance"
	QuestionAmount         = "amount"
	QuestionSleepover      = "sleepover"
	QuestionTransportation = "transportation"
	QuestionFoodPreference = "foodPreference"
	QuestionAccessibility  = "accessibility"
)

var (
	ErrInvalidQuestion     = errors.New("invalid question")
	ErrDuplicateQuestionID = errors.New("question id already exists")
	ErrQuestionNotFound    = errors.New("question not found")
)

// BooleanOptions holds display labels for the two values of a boolean question.
type BooleanOptions struct {
	TrueOption  string `json:"trueOption"`
	FalseOption string `json:"falseOption"`
}

// Question is a single entry of the RSVP question catalog.
type Question struct {
	ID             string          `json:"id"`                       // stable key, also the response field name
	QuestionText   string          `json:"questionText"`             // display prompt
	DisplayName    string          `json:"displayName,omitempty"`    // short label for table headers
	Type           QuestionType    `json:"type"`                     // boolean or select
	Options        []string        `json:"options,omitempty"`        // ordered options of a select question
	BooleanOptions *BooleanOptions `json:"booleanOptions,omitempty"` // labels of a boolean question
	Required       bool            `json:"required"`                 // must be answered before submitting
	IsCustom       bool            `json:"isCustom"`                 // wedding-defined question
	Order          *int            `json:"order,omitempty"`          // optional sort key
}

// Label returns the short table label, falling back to the question text.
func (q Question) Label() string {
	if q.DisplayName != "" {
		return q.DisplayName
	}
	return q.QuestionText
}

// HasOption reports whether value is one of the configured select options.
func (q Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o == value {
			return true
		}
	}
	return false
}

// questionIDPattern limits ids to characters that are safe as response
// field names and inside ':' separated bot callback data.
var questionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,40}$`)

// Validate checks the structural rules of a question definition.
func (q Question) Validate() error {
	if !questionIDPattern.MatchString(q.ID) || q.QuestionText == "" {
		return ErrInvalidQuestion
	}

	switch q.Type {
	case QuestionTypeBoolean:
		return nil
	case QuestionTypeSelect:
		if len(q.Options) == 0 {
			return ErrInvalidQuestion
		}
		return nil
	default:
		return ErrInvalidQuestion
	}
}

// RSVPConfig is the per-wedding questionnaire configuration.
type RSVPConfig struct {
	EnabledQuestionIDs []string   `json:"enabledQuestionIds"`
	CustomQuestions    []Question `json:"customQuestions"`
}

// IsEnabled reports whether id is listed in EnabledQuestionIDs.
func (c *RSVPConfig) IsEnabled(id string) bool {
	return c.position(id) >= 0
}

func (c *RSVPConfig) position(id string) int {
	for i, enabled := range c.EnabledQuestionIDs {
		if enabled == id {
			return i
		}
	}
	return -1
}

// Position returns the index of id within EnabledQuestionIDs, or -1.
func (c *RSVPConfig) Position(id string) int {
	return c.position(id)
}

// Enable appends id to EnabledQuestionIDs if it is not there yet.
func (c *RSVPConfig) Enable(id string) {
	if c.IsEnabled(id) {
		return
	}
	c.EnabledQuestionIDs = append(c.EnabledQuestionIDs, id)
}

// Disable removes id from EnabledQuestionIDs.
func (c *RSVPConfig) Disable(id string) {
	out := c.EnabledQuestionIDs[:0]
	for _, enabled := range c.EnabledQuestionIDs {
		if enabled != id {
			out = append(out, enabled)
		}
	}
	c.EnabledQuestionIDs = out
}

// CustomQuestion returns the custom question with the given id.
func (c *RSVPConfig) CustomQuestion(id string) (*Question, bool) {
	for i := range c.CustomQuestions {
		if c.CustomQuestions[i].ID == id {
			return &c.CustomQuestions[i], true
		}
	}
	return nil, false
}

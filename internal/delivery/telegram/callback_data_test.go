package telegram

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

func TestCallbackRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		action string
		params []string
	}{
		{"bool true", buildBoolAnswerCallback("attendance", true), actionAnswer, []string{"attendance", valueTrue}},
		{"bool false", buildBoolAnswerCallback("sleepover", false), actionAnswer, []string{"sleepover", valueFalse}},
		{"select", buildSelectAnswerCallback("amount", 3), actionAnswer, []string{"amount", "3"}},
		{"edit", buildEditCallback("foodPreference"), actionEdit, []string{"foodPreference"}},
		{"submit", buildSubmitCallback(), actionSubmit, []string{}},
		{"show", buildShowCallback(), actionShow, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeCallback(tt.data)
			if got.Action != tt.action {
				t.Errorf("action = %q, want %q", got.Action, tt.action)
			}
			if !reflect.DeepEqual(got.Params, tt.params) {
				t.Errorf("params = %v, want %v", got.Params, tt.params)
			}
			if got.Raw != tt.data {
				t.Errorf("raw = %q", got.Raw)
			}
		})
	}
}

func TestCallbackFitsTelegramLimit(t *testing.T) {
	// Generated ids and the longest id a custom question may have.
	for _, id := range []string{uuid.NewString(), strings.Repeat("q", 40)} {
		q := entities.Question{ID: id, QuestionText: "Plus one?", Type: entities.QuestionTypeBoolean}
		if err := q.Validate(); err != nil {
			t.Fatalf("Validate(%q): %v", id, err)
		}

		for _, data := range []string{
			buildBoolAnswerCallback(id, true),
			buildSelectAnswerCallback(id, 999),
			buildEditCallback(id),
		} {
			if len(data) > maxCallbackDataLen {
				t.Errorf("%q is %d bytes", data, len(data))
			}
			if got := decodeCallback(data); len(got.Params) == 0 || got.Params[0] != id {
				t.Errorf("decode(%q) params = %v", data, got.Params)
			}
		}
	}
}

func TestParseCallbackAnswer(t *testing.T) {
	boolQ := entities.Question{ID: "attendance", Type: entities.QuestionTypeBoolean}
	selectQ := entities.Question{ID: "amount", Type: entities.QuestionTypeSelect, Options: []string{"1", "2", "3"}}

	tests := []struct {
		name    string
		q       entities.Question
		value   string
		want    entities.Answer
		wantErr bool
	}{
		{"true", boolQ, valueTrue, entities.BoolAnswer(true), false},
		{"false", boolQ, valueFalse, entities.BoolAnswer(false), false},
		{"bad bool", boolQ, "yes", entities.Answer{}, true},
		{"option", selectQ, "1", entities.SelectAnswer("2"), false},
		{"out of range", selectQ, "3", entities.Answer{}, true},
		{"negative", selectQ, "-1", entities.Answer{}, true},
		{"not a number", selectQ, "x", entities.Answer{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCallbackAnswer(tt.q, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("answer = %+v, want %+v", got, tt.want)
			}
		})
	}
}

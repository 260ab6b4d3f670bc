package telegram

import (
	"strings"
	"testing"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/service"
)

func testQuestions() []entities.Question {
	return []entities.Question{
		{ID: "attendance", QuestionText: "Coming?", Type: entities.QuestionTypeBoolean, Required: true,
			BooleanOptions: &entities.BooleanOptions{TrueOption: "Yes", FalseOption: "No"}},
		{ID: "meal", QuestionText: "Meal <pick>", Type: entities.QuestionTypeSelect, IsCustom: true,
			Options: []string{"a", "b", "c", "d", "e", "f"}},
	}
}

func TestBuildAnswerRows(t *testing.T) {
	qs := testQuestions()

	rows := buildAnswerRows(qs[0], i18n.Identity)
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("boolean rows = %v", rows)
	}
	if rows[0][0].Text != "Yes" || *rows[0][0].CallbackData != "ans:attendance:t" {
		t.Errorf("true button = %q %q", rows[0][0].Text, *rows[0][0].CallbackData)
	}

	rows = buildAnswerRows(qs[1], i18n.Identity)
	if len(rows) != 2 || len(rows[0]) != optionsPerRow || len(rows[1]) != 1 {
		t.Fatalf("select rows = %v", rows)
	}
	if rows[1][0].Text != "f" || *rows[1][0].CallbackData != "ans:meal:5" {
		t.Errorf("last option = %q %q", rows[1][0].Text, *rows[1][0].CallbackData)
	}
}

func TestRenderFormOpenQuestion(t *testing.T) {
	session := service.NewFormSession(testQuestions(), entities.Answers{"attendance": entities.BoolAnswer(true)})
	form := &service.GuestForm{GuestName: "Dana"}

	text, kb := renderForm(form, session, i18n.Identity)

	if !strings.Contains(text, "Coming?: <b>Yes</b>") {
		t.Errorf("answered line missing:\n%s", text)
	}
	if !strings.Contains(text, "<b>Meal &lt;pick&gt;</b>") {
		t.Errorf("open question not escaped:\n%s", text)
	}
	if strings.Contains(text, "rsvp.bot.required") {
		t.Errorf("optional question marked required:\n%s", text)
	}

	// Two option rows, one edit row, one submit row.
	if len(kb.InlineKeyboard) != 4 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
	if got := *kb.InlineKeyboard[2][0].CallbackData; got != "edit:attendance" {
		t.Errorf("edit callback = %q", got)
	}
	if got := *kb.InlineKeyboard[3][0].CallbackData; got != actionSubmit {
		t.Errorf("submit callback = %q", got)
	}
}

func TestRenderFormReopenedAndDeclined(t *testing.T) {
	session := service.NewFormSession(testQuestions(), entities.Answers{"attendance": entities.BoolAnswer(false)})
	if err := session.ReopenQuestion("attendance"); err != nil {
		t.Fatal(err)
	}
	form := &service.GuestForm{GuestName: "Dana", IsSubmitted: true}

	text, kb := renderForm(form, session, i18n.Identity)

	if strings.Contains(text, "Meal") {
		t.Errorf("hidden question rendered:\n%s", text)
	}
	if !strings.Contains(text, "<b>Coming?</b> <i>(rsvp.bot.required)</i>") {
		t.Errorf("reopened question missing:\n%s", text)
	}
	if !strings.HasSuffix(text, "rsvp.bot.submitted") {
		t.Errorf("submitted note missing:\n%s", text)
	}
	// Answer row and submit row; the reopened question gets no edit button.
	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
}

func TestRenderFormComplete(t *testing.T) {
	session := service.NewFormSession(testQuestions(), entities.Answers{
		"attendance": entities.BoolAnswer(true),
		"meal":       entities.SelectAnswer("b"),
	})

	text, kb := renderForm(&service.GuestForm{}, session, i18n.Identity)

	if !strings.Contains(text, "Meal &lt;pick&gt;: <b>b</b>") {
		t.Errorf("meal answer missing:\n%s", text)
	}
	// Two edit rows and submit.
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
}

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/service"
)

// answerLabel returns the display text of an answer to q.
func answerLabel(q entities.Question, a entities.Answer, t i18n.Func) string {
	if a.Kind == entities.AnswerBoolean {
		return service.BooleanLabel(q, a.Bool, t)
	}
	return service.OptionLabel(q, a.Value, t)
}

// renderForm renders the guest's questionnaire: answered questions first,
// then the open question with its answer buttons.
func renderForm(form *service.GuestForm, session *service.FormSession, t i18n.Func) (string, tgbotapi.InlineKeyboardMarkup) {
	visible := session.Visible()
	answers := session.Answers()
	state := session.State()

	var b strings.Builder
	b.WriteString(t("rsvp.bot.welcome", map[string]string{"name": esc(form.GuestName)}))

	var answered []entities.Question
	for i, q := range visible {
		if answers.Answered(q.ID) && (state.IsComplete() || i != state.Index) {
			answered = append(answered, q)
		}
	}

	if len(answered) > 0 {
		b.WriteString("\n\n")
		b.WriteString(t("rsvp.bot.answered", nil))
		for _, q := range answered {
			fmt.Fprintf(&b, "\n• %s: <b>%s</b>", esc(q.Label()), esc(answerLabel(q, answers[q.ID], t)))
		}
	}

	var open *entities.Question
	if !state.IsComplete() {
		open = &visible[state.Index]
		b.WriteString("\n\n<b>")
		b.WriteString(esc(open.QuestionText))
		b.WriteString("</b>")
		if open.Required {
			fmt.Fprintf(&b, " <i>(%s)</i>", esc(t("rsvp.bot.required", nil)))
		}
	}

	if form.IsSubmitted {
		b.WriteString("\n\n")
		b.WriteString(t("rsvp.bot.submitted", nil))
	}

	return b.String(), buildFormKeyboard(open, answered, session.CanSubmit(), t)
}

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/service"
)

// optionsPerRow is the number of select options placed on one keyboard row.
const optionsPerRow = 5

// buildFormKeyboard builds the answer buttons of the open question, one edit
// button per answered question and the submit button when allowed.
func buildFormKeyboard(
	open *entities.Question,
	answered []entities.Question,
	canSubmit bool,
	t i18n.Func,
) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if open != nil {
		rows = append(rows, buildAnswerRows(*open, t)...)
	}

	for _, q := range answered {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+t("rsvp.bot.edit", nil)+": "+q.Label(), buildEditCallback(q.ID)),
		))
	}

	if canSubmit {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ "+t("rsvp.bot.submit", nil), buildSubmitCallback()),
		))
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildAnswerRows builds the answer buttons of one question.
func buildAnswerRows(q entities.Question, t i18n.Func) [][]tgbotapi.InlineKeyboardButton {
	if q.Type == entities.QuestionTypeBoolean {
		return [][]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(service.BooleanLabel(q, true, t), buildBoolAnswerCallback(q.ID, true)),
				tgbotapi.NewInlineKeyboardButtonData(service.BooleanLabel(q, false, t), buildBoolAnswerCallback(q.ID, false)),
			),
		}
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, opt := range q.Options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(service.OptionLabel(q, opt, t), buildSelectAnswerCallback(q.ID, i)))
		if len(row) == optionsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

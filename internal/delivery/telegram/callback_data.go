package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionAnswer = "ans"
	actionEdit   = "edit"
	actionSubmit = "submit"
	actionShow   = "show"
)

// Boolean answer values carried in callback data.
const (
	valueTrue  = "t"
	valueFalse = "f"
)

// maxCallbackDataLen is the Telegram limit for inline button data.
const maxCallbackDataLen = 64

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildBoolAnswerCallback builds callback data for a boolean answer button.
func buildBoolAnswerCallback(questionID string, v bool) string {
	value := valueFalse
	if v {
		value = valueTrue
	}
	return callbackData{
		Action: actionAnswer,
		Params: []string{questionID, value},
	}.encode()
}

// buildSelectAnswerCallback builds callback data for a select option button.
// The option is referenced by index since option values may contain ':'.
func buildSelectAnswerCallback(questionID string, optionIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{questionID, strconv.Itoa(optionIndex)},
	}.encode()
}

// buildEditCallback builds callback data for reopening an answered question.
func buildEditCallback(questionID string) string {
	return callbackData{
		Action: actionEdit,
		Params: []string{questionID},
	}.encode()
}

func buildSubmitCallback() string {
	return actionSubmit
}

// buildShowCallback builds callback data for opening the questionnaire.
func buildShowCallback() string {
	return actionShow
}

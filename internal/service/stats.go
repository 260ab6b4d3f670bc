package service

import (
	"strconv"
	"strings"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
)

// alwaysShownStats keeps these cards on the dashboard even at zero.
var alwaysShownStats = map[string]bool{
	entities.QuestionSleepover:      true,
	entities.QuestionTransportation: true,
}

// PartySize returns the number of people a response stands for. Missing,
// unparseable or non-positive values count as one.
func PartySize(r *entities.Response) int {
	if r == nil {
		return 1
	}
	a, ok := r.Answers[entities.QuestionAmount]
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(a.String()))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func hasQuestion(questions []entities.Question, id string) bool {
	for _, q := range questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// ComputeStats builds the dashboard cards in question order. Answers of
// other questions only count for attending guests when the catalog has an
// attendance question. Cards with a zero count are dropped unless they are
// always shown; the attendance card is always present.
func ComputeStats(questions []entities.Question, responses []*entities.Response) []entities.StatCard {
	withAttendance := hasQuestion(questions, entities.QuestionAttendance)

	eligible := make([]*entities.Response, 0, len(responses))
	for _, r := range responses {
		if r == nil {
			continue
		}
		if withAttendance && !r.Answers[entities.QuestionAttendance].IsTrue() {
			continue
		}
		eligible = append(eligible, r)
	}

	cards := make([]entities.StatCard, 0, len(questions))
	for _, q := range questions {
		var card entities.StatCard
		switch {
		case q.ID == entities.QuestionAttendance:
			cards = append(cards, attendanceCard(q, responses))
			continue
		case q.Type == entities.QuestionTypeBoolean:
			card = booleanCard(q, eligible)
		case q.Type == entities.QuestionTypeSelect:
			card = selectCard(q, eligible)
		default:
			continue
		}

		if card.Count == 0 && !alwaysShownStats[q.ID] {
			continue
		}
		cards = append(cards, card)
	}

	return cards
}

func attendanceCard(q entities.Question, responses []*entities.Response) entities.StatCard {
	card := entities.StatCard{
		QuestionID: q.ID,
		Label:      q.Label(),
		Kind:       entities.StatAttendance,
		Filter:     entities.StatFilter{Column: q.ID, Value: "true"},
	}

	for _, r := range responses {
		if r == nil {
			continue
		}
		a, ok := r.Answers[q.ID]
		switch {
		case !ok || a.Kind != entities.AnswerBoolean:
			card.Pending++
		case a.Bool:
			card.Attending += PartySize(r)
		default:
			card.Declined++
		}
	}
	card.Count = card.Attending
	return card
}

func booleanCard(q entities.Question, responses []*entities.Response) entities.StatCard {
	card := entities.StatCard{
		QuestionID: q.ID,
		Label:      q.Label(),
		Kind:       entities.StatBoolean,
		Filter:     entities.StatFilter{Column: q.ID, Value: "true"},
	}
	for _, r := range responses {
		if r.Answers[q.ID].IsTrue() {
			card.Count += PartySize(r)
		}
	}
	return card
}

func selectCard(q entities.Question, responses []*entities.Response) entities.StatCard {
	card := entities.StatCard{
		QuestionID: q.ID,
		Label:      q.Label(),
		Kind:       entities.StatSelect,
		Options:    make([]entities.OptionStat, len(q.Options)),
		Filter:     entities.StatFilter{Column: q.ID},
	}

	index := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		card.Options[i] = entities.OptionStat{Option: o}
		index[o] = i
	}

	for _, r := range responses {
		a, ok := r.Answers[q.ID]
		if !ok || a.IsEmpty() {
			continue
		}
		i, known := index[a.String()]
		if !known {
			continue
		}
		card.Options[i].Responses++
		card.Options[i].Guests += PartySize(r)
		card.Count++
	}
	return card
}

package service

import (
	"sort"
	"strings"
	"time"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
)

// UnsetFilterValue selects rows without an answer.
const UnsetFilterValue = "__unset__"

type ColumnKind string

const (
	ColumnBoolean   ColumnKind = "boolean"
	ColumnSelect    ColumnKind = "select"
	ColumnText      ColumnKind = "text"
	ColumnTimestamp ColumnKind = "timestamp"
)

// FilterOption is one selectable value of a column filter.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TableRow is one guest line of the admin table. Response is nil for guests
// who never answered.
type TableRow struct {
	Invitee  *entities.Invitee
	Response *entities.Response
}

// ColumnDescriptor describes one admin table column.
type ColumnDescriptor struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Kind       ColumnKind     `json:"kind"`
	QuestionID string         `json:"questionId,omitempty"`
	Filter     []FilterOption `json:"filter,omitempty"`

	// Render produces the display value of the cell.
	Render func(row TableRow) string `json:"-"`
	// Compare orders two rows ascending, returning <0, 0 or >0.
	Compare func(a, b TableRow) int `json:"-"`
	// key returns the filter value of the row.
	key func(row TableRow) string
}

// Matches reports whether the row's value is one of values.
func (c ColumnDescriptor) Matches(row TableRow, values []string) bool {
	if c.key == nil {
		return true
	}
	k := c.key(row)
	for _, v := range values {
		if v == k {
			return true
		}
	}
	return false
}

func answerOf(row TableRow, questionID string) (entities.Answer, bool) {
	if row.Response == nil {
		return entities.Answer{}, false
	}
	a, ok := row.Response.Answers[questionID]
	if !ok || a.IsEmpty() {
		return entities.Answer{}, false
	}
	return a, true
}

// OptionLabel translates a select option of a predefined question, falling
// back to the raw option value.
func OptionLabel(q entities.Question, value string, t i18n.Func) string {
	if q.IsCustom {
		return value
	}
	key := "rsvp.questions." + q.ID + ".options." + value
	if label := t(key, nil); label != key {
		return label
	}
	return value
}

// BooleanLabel returns the display text of a boolean answer to q.
func BooleanLabel(q entities.Question, v bool, t i18n.Func) string {
	if q.BooleanOptions != nil {
		if v && q.BooleanOptions.TrueOption != "" {
			return q.BooleanOptions.TrueOption
		}
		if !v && q.BooleanOptions.FalseOption != "" {
			return q.BooleanOptions.FalseOption
		}
	}
	if v {
		return t("rsvp.values.true", nil)
	}
	return t("rsvp.values.false", nil)
}

func boolRank(a entities.Answer, ok bool) int {
	switch {
	case !ok || a.Kind != entities.AnswerBoolean:
		return 2
	case a.Bool:
		return 0
	default:
		return 1
	}
}

func boolKey(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func booleanColumn(q entities.Question, t i18n.Func) ColumnDescriptor {
	return ColumnDescriptor{
		ID:         q.ID,
		Label:      q.Label(),
		Kind:       ColumnBoolean,
		QuestionID: q.ID,
		Filter: []FilterOption{
			{Value: "true", Label: BooleanLabel(q, true, t)},
			{Value: "false", Label: BooleanLabel(q, false, t)},
			{Value: UnsetFilterValue, Label: t("rsvp.values.unset", nil)},
		},
		Render: func(row TableRow) string {
			a, ok := answerOf(row, q.ID)
			if !ok || a.Kind != entities.AnswerBoolean {
				return ""
			}
			return BooleanLabel(q, a.Bool, t)
		},
		Compare: func(x, y TableRow) int {
			ax, okx := answerOf(x, q.ID)
			ay, oky := answerOf(y, q.ID)
			return boolRank(ax, okx) - boolRank(ay, oky)
		},
		key: func(row TableRow) string {
			a, ok := answerOf(row, q.ID)
			if !ok || a.Kind != entities.AnswerBoolean {
				return UnsetFilterValue
			}
			return boolKey(a.Bool)
		},
	}
}

func selectColumn(q entities.Question, t i18n.Func) ColumnDescriptor {
	filter := make([]FilterOption, 0, len(q.Options)+1)
	for _, o := range q.Options {
		filter = append(filter, FilterOption{Value: o, Label: OptionLabel(q, o, t)})
	}
	filter = append(filter, FilterOption{Value: UnsetFilterValue, Label: t("rsvp.values.unset", nil)})

	return ColumnDescriptor{
		ID:         q.ID,
		Label:      q.Label(),
		Kind:       ColumnSelect,
		QuestionID: q.ID,
		Filter:     filter,
		Render: func(row TableRow) string {
			a, ok := answerOf(row, q.ID)
			if !ok {
				return ""
			}
			return OptionLabel(q, a.String(), t)
		},
		Compare: func(x, y TableRow) int {
			ax, okx := answerOf(x, q.ID)
			ay, oky := answerOf(y, q.ID)
			switch {
			case !okx && !oky:
				return 0
			case !okx:
				return 1
			case !oky:
				return -1
			}
			return strings.Compare(ax.String(), ay.String())
		},
		key: func(row TableRow) string {
			a, ok := answerOf(row, q.ID)
			if !ok {
				return UnsetFilterValue
			}
			return a.String()
		},
	}
}

func textColumn(id, label string, value func(*entities.Invitee) string) ColumnDescriptor {
	get := func(row TableRow) string {
		if row.Invitee == nil {
			return ""
		}
		return value(row.Invitee)
	}
	return ColumnDescriptor{
		ID:      id,
		Label:   label,
		Kind:    ColumnText,
		Render:  get,
		Compare: func(a, b TableRow) int { return strings.Compare(get(a), get(b)) },
	}
}

func submittedColumn(t i18n.Func) ColumnDescriptor {
	submitted := func(row TableRow) bool {
		return row.Response != nil && row.Response.IsSubmitted
	}
	rank := func(row TableRow) int {
		if submitted(row) {
			return 0
		}
		return 1
	}
	return ColumnDescriptor{
		ID:    "isSubmitted",
		Label: t("rsvp.columns.isSubmitted", nil),
		Kind:  ColumnBoolean,
		Filter: []FilterOption{
			{Value: "true", Label: t("rsvp.values.true", nil)},
			{Value: "false", Label: t("rsvp.values.false", nil)},
		},
		Render: func(row TableRow) string {
			return t("rsvp.values."+boolKey(submitted(row)), nil)
		},
		Compare: func(a, b TableRow) int { return rank(a) - rank(b) },
		key:     func(row TableRow) string { return boolKey(submitted(row)) },
	}
}

func messageSentColumn(ch entities.Channel, t i18n.Func) ColumnDescriptor {
	sentAt := func(row TableRow) (time.Time, bool) {
		if row.Invitee == nil {
			return time.Time{}, false
		}
		return row.Invitee.MessageSentAt(ch)
	}
	return ColumnDescriptor{
		ID:    "messageSent." + string(ch),
		Label: t("rsvp.columns.messageSent", map[string]string{"channel": string(ch)}),
		Kind:  ColumnTimestamp,
		Filter: []FilterOption{
			{Value: "true", Label: t("rsvp.values.true", nil)},
			{Value: "false", Label: t("rsvp.values.false", nil)},
		},
		Render: func(row TableRow) string {
			at, ok := sentAt(row)
			if !ok {
				return ""
			}
			return at.UTC().Format("2006-01-02 15:04")
		},
		Compare: func(a, b TableRow) int {
			ta, oka := sentAt(a)
			tb, okb := sentAt(b)
			switch {
			case !oka && !okb:
				return 0
			case !oka:
				return 1
			case !okb:
				return -1
			}
			return ta.Compare(tb)
		},
		key: func(row TableRow) string {
			_, ok := sentAt(row)
			return boolKey(ok)
		},
	}
}

// BuildColumns maps the effective questions to table columns and appends
// the fixed guest columns. The result depends only on its inputs.
func BuildColumns(questions []entities.Question, t i18n.Func) []ColumnDescriptor {
	cols := make([]ColumnDescriptor, 0, len(questions)+3+len(entities.Channels))

	for _, q := range questions {
		switch q.Type {
		case entities.QuestionTypeBoolean:
			cols = append(cols, booleanColumn(q, t))
		case entities.QuestionTypeSelect:
			cols = append(cols, selectColumn(q, t))
		}
	}

	cols = append(cols,
		textColumn("name", t("rsvp.columns.name", nil), func(i *entities.Invitee) string { return i.Name }),
		textColumn("cellphone", t("rsvp.columns.cellphone", nil), func(i *entities.Invitee) string { return i.Cellphone }),
		submittedColumn(t),
	)
	for _, ch := range entities.Channels {
		cols = append(cols, messageSentColumn(ch, t))
	}

	return cols
}

// TableQuery selects and orders table rows. Filters maps a column id to the
// accepted values: rows must match every column, and any value within one.
type TableQuery struct {
	SortBy  string
	Desc    bool
	Filters map[string][]string
}

// BuildTable filters rows and sorts them stably. Rows without an answer in
// the sort column come last whatever the direction.
func BuildTable(columns []ColumnDescriptor, rows []TableRow, query TableQuery) []TableRow {
	byID := make(map[string]ColumnDescriptor, len(columns))
	for _, c := range columns {
		byID[c.ID] = c
	}

	out := make([]TableRow, 0, len(rows))
	for _, row := range rows {
		if matchesAll(byID, row, query.Filters) {
			out = append(out, row)
		}
	}

	col, ok := byID[query.SortBy]
	if !ok || col.Compare == nil {
		return out
	}

	// Unanswered cells stay last in both directions.
	unset := func(row TableRow) bool {
		return col.key != nil && col.key(row) == UnsetFilterValue
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ui, uj := unset(out[i]), unset(out[j]); ui != uj {
			return uj
		}
		if query.Desc {
			return col.Compare(out[j], out[i]) < 0
		}
		return col.Compare(out[i], out[j]) < 0
	})
	return out
}

func matchesAll(columns map[string]ColumnDescriptor, row TableRow, filters map[string][]string) bool {
	for id, values := range filters {
		col, ok := columns[id]
		if !ok || len(values) == 0 {
			continue
		}
		if !col.Matches(row, values) {
			return false
		}
	}
	return true
}

// RenderedRow is a table row ready for display.
type RenderedRow struct {
	GuestID string            `json:"guestId"`
	Cells   map[string]string `json:"cells"`
}

// RenderRows renders every cell of rows.
func RenderRows(columns []ColumnDescriptor, rows []TableRow) []RenderedRow {
	out := make([]RenderedRow, 0, len(rows))
	for _, row := range rows {
		r := RenderedRow{Cells: make(map[string]string, len(columns))}
		if row.Invitee != nil {
			r.GuestID = row.Invitee.ID
		} else if row.Response != nil {
			r.GuestID = row.Response.GuestID
		}
		for _, c := range columns {
			r.Cells[c.ID] = c.Render(row)
		}
		out = append(out, r)
	}
	return out
}

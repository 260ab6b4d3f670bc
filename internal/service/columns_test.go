package service

import (
	"testing"
	"time"

	"github.com/ofirte/wedding-sub001/internal/domain/entities"
	"github.com/ofirte/wedding-sub001/internal/i18n"
)

func row(name string, answers entities.Answers) TableRow {
	r := TableRow{Invitee: &entities.Invitee{ID: name, Name: name}}
	if answers != nil {
		r.Response = response(name, answers)
	}
	return r
}

func column(t *testing.T, cols []ColumnDescriptor, id string) ColumnDescriptor {
	t.Helper()
	for _, c := range cols {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("column %q not found", id)
	return ColumnDescriptor{}
}

func names(rows []TableRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Invitee.Name)
	}
	return out
}

func TestBuildColumnsLayout(t *testing.T) {
	cols := BuildColumns(questionsByID("attendance", "amount"), i18n.Identity)

	want := []string{
		"attendance", "amount",
		"name", "cellphone", "isSubmitted",
		"messageSent.telegram", "messageSent.whatsapp", "messageSent.sms",
	}
	got := make([]string, 0, len(cols))
	for _, c := range cols {
		got = append(got, c.ID)
	}
	if !equalIDs(got, want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}

	attendance := column(t, cols, "attendance")
	if attendance.Kind != ColumnBoolean || len(attendance.Filter) != 3 ||
		attendance.Filter[2].Value != UnsetFilterValue {
		t.Errorf("attendance column = %+v", attendance)
	}

	amount := column(t, cols, "amount")
	if len(amount.Filter) != MaxPartySize+1 || amount.Filter[MaxPartySize].Value != UnsetFilterValue {
		t.Errorf("amount filter = %+v", amount.Filter)
	}
}

func TestBuildColumnsIsDeterministic(t *testing.T) {
	qs := questionsByID("attendance", "foodPreference")
	a := BuildColumns(qs, i18n.Identity)
	b := BuildColumns(qs, i18n.Identity)

	if len(a) != len(b) {
		t.Fatal("column counts differ")
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Label != b[i].Label || len(a[i].Filter) != len(b[i].Filter) {
			t.Fatalf("column %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	fewer := BuildColumns(qs[:1], i18n.Identity)
	for _, c := range fewer {
		if c.ID == "foodPreference" {
			t.Fatal("removed question still has a column")
		}
	}
}

func TestBooleanColumnSort(t *testing.T) {
	cols := BuildColumns(questionsByID("sleepover"), i18n.Identity)
	rows := []TableRow{
		row("a", entities.Answers{"sleepover": entities.BoolAnswer(true)}),
		row("b", entities.Answers{"sleepover": entities.BoolAnswer(false)}),
		row("c", nil),
		row("d", entities.Answers{"sleepover": entities.BoolAnswer(true)}),
	}

	got := BuildTable(cols, rows, TableQuery{SortBy: "sleepover"})
	if want := []string{"a", "d", "b", "c"}; !equalIDs(names(got), want) {
		t.Fatalf("sorted = %v, want %v", names(got), want)
	}
}

func TestBooleanColumnSortDescendingKeepsUnsetLast(t *testing.T) {
	cols := BuildColumns(questionsByID("sleepover"), i18n.Identity)
	rows := []TableRow{
		row("a", entities.Answers{"sleepover": entities.BoolAnswer(true)}),
		row("b", entities.Answers{"sleepover": entities.BoolAnswer(false)}),
		row("c", nil),
		row("d", entities.Answers{"sleepover": entities.BoolAnswer(true)}),
	}

	got := BuildTable(cols, rows, TableQuery{SortBy: "sleepover", Desc: true})
	if want := []string{"b", "a", "d", "c"}; !equalIDs(names(got), want) {
		t.Fatalf("sorted = %v, want %v", names(got), want)
	}
}

func TestSelectColumnSortDescendingKeepsUnsetLast(t *testing.T) {
	cols := BuildColumns(questionsByID("foodPreference"), i18n.Identity)
	rows := []TableRow{
		row("a", nil),
		row("b", entities.Answers{"foodPreference": entities.SelectAnswer("regular")}),
		row("c", entities.Answers{"foodPreference": entities.SelectAnswer("vegan")}),
	}

	got := BuildTable(cols, rows, TableQuery{SortBy: "foodPreference", Desc: true})
	if want := []string{"c", "b", "a"}; !equalIDs(names(got), want) {
		t.Fatalf("sorted = %v, want %v", names(got), want)
	}
}

func TestSelectColumnSortPutsUnsetLast(t *testing.T) {
	cols := BuildColumns(questionsByID("foodPreference"), i18n.Identity)
	rows := []TableRow{
		row("a", nil),
		row("b", entities.Answers{"foodPreference": entities.SelectAnswer("vegan")}),
		row("c", entities.Answers{"foodPreference": entities.SelectAnswer("regular")}),
		row("d", entities.Answers{"foodPreference": entities.SelectAnswer("")}),
	}

	got := BuildTable(cols, rows, TableQuery{SortBy: "foodPreference"})
	if want := []string{"c", "b", "a", "d"}; !equalIDs(names(got), want) {
		t.Fatalf("sorted = %v, want %v", names(got), want)
	}
}

func TestBuildTableFilters(t *testing.T) {
	cols := BuildColumns(questionsByID("attendance", "foodPreference"), i18n.Identity)
	rows := []TableRow{
		row("a", entities.Answers{"attendance": entities.BoolAnswer(true), "foodPreference": entities.SelectAnswer("vegan")}),
		row("b", entities.Answers{"attendance": entities.BoolAnswer(true), "foodPreference": entities.SelectAnswer("regular")}),
		row("c", entities.Answers{"attendance": entities.BoolAnswer(false)}),
		row("d", nil),
	}

	tests := []struct {
		name    string
		filters map[string][]string
		want    []string
	}{
		{"no filters", nil, []string{"a", "b", "c", "d"}},
		{"single value", map[string][]string{"attendance": {"true"}}, []string{"a", "b"}},
		{"or within a column", map[string][]string{"attendance": {"false", UnsetFilterValue}}, []string{"c", "d"}},
		{"and across columns", map[string][]string{
			"attendance":     {"true"},
			"foodPreference": {"vegan", UnsetFilterValue},
		}, []string{"a"}},
		{"unknown column ignored", map[string][]string{"ghost": {"x"}}, []string{"a", "b", "c", "d"}},
		{"submission status", map[string][]string{"isSubmitted": {"false"}}, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildTable(cols, rows, TableQuery{Filters: tt.filters})
			if !equalIDs(names(got), tt.want) {
				t.Fatalf("rows = %v, want %v", names(got), tt.want)
			}
		})
	}
}

func TestRenderRows(t *testing.T) {
	tr, _ := i18n.New("en")
	en := tr.For("en")

	cols := BuildColumns(questionsByID("attendance", "foodPreference"), en)
	r := row("Dana", entities.Answers{
		"attendance":     entities.BoolAnswer(true),
		"foodPreference": entities.SelectAnswer("glutenFree"),
	})
	r.Response.IsSubmitted = true
	r.Invitee.MessagesSent = map[entities.Channel]time.Time{
		entities.ChannelSMS: time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
	}

	out := RenderRows(cols, []TableRow{r, row("Empty", nil)})
	cells := out[0].Cells

	if cells["attendance"] != "Yes, I'll be there" {
		t.Errorf("attendance cell = %q", cells["attendance"])
	}
	if cells["foodPreference"] != "Gluten free" {
		t.Errorf("food cell = %q", cells["foodPreference"])
	}
	if cells["isSubmitted"] != "Yes" || cells["name"] != "Dana" {
		t.Errorf("fixed cells = %v", cells)
	}
	if cells["messageSent.sms"] != "2026-02-03 09:30" || cells["messageSent.telegram"] != "" {
		t.Errorf("message cells = %v", cells)
	}
	if out[1].Cells["attendance"] != "" || out[1].Cells["isSubmitted"] != "No" {
		t.Errorf("empty row cells = %v", out[1].Cells)
	}
}

func TestBuildTableDescending(t *testing.T) {
	cols := BuildColumns(nil, i18n.Identity)
	rows := []TableRow{row("b", nil), row("a", nil), row("c", nil)}

	got := BuildTable(cols, rows, TableQuery{SortBy: "name", Desc: true})
	if want := []string{"c", "b", "a"}; !equalIDs(names(got), want) {
		t.Fatalf("sorted = %v, want %v", names(got), want)
	}
}

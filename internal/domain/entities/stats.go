package entities

// StatKind identifies the shape of a StatCard.
type StatKind string

const (
	StatAttendance StatKind = "attendance"
	StatBoolean    StatKind = "boolean"
	StatSelect     StatKind = "select"
)

// OptionStat counts the answers given for one select option.
type OptionStat struct {
	Option    string `json:"option"`
	Responses int    `json:"responses"` // number of guests who picked the option
	Guests    int    `json:"guests"`    // weighted by party size
}

// StatCard is one dashboard card computed from guest responses.
// Filter carries the column id and value to apply when the card is clicked.
type StatCard struct {
	QuestionID string       `json:"questionId"`
	Label      string       `json:"label"`
	Kind       StatKind     `json:"kind"`
	Attending  int          `json:"attending,omitempty"` // attendance: guests, weighted by party size
	Declined   int          `json:"declined,omitempty"`  // attendance: one per declining response
	Pending    int          `json:"pending,omitempty"`   // attendance: responses without an answer
	Count      int          `json:"count"`               // boolean: weighted true count; select: total responses
	Options    []OptionStat `json:"options,omitempty"`
	Filter     StatFilter   `json:"filter"`
}

// StatFilter is the table filter a stats card drives.
type StatFilter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

package docstore

import (
	"errors"
	"testing"
	"time"
)

func TestSplitDocumentPath(t *testing.T) {
	tests := []struct {
		path       string
		collection string
		id         string
		wantErr    bool
	}{
		{path: "weddings/w1", collection: "weddings", id: "w1"},
		{path: "weddings/w1/invitees/g1", collection: "weddings/w1/invitees", id: "g1"},
		{path: "weddings", wantErr: true},
		{path: "weddings//invitees/g1", wantErr: true},
		{path: "", wantErr: true},
	}

	for _, tt := range tests {
		collection, id, err := SplitDocumentPath(tt.path)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("SplitDocumentPath(%q) err = %v, want ErrInvalidPath", tt.path, err)
			}
			continue
		}
		if err != nil || collection != tt.collection || id != tt.id {
			t.Errorf("SplitDocumentPath(%q) = %q, %q, %v", tt.path, collection, id, err)
		}
	}
}

func TestValidateCollectionPath(t *testing.T) {
	if err := ValidateCollectionPath("weddings/w1/invitees"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateCollectionPath("weddings/w1"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("err = %v, want ErrInvalidPath", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	type item struct {
		Name  string    `json:"name"`
		Count int       `json:"count"`
		At    time.Time `json:"at"`
	}

	at := time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)
	fields, err := Encode(item{Name: "DJ", Count: 2, At: at})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if fields["name"] != "DJ" {
		t.Fatalf("fields[name] = %v", fields["name"])
	}

	var got item
	if err := Decode(fields, &got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "DJ" || got.Count != 2 || !got.At.Equal(at) {
		t.Fatalf("Decode = %+v", got)
	}
}

func TestTime(t *testing.T) {
	at := time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)

	for _, v := range []any{at, &at, at.Format(time.RFC3339Nano)} {
		got, ok := Time(v)
		if !ok || !got.Equal(at) {
			t.Errorf("Time(%T) = %v, %v", v, got, ok)
		}
	}

	if _, ok := Time(42); ok {
		t.Error("Time(42) should fail")
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{"nested": map[string]any{"a": 1}, "list": []any{"x"}}
	cp := Clone(src)
	cp["nested"].(map[string]any)["a"] = 2
	cp["list"].([]any)[0] = "y"

	if src["nested"].(map[string]any)["a"] != 1 || src["list"].([]any)[0] != "x" {
		t.Fatal("Clone shares nested state with the source")
	}
}

func TestReplaceFrom(t *testing.T) {
	type item struct {
		Name  string `json:"name"`
		Notes string `json:"notes,omitempty"`
	}

	p, err := ReplaceFrom(item{Name: "Venue"}, map[string]any{"name": "old", "notes": "deposit paid"})
	if err != nil {
		t.Fatalf("ReplaceFrom: %v", err)
	}

	if op := p["name"]; op.Clear || op.Value != "Venue" {
		t.Errorf("name op = %+v", op)
	}
	if op := p["notes"]; !op.Clear {
		t.Errorf("notes op = %+v, want clear", op)
	}
}

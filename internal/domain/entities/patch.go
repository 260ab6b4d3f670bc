package entities

import "sort"

// FieldOp is a single field change of a Patch.
type FieldOp struct {
	Clear bool
	Value any
}

// Patch is a set of field changes applied to a document as one merge.
type Patch map[string]FieldOp

// Set records a field assignment.
func (p Patch) Set(field string, value any) Patch {
	p[field] = FieldOp{Value: value}
	return p
}

// Clear records a field removal.
func (p Patch) Clear(field string) Patch {
	p[field] = FieldOp{Clear: true}
	return p
}

// Sets returns the assigned fields and their values.
func (p Patch) Sets() map[string]any {
	out := make(map[string]any, len(p))
	for k, op := range p {
		if !op.Clear {
			out[k] = op.Value
		}
	}
	return out
}

// Clears returns the removed field names, sorted.
func (p Patch) Clears() []string {
	var out []string
	for k, op := range p {
		if op.Clear {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ApplyTo merges the patch into doc in place.
func (p Patch) ApplyTo(doc map[string]any) {
	for k, op := range p {
		if op.Clear {
			delete(doc, k)
			continue
		}
		doc[k] = op.Value
	}
}

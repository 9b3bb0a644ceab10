package bulkedit

import (
	"fmt"
)

// Field binds a schema to typed accessors on an entity type E.
type Field[E any] struct {
	Schema FieldSchema
	Get    func(E) Value
	Set    func(*E, Value)
}

// Selection is a set of entity identifiers.
type Selection map[string]struct{}

// NewSelection builds a Selection from ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ChangeDescriptor is one bulk edit request, consumed once per preview.
type ChangeDescriptor struct {
	Field    string
	Mode     Mode
	RawInput string
}

// MutationResult pairs an entity's value before and after a change.
type MutationResult struct {
	EntityID string `json:"entityId"`
	FieldKey string `json:"fieldKey"`
	Before   Value  `json:"before"`
	After    Value  `json:"after"`
}

// Summary counts how many selected entities a preview would change.
type Summary struct {
	Selected  int `json:"selected"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
}

// Editor holds the closed field table for one entity type.
type Editor[E any] struct {
	id     func(E) string
	fields map[string]Field[E]
	order  []string
}

// NewEditor validates the field table and returns an Editor.
func NewEditor[E any](id func(E) string, fields ...Field[E]) (*Editor[E], error) {
	if id == nil {
		return nil, fmt.Errorf("bulkedit: id accessor is required")
	}
	e := &Editor[E]{id: id, fields: make(map[string]Field[E], len(fields))}
	for _, f := range fields {
		if err := f.Schema.Check(); err != nil {
			return nil, err
		}
		if f.Get == nil || f.Set == nil {
			return nil, fmt.Errorf("bulkedit: field %s needs both accessors", f.Schema.Key)
		}
		if _, dup := e.fields[f.Schema.Key]; dup {
			return nil, fmt.Errorf("bulkedit: duplicate field %s", f.Schema.Key)
		}
		e.fields[f.Schema.Key] = f
		e.order = append(e.order, f.Schema.Key)
	}
	return e, nil
}

// Schema returns the schema registered under key.
func (e *Editor[E]) Schema(key string) (FieldSchema, bool) {
	f, ok := e.fields[key]
	return f.Schema, ok
}

// Schemas lists every field schema in registration order.
func (e *Editor[E]) Schemas() []FieldSchema {
	out := make([]FieldSchema, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.fields[key].Schema)
	}
	return out
}

// Preview computes the before/after pair for each selected entity, in input order.
// The raw input is parsed once; any failure rejects the whole batch.
func (e *Editor[E]) Preview(entities []E, selected Selection, desc ChangeDescriptor) ([]MutationResult, error) {
	results := []MutationResult{}
	if len(entities) == 0 || len(selected) == 0 {
		return results, nil
	}
	field, ok := e.fields[desc.Field]
	if !ok {
		return nil, &ResolveError{Field: desc.Field, Mode: desc.Mode, Err: ErrUnknownField}
	}
	adj, err := Parse(desc.RawInput, field.Schema.Kind, desc.Mode)
	if err != nil {
		return nil, err
	}
	for _, entity := range entities {
		id := e.id(entity)
		if !selected.Has(id) {
			continue
		}
		before := field.Get(entity)
		after, err := Resolve(field.Schema, desc.Mode, adj, before)
		if err != nil {
			return nil, err
		}
		results = append(results, MutationResult{
			EntityID: id,
			FieldKey: field.Schema.Key,
			Before:   before,
			After:    after,
		})
	}
	return results, nil
}

// Apply returns a copy of entities with each result's after-value finalised
// and written back. Results for ids not present in entities are ignored.
func (e *Editor[E]) Apply(entities []E, results []MutationResult) ([]E, error) {
	byID := make(map[string][]MutationResult, len(results))
	for _, r := range results {
		if _, ok := e.fields[r.FieldKey]; !ok {
			return nil, &ResolveError{Field: r.FieldKey, Err: ErrUnknownField}
		}
		byID[r.EntityID] = append(byID[r.EntityID], r)
	}
	out := make([]E, len(entities))
	copy(out, entities)
	for i := range out {
		for _, r := range byID[e.id(out[i])] {
			field := e.fields[r.FieldKey]
			field.Set(&out[i], field.Schema.Finalize(r.After))
		}
	}
	return out, nil
}

// Summarize counts changed and unchanged results.
func Summarize(results []MutationResult) Summary {
	s := Summary{Selected: len(results)}
	for _, r := range results {
		if r.Before.Equal(r.After) {
			s.Unchanged++
			continue
		}
		s.Changed++
	}
	return s
}

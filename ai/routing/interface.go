// Package routing turns free text into detected intents and extracted entities
// using weighted keyword and regular-expression rules.
package routing

import (
	"context"
	"slices"
)

// Classifier detects intents and entities in one message.
// Implementations are safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) *Detection
}

// ScoredIntent is a detected intent with its cumulative weighted score.
type ScoredIntent struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// EntityGroup holds the distinct lowercased values found for one entity type,
// in first-seen order.
type EntityGroup struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

// Entities is an ordered entity mapping. A type with zero matches is absent,
// never present with an empty value list.
type Entities []EntityGroup

// Get returns the values of typ, or nil when the type is absent.
func (e Entities) Get(typ string) []string {
	for _, g := range e {
		if g.Type == typ {
			return g.Values
		}
	}
	return nil
}

// Has reports whether at least one value of typ was extracted.
func (e Entities) Has(typ string) bool {
	return len(e.Get(typ)) > 0
}

// First returns the first extracted value of typ.
func (e Entities) First(typ string) (string, bool) {
	vals := e.Get(typ)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Only returns a mapping restricted to the given types, keeping extraction order.
func (e Entities) Only(types ...string) Entities {
	var out Entities
	for _, g := range e {
		if slices.Contains(types, g.Type) {
			out = append(out, g)
		}
	}
	return out
}

// Map flattens the entities into a plain map for serialization.
func (e Entities) Map() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, g := range e {
		out[g.Type] = g.Values
	}
	return out
}

// Detection is the request-scoped result of classifying one message.
type Detection struct {
	// Intents clearing the threshold, by descending score then declaration order.
	Intents  []ScoredIntent `json:"intents"`
	Entities Entities       `json:"entities"`
}

// IntentNames returns the detected intent names in ranking order.
func (d *Detection) IntentNames() []string {
	names := make([]string, 0, len(d.Intents))
	for _, in := range d.Intents {
		names = append(names, in.Name)
	}
	return names
}

// Empty reports whether no intent cleared the threshold.
func (d *Detection) Empty() bool {
	return len(d.Intents) == 0
}

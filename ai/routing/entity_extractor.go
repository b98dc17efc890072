package routing

import (
	"cmp"
	"slices"
	"strings"
)

// EntityExtractor collects typed entity values from a message.
type EntityExtractor struct {
	registry *IntentRegistry
}

// NewEntityExtractor creates an extractor over the compiled entity rules.
func NewEntityExtractor(registry *IntentRegistry) *EntityExtractor {
	return &EntityExtractor{registry: registry}
}

type entityHit struct {
	Span
	order int // pattern index, for stable ordering of identical spans
}

// Extract returns, per entity type, the distinct lowercased surface strings of
// every full match. Within a type, matches from all patterns are merged; when
// two matches overlap the earlier one wins, and on an equal start the longer
// one wins, so "react native" is not also reported as "react". Values keep
// the order in which they appear in the text. Types without matches are omitted.
func (x *EntityExtractor) Extract(text string) Entities {
	lower := strings.ToLower(text)

	var out Entities
	for _, ce := range x.registry.Entities() {
		var hits []entityHit
		for i, p := range ce.Patterns {
			for _, sp := range p.FindAll(lower) {
				hits = append(hits, entityHit{Span: sp, order: i})
			}
		}
		if len(hits) == 0 {
			continue
		}

		slices.SortFunc(hits, func(a, b entityHit) int {
			if c := cmp.Compare(a.Start, b.Start); c != 0 {
				return c
			}
			if c := cmp.Compare(b.End, a.End); c != 0 {
				return c
			}
			return cmp.Compare(a.order, b.order)
		})

		var values []string
		seen := make(map[string]bool)
		end := -1
		for _, h := range hits {
			if h.Start < end {
				continue
			}
			end = h.End
			v := strings.TrimSpace(lower[h.Start:h.End])
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		if len(values) > 0 {
			out = append(out, EntityGroup{Type: ce.Type, Values: values})
		}
	}
	return out
}

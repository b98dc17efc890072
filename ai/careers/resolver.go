package careers

import (
	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/ai/routing"
)

// Resolver picks response content for one intent from the response table.
type Resolver struct {
	responses knowledge.ResponseTable
	rnd       RandomSource
}

// NewResolver creates a resolver. A nil source selects DefaultRandom.
func NewResolver(responses knowledge.ResponseTable, rnd RandomSource) *Resolver {
	if rnd == nil {
		rnd = DefaultRandom()
	}
	return &Resolver{responses: responses, rnd: rnd}
}

// Lookup picks a response stored under responses[intent][key].
func (r *Resolver) Lookup(intent, key string) (string, bool) {
	candidates := r.responses[intent][key]
	if len(candidates) == 0 {
		return "", false
	}
	return pick(r.rnd, candidates), true
}

// ResolveSpecific tries every extracted value, type by type in extraction
// order, and returns the first entity-keyed response. It never falls back to
// the default entry.
func (r *Resolver) ResolveSpecific(intent string, entities routing.Entities) (string, bool) {
	for _, group := range entities {
		for _, value := range group.Values {
			if text, ok := r.Lookup(intent, value); ok {
				return text, true
			}
		}
	}
	return "", false
}

// Resolve returns the most specific response for intent: an entity-keyed
// entry, else the default entry. ok is false when the intent has no content.
func (r *Resolver) Resolve(intent string, entities routing.Entities) (string, bool) {
	if text, ok := r.ResolveSpecific(intent, entities); ok {
		return text, true
	}
	return r.Lookup(intent, knowledge.DefaultKey)
}

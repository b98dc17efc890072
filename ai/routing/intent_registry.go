package routing

import (
	"fmt"

	"github.com/hrygo/careerbot/ai/knowledge"
)

// WeightedMatcher is a compiled trigger.
type WeightedMatcher struct {
	Matcher Matcher
	Weight  int
}

// CompiledIntent is an intent rule ready for scoring.
type CompiledIntent struct {
	Name     string
	Triggers []WeightedMatcher
}

// CompiledEntity is an entity rule ready for extraction.
type CompiledEntity struct {
	Type     string
	Patterns []Matcher
}

// IntentRegistry holds every rule compiled once at startup, in declaration
// order. It is never modified after Compile returns.
type IntentRegistry struct {
	intents  []CompiledIntent
	entities []CompiledEntity
}

// Compile builds the registry from the knowledge rules. Any malformed pattern
// or duplicate intent name is returned as an error; callers treat it as fatal.
func Compile(intents []knowledge.IntentRule, entities []knowledge.EntityRule) (*IntentRegistry, error) {
	r := &IntentRegistry{
		intents:  make([]CompiledIntent, 0, len(intents)),
		entities: make([]CompiledEntity, 0, len(entities)),
	}

	seen := make(map[string]bool, len(intents))
	for _, rule := range intents {
		if seen[rule.Name] {
			return nil, fmt.Errorf("intent %q: %w", rule.Name, knowledge.ErrDuplicateIntent)
		}
		seen[rule.Name] = true

		ci := CompiledIntent{Name: rule.Name, Triggers: make([]WeightedMatcher, 0, len(rule.Triggers))}
		for _, trig := range rule.Triggers {
			if trig.Weight <= 0 {
				return nil, fmt.Errorf("intent %q: %w", rule.Name, knowledge.ErrInvalidWeight)
			}
			m, err := compileTrigger("intent "+rule.Name, trig)
			if err != nil {
				return nil, err
			}
			ci.Triggers = append(ci.Triggers, WeightedMatcher{Matcher: m, Weight: trig.Weight})
		}
		r.intents = append(r.intents, ci)
	}

	for _, rule := range entities {
		ce := CompiledEntity{Type: rule.Type, Patterns: make([]Matcher, 0, len(rule.Patterns))}
		for _, p := range rule.Patterns {
			m, err := NewRegexMatcher(p)
			if err != nil {
				return nil, &PatternError{Owner: "entity " + rule.Type, Pattern: p, Err: err}
			}
			ce.Patterns = append(ce.Patterns, m)
		}
		r.entities = append(r.entities, ce)
	}

	return r, nil
}

// CompileKnowledge compiles the rules of a knowledge base.
func CompileKnowledge(kb *knowledge.KnowledgeBase) (*IntentRegistry, error) {
	return Compile(kb.Intents, kb.Entities)
}

// Intents returns the compiled intents in declaration order.
func (r *IntentRegistry) Intents() []CompiledIntent {
	return r.intents
}

// Entities returns the compiled entity rules in declaration order.
func (r *IntentRegistry) Entities() []CompiledEntity {
	return r.entities
}

// IntentNames lists every declared intent.
func (r *IntentRegistry) IntentNames() []string {
	names := make([]string, 0, len(r.intents))
	for _, ci := range r.intents {
		names = append(names, ci.Name)
	}
	return names
}

package routing

import (
	"cmp"
	"slices"

	"github.com/hrygo/careerbot/ai/knowledge"
)

// RuleMatcher scores messages against the compiled intent rules.
// An intent's score is the sum over its triggers of weight × match count.
type RuleMatcher struct {
	registry  *IntentRegistry
	threshold int
}

// NewRuleMatcher creates a matcher. A threshold <= 0 selects knowledge.DefaultThreshold.
func NewRuleMatcher(registry *IntentRegistry, threshold int) *RuleMatcher {
	if threshold <= 0 {
		threshold = knowledge.DefaultThreshold
	}
	return &RuleMatcher{registry: registry, threshold: threshold}
}

// Threshold returns the minimum score for detection.
func (m *RuleMatcher) Threshold() int {
	return m.threshold
}

// Scores returns the raw score of every intent that matched at least once,
// in declaration order.
func (m *RuleMatcher) Scores(text string) []ScoredIntent {
	var scores []ScoredIntent
	for _, ci := range m.registry.Intents() {
		score := 0
		for _, trig := range ci.Triggers {
			score += trig.Weight * trig.Matcher.Count(text)
		}
		if score > 0 {
			scores = append(scores, ScoredIntent{Name: ci.Name, Score: score})
		}
	}
	return scores
}

// Match returns the intents whose score reaches the threshold, highest first.
// Equal scores keep declaration order. No match yields an empty result, not an error.
func (m *RuleMatcher) Match(text string) []ScoredIntent {
	return m.detect(m.Scores(text))
}

func (m *RuleMatcher) detect(scores []ScoredIntent) []ScoredIntent {
	detected := make([]ScoredIntent, 0, len(scores))
	for _, s := range scores {
		if s.Score >= m.threshold {
			detected = append(detected, s)
		}
	}
	slices.SortStableFunc(detected, func(a, b ScoredIntent) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return detected
}

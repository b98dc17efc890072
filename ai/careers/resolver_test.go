package careers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/ai/routing"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(knowledge.ResponseTable{
		"technology": {
			knowledge.DefaultKey: {"generic tech"},
			"react":              {"about react"},
			"vue":                {"about vue"},
		},
		"career_path": {
			"backend developer": {"backend roadmap"},
		},
	}, &sequenceRandom{seq: []int{0}})

	tests := []struct {
		name     string
		intent   string
		entities routing.Entities
		want     string
		wantOK   bool
	}{
		{
			name:     "first extracted value wins",
			intent:   "technology",
			entities: routing.Entities{{Type: "technology", Values: []string{"vue", "react"}}},
			want:     "about vue",
			wantOK:   true,
		},
		{
			name:   "types are tried in extraction order",
			intent: "technology",
			entities: routing.Entities{
				{Type: "role", Values: []string{"backend developer"}},
				{Type: "technology", Values: []string{"rust", "react"}},
			},
			want:   "about react",
			wantOK: true,
		},
		{
			name:     "default when no value is keyed",
			intent:   "technology",
			entities: routing.Entities{{Type: "technology", Values: []string{"cobol"}}},
			want:     "generic tech",
			wantOK:   true,
		},
		{
			name:   "default when no entities",
			intent: "technology",
			want:   "generic tech",
			wantOK: true,
		},
		{
			name:   "no default means no content",
			intent: "career_path",
			wantOK: false,
		},
		{
			name:   "unknown intent",
			intent: "weather",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.intent, tt.entities)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ResolveSpecific(t *testing.T) {
	r := NewResolver(knowledge.ResponseTable{
		"career_path": {knowledge.DefaultKey: {"generic"}},
	}, nil)

	_, ok := r.ResolveSpecific("career_path", routing.Entities{{Type: "role", Values: []string{"astronaut"}}})
	assert.False(t, ok, "specific lookup must not fall back to default")
}

func TestResolver_EveryCandidateReachable(t *testing.T) {
	candidates := []string{"Goodbye!", "Good night!", "See you later!"}
	r := NewResolver(knowledge.ResponseTable{
		"goodbye": {knowledge.DefaultKey: candidates},
	}, NewSeededRandom(7))

	seen := make(map[string]int)
	for i := 0; i < 300; i++ {
		text, ok := r.Resolve("goodbye", nil)
		assert.True(t, ok)
		seen[text]++
	}
	for _, c := range candidates {
		assert.Positive(t, seen[c], "candidate %q never selected", c)
	}
}

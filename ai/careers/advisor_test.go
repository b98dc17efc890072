package careers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/careerbot/ai/knowledge"
)

func newDefaultAdvisor(t *testing.T, seed uint64) *Advisor {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	return newTestAdvisor(t, kb, NewSeededRandom(seed))
}

func TestAdvisor_BackendDeveloperRoadmap(t *testing.T) {
	a := newDefaultAdvisor(t, 1)
	kb := a.Knowledge()

	reply := a.Respond(t.Context(), "How do I become a backend developer?")

	assert.Equal(t, OutcomeAnswered, reply.Outcome)
	assert.Equal(t, []string{"career_path"}, reply.Answered)
	assert.Equal(t, []string{"backend developer"}, reply.Entities.Get(EntityRole))
	assert.Contains(t, reply.Text, kb.Responses[IntentCareerPath]["backend developer"][0])
	assert.Contains(t, reply.Text, "**Backend Developer**\n")
	for _, generic := range kb.Responses[IntentCareerPath][knowledge.DefaultKey] {
		assert.NotContains(t, reply.Text, generic)
	}
}

func TestAdvisor_SkillsToRoles(t *testing.T) {
	a := newDefaultAdvisor(t, 1)

	reply := a.Respond(t.Context(), "I know Python and React, what career fits me?")

	assert.Equal(t, []string{"python", "react"}, reply.Entities.Get(EntityTechnology))
	require.NotEmpty(t, reply.Intents)
	assert.Equal(t, IntentRoleSuggestion, reply.Intents[0].Name)
	assert.Contains(t, reply.Text, "1. **Full Stack Developer** (2 matching skills")
	assert.Contains(t, reply.Text, "2. **Data Scientist** (1 matching skill")
	assert.Contains(t, reply.Text, "3. **Backend Developer** (1 matching skill")
	assert.NotContains(t, reply.Text, "\n4. ")
}

func TestAdvisor_Greeting(t *testing.T) {
	a := newDefaultAdvisor(t, 1)
	greetings := a.Knowledge().Responses["greeting"][knowledge.DefaultKey]

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		reply := a.Respond(t.Context(), "hi")
		require.Equal(t, OutcomeAnswered, reply.Outcome)
		assert.GreaterOrEqual(t, reply.Intents[0].Score, a.Classifier().Threshold())
		assert.Contains(t, greetings, reply.Text)
		seen[reply.Text] = true
	}
	assert.Len(t, seen, len(greetings))
}

func TestAdvisor_GenericHelp(t *testing.T) {
	a := newDefaultAdvisor(t, 1)

	reply := a.Respond(t.Context(), "asdkjfh qwoeiru")
	assert.Equal(t, OutcomeGenericHelp, reply.Outcome)
	assert.Equal(t, a.Knowledge().Messages.GenericHelp, reply.Text)
	assert.Empty(t, reply.Intents)
}

func TestAdvisor_TechnologyQuestion(t *testing.T) {
	a := newDefaultAdvisor(t, 1)
	kb := a.Knowledge()

	reply := a.Respond(t.Context(), "Tell me about C++ and c#")

	assert.Equal(t, OutcomeAnswered, reply.Outcome)
	assert.Equal(t, []string{IntentTechnology}, reply.Answered)
	assert.Equal(t, []string{"c++", "c#"}, reply.Entities.Get(EntityTechnology))
	assert.GreaterOrEqual(t, reply.Intents[0].Score, a.Classifier().Threshold())
	assert.Equal(t, kb.Responses[IntentTechnology]["c++"][0], reply.Text)
}

func TestAdvisor_UnknownRole(t *testing.T) {
	a := newDefaultAdvisor(t, 1)

	reply := a.Respond(t.Context(), "How do I become a web developer?")
	assert.Equal(t, OutcomeAnswered, reply.Outcome)
	assert.Contains(t, reply.Text, `"web developer"`)
}

func TestAdvisor_RoleAlias(t *testing.T) {
	a := newDefaultAdvisor(t, 1)

	reply := a.Respond(t.Context(), "How do I become an SRE engineer?")
	assert.Contains(t, reply.Text, "**Site Reliability Engineer (SRE)**")
}

func TestAdvisor_DeterministicWithSeed(t *testing.T) {
	messages := []string{"hi", "bye", "thanks!", "How do I become a cloud engineer? Should I learn AWS?"}

	run := func() []string {
		a := newDefaultAdvisor(t, 99)
		var out []string
		for i := 0; i < 5; i++ {
			for _, m := range messages {
				out = append(out, a.Respond(t.Context(), m).Text)
			}
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestAdvisor_DirectFlows(t *testing.T) {
	a := newDefaultAdvisor(t, 1)

	text, ok := a.SuggestRoles([]string{"terraform"})
	assert.True(t, ok)
	assert.Contains(t, text, "**DevOps Engineer**")

	text, ok = a.DescribeRole("Cloud Engineer")
	assert.True(t, ok)
	assert.Contains(t, text, "• Platforms: aws, azure, gcp")
}

package careers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/careerbot/ai/knowledge"
)

func newDefaultFinder(t *testing.T) *RoleFinder {
	t.Helper()
	kb, err := knowledge.Default()
	require.NoError(t, err)
	return NewRoleFinder(kb)
}

func TestNormalizeRoleKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Backend Developer", "backend_developer"},
		{"backend-developer", "backend_developer"},
		{"backend_developer", "backend_developer"},
		{"  Full - Stack   Developer ", "full_stack_developer"},
		{"UI/UX Designer", "ui/ux_designer"},
		{"DBA", "dba"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRoleKey(tt.in))
		})
	}
}

func TestRoleFinder_ProfileRoundTrip(t *testing.T) {
	f := newDefaultFinder(t)

	want, ok := f.Profile("backend_developer")
	require.True(t, ok)
	for _, form := range []string{"Backend Developer", "backend-developer", "backend_developer", "BACKEND DEVELOPER"} {
		got, ok := f.Profile(form)
		require.True(t, ok, form)
		assert.Same(t, want, got, form)
	}

	sre, ok := f.Profile("sre engineer")
	require.True(t, ok)
	assert.Equal(t, "site_reliability_engineer", sre.ID)
}

func TestRoleFinder_RoleSkills(t *testing.T) {
	f := newDefaultFinder(t)

	text, ok := f.RoleSkills("data scientist")
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "**Data Scientist**\n"))
	assert.Contains(t, text, "Key skills:")
	assert.Contains(t, text, "• Languages: python, r, sql")
	assert.Contains(t, text, "• Tools: jupyter, tableau, apache spark")

	text, ok = f.RoleSkills("web developer")
	assert.False(t, ok)
	assert.Contains(t, text, `"web developer"`)
}

func TestRenderRole(t *testing.T) {
	text := RenderRole(&knowledge.RoleProfile{
		DisplayName: "Go Developer",
		Description: "Writes Go.",
		Skills: []knowledge.SkillCategory{
			{Category: "Languages", Tokens: []string{"go"}},
			{Category: "Tools", Tokens: []string{"docker", "git"}},
		},
	})
	assert.Equal(t, "**Go Developer**\nWrites Go.\n\nKey skills:\n• Languages: go\n• Tools: docker, git", text)
}

func TestRoleFinder_Rank(t *testing.T) {
	f := newDefaultFinder(t)

	ranked := f.Rank([]string{"python", "react"})
	require.GreaterOrEqual(t, len(ranked), 3)
	assert.Equal(t, "full_stack_developer", ranked[0].Role.ID)
	assert.Equal(t, []string{"python", "react"}, ranked[0].Matched)
	assert.Equal(t, "data_scientist", ranked[1].Role.ID)
	assert.Equal(t, "backend_developer", ranked[2].Role.ID)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Count(), ranked[i].Count())
	}

	ranked = f.Rank([]string{"golang", "k8s", "golang"})
	require.GreaterOrEqual(t, len(ranked), 2)
	assert.Equal(t, "backend_developer", ranked[0].Role.ID)
	assert.Equal(t, []string{"go", "kubernetes"}, ranked[0].Matched)
	assert.Equal(t, "site_reliability_engineer", ranked[1].Role.ID)

	assert.Empty(t, f.Rank([]string{"cobol"}))
}

func TestRoleFinder_SuggestRoles(t *testing.T) {
	f := newDefaultFinder(t)

	text, ok := f.SuggestRoles([]string{"python", "react"})
	assert.True(t, ok)
	assert.Contains(t, text, "1. **Full Stack Developer** (2 matching skills: python, react)")
	assert.Contains(t, text, "2. **Data Scientist** (1 matching skill: python)")
	assert.Contains(t, text, "3. **Backend Developer** (1 matching skill: python)")
	assert.NotContains(t, text, "\n4. ")

	text, ok = f.SuggestRoles([]string{"cobol", "Fortran"})
	assert.False(t, ok)
	assert.Contains(t, text, "cobol, Fortran")
}

package careers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/careerbot/ai/knowledge"
)

func TestSkillIndex(t *testing.T) {
	roles := []knowledge.RoleProfile{
		{ID: "data_analyst", Skills: []knowledge.SkillCategory{
			{Category: "Core", Tokens: []string{"python", "sql"}},
			{Category: "Extra", Tokens: []string{"python"}},
		}},
		{ID: "backend_developer", Skills: []knowledge.SkillCategory{
			{Category: "Languages", Tokens: []string{"python", "go"}},
		}},
	}
	x := NewSkillIndex(roles, map[string]string{"Py": "python", "golang": "go"})

	tests := []struct {
		token string
		want  []string
	}{
		{"python", []string{"data_analyst", "backend_developer"}},
		{" PYTHON ", []string{"data_analyst", "backend_developer"}},
		{"py", []string{"data_analyst", "backend_developer"}},
		{"golang", []string{"backend_developer"}},
		{"sql", []string{"data_analyst"}},
		{"haskell", nil},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Roles(tt.token))
		})
	}
	assert.Equal(t, 3, x.Len())
}

func TestSkillIndex_ReturnsCopy(t *testing.T) {
	x := NewSkillIndex([]knowledge.RoleProfile{
		{ID: "a", Skills: []knowledge.SkillCategory{{Category: "c", Tokens: []string{"go"}}}},
	}, nil)

	got := x.Roles("go")
	got[0] = "mutated"
	assert.Equal(t, []string{"a"}, x.Roles("go"))
}

func TestSkillIndex_DefaultCatalog(t *testing.T) {
	kb, err := knowledge.Default()
	require.NoError(t, err)
	x := NewSkillIndex(kb.Roles, kb.SkillAliases)

	for _, role := range kb.Roles {
		for _, tok := range role.AllSkills() {
			assert.Contains(t, x.Roles(tok), role.ID)
		}
	}
	assert.Contains(t, x.Roles("k8s"), "devops_engineer")
	assert.Contains(t, x.Roles("js"), "frontend_developer")
}

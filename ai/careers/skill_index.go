package careers

import (
	"slices"
	"strings"

	"github.com/hrygo/careerbot/ai/knowledge"
)

// SkillIndex is the inverted index from skill token to the ids of the roles
// requiring it. It is built once and never updated; a catalog change needs a
// new index.
type SkillIndex struct {
	roles   map[string][]string
	aliases map[string]string
}

// NewSkillIndex flattens every role's skills (deduplicated within the role)
// and appends the role id to each token's entry, in catalog order.
func NewSkillIndex(roles []knowledge.RoleProfile, aliases map[string]string) *SkillIndex {
	x := &SkillIndex{
		roles:   make(map[string][]string),
		aliases: make(map[string]string, len(aliases)),
	}
	for alias, canonical := range aliases {
		x.aliases[strings.ToLower(alias)] = canonical
	}
	for i := range roles {
		for _, tok := range roles[i].AllSkills() {
			x.roles[tok] = append(x.roles[tok], roles[i].ID)
		}
	}
	return x
}

// Canonical lowercases a token and applies the skill alias table.
func (x *SkillIndex) Canonical(token string) string {
	tok := strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := x.aliases[tok]; ok {
		return canonical
	}
	return tok
}

// Roles returns the role ids requiring token. Unknown tokens yield nil.
func (x *SkillIndex) Roles(token string) []string {
	return slices.Clone(x.roles[x.Canonical(token)])
}

// Len returns the number of distinct skill tokens.
func (x *SkillIndex) Len() int {
	return len(x.roles)
}

package careers

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hrygo/careerbot/ai/knowledge"
)

// Entity categories read by the role/skill flows.
const (
	EntityRole            = "role"
	EntityTechnology      = "technology"
	EntityExperienceLevel = "experience_level"
)

// MaxSuggestedRoles bounds the Skills -> Role ranking.
const MaxSuggestedRoles = 3

const (
	rolePlaceholder   = "{role}"
	skillsPlaceholder = "{skills}"
)

// NormalizeRoleKey maps a role surface string to a catalog id: lowercase,
// with runs of spaces, hyphens and underscores collapsed into one underscore.
// "Backend Developer", "backend-developer" and "backend_developer" all map to
// "backend_developer".
func NormalizeRoleKey(value string) string {
	// A Caser is stateful, so each call gets its own.
	lower := cases.Lower(language.Und).String(value)
	parts := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	return strings.Join(parts, "_")
}

// RenderRole formats a catalog profile: name, description and every skill
// category with its tokens.
func RenderRole(p *knowledge.RoleProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", p.DisplayName)
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.Description)
	}
	if len(p.Skills) > 0 {
		b.WriteString("\n\nKey skills:")
		for _, cat := range p.Skills {
			fmt.Fprintf(&b, "\n• %s: %s", cat.Category, strings.Join(cat.Tokens, ", "))
		}
	}
	return b.String()
}

// RoleMatch is one ranked role of the Skills -> Role flow.
type RoleMatch struct {
	Role    *knowledge.RoleProfile
	Matched []string // canonical skills the role requires
}

// Count is the number of matching skills.
func (m RoleMatch) Count() int {
	return len(m.Matched)
}

// RoleFinder runs the two role/skill flows against the catalog.
type RoleFinder struct {
	kb    *knowledge.KnowledgeBase
	index *SkillIndex
}

// NewRoleFinder builds the skill index for kb.
func NewRoleFinder(kb *knowledge.KnowledgeBase) *RoleFinder {
	return &RoleFinder{
		kb:    kb,
		index: NewSkillIndex(kb.Roles, kb.SkillAliases),
	}
}

// Index exposes the skill index.
func (f *RoleFinder) Index() *SkillIndex {
	return f.index
}

// Profile resolves a role surface value to its catalog profile.
func (f *RoleFinder) Profile(value string) (*knowledge.RoleProfile, bool) {
	return f.kb.Role(NormalizeRoleKey(value))
}

// RoleSkills renders the profile of a role, or an apology naming the role
// when it is not in the catalog.
func (f *RoleFinder) RoleSkills(value string) (string, bool) {
	if p, ok := f.Profile(value); ok {
		return RenderRole(p), true
	}
	return f.roleNotFound(value), false
}

// Rank tallies one point per role per mentioned skill and orders roles by
// tally, keeping catalog order between equal tallies.
func (f *RoleFinder) Rank(skills []string) []RoleMatch {
	matched := make(map[string][]string)
	seen := make(map[string]bool)
	for _, s := range skills {
		canonical := f.index.Canonical(s)
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		for _, id := range f.index.Roles(canonical) {
			matched[id] = append(matched[id], canonical)
		}
	}

	var out []RoleMatch
	for i := range f.kb.Roles {
		role := &f.kb.Roles[i]
		if m := matched[role.ID]; len(m) > 0 {
			out = append(out, RoleMatch{Role: role, Matched: m})
		}
	}
	slices.SortStableFunc(out, func(a, b RoleMatch) int {
		return cmp.Compare(b.Count(), a.Count())
	})
	return out
}

// SuggestRoles renders the top ranked roles with their match counts, or a
// no-match message repeating the skills as the user gave them.
func (f *RoleFinder) SuggestRoles(skills []string) (string, bool) {
	ranked := f.Rank(skills)
	if len(ranked) == 0 {
		return f.noRoleMatch(skills), false
	}
	if len(ranked) > MaxSuggestedRoles {
		ranked = ranked[:MaxSuggestedRoles]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your skills (%s), these roles could suit you:", strings.Join(skills, ", "))
	for i, m := range ranked {
		noun := "skills"
		if m.Count() == 1 {
			noun = "skill"
		}
		fmt.Fprintf(&b, "\n%d. **%s** (%d matching %s: %s)", i+1, m.Role.DisplayName, m.Count(), noun, strings.Join(m.Matched, ", "))
		if m.Role.Description != "" {
			fmt.Fprintf(&b, "\n   %s", m.Role.Description)
		}
	}
	b.WriteString("\n\nAsk me about any of these roles to see the full skill set.")
	return b.String(), true
}

func (f *RoleFinder) roleNotFound(value string) string {
	tmpl := f.kb.Messages.RoleNotFound
	if tmpl == "" {
		tmpl = `Sorry, I don't have information about the role "{role}" yet.`
	}
	return strings.ReplaceAll(tmpl, rolePlaceholder, value)
}

func (f *RoleFinder) noRoleMatch(skills []string) string {
	tmpl := f.kb.Messages.NoRoleMatch
	if tmpl == "" {
		tmpl = "I couldn't find a role matching the skills you mentioned: {skills}."
	}
	return strings.ReplaceAll(tmpl, skillsPlaceholder, strings.Join(skills, ", "))
}

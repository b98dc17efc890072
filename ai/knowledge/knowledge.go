// Package knowledge defines the static knowledge payload of the career bot:
// intent rules, entity rules, the role catalog, response tables, connector
// templates and fixed fallback messages.
//
// A KnowledgeBase is decoded once at startup and treated as read-only
// afterwards; every consumer receives it by pointer and never mutates it.
package knowledge

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultThreshold is the minimum cumulative score for an intent to be detected.
const DefaultThreshold = 3

// DefaultKey is the response-table key used when no entity-specific entry exists.
const DefaultKey = "default"

// IntentPlaceholder is substituted with the human-readable intent name in connectors.
const IntentPlaceholder = "{intent}"

// Trigger kinds.
const (
	KindRegex   = "regex"
	KindKeyword = "keyword"
)

// Configuration errors. All of them are fatal at startup.
var (
	ErrDuplicateIntent = errors.New("duplicate intent name")
	ErrInvalidWeight   = errors.New("trigger weight must be positive")
	ErrEmptyPattern    = errors.New("empty pattern")
	ErrUnknownKind     = errors.New("unknown trigger kind")
	ErrDuplicateRole   = errors.New("duplicate role id")
	ErrInvalidSkill    = errors.New("skill tokens must be non-empty lowercase")
	ErrEmptyResponses  = errors.New("response list must not be empty")
	ErrBadConnector    = errors.New("connector must contain " + IntentPlaceholder)
	ErrMissingMessage  = errors.New("required message missing")
	ErrUnknownRole     = errors.New("alias points to unknown role")
)

// Trigger is one weighted literal or regular-expression rule.
type Trigger struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind,omitempty"` // regex (default) or keyword
	Weight  int    `yaml:"weight"`
}

// IsKeyword reports whether the trigger is a literal substring.
func (t Trigger) IsKeyword() bool {
	return strings.EqualFold(t.Kind, KindKeyword)
}

// IntentRule maps an intent name to its weighted triggers.
type IntentRule struct {
	Name     string    `yaml:"name"`
	Triggers []Trigger `yaml:"triggers"`
}

// EntityRule lists the patterns of one entity category.
type EntityRule struct {
	Type     string   `yaml:"type"`
	Patterns []string `yaml:"patterns"`
}

// SkillCategory is an ordered group of skill tokens inside a role profile.
type SkillCategory struct {
	Category string   `yaml:"category"`
	Tokens   []string `yaml:"tokens"`
}

// RoleProfile describes one role of the catalog.
type RoleProfile struct {
	ID          string          `yaml:"id"`
	DisplayName string          `yaml:"display_name"`
	Description string          `yaml:"description"`
	Skills      []SkillCategory `yaml:"skills"`
}

// AllSkills returns the role's skill tokens across categories, de-duplicated,
// in first-seen order.
func (r *RoleProfile) AllSkills() []string {
	seen := make(map[string]bool)
	var out []string
	for _, cat := range r.Skills {
		for _, tok := range cat.Tokens {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

// ResponseTable maps intent -> key (lowercased entity value or "default") -> candidates.
type ResponseTable map[string]map[string][]string

// Messages are the fixed fallback texts.
type Messages struct {
	GenericHelp  string `yaml:"generic_help"`
	NotSure      string `yaml:"not_sure"`
	RoleNotFound string `yaml:"role_not_found"` // may contain {role}
	NoRoleMatch  string `yaml:"no_role_match"`  // may contain {skills}
}

// KnowledgeBase is the complete immutable configuration payload.
type KnowledgeBase struct {
	// MinVersion is the oldest bot release able to serve this payload.
	MinVersion   string            `yaml:"min_version,omitempty"`
	Threshold    int               `yaml:"threshold"`
	Intents      []IntentRule      `yaml:"intents"`
	Entities     []EntityRule      `yaml:"entities"`
	Roles        []RoleProfile     `yaml:"roles"`
	SkillAliases map[string]string `yaml:"skill_aliases"`
	RoleAliases  map[string]string `yaml:"role_aliases"`
	Responses    ResponseTable     `yaml:"responses"`
	Connectors   []string          `yaml:"connectors"`
	Messages     Messages          `yaml:"messages"`
}

// EffectiveThreshold returns the configured threshold or DefaultThreshold.
func (kb *KnowledgeBase) EffectiveThreshold() int {
	if kb.Threshold > 0 {
		return kb.Threshold
	}
	return DefaultThreshold
}

// Role returns the catalog entry for a normalized role id, following
// role_aliases when the id itself is not in the catalog.
func (kb *KnowledgeBase) Role(id string) (*RoleProfile, bool) {
	if p, ok := kb.role(id); ok {
		return p, true
	}
	if target, ok := kb.RoleAliases[id]; ok {
		return kb.role(target)
	}
	return nil, false
}

func (kb *KnowledgeBase) role(id string) (*RoleProfile, bool) {
	for i := range kb.Roles {
		if kb.Roles[i].ID == id {
			return &kb.Roles[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of the payload. Pattern syntax is
// checked later by the pattern compiler.
func (kb *KnowledgeBase) Validate() error {
	if kb.Threshold < 0 {
		return fmt.Errorf("threshold %d: must not be negative", kb.Threshold)
	}

	intents := make(map[string]bool, len(kb.Intents))
	for _, rule := range kb.Intents {
		if rule.Name == "" {
			return fmt.Errorf("intent rule without name: %w", ErrMissingMessage)
		}
		if intents[rule.Name] {
			return fmt.Errorf("intent %q: %w", rule.Name, ErrDuplicateIntent)
		}
		intents[rule.Name] = true
		for i, trig := range rule.Triggers {
			if strings.TrimSpace(trig.Pattern) == "" {
				return fmt.Errorf("intent %q trigger %d: %w", rule.Name, i, ErrEmptyPattern)
			}
			if trig.Weight <= 0 {
				return fmt.Errorf("intent %q trigger %d: %w", rule.Name, i, ErrInvalidWeight)
			}
			if trig.Kind != "" && !strings.EqualFold(trig.Kind, KindRegex) && !trig.IsKeyword() {
				return fmt.Errorf("intent %q trigger %d kind %q: %w", rule.Name, i, trig.Kind, ErrUnknownKind)
			}
		}
	}

	for _, rule := range kb.Entities {
		for i, p := range rule.Patterns {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("entity %q pattern %d: %w", rule.Type, i, ErrEmptyPattern)
			}
		}
	}

	roles := make(map[string]bool, len(kb.Roles))
	for _, role := range kb.Roles {
		if roles[role.ID] {
			return fmt.Errorf("role %q: %w", role.ID, ErrDuplicateRole)
		}
		roles[role.ID] = true
		for _, cat := range role.Skills {
			for _, tok := range cat.Tokens {
				if tok == "" || tok != strings.ToLower(tok) {
					return fmt.Errorf("role %q skill %q: %w", role.ID, tok, ErrInvalidSkill)
				}
			}
		}
	}

	for alias, target := range kb.RoleAliases {
		if !roles[target] {
			return fmt.Errorf("role alias %q -> %q: %w", alias, target, ErrUnknownRole)
		}
	}
	for alias, canonical := range kb.SkillAliases {
		if canonical == "" || canonical != strings.ToLower(canonical) {
			return fmt.Errorf("skill alias %q -> %q: %w", alias, canonical, ErrInvalidSkill)
		}
	}

	for intent, table := range kb.Responses {
		for key, candidates := range table {
			if len(candidates) == 0 {
				return fmt.Errorf("responses[%s][%s]: %w", intent, key, ErrEmptyResponses)
			}
		}
	}

	for _, c := range kb.Connectors {
		if !strings.Contains(c, IntentPlaceholder) {
			return fmt.Errorf("connector %q: %w", c, ErrBadConnector)
		}
	}

	if kb.Messages.GenericHelp == "" {
		return fmt.Errorf("messages.generic_help: %w", ErrMissingMessage)
	}
	if kb.Messages.NotSure == "" {
		return fmt.Errorf("messages.not_sure: %w", ErrMissingMessage)
	}

	// Missing defaults degrade gracefully, so they only warrant a warning.
	for _, rule := range kb.Intents {
		if len(kb.Responses[rule.Name][DefaultKey]) == 0 {
			slog.Warn("knowledge: intent has no default response", "intent", rule.Name)
		}
	}

	return nil
}

package careers

import (
	"github.com/hrygo/careerbot/ai/routing"
)

// Intents with dedicated handlers.
const (
	IntentCareerPath     = "career_path"
	IntentRoleSuggestion = "role_suggestion"
	IntentTechnology     = "technology"
)

// Handler produces the content for one detected intent. ok is false when the
// intent has nothing to say, in which case the composer skips it.
type Handler func(intent string, entities routing.Entities) (text string, ok bool)

// handlers routes each intent to the flow that reads the entity types it
// cares about. Role -> Skills is gated on career_path and Skills -> Role on
// role_suggestion; the flows are never merged.
func (c *Composer) handlers() map[string]Handler {
	return map[string]Handler{
		IntentCareerPath:     c.careerPath,
		IntentRoleSuggestion: c.roleSuggestion,
		IntentTechnology:     c.technology,
	}
}

func (c *Composer) handle(intent string, entities routing.Entities) (string, bool) {
	if h, ok := c.byIntent[intent]; ok {
		return h(intent, entities)
	}
	return c.resolver.Resolve(intent, entities)
}

// careerPath answers with the role roadmap (if any) followed by the catalog
// profile. An unknown role with no roadmap gets an apology naming it.
func (c *Composer) careerPath(intent string, entities routing.Entities) (string, bool) {
	role, ok := entities.First(EntityRole)
	if !ok {
		return c.resolver.Resolve(intent, entities.Only(EntityRole))
	}

	roadmap, hasRoadmap := c.resolver.Lookup(intent, role)
	profile, hasProfile := c.finder.RoleSkills(role)
	switch {
	case hasRoadmap && hasProfile:
		return roadmap + "\n\n" + profile, true
	case hasRoadmap:
		return roadmap, true
	default:
		// Either the rendered profile or the role-not-found apology.
		return profile, true
	}
}

func (c *Composer) roleSuggestion(intent string, entities routing.Entities) (string, bool) {
	skills := entities.Get(EntityTechnology)
	if len(skills) == 0 {
		return c.resolver.Resolve(intent, entities)
	}
	text, _ := c.finder.SuggestRoles(skills)
	return text, true
}

func (c *Composer) technology(intent string, entities routing.Entities) (string, bool) {
	return c.resolver.Resolve(intent, entities.Only(EntityTechnology))
}

package careers

import (
	"strings"

	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/ai/routing"
)

// Outcome is the terminal state of composing one reply.
type Outcome string

const (
	// OutcomeAnswered means at least one intent produced content.
	OutcomeAnswered Outcome = "answered"
	// OutcomeGenericHelp means no intent cleared the threshold.
	OutcomeGenericHelp Outcome = "generic_help"
	// OutcomeNotSure means intents were detected but none produced content.
	OutcomeNotSure Outcome = "not_sure"
)

// Composer merges the answers of every detected intent into one reply.
type Composer struct {
	kb       *knowledge.KnowledgeBase
	resolver *Resolver
	finder   *RoleFinder
	rnd      RandomSource
	byIntent map[string]Handler
}

// NewComposer creates a composer. A nil source selects DefaultRandom.
func NewComposer(kb *knowledge.KnowledgeBase, finder *RoleFinder, rnd RandomSource) *Composer {
	if rnd == nil {
		rnd = DefaultRandom()
	}
	c := &Composer{
		kb:       kb,
		resolver: NewResolver(kb.Responses, rnd),
		finder:   finder,
		rnd:      rnd,
	}
	c.byIntent = c.handlers()
	return c
}

// Composition is the composed reply and the intents that contributed to it.
type Composition struct {
	Text     string
	Outcome  Outcome
	Answered []string
}

// Compose builds the reply for intents ranked by score. The first intent with
// content opens the reply; each later one is appended after a randomly chosen
// connector naming it. Intents without content are skipped and consume no
// connector.
func (c *Composer) Compose(intents []routing.ScoredIntent, entities routing.Entities) Composition {
	if len(intents) == 0 {
		return Composition{Text: c.kb.Messages.GenericHelp, Outcome: OutcomeGenericHelp}
	}

	var b strings.Builder
	var answered []string
	for _, in := range intents {
		content, ok := c.handle(in.Name, entities)
		if !ok {
			continue
		}
		if len(answered) > 0 {
			b.WriteString("\n\n")
			if connector := c.connector(in.Name); connector != "" {
				b.WriteString(connector)
				b.WriteString(" ")
			}
		}
		b.WriteString(content)
		answered = append(answered, in.Name)
	}

	if len(answered) == 0 {
		return Composition{Text: c.kb.Messages.NotSure, Outcome: OutcomeNotSure}
	}
	return Composition{Text: b.String(), Outcome: OutcomeAnswered, Answered: answered}
}

func (c *Composer) connector(intent string) string {
	if len(c.kb.Connectors) == 0 {
		return ""
	}
	tmpl := pick(c.rnd, c.kb.Connectors)
	return strings.ReplaceAll(tmpl, knowledge.IntentPlaceholder, HumanizeIntent(intent))
}

// HumanizeIntent renders an intent name for users: "career_path" -> "career path".
func HumanizeIntent(intent string) string {
	return strings.ReplaceAll(intent, "_", " ")
}

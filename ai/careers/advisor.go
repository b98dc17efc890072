// Package careers composes IT career advice from classified messages: the
// skill/role index, response resolution with fallback, the role and skill
// flows, and multi-intent reply composition.
package careers

import (
	"context"

	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/ai/routing"
)

// Options tune an Advisor.
type Options struct {
	// Threshold overrides the knowledge threshold when positive.
	Threshold int
	// Random drives reply variety; nil selects DefaultRandom.
	Random RandomSource
	// CacheSize enables the classification cache when positive.
	CacheSize int
}

// Reply is the answer to one message plus the detection that produced it.
type Reply struct {
	Text     string
	Outcome  Outcome
	Intents  []routing.ScoredIntent
	Entities routing.Entities
	Answered []string
}

// Advisor is the message-in, reply-out facade. It holds no per-message state
// and is safe for concurrent use.
type Advisor struct {
	kb         *knowledge.KnowledgeBase
	classifier *routing.Service
	finder     *RoleFinder
	composer   *Composer
}

// NewAdvisor compiles the knowledge rules and builds the skill index.
// An error means the configuration is unusable and startup must stop.
func NewAdvisor(kb *knowledge.KnowledgeBase, opts Options) (*Advisor, error) {
	classifier, err := routing.NewService(routing.Config{
		Knowledge: kb,
		Threshold: opts.Threshold,
		CacheSize: opts.CacheSize,
	})
	if err != nil {
		return nil, err
	}
	finder := NewRoleFinder(kb)
	return &Advisor{
		kb:         kb,
		classifier: classifier,
		finder:     finder,
		composer:   NewComposer(kb, finder, opts.Random),
	}, nil
}

// Knowledge returns the knowledge base the advisor was built from.
func (a *Advisor) Knowledge() *knowledge.KnowledgeBase {
	return a.kb
}

// Classifier exposes the underlying classifier.
func (a *Advisor) Classifier() *routing.Service {
	return a.classifier
}

// Respond classifies text and composes the reply.
func (a *Advisor) Respond(ctx context.Context, text string) *Reply {
	d := a.classifier.Classify(ctx, text)
	c := a.composer.Compose(d.Intents, d.Entities)
	return &Reply{
		Text:     c.Text,
		Outcome:  c.Outcome,
		Intents:  d.Intents,
		Entities: d.Entities,
		Answered: c.Answered,
	}
}

// SuggestRoles runs the Skills -> Role flow on an explicit skill list.
func (a *Advisor) SuggestRoles(skills []string) (string, bool) {
	return a.finder.SuggestRoles(skills)
}

// DescribeRole runs the Role -> Skills flow on a role name.
func (a *Advisor) DescribeRole(role string) (string, bool) {
	return a.finder.RoleSkills(role)
}

package routing

import (
	"context"
	"time"

	"github.com/hrygo/careerbot/ai/internal/strutil"
	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/ai/observability/logging"
)

// previewLen bounds the message excerpt written to debug logs.
const previewLen = 80

// Service is the rule-based classifier: intent scoring plus entity extraction.
// All state is built in NewService and read-only afterwards.
type Service struct {
	registry  *IntentRegistry
	matcher   *RuleMatcher
	extractor *EntityExtractor
	cache     *DetectionCache // nil when disabled
}

// Config contains the configuration for the classifier.
type Config struct {
	Knowledge *knowledge.KnowledgeBase
	// Threshold overrides the payload threshold when positive.
	Threshold int
	// CacheSize enables a detection cache of that many entries when positive.
	CacheSize int
	CacheTTL  time.Duration
}

// NewService compiles the knowledge rules. A compile error must stop startup.
func NewService(cfg Config) (*Service, error) {
	registry, err := CompileKnowledge(cfg.Knowledge)
	if err != nil {
		return nil, err
	}

	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = cfg.Knowledge.EffectiveThreshold()
	}

	s := &Service{
		registry:  registry,
		matcher:   NewRuleMatcher(registry, threshold),
		extractor: NewEntityExtractor(registry),
	}
	if cfg.CacheSize > 0 {
		s.cache = NewDetectionCache(cfg.CacheSize, cfg.CacheTTL)
	}
	return s, nil
}

// Registry exposes the compiled rules.
func (s *Service) Registry() *IntentRegistry {
	return s.registry
}

// Threshold returns the effective detection threshold.
func (s *Service) Threshold() int {
	return s.matcher.Threshold()
}

// CacheStats reports detection cache counters; ok is false when caching is off.
func (s *Service) CacheStats() (stats CacheStats, ok bool) {
	if s.cache == nil {
		return CacheStats{}, false
	}
	return s.cache.Stats(), true
}

// Classify detects intents and extracts entities. Detection details are
// logged at debug level and never returned to end users by callers.
// The returned detection must be treated as read-only.
func (s *Service) Classify(ctx context.Context, text string) *Detection {
	if s.cache != nil {
		if d, ok := s.cache.Get(text); ok {
			logging.FromContext(ctx).Debug("classification cache hit", "intents", d.IntentNames())
			return d
		}
	}

	start := time.Now()

	scores := s.matcher.Scores(text)
	d := &Detection{
		Intents:  s.matcher.detect(scores),
		Entities: s.extractor.Extract(text),
	}

	logger := logging.FromContext(ctx)
	if logger.Enabled(logging.LevelDebug) {
		logger.Debug("message classified",
			"text", strutil.Truncate(strutil.CollapseSpace(text), previewLen),
			"scores", scores,
			"threshold", s.matcher.Threshold(),
			"intents", d.IntentNames(),
			"entities", d.Entities.Map(),
			"duration", time.Since(start),
		)
	}

	if s.cache != nil {
		s.cache.Set(text, d)
	}
	return d
}

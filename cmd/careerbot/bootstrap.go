package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/ai/knowledge"
	"github.com/hrygo/careerbot/ai/metrics"
	"github.com/hrygo/careerbot/ai/observability/logging"
	"github.com/hrygo/careerbot/internal/profile"
	"github.com/hrygo/careerbot/internal/version"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels/telegram"
	"github.com/hrygo/careerbot/store"
	"github.com/hrygo/careerbot/store/db"
)

// loadKnowledge reads the configured payload, or the embedded one, and checks
// that this binary is new enough to serve it.
func loadKnowledge(p *profile.Profile) (*knowledge.KnowledgeBase, error) {
	var (
		kb  *knowledge.KnowledgeBase
		err error
	)
	if p.KnowledgePath != "" {
		kb, err = knowledge.Load(p.KnowledgePath)
	} else {
		kb, err = knowledge.Default()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load knowledge")
	}
	if err := checkKnowledgeVersion(p.Version, kb); err != nil {
		return nil, err
	}
	return kb, nil
}

func checkKnowledgeVersion(current string, kb *knowledge.KnowledgeBase) error {
	if kb.MinVersion == "" {
		return nil
	}
	if !version.IsValid(kb.MinVersion) {
		return errors.Errorf("knowledge min_version %q is not a semantic version", kb.MinVersion)
	}
	if !version.Satisfies(current, kb.MinVersion) {
		return errors.Errorf("knowledge requires careerbot %s or newer, running %s", kb.MinVersion, current)
	}
	return nil
}

// newAdvisor builds the advisor from the profile's knowledge and reply settings.
func newAdvisor(p *profile.Profile) (*careers.Advisor, error) {
	kb, err := loadKnowledge(p)
	if err != nil {
		return nil, err
	}

	rnd := careers.DefaultRandom()
	if p.Seed != 0 {
		rnd = careers.NewSeededRandom(p.Seed)
	}
	advisor, err := careers.NewAdvisor(kb, careers.Options{
		Threshold: p.Threshold,
		Random:    rnd,
		CacheSize: p.CacheSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile knowledge")
	}
	logging.Info("knowledge loaded",
		"intents", len(kb.Intents),
		"entity_types", len(kb.Entities),
		"roles", len(kb.Roles),
		"threshold", advisor.Classifier().Threshold(),
	)
	return advisor, nil
}

// openAuditStore opens and migrates the audit database when auditing is on.
// The returned store is nil when auditing is off; the close func is never nil.
func openAuditStore(ctx context.Context, p *profile.Profile) (*store.Store, func(), error) {
	if !p.AuditEnabled {
		return nil, func() {}, nil
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, nil, err
	}
	s := store.New(driver, p)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, nil, errors.Wrap(err, "failed to migrate audit log")
	}
	logging.Info("audit log enabled", "driver", p.Driver)

	return s, func() {
		if err := s.Close(); err != nil {
			logging.Warn("failed to close audit log", "error", err)
		}
	}, nil
}

// newChannelRouter registers the chat channels the profile enables.
func newChannelRouter(p *profile.Profile) (*channels.ChannelRouter, error) {
	router := channels.NewChannelRouter()
	if !p.HasTelegram() {
		logging.Warn("no telegram token configured, serving the HTTP API only")
		return router, nil
	}

	ch, err := telegram.NewTelegramChannel(&telegram.TelegramConfig{
		BotToken:      p.TelegramToken,
		Mode:          p.TelegramMode,
		WebhookURL:    p.WebhookURL,
		WebhookSecret: p.WebhookSecret,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to start telegram")
	}
	router.Register(ch)
	return router, nil
}

func newExporter() *metrics.PrometheusExporter {
	return metrics.NewPrometheusExporter(metrics.DefaultConfig())
}

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hrygo/careerbot/ai/careers"
	"github.com/hrygo/careerbot/ai/metrics"
	"github.com/hrygo/careerbot/ai/observability/logging"
	"github.com/hrygo/careerbot/plugin/chat_apps"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
	"github.com/hrygo/careerbot/store"
)

// DefaultSendTimeout bounds one outbound send, retries included.
const DefaultSendTimeout = 30 * time.Second

// Auditor persists classification records. *store.Store satisfies it.
type Auditor interface {
	CreateClassificationLog(ctx context.Context, create *store.ClassificationLog) (*store.ClassificationLog, error)
}

// DispatcherConfig tunes message handling.
type DispatcherConfig struct {
	MaxConcurrentMessages int
	SendRatePerSecond     float64
	SendTimeout           time.Duration
}

// Dispatcher moves messages from channels through the advisor and back.
// Each message is handled independently; nothing is remembered between them.
type Dispatcher struct {
	advisor  *careers.Advisor
	channels *channels.ChannelRouter
	metrics  metrics.Recorder
	audit    Auditor
	limiter  *rate.Limiter
	cfg      DispatcherConfig
}

// NewDispatcher creates a dispatcher. recorder and audit may be nil.
func NewDispatcher(advisor *careers.Advisor, router *channels.ChannelRouter, recorder metrics.Recorder, audit Auditor, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxConcurrentMessages <= 0 {
		cfg.MaxConcurrentMessages = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	limit, burst := rate.Inf, 1
	if cfg.SendRatePerSecond > 0 {
		limit = rate.Limit(cfg.SendRatePerSecond)
		burst = max(1, int(cfg.SendRatePerSecond))
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if router == nil {
		router = channels.NewChannelRouter()
	}
	return &Dispatcher{
		advisor:  advisor,
		channels: router,
		metrics:  recorder,
		audit:    audit,
		limiter:  rate.NewLimiter(limit, burst),
		cfg:      cfg,
	}
}

// Run listens on every registered channel until ctx is cancelled or all
// streams end. A channel that fails to start stops the others.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, ch := range d.channels.Channels() {
		g.Go(func() error {
			return d.serve(ctx, ch)
		})
	}
	return g.Wait()
}

func (d *Dispatcher) serve(ctx context.Context, ch channels.ChatChannel) error {
	stream, err := ch.Listen(ctx)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", ch.Name(), err)
	}
	logging.Info("channel listening", "platform", ch.Name())

	var workers errgroup.Group
	workers.SetLimit(d.cfg.MaxConcurrentMessages)
	defer func() {
		_ = workers.Wait()
		logging.Info("channel stopped", "platform", ch.Name())
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-stream:
			if !ok {
				return nil
			}
			workers.Go(func() error {
				d.Handle(ctx, ch, msg)
				return nil
			})
		}
	}
}

// Handle answers one inbound message on ch. Failures are logged and counted;
// the user never sees technical errors.
func (d *Dispatcher) Handle(ctx context.Context, ch channels.ChatChannel, msg *chat_apps.IncomingMessage) {
	if msg == nil {
		return
	}
	if msg.PlatformUserID != "" && msg.PlatformUserID == ch.SelfID() {
		return
	}
	if !msg.IsText() || strings.TrimSpace(msg.Content) == "" {
		logging.Debug("ignoring non-text message", "platform", msg.Platform, "type", msg.Type.String())
		return
	}

	requestID := uuid.NewString()
	logger := logging.FromContext(ctx).WithFields(map[string]any{
		"request_id": requestID,
		"platform":   string(msg.Platform),
		"chat_id":    msg.PlatformChatID,
	})
	ctx = logging.ToContext(ctx, logger)

	reply := d.Answer(ctx, msg.Platform, requestID, msg.Content)

	// Replies still go out while shutting down.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.SendTimeout)
	defer cancel()

	out := &chat_apps.OutgoingMessage{
		PlatformChatID: msg.PlatformChatID,
		ReplyTo:        msg.MessageID,
		Type:           chat_apps.MessageTypeText,
		Content:        reply.Text,
	}
	if err := d.send(sendCtx, ch, out); err != nil {
		d.metrics.RecordSendError(string(msg.Platform))
		logger.Warn("failed to send reply", "error", err)
		return
	}
	logger.Debug("reply sent", "length", len(reply.Text))
}

// Answer classifies text and composes the reply, recording metrics and the
// audit trail. It is shared by chat channels and the HTTP API.
func (d *Dispatcher) Answer(ctx context.Context, platform chat_apps.Platform, requestID, text string) *careers.Reply {
	d.metrics.IncInFlight()
	defer d.metrics.DecInFlight()

	start := time.Now()
	reply := d.advisor.Respond(ctx, text)
	latency := time.Since(start)

	intents := make([]string, 0, len(reply.Intents))
	for _, in := range reply.Intents {
		intents = append(intents, in.Name)
	}
	entityTypes := make([]string, 0, len(reply.Entities))
	for _, g := range reply.Entities {
		entityTypes = append(entityTypes, g.Type)
	}
	d.metrics.RecordClassification(intents, entityTypes, latency)
	d.metrics.RecordMessage(string(platform), string(reply.Outcome))

	logger := logging.FromContext(ctx)
	if d.audit != nil {
		_, err := d.audit.CreateClassificationLog(ctx, &store.ClassificationLog{
			RequestID: requestID,
			Platform:  string(platform),
			Intents:   intents,
			Entities:  reply.Entities.Map(),
			Outcome:   string(reply.Outcome),
			LatencyMs: latency.Milliseconds(),
		})
		if err != nil {
			logger.Warn("failed to write audit record", "error", err)
		}
	}

	logger.Info("message handled",
		"outcome", string(reply.Outcome),
		"intents", intents,
		"answered", reply.Answered,
		"latency_ms", latency.Milliseconds(),
	)
	return reply
}

// send delivers out, retrying once when the channel reports a transient error.
func (d *Dispatcher) send(ctx context.Context, ch channels.ChatChannel, out *chat_apps.OutgoingMessage) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		if err = d.limiter.Wait(ctx); err != nil {
			return err
		}
		if err = ch.SendMessage(ctx, out); err == nil {
			return nil
		}
		var chErr *channels.ChannelError
		if !errors.As(err, &chErr) || !chErr.IsRetryable() {
			return err
		}
	}
	return err
}

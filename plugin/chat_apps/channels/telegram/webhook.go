package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
)

// SecretTokenHeader carries the secret_token given to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// SetWebhook registers webhookURL with Telegram. The bot API v5.5 config type
// predates secret tokens, so the call is made with raw params.
func (t *TelegramChannel) SetWebhook(ctx context.Context, webhookURL string, dropPendingUpdates bool) error {
	if webhookURL == "" {
		return channels.ErrInvalidPayload.Wrap(fmt.Errorf("webhook mode requires a webhook URL"))
	}
	params := tgbotapi.Params{}
	params["url"] = webhookURL
	params.AddBool("drop_pending_updates", dropPendingUpdates)
	params.AddNonEmpty("secret_token", t.config.WebhookSecret)

	if _, err := t.bot.MakeRequest("setWebhook", params); err != nil {
		return classifyError(err)
	}
	slog.Info("telegram: webhook registered", "url", webhookURL)
	return nil
}

// DeleteWebhook removes the webhook so getUpdates polling can run. Pending
// updates are kept.
func (t *TelegramChannel) DeleteWebhook(ctx context.Context) error {
	if _, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: false}); err != nil {
		return classifyError(err)
	}
	return nil
}

// VerifyRequest verifies that the request came from Telegram:
// 1. HTTP method is POST
// 2. Content-Type is JSON or empty (Telegram sometimes doesn't send it)
// 3. the secret token header matches, when a secret is configured
func (t *TelegramChannel) VerifyRequest(r *http.Request) bool {
	if r.Method != http.MethodPost {
		slog.Warn("telegram webhook: invalid method", "method", r.Method, "remote_addr", r.RemoteAddr)
		return false
	}

	ct := r.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/json") {
		slog.Warn("telegram webhook: invalid content type", "content_type", ct, "remote_addr", r.RemoteAddr)
		return false
	}

	if secret := t.config.WebhookSecret; secret != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			slog.Warn("telegram webhook: secret token mismatch", "remote_addr", r.RemoteAddr)
			return false
		}
	}

	slog.Debug("telegram webhook: request verified",
		"remote_addr", r.RemoteAddr,
		"user_agent", r.Header.Get("User-Agent"),
	)

	return true
}

// Deliver parses a webhook payload and queues the message for Listen.
// Updates that carry no message are acknowledged and dropped.
func (t *TelegramChannel) Deliver(ctx context.Context, payload []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(payload, &update); err != nil {
		slog.Warn("telegram: failed to parse webhook payload", "error", err)
		return channels.ErrInvalidPayload.Wrap(err)
	}

	msg, err := t.ParseUpdate(&update)
	if err != nil {
		slog.Debug("telegram webhook: skipping update", "update_id", update.UpdateID, "user_id", ExtractUserID(&update))
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return channels.ErrChannelClosed
	}
	select {
	case t.deliveries <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return channels.ErrRateLimited.Wrap(fmt.Errorf("delivery queue full"))
	}
}

// ExtractUserID extracts the author ID from a Telegram update.
func ExtractUserID(update *tgbotapi.Update) string {
	var from *tgbotapi.User

	switch {
	case update.Message != nil:
		from = update.Message.From
	case update.EditedMessage != nil:
		from = update.EditedMessage.From
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	}

	if from != nil {
		return strconv.FormatInt(from.ID, 10)
	}

	return ""
}

var _ channels.WebhookReceiver = (*TelegramChannel)(nil)

// Package telegram implements the Telegram Bot channel.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hrygo/careerbot/plugin/chat_apps"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
)

const (
	MaxMessageLength   = 4096 // Telegram text message limit, in characters
	DefaultParseMode   = tgbotapi.ModeMarkdown
	DefaultPollTimeout = 60 // seconds
	deliveryBuffer     = 64
)

// Delivery modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// TelegramConfig holds configuration for the Telegram channel.
type TelegramConfig struct {
	BotToken string
	Mode     string // polling (default) or webhook
	// WebhookURL is the public URL Telegram posts updates to (webhook mode).
	WebhookURL string
	// WebhookSecret is echoed back by Telegram in the secret token header.
	WebhookSecret string
	PollTimeout   int
}

// botAPI is the subset of *tgbotapi.BotAPI the channel uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramChannel implements ChatChannel for Telegram Bot API.
type TelegramChannel struct {
	bot    botAPI
	config *TelegramConfig
	self   tgbotapi.User

	mu         sync.Mutex
	deliveries chan *chat_apps.IncomingMessage
	closed     bool
}

// NewTelegramChannel creates a new Telegram channel. It calls getMe to
// validate the token and learn the bot identity.
func NewTelegramChannel(config *TelegramConfig) (*TelegramChannel, error) {
	if config.BotToken == "" {
		return nil, channels.ErrUnauthorized.Wrap(errors.New("empty bot token"))
	}
	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	slog.Info("telegram: authorized", "username", bot.Self.UserName, "mode", config.mode())
	return newChannel(bot, bot.Self, config), nil
}

func newChannel(bot botAPI, self tgbotapi.User, config *TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		bot:        bot,
		config:     config,
		self:       self,
		deliveries: make(chan *chat_apps.IncomingMessage, deliveryBuffer),
	}
}

func (c *TelegramConfig) mode() string {
	if c.Mode == ModeWebhook {
		return ModeWebhook
	}
	return ModePolling
}

// Name returns the platform name.
func (t *TelegramChannel) Name() chat_apps.Platform {
	return chat_apps.PlatformTelegram
}

// SelfID returns the bot's own Telegram user id.
func (t *TelegramChannel) SelfID() string {
	return strconv.FormatInt(t.self.ID, 10)
}

// Listen starts receiving updates. In polling mode it runs the getUpdates
// loop; in webhook mode it registers the webhook and streams what Deliver
// receives.
func (t *TelegramChannel) Listen(ctx context.Context) (<-chan *chat_apps.IncomingMessage, error) {
	if t.config.mode() == ModeWebhook {
		if err := t.SetWebhook(ctx, t.config.WebhookURL, false); err != nil {
			return nil, err
		}
		out := make(chan *chat_apps.IncomingMessage)
		go t.forward(ctx, t.deliveries, out)
		return out, nil
	}

	// getUpdates fails while a webhook is registered.
	if err := t.DeleteWebhook(ctx); err != nil {
		slog.Warn("telegram: failed to delete webhook before polling", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.config.PollTimeout
	if u.Timeout <= 0 {
		u.Timeout = DefaultPollTimeout
	}
	updates := t.bot.GetUpdatesChan(u)

	out := make(chan *chat_apps.IncomingMessage)
	go func() {
		defer close(out)
		defer t.bot.StopReceivingUpdates()
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, err := t.ParseUpdate(&update)
				if err != nil {
					slog.Debug("telegram: skipping update", "update_id", update.UpdateID, "error", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (t *TelegramChannel) forward(ctx context.Context, in <-chan *chat_apps.IncomingMessage, out chan<- *chat_apps.IncomingMessage) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

// ParseUpdate converts a Telegram update into an IncomingMessage.
func (t *TelegramChannel) ParseUpdate(update *tgbotapi.Update) (*chat_apps.IncomingMessage, error) {
	var tgMsg *tgbotapi.Message
	switch {
	case update.Message != nil:
		tgMsg = update.Message
	case update.EditedMessage != nil:
		tgMsg = update.EditedMessage
	default:
		return nil, channels.ErrInvalidPayload
	}

	if tgMsg.Chat == nil {
		return nil, channels.ErrInvalidPayload
	}

	msg := &chat_apps.IncomingMessage{
		Platform:       chat_apps.PlatformTelegram,
		PlatformChatID: strconv.FormatInt(tgMsg.Chat.ID, 10),
		MessageID:      strconv.Itoa(tgMsg.MessageID),
		Content:        tgMsg.Text,
		Timestamp:      tgMsg.Time(),
		Metadata:       make(map[string]string),
	}
	if tgMsg.Date == 0 {
		msg.Timestamp = time.Now()
	}

	// Store metadata
	msg.Metadata["update_id"] = strconv.Itoa(update.UpdateID)
	msg.Metadata["chat_type"] = tgMsg.Chat.Type
	if tgMsg.From != nil {
		msg.PlatformUserID = strconv.FormatInt(tgMsg.From.ID, 10)
		msg.Metadata["username"] = tgMsg.From.UserName
		msg.Metadata["language_code"] = tgMsg.From.LanguageCode
		if tgMsg.From.IsBot {
			msg.Metadata["is_bot"] = "true"
		}
	}

	switch {
	case tgMsg.Text == "":
		msg.Type = chat_apps.MessageTypeOther
	case tgMsg.IsCommand():
		msg.Type = chat_apps.MessageTypeText
		msg.Content = commandText(tgMsg.Command(), tgMsg.CommandArguments())
		msg.Metadata["command"] = tgMsg.Command()
	default:
		msg.Type = chat_apps.MessageTypeText
	}

	return msg, nil
}

// commandText maps bot commands onto plain questions. /start greets, /help
// yields a text no intent matches, so the user sees the generic help message.
func commandText(command, args string) string {
	if args = strings.TrimSpace(args); args != "" {
		return args
	}
	switch command {
	case "start":
		return "hello"
	default:
		return command
	}
}

// SendMessage sends a message to Telegram. Long texts are split at the
// platform limit; if Telegram rejects the Markdown, the part is re-sent as
// plain text.
func (t *TelegramChannel) SendMessage(ctx context.Context, msg *chat_apps.OutgoingMessage) error {
	slog.Debug("telegram: sending message",
		"chat_id", msg.PlatformChatID,
		"length", len(msg.Content),
	)

	chatID, err := strconv.ParseInt(msg.PlatformChatID, 10, 64)
	if err != nil {
		slog.Error("telegram: invalid chat ID", "chat_id", msg.PlatformChatID, "error", err)
		return channels.ErrInvalidPayload.Wrap(fmt.Errorf("invalid chat ID: %w", err))
	}
	replyTo, _ := strconv.Atoi(msg.ReplyTo)

	parseMode := msg.ParseMode
	if parseMode == "" {
		parseMode = DefaultParseMode
	}

	for i, part := range SplitMessage(msg.Content, MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		tgMsg := tgbotapi.NewMessage(chatID, part)
		if i == 0 {
			tgMsg.ReplyToMessageID = replyTo
		}
		if err := t.sendText(tgMsg, parseMode); err != nil {
			return err
		}
	}
	return nil
}

func (t *TelegramChannel) sendText(tgMsg tgbotapi.MessageConfig, parseMode string) error {
	plain := tgMsg.Text
	if parseMode == tgbotapi.ModeMarkdown {
		tgMsg.Text = ToTelegramMarkdown(plain)
	}
	tgMsg.ParseMode = parseMode

	_, err := t.bot.Send(tgMsg)
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 400 {
		slog.Debug("telegram: markdown rejected, retrying as plain text", "error", apiErr.Message)
		tgMsg.Text = plain
		tgMsg.ParseMode = ""
		_, err = t.bot.Send(tgMsg)
		if err == nil {
			return nil
		}
	}
	return classifyError(err)
}

// classifyError maps Bot API failures onto channel errors.
func classifyError(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return channels.ErrUnauthorized.Wrap(err)
		case 429:
			return channels.ErrRateLimited.Wrap(err)
		case 400:
			return channels.ErrInvalidPayload.Wrap(err)
		}
	}
	return channels.ErrSendFailed.Wrap(err)
}

// Close stops polling and closes the webhook delivery stream.
func (t *TelegramChannel) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.deliveries)
	return nil
}

// ToTelegramMarkdown converts the "**bold**" markup used in replies to the
// legacy Telegram Markdown "*bold*".
func ToTelegramMarkdown(s string) string {
	return strings.ReplaceAll(s, "**", "*")
}

// SplitMessage cuts s into parts of at most limit characters, preferring
// paragraph and line boundaries.
func SplitMessage(s string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	var parts []string
	for utf8.RuneCountInString(s) > limit {
		runes := []rune(s)
		window := string(runes[:limit])
		cut := strings.LastIndex(window, "\n\n")
		if cut <= 0 {
			cut = strings.LastIndex(window, "\n")
		}
		if cut <= 0 {
			cut = strings.LastIndex(window, " ")
		}
		if cut <= 0 {
			cut = len(window)
		}
		parts = append(parts, strings.TrimRight(s[:cut], "\n "))
		s = strings.TrimLeft(s[cut:], "\n ")
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}

// Ensure TelegramChannel implements ChatChannel
var _ channels.ChatChannel = (*TelegramChannel)(nil)

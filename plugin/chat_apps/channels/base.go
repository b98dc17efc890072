// Package channels provides the ChatChannel interface for all chat platform integrations.
package channels

import (
	"context"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/hrygo/careerbot/plugin/chat_apps"
)

// ChatChannel defines the interface for all chat platform integrations.
// Each transport (Telegram, console) implements this interface.
type ChatChannel interface {
	// Name returns the platform name (e.g., "telegram", "console").
	Name() chat_apps.Platform

	// SelfID returns the platform user id of the bot itself.
	// Messages authored by this id are ignored by the dispatcher.
	SelfID() string

	// Listen starts receiving messages. The returned channel is closed when
	// ctx is cancelled or the underlying source is exhausted.
	Listen(ctx context.Context) (<-chan *chat_apps.IncomingMessage, error)

	// SendMessage sends a single message to the chat platform.
	SendMessage(ctx context.Context, msg *chat_apps.OutgoingMessage) error

	// Close closes any open connections and releases resources.
	Close() error
}

// WebhookReceiver is implemented by channels that can be fed by an HTTP webhook
// instead of polling.
type WebhookReceiver interface {
	// VerifyRequest reports whether the request is a genuine platform delivery.
	VerifyRequest(r *http.Request) bool

	// Deliver parses the payload and forwards the message to the Listen stream.
	Deliver(ctx context.Context, payload []byte) error
}

// ChannelRouter keeps the registered channels by platform.
// Concurrent-safe for Register and GetChannel operations.
type ChannelRouter struct {
	mu       sync.RWMutex
	registry map[chat_apps.Platform]ChatChannel
}

// NewChannelRouter creates a new channel router.
func NewChannelRouter() *ChannelRouter {
	return &ChannelRouter{
		registry: make(map[chat_apps.Platform]ChatChannel),
	}
}

// Register registers a chat channel for a platform.
// Concurrent-safe: uses write lock.
func (r *ChannelRouter) Register(channel ChatChannel) {
	r.mu.Lock()
	r.registry[channel.Name()] = channel
	r.mu.Unlock()
}

// GetChannel returns the channel for a platform, or nil if not registered.
// Concurrent-safe: uses read lock.
func (r *ChannelRouter) GetChannel(platform chat_apps.Platform) ChatChannel {
	r.mu.RLock()
	ch := r.registry[platform]
	r.mu.RUnlock()
	return ch
}

// Channels returns the registered channels ordered by platform name.
func (r *ChannelRouter) Channels() []ChatChannel {
	r.mu.RLock()
	out := make([]ChatChannel, 0, len(r.registry))
	for _, ch := range r.registry {
		out = append(out, ch)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Webhook returns the webhook receiver of a platform, if its channel has one.
func (r *ChannelRouter) Webhook(platform chat_apps.Platform) (WebhookReceiver, bool) {
	ch := r.GetChannel(platform)
	if ch == nil {
		return nil, false
	}
	wr, ok := ch.(WebhookReceiver)
	return wr, ok
}

// Errors
var (
	ErrNoChannelForPlatform = &ChannelError{Code: "NO_CHANNEL", Message: "no channel registered for platform"}
	ErrInvalidSignature     = &ChannelError{Code: "INVALID_SIGNATURE", Message: "webhook signature validation failed"}
	ErrInvalidPayload       = &ChannelError{Code: "INVALID_PAYLOAD", Message: "could not parse webhook payload"}
	ErrUnauthorized         = &ChannelError{Code: "UNAUTHORIZED", Message: "bot token rejected by platform"}
	ErrRateLimited          = &ChannelError{Code: "RATE_LIMITED", Message: "platform rate limit exceeded"}
	ErrSendFailed           = &ChannelError{Code: "SEND_FAILED", Message: "failed to send message"}
	ErrChannelClosed        = &ChannelError{Code: "CLOSED", Message: "channel is closed"}
)

// ChannelError represents an error in channel operations.
type ChannelError struct {
	Code    string
	Message string
	Err     error
}

// Wrap returns a copy of e carrying err as its cause.
func (e *ChannelError) Wrap(err error) *ChannelError {
	return &ChannelError{Code: e.Code, Message: e.Message, Err: err}
}

func (e *ChannelError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// Is matches channel errors by code so wrapped copies compare equal to the sentinels.
func (e *ChannelError) Is(target error) bool {
	t, ok := target.(*ChannelError)
	return ok && t.Code == e.Code
}

// IsRetryable returns true if the error is transient and the operation can be retried.
func (e *ChannelError) IsRetryable() bool {
	switch e.Code {
	case "NO_CHANNEL", "INVALID_SIGNATURE", "INVALID_PAYLOAD", "UNAUTHORIZED", "CLOSED":
		return false
	default:
		return true
	}
}

// io.Closer interface for cleanup
var _ io.Closer = (*ChannelRouter)(nil)

// Close closes all registered channels.
// Concurrent-safe: uses write lock.
func (r *ChannelRouter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, channel := range r.registry {
		if err := channel.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

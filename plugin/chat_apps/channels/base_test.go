package channels

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/careerbot/plugin/chat_apps"
)

type stubChannel struct {
	platform chat_apps.Platform
	sent     []*chat_apps.OutgoingMessage
	closed   bool
	closeErr error
}

func (s *stubChannel) Name() chat_apps.Platform {
	return s.platform
}

func (s *stubChannel) SelfID() string {
	return "bot"
}

func (s *stubChannel) Listen(context.Context) (<-chan *chat_apps.IncomingMessage, error) {
	return nil, nil
}

func (s *stubChannel) SendMessage(_ context.Context, msg *chat_apps.OutgoingMessage) error {
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubChannel) Close() error {
	s.closed = true
	return s.closeErr
}

func TestChannelRouter(t *testing.T) {
	router := NewChannelRouter()
	tg := &stubChannel{platform: chat_apps.PlatformTelegram}
	con := &stubChannel{platform: chat_apps.PlatformConsole, closeErr: errors.New("boom")}
	router.Register(tg)
	router.Register(con)

	assert.Same(t, tg, router.GetChannel(chat_apps.PlatformTelegram))
	assert.Nil(t, router.GetChannel(chat_apps.PlatformWeb))

	names := []chat_apps.Platform{}
	for _, ch := range router.Channels() {
		names = append(names, ch.Name())
	}
	assert.Equal(t, []chat_apps.Platform{chat_apps.PlatformConsole, chat_apps.PlatformTelegram}, names)

	_, ok := router.Webhook(chat_apps.PlatformTelegram)
	assert.False(t, ok)

	assert.EqualError(t, router.Close(), "boom")
	assert.True(t, tg.closed)
	assert.True(t, con.closed)
}

func TestChannelError(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("send: %w", ErrSendFailed.Wrap(cause))

	assert.ErrorIs(t, err, ErrSendFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, "SEND_FAILED: failed to send message: connection reset", ErrSendFailed.Wrap(cause).Error())

	tests := []struct {
		err       *ChannelError
		retryable bool
	}{
		{ErrNoChannelForPlatform, false},
		{ErrInvalidSignature, false},
		{ErrInvalidPayload, false},
		{ErrUnauthorized, false},
		{ErrChannelClosed, false},
		{ErrRateLimited, true},
		{ErrSendFailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.err.IsRetryable())
		})
	}
}

// Package console implements a line-oriented chat channel over an
// io.Reader/io.Writer pair, used for local conversations in a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hrygo/careerbot/plugin/chat_apps"
	"github.com/hrygo/careerbot/plugin/chat_apps/channels"
)

const (
	// ChatID is the single conversation a console channel carries.
	ChatID = "console"
	// UserID identifies the person typing.
	UserID = "local-user"
	selfID = "careerbot"
)

// Config holds configuration for the console channel.
type Config struct {
	In     io.Reader
	Out    io.Writer
	Prompt string // printed before each read; empty disables it
	// ReplyPrefix is written before every reply.
	ReplyPrefix string
}

// ConsoleChannel implements ChatChannel for a terminal.
type ConsoleChannel struct {
	cfg Config

	mu     sync.Mutex
	seq    int
	closed bool
}

// NewConsoleChannel creates a console channel.
func NewConsoleChannel(cfg Config) *ConsoleChannel {
	return &ConsoleChannel{cfg: cfg}
}

// Name returns the platform name.
func (c *ConsoleChannel) Name() chat_apps.Platform {
	return chat_apps.PlatformConsole
}

// SelfID returns the identity replies are written under.
func (c *ConsoleChannel) SelfID() string {
	return selfID
}

// Listen reads one message per line until EOF or cancellation.
func (c *ConsoleChannel) Listen(ctx context.Context) (<-chan *chat_apps.IncomingMessage, error) {
	if c.cfg.In == nil {
		return nil, channels.ErrChannelClosed
	}
	out := make(chan *chat_apps.IncomingMessage)
	scanner := bufio.NewScanner(c.cfg.In)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	go func() {
		defer close(out)
		c.prompt()
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				c.prompt()
				continue
			}
			select {
			case out <- c.message(line):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *ConsoleChannel) message(line string) *chat_apps.IncomingMessage {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.mu.Unlock()

	return &chat_apps.IncomingMessage{
		Platform:       chat_apps.PlatformConsole,
		PlatformUserID: UserID,
		PlatformChatID: ChatID,
		MessageID:      strconv.Itoa(id),
		Type:           chat_apps.MessageTypeText,
		Content:        line,
		Timestamp:      time.Now(),
	}
}

func (c *ConsoleChannel) prompt() {
	if c.cfg.Prompt == "" || c.cfg.Out == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.cfg.Out, c.cfg.Prompt)
}

// SendMessage writes the reply followed by a blank line, then re-prompts.
func (c *ConsoleChannel) SendMessage(ctx context.Context, msg *chat_apps.OutgoingMessage) error {
	c.mu.Lock()
	if c.closed || c.cfg.Out == nil {
		c.mu.Unlock()
		return channels.ErrChannelClosed
	}
	_, err := fmt.Fprintf(c.cfg.Out, "%s%s\n\n", c.cfg.ReplyPrefix, msg.Content)
	c.mu.Unlock()
	if err != nil {
		return channels.ErrSendFailed.Wrap(err)
	}
	c.prompt()
	return nil
}

// Close stops accepting replies.
func (c *ConsoleChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

var _ channels.ChatChannel = (*ConsoleChannel)(nil)

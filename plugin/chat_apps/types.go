// Package chat_apps provides the transport-neutral message types shared by
// every chat channel of the career bot.
// Supported platforms: Telegram, the local console, the HTTP API and MCP.
package chat_apps

import "time"

// MessageType represents the type of message.
type MessageType int

const (
	MessageTypeText MessageType = iota
	MessageTypePhoto
	MessageTypeAudio
	MessageTypeVideo
	MessageTypeDocument
	MessageTypeOther
)

// String returns the string representation of MessageType.
func (m MessageType) String() string {
	switch m {
	case MessageTypeText:
		return "text"
	case MessageTypePhoto:
		return "photo"
	case MessageTypeAudio:
		return "audio"
	case MessageTypeVideo:
		return "video"
	case MessageTypeDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Platform represents a supported chat platform.
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformConsole  Platform = "console"
	PlatformWeb      Platform = "web"
	PlatformMCP      Platform = "mcp"
)

// IsValid checks if the platform is valid.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformTelegram, PlatformConsole, PlatformWeb, PlatformMCP:
		return true
	default:
		return false
	}
}

// IncomingMessage represents a message from a chat platform.
type IncomingMessage struct {
	Platform       Platform          // Source platform
	PlatformUserID string            // Platform-specific author ID
	PlatformChatID string            // Platform-specific chat ID
	MessageID      string            // Platform-specific message ID, used for replies
	Type           MessageType       // Message type
	Content        string            // Text content
	Metadata       map[string]string // Additional platform-specific metadata
	Timestamp      time.Time         // Message timestamp
}

// IsText reports whether the message carries text the advisor can read.
func (m *IncomingMessage) IsText() bool {
	return m.Type == MessageTypeText
}

// OutgoingMessage represents a message to send to a chat platform.
type OutgoingMessage struct {
	PlatformChatID string      // Destination chat ID
	ReplyTo        string      // Message ID being answered (optional)
	Type           MessageType // Message type
	Content        string      // Text content
	ParseMode      string      // Markdown/HTML parsing mode (optional)
}

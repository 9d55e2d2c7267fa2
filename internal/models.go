package internal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SentinelTitle is the default title assigned to a freshly created
// conversation. The first user message overwrites it exactly once.
const SentinelTitle = "New Chat"

// Sender identifies who produced a message.
type Sender string

const (
	// SenderUser marks a message typed by the signed-in user.
	SenderUser Sender = "user"
	// SenderBot marks a message returned by the completion API.
	SenderBot Sender = "bot"
)

// Conversation is the metadata for a single chat thread.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	OwnerUID  string    `json:"owner_uid,omitempty" yaml:"owner_uid,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Message is a single entry in a conversation history.
//
// Local IDs come from NewMessageID; messages loaded from the remote store
// carry the store-assigned document ID instead. The two ID spaces coexist
// unreconciled (see rehydrate.go).
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Sender    Sender    `json:"sender" yaml:"sender"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// NewConversationID generates a unique conversation identifier.
func NewConversationID() string {
	return uuid.NewString()
}

// NewMessageID generates a unique message identifier. UUIDs replace the
// original wall-clock IDs, which collide under rapid sends; on the wire the
// ID stays an opaque string.
func NewMessageID() string {
	return uuid.NewString()
}

// FirstWord returns the first whitespace-delimited token of text. Used to
// auto-title a conversation from its first user message.
func FirstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

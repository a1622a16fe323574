package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationBuffer keeps a bounded window of conversation turns for
// multi-turn chat. When the number of turns exceeds maxTurns, the oldest
// turns are discarded.
type ConversationBuffer struct {
	mu       sync.Mutex
	messages []Message
	maxTurns int
}

// NewConversationBuffer creates a buffer keeping at most maxTurns user/AI
// exchanges. Non-positive maxTurns means unbounded.
func NewConversationBuffer(maxTurns int) *ConversationBuffer {
	return &ConversationBuffer{maxTurns: maxTurns}
}

func (b *ConversationBuffer) add(role, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append(b.messages, Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})

	// A turn is a user/AI pair, so the window is 2*maxTurns messages.
	if b.maxTurns > 0 && len(b.messages) > b.maxTurns*2 {
		b.messages = b.messages[len(b.messages)-b.maxTurns*2:]
	}
}

// AddUserMessage appends a user turn.
func (b *ConversationBuffer) AddUserMessage(content string) {
	b.add("user", content)
}

// AddAIMessage appends an assistant turn.
func (b *ConversationBuffer) AddAIMessage(content string) {
	b.add("ai", content)
}

// History returns a copy of the buffered messages in order.
func (b *ConversationBuffer) History() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the number of buffered messages.
func (b *ConversationBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

// ContextString renders the buffer as a plain-text transcript suitable for
// inclusion in a prompt.
func (b *ConversationBuffer) ContextString() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.messages) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, msg := range b.messages {
		role := "Human"
		if msg.Role == "ai" {
			role = "AI"
		}
		fmt.Fprintf(&sb, "%s: %s\n", role, msg.Content)
	}
	return sb.String()
}

// Clear discards all buffered messages.
func (b *ConversationBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = nil
}

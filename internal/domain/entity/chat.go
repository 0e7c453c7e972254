package entity

import "time"

// MessageType distinguishes who authored a chat message.
type MessageType string

const (
	MessageUser   MessageType = "user"
	MessageOracle MessageType = "oracle"
)

// MessageState tracks the lifecycle of an oracle message.
type MessageState string

const (
	MessageStreaming MessageState = "streaming"
	MessageComplete  MessageState = "complete"
	// MessageStalled: поток оборвался, частичный текст сохранен.
	MessageStalled MessageState = "stalled"
)

// ChatMessage is one entry of the session transcript.
type ChatMessage struct {
	ID        string       `json:"id"`
	Type      MessageType  `json:"type"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
	State     MessageState `json:"state"`
}

// Final reports whether the message can no longer change.
func (m ChatMessage) Final() bool {
	return m.State == MessageComplete || m.State == MessageStalled
}

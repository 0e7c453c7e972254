// Package oracle holds the client side of a fortune conversation: the chat
// transcript, the streaming decoder that fills it, and the session that owns
// both together with the current portfolio.
package oracle

import (
	"sync"
	"time"

	"portfolio_oracle/internal/domain/entity"

	"github.com/google/uuid"
)

// Transcript is the ordered chat log. All mutation goes through it; readers
// take snapshots and subscribe to change notifications.
type Transcript struct {
	mu       sync.RWMutex
	messages []entity.ChatMessage
	index    map[string]int
	epoch    uint64
	version  uint64

	subs    map[int]chan struct{}
	nextSub int

	newID func() string
	now   func() time.Time
}

func NewTranscript() *Transcript {
	return &Transcript{
		index: make(map[string]int),
		subs:  make(map[int]chan struct{}),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// AppendUser adds a finished user message.
func (t *Transcript) AppendUser(content string) entity.ChatMessage {
	t.mu.Lock()
	msg := t.appendLocked(entity.MessageUser, content, entity.MessageComplete)
	t.mu.Unlock()
	t.notify()
	return msg
}

// OpenOracleSlot appends an empty oracle message and hands out the only
// writer allowed to change it.
func (t *Transcript) OpenOracleSlot() *Slot {
	t.mu.Lock()
	msg := t.appendLocked(entity.MessageOracle, "", entity.MessageStreaming)
	slot := &Slot{t: t, id: msg.ID, epoch: t.epoch}
	t.mu.Unlock()
	t.notify()
	return slot
}

func (t *Transcript) appendLocked(typ entity.MessageType, content string, state entity.MessageState) entity.ChatMessage {
	msg := entity.ChatMessage{
		ID:        t.newID(),
		Type:      typ,
		Content:   content,
		Timestamp: t.now(),
		State:     state,
	}
	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
	t.version++
	return msg
}

// Clear drops every message. Slots opened before the call become inert.
func (t *Transcript) Clear() {
	t.mu.Lock()
	t.messages = nil
	t.index = make(map[string]int)
	t.epoch++
	t.version++
	t.mu.Unlock()
	t.notify()
}

// Snapshot returns a copy of the transcript in insertion order.
func (t *Transcript) Snapshot() []entity.ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]entity.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Get returns the message with the given id.
func (t *Transcript) Get(id string) (entity.ChatMessage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[id]
	if !ok {
		return entity.ChatMessage{}, false
	}
	return t.messages[i], true
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Version increases on every change.
func (t *Transcript) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Subscribe returns a channel that receives a signal after changes.
// Signals coalesce: a slow reader sees one pending signal, then re-reads a snapshot.
func (t *Transcript) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			close(ch)
		})
	}
}

func (t *Transcript) notify() {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// replace overwrites the content of a streaming message owned by a slot.
func (t *Transcript) replace(s *Slot, content string, state entity.MessageState) bool {
	t.mu.Lock()
	if s.epoch != t.epoch {
		t.mu.Unlock()
		return false
	}
	i, ok := t.index[s.id]
	if !ok || t.messages[i].Final() {
		t.mu.Unlock()
		return false
	}
	t.messages[i].Content = content
	t.messages[i].State = state
	t.version++
	t.mu.Unlock()
	t.notify()
	return true
}

// Slot is the exclusive write handle for one oracle message.
type Slot struct {
	t     *Transcript
	id    string
	epoch uint64

	mu      sync.Mutex
	content string
}

// ID returns the message id the slot writes to.
func (s *Slot) ID() string { return s.id }

// Set overwrites the message content with the running text.
// It returns false once the message is final or the transcript was cleared.
func (s *Slot) Set(content string) bool {
	s.mu.Lock()
	s.content = content
	s.mu.Unlock()
	return s.t.replace(s, content, entity.MessageStreaming)
}

// Finish freezes the message with its last content.
func (s *Slot) Finish(state entity.MessageState) bool {
	s.mu.Lock()
	content := s.content
	s.mu.Unlock()
	return s.t.replace(s, content, state)
}

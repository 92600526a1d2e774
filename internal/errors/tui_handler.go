package errors

import (
	"sync"
	"time"
)

// TUIHandler buffers messages for the interactive shell to render.
type TUIHandler struct {
	mu        sync.RWMutex
	messages  []Message
	limit     int
	onMessage func(msg Message)
}

// Message is one buffered line of shell output.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// NewTUIHandler creates a handler calling onMessage for every message.
// onMessage may be nil.
func NewTUIHandler(onMessage func(msg Message)) *TUIHandler {
	return &TUIHandler{
		messages:  make([]Message, 0),
		onMessage: onMessage,
	}
}

// SetLimit caps the number of buffered messages; the oldest are dropped
// first. Zero or less means unbounded.
func (h *TUIHandler) SetLimit(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limit = n
	h.trim()
}

func (h *TUIHandler) Error(msg string) {
	h.addMessage(msg, MessageTypeError)
}

func (h *TUIHandler) Warning(msg string) {
	h.addMessage(msg, MessageTypeWarning)
}

func (h *TUIHandler) Info(msg string) {
	h.addMessage(msg, MessageTypeInfo)
}

func (h *TUIHandler) Success(msg string) {
	h.addMessage(msg, MessageTypeSuccess)
}

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	message := Message{
		Text:      msg,
		Type:      msgType,
		Timestamp: time.Now(),
	}
	h.messages = append(h.messages, message)
	h.trim()
	callback := h.onMessage
	h.mu.Unlock()

	if callback != nil {
		callback(message)
	}
}

// trim must be called with mu held.
func (h *TUIHandler) trim() {
	if h.limit > 0 && len(h.messages) > h.limit {
		h.messages = append([]Message(nil), h.messages[len(h.messages)-h.limit:]...)
	}
}

func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]Message, 0)
}

func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}

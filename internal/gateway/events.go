package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"launcharc/internal/core/countdown"
)

// Message is the envelope for everything pushed to websocket clients.
type Message struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// MessageType represents the type of a pushed message.
type MessageType string

const (
	MessageTypeSnapshot    MessageType = "Snapshot"
	MessageTypeModeChanged MessageType = "ModeChanged"
)

// ModeChangedPayload is sent when the timer starts, pauses, resumes or resets.
type ModeChangedPayload struct {
	Mode          countdown.Mode `json:"mode"`
	OffsetSeconds float64        `json:"offset_seconds"`
	ChangedAt     time.Time      `json:"changed_at"`
}

// NewMessage wraps payload in an envelope with a fresh ID.
func NewMessage(messageType MessageType, payload any, at time.Time) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", messageType, err)
	}
	return &Message{
		ID:        uuid.New().String(),
		Type:      messageType,
		Timestamp: at,
		Data:      data,
	}, nil
}

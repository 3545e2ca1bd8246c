package model

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a persisted transcript. ChatID is uuid.Nil until the first
// save assigns one. Message order is the transcript order.
type Chat struct {
	ChatID      uuid.UUID
	UserID      uuid.UUID
	Messages    []Message
	Model       string
	LastMessage string
	CreatedAt   time.Time
}

// ChatPreview is the chat-list projection of a Chat.
type ChatPreview struct {
	ChatID      uuid.UUID
	Model       string
	LastMessage string
	CreatedAt   time.Time
}

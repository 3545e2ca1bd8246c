// Package provider holds the chat-completion backends. Every backend
// satisfies the same Provider contract; the Registry decides which
// backend serves a given model id.
package provider

import (
	"context"

	"github.com/mohameodo/nova-v5/internal/model"
)

// Provider sends a message history to one backend and returns the
// assistant's reply text. Implementations issue one outbound call per
// invocation and wrap failures in model.ProviderError. The history
// must contain at least one non-system message; the last message
// drives the prompt.
type Provider interface {
	SendMessage(ctx context.Context, messages []model.Message, modelID string) (string, error)
}

func validateHistory(messages []model.Message) error {
	for _, msg := range messages {
		if msg.Role != model.MessageRoleSystem {
			return nil
		}
	}
	return model.NewProviderError("message history has no user or assistant messages", nil)
}

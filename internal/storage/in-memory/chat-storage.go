package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohameodo/nova-v5/internal/model"
)

type ChatStorage struct {
	mu    sync.Mutex
	chats map[uuid.UUID]model.Chat
	order []uuid.UUID
}

func NewChatStorage() *ChatStorage {
	return &ChatStorage{
		chats: make(map[uuid.UUID]model.Chat),
	}
}

func (c *ChatStorage) SaveChat(ctx context.Context, chat model.Chat) (model.Chat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if chat.ChatID == uuid.Nil {
		chat.ChatID = uuid.New()
		chat.CreatedAt = time.Now()
		c.order = append(c.order, chat.ChatID)
	}
	if len(chat.Messages) > 0 {
		chat.LastMessage = chat.Messages[len(chat.Messages)-1].Content
	}
	chat.Messages = append([]model.Message(nil), chat.Messages...)
	c.chats[chat.ChatID] = chat
	return chat, nil
}

func (c *ChatStorage) GetChat(ctx context.Context, chatID uuid.UUID) (model.Chat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chat, ok := c.chats[chatID]
	if !ok {
		return model.Chat{}, model.ErrChatDoesNotExist
	}
	chat.Messages = append([]model.Message(nil), chat.Messages...)
	return chat, nil
}

func (c *ChatStorage) ListUserChats(ctx context.Context, userID uuid.UUID) ([]model.ChatPreview, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	previews := make([]model.ChatPreview, 0)
	for _, chatID := range c.order {
		chat, ok := c.chats[chatID]
		if !ok || chat.UserID != userID {
			continue
		}
		previews = append(
			previews, model.ChatPreview{
				ChatID:      chat.ChatID,
				Model:       chat.Model,
				LastMessage: chat.LastMessage,
				CreatedAt:   chat.CreatedAt,
			},
		)
	}
	return previews, nil
}

func (c *ChatStorage) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.chats, chatID)
	kept := c.order[:0]
	for _, id := range c.order {
		if id != chatID {
			kept = append(kept, id)
		}
	}
	c.order = kept
	return nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
)

var (
	ErrUserRoleHasNotAnyAvailableModels = errors.New("user role has not any available models")
	ErrUserRoleHasNotAccessToModel      = errors.New("user has not access to model")
)

type ChatStorage interface {
	SaveChat(ctx context.Context, chat model.Chat) (model.Chat, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (model.Chat, error)
	ListUserChats(ctx context.Context, userID uuid.UUID) ([]model.ChatPreview, error)
	DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error
}

type ChatUsecaseDeps struct {
	ChatStorage ChatStorage
	User        *UserUsecase
}

type ChatUsecase struct {
	ChatUsecaseDeps
	cfg                  config.Chat
	userRoleToChatModels map[model.UserRole][]string
}

func NewChatUsecase(deps ChatUsecaseDeps, cfg config.Chat) *ChatUsecase {
	userRoleToChatModels := make(map[model.UserRole][]string)
	for _, roleToModels := range cfg.AccessModelsPerRoles {
		userRoleToChatModels[model.ParseUserRole(roleToModels.Role)] = roleToModels.Models
	}
	return &ChatUsecase{
		ChatUsecaseDeps:      deps,
		cfg:                  cfg,
		userRoleToChatModels: userRoleToChatModels,
	}
}

// GetUserChat loads a chat and verifies it belongs to the user.
func (c *ChatUsecase) GetUserChat(ctx context.Context, userID, chatID uuid.UUID) (model.Chat, error) {
	chat, err := c.ChatStorage.GetChat(ctx, chatID)
	if err != nil {
		return model.Chat{}, err
	}
	if chat.UserID != userID {
		return model.Chat{}, model.ErrChatAccessDenied
	}
	return chat, nil
}

// SaveChat persists a transcript and records it as the user's last
// opened chat. The storage assigns ChatID on first save.
func (c *ChatUsecase) SaveChat(ctx context.Context, chat model.Chat) (model.Chat, error) {
	saved, err := c.ChatStorage.SaveChat(ctx, chat)
	if err != nil {
		return model.Chat{}, fmt.Errorf("failed to save chat: %w", err)
	}
	if err = c.User.UpdateUserLastChat(ctx, saved.UserID, saved.ChatID); err != nil {
		return model.Chat{}, fmt.Errorf("failed to update user last chat: %w", err)
	}
	return saved, nil
}

func (c *ChatUsecase) ListUserChats(ctx context.Context, userID uuid.UUID) ([]model.ChatPreview, error) {
	return c.ChatStorage.ListUserChats(ctx, userID)
}

func (c *ChatUsecase) DeleteChat(ctx context.Context, userID, chatID uuid.UUID) error {
	return c.ChatStorage.DeleteChat(ctx, userID, chatID)
}

// CheckModelAccess reports whether the user's roles allow the model.
func (c *ChatUsecase) CheckModelAccess(user model.User, chatModel string) error {
	availableModels := c.GetAvailableForUserModels(user)
	if len(availableModels) == 0 {
		return ErrUserRoleHasNotAnyAvailableModels
	}
	if _, ok := availableModels[chatModel]; !ok {
		return ErrUserRoleHasNotAccessToModel
	}
	return nil
}

func (c *ChatUsecase) GetAvailableForUserModels(user model.User) map[string]struct{} {
	availableModels := make(map[string]struct{})
	for _, role := range user.Roles {
		for _, chatModel := range c.userRoleToChatModels[role] {
			availableModels[chatModel] = struct{}{}
		}
	}
	return availableModels
}

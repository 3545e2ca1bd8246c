package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/usecase"
)

type ChatsHandler struct {
	chats *usecase.ChatUsecase
}

func NewChatsHandler(chats *usecase.ChatUsecase) *ChatsHandler {
	return &ChatsHandler{chats: chats}
}

// List returns the user's chat previews. GET /api/v1/chats
func (h *ChatsHandler) List(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	previews, err := h.chats.ListUserChats(ctx, userID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	items := make([]ChatPreviewResponse, 0, len(previews))
	for _, preview := range previews {
		items = append(items, ChatPreviewResponse{
			ChatID:      preview.ChatID.String(),
			Model:       preview.Model,
			LastMessage: preview.LastMessage,
			CreatedAt:   preview.CreatedAt,
		})
	}
	SuccessResponse(c, items)
}

// Get returns one full transcript. GET /api/v1/chats/:id
func (h *ChatsHandler) Get(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequestResponse(c, "invalid chat id")
		return
	}

	chat, err := h.chats.GetUserChat(ctx, userID, chatID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, ChatResponse{
		ChatID:    chat.ChatID.String(),
		Model:     chat.Model,
		Messages:  chat.Messages,
		CreatedAt: chat.CreatedAt,
	})
}

// Delete removes a chat. DELETE /api/v1/chats/:id
func (h *ChatsHandler) Delete(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequestResponse(c, "invalid chat id")
		return
	}

	if err = h.chats.DeleteChat(ctx, userID, chatID); err != nil {
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}

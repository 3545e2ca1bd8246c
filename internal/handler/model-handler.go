package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/provider"
	"github.com/mohameodo/nova-v5/internal/usecase"
)

type ModelHandler struct {
	registry *provider.Registry
	chats    *usecase.ChatUsecase
	user     *usecase.UserUsecase
}

func NewModelHandler(registry *provider.Registry, chats *usecase.ChatUsecase, user *usecase.UserUsecase) *ModelHandler {
	return &ModelHandler{
		registry: registry,
		chats:    chats,
		user:     user,
	}
}

// List returns the models the user's roles allow, in registry order.
// GET /api/v1/models
func (h *ModelHandler) List(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	user, err := h.user.GetUserInfo(ctx, userID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	available := h.chats.GetAvailableForUserModels(user)
	items := make([]ModelResponse, 0, len(available))
	for _, cfg := range h.registry.List() {
		if _, ok := available[cfg.ID]; !ok {
			continue
		}
		items = append(items, ModelResponse{
			Name: cfg.Name,
			ID:   cfg.ID,
			Kind: string(cfg.Kind),
		})
	}
	SuccessResponse(c, items)
}

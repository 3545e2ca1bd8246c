package handler

import (
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/usecase"
)

type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(c *app.RequestContext, data any) {
	c.JSON(consts.StatusOK, Response{
		Code: "SUCCESS",
		Data: data,
	})
}

func CreatedResponse(c *app.RequestContext, data any) {
	c.JSON(consts.StatusCreated, Response{
		Code: "CREATED",
		Data: data,
	})
}

func NoContentResponse(c *app.RequestContext) {
	c.Status(consts.StatusNoContent)
}

func BadRequestResponse(c *app.RequestContext, message string) {
	c.JSON(consts.StatusBadRequest, Response{
		Code:    "INVALID_INPUT",
		Message: message,
	})
}

// ErrorResponse maps domain errors to status codes. Input and quota
// errors carry user-facing text; anything unclassified stays a bare
// 500 so internals never leak.
func ErrorResponse(c *app.RequestContext, err error) {
	var quotaErr *model.QuotaExceededError
	var inputErr *model.InputError
	var providerErr *model.ProviderError

	switch {
	case errors.As(err, &inputErr):
		c.JSON(consts.StatusBadRequest, Response{
			Code:    "INVALID_INPUT",
			Message: inputErr.Msg,
		})
	case errors.As(err, &quotaErr):
		c.JSON(consts.StatusTooManyRequests, Response{
			Code:    "QUOTA_EXCEEDED",
			Message: quotaErr.Error(),
		})
	case errors.As(err, &providerErr):
		c.JSON(consts.StatusBadGateway, Response{
			Code:    "UPSTREAM_ERROR",
			Message: providerErr.Cause,
		})
	case errors.Is(err, model.ErrModelNotFound):
		c.JSON(consts.StatusNotFound, Response{
			Code:    "MODEL_NOT_FOUND",
			Message: "unknown model",
		})
	case errors.Is(err, model.ErrChatDoesNotExist):
		c.JSON(consts.StatusNotFound, Response{
			Code:    "NOT_FOUND",
			Message: "chat not found",
		})
	case errors.Is(err, model.ErrChatAccessDenied),
		errors.Is(err, usecase.ErrUserRoleHasNotAccessToModel),
		errors.Is(err, usecase.ErrUserRoleHasNotAnyAvailableModels):
		c.JSON(consts.StatusForbidden, Response{
			Code:    "FORBIDDEN",
			Message: "access denied",
		})
	case errors.Is(err, model.ErrTurnInProgress):
		c.JSON(consts.StatusConflict, Response{
			Code:    "TURN_IN_PROGRESS",
			Message: "please wait for the current response to finish",
		})
	case errors.Is(err, model.ErrUserAlreadyExists):
		c.JSON(consts.StatusConflict, Response{
			Code:    "ALREADY_EXISTS",
			Message: "an account with this email already exists",
		})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(consts.StatusUnauthorized, Response{
			Code:    "UNAUTHORIZED",
			Message: model.ErrInvalidCredentials.Error(),
		})
	default:
		c.JSON(consts.StatusInternalServerError, Response{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		})
	}
}

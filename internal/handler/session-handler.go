package handler

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/usecase"
)

// Locator resolves coordinates to a place name for the ambient
// location fallback.
type Locator interface {
	LocateByCoords(ctx context.Context, lat, lon float64) (string, error)
}

type SessionHandler struct {
	sessions *usecase.SessionUsecase
	locator  Locator
}

func NewSessionHandler(sessions *usecase.SessionUsecase, locator Locator) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		locator:  locator,
	}
}

// SendMessage runs one turn. With ?stream=true the turn's message
// events arrive over SSE as they happen; otherwise the response is the
// completed turn. POST /api/v1/session/messages
func (h *SessionHandler) SendMessage(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	var req SendMessageRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "invalid request body")
		return
	}

	session := h.sessions.Session(userID)
	if c.Query("stream") == "true" {
		h.streamTurn(ctx, c, session, req.Content)
		return
	}

	result, err := session.Send(ctx, req.Content, nil)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, toTurnResponse(result))
}

func (h *SessionHandler) streamTurn(ctx context.Context, c *app.RequestContext, session *usecase.Session, content string) {
	c.SetStatusCode(consts.StatusOK)
	writer := sse.NewWriter(c)
	defer writer.Close()

	observer := &sseTurnObserver{writer: writer}
	result, err := session.Send(ctx, content, observer)
	if err != nil {
		observer.writeJSON("turn_error", errorEvent(err))
		return
	}
	observer.writeJSON("turn_complete", toTurnResponse(result))
}

// Retry resubmits a previous user message by transcript index.
// POST /api/v1/session/retry
func (h *SessionHandler) Retry(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	var req RetryRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "invalid request body")
		return
	}

	result, err := h.sessions.Session(userID).Retry(ctx, req.MessageIndex, nil)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, toTurnResponse(result))
}

// Reset starts a fresh unsaved chat. POST /api/v1/session/reset
func (h *SessionHandler) Reset(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	h.sessions.Session(userID).Reset()
	NoContentResponse(c)
}

// GetSession returns the live transcript. GET /api/v1/session
func (h *SessionHandler) GetSession(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	session := h.sessions.Session(userID)
	SuccessResponse(c, SessionResponse{
		Model:    session.Model(),
		Messages: session.Messages(),
	})
}

// LoadChat replaces the session with a persisted chat.
// POST /api/v1/session/chats/:id
func (h *SessionHandler) LoadChat(ctx context.Context, c *app.RequestContext) {
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

	session := h.sessions.Session(userID)
	chat, err := session.LoadChat(ctx, chatID)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, SessionResponse{
		ChatID:   chat.ChatID.String(),
		Model:    session.Model(),
		Messages: session.Messages(),
	})
}

// SetModel switches the session model. PUT /api/v1/session/model
func (h *SessionHandler) SetModel(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	var req ModelRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "invalid request body")
		return
	}
	if err := h.sessions.Session(userID).SetModel(ctx, req.Model); err != nil {
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}

// SetLocation records the ambient location, either as a place name or
// coordinates resolved through the weather service.
// PUT /api/v1/session/location
func (h *SessionHandler) SetLocation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	var req LocationRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "invalid request body")
		return
	}

	location := req.Location
	if location == "" && req.Lat != nil && req.Lon != nil {
		resolved, err := h.locator.LocateByCoords(ctx, *req.Lat, *req.Lon)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		location = resolved
	}
	if location == "" {
		BadRequestResponse(c, "location or coordinates are required")
		return
	}

	h.sessions.Session(userID).SetAmbientLocation(location)
	NoContentResponse(c)
}

func toTurnResponse(result usecase.TurnResult) TurnResponse {
	resp := TurnResponse{
		VoiceCall: result.VoiceCall,
		Messages:  result.Messages,
	}
	if resp.Messages == nil {
		resp.Messages = []model.Message{}
	}
	if result.ChatID != uuid.Nil {
		resp.ChatID = result.ChatID.String()
	}
	return resp
}

func errorEvent(err error) Response {
	switch {
	case model.IsInputError(err):
		return Response{Code: "INVALID_INPUT", Message: err.Error()}
	case model.IsQuotaExceeded(err):
		return Response{Code: "QUOTA_EXCEEDED", Message: err.Error()}
	case model.IsProviderError(err):
		return Response{Code: "UPSTREAM_ERROR", Message: err.Error()}
	default:
		return Response{Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}

// sseTurnObserver forwards turn events as SSE frames.
type sseTurnObserver struct {
	writer *sse.Writer
}

func (o *sseTurnObserver) OnUserMessage(msg model.Message) { o.writeJSON("user_message", msg) }

func (o *sseTurnObserver) OnPlaceholder(msg model.Message) { o.writeJSON("placeholder", msg) }

func (o *sseTurnObserver) OnPlaceholderRemoved() {
	if err := o.writer.WriteEvent("", "placeholder_removed", []byte("{}")); err != nil {
		slog.Warn("failed to write sse event", "error", err)
	}
}

func (o *sseTurnObserver) OnMessage(msg model.Message) { o.writeJSON("message", msg) }

func (o *sseTurnObserver) writeJSON(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal sse payload", "event", event, "error", err)
		return
	}
	if err = o.writer.WriteEvent("", event, data); err != nil {
		slog.Warn("failed to write sse event", "event", event, "error", err)
	}
}

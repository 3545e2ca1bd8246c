package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/jwt"
	"github.com/mohameodo/nova-v5/internal/model"
	"github.com/mohameodo/nova-v5/internal/usecase"
)

const identityKey = "user_id"

type AuthHandler struct {
	user           *usecase.UserUsecase
	authMiddleware *jwt.HertzJWTMiddleware
}

func NewAuthHandler(user *usecase.UserUsecase, jwtSecret string) (*AuthHandler, error) {
	authMiddleware, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:       "nova",
		Key:         []byte(jwtSecret),
		Timeout:     24 * time.Hour,
		MaxRefresh:  7 * 24 * time.Hour,
		IdentityKey: identityKey,

		Authenticator: func(ctx context.Context, c *app.RequestContext) (any, error) {
			var req LoginRequest
			if err := c.BindJSON(&req); err != nil {
				return nil, jwt.ErrMissingLoginValues
			}
			loggedIn, err := user.Login(ctx, req.Email, req.Password)
			if err != nil {
				slog.Warn("login failed", "email", req.Email, "error", err)
				return nil, jwt.ErrFailedAuthentication
			}
			c.Set("user", loggedIn)
			return loggedIn, nil
		},

		PayloadFunc: func(data any) jwt.MapClaims {
			if loggedIn, ok := data.(model.User); ok {
				return jwt.MapClaims{
					identityKey: loggedIn.UserID.String(),
					"email":     loggedIn.Email,
				}
			}
			return jwt.MapClaims{}
		},

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) any {
			claims := jwt.ExtractClaims(ctx, c)
			if userID, ok := claims[identityKey].(string); ok {
				c.Set(identityKey, userID)
				return userID
			}
			return ""
		},

		Authorizator: func(data any, ctx context.Context, c *app.RequestContext) bool {
			userID, ok := data.(string)
			return ok && userID != ""
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			c.JSON(code, Response{
				Code:    "UNAUTHORIZED",
				Message: message,
			})
		},

		LoginResponse: func(ctx context.Context, c *app.RequestContext, code int, token string, expire time.Time) {
			loggedIn, exists := c.Get("user")
			if !exists {
				c.JSON(consts.StatusInternalServerError, Response{
					Code:    "INTERNAL_ERROR",
					Message: "internal server error",
				})
				return
			}
			c.JSON(consts.StatusOK, Response{
				Code: "SUCCESS",
				Data: map[string]any{
					"token":  token,
					"expire": expire.Format(time.RFC3339),
					"user":   ToUserResponse(loggedIn.(model.User)),
				},
			})
		},

		TokenLookup:   "header: Authorization, query: token",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
	})
	if err != nil {
		return nil, err
	}

	return &AuthHandler{
		user:           user,
		authMiddleware: authMiddleware,
	}, nil
}

func (h *AuthHandler) AuthMiddleware() app.HandlerFunc {
	return h.authMiddleware.MiddlewareFunc()
}

// Register creates an account. POST /api/v1/auth/register
func (h *AuthHandler) Register(ctx context.Context, c *app.RequestContext) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		BadRequestResponse(c, "email and password are required")
		return
	}

	user, err := h.user.Register(ctx, req.Email, req.DisplayName, req.Password)
	if err != nil {
		slog.Error("register failed", "email", req.Email, "error", err)
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, ToUserResponse(user))
}

// Login issues a JWT. POST /api/v1/auth/login
func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	h.authMiddleware.LoginHandler(ctx, c)
}

// RefreshToken extends a still-valid token. POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(ctx context.Context, c *app.RequestContext) {
	h.authMiddleware.RefreshHandler(ctx, c)
}

// Me returns the authenticated user. GET /api/v1/users/me
func (h *AuthHandler) Me(ctx context.Context, c *app.RequestContext) {
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
	SuccessResponse(c, ToUserResponse(user))
}

// UpdateBio replaces the user's profile bio, which feeds the chat
// system prompt. PUT /api/v1/users/me/bio
func (h *AuthHandler) UpdateBio(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, model.ErrInvalidCredentials)
		return
	}
	var req BioRequest
	if err := c.BindJSON(&req); err != nil {
		BadRequestResponse(c, "invalid request body")
		return
	}
	if err := h.user.UpdateUserBio(ctx, userID, req.Bio); err != nil {
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}

// currentUserID pulls the authenticated user ID that the JWT identity
// handler stored on the request context.
func currentUserID(c *app.RequestContext) (uuid.UUID, bool) {
	raw, exists := c.Get(identityKey)
	if !exists {
		return uuid.Nil, false
	}
	idStr, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

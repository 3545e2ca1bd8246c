package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/internal/model"
)

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio,omitempty"`
	Roles       []string `json:"roles"`
	LastChat    string   `json:"last_chat,omitempty"`
}

func ToUserResponse(user model.User) UserResponse {
	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.String())
	}
	resp := UserResponse{
		UserID:      user.UserID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		Roles:       roles,
	}
	if user.LastChat != uuid.Nil {
		resp.LastChat = user.LastChat.String()
	}
	return resp
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type RetryRequest struct {
	MessageIndex int `json:"message_index"`
}

type LocationRequest struct {
	Location string   `json:"location,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

type ModelRequest struct {
	Model string `json:"model"`
}

type BioRequest struct {
	Bio string `json:"bio"`
}

type TurnResponse struct {
	ChatID    string          `json:"chat_id,omitempty"`
	VoiceCall bool            `json:"voice_call,omitempty"`
	Messages  []model.Message `json:"messages"`
}

type SessionResponse struct {
	ChatID   string          `json:"chat_id,omitempty"`
	Model    string          `json:"model"`
	Messages []model.Message `json:"messages"`
}

type ChatPreviewResponse struct {
	ChatID      string    `json:"chat_id"`
	Model       string    `json:"model"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatResponse struct {
	ChatID    string          `json:"chat_id"`
	Model     string          `json:"model"`
	Messages  []model.Message `json:"messages"`
	CreatedAt time.Time       `json:"created_at"`
}

type ModelResponse struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mohameodo/nova-v5/internal/model"
)

type userInternal struct {
	UserID       string           `json:"user_id"`
	Email        string           `json:"email"`
	DisplayName  string           `json:"display_name"`
	PasswordHash string           `json:"password_hash"`
	Bio          string           `json:"bio,omitempty"`
	Roles        []model.UserRole `json:"roles"`
	LastChat     string           `json:"last_chat,omitempty"`
}

type UserStorage struct {
	rdb *redis.Client
}

func NewUserStorage(rdb *redis.Client) *UserStorage {
	return &UserStorage{
		rdb: rdb,
	}
}

func (u *UserStorage) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	emailKey := getUserEmailKey(user.Email)
	_, err := u.rdb.Get(ctx, emailKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return uuid.Nil, fmt.Errorf("failed to get user email key %s: %w", emailKey, err)
		}
	} else {
		return uuid.Nil, model.ErrUserAlreadyExists
	}

	user.UserID = uuid.New()
	if err = u.rdb.Set(ctx, emailKey, user.UserID.String(), 0).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save user email index %s: %w", user.UserID, err)
	}
	if err = u.setUser(ctx, user.UserID, toUserInternal(user)); err != nil {
		return uuid.Nil, fmt.Errorf("failed to set user: %w", err)
	}
	return user.UserID, nil
}

func (u *UserStorage) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	userInt, err := u.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return fromUserInternal(userID, userInt)
}

func (u *UserStorage) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	userIDStr, err := u.rdb.Get(ctx, getUserEmailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, model.ErrUserDoesNotExist
		}
		return model.User{}, fmt.Errorf("failed to get user id for email: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse userID %s: %w", userIDStr, err)
	}
	return u.GetUser(ctx, userID)
}

func (u *UserStorage) UpdateUserLastChat(ctx context.Context, userID, chatID uuid.UUID) error {
	userInt, err := u.getUser(ctx, userID)
	if err != nil {
		return err
	}
	userInt.LastChat = chatID.String()
	if err = u.setUser(ctx, userID, userInt); err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}
	return nil
}

func (u *UserStorage) UpdateUserBio(ctx context.Context, userID uuid.UUID, bio string) error {
	userInt, err := u.getUser(ctx, userID)
	if err != nil {
		return err
	}
	userInt.Bio = bio
	if err = u.setUser(ctx, userID, userInt); err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}
	return nil
}

func (u *UserStorage) getUser(ctx context.Context, userID uuid.UUID) (userInternal, error) {
	raw, err := u.rdb.Get(ctx, getUserIDKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return userInternal{}, model.ErrUserDoesNotExist
		}
		return userInternal{}, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	var userInt userInternal
	if err = json.Unmarshal([]byte(raw), &userInt); err != nil {
		return userInternal{}, fmt.Errorf("failed to unmarshal user %s: %w", userID, err)
	}
	return userInt, nil
}

func (u *UserStorage) setUser(ctx context.Context, userID uuid.UUID, userInt userInternal) error {
	userJSON, err := json.Marshal(userInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal user: %w", err)
	}
	if err = u.rdb.Set(ctx, getUserIDKey(userID), userJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user %s: %w", userID, err)
	}
	return nil
}

func toUserInternal(user model.User) userInternal {
	userInt := userInternal{
		UserID:       user.UserID.String(),
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: user.PasswordHash,
		Bio:          user.Bio,
		Roles:        user.Roles,
	}
	if user.LastChat != uuid.Nil {
		userInt.LastChat = user.LastChat.String()
	}
	return userInt
}

func fromUserInternal(userID uuid.UUID, userInt userInternal) (model.User, error) {
	user := model.User{
		UserID:       userID,
		Email:        userInt.Email,
		DisplayName:  userInt.DisplayName,
		PasswordHash: userInt.PasswordHash,
		Bio:          userInt.Bio,
		Roles:        userInt.Roles,
	}
	if userInt.LastChat != "" {
		lastChat, err := uuid.Parse(userInt.LastChat)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to parse last chat of %s: %w", userID, err)
		}
		user.LastChat = lastChat
	}
	return user, nil
}

func getUserEmailKey(email string) string {
	return fmt.Sprintf("user_email_%s", strings.ToLower(email))
}

func getUserIDKey(id uuid.UUID) string {
	return fmt.Sprintf("user_%v", id.String())
}

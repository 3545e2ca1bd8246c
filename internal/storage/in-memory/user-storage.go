package in_memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mohameodo/nova-v5/internal/model"
)

type UserStorage struct {
	mu      sync.Mutex
	users   map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users:   make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (u *UserStorage) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := u.byEmail[email]; ok {
		return uuid.Nil, model.ErrUserAlreadyExists
	}
	user.UserID = uuid.New()
	u.users[user.UserID] = user
	u.byEmail[email] = user.UserID
	return user.UserID, nil
}

func (u *UserStorage) GetUser(ctx context.Context, userID uuid.UUID) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[userID]
	if !ok {
		return model.User{}, model.ErrUserDoesNotExist
	}
	return user, nil
}

func (u *UserStorage) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	userID, ok := u.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrUserDoesNotExist
	}
	return u.users[userID], nil
}

func (u *UserStorage) UpdateUserLastChat(ctx context.Context, userID, chatID uuid.UUID) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[userID]
	if !ok {
		return model.ErrUserDoesNotExist
	}
	user.LastChat = chatID
	u.users[userID] = user
	return nil
}

func (u *UserStorage) UpdateUserBio(ctx context.Context, userID uuid.UUID, bio string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[userID]
	if !ok {
		return model.ErrUserDoesNotExist
	}
	user.Bio = bio
	u.users[userID] = user
	return nil
}

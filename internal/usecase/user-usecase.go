package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mohameodo/nova-v5/config"
	"github.com/mohameodo/nova-v5/internal/model"
	"golang.org/x/crypto/bcrypt"
)

type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUserLastChat(ctx context.Context, userID, chatID uuid.UUID) error
	UpdateUserBio(ctx context.Context, userID uuid.UUID, bio string) error
}

type UserUsecaseDeps struct {
	UserStorage UserStorage
}

type UserUsecase struct {
	UserUsecaseDeps
	usersCfg config.Users
}

func NewUserUsecase(deps UserUsecaseDeps, usersCfg config.Users) *UserUsecase {
	return &UserUsecase{
		UserUsecaseDeps: deps,
		usersCfg:        usersCfg,
	}
}

func (u *UserUsecase) Register(ctx context.Context, email, displayName, password string) (model.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	userID, err := u.UserStorage.CreateUser(ctx, model.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  displayName,
		PasswordHash: string(passwordHash),
		Roles:        u.getUserRoles(email),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u.UserStorage.GetUser(ctx, userID)
}

func (u *UserUsecase) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := u.UserStorage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, model.ErrUserDoesNotExist) {
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserUsecase) GetUserInfo(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := u.UserStorage.GetUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (u *UserUsecase) UpdateUserLastChat(ctx context.Context, userID, chatID uuid.UUID) error {
	return u.UserStorage.UpdateUserLastChat(ctx, userID, chatID)
}

func (u *UserUsecase) UpdateUserBio(ctx context.Context, userID uuid.UUID, bio string) error {
	return u.UserStorage.UpdateUserBio(ctx, userID, bio)
}

func (u *UserUsecase) getUserRoles(email string) []model.UserRole {
	email = strings.ToLower(strings.TrimSpace(email))
	roles := []model.UserRole{
		model.UserRoleDefault,
	}
	for _, userWithRoleEmail := range u.usersCfg.AdminEmailList {
		if strings.EqualFold(userWithRoleEmail, email) {
			roles = append(roles, model.UserRoleAdmin)
			break
		}
	}
	for _, userWithRoleEmail := range u.usersCfg.PremiumEmailList {
		if strings.EqualFold(userWithRoleEmail, email) {
			roles = append(roles, model.UserRolePremium)
			break
		}
	}
	return roles
}

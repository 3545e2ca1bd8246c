package model

import (
	"github.com/google/uuid"
)

type User struct {
	UserID       uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	Bio          string
	Roles        []UserRole
	LastChat     uuid.UUID
}

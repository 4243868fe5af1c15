package auth

import (
	"github.com/google/uuid"

	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
}

// SessionDTO is the token pair handed to clients on register, login and
// refresh.
type SessionDTO struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

func userToDTO(user *models.User) UserDTO {
	return UserDTO{ID: user.ID, Email: user.Email, FullName: user.FullName}
}

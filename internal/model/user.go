package model

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes teacher and student accounts. It gates every
// role-scoped operation.
type UserType string

const (
	UserTypeTeacher UserType = "teacher"
	UserTypeStudent UserType = "student"
)

// UserProfile represents a registered user account.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	UserType     UserType  `json:"user_type"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is the subset of a profile safe to embed in other payloads.
type PublicProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	UserType  UserType  `json:"user_type"`
}

// Public strips the private fields off a full profile.
func (u *UserProfile) Public() PublicProfile {
	return PublicProfile{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  u.UserType,
	}
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email     string   `json:"email" binding:"required,email,max=255"`
	Password  string   `json:"password" binding:"required,min=6,max=128"`
	FirstName string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string   `json:"last_name" binding:"required,min=1,max=100"`
	UserType  UserType `json:"user_type" binding:"required,oneof=teacher student"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  PublicProfile `json:"user"`
}

// StudentSuggestion is a ranked candidate from the suggestion matcher.
type StudentSuggestion struct {
	PublicProfile
	Score int `json:"score"`
}

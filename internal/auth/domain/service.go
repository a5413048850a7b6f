package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

type LoginRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type UpdateSettingsRequest struct {
	Email    *string        `json:"email"`
	Settings map[string]any `json:"settings"`
}

// LoginResult carries the raw session token exactly once; it is never
// persisted or logged.
type LoginResult struct {
	User      *User
	RawToken  string
	SessionID snowflake.ID
	ExpiresAt time.Time
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate validates a raw token and returns the session owner.
	Authenticate(ctx context.Context, rawToken string) (*User, *Session, error)
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	UpdateSettings(ctx context.Context, userID snowflake.ID, req UpdateSettingsRequest) (*User, error)
	ListUsers(ctx context.Context, search string) ([]User, error)
	DeleteUser(ctx context.Context, id snowflake.ID) error
	// EnsureAdmin creates the bootstrap admin account when it does not
	// exist yet.
	EnsureAdmin(ctx context.Context, username, password string) error
}

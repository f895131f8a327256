package auth

import (
	"context"
	"errors"
	"time"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Login checks the password and issues a session token. The token carries
	// the owner id when the user has already onboarded a business.
	Login(ctx context.Context, email, password string) (*Session, error)
	// Refresh reissues a token for an authenticated identity, picking up an
	// owner created since the last login.
	Refresh(ctx context.Context, id *identity.Identity) (*Session, error)
	// ParseToken validates a token and returns the identity it describes.
	ParseToken(token string) (*identity.Identity, error)
}

// Session is returned to the client after login.
type Session struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Identity  *identity.Identity `json:"identity"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/account"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/user"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// AccountLookup resolves the business a user operates. account.Service
// satisfies it.
type AccountLookup interface {
	GetByUser(ctx context.Context, role identity.Role, userID uuid.UUID) (*account.Account, error)
}

type claims struct {
	Email   string `json:"email,omitempty"`
	Role    string `json:"role"`
	OwnerID string `json:"owner_id,omitempty"`
	jwt.StandardClaims
}

type service struct {
	userRepo user.Repository
	accounts AccountLookup
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewService creates a new auth service signing HS256 tokens with secret.
func NewService(userRepo user.Repository, accounts AccountLookup, secret string, ttl time.Duration, log *logger.Logger) Service {
	return &service{
		userRepo: userRepo,
		accounts: accounts,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
		log:      log.With("service", "AuthService"),
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	id := &identity.Identity{UserID: u.ID, Email: u.Email, Role: u.UserType}
	return s.issue(ctx, id)
}

func (s *service) Refresh(ctx context.Context, id *identity.Identity) (*Session, error) {
	if id == nil {
		return nil, ErrInvalidToken
	}
	fresh := &identity.Identity{UserID: id.UserID, Email: id.Email, Role: id.Role}
	return s.issue(ctx, fresh)
}

func (s *service) issue(ctx context.Context, id *identity.Identity) (*Session, error) {
	acct, err := s.accounts.GetByUser(ctx, id.Role, id.UserID)
	switch {
	case err == nil:
		ownerID := acct.ID
		id.OwnerID = &ownerID
	case errors.Is(err, account.ErrNotFound):
		// Not onboarded yet; the token works for onboarding only.
	default:
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	expirationTime := s.now().Add(s.ttl)
	c := &claims{
		Email: id.Email,
		Role:  string(id.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   id.UserID.String(),
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}
	if id.OwnerID != nil {
		c.OwnerID = id.OwnerID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Session{Token: tokenString, ExpiresAt: expirationTime.UTC(), Identity: id}, nil
}

func (s *service) ParseToken(tokenString string) (*identity.Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role, err := identity.ParseRole(c.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id := &identity.Identity{UserID: userID, Email: c.Email, Role: role}
	if c.OwnerID != "" {
		ownerID, err := uuid.Parse(c.OwnerID)
		if err != nil {
			return nil, ErrInvalidToken
		}
		id.OwnerID = &ownerID
	}
	return id, nil
}

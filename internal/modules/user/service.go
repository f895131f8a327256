package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// Service defines the interface for user-related business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log.With("service", "UserService")}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	role, err := identity.ParseRole(req.UserType)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		UserType:     role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID, "user_type", user.UserType)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

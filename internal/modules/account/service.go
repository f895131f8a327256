package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

type Service interface {
	// Onboard creates the business profile for a user of the given role.
	Onboard(ctx context.Context, userID uuid.UUID, role identity.Role, req OnboardRequest) (*Account, error)
	// Get loads the profile behind an owner scope.
	Get(ctx context.Context, owner identity.Owner) (*Account, error)
	// GetByUser finds the profile a user onboarded, if any.
	GetByUser(ctx context.Context, role identity.Role, userID uuid.UUID) (*Account, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log.With("service", "AccountService")}
}

func (s *service) Onboard(ctx context.Context, userID uuid.UUID, role identity.Role, req OnboardRequest) (*Account, error) {
	if _, err := identity.ParseRole(string(role)); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByUserID(ctx, role, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyOnboarded
	}

	a := &Account{
		ID:           uuid.New(),
		UserID:       userID,
		Role:         role,
		Name:         req.Name,
		Email:        req.Email,
		BusinessName: req.BusinessName,
		City:         req.City,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.log.Info("account onboarded", "owner", a.Owner().Key(), "user_id", userID)
	return a, nil
}

func (s *service) Get(ctx context.Context, owner identity.Owner) (*Account, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, owner)
}

func (s *service) GetByUser(ctx context.Context, role identity.Role, userID uuid.UUID) (*Account, error) {
	return s.repo.GetByUserID(ctx, role, userID)
}

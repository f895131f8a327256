package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// Service defines messaging business logic.
type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*Message, error)
	Thread(ctx context.Context, userID, otherID uuid.UUID) ([]Message, error)
	Conversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log.With("service", "MessagingService")}
}

func (s *service) Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if req.ReceiverID == uuid.Nil {
		return nil, fmt.Errorf("%w: receiver_id is required", ErrInvalid)
	}
	if req.ReceiverID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrInvalid)
	}
	m := &Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}
	s.log.Debug("message sent", "message_id", m.ID, "sender_id", senderID, "receiver_id", m.ReceiverID)
	return m, nil
}

func (s *service) Thread(ctx context.Context, userID, otherID uuid.UUID) ([]Message, error) {
	return s.repo.ListThread(ctx, userID, otherID)
}

func (s *service) Conversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

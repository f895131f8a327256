package messaging

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines message storage, keyed by user rather than owner.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ListThread returns messages between a and b, oldest first.
	ListThread(ctx context.Context, a, b uuid.UUID) ([]Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
}

package messaging

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalid marks messages rejected before they reach storage.
var ErrInvalid = errors.New("invalid message")

// Message is a direct message between two users.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	Content    string     `json:"content"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Conversation is one row of the inbox: the other participant and the most
// recent message exchanged with them.
type Conversation struct {
	ConversationID  uuid.UUID  `json:"conversation_id"`
	UserName        string     `json:"user_name"`
	LastMessage     string     `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}

type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
	Content    string    `json:"content" validate:"required,max=4000"`
}

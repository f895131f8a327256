package messaging

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, m *Message) error {
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, content) VALUES ($1,$2,$3,$4) RETURNING created_at`,
		m.ID, m.SenderID, m.ReceiverID, m.Content).Scan(&createdAt)
	if err != nil {
		return err
	}
	if createdAt.Valid {
		m.CreatedAt = &createdAt.Time
	}
	return nil
}

func (r *postgresRepo) ListThread(ctx context.Context, a, b uuid.UUID) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, sender_id, receiver_id, content, created_at
FROM messages
WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
ORDER BY created_at ASC`, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	messages := []Message{}
	for rows.Next() {
		var m Message
		var createdAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			m.CreatedAt = &createdAt.Time
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *postgresRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT conversation_id, user_name, last_message, last_message_time FROM get_conversations($1)`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	conversations := []Conversation{}
	for rows.Next() {
		var c Conversation
		var name, last sql.NullString
		var at sql.NullTime
		if err := rows.Scan(&c.ConversationID, &name, &last, &at); err != nil {
			return nil, err
		}
		c.UserName, c.LastMessage = name.String, last.String
		if at.Valid {
			c.LastMessageTime = &at.Time
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

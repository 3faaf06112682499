// internal/chat/repository.go

package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	GetOrCreateConversation(ctx context.Context, userA, userB int64) (*Conversation, error)
	GetConversation(ctx context.Context, conversationID int64) (*Conversation, error)
	ListConversations(ctx context.Context, userID int64, limit, offset int) ([]*Conversation, error)
	CreateMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, conversationID int64, limit, offset int) ([]*Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID int64) (int64, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// GetOrCreateConversation normalizes the member pair to (low, high) and
// relies on the unique constraint to stay race-free.
func (r *postgresRepository) GetOrCreateConversation(ctx context.Context, userA, userB int64) (*Conversation, error) {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (member_a, member_b) VALUES ($1, $2)
		 ON CONFLICT (member_a, member_b) DO NOTHING`,
		low, high); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	var conv Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT id, member_a, member_b, created_at, updated_at
		 FROM conversations WHERE member_a = $1 AND member_b = $2`,
		low, high)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &conv, nil
}

func (r *postgresRepository) GetConversation(ctx context.Context, conversationID int64) (*Conversation, error) {
	var conv Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT id, member_a, member_b, created_at, updated_at
		 FROM conversations WHERE id = $1`,
		conversationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations returns the user's threads newest-activity first,
// each with the peer, the latest message, and an unread count.
func (r *postgresRepository) ListConversations(ctx context.Context, userID int64, limit, offset int) ([]*Conversation, error) {
	conversations := []*Conversation{}
	err := r.db.SelectContext(ctx, &conversations, `
		SELECT c.id, c.member_a, c.member_b, c.created_at, c.updated_at,
			u.id AS "peer.id", u.username AS "peer.username",
			u.full_name AS "peer.full_name", u.profile_picture AS "peer.profile_picture",
			(SELECT COUNT(*) FROM messages m
			 WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND m.is_read = FALSE) AS unread_count
		FROM conversations c
		JOIN users u ON u.id = CASE WHEN c.member_a = $1 THEN c.member_b ELSE c.member_a END
		WHERE c.member_a = $1 OR c.member_b = $1
		ORDER BY c.updated_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	if err := r.attachLastMessages(ctx, conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// CreateMessage inserts the message and bumps the conversation pointer
// in one transaction.
func (r *postgresRepository) CreateMessage(ctx context.Context, message *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowxContext(ctx,
		`INSERT INTO messages (conversation_id, sender_id, content) VALUES ($1, $2, $3)
		 RETURNING id, is_read, created_at`,
		message.ConversationID, message.SenderID, message.Content)
	if err := row.Scan(&message.ID, &message.IsRead, &message.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_message_id = $1, updated_at = NOW() WHERE id = $2`,
		message.ID, message.ConversationID); err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepository) ListMessages(ctx context.Context, conversationID int64, limit, offset int) ([]*Message, error) {
	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT id, conversation_id, sender_id, content, is_read, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// MarkMessagesRead marks everything the peer sent as read
func (r *postgresRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE
		 WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = FALSE`,
		conversationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) attachLastMessages(ctx context.Context, conversations []*Conversation) error {
	if len(conversations) == 0 {
		return nil
	}

	ids := make([]int64, len(conversations))
	byID := make(map[int64]*Conversation, len(conversations))
	for i, c := range conversations {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	messages := []*Message{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT m.id, m.conversation_id, m.sender_id, m.content, m.is_read, m.created_at
		FROM messages m
		JOIN conversations c ON c.last_message_id = m.id
		WHERE c.id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load last messages: %w", err)
	}

	for _, m := range messages {
		if c, ok := byID[m.ConversationID]; ok {
			c.LastMessage = m
		}
	}
	return nil
}

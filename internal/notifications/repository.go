// internal/notifications/repository.go

package notifications

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, recipientID int64, limit, offset int) ([]*Notification, error)
	UnreadCount(ctx context.Context, recipientID int64) (int, error)
	MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error)
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, n *Notification) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (recipient_id, actor_id, type, post_id, reel_id, comment_id, story_id, conversation_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, is_read, created_at`,
		n.RecipientID, n.ActorID, n.Type, n.PostID, n.ReelID, n.CommentID, n.StoryID, n.ConversationID)
	if err := row.Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, recipientID int64, limit, offset int) ([]*Notification, error) {
	rows := []*struct {
		Notification
		Actor Actor `db:"actor"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT n.id, n.recipient_id, n.actor_id, n.type, n.post_id, n.reel_id,
			n.comment_id, n.story_id, n.conversation_id, n.is_read, n.created_at,
			u.id AS "actor.id", u.username AS "actor.username",
			u.full_name AS "actor.full_name", u.profile_picture AS "actor.profile_picture"
		FROM notifications n
		JOIN users u ON u.id = n.actor_id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $2 OFFSET $3`,
		recipientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := make([]*Notification, len(rows))
	for i, row := range rows {
		n := row.Notification
		actor := row.Actor
		n.Actor = &actor
		result[i] = &n
	}
	return result, nil
}

func (r *postgresRepository) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead only touches rows owned by the recipient, so a caller cannot
// mark someone else's notifications.
func (r *postgresRepository) MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE recipient_id = $1 AND id = ANY($2) AND is_read = FALSE`,
		recipientID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE recipient_id = $1 AND is_read = FALSE`,
		recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return result.RowsAffected()
}

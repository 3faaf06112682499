// internal/comments/repository.go

package comments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, commentID, viewerID int64) (*Comment, error)
	ListForPost(ctx context.Context, postID, viewerID int64, limit, offset int) ([]*Comment, error)
	ListForReel(ctx context.Context, reelID, viewerID int64, limit, offset int) ([]*Comment, error)
	ListReplies(ctx context.Context, parentID, viewerID int64, limit, offset int) ([]*Comment, error)
	Delete(ctx context.Context, commentID int64) error
	ToggleLike(ctx context.Context, commentID, userID int64) (bool, error)
	CountLikes(ctx context.Context, commentID int64) (int, error)
	GetPostOwner(ctx context.Context, postID int64) (int64, error)
	GetReelOwner(ctx context.Context, reelID int64) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const commentColumns = `
	c.id, c.user_id, c.post_id, c.reel_id, c.parent_id, c.content, c.created_at,
	u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name",
	u.profile_picture AS "author.profile_picture", u.is_verified AS "author.is_verified",
	(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS likes_count,
	(SELECT COUNT(*) FROM comments r WHERE r.parent_id = c.id) AS replies_count,
	EXISTS(SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = $1) AS is_liked`

func (r *postgresRepository) Create(ctx context.Context, comment *Comment) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO comments (user_id, post_id, reel_id, parent_id, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		comment.UserID, comment.PostID, comment.ReelID, comment.ParentID, comment.Content)
	if err := row.Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, commentID, viewerID int64) (*Comment, error) {
	var comment Comment
	query := fmt.Sprintf(`SELECT %s FROM comments c JOIN users u ON u.id = c.user_id WHERE c.id = $2`, commentColumns)
	if err := r.db.GetContext(ctx, &comment, query, viewerID, commentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (r *postgresRepository) ListForPost(ctx context.Context, postID, viewerID int64, limit, offset int) ([]*Comment, error) {
	comments := []*Comment{}
	query := fmt.Sprintf(`
		SELECT %s FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $2 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4`, commentColumns)
	if err := r.db.SelectContext(ctx, &comments, query, viewerID, postID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *postgresRepository) ListForReel(ctx context.Context, reelID, viewerID int64, limit, offset int) ([]*Comment, error) {
	comments := []*Comment{}
	query := fmt.Sprintf(`
		SELECT %s FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.reel_id = $2 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC
		LIMIT $3 OFFSET $4`, commentColumns)
	if err := r.db.SelectContext(ctx, &comments, query, viewerID, reelID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *postgresRepository) ListReplies(ctx context.Context, parentID, viewerID int64, limit, offset int) ([]*Comment, error) {
	comments := []*Comment{}
	query := fmt.Sprintf(`
		SELECT %s FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.parent_id = $2
		ORDER BY c.created_at ASC
		LIMIT $3 OFFSET $4`, commentColumns)
	if err := r.db.SelectContext(ctx, &comments, query, viewerID, parentID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return comments, nil
}

// Delete removes the comment; replies go with it through the cascade
func (r *postgresRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *postgresRepository) ToggleLike(ctx context.Context, commentID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (comment_id, user_id) DO NOTHING`,
		commentID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	liked := inserted > 0
	if !liked {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID); err != nil {
			return false, fmt.Errorf("failed to delete like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit like toggle: %w", err)
	}
	return liked, nil
}

func (r *postgresRepository) CountLikes(ctx context.Context, commentID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`, commentID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) GetPostOwner(ctx context.Context, postID int64) (int64, error) {
	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID, `SELECT user_id FROM posts WHERE id = $1`, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrTargetNotFound
		}
		return 0, fmt.Errorf("failed to get post owner: %w", err)
	}
	return ownerID, nil
}

func (r *postgresRepository) GetReelOwner(ctx context.Context, reelID int64) (int64, error) {
	var ownerID int64
	err := r.db.GetContext(ctx, &ownerID, `SELECT user_id FROM reels WHERE id = $1`, reelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrTargetNotFound
		}
		return 0, fmt.Errorf("failed to get reel owner: %w", err)
	}
	return ownerID, nil
}

// internal/reels/repository.go

package reels

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, reel *Reel) error
	GetByID(ctx context.Context, reelID, viewerID int64) (*Reel, error)
	ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]*Reel, error)
	UpdateCaption(ctx context.Context, reelID int64, caption string) error
	Delete(ctx context.Context, reelID int64) error
	ToggleLike(ctx context.Context, reelID, userID int64) (bool, error)
	CountLikes(ctx context.Context, reelID int64) (int, error)
	IncrementViews(ctx context.Context, reelID int64) (int64, error)
	CanViewAuthor(ctx context.Context, viewerID, authorID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const reelColumns = `
	r.id, r.user_id, r.caption, r.video_url, r.thumbnail_url, r.duration, r.views,
	r.created_at, r.updated_at,
	u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name",
	u.profile_picture AS "author.profile_picture", u.is_verified AS "author.is_verified",
	(SELECT COUNT(*) FROM reel_likes rl WHERE rl.reel_id = r.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.reel_id = r.id) AS comments_count,
	EXISTS(SELECT 1 FROM reel_likes rl WHERE rl.reel_id = r.id AND rl.user_id = $1) AS is_liked`

func (r *postgresRepository) Create(ctx context.Context, reel *Reel) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO reels (user_id, caption, video_url, thumbnail_url, duration)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		reel.UserID, reel.Caption, reel.VideoURL, reel.ThumbnailURL, reel.Duration)
	if err := row.Scan(&reel.ID, &reel.CreatedAt, &reel.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert reel: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, reelID, viewerID int64) (*Reel, error) {
	var reel Reel
	query := fmt.Sprintf(`SELECT %s FROM reels r JOIN users u ON u.id = r.user_id WHERE r.id = $2`, reelColumns)
	if err := r.db.GetContext(ctx, &reel, query, viewerID, reelID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReelNotFound
		}
		return nil, fmt.Errorf("failed to get reel: %w", err)
	}
	return &reel, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]*Reel, error) {
	reels := []*Reel{}
	query := fmt.Sprintf(`
		SELECT %s FROM reels r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $2
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4`, reelColumns)
	if err := r.db.SelectContext(ctx, &reels, query, viewerID, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list reels: %w", err)
	}
	return reels, nil
}

func (r *postgresRepository) UpdateCaption(ctx context.Context, reelID int64, caption string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reels SET caption = $1, updated_at = NOW() WHERE id = $2`,
		caption, reelID)
	if err != nil {
		return fmt.Errorf("failed to update reel: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrReelNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, reelID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reels WHERE id = $1`, reelID)
	if err != nil {
		return fmt.Errorf("failed to delete reel: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrReelNotFound
	}
	return nil
}

func (r *postgresRepository) ToggleLike(ctx context.Context, reelID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reel_likes (reel_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (reel_id, user_id) DO NOTHING`,
		reelID, userID)
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
			`DELETE FROM reel_likes WHERE reel_id = $1 AND user_id = $2`,
			reelID, userID); err != nil {
			return false, fmt.Errorf("failed to delete like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit like toggle: %w", err)
	}
	return liked, nil
}

func (r *postgresRepository) CountLikes(ctx context.Context, reelID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM reel_likes WHERE reel_id = $1`, reelID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// IncrementViews bumps the view counter and returns the new value.
// The counter only ever grows.
func (r *postgresRepository) IncrementViews(ctx context.Context, reelID int64) (int64, error) {
	var views int64
	err := r.db.GetContext(ctx, &views,
		`UPDATE reels SET views = views + 1 WHERE id = $1 RETURNING views`, reelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrReelNotFound
		}
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return views, nil
}

func (r *postgresRepository) CanViewAuthor(ctx context.Context, viewerID, authorID int64) (bool, error) {
	var allowed bool
	err := r.db.GetContext(ctx, &allowed, `
		SELECT NOT u.is_private
			OR u.id = $1
			OR EXISTS(SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.following_id = u.id)
		FROM users u WHERE u.id = $2`,
		viewerID, authorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, ErrReelNotFound
		}
		return false, fmt.Errorf("failed to check author privacy: %w", err)
	}
	return allowed, nil
}

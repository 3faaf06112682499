// internal/stories/repository.go

package stories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, story *Story, media []Media) error
	GetByID(ctx context.Context, storyID, viewerID int64) (*Story, error)
	ListActiveByUser(ctx context.Context, userID, viewerID int64) ([]*Story, error)
	ListFeed(ctx context.Context, viewerID int64) ([]*Story, error)
	Delete(ctx context.Context, storyID int64) error
	RecordView(ctx context.Context, storyID, viewerID int64) (bool, error)
	ListViewers(ctx context.Context, storyID int64) ([]*Viewer, error)
	AddReaction(ctx context.Context, reaction *Reaction) error
	DeleteExpired(ctx context.Context) (int64, error)
	CanViewAuthor(ctx context.Context, viewerID, authorID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Every read filters on expires_at so expired stories vanish even
// before the cleanup job removes the rows.
const storyColumns = `
	s.id, s.user_id, s.caption, s.expires_at, s.created_at,
	u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name",
	u.profile_picture AS "author.profile_picture", u.is_verified AS "author.is_verified",
	(SELECT COUNT(*) FROM story_views sv WHERE sv.story_id = s.id) AS views_count,
	EXISTS(SELECT 1 FROM story_views sv WHERE sv.story_id = s.id AND sv.viewer_id = $1) AS viewed`

func (r *postgresRepository) Create(ctx context.Context, story *Story, media []Media) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowxContext(ctx,
		`INSERT INTO stories (user_id, caption, expires_at) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		story.UserID, story.Caption, story.ExpiresAt)
	if err := row.Scan(&story.ID, &story.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert story: %w", err)
	}

	for i, m := range media {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO story_media (story_id, media_url, media_type, position) VALUES ($1, $2, $3, $4)`,
			story.ID, m.MediaURL, m.MediaType, i); err != nil {
			return fmt.Errorf("failed to insert story media: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) GetByID(ctx context.Context, storyID, viewerID int64) (*Story, error) {
	var story Story
	query := fmt.Sprintf(`
		SELECT %s FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $2 AND s.expires_at > NOW()`, storyColumns)
	if err := r.db.GetContext(ctx, &story, query, viewerID, storyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	if err := r.attachMedia(ctx, []*Story{&story}); err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *postgresRepository) ListActiveByUser(ctx context.Context, userID, viewerID int64) ([]*Story, error) {
	stories := []*Story{}
	query := fmt.Sprintf(`
		SELECT %s FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $2 AND s.expires_at > NOW()
		ORDER BY s.created_at ASC`, storyColumns)
	if err := r.db.SelectContext(ctx, &stories, query, viewerID, userID); err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	if err := r.attachMedia(ctx, stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// ListFeed returns active stories from the viewer and everyone they follow
func (r *postgresRepository) ListFeed(ctx context.Context, viewerID int64) ([]*Story, error) {
	stories := []*Story{}
	query := fmt.Sprintf(`
		SELECT %s FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.expires_at > NOW()
		  AND (s.user_id = $1 OR s.user_id IN (
			SELECT following_id FROM follows WHERE follower_id = $1))
		ORDER BY s.user_id, s.created_at ASC`, storyColumns)
	if err := r.db.SelectContext(ctx, &stories, query, viewerID); err != nil {
		return nil, fmt.Errorf("failed to list story feed: %w", err)
	}

	if err := r.attachMedia(ctx, stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *postgresRepository) Delete(ctx context.Context, storyID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, storyID)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrStoryNotFound
	}
	return nil
}

// RecordView stores the view once per viewer and reports whether this
// call was the first view.
func (r *postgresRepository) RecordView(ctx context.Context, storyID, viewerID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO story_views (story_id, viewer_id) VALUES ($1, $2)
		 ON CONFLICT (story_id, viewer_id) DO NOTHING`,
		storyID, viewerID)
	if err != nil {
		return false, fmt.Errorf("failed to record view: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return inserted > 0, nil
}

func (r *postgresRepository) ListViewers(ctx context.Context, storyID int64) ([]*Viewer, error) {
	viewers := []*Viewer{}
	err := r.db.SelectContext(ctx, &viewers, `
		SELECT u.id, u.username, u.full_name, u.profile_picture, sv.viewed_at
		FROM story_views sv
		JOIN users u ON u.id = sv.viewer_id
		WHERE sv.story_id = $1
		ORDER BY sv.viewed_at DESC`,
		storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list viewers: %w", err)
	}
	return viewers, nil
}

func (r *postgresRepository) AddReaction(ctx context.Context, reaction *Reaction) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO story_reactions (story_id, user_id, emoji) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		reaction.StoryID, reaction.UserID, reaction.Emoji)
	if err := row.Scan(&reaction.ID, &reaction.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}
	return nil
}

// DeleteExpired removes stories past their TTL and returns the count
func (r *postgresRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stories WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired stories: %w", err)
	}
	return result.RowsAffected()
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
			return false, ErrStoryNotFound
		}
		return false, fmt.Errorf("failed to check author privacy: %w", err)
	}
	return allowed, nil
}

func (r *postgresRepository) attachMedia(ctx context.Context, stories []*Story) error {
	if len(stories) == 0 {
		return nil
	}

	ids := make([]int64, len(stories))
	byID := make(map[int64]*Story, len(stories))
	for i, s := range stories {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Media = []Media{}
	}

	media := []Media{}
	err := r.db.SelectContext(ctx, &media,
		`SELECT id, story_id, media_url, media_type, position
		 FROM story_media WHERE story_id = ANY($1) ORDER BY story_id, position`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load story media: %w", err)
	}

	for _, m := range media {
		if s, ok := byID[m.StoryID]; ok {
			s.Media = append(s.Media, m)
		}
	}
	return nil
}

// internal/posts/repository.go

package posts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, post *Post, media []MediaInput) error
	GetByID(ctx context.Context, postID, viewerID int64) (*Post, error)
	ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]*Post, error)
	UpdateCaption(ctx context.Context, postID int64, caption string) error
	Delete(ctx context.Context, postID int64) error
	ToggleLike(ctx context.Context, postID, userID int64) (bool, error)
	CountLikes(ctx context.Context, postID int64) (int, error)
	CanViewAuthor(ctx context.Context, viewerID, authorID int64) (bool, error)
	AttachMedia(ctx context.Context, posts []*Post) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const postColumns = `
	p.id, p.user_id, p.caption, p.created_at, p.updated_at,
	u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name",
	u.profile_picture AS "author.profile_picture", u.is_verified AS "author.is_verified",
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
	EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS is_liked`

func (r *postgresRepository) Create(ctx context.Context, post *Post, media []MediaInput) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowxContext(ctx,
		`INSERT INTO posts (user_id, caption) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		post.UserID, post.Caption)
	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	for i, m := range media {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_media (post_id, media_url, media_type, position) VALUES ($1, $2, $3, $4)`,
			post.ID, m.URL, m.Type, i); err != nil {
			return fmt.Errorf("failed to insert post media: %w", err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) GetByID(ctx context.Context, postID, viewerID int64) (*Post, error) {
	var post Post
	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = $2`, postColumns)
	if err := r.db.GetContext(ctx, &post, query, viewerID, postID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := r.AttachMedia(ctx, []*Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID, viewerID int64, limit, offset int) ([]*Post, error) {
	posts := []*Post{}
	query := fmt.Sprintf(`
		SELECT %s FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $2
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4`, postColumns)
	if err := r.db.SelectContext(ctx, &posts, query, viewerID, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if err := r.AttachMedia(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postgresRepository) UpdateCaption(ctx context.Context, postID int64, caption string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET caption = $1, updated_at = NOW() WHERE id = $2`,
		caption, postID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ToggleLike flips the like edge in one transaction and reports whether
// the post is liked afterwards.
func (r *postgresRepository) ToggleLike(ctx context.Context, postID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	liked := inserted > 0
	if !liked {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
			postID, userID); err != nil {
			return false, fmt.Errorf("failed to delete like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit like toggle: %w", err)
	}
	return liked, nil
}

func (r *postgresRepository) CountLikes(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// CanViewAuthor reports whether viewerID may see authorID's content,
// honoring account privacy.
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
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("failed to check author privacy: %w", err)
	}
	return allowed, nil
}

// AttachMedia loads ordered media rows for a batch of posts
func (r *postgresRepository) AttachMedia(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	byID := make(map[int64]*Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Media = []Media{}
	}

	media := []Media{}
	err := r.db.SelectContext(ctx, &media,
		`SELECT id, post_id, media_url, media_type, position
		 FROM post_media WHERE post_id = ANY($1) ORDER BY post_id, position`,
		pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load post media: %w", err)
	}

	for _, m := range media {
		if p, ok := byID[m.PostID]; ok {
			p.Media = append(p.Media, m)
		}
	}
	return nil
}

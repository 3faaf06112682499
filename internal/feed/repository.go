// internal/feed/repository.go

package feed

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vibelyhq/vibely-backend/internal/posts"
	"github.com/vibelyhq/vibely-backend/internal/reels"
	"github.com/vibelyhq/vibely-backend/internal/users"
)

// Ranking knobs for the discovery feed. Engagement pushes content up,
// age pulls it down, and the floor keeps fresh items from ranking at
// zero. Posts and reels qualify at different engagement thresholds
// because views are far cheaper than likes.
const (
	postLikeWeight = 4.0
	postScoreFloor = 5.0
	postMinLikes   = 1
	reelViewWeight = 1.5
	reelScoreFloor = 150.0
	reelMinViews   = 100
)

type Repository interface {
	ViewerExists(ctx context.Context, viewerID int64) (bool, error)
	FollowingPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error)
	FollowingReels(ctx context.Context, viewerID int64, limit, offset int) ([]*reels.Reel, error)
	DiscoveryPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*ScoredPost, error)
	DiscoveryReels(ctx context.Context, viewerID int64, limit, offset int) ([]*ScoredReel, error)
	SearchUsers(ctx context.Context, query string, limit, offset int) ([]*users.Summary, error)
	TrendingPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error)
}

type postgresRepository struct {
	db        *sqlx.DB
	postsRepo posts.Repository
	usersRepo users.Repository
}

func NewPostgresRepository(db *sqlx.DB, postsRepo posts.Repository, usersRepo users.Repository) Repository {
	return &postgresRepository{db: db, postsRepo: postsRepo, usersRepo: usersRepo}
}

const postColumns = `
	p.id, p.user_id, p.caption, p.created_at, p.updated_at,
	u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name",
	u.profile_picture AS "author.profile_picture", u.is_verified AS "author.is_verified",
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
	EXISTS(SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS is_liked`

const reelColumns = `
	r.id, r.user_id, r.caption, r.video_url, r.thumbnail_url, r.duration, r.views,
	r.created_at, r.updated_at,
	u.id AS "author.id", u.username AS "author.username", u.full_name AS "author.full_name",
	u.profile_picture AS "author.profile_picture", u.is_verified AS "author.is_verified",
	(SELECT COUNT(*) FROM reel_likes rl WHERE rl.reel_id = r.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.reel_id = r.id) AS comments_count,
	EXISTS(SELECT 1 FROM reel_likes rl WHERE rl.reel_id = r.id AND rl.user_id = $1) AS is_liked`

// visibleAuthor keeps private accounts out of feeds unless the viewer
// follows them or owns them
const visibleAuthor = `(NOT u.is_private OR u.id = $1
	OR EXISTS(SELECT 1 FROM follows vf WHERE vf.follower_id = $1 AND vf.following_id = u.id))`

func (r *postgresRepository) ViewerExists(ctx context.Context, viewerID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, viewerID)
	if err != nil {
		return false, fmt.Errorf("failed to check viewer: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) FollowingPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error) {
	results := []*posts.Post{}
	query := fmt.Sprintf(`
		SELECT %s FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE (p.user_id = $1
			OR p.user_id IN (SELECT following_id FROM follows WHERE follower_id = $1))
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3`, postColumns)
	if err := r.db.SelectContext(ctx, &results, query, viewerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to load following posts: %w", err)
	}

	if err := r.postsRepo.AttachMedia(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postgresRepository) FollowingReels(ctx context.Context, viewerID int64, limit, offset int) ([]*reels.Reel, error) {
	results := []*reels.Reel{}
	query := fmt.Sprintf(`
		SELECT %s FROM reels r
		JOIN users u ON u.id = r.user_id
		WHERE (r.user_id = $1
			OR r.user_id IN (SELECT following_id FROM follows WHERE follower_id = $1))
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3`, reelColumns)
	if err := r.db.SelectContext(ctx, &results, query, viewerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to load following reels: %w", err)
	}
	return results, nil
}

func (r *postgresRepository) DiscoveryPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*ScoredPost, error) {
	results := []*ScoredPost{}
	query := fmt.Sprintf(`
		SELECT %s,
			GREATEST(%f,
				%f * (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)
				+ (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
				- EXTRACT(EPOCH FROM (NOW() - p.created_at)) / 86400.0) AS score
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) >= %d
		  AND %s
		ORDER BY score DESC, p.created_at DESC
		LIMIT $2 OFFSET $3`,
		postColumns, postScoreFloor, postLikeWeight, postMinLikes, visibleAuthor)
	if err := r.db.SelectContext(ctx, &results, query, viewerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to load discovery posts: %w", err)
	}

	flat := make([]*posts.Post, len(results))
	for i := range results {
		flat[i] = &results[i].Post
	}
	if err := r.postsRepo.AttachMedia(ctx, flat); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postgresRepository) DiscoveryReels(ctx context.Context, viewerID int64, limit, offset int) ([]*ScoredReel, error) {
	results := []*ScoredReel{}
	query := fmt.Sprintf(`
		SELECT %s,
			GREATEST(%f,
				%f * r.views
				+ (SELECT COUNT(*) FROM reel_likes rl WHERE rl.reel_id = r.id)
				- EXTRACT(EPOCH FROM (NOW() - r.created_at)) / 86400.0) AS score
		FROM reels r
		JOIN users u ON u.id = r.user_id
		WHERE r.views >= %d
		  AND %s
		ORDER BY score DESC, r.created_at DESC
		LIMIT $2 OFFSET $3`,
		reelColumns, reelScoreFloor, reelViewWeight, reelMinViews, visibleAuthor)
	if err := r.db.SelectContext(ctx, &results, query, viewerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to load discovery reels: %w", err)
	}
	return results, nil
}

func (r *postgresRepository) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*users.Summary, error) {
	return r.usersRepo.Search(ctx, query, limit, offset)
}

// TrendingPosts ranks by raw like count, no decay
func (r *postgresRepository) TrendingPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error) {
	results := []*posts.Post{}
	query := fmt.Sprintf(`
		SELECT %s FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE %s
		ORDER BY likes_count DESC, p.created_at DESC
		LIMIT $2 OFFSET $3`, postColumns, visibleAuthor)
	if err := r.db.SelectContext(ctx, &results, query, viewerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to load trending posts: %w", err)
	}

	if err := r.postsRepo.AttachMedia(ctx, results); err != nil {
		return nil, err
	}
	return results, nil
}

// internal/users/repository.go

package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetProfileByID(ctx context.Context, userID int64) (*Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	SetPrivacy(ctx context.Context, userID int64, isPrivate bool) error
	Search(ctx context.Context, query string, limit, offset int) ([]*Summary, error)
	ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*Summary, error)
	ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*Summary, error)
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	ToggleFollow(ctx context.Context, followerID, followingID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `
	u.id, u.username, u.full_name, u.bio, u.location, u.profile_picture, u.cover_photo,
	u.is_verified, u.is_private, u.created_at,
	(SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS followers_count,
	(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count,
	(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS posts_count`

func (r *postgresRepository) GetProfileByID(ctx context.Context, userID int64) (*Profile, error) {
	var profile Profile
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.id = $1`, profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *postgresRepository) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	var profile Profile
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.username = $1`, profileColumns)
	if err := r.db.GetContext(ctx, &profile, query, strings.ToLower(username)); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile writes only the fields present in the request
func (r *postgresRepository) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error {
	sets := []string{}
	args := []interface{}{}
	i := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, i))
		args = append(args, value)
		i++
	}

	if req.Username != nil {
		add("username", strings.ToLower(strings.TrimSpace(*req.Username)))
	}
	if req.FullName != nil {
		add("full_name", strings.TrimSpace(*req.FullName))
	}
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.ProfilePicture != nil {
		add("profile_picture", *req.ProfilePicture)
	}
	if req.CoverPhoto != nil {
		add("cover_photo", *req.CoverPhoto)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, userID)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		strings.ToLower(username), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) SetPrivacy(ctx context.Context, userID int64, isPrivate bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_private = $1, updated_at = NOW() WHERE id = $2`,
		isPrivate, userID)
	if err != nil {
		return fmt.Errorf("failed to update privacy: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) Search(ctx context.Context, query string, limit, offset int) ([]*Summary, error) {
	users := []*Summary{}
	pattern := "%" + query + "%"
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, username, full_name, profile_picture, is_verified
		FROM users
		WHERE username ILIKE $1 OR full_name ILIKE $1 OR bio ILIKE $1 OR location ILIKE $1
		ORDER BY
			CASE WHEN username ILIKE $1 THEN 0 ELSE 1 END,
			username
		LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (r *postgresRepository) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*Summary, error) {
	users := []*Summary{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.id, u.username, u.full_name, u.profile_picture, u.is_verified
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return users, nil
}

func (r *postgresRepository) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*Summary, error) {
	users := []*Summary{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.id, u.username, u.full_name, u.profile_picture, u.is_verified
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	return users, nil
}

func (r *postgresRepository) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// ToggleFollow flips the follow edge inside a single transaction and
// reports whether the caller is following afterwards.
func (r *postgresRepository) ToggleFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO follows (follower_id, following_id) VALUES ($1, $2)
		 ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to insert follow: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	following := inserted > 0
	if !following {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
			followerID, followingID); err != nil {
			return false, fmt.Errorf("failed to delete follow: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit follow toggle: %w", err)
	}
	return following, nil
}

func (r *postgresRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT following_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}
	return ids, nil
}

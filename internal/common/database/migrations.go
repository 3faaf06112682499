// internal/common/database/migrations.go
// Inline schema migrations run at startup

package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		username VARCHAR(100) UNIQUE NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		bio VARCHAR(160) DEFAULT '',
		location VARCHAR(255) DEFAULT '',
		profile_picture TEXT DEFAULT '',
		cover_photo TEXT DEFAULT '',
		is_verified BOOLEAN DEFAULT FALSE,
		is_private BOOLEAN DEFAULT FALSE,
		verify_token_hash VARCHAR(64),
		verify_token_expires_at TIMESTAMP WITH TIME ZONE,
		reset_token_hash VARCHAR(64),
		reset_token_expires_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		refresh_token TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS follows (
		follower_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		following_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (follower_id, following_id),
		CHECK (follower_id <> following_id)
	)`,

	`CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		caption TEXT DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS post_media (
		id SERIAL PRIMARY KEY,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		media_url TEXT NOT NULL,
		media_type VARCHAR(20) NOT NULL,
		position INTEGER DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS post_likes (
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (post_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reels (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		caption TEXT DEFAULT '',
		video_url TEXT NOT NULL,
		thumbnail_url TEXT DEFAULT '',
		duration INTEGER DEFAULT 0,
		views INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS reel_likes (
		reel_id INTEGER NOT NULL REFERENCES reels(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (reel_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS stories (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		caption TEXT DEFAULT '',
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS story_media (
		id SERIAL PRIMARY KEY,
		story_id INTEGER NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
		media_url TEXT NOT NULL,
		media_type VARCHAR(20) NOT NULL,
		position INTEGER DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS story_views (
		story_id INTEGER NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
		viewer_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		viewed_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (story_id, viewer_id)
	)`,

	`CREATE TABLE IF NOT EXISTS story_reactions (
		id SERIAL PRIMARY KEY,
		story_id INTEGER NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		emoji VARCHAR(50) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
		reel_id INTEGER REFERENCES reels(id) ON DELETE CASCADE,
		parent_id INTEGER REFERENCES comments(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		CHECK (post_id IS NOT NULL OR reel_id IS NOT NULL)
	)`,

	`CREATE TABLE IF NOT EXISTS comment_likes (
		comment_id INTEGER NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (comment_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		recipient_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		actor_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(30) NOT NULL,
		post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
		reel_id INTEGER REFERENCES reels(id) ON DELETE CASCADE,
		comment_id INTEGER REFERENCES comments(id) ON DELETE CASCADE,
		story_id INTEGER REFERENCES stories(id) ON DELETE CASCADE,
		conversation_id INTEGER,
		is_read BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS conversations (
		id SERIAL PRIMARY KEY,
		member_a INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		member_b INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		last_message_id INTEGER,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT unique_conversation_members UNIQUE (member_a, member_b),
		CHECK (member_a < member_b)
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		is_read BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_following ON follows(following_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_post_media_post ON post_media(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_post_likes_user ON post_likes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reels_user ON reels(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reels_views ON reels(views DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_stories_user ON stories(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stories_expires ON stories(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_reel ON comments(reel_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at DESC)`,
}

// RunMigrations executes the schema migrations in order
func RunMigrations(db *sqlx.DB) error {
	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("migration %d/%d skipped (already exists)", i+1, len(migrations))
				continue
			}
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

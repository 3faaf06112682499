// internal/posts/service.go

package posts

import (
	"context"
	"log"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type Service interface {
	Create(ctx context.Context, userID int64, caption string, media []MediaInput) (*Post, error)
	GetByID(ctx context.Context, viewerID, postID int64) (*Post, error)
	ListByUser(ctx context.Context, viewerID, userID int64, page, limit int) (*ListResponse, error)
	Update(ctx context.Context, userID, postID int64, req *UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, userID, postID int64) error
	ToggleLike(ctx context.Context, userID, postID int64) (*LikeResponse, error)
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
}

func NewService(repo Repository, notifier notifications.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) Create(ctx context.Context, userID int64, caption string, media []MediaInput) (*Post, error) {
	if len(media) == 0 {
		return nil, ErrNoMedia
	}

	post := &Post{UserID: userID, Caption: caption}
	if err := s.repo.Create(ctx, post, media); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, post.ID, userID)
}

func (s *service) GetByID(ctx context.Context, viewerID, postID int64) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.repo.CanViewAuthor(ctx, viewerID, post.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPrivateAuthor
	}
	return post, nil
}

func (s *service) ListByUser(ctx context.Context, viewerID, userID int64, page, limit int) (*ListResponse, error) {
	allowed, err := s.repo.CanViewAuthor(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPrivateAuthor
	}

	offset := (page - 1) * limit
	results, err := s.repo.ListByUser(ctx, userID, viewerID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}
	return &ListResponse{Posts: results, Page: page, HasMore: hasMore}, nil
}

func (s *service) Update(ctx context.Context, userID, postID int64, req *UpdatePostRequest) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrNotPostOwner
	}

	if err := s.repo.UpdateCaption(ctx, postID, req.Caption); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, postID, userID)
}

func (s *service) Delete(ctx context.Context, userID, postID int64) error {
	post, err := s.repo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrNotPostOwner
	}
	return s.repo.Delete(ctx, postID)
}

// ToggleLike likes the post if not yet liked, unlikes otherwise. A new
// like notifies the post owner unless they are the liker.
func (s *service) ToggleLike(ctx context.Context, userID, postID int64) (*LikeResponse, error) {
	post, err := s.repo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked && s.notifier != nil {
		ref := notifications.Ref{PostID: &postID}
		if err := s.notifier.Notify(ctx, notifications.TypeLikePost, post.UserID, userID, ref); err != nil {
			log.Printf("like notification for post %d failed: %v", postID, err)
		}
	}

	count, err := s.repo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResponse{Liked: liked, LikesCount: count}, nil
}

// internal/reels/service.go

package reels

import (
	"context"
	"log"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type Service interface {
	Create(ctx context.Context, userID int64, caption, videoURL, thumbnailURL string, duration int) (*Reel, error)
	GetByID(ctx context.Context, viewerID, reelID int64) (*Reel, error)
	ListByUser(ctx context.Context, viewerID, userID int64, page, limit int) (*ListResponse, error)
	Update(ctx context.Context, userID, reelID int64, req *UpdateReelRequest) (*Reel, error)
	Delete(ctx context.Context, userID, reelID int64) error
	ToggleLike(ctx context.Context, userID, reelID int64) (*LikeResponse, error)
	RecordView(ctx context.Context, viewerID, reelID int64) (*ViewResponse, error)
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
}

func NewService(repo Repository, notifier notifications.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) Create(ctx context.Context, userID int64, caption, videoURL, thumbnailURL string, duration int) (*Reel, error) {
	if videoURL == "" {
		return nil, ErrNoVideo
	}

	reel := &Reel{
		UserID:       userID,
		Caption:      caption,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
	}
	if err := s.repo.Create(ctx, reel); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, reel.ID, userID)
}

func (s *service) GetByID(ctx context.Context, viewerID, reelID int64) (*Reel, error) {
	reel, err := s.repo.GetByID(ctx, reelID, viewerID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.repo.CanViewAuthor(ctx, viewerID, reel.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPrivateAuthor
	}
	return reel, nil
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
	return &ListResponse{Reels: results, Page: page, HasMore: hasMore}, nil
}

func (s *service) Update(ctx context.Context, userID, reelID int64, req *UpdateReelRequest) (*Reel, error) {
	reel, err := s.repo.GetByID(ctx, reelID, userID)
	if err != nil {
		return nil, err
	}
	if reel.UserID != userID {
		return nil, ErrNotReelOwner
	}

	if err := s.repo.UpdateCaption(ctx, reelID, req.Caption); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, reelID, userID)
}

func (s *service) Delete(ctx context.Context, userID, reelID int64) error {
	reel, err := s.repo.GetByID(ctx, reelID, userID)
	if err != nil {
		return err
	}
	if reel.UserID != userID {
		return ErrNotReelOwner
	}
	return s.repo.Delete(ctx, reelID)
}

func (s *service) ToggleLike(ctx context.Context, userID, reelID int64) (*LikeResponse, error) {
	reel, err := s.repo.GetByID(ctx, reelID, userID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.ToggleLike(ctx, reelID, userID)
	if err != nil {
		return nil, err
	}

	if liked && s.notifier != nil {
		ref := notifications.Ref{ReelID: &reelID}
		if err := s.notifier.Notify(ctx, notifications.TypeLikeReel, reel.UserID, userID, ref); err != nil {
			log.Printf("like notification for reel %d failed: %v", reelID, err)
		}
	}

	count, err := s.repo.CountLikes(ctx, reelID)
	if err != nil {
		return nil, err
	}
	return &LikeResponse{Liked: liked, LikesCount: count}, nil
}

// RecordView counts a playback. An author watching their own reel does
// not move the counter.
func (s *service) RecordView(ctx context.Context, viewerID, reelID int64) (*ViewResponse, error) {
	reel, err := s.repo.GetByID(ctx, reelID, viewerID)
	if err != nil {
		return nil, err
	}

	if viewerID == reel.UserID {
		return &ViewResponse{Views: reel.Views}, nil
	}

	views, err := s.repo.IncrementViews(ctx, reelID)
	if err != nil {
		return nil, err
	}
	return &ViewResponse{Views: views}, nil
}

// internal/stories/service.go

package stories

import (
	"context"
	"log"
	"time"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type Service interface {
	Create(ctx context.Context, userID int64, caption string, media []Media) (*Story, error)
	GetByID(ctx context.Context, viewerID, storyID int64) (*Story, error)
	ListByUser(ctx context.Context, viewerID, userID int64) ([]*Story, error)
	ListFeed(ctx context.Context, viewerID int64) ([]*FeedGroup, error)
	Delete(ctx context.Context, userID, storyID int64) error
	RecordView(ctx context.Context, viewerID, storyID int64) error
	ListViewers(ctx context.Context, userID, storyID int64) ([]*Viewer, error)
	React(ctx context.Context, userID, storyID int64, emoji string) (*Reaction, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
	ttl      time.Duration
}

func NewService(repo Repository, notifier notifications.Publisher, ttl time.Duration) Service {
	return &service{repo: repo, notifier: notifier, ttl: ttl}
}

func (s *service) Create(ctx context.Context, userID int64, caption string, media []Media) (*Story, error) {
	if len(media) == 0 {
		return nil, ErrNoMedia
	}

	story := &Story{
		UserID:    userID,
		Caption:   caption,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, story, media); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, story.ID, userID)
}

func (s *service) GetByID(ctx context.Context, viewerID, storyID int64) (*Story, error) {
	story, err := s.repo.GetByID(ctx, storyID, viewerID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.repo.CanViewAuthor(ctx, viewerID, story.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPrivateAuthor
	}
	return story, nil
}

func (s *service) ListByUser(ctx context.Context, viewerID, userID int64) ([]*Story, error) {
	allowed, err := s.repo.CanViewAuthor(ctx, viewerID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPrivateAuthor
	}
	return s.repo.ListActiveByUser(ctx, userID, viewerID)
}

// ListFeed groups the viewer's story tray by author, the viewer's own
// stories first.
func (s *service) ListFeed(ctx context.Context, viewerID int64) ([]*FeedGroup, error) {
	stories, err := s.repo.ListFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	groups := []*FeedGroup{}
	index := map[int64]*FeedGroup{}
	for _, story := range stories {
		group, ok := index[story.UserID]
		if !ok {
			group = &FeedGroup{Author: story.Author}
			index[story.UserID] = group
			if story.UserID == viewerID {
				groups = append([]*FeedGroup{group}, groups...)
			} else {
				groups = append(groups, group)
			}
		}
		group.Stories = append(group.Stories, story)
	}
	return groups, nil
}

func (s *service) Delete(ctx context.Context, userID, storyID int64) error {
	story, err := s.repo.GetByID(ctx, storyID, userID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		return ErrNotStoryOwner
	}
	return s.repo.Delete(ctx, storyID)
}

// RecordView stores the view once per viewer. The first view notifies
// the story owner.
func (s *service) RecordView(ctx context.Context, viewerID, storyID int64) error {
	story, err := s.GetByID(ctx, viewerID, storyID)
	if err != nil {
		return err
	}
	if story.UserID == viewerID {
		return ErrSelfView
	}

	first, err := s.repo.RecordView(ctx, storyID, viewerID)
	if err != nil {
		return err
	}

	if first && s.notifier != nil {
		ref := notifications.Ref{StoryID: &storyID}
		if err := s.notifier.Notify(ctx, notifications.TypeStoryView, story.UserID, viewerID, ref); err != nil {
			log.Printf("view notification for story %d failed: %v", storyID, err)
		}
	}
	return nil
}

// ListViewers is owner-only
func (s *service) ListViewers(ctx context.Context, userID, storyID int64) ([]*Viewer, error) {
	story, err := s.repo.GetByID(ctx, storyID, userID)
	if err != nil {
		return nil, err
	}
	if story.UserID != userID {
		return nil, ErrNotStoryOwner
	}
	return s.repo.ListViewers(ctx, storyID)
}

func (s *service) React(ctx context.Context, userID, storyID int64, emoji string) (*Reaction, error) {
	story, err := s.GetByID(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}

	reaction := &Reaction{StoryID: storyID, UserID: userID, Emoji: emoji}
	if err := s.repo.AddReaction(ctx, reaction); err != nil {
		return nil, err
	}

	if story.UserID != userID && s.notifier != nil {
		ref := notifications.Ref{StoryID: &storyID}
		if err := s.notifier.Notify(ctx, notifications.TypeStoryReaction, story.UserID, userID, ref); err != nil {
			log.Printf("reaction notification for story %d failed: %v", storyID, err)
		}
	}
	return reaction, nil
}

func (s *service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

// internal/notifications/service.go

package notifications

import (
	"context"
	"log"
	"strconv"

	"github.com/vibelyhq/vibely-backend/internal/metrics"
	"github.com/vibelyhq/vibely-backend/internal/realtime"
)

type Service interface {
	Publisher
	List(ctx context.Context, userID int64, page, limit int) (*ListResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type service struct {
	repo    Repository
	gateway realtime.Gateway
}

func NewService(repo Repository, gateway realtime.Gateway) Service {
	return &service{repo: repo, gateway: gateway}
}

// Notify persists the notification, then best-effort pushes it to the
// recipient's live connections. Self-directed events are dropped, users
// never get notified about their own actions. Repeated events are
// stored as they come; the inbox keeps the full history.
func (s *service) Notify(ctx context.Context, typ NotificationType, recipientID, actorID int64, ref Ref) error {
	if recipientID == actorID {
		return nil
	}

	n := &Notification{
		RecipientID:    recipientID,
		ActorID:        actorID,
		Type:           typ,
		PostID:         ref.PostID,
		ReelID:         ref.ReelID,
		CommentID:      ref.CommentID,
		StoryID:        ref.StoryID,
		ConversationID: ref.ConversationID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	delivered := false
	if s.gateway != nil {
		if online, err := s.gateway.IsOnline(ctx, recipientID); err != nil {
			log.Printf("presence check for user %d failed: %v", recipientID, err)
		} else {
			delivered = online
		}
		s.gateway.Publish(recipientID, realtime.Event{
			Type:    realtime.EventNotification,
			Payload: n,
		})
	}

	metrics.NotificationsPublished.WithLabelValues(string(typ), strconv.FormatBool(delivered)).Inc()
	return nil
}

func (s *service) List(ctx context.Context, userID int64, page, limit int) (*ListResponse, error) {
	offset := (page - 1) * limit
	results, err := s.repo.List(ctx, userID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}

	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Notifications: results,
		UnreadCount:   unread,
		Page:          page,
		HasMore:       hasMore,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	changed, err := s.repo.MarkRead(ctx, userID, ids)
	if err != nil {
		return err
	}
	if changed > 0 {
		s.publishReadState(ctx, userID)
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID int64) error {
	changed, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}
	if changed > 0 {
		s.publishReadState(ctx, userID)
	}
	return nil
}

// publishReadState lets other open tabs of the same user update their
// unread badge
func (s *service) publishReadState(ctx context.Context, userID int64) {
	if s.gateway == nil {
		return
	}

	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		log.Printf("unread count for user %d failed: %v", userID, err)
		return
	}

	s.gateway.Publish(userID, realtime.Event{
		Type:    realtime.EventNotificationsRead,
		Payload: map[string]int{"unread_count": unread},
	})
}

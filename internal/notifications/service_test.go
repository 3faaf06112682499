package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/vibelyhq/vibely-backend/internal/realtime"
)

type fakeRepo struct {
	created []*Notification
	unread  int
	nextID  int64
}

func (f *fakeRepo) Create(ctx context.Context, n *Notification) error {
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, n)
	f.unread++
	return nil
}

func (f *fakeRepo) List(ctx context.Context, recipientID int64, limit, offset int) ([]*Notification, error) {
	items := f.created
	if offset < len(items) {
		items = items[offset:]
	} else {
		items = nil
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (f *fakeRepo) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return f.unread, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error) {
	changed := int64(len(ids))
	f.unread -= int(changed)
	return changed, nil
}

func (f *fakeRepo) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	changed := int64(f.unread)
	f.unread = 0
	return changed, nil
}

type fakeGateway struct {
	published []realtime.Event
	online    bool
	failing   bool
}

func (f *fakeGateway) Publish(userID int64, event realtime.Event) {
	if f.failing {
		return
	}
	f.published = append(f.published, event)
}

func (f *fakeGateway) IsOnline(ctx context.Context, userID int64) (bool, error) {
	if f.failing {
		return false, errors.New("presence backend down")
	}
	return f.online, nil
}

func TestNotifySkipsSelf(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGateway{})

	if err := svc.Notify(context.Background(), TypeFollow, 1, 1, Ref{}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("expected no stored notification for self action, got %d", len(repo.created))
	}
}

func TestNotifyPersistsAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	gateway := &fakeGateway{online: true}
	svc := NewService(repo, gateway)

	postID := int64(7)
	if err := svc.Notify(context.Background(), TypeLikePost, 2, 1, Ref{PostID: &postID}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.RecipientID != 2 || stored.ActorID != 1 || stored.Type != TypeLikePost {
		t.Errorf("stored notification wrong: %+v", stored)
	}
	if stored.PostID == nil || *stored.PostID != postID {
		t.Errorf("expected post reference %d, got %v", postID, stored.PostID)
	}
	if stored.IsRead {
		t.Error("new notification must start unread")
	}

	if len(gateway.published) != 1 || gateway.published[0].Type != realtime.EventNotification {
		t.Errorf("expected one live notification event, got %+v", gateway.published)
	}
}

func TestNotifySurvivesGatewayFailure(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGateway{failing: true})

	if err := svc.Notify(context.Background(), TypeFollow, 2, 1, Ref{}); err != nil {
		t.Fatalf("Notify with failing gateway: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected notification persisted despite push failure, got %d", len(repo.created))
	}
}

func TestNotifyKeepsDuplicates(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGateway{})

	// Like, unlike, like again: the inbox keeps both like events
	for i := 0; i < 2; i++ {
		if err := svc.Notify(context.Background(), TypeFollow, 2, 1, Ref{}); err != nil {
			t.Fatalf("Notify %d: %v", i, err)
		}
	}
	if len(repo.created) != 2 {
		t.Errorf("expected 2 stored notifications, got %d", len(repo.created))
	}
}

func TestMarkReadPublishesBadgeUpdate(t *testing.T) {
	repo := &fakeRepo{}
	gateway := &fakeGateway{}
	svc := NewService(repo, gateway)

	if err := svc.Notify(context.Background(), TypeFollow, 2, 1, Ref{}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	gateway.published = nil

	if err := svc.MarkRead(context.Background(), 2, []int64{repo.created[0].ID}); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	if len(gateway.published) != 1 || gateway.published[0].Type != realtime.EventNotificationsRead {
		t.Fatalf("expected notifications_read event, got %+v", gateway.published)
	}
	payload, ok := gateway.published[0].Payload.(map[string]int)
	if !ok || payload["unread_count"] != 0 {
		t.Errorf("expected unread_count 0, got %+v", gateway.published[0].Payload)
	}
}

func TestListPagination(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGateway{})

	for i := 0; i < 3; i++ {
		if err := svc.Notify(context.Background(), TypeFollow, 2, 1, Ref{}); err != nil {
			t.Fatalf("Notify %d: %v", i, err)
		}
	}

	resp, err := svc.List(context.Background(), 2, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(resp.Notifications))
	}
	if !resp.HasMore {
		t.Error("expected has_more with a third notification waiting")
	}
	if resp.UnreadCount != 3 {
		t.Errorf("expected unread count 3, got %d", resp.UnreadCount)
	}
}

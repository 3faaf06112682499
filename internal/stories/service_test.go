package stories

import (
	"context"
	"testing"
	"time"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type fakeRepo struct {
	stories   map[int64]*Story
	views     map[[2]int64]bool
	reactions []*Reaction
	private   map[int64]bool
	follows   map[[2]int64]bool
	nextID    int64
}

func newFakeRepo(existing ...*Story) *fakeRepo {
	repo := &fakeRepo{
		stories: make(map[int64]*Story),
		views:   make(map[[2]int64]bool),
		private: make(map[int64]bool),
		follows: make(map[[2]int64]bool),
		nextID:  1,
	}
	for _, s := range existing {
		if s.ExpiresAt.IsZero() {
			s.ExpiresAt = time.Now().Add(time.Hour)
		}
		repo.stories[s.ID] = s
		if s.ID >= repo.nextID {
			repo.nextID = s.ID + 1
		}
	}
	return repo
}

func (f *fakeRepo) Create(ctx context.Context, story *Story, media []Media) error {
	story.ID = f.nextID
	f.nextID++
	story.CreatedAt = time.Now()
	story.Media = media
	f.stories[story.ID] = story
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, storyID, viewerID int64) (*Story, error) {
	s, ok := f.stories[storyID]
	if !ok || !s.ExpiresAt.After(time.Now()) {
		return nil, ErrStoryNotFound
	}
	copied := *s
	copied.Viewed = f.views[[2]int64{storyID, viewerID}]
	return &copied, nil
}

func (f *fakeRepo) ListActiveByUser(ctx context.Context, userID, viewerID int64) ([]*Story, error) {
	result := []*Story{}
	for _, s := range f.stories {
		if s.UserID == userID && s.ExpiresAt.After(time.Now()) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeRepo) ListFeed(ctx context.Context, viewerID int64) ([]*Story, error) {
	result := []*Story{}
	for _, s := range f.stories {
		if !s.ExpiresAt.After(time.Now()) {
			continue
		}
		if s.UserID == viewerID || f.follows[[2]int64{viewerID, s.UserID}] {
			result = append(result, s)
		}
	}
	return result, nil
}

func (f *fakeRepo) Delete(ctx context.Context, storyID int64) error {
	if _, ok := f.stories[storyID]; !ok {
		return ErrStoryNotFound
	}
	delete(f.stories, storyID)
	return nil
}

func (f *fakeRepo) RecordView(ctx context.Context, storyID, viewerID int64) (bool, error) {
	key := [2]int64{storyID, viewerID}
	if f.views[key] {
		return false, nil
	}
	f.views[key] = true
	return true, nil
}

func (f *fakeRepo) ListViewers(ctx context.Context, storyID int64) ([]*Viewer, error) {
	viewers := []*Viewer{}
	for key := range f.views {
		if key[0] == storyID {
			viewers = append(viewers, &Viewer{ID: key[1]})
		}
	}
	return viewers, nil
}

func (f *fakeRepo) AddReaction(ctx context.Context, reaction *Reaction) error {
	reaction.ID = int64(len(f.reactions) + 1)
	f.reactions = append(f.reactions, reaction)
	return nil
}

func (f *fakeRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var removed int64
	for id, s := range f.stories {
		if !s.ExpiresAt.After(time.Now()) {
			delete(f.stories, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeRepo) CanViewAuthor(ctx context.Context, viewerID, authorID int64) (bool, error) {
	if !f.private[authorID] || viewerID == authorID {
		return true, nil
	}
	return f.follows[[2]int64{viewerID, authorID}], nil
}

type fakeNotifier struct {
	types      []notifications.NotificationType
	recipients []int64
}

func (f *fakeNotifier) Notify(ctx context.Context, typ notifications.NotificationType, recipientID, actorID int64, ref notifications.Ref) error {
	f.types = append(f.types, typ)
	f.recipients = append(f.recipients, recipientID)
	return nil
}

func TestCreateRequiresMedia(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeNotifier{}, 24*time.Hour)

	if _, err := svc.Create(context.Background(), 1, "empty", nil); err != ErrNoMedia {
		t.Errorf("expected ErrNoMedia, got %v", err)
	}
}

func TestCreateSetsExpiry(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeNotifier{}, 24*time.Hour)

	story, err := svc.Create(context.Background(), 1, "day in the life", []Media{{MediaURL: "u", MediaType: "image"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	remaining := time.Until(story.ExpiresAt)
	if remaining < 23*time.Hour || remaining > 24*time.Hour {
		t.Errorf("expected roughly 24h expiry, got %v", remaining)
	}
}

func TestRecordViewNotifiesOwnerOnce(t *testing.T) {
	repo := newFakeRepo(&Story{ID: 1, UserID: 2})
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, 24*time.Hour)

	if err := svc.RecordView(context.Background(), 1, 1); err != nil {
		t.Fatalf("first view: %v", err)
	}
	if len(notifier.types) != 1 || notifier.types[0] != notifications.TypeStoryView {
		t.Fatalf("expected one story_view notification, got %v", notifier.types)
	}
	if notifier.recipients[0] != 2 {
		t.Errorf("expected notification for owner 2, got %d", notifier.recipients[0])
	}

	// Re-watching is silent
	if err := svc.RecordView(context.Background(), 1, 1); err != nil {
		t.Fatalf("repeat view: %v", err)
	}
	if len(notifier.types) != 1 {
		t.Errorf("expected no second notification, got %v", notifier.types)
	}
}

func TestRecordViewOwnStory(t *testing.T) {
	repo := newFakeRepo(&Story{ID: 1, UserID: 1})
	svc := NewService(repo, &fakeNotifier{}, 24*time.Hour)

	if err := svc.RecordView(context.Background(), 1, 1); err != ErrSelfView {
		t.Errorf("expected ErrSelfView, got %v", err)
	}
}

func TestReactNotifiesOwnerButNotSelf(t *testing.T) {
	repo := newFakeRepo(&Story{ID: 1, UserID: 2})
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier, 24*time.Hour)

	reaction, err := svc.React(context.Background(), 1, 1, "🔥")
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	if reaction.Emoji != "🔥" {
		t.Errorf("reaction not stored: %+v", reaction)
	}
	if len(notifier.types) != 1 || notifier.types[0] != notifications.TypeStoryReaction {
		t.Fatalf("expected story_reaction notification, got %v", notifier.types)
	}

	// The owner reacting to their own story stays silent
	if _, err := svc.React(context.Background(), 2, 1, "😂"); err != nil {
		t.Fatalf("owner React: %v", err)
	}
	if len(notifier.types) != 1 {
		t.Errorf("expected no self notification, got %v", notifier.types)
	}
}

func TestExpiredStoryIsGone(t *testing.T) {
	repo := newFakeRepo(&Story{ID: 1, UserID: 2, ExpiresAt: time.Now().Add(-time.Minute)})
	svc := NewService(repo, &fakeNotifier{}, 24*time.Hour)

	if _, err := svc.GetByID(context.Background(), 1, 1); err != ErrStoryNotFound {
		t.Errorf("expected ErrStoryNotFound, got %v", err)
	}

	removed, err := svc.CleanupExpired(context.Background())
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed story, got %d", removed)
	}
}

func TestListViewersOwnerOnly(t *testing.T) {
	repo := newFakeRepo(&Story{ID: 1, UserID: 2})
	svc := NewService(repo, &fakeNotifier{}, 24*time.Hour)

	if err := svc.RecordView(context.Background(), 1, 1); err != nil {
		t.Fatalf("view: %v", err)
	}

	if _, err := svc.ListViewers(context.Background(), 1, 1); err != ErrNotStoryOwner {
		t.Errorf("expected ErrNotStoryOwner for non-owner, got %v", err)
	}

	viewers, err := svc.ListViewers(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("owner ListViewers: %v", err)
	}
	if len(viewers) != 1 || viewers[0].ID != 1 {
		t.Errorf("unexpected viewer list: %+v", viewers)
	}
}

func TestListFeedGroupsOwnStoriesFirst(t *testing.T) {
	repo := newFakeRepo(
		&Story{ID: 1, UserID: 3, Author: Author{ID: 3, Username: "carol"}},
		&Story{ID: 2, UserID: 1, Author: Author{ID: 1, Username: "alice"}},
		&Story{ID: 3, UserID: 3, Author: Author{ID: 3, Username: "carol"}},
	)
	repo.follows[[2]int64{1, 3}] = true
	svc := NewService(repo, &fakeNotifier{}, 24*time.Hour)

	groups, err := svc.ListFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Author.ID != 1 {
		t.Errorf("expected viewer's own group first, got author %d", groups[0].Author.ID)
	}
	if groups[1].Author.ID != 3 || len(groups[1].Stories) != 2 {
		t.Errorf("expected carol's 2 stories grouped, got %+v", groups[1])
	}
}

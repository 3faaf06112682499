package users

import (
	"context"
	"testing"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type fakeRepo struct {
	profiles  map[string]*Profile
	follows   map[[2]int64]bool
	usernames map[string]int64
}

func newFakeRepo(profiles ...*Profile) *fakeRepo {
	repo := &fakeRepo{
		profiles:  make(map[string]*Profile),
		follows:   make(map[[2]int64]bool),
		usernames: make(map[string]int64),
	}
	for _, p := range profiles {
		repo.profiles[p.Username] = p
		repo.usernames[p.Username] = p.ID
	}
	return repo
}

func (f *fakeRepo) GetProfileByID(ctx context.Context, userID int64) (*Profile, error) {
	for _, p := range f.profiles {
		if p.ID == userID {
			return p, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) GetProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	if p, ok := f.profiles[username]; ok {
		return p, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) error {
	return nil
}

func (f *fakeRepo) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	id, ok := f.usernames[username]
	return ok && id != excludeID, nil
}

func (f *fakeRepo) SetPrivacy(ctx context.Context, userID int64, isPrivate bool) error {
	return nil
}

func (f *fakeRepo) Search(ctx context.Context, query string, limit, offset int) ([]*Summary, error) {
	return nil, nil
}

func (f *fakeRepo) ListFollowers(ctx context.Context, userID int64, limit, offset int) ([]*Summary, error) {
	return nil, nil
}

func (f *fakeRepo) ListFollowing(ctx context.Context, userID int64, limit, offset int) ([]*Summary, error) {
	return nil, nil
}

func (f *fakeRepo) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	return f.follows[[2]int64{followerID, followingID}], nil
}

func (f *fakeRepo) ToggleFollow(ctx context.Context, followerID, followingID int64) (bool, error) {
	key := [2]int64{followerID, followingID}
	if f.follows[key] {
		delete(f.follows, key)
		return false, nil
	}
	f.follows[key] = true
	return true, nil
}

func (f *fakeRepo) CountFollowers(ctx context.Context, userID int64) (int, error) {
	count := 0
	for key, ok := range f.follows {
		if ok && key[1] == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for key, ok := range f.follows {
		if ok && key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

type fakeNotifier struct {
	events []notifications.NotificationType
}

func (f *fakeNotifier) Notify(ctx context.Context, typ notifications.NotificationType, recipientID, actorID int64, ref notifications.Ref) error {
	f.events = append(f.events, typ)
	return nil
}

func TestToggleFollowRoundTrip(t *testing.T) {
	repo := newFakeRepo(
		&Profile{ID: 1, Username: "alice"},
		&Profile{ID: 2, Username: "bob"},
	)
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	resp, err := svc.ToggleFollow(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !resp.Following {
		t.Error("expected following after first toggle")
	}
	if resp.FollowersCount != 1 {
		t.Errorf("expected 1 follower, got %d", resp.FollowersCount)
	}
	if len(notifier.events) != 1 || notifier.events[0] != notifications.TypeFollow {
		t.Errorf("expected one follow notification, got %v", notifier.events)
	}

	resp, err = svc.ToggleFollow(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if resp.Following {
		t.Error("expected unfollowed after second toggle")
	}
	if resp.FollowersCount != 0 {
		t.Errorf("expected 0 followers, got %d", resp.FollowersCount)
	}

	// Unfollow must not produce a notification
	if len(notifier.events) != 1 {
		t.Errorf("expected notifications unchanged after unfollow, got %v", notifier.events)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	repo := newFakeRepo(&Profile{ID: 1, Username: "alice"})
	svc := NewService(repo, &fakeNotifier{})

	if _, err := svc.ToggleFollow(context.Background(), 1, "alice"); err != ErrSelfFollow {
		t.Errorf("expected ErrSelfFollow, got %v", err)
	}
}

func TestToggleFollowUnknownUser(t *testing.T) {
	repo := newFakeRepo(&Profile{ID: 1, Username: "alice"})
	svc := NewService(repo, &fakeNotifier{})

	if _, err := svc.ToggleFollow(context.Background(), 1, "ghost"); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetProfilePrivacy(t *testing.T) {
	repo := newFakeRepo(
		&Profile{ID: 1, Username: "alice"},
		&Profile{ID: 2, Username: "bob", IsPrivate: true},
	)
	svc := NewService(repo, &fakeNotifier{})

	// Stranger is blocked
	if _, err := svc.GetProfile(context.Background(), 1, "bob"); err != ErrPrivateProfile {
		t.Errorf("expected ErrPrivateProfile for stranger, got %v", err)
	}

	// Owner always sees their own profile
	if _, err := svc.GetProfile(context.Background(), 2, "bob"); err != nil {
		t.Errorf("owner view failed: %v", err)
	}

	// A follower gets through
	repo.follows[[2]int64{1, 2}] = true
	profile, err := svc.GetProfile(context.Background(), 1, "bob")
	if err != nil {
		t.Fatalf("follower view failed: %v", err)
	}
	if !profile.IsFollowing {
		t.Error("expected is_following set for follower")
	}
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	repo := newFakeRepo(
		&Profile{ID: 1, Username: "alice"},
		&Profile{ID: 2, Username: "bob"},
	)
	svc := NewService(repo, &fakeNotifier{})

	taken := "bob"
	if _, err := svc.UpdateProfile(context.Background(), 1, &UpdateProfileRequest{Username: &taken}); err != ErrUsernameTaken {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	// Keeping your own username is fine
	same := "alice"
	if _, err := svc.UpdateProfile(context.Background(), 1, &UpdateProfileRequest{Username: &same}); err != nil {
		t.Errorf("keeping own username failed: %v", err)
	}
}

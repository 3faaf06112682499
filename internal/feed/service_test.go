package feed

import (
	"context"
	"testing"
	"time"

	"github.com/vibelyhq/vibely-backend/internal/posts"
	"github.com/vibelyhq/vibely-backend/internal/reels"
	"github.com/vibelyhq/vibely-backend/internal/users"
)

// fakeRepo mirrors the store contract: the following feed covers the
// viewer's own content plus everyone they follow.
type fakeRepo struct {
	viewerExists bool
	follows      map[int64]bool
	posts        []*posts.Post
	reels        []*reels.Reel
	scoredPosts  []*ScoredPost
	scoredReels  []*ScoredReel
	searchUsers  []*users.Summary
	trending     []*posts.Post
}

func (f *fakeRepo) ViewerExists(ctx context.Context, viewerID int64) (bool, error) {
	return f.viewerExists, nil
}

func (f *fakeRepo) FollowingPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error) {
	visible := []*posts.Post{}
	for _, p := range f.posts {
		if p.UserID == viewerID || f.follows[p.UserID] {
			visible = append(visible, p)
		}
	}
	return window(visible, limit, offset), nil
}

func (f *fakeRepo) FollowingReels(ctx context.Context, viewerID int64, limit, offset int) ([]*reels.Reel, error) {
	visible := []*reels.Reel{}
	for _, r := range f.reels {
		if r.UserID == viewerID || f.follows[r.UserID] {
			visible = append(visible, r)
		}
	}
	return window(visible, limit, offset), nil
}

func (f *fakeRepo) DiscoveryPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*ScoredPost, error) {
	return window(f.scoredPosts, limit, offset), nil
}

func (f *fakeRepo) DiscoveryReels(ctx context.Context, viewerID int64, limit, offset int) ([]*ScoredReel, error) {
	return window(f.scoredReels, limit, offset), nil
}

func (f *fakeRepo) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*users.Summary, error) {
	return window(f.searchUsers, limit, offset), nil
}

func (f *fakeRepo) TrendingPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*posts.Post, error) {
	return window(f.trending, limit, offset), nil
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func postBy(id, author int64, age time.Duration) *posts.Post {
	return &posts.Post{ID: id, UserID: author, CreatedAt: time.Now().Add(-age)}
}

func reelBy(id, author int64, age time.Duration) *reels.Reel {
	return &reels.Reel{ID: id, UserID: author, CreatedAt: time.Now().Add(-age)}
}

func itemID(item *Item) int64 {
	switch {
	case item.Post != nil:
		return item.Post.ID
	case item.Reel != nil:
		return item.Reel.ID
	default:
		return item.User.ID
	}
}

func TestFollowingFeedMergesNewestFirst(t *testing.T) {
	repo := &fakeRepo{
		viewerExists: true,
		follows:      map[int64]bool{2: true},
		posts:        []*posts.Post{postBy(1, 2, 1*time.Hour), postBy(2, 2, 3*time.Hour)},
		reels:        []*reels.Reel{reelBy(10, 2, 2*time.Hour), reelBy(11, 2, 4*time.Hour)},
	}
	svc := NewService(repo)

	resp, err := svc.FollowingFeed(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("FollowingFeed: %v", err)
	}

	if len(resp.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(resp.Items))
	}

	wantOrder := []struct {
		typ string
		id  int64
	}{
		{ItemTypePost, 1},
		{ItemTypeReel, 10},
		{ItemTypePost, 2},
		{ItemTypeReel, 11},
	}
	for i, want := range wantOrder {
		item := resp.Items[i]
		if item.Type != want.typ {
			t.Fatalf("item %d: expected type %s, got %s", i, want.typ, item.Type)
		}
		if itemID(item) != want.id {
			t.Errorf("item %d: expected id %d, got %d", i, want.id, itemID(item))
		}
	}

	if resp.HasMore {
		t.Error("expected no further pages")
	}
}

func TestFollowingFeedIncludesOwnContent(t *testing.T) {
	// Viewer 1 follows nobody; their own fresh post and reel must still
	// show up, a stranger's must not.
	repo := &fakeRepo{
		viewerExists: true,
		posts:        []*posts.Post{postBy(1, 1, time.Hour), postBy(2, 9, time.Minute)},
		reels:        []*reels.Reel{reelBy(10, 1, 2*time.Hour)},
	}
	svc := NewService(repo)

	resp, err := svc.FollowingFeed(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("FollowingFeed: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected the viewer's own post and reel, got %d items", len(resp.Items))
	}
	for _, item := range resp.Items {
		if itemID(item) == 2 {
			t.Error("stranger's post leaked into the following feed")
		}
	}
}

func TestFollowingFeedHasMore(t *testing.T) {
	repo := &fakeRepo{viewerExists: true, follows: map[int64]bool{2: true}}
	for i := int64(1); i <= 8; i++ {
		repo.posts = append(repo.posts, postBy(i, 2, time.Duration(i)*time.Hour))
	}
	svc := NewService(repo)

	resp, err := svc.FollowingFeed(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("FollowingFeed: %v", err)
	}

	// 8 posts with a half-page of 5 leaves a second page
	if len(resp.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(resp.Items))
	}
	if !resp.HasMore {
		t.Error("expected has_more with remaining posts")
	}

	page2, err := svc.FollowingFeed(context.Background(), 1, 2, 10)
	if err != nil {
		t.Fatalf("FollowingFeed page 2: %v", err)
	}
	if len(page2.Items) != 3 {
		t.Fatalf("expected 3 items on page 2, got %d", len(page2.Items))
	}
	if page2.HasMore {
		t.Error("expected last page")
	}
}

func TestDiscoveryFeedOrdersByScore(t *testing.T) {
	repo := &fakeRepo{
		viewerExists: true,
		scoredPosts: []*ScoredPost{
			{Post: posts.Post{ID: 1}, Score: 40},
			{Post: posts.Post{ID: 2}, Score: 5},
		},
		scoredReels: []*ScoredReel{
			{Reel: reels.Reel{ID: 10}, Score: 300},
			{Reel: reels.Reel{ID: 11}, Score: 150},
		},
	}
	svc := NewService(repo)

	resp, err := svc.DiscoveryFeed(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("DiscoveryFeed: %v", err)
	}

	wantIDs := []int64{10, 11, 1, 2}
	if len(resp.Items) != len(wantIDs) {
		t.Fatalf("expected %d items, got %d", len(wantIDs), len(resp.Items))
	}
	for i, want := range wantIDs {
		if itemID(resp.Items[i]) != want {
			t.Errorf("item %d: expected id %d, got %d", i, want, itemID(resp.Items[i]))
		}
	}
}

func TestDiscoveryFeedEqualScoresNewestFirst(t *testing.T) {
	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	repo := &fakeRepo{
		viewerExists: true,
		scoredPosts: []*ScoredPost{
			{Post: posts.Post{ID: 1, CreatedAt: older}, Score: 200},
		},
		scoredReels: []*ScoredReel{
			{Reel: reels.Reel{ID: 10, CreatedAt: newer}, Score: 200},
		},
	}
	svc := NewService(repo)

	resp, err := svc.DiscoveryFeed(context.Background(), 1, 1, 10)
	if err != nil {
		t.Fatalf("DiscoveryFeed: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	// The reel is newer, so it wins the tie even though posts are
	// appended first.
	if itemID(resp.Items[0]) != 10 {
		t.Errorf("expected newer item first on equal score, got id %d", itemID(resp.Items[0]))
	}
}

func TestFeedUnknownViewer(t *testing.T) {
	svc := NewService(&fakeRepo{viewerExists: false})

	if _, err := svc.FollowingFeed(context.Background(), 42, 1, 10); err != ErrViewerNotFound {
		t.Errorf("FollowingFeed: expected ErrViewerNotFound, got %v", err)
	}
	if _, err := svc.DiscoveryFeed(context.Background(), 42, 1, 10); err != ErrViewerNotFound {
		t.Errorf("DiscoveryFeed: expected ErrViewerNotFound, got %v", err)
	}
	if _, err := svc.ExploreFeed(context.Background(), 42, "", 1, 10); err != ErrViewerNotFound {
		t.Errorf("ExploreFeed: expected ErrViewerNotFound, got %v", err)
	}
}

func TestExploreFeedSearchVsTrending(t *testing.T) {
	repo := &fakeRepo{
		viewerExists: true,
		searchUsers:  []*users.Summary{{ID: 7, Username: "sunset_sarah"}},
		trending:     []*posts.Post{{ID: 1, Caption: "most liked"}, {ID: 2, Caption: "runner up"}},
	}
	svc := NewService(repo)

	// A query searches people, not content
	withQuery, err := svc.ExploreFeed(context.Background(), 1, "sunset", 1, 10)
	if err != nil {
		t.Fatalf("ExploreFeed with query: %v", err)
	}
	if len(withQuery.Items) != 1 || withQuery.Items[0].Type != ItemTypeUser {
		t.Fatalf("expected one user result, got %+v", withQuery.Items)
	}
	if withQuery.Items[0].User.Username != "sunset_sarah" {
		t.Errorf("unexpected user result: %+v", withQuery.Items[0].User)
	}

	// No query surfaces trending posts in store order (most liked first)
	noQuery, err := svc.ExploreFeed(context.Background(), 1, "", 1, 10)
	if err != nil {
		t.Fatalf("ExploreFeed without query: %v", err)
	}
	if len(noQuery.Items) != 2 {
		t.Fatalf("expected 2 trending posts, got %d", len(noQuery.Items))
	}
	for i, want := range []int64{1, 2} {
		if noQuery.Items[i].Type != ItemTypePost || itemID(noQuery.Items[i]) != want {
			t.Errorf("item %d: expected post %d, got %+v", i, want, noQuery.Items[i])
		}
	}
}

// internal/feed/service.go

package feed

import (
	"context"
	"sort"
	"time"
)

type Service interface {
	FollowingFeed(ctx context.Context, viewerID int64, page, limit int) (*Response, error)
	DiscoveryFeed(ctx context.Context, viewerID int64, page, limit int) (*Response, error)
	ExploreFeed(ctx context.Context, viewerID int64, query string, page, limit int) (*Response, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// FollowingFeed interleaves recent posts and reels from followed
// accounts, newest first. Posts and reels each fill half the page.
func (s *service) FollowingFeed(ctx context.Context, viewerID int64, page, limit int) (*Response, error) {
	if err := s.checkViewer(ctx, viewerID); err != nil {
		return nil, err
	}

	half := limit / 2
	if half == 0 {
		half = 1
	}
	offset := (page - 1) * half

	postRows, err := s.repo.FollowingPosts(ctx, viewerID, half+1, offset)
	if err != nil {
		return nil, err
	}
	reelRows, err := s.repo.FollowingReels(ctx, viewerID, half+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(postRows) > half || len(reelRows) > half
	if len(postRows) > half {
		postRows = postRows[:half]
	}
	if len(reelRows) > half {
		reelRows = reelRows[:half]
	}

	items := make([]*Item, 0, len(postRows)+len(reelRows))
	for _, p := range postRows {
		items = append(items, &Item{Type: ItemTypePost, Post: p})
	}
	for _, r := range reelRows {
		items = append(items, &Item{Type: ItemTypeReel, Reel: r})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})

	return &Response{Items: items, Page: page, HasMore: hasMore}, nil
}

// DiscoveryFeed ranks content from across the network by engagement
// score, highest first.
func (s *service) DiscoveryFeed(ctx context.Context, viewerID int64, page, limit int) (*Response, error) {
	if err := s.checkViewer(ctx, viewerID); err != nil {
		return nil, err
	}

	half := limit / 2
	if half == 0 {
		half = 1
	}
	offset := (page - 1) * half

	postRows, err := s.repo.DiscoveryPosts(ctx, viewerID, half+1, offset)
	if err != nil {
		return nil, err
	}
	reelRows, err := s.repo.DiscoveryReels(ctx, viewerID, half+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(postRows) > half || len(reelRows) > half
	if len(postRows) > half {
		postRows = postRows[:half]
	}
	if len(reelRows) > half {
		reelRows = reelRows[:half]
	}

	items := make([]*Item, 0, len(postRows)+len(reelRows))
	for i := range postRows {
		items = append(items, &Item{Type: ItemTypePost, Post: &postRows[i].Post, score: postRows[i].Score})
	}
	for i := range reelRows {
		items = append(items, &Item{Type: ItemTypeReel, Reel: &reelRows[i].Reel, score: reelRows[i].Score})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return createdAt(items[i]).After(createdAt(items[j]))
	})

	return &Response{Items: items, Page: page, HasMore: hasMore}, nil
}

// ExploreFeed searches people when a query is given, otherwise it
// surfaces the most liked posts as trending.
func (s *service) ExploreFeed(ctx context.Context, viewerID int64, query string, page, limit int) (*Response, error) {
	if err := s.checkViewer(ctx, viewerID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit

	if query != "" {
		userRows, err := s.repo.SearchUsers(ctx, query, limit+1, offset)
		if err != nil {
			return nil, err
		}

		hasMore := len(userRows) > limit
		if hasMore {
			userRows = userRows[:limit]
		}

		items := make([]*Item, 0, len(userRows))
		for _, u := range userRows {
			items = append(items, &Item{Type: ItemTypeUser, User: u})
		}
		return &Response{Items: items, Page: page, HasMore: hasMore}, nil
	}

	postRows, err := s.repo.TrendingPosts(ctx, viewerID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(postRows) > limit
	if hasMore {
		postRows = postRows[:limit]
	}

	items := make([]*Item, 0, len(postRows))
	for _, p := range postRows {
		items = append(items, &Item{Type: ItemTypePost, Post: p})
	}
	return &Response{Items: items, Page: page, HasMore: hasMore}, nil
}

func (s *service) checkViewer(ctx context.Context, viewerID int64) error {
	exists, err := s.repo.ViewerExists(ctx, viewerID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrViewerNotFound
	}
	return nil
}

func createdAt(item *Item) time.Time {
	if item.Post != nil {
		return item.Post.CreatedAt
	}
	return item.Reel.CreatedAt
}

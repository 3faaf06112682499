// internal/users/service.go

package users

import (
	"context"
	"log"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type Service interface {
	GetProfile(ctx context.Context, viewerID int64, username string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error)
	SetPrivacy(ctx context.Context, userID int64, isPrivate bool) error
	Search(ctx context.Context, query string, page, limit int) (*SearchResponse, error)
	ListFollowers(ctx context.Context, viewerID int64, username string, page, limit int) (*ListResponse, error)
	ListFollowing(ctx context.Context, viewerID int64, username string, page, limit int) (*ListResponse, error)
	ToggleFollow(ctx context.Context, followerID int64, username string) (*FollowResponse, error)
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
}

func NewService(repo Repository, notifier notifications.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

// GetProfile returns a profile with counts. Private profiles are only
// visible to their owner and accepted followers.
func (s *service) GetProfile(ctx context.Context, viewerID int64, username string) (*Profile, error) {
	profile, err := s.repo.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if viewerID != 0 && viewerID != profile.ID {
		following, err := s.repo.IsFollowing(ctx, viewerID, profile.ID)
		if err != nil {
			return nil, err
		}
		profile.IsFollowing = following
	}

	if profile.IsPrivate && viewerID != profile.ID && !profile.IsFollowing {
		return nil, ErrPrivateProfile
	}
	return profile, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*Profile, error) {
	if req.Username != nil {
		taken, err := s.repo.UsernameExists(ctx, *req.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}

	if err := s.repo.UpdateProfile(ctx, userID, req); err != nil {
		return nil, err
	}
	return s.repo.GetProfileByID(ctx, userID)
}

func (s *service) SetPrivacy(ctx context.Context, userID int64, isPrivate bool) error {
	return s.repo.SetPrivacy(ctx, userID, isPrivate)
}

func (s *service) Search(ctx context.Context, query string, page, limit int) (*SearchResponse, error) {
	offset := (page - 1) * limit
	results, err := s.repo.Search(ctx, query, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}
	return &SearchResponse{Users: results, Page: page, HasMore: hasMore}, nil
}

func (s *service) ListFollowers(ctx context.Context, viewerID int64, username string, page, limit int) (*ListResponse, error) {
	profile, err := s.GetProfile(ctx, viewerID, username)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	followers, err := s.repo.ListFollowers(ctx, profile.ID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(followers) > limit
	if hasMore {
		followers = followers[:limit]
	}
	return &ListResponse{Users: followers, Page: page, HasMore: hasMore}, nil
}

func (s *service) ListFollowing(ctx context.Context, viewerID int64, username string, page, limit int) (*ListResponse, error) {
	profile, err := s.GetProfile(ctx, viewerID, username)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	following, err := s.repo.ListFollowing(ctx, profile.ID, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(following) > limit
	if hasMore {
		following = following[:limit]
	}
	return &ListResponse{Users: following, Page: page, HasMore: hasMore}, nil
}

// ToggleFollow follows the target if not yet followed, unfollows otherwise.
// A new follow notifies the target; the notification is best-effort.
func (s *service) ToggleFollow(ctx context.Context, followerID int64, username string) (*FollowResponse, error) {
	target, err := s.repo.GetProfileByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, ErrSelfFollow
	}

	following, err := s.repo.ToggleFollow(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}

	if following && s.notifier != nil {
		if err := s.notifier.Notify(ctx, notifications.TypeFollow, target.ID, followerID, notifications.Ref{}); err != nil {
			log.Printf("follow notification for user %d failed: %v", target.ID, err)
		}
	}

	count, err := s.repo.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	return &FollowResponse{Following: following, FollowersCount: count}, nil
}

func (s *service) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followingID)
}

func (s *service) GetFollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.GetFollowingIDs(ctx, userID)
}

// internal/comments/service.go

package comments

import (
	"context"
	"log"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type Service interface {
	CommentOnPost(ctx context.Context, userID, postID int64, req *CreateCommentRequest) (*Comment, error)
	CommentOnReel(ctx context.Context, userID, reelID int64, req *CreateCommentRequest) (*Comment, error)
	ListForPost(ctx context.Context, viewerID, postID int64, page, limit int) (*ListResponse, error)
	ListForReel(ctx context.Context, viewerID, reelID int64, page, limit int) (*ListResponse, error)
	ListReplies(ctx context.Context, viewerID, commentID int64, page, limit int) (*ListResponse, error)
	Delete(ctx context.Context, userID, commentID int64) error
	ToggleLike(ctx context.Context, userID, commentID int64) (*LikeResponse, error)
}

type service struct {
	repo     Repository
	notifier notifications.Publisher
}

func NewService(repo Repository, notifier notifications.Publisher) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) CommentOnPost(ctx context.Context, userID, postID int64, req *CreateCommentRequest) (*Comment, error) {
	ownerID, err := s.repo.GetPostOwner(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{UserID: userID, PostID: &postID, Content: req.Content}
	return s.create(ctx, comment, req.ParentID, ownerID, notifications.TypeCommentPost,
		notifications.Ref{PostID: &postID})
}

func (s *service) CommentOnReel(ctx context.Context, userID, reelID int64, req *CreateCommentRequest) (*Comment, error) {
	ownerID, err := s.repo.GetReelOwner(ctx, reelID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{UserID: userID, ReelID: &reelID, Content: req.Content}
	return s.create(ctx, comment, req.ParentID, ownerID, notifications.TypeCommentReel,
		notifications.Ref{ReelID: &reelID})
}

// create validates the optional parent, inserts the comment, and sends
// the right notification: replies notify the parent author, top-level
// comments notify the content owner.
func (s *service) create(ctx context.Context, comment *Comment, parentID *int64, ownerID int64, typ notifications.NotificationType, ref notifications.Ref) (*Comment, error) {
	notifyUserID := ownerID
	notifyType := typ

	if parentID != nil {
		parent, err := s.repo.GetByID(ctx, *parentID, comment.UserID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, ErrNestedReply
		}
		if !sameTarget(parent, comment) {
			return nil, ErrParentMismatch
		}
		comment.ParentID = parentID
		notifyUserID = parent.UserID
		notifyType = notifications.TypeCommentReply
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		ref.CommentID = &comment.ID
		if err := s.notifier.Notify(ctx, notifyType, notifyUserID, comment.UserID, ref); err != nil {
			log.Printf("comment notification for comment %d failed: %v", comment.ID, err)
		}
	}

	return s.repo.GetByID(ctx, comment.ID, comment.UserID)
}

func (s *service) ListForPost(ctx context.Context, viewerID, postID int64, page, limit int) (*ListResponse, error) {
	if _, err := s.repo.GetPostOwner(ctx, postID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	results, err := s.repo.ListForPost(ctx, postID, viewerID, limit+1, offset)
	if err != nil {
		return nil, err
	}
	return paged(results, page, limit), nil
}

func (s *service) ListForReel(ctx context.Context, viewerID, reelID int64, page, limit int) (*ListResponse, error) {
	if _, err := s.repo.GetReelOwner(ctx, reelID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	results, err := s.repo.ListForReel(ctx, reelID, viewerID, limit+1, offset)
	if err != nil {
		return nil, err
	}
	return paged(results, page, limit), nil
}

func (s *service) ListReplies(ctx context.Context, viewerID, commentID int64, page, limit int) (*ListResponse, error) {
	if _, err := s.repo.GetByID(ctx, commentID, viewerID); err != nil {
		return nil, err
	}

	offset := (page - 1) * limit
	results, err := s.repo.ListReplies(ctx, commentID, viewerID, limit+1, offset)
	if err != nil {
		return nil, err
	}
	return paged(results, page, limit), nil
}

// Delete is allowed for the comment author and the owner of the
// commented content. Replies cascade away with their parent.
func (s *service) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.repo.GetByID(ctx, commentID, userID)
	if err != nil {
		return err
	}

	allowed := comment.UserID == userID
	if !allowed {
		var ownerID int64
		switch {
		case comment.PostID != nil:
			ownerID, err = s.repo.GetPostOwner(ctx, *comment.PostID)
		case comment.ReelID != nil:
			ownerID, err = s.repo.GetReelOwner(ctx, *comment.ReelID)
		}
		if err != nil {
			return err
		}
		allowed = ownerID == userID
	}
	if !allowed {
		return ErrNotAllowed
	}

	return s.repo.Delete(ctx, commentID)
}

func (s *service) ToggleLike(ctx context.Context, userID, commentID int64) (*LikeResponse, error) {
	comment, err := s.repo.GetByID(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.ToggleLike(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	if liked && s.notifier != nil {
		ref := notifications.Ref{CommentID: &commentID, PostID: comment.PostID, ReelID: comment.ReelID}
		if err := s.notifier.Notify(ctx, notifications.TypeLikeComment, comment.UserID, userID, ref); err != nil {
			log.Printf("like notification for comment %d failed: %v", commentID, err)
		}
	}

	count, err := s.repo.CountLikes(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &LikeResponse{Liked: liked, LikesCount: count}, nil
}

func sameTarget(parent, child *Comment) bool {
	if parent.PostID != nil && child.PostID != nil {
		return *parent.PostID == *child.PostID
	}
	if parent.ReelID != nil && child.ReelID != nil {
		return *parent.ReelID == *child.ReelID
	}
	return false
}

func paged(results []*Comment, page, limit int) *ListResponse {
	hasMore := len(results) > limit
	if hasMore {
		results = results[:limit]
	}
	return &ListResponse{Comments: results, Page: page, HasMore: hasMore}
}

package comments

import (
	"context"
	"testing"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
)

type fakeRepo struct {
	comments   map[int64]*Comment
	likes      map[[2]int64]bool
	postOwners map[int64]int64
	reelOwners map[int64]int64
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		comments:   make(map[int64]*Comment),
		likes:      make(map[[2]int64]bool),
		postOwners: make(map[int64]int64),
		reelOwners: make(map[int64]int64),
		nextID:     0,
	}
}

func (f *fakeRepo) Create(ctx context.Context, comment *Comment) error {
	f.nextID++
	comment.ID = f.nextID
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, commentID, viewerID int64) (*Comment, error) {
	c, ok := f.comments[commentID]
	if !ok {
		return nil, ErrCommentNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepo) ListForPost(ctx context.Context, postID, viewerID int64, limit, offset int) ([]*Comment, error) {
	return nil, nil
}

func (f *fakeRepo) ListForReel(ctx context.Context, reelID, viewerID int64, limit, offset int) ([]*Comment, error) {
	return nil, nil
}

func (f *fakeRepo) ListReplies(ctx context.Context, parentID, viewerID int64, limit, offset int) ([]*Comment, error) {
	return nil, nil
}

func (f *fakeRepo) Delete(ctx context.Context, commentID int64) error {
	if _, ok := f.comments[commentID]; !ok {
		return ErrCommentNotFound
	}
	delete(f.comments, commentID)
	return nil
}

func (f *fakeRepo) ToggleLike(ctx context.Context, commentID, userID int64) (bool, error) {
	key := [2]int64{commentID, userID}
	if f.likes[key] {
		delete(f.likes, key)
		return false, nil
	}
	f.likes[key] = true
	return true, nil
}

func (f *fakeRepo) CountLikes(ctx context.Context, commentID int64) (int, error) {
	count := 0
	for key := range f.likes {
		if key[0] == commentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetPostOwner(ctx context.Context, postID int64) (int64, error) {
	owner, ok := f.postOwners[postID]
	if !ok {
		return 0, ErrTargetNotFound
	}
	return owner, nil
}

func (f *fakeRepo) GetReelOwner(ctx context.Context, reelID int64) (int64, error) {
	owner, ok := f.reelOwners[reelID]
	if !ok {
		return 0, ErrTargetNotFound
	}
	return owner, nil
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

func TestCommentNotifiesContentOwner(t *testing.T) {
	repo := newFakeRepo()
	repo.postOwners[1] = 5
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	comment, err := svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "nice shot"})
	if err != nil {
		t.Fatalf("CommentOnPost: %v", err)
	}
	if comment.PostID == nil || *comment.PostID != 1 {
		t.Errorf("expected post reference, got %+v", comment)
	}

	if len(notifier.types) != 1 || notifier.types[0] != notifications.TypeCommentPost {
		t.Fatalf("expected comment_post notification, got %v", notifier.types)
	}
	if notifier.recipients[0] != 5 {
		t.Errorf("expected notification for post owner 5, got %d", notifier.recipients[0])
	}
}

func TestReplyNotifiesParentAuthor(t *testing.T) {
	repo := newFakeRepo()
	repo.postOwners[1] = 5
	notifier := &fakeNotifier{}
	svc := NewService(repo, notifier)

	parent, err := svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "top level"})
	if err != nil {
		t.Fatalf("parent comment: %v", err)
	}

	reply, err := svc.CommentOnPost(context.Background(), 4, 1, &CreateCommentRequest{
		Content:  "reply",
		ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Errorf("reply parent not set: %+v", reply)
	}

	last := len(notifier.types) - 1
	if notifier.types[last] != notifications.TypeCommentReply {
		t.Errorf("expected comment_reply notification, got %v", notifier.types[last])
	}
	if notifier.recipients[last] != 3 {
		t.Errorf("expected notification for parent author 3, got %d", notifier.recipients[last])
	}
}

func TestReplyCannotNest(t *testing.T) {
	repo := newFakeRepo()
	repo.postOwners[1] = 5
	svc := NewService(repo, &fakeNotifier{})

	parent, _ := svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "top"})
	reply, err := svc.CommentOnPost(context.Background(), 4, 1, &CreateCommentRequest{Content: "mid", ParentID: &parent.ID})
	if err != nil {
		t.Fatalf("first reply: %v", err)
	}

	_, err = svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "deep", ParentID: &reply.ID})
	if err != ErrNestedReply {
		t.Errorf("expected ErrNestedReply, got %v", err)
	}
}

func TestReplyParentMustMatchTarget(t *testing.T) {
	repo := newFakeRepo()
	repo.postOwners[1] = 5
	repo.postOwners[2] = 6
	svc := NewService(repo, &fakeNotifier{})

	parent, _ := svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "on post 1"})

	_, err := svc.CommentOnPost(context.Background(), 4, 2, &CreateCommentRequest{Content: "wrong post", ParentID: &parent.ID})
	if err != ErrParentMismatch {
		t.Errorf("expected ErrParentMismatch, got %v", err)
	}
}

func TestDeletePermissions(t *testing.T) {
	repo := newFakeRepo()
	repo.postOwners[1] = 5
	svc := NewService(repo, &fakeNotifier{})

	comment, _ := svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "hmm"})

	// A bystander cannot delete
	if err := svc.Delete(context.Background(), 9, comment.ID); err != ErrNotAllowed {
		t.Errorf("expected ErrNotAllowed, got %v", err)
	}

	// The post owner can moderate their own post
	if err := svc.Delete(context.Background(), 5, comment.ID); err != nil {
		t.Errorf("post owner delete failed: %v", err)
	}

	comment, _ = svc.CommentOnPost(context.Background(), 3, 1, &CreateCommentRequest{Content: "again"})
	// The author can delete their own comment
	if err := svc.Delete(context.Background(), 3, comment.ID); err != nil {
		t.Errorf("author delete failed: %v", err)
	}
}

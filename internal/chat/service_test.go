package chat

import (
	"context"
	"testing"

	"github.com/vibelyhq/vibely-backend/internal/notifications"
	"github.com/vibelyhq/vibely-backend/internal/realtime"
)

type fakeRepo struct {
	conversations map[int64]*Conversation
	messages      []*Message
	users         map[int64]bool
	nextConvID    int64
	nextMsgID     int64
}

func newFakeRepo(userIDs ...int64) *fakeRepo {
	repo := &fakeRepo{
		conversations: make(map[int64]*Conversation),
		users:         make(map[int64]bool),
	}
	for _, id := range userIDs {
		repo.users[id] = true
	}
	return repo
}

func (f *fakeRepo) GetOrCreateConversation(ctx context.Context, userA, userB int64) (*Conversation, error) {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	for _, c := range f.conversations {
		if c.MemberA == low && c.MemberB == high {
			return c, nil
		}
	}
	f.nextConvID++
	conv := &Conversation{ID: f.nextConvID, MemberA: low, MemberB: high}
	f.conversations[conv.ID] = conv
	return conv, nil
}

func (f *fakeRepo) GetConversation(ctx context.Context, conversationID int64) (*Conversation, error) {
	c, ok := f.conversations[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeRepo) ListConversations(ctx context.Context, userID int64, limit, offset int) ([]*Conversation, error) {
	result := []*Conversation{}
	for _, c := range f.conversations {
		if c.MemberA == userID || c.MemberB == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, message *Message) error {
	f.nextMsgID++
	message.ID = f.nextMsgID
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, conversationID int64, limit, offset int) ([]*Message, error) {
	result := []*Message{}
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeRepo) MarkMessagesRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	var changed int64
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.IsRead {
			m.IsRead = true
			changed++
		}
	}
	return changed, nil
}

func (f *fakeRepo) UserExists(ctx context.Context, userID int64) (bool, error) {
	return f.users[userID], nil
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

type fakeGateway struct {
	targets []int64
	events  []realtime.Event
}

func (f *fakeGateway) Publish(userID int64, event realtime.Event) {
	f.targets = append(f.targets, userID)
	f.events = append(f.events, event)
}

func (f *fakeGateway) IsOnline(ctx context.Context, userID int64) (bool, error) {
	return false, nil
}

func TestSendMessageCreatesConversation(t *testing.T) {
	repo := newFakeRepo(1, 2)
	notifier := &fakeNotifier{}
	gateway := &fakeGateway{}
	svc := NewService(repo, notifier, gateway)

	message, err := svc.SendMessage(context.Background(), 1, 2, "hey bob")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if message.ID == 0 || message.ConversationID == 0 {
		t.Errorf("message not persisted: %+v", message)
	}

	// Second message reuses the same conversation
	second, err := svc.SendMessage(context.Background(), 2, 1, "hey alice")
	if err != nil {
		t.Fatalf("second SendMessage: %v", err)
	}
	if second.ConversationID != message.ConversationID {
		t.Errorf("expected same conversation, got %d and %d", message.ConversationID, second.ConversationID)
	}

	// Live push and notification both target the recipient
	if len(gateway.targets) != 2 || gateway.targets[0] != 2 || gateway.targets[1] != 1 {
		t.Errorf("unexpected push targets: %v", gateway.targets)
	}
	if len(notifier.types) != 2 || notifier.types[0] != notifications.TypeMessage {
		t.Errorf("unexpected notifications: %v", notifier.types)
	}
}

func TestSendMessageValidation(t *testing.T) {
	repo := newFakeRepo(1, 2)
	svc := NewService(repo, &fakeNotifier{}, &fakeGateway{})

	if _, err := svc.SendMessage(context.Background(), 1, 1, "hi me"); err != ErrSelfMessage {
		t.Errorf("expected ErrSelfMessage, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), 1, 99, "hello?"); err != ErrRecipientNotFound {
		t.Errorf("expected ErrRecipientNotFound, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), 1, 2, "   "); err != ErrEmptyMessage {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestListMessagesRequiresMembership(t *testing.T) {
	repo := newFakeRepo(1, 2, 3)
	svc := NewService(repo, &fakeNotifier{}, &fakeGateway{})

	message, err := svc.SendMessage(context.Background(), 1, 2, "private")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if _, err := svc.ListMessages(context.Background(), 3, message.ConversationID, 1, 10); err != ErrNotMember {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
	if _, err := svc.ListMessages(context.Background(), 2, message.ConversationID, 1, 10); err != nil {
		t.Errorf("member list failed: %v", err)
	}
}

func TestMarkReadNotifiesPeer(t *testing.T) {
	repo := newFakeRepo(1, 2)
	gateway := &fakeGateway{}
	svc := NewService(repo, &fakeNotifier{}, gateway)

	message, err := svc.SendMessage(context.Background(), 1, 2, "read me")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	gateway.targets = nil
	gateway.events = nil

	if err := svc.MarkRead(context.Background(), 2, message.ConversationID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	if len(gateway.events) != 1 || gateway.events[0].Type != realtime.EventMessageRead {
		t.Fatalf("expected message_read event, got %+v", gateway.events)
	}
	if gateway.targets[0] != 1 {
		t.Errorf("expected read receipt for sender 1, got %d", gateway.targets[0])
	}

	// Nothing left unread, no second event
	gateway.events = nil
	if err := svc.MarkRead(context.Background(), 2, message.ConversationID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if len(gateway.events) != 0 {
		t.Errorf("expected no event when nothing changed, got %+v", gateway.events)
	}
}

package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"workspace-chat/domain"
	"workspace-chat/errors"
	"workspace-chat/mocks"
	"workspace-chat/moderation"
	"workspace-chat/observability"
	"workspace-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// messageFixture wires a message service against a real badger store with a
// three-member workspace, so the tests exercise the same persistence paths as
// production.
type messageFixture struct {
	svc           *MessageService
	notifications *NotificationService
	messages      repositories.MessageRepository
	members       repositories.MemberRepository
	index         *mocks.MockIIndex
	workspaceID   uuid.UUID
	alice         uuid.UUID
	bob           uuid.UUID
	clara         uuid.UUID
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	index := mocks.NewMockIIndex(ctrl)
	index.EXPECT().IndexMessage(gomock.Any()).Return(nil).AnyTimes()
	index.EXPECT().RemoveMessage(gomock.Any()).Return(nil).AnyTimes()

	censor, err := moderation.NewCensor([]string{"heck"}, '*')
	req.NoError(err)

	log := slog.Default()
	monitor := observability.NewMonitor(log)
	messages := repositories.NewMessageRepository(db, log)
	members := repositories.NewMemberRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db, log, domain.RetentionWindow)
	notifications := NewNotificationService(notificationRepo, members, monitor, log)
	svc := NewMessageService(messages, members, notifications, index, censor, monitor, 2000, log)

	f := &messageFixture{
		svc:           svc,
		notifications: notifications,
		messages:      messages,
		members:       members,
		index:         index,
		workspaceID:   uuid.New(),
		alice:         uuid.New(),
		bob:           uuid.New(),
		clara:         uuid.New(),
	}
	at := time.Now().UTC()
	req.NoError(members.Add(domain.Member{UserID: f.alice, WorkspaceID: f.workspaceID, Role: domain.RoleOwner, JoinedAt: at}))
	req.NoError(members.Add(domain.Member{UserID: f.bob, WorkspaceID: f.workspaceID, Role: domain.RoleMember, JoinedAt: at}))
	req.NoError(members.Add(domain.Member{UserID: f.clara, WorkspaceID: f.workspaceID, Role: domain.RoleMember, JoinedAt: at}))
	return f
}

func (f *messageFixture) send(t *testing.T, sender uuid.UUID, content string) domain.Message {
	t.Helper()
	message, err := f.svc.Send(context.Background(), domain.SendMessageCommand{
		SenderID:    sender,
		WorkspaceID: f.workspaceID,
		Content:     content,
	})
	require.NoError(t, err)
	// Distinct creation timestamps keep the key order deterministic.
	time.Sleep(time.Millisecond)
	return message
}

func (f *messageFixture) unread(t *testing.T, recipient uuid.UUID) int {
	t.Helper()
	count, err := f.notifications.CountUnread(context.Background(), recipient)
	require.NoError(t, err)
	return count
}

func TestMessageService_Send_RequiresMembership(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	outsider := uuid.New()

	_, err := f.svc.Send(context.Background(), domain.SendMessageCommand{
		SenderID:    outsider,
		WorkspaceID: f.workspaceID,
		Content:     "let me in",
	})
	req.ErrorIs(err, errors.ErrNotMember)

	// No message and no notification record came into existence.
	stored, err := f.messages.ListByWorkspace(f.workspaceID)
	req.NoError(err)
	req.Empty(stored)
	req.Zero(f.unread(t, f.bob))
	req.Zero(f.unread(t, f.clara))
}

func TestMessageService_Send_ContentValidation(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	ctx := context.Background()

	_, err := f.svc.Send(ctx, domain.SendMessageCommand{SenderID: f.alice, WorkspaceID: f.workspaceID, Content: ""})
	req.ErrorIs(err, errors.ErrEmptyContent)

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.Send(ctx, domain.SendMessageCommand{SenderID: f.alice, WorkspaceID: f.workspaceID, Content: string(long)})
	req.ErrorIs(err, errors.ErrContentTooLong)

	_, err = f.svc.Send(ctx, domain.SendMessageCommand{SenderID: f.alice, WorkspaceID: f.workspaceID, Content: "\x00\x01\x02\x03"})
	req.ErrorIs(err, errors.ErrContentNotText)
}

func TestMessageService_Send_CensorsContent(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)

	message := f.send(t, f.alice, "what the heck")
	req.Equal("what the ****", message.Content)
}

func TestMessageService_MentionExclusivity(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	ctx := context.Background()

	// M1: no mentions, General fan-out to everyone but the sender.
	m1 := f.send(t, f.alice, "welcome")
	req.Zero(f.unread(t, f.alice))
	req.Equal(1, f.unread(t, f.bob))
	req.Equal(1, f.unread(t, f.clara))

	// M2: mentions Bob, Mention to Bob only. Clara hears nothing.
	m2 := f.send(t, f.alice, "@[Bob]("+f.bob.String()+") check this")
	req.Equal([]uuid.UUID{f.bob}, m2.Mentions)
	req.Equal(2, f.unread(t, f.bob))
	req.Equal(1, f.unread(t, f.clara))

	bobFeed, err := f.notifications.List(ctx, f.bob)
	req.NoError(err)
	req.Len(bobFeed, 2)
	// Most recent first.
	req.Equal(m2.ID, bobFeed[0].MessageID)
	req.Equal(domain.KindMention, bobFeed[0].Kind)
	req.Equal(m1.ID, bobFeed[1].MessageID)
	req.Equal(domain.KindGeneral, bobFeed[1].Kind)

	// Clara sees only M1 in her list; M2 is absent entirely.
	claraView, err := f.svc.List(ctx, domain.ListMessagesCommand{ReaderID: f.clara, WorkspaceID: f.workspaceID})
	req.NoError(err)
	req.Len(claraView, 1)
	req.Equal(m1.ID, claraView[0].ID)

	// Sender and addressee see both, in creation order.
	for _, reader := range []uuid.UUID{f.alice, f.bob} {
		view, err := f.svc.List(ctx, domain.ListMessagesCommand{ReaderID: reader, WorkspaceID: f.workspaceID})
		req.NoError(err)
		req.Len(view, 2)
		req.Equal(m1.ID, view[0].ID)
		req.Equal(m2.ID, view[1].ID)
	}
}

func TestMessageService_SelfMentionIsAPrivateNote(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	ctx := context.Background()

	message := f.send(t, f.alice, "@[Alice]("+f.alice.String()+") note to self")
	req.Equal([]uuid.UUID{f.alice}, message.Mentions)

	// Nobody is notified, the sender included.
	req.Zero(f.unread(t, f.alice))
	req.Zero(f.unread(t, f.bob))
	req.Zero(f.unread(t, f.clara))

	// Only the author sees it.
	aliceView, err := f.svc.List(ctx, domain.ListMessagesCommand{ReaderID: f.alice, WorkspaceID: f.workspaceID})
	req.NoError(err)
	req.Len(aliceView, 1)

	bobView, err := f.svc.List(ctx, domain.ListMessagesCommand{ReaderID: f.bob, WorkspaceID: f.workspaceID})
	req.NoError(err)
	req.Empty(bobView)
}

func TestMessageService_Edit(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	message := f.send(t, f.alice, "first draft")

	t.Run("only the sender may edit", func(t *testing.T) {
		req := require.New(t)
		_, err := f.svc.Edit(ctx, domain.EditMessageCommand{
			UserID: f.bob, WorkspaceID: f.workspaceID, MessageID: message.ID, Content: "hijacked",
		})
		req.ErrorIs(err, errors.ErrNotSender)
	})

	t.Run("edit replaces content and sets the flag", func(t *testing.T) {
		req := require.New(t)
		edited, err := f.svc.Edit(ctx, domain.EditMessageCommand{
			UserID: f.alice, WorkspaceID: f.workspaceID, MessageID: message.ID, Content: "final version",
		})
		req.NoError(err)
		req.True(edited.Edited)
		req.Equal("final version", edited.Content)

		// The original content is not recoverable through any read path.
		view, err := f.svc.List(ctx, domain.ListMessagesCommand{ReaderID: f.alice, WorkspaceID: f.workspaceID})
		req.NoError(err)
		req.Len(view, 1)
		req.Equal("final version", view[0].Content)
		req.True(view[0].Edited)
	})

	t.Run("unknown message yields not found", func(t *testing.T) {
		req := require.New(t)
		_, err := f.svc.Edit(ctx, domain.EditMessageCommand{
			UserID: f.alice, WorkspaceID: f.workspaceID, MessageID: uuid.New(), Content: "x",
		})
		req.ErrorIs(err, errors.ErrMessageNotFound)
	})
}

func TestMessageService_Edit_DoesNotReparseMentions(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	ctx := context.Background()

	message := f.send(t, f.alice, "hi @[Bob]("+f.bob.String()+")")
	req.Equal(1, f.unread(t, f.bob))
	req.Zero(f.unread(t, f.clara))

	edited, err := f.svc.Edit(ctx, domain.EditMessageCommand{
		UserID:      f.alice,
		WorkspaceID: f.workspaceID,
		MessageID:   message.ID,
		Content:     "hi @[Clara](" + f.clara.String() + ")",
	})
	req.NoError(err)

	// The recipient set and visibility are fixed at creation time: no new
	// notification for Clara, no notification storm for Bob, and Clara still
	// cannot see the message.
	req.Equal([]uuid.UUID{f.bob}, edited.Mentions)
	req.Equal(1, f.unread(t, f.bob))
	req.Zero(f.unread(t, f.clara))

	claraView, err := f.svc.List(ctx, domain.ListMessagesCommand{ReaderID: f.clara, WorkspaceID: f.workspaceID})
	req.NoError(err)
	req.Empty(claraView)
}

func TestMessageService_Delete(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()

	message := f.send(t, f.alice, "to be removed")

	t.Run("only the sender may delete", func(t *testing.T) {
		req := require.New(t)
		_, err := f.svc.Delete(ctx, domain.DeleteMessageCommand{
			UserID: f.bob, WorkspaceID: f.workspaceID, MessageID: message.ID,
		})
		req.ErrorIs(err, errors.ErrNotSender)
	})

	t.Run("delete is a soft delete and idempotent", func(t *testing.T) {
		req := require.New(t)
		deleted, err := f.svc.Delete(ctx, domain.DeleteMessageCommand{
			UserID: f.alice, WorkspaceID: f.workspaceID, MessageID: message.ID,
		})
		req.NoError(err)
		req.True(deleted.Deleted)
		req.Empty(deleted.Content)
		req.NotNil(deleted.DeletedAt)

		// The second call re-confirms the same terminal state.
		again, err := f.svc.Delete(ctx, domain.DeleteMessageCommand{
			UserID: f.alice, WorkspaceID: f.workspaceID, MessageID: message.ID,
		})
		req.NoError(err)
		req.True(again.Deleted)
		req.Empty(again.Content)
		req.True(again.DeletedAt.Equal(*deleted.DeletedAt))
	})

	t.Run("deleted message refuses edits", func(t *testing.T) {
		req := require.New(t)
		_, err := f.svc.Edit(ctx, domain.EditMessageCommand{
			UserID: f.alice, WorkspaceID: f.workspaceID, MessageID: message.ID, Content: "resurrect",
		})
		req.ErrorIs(err, errors.ErrMessageNotFound)
	})
}

func TestMessageService_Search_FiltersHits(t *testing.T) {
	req := require.New(t)
	f := newMessageFixture(t)
	ctx := context.Background()

	public := f.send(t, f.alice, "quarterly report ready")
	addressed := f.send(t, f.alice, "@[Bob]("+f.bob.String()+") report draft attached")
	stale := uuid.New() // an index hit whose record no longer exists

	f.index.EXPECT().
		Search(gomock.Any(), f.workspaceID, "report", 20).
		Return([]uuid.UUID{addressed.ID, public.ID, stale}, nil).
		Times(2)

	// Clara only gets the public hit; the addressed message and the stale
	// hit are dropped.
	results, err := f.svc.Search(ctx, domain.SearchMessagesCommand{
		ReaderID: f.clara, WorkspaceID: f.workspaceID, Terms: "report",
	})
	req.NoError(err)
	req.Len(results, 1)
	req.Equal(public.ID, results[0].ID)

	// Bob, as an addressee, sees both.
	results, err = f.svc.Search(ctx, domain.SearchMessagesCommand{
		ReaderID: f.bob, WorkspaceID: f.workspaceID, Terms: "report",
	})
	req.NoError(err)
	req.Len(results, 2)
}

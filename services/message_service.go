//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"workspace-chat/domain"
	"workspace-chat/errors"
	"workspace-chat/mention"
	"workspace-chat/moderation"
	"workspace-chat/observability"
	"workspace-chat/repositories"
	"workspace-chat/search"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageService interface {
	Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	List(ctx context.Context, cmd domain.ListMessagesCommand) ([]domain.Message, error)
	Edit(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error)
	Delete(ctx context.Context, cmd domain.DeleteMessageCommand) (domain.Message, error)
	Search(ctx context.Context, cmd domain.SearchMessagesCommand) ([]domain.Message, error)
}

type MessageService struct {
	messages         repositories.IMessageRepository
	members          repositories.IMemberRepository
	notifications    INotificationService
	index            search.IIndex
	censor           *moderation.Censor
	monitor          *observability.Monitor
	maxContentLength int
	log              *slog.Logger
}

func NewMessageService(
	messages repositories.IMessageRepository,
	members repositories.IMemberRepository,
	notifications INotificationService,
	index search.IIndex,
	censor *moderation.Censor,
	monitor *observability.Monitor,
	maxContentLength int,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		messages:         messages,
		members:          members,
		notifications:    notifications,
		index:            index,
		censor:           censor,
		monitor:          monitor,
		maxContentLength: maxContentLength,
		log:              log,
	}
}

// Send creates a message in the workspace and fans out its notifications.
//
// The durable write comes first; dispatch and indexing are best-effort side
// effects. A failed notification batch is logged but never rolls back or
// fails the send, message durability takes precedence over notification
// completeness.
func (s *MessageService) Send(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	if err := s.requireMember(cmd.SenderID, cmd.WorkspaceID); err != nil {
		return domain.Message{}, err
	}
	if err := s.validateContent(cmd.Content); err != nil {
		return domain.Message{}, err
	}

	content := s.censor.Apply(cmd.Content)
	mentions := mention.Parse(content, mention.UUIDResolver)

	message := domain.NewMessage(cmd.WorkspaceID, cmd.SenderID, content, mentions, time.Now().UTC())
	if err := s.messages.Store(message); err != nil {
		return domain.Message{}, fmt.Errorf("message store failed: %w", err)
	}
	s.monitor.IncrMessagesSent()

	if err := s.notifications.Dispatch(ctx, message); err != nil {
		s.log.Error("Notification dispatch failed", "message", message.ID, "error", err)
	}
	if err := s.index.IndexMessage(message); err != nil {
		s.log.Warn("Message indexing failed", "message", message.ID, "error", err)
	}
	return message, nil
}

// List returns the workspace messages the reader may see, in creation order.
func (s *MessageService) List(ctx context.Context, cmd domain.ListMessagesCommand) ([]domain.Message, error) {
	if err := s.requireMember(cmd.ReaderID, cmd.WorkspaceID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByWorkspace(cmd.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return lo.Filter(messages, func(m domain.Message, _ int) bool {
		return m.VisibleTo(cmd.ReaderID)
	}), nil
}

// Edit replaces the content of the caller's own message. Mentions are not
// re-parsed: the recipient set and the visibility of a message are fixed at
// creation time, so repeated edits cannot trigger notification storms or
// change who already saw it.
func (s *MessageService) Edit(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error) {
	if err := s.requireMember(cmd.UserID, cmd.WorkspaceID); err != nil {
		return domain.Message{}, err
	}

	message, err := s.messages.GetByID(cmd.WorkspaceID, cmd.MessageID)
	if err != nil {
		return domain.Message{}, err
	}
	// A soft-deleted message is gone from the caller's perspective; editing
	// it would also break the deleted-implies-empty-content invariant.
	if message.Deleted {
		return domain.Message{}, errors.ErrMessageNotFound
	}
	if message.SenderID != cmd.UserID {
		return domain.Message{}, errors.ErrNotSender
	}
	if err := s.validateContent(cmd.Content); err != nil {
		return domain.Message{}, err
	}

	message.Edit(s.censor.Apply(cmd.Content))
	if err := s.messages.Update(message); err != nil {
		return domain.Message{}, fmt.Errorf("message update failed: %w", err)
	}
	s.monitor.IncrMessagesEdited()

	if err := s.index.IndexMessage(message); err != nil {
		s.log.Warn("Message re-indexing failed", "message", message.ID, "error", err)
	}
	return message, nil
}

// Delete soft-deletes the caller's own message: the content is erased, the
// record stays for audit and notification back-references. A second call
// re-confirms the terminal state instead of erroring.
func (s *MessageService) Delete(ctx context.Context, cmd domain.DeleteMessageCommand) (domain.Message, error) {
	if err := s.requireMember(cmd.UserID, cmd.WorkspaceID); err != nil {
		return domain.Message{}, err
	}

	message, err := s.messages.GetByID(cmd.WorkspaceID, cmd.MessageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.SenderID != cmd.UserID {
		return domain.Message{}, errors.ErrNotSender
	}
	if message.Deleted {
		return message, nil
	}

	message.Delete(time.Now().UTC())
	if err := s.messages.Update(message); err != nil {
		return domain.Message{}, fmt.Errorf("message update failed: %w", err)
	}
	s.monitor.IncrMessagesDeleted()

	if err := s.index.RemoveMessage(message.ID); err != nil {
		s.log.Warn("Message removal from index failed", "message", message.ID, "error", err)
	}
	return message, nil
}

// Search runs a full-text query over the workspace and returns the matching
// messages the reader may see. Hits are re-read from the store so the index
// never leaks stale or invisible content.
func (s *MessageService) Search(ctx context.Context, cmd domain.SearchMessagesCommand) ([]domain.Message, error) {
	if err := s.requireMember(cmd.ReaderID, cmd.WorkspaceID); err != nil {
		return nil, err
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = 20
	}
	ids, err := s.index.Search(ctx, cmd.WorkspaceID, cmd.Terms, limit)
	if err != nil {
		return nil, err
	}

	var results []domain.Message
	for _, id := range ids {
		message, err := s.messages.GetByID(cmd.WorkspaceID, id)
		if err != nil {
			// The index may briefly lag behind a deletion.
			continue
		}
		if message.Deleted || !message.VisibleTo(cmd.ReaderID) {
			continue
		}
		results = append(results, message)
	}
	return results, nil
}

// requireMember is the membership gate. It queries the store fresh on every
// call so a revoked membership takes effect on the very next operation.
func (s *MessageService) requireMember(userID, workspaceID uuid.UUID) error {
	ok, err := s.members.IsMember(userID, workspaceID)
	if err != nil {
		return fmt.Errorf("membership check failed: %w", err)
	}
	if !ok {
		return errors.ErrNotMember
	}
	return nil
}

func (s *MessageService) validateContent(content string) error {
	if content == "" {
		return errors.ErrEmptyContent
	}
	if s.maxContentLength > 0 && len(content) > s.maxContentLength {
		return errors.ErrContentTooLong
	}
	if !isText(mimetype.Detect([]byte(content))) {
		return errors.ErrContentNotText
	}
	return nil
}

// isText walks the detected MIME hierarchy: JSON, XML and friends all
// descend from text/plain and remain valid chat content, binary payloads do
// not.
func isText(mt *mimetype.MIME) bool {
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") {
			return true
		}
	}
	return false
}

//go:generate go run go.uber.org/mock/mockgen -source=notification_service.go -destination=../mocks/mock_notification_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"log/slog"

	"workspace-chat/domain"
	"workspace-chat/observability"
	"workspace-chat/repositories"

	"github.com/google/uuid"
)

type INotificationService interface {
	Dispatch(ctx context.Context, message domain.Message) error
	List(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
}

type NotificationService struct {
	notifications repositories.INotificationRepository
	members       repositories.IMemberRepository
	monitor       *observability.Monitor
	log           *slog.Logger
}

func NewNotificationService(
	notifications repositories.INotificationRepository,
	members repositories.IMemberRepository,
	monitor *observability.Monitor,
	log *slog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		members:       members,
		monitor:       monitor,
		log:           log,
	}
}

// Dispatch computes and persists the notification batch for a freshly
// created message. The rule is exclusive, not additive:
//
//   - the message mentions someone: one Mention notification per addressee,
//     nobody else hears about it;
//   - no mentions at all: one General notification for every other current
//     member of the workspace.
//
// Mentioning someone converts the ambient broadcast into a directed message.
//
// The batch is best-effort: a failed recipient is logged and skipped, the
// remaining recipients are still notified, and the store keys are
// deterministic per (message, recipient) so a retried dispatch cannot
// double-notify.
func (s *NotificationService) Dispatch(ctx context.Context, message domain.Message) error {
	var recipients []uuid.UUID
	kind := domain.KindMention
	for _, id := range message.Mentions {
		// A user cannot notify themselves; a pure self-mention yields an
		// addressed message with an empty notification batch.
		if id != message.SenderID {
			recipients = append(recipients, id)
		}
	}

	if len(message.Mentions) == 0 {
		members, err := s.members.ListByWorkspace(message.WorkspaceID)
		if err != nil {
			return err
		}
		for _, member := range members {
			if member.UserID == message.SenderID {
				continue
			}
			recipients = append(recipients, member.UserID)
		}
		kind = domain.KindGeneral
	}

	var errs []error
	for _, recipientID := range recipients {
		notification := domain.NewNotification(recipientID, message, kind)
		if err := s.notifications.Store(notification, message.CreatedAt); err != nil {
			s.monitor.IncrDispatchFailures()
			s.log.Error("Notification store failed",
				"recipient", recipientID, "message", message.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		s.monitor.IncrNotificationsDispatched()
	}
	return stderrors.Join(errs...)
}

// List returns the recipient's notifications, most recent first.
func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID) ([]domain.Notification, error) {
	return s.notifications.ListByRecipient(recipientID)
}

// MarkAllRead flips every unread notification of the recipient in one bulk
// update; it is not itemized.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.notifications.MarkAllRead(recipientID)
}

func (s *NotificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.notifications.CountUnread(recipientID)
}

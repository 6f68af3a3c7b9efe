//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"workspace-chat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type INotificationRepository interface {
	Store(notification domain.Notification, messageCreatedAt time.Time) error
	ListByRecipient(recipientID uuid.UUID) ([]domain.Notification, error)
	MarkAllRead(recipientID uuid.UUID) error
	CountUnread(recipientID uuid.UUID) (int, error)
}

type NotificationRepository struct {
	db        *badger.DB
	log       *slog.Logger
	retention time.Duration
}

func NewNotificationRepository(db *badger.DB, log *slog.Logger, retention time.Duration) NotificationRepository {
	return NotificationRepository{db: db, log: log, retention: retention}
}

type diskNotification struct {
	ID          string
	RecipientID string
	WorkspaceID string
	MessageID   string
	Kind        string
	Read        bool
	CreatedAt   int64 // unix nanoseconds
}

// notificationKey is "notif:{recipient}:{msg_timestamp_padded}:{message_id}".
// Building the key from the triggering message instead of the notification
// itself makes it deterministic per (message, recipient): a fan-out retry
// overwrites the existing record instead of double-notifying. The padded
// timestamp keeps the recipient's feed in chronological key order.
func notificationKey(recipientID, messageID uuid.UUID, messageCreatedAt time.Time) []byte {
	return fmt.Appendf(nil, "notif:%s:%019d:%s", recipientID, messageCreatedAt.UnixNano(), messageID)
}

// Store persists the notification with a TTL so the store itself enforces
// the retention window; no reaper has to scan for stale records.
func (r NotificationRepository) Store(notification domain.Notification, messageCreatedAt time.Time) error {
	bytes, err := cbor.Marshal(fromNotification(notification))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := notificationKey(notification.RecipientID, notification.MessageID, messageCreatedAt)
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, bytes).WithTTL(r.retention)
		return txn.SetEntry(entry)
	})
}

// ListByRecipient returns the recipient's notifications most recent first,
// using a reverse scan over the time-ordered keyspace.
func (r NotificationRepository) ListByRecipient(recipientID uuid.UUID) ([]domain.Notification, error) {
	var values [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := fmt.Appendf(nil, "notif:%s:", recipientID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		seekKey := append(append([]byte(nil), prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				values = append(values, append([]byte(nil), val...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(values))
	for _, val := range values {
		var disk diskNotification
		if err := cbor.Unmarshal(val, &disk); err != nil {
			return nil, err
		}
		notification, err := toNotification(disk)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

// MarkAllRead flips every unread notification of the recipient in one bulk
// update. Each rewritten entry keeps the remaining TTL of the original so a
// read notification still expires at its original deadline.
func (r NotificationRepository) MarkAllRead(recipientID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		prefix := fmt.Appendf(nil, "notif:%s:", recipientID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var disk diskNotification
			err := item.Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			if disk.Read {
				continue
			}
			disk.Read = true

			bytes, err := cbor.Marshal(disk)
			if err != nil {
				return err
			}
			key := item.KeyCopy(nil)
			entry := badger.NewEntry(key, bytes)
			if expiresAt := item.ExpiresAt(); expiresAt > 0 {
				remaining := time.Until(time.Unix(int64(expiresAt), 0))
				if remaining <= 0 {
					continue
				}
				entry = entry.WithTTL(remaining)
			}
			if err := txn.SetEntry(entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r NotificationRepository) CountUnread(recipientID uuid.UUID) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := fmt.Appendf(nil, "notif:%s:", recipientID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskNotification
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			if !disk.Read {
				count++
			}
		}
		return nil
	})
	return count, err
}

func fromNotification(notification domain.Notification) diskNotification {
	return diskNotification{
		ID:          notification.ID.String(),
		RecipientID: notification.RecipientID.String(),
		WorkspaceID: notification.WorkspaceID.String(),
		MessageID:   notification.MessageID.String(),
		Kind:        string(notification.Kind),
		Read:        notification.Read,
		CreatedAt:   notification.CreatedAt.UnixNano(),
	}
}

func toNotification(disk diskNotification) (domain.Notification, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Notification{}, err
	}
	recipientID, err := uuid.Parse(disk.RecipientID)
	if err != nil {
		return domain.Notification{}, err
	}
	workspaceID, err := uuid.Parse(disk.WorkspaceID)
	if err != nil {
		return domain.Notification{}, err
	}
	messageID, err := uuid.Parse(disk.MessageID)
	if err != nil {
		return domain.Notification{}, err
	}

	kind := domain.Kind(disk.Kind)
	if !kind.Valid() {
		return domain.Notification{}, fmt.Errorf("unknown notification kind %q", disk.Kind)
	}

	return domain.Notification{
		ID:          id,
		RecipientID: recipientID,
		WorkspaceID: workspaceID,
		MessageID:   messageID,
		Kind:        kind,
		Read:        disk.Read,
		CreatedAt:   time.Unix(0, disk.CreatedAt).UTC(),
	}, nil
}

//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"workspace-chat/domain"
	"workspace-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Store(message domain.Message) error
	Update(message domain.Message) error
	GetByID(workspaceID, messageID uuid.UUID) (domain.Message, error)
	ListByWorkspace(workspaceID uuid.UUID) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// diskMessage is the CBOR shape persisted in BadgerDB.
type diskMessage struct {
	ID          string
	WorkspaceID string
	SenderID    string
	Content     string
	Mentions    []string
	Edited      bool
	Deleted     bool
	CreatedAt   int64 // unix nanoseconds
	DeletedAt   *int64
}

// messageKey formats the primary key as "msg:{workspace}:{timestamp_padded}:{uuid}":
//  1. The 19-digit zero padding makes lexicographic order equal chronological
//     order, so a forward prefix scan returns creation order.
//  2. The UUID suffix disambiguates two messages created in the same
//     nanosecond.
func messageKey(m domain.Message) []byte {
	return fmt.Appendf(nil, "msg:%s:%019d:%s", m.WorkspaceID, m.CreatedAt.UnixNano(), m.ID)
}

// messageLocatorKey is the secondary key "msgid:{workspace}:{uuid}" holding
// the primary key, so Edit and Delete resolve a message by ID without a scan.
func messageLocatorKey(workspaceID, messageID uuid.UUID) []byte {
	return fmt.Appendf(nil, "msgid:%s:%s", workspaceID, messageID)
}

func (r MessageRepository) Store(message domain.Message) error {
	bytes, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := messageKey(message)
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(messageLocatorKey(message.WorkspaceID, message.ID), key)
	})
}

// Update rewrites the record in place. The primary key embeds the immutable
// CreatedAt, so lifecycle transitions (edit, soft delete) never move the key.
func (r MessageRepository) Update(message domain.Message) error {
	bytes, err := cbor.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := resolveMessageKey(txn, message.WorkspaceID, message.ID)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
}

func (r MessageRepository) GetByID(workspaceID, messageID uuid.UUID) (domain.Message, error) {
	var disk diskMessage
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := resolveMessageKey(txn, workspaceID, messageID)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return domain.Message{}, errors.ErrMessageNotFound
		}
		return domain.Message{}, err
	}
	return toMessage(disk)
}

// ListByWorkspace returns every message of the workspace in creation order,
// including soft-deleted ones. Visibility filtering belongs to the service.
func (r MessageRepository) ListByWorkspace(workspaceID uuid.UUID) ([]domain.Message, error) {
	var values [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := fmt.Appendf(nil, "msg:%s:", workspaceID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
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

	messages := make([]domain.Message, 0, len(values))
	for _, val := range values {
		var disk diskMessage
		if err := cbor.Unmarshal(val, &disk); err != nil {
			return nil, err
		}
		message, err := toMessage(disk)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func resolveMessageKey(txn *badger.Txn, workspaceID, messageID uuid.UUID) ([]byte, error) {
	item, err := txn.Get(messageLocatorKey(workspaceID, messageID))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func fromMessage(message domain.Message) diskMessage {
	var deletedAt *int64
	if message.DeletedAt != nil {
		deletedAt = lo.ToPtr(message.DeletedAt.UnixNano())
	}
	return diskMessage{
		ID:          message.ID.String(),
		WorkspaceID: message.WorkspaceID.String(),
		SenderID:    message.SenderID.String(),
		Content:     message.Content,
		Mentions: lo.Map(message.Mentions, func(id uuid.UUID, _ int) string {
			return id.String()
		}),
		Edited:    message.Edited,
		Deleted:   message.Deleted,
		CreatedAt: message.CreatedAt.UnixNano(),
		DeletedAt: deletedAt,
	}
}

func toMessage(disk diskMessage) (domain.Message, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Message{}, err
	}
	workspaceID, err := uuid.Parse(disk.WorkspaceID)
	if err != nil {
		return domain.Message{}, err
	}
	senderID, err := uuid.Parse(disk.SenderID)
	if err != nil {
		return domain.Message{}, err
	}

	var mentions []uuid.UUID
	for _, raw := range disk.Mentions {
		mentionID, err := uuid.Parse(raw)
		if err != nil {
			return domain.Message{}, err
		}
		mentions = append(mentions, mentionID)
	}

	var deletedAt *time.Time
	if disk.DeletedAt != nil {
		deletedAt = lo.ToPtr(time.Unix(0, *disk.DeletedAt).UTC())
	}

	return domain.Message{
		ID:          id,
		WorkspaceID: workspaceID,
		SenderID:    senderID,
		Content:     disk.Content,
		Mentions:    mentions,
		Edited:      disk.Edited,
		Deleted:     disk.Deleted,
		CreatedAt:   time.Unix(0, disk.CreatedAt).UTC(),
		DeletedAt:   deletedAt,
	}, nil
}

//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_repository.go -package=mocks
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
)

type ISessionRepository interface {
	Put(sessionID uuid.UUID, principal domain.Principal) error
	Get(sessionID uuid.UUID) (domain.Principal, error)
	Touch(sessionID uuid.UUID) error
	Delete(sessionID uuid.UUID) error
}

// SessionRepository stores principal snapshots keyed by session ID. Every
// entry carries the session TTL, so an untouched session simply disappears
// from the store when it lapses.
type SessionRepository struct {
	db  *badger.DB
	log *slog.Logger
	ttl time.Duration
}

func NewSessionRepository(db *badger.DB, log *slog.Logger, ttl time.Duration) SessionRepository {
	return SessionRepository{db: db, log: log, ttl: ttl}
}

type diskPrincipal struct {
	UserID string
	Email  string
	Name   string
}

func sessionKey(sessionID uuid.UUID) []byte {
	return fmt.Appendf(nil, "session:%s", sessionID)
}

func (r SessionRepository) Put(sessionID uuid.UUID, principal domain.Principal) error {
	bytes, err := cbor.Marshal(diskPrincipal{
		UserID: principal.ID.String(),
		Email:  principal.Email,
		Name:   principal.Name,
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(sessionID), bytes).WithTTL(r.ttl)
		return txn.SetEntry(entry)
	})
}

func (r SessionRepository) Get(sessionID uuid.UUID) (domain.Principal, error) {
	var disk diskPrincipal
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Principal{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return domain.Principal{}, err
	}

	userID, err := uuid.Parse(disk.UserID)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{ID: userID, Email: disk.Email, Name: disk.Name}, nil
}

// Touch rewrites the entry with a fresh full TTL so activity resets the
// expiry window.
func (r SessionRepository) Touch(sessionID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := sessionKey(sessionID)
		item, err := txn.Get(key)
		if err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrSessionNotFound
			}
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(key, val).WithTTL(r.ttl))
	})
}

// Delete destroys the session record. Deleting a session that no longer
// exists is not an error; logout must be idempotent.
func (r SessionRepository) Delete(sessionID uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(sessionID))
	})
}

//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"workspace-chat/domain"
	"workspace-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	Create(email, name, hashedPassword string) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
	GetByID(userID uuid.UUID) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) UserRepository {
	return UserRepository{db: db}
}

type diskUser struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    int64
}

func userKey(email string) []byte {
	return []byte("user:" + email)
}

// userLocatorKey maps the user ID back to the email key so lookups by ID
// need no scan.
func userLocatorKey(userID uuid.UUID) []byte {
	return fmt.Appendf(nil, "userid:%s", userID)
}

// Create persists the user keyed by email. The email key doubles as the
// uniqueness check.
func (r UserRepository) Create(email, name, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}
	bytes, err := cbor.Marshal(fromUser(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := userKey(email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, bytes); err != nil {
			return err
		}
		return txn.Set(userLocatorKey(user.ID), []byte(email))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r UserRepository) GetByEmail(email string) (domain.User, error) {
	var disk diskUser
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk)
}

func (r UserRepository) GetByID(userID uuid.UUID) (domain.User, error) {
	var email []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userLocatorKey(userID))
		if err != nil {
			return err
		}
		email, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return r.GetByEmail(string(email))
}

func fromUser(user domain.User) diskUser {
	return diskUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UnixNano(),
	}
}

func toUser(disk diskUser) (domain.User, error) {
	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:           id,
		Email:        disk.Email,
		Name:         disk.Name,
		PasswordHash: disk.PasswordHash,
		CreatedAt:    time.Unix(0, disk.CreatedAt).UTC(),
	}, nil
}

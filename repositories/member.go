//go:generate go run go.uber.org/mock/mockgen -source=member.go -destination=../mocks/mock_member_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"workspace-chat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMemberRepository interface {
	Add(member domain.Member) error
	IsMember(userID, workspaceID uuid.UUID) (bool, error)
	ListByWorkspace(workspaceID uuid.UUID) ([]domain.Member, error)
}

type MemberRepository struct {
	db *badger.DB
}

func NewMemberRepository(db *badger.DB) MemberRepository {
	return MemberRepository{db: db}
}

type diskMember struct {
	UserID      string
	WorkspaceID string
	Role        string
	JoinedAt    int64
}

func memberKey(workspaceID, userID uuid.UUID) []byte {
	return fmt.Appendf(nil, "member:%s:%s", workspaceID, userID)
}

func (r MemberRepository) Add(member domain.Member) error {
	bytes, err := cbor.Marshal(diskMember{
		UserID:      member.UserID.String(),
		WorkspaceID: member.WorkspaceID.String(),
		Role:        string(member.Role),
		JoinedAt:    member.JoinedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(memberKey(member.WorkspaceID, member.UserID), bytes)
	})
}

// IsMember is the authorization predicate behind every message and
// notification operation. It reads the store on every call so a revoked
// membership is reflected immediately; nothing is cached.
func (r MemberRepository) IsMember(userID, workspaceID uuid.UUID) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(workspaceID, userID))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r MemberRepository) ListByWorkspace(workspaceID uuid.UUID) ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := fmt.Appendf(nil, "member:%s:", workspaceID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMember
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			member, err := toMember(disk)
			if err != nil {
				return err
			}
			members = append(members, member)
		}
		return nil
	})
	return members, err
}

func toMember(disk diskMember) (domain.Member, error) {
	userID, err := uuid.Parse(disk.UserID)
	if err != nil {
		return domain.Member{}, err
	}
	workspaceID, err := uuid.Parse(disk.WorkspaceID)
	if err != nil {
		return domain.Member{}, err
	}
	return domain.Member{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        domain.Role(disk.Role),
		JoinedAt:    time.Unix(0, disk.JoinedAt).UTC(),
	}, nil
}

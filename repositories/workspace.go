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

type IWorkspaceRepository interface {
	Store(workspace domain.Workspace) error
	GetByID(workspaceID uuid.UUID) (domain.Workspace, error)
}

type WorkspaceRepository struct {
	db *badger.DB
}

func NewWorkspaceRepository(db *badger.DB) WorkspaceRepository {
	return WorkspaceRepository{db: db}
}

type diskWorkspace struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   int64
}

func workspaceKey(workspaceID uuid.UUID) []byte {
	return fmt.Appendf(nil, "workspace:%s", workspaceID)
}

func (r WorkspaceRepository) Store(workspace domain.Workspace) error {
	bytes, err := cbor.Marshal(diskWorkspace{
		ID:          workspace.ID.String(),
		Name:        workspace.Name,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID.String(),
		CreatedAt:   workspace.CreatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(workspaceKey(workspace.ID), bytes)
	})
}

func (r WorkspaceRepository) GetByID(workspaceID uuid.UUID) (domain.Workspace, error) {
	var disk diskWorkspace
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(workspaceKey(workspaceID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Workspace{}, errors.ErrWorkspaceNotFound
	}
	if err != nil {
		return domain.Workspace{}, err
	}

	id, err := uuid.Parse(disk.ID)
	if err != nil {
		return domain.Workspace{}, err
	}
	ownerID, err := uuid.Parse(disk.OwnerID)
	if err != nil {
		return domain.Workspace{}, err
	}
	return domain.Workspace{
		ID:          id,
		Name:        disk.Name,
		Description: disk.Description,
		OwnerID:     ownerID,
		CreatedAt:   time.Unix(0, disk.CreatedAt).UTC(),
	}, nil
}

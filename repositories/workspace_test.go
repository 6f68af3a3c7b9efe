package repositories

import (
	"testing"

	"workspace-chat/domain"
	"workspace-chat/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRepository_RoundTrip(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewWorkspaceRepository(db)
	workspace := domain.NewWorkspace("My Workspace", "Workspace created for Alice", uuid.New())
	req.NoError(repository.Store(workspace))

	fetched, err := repository.GetByID(workspace.ID)
	req.NoError(err)
	req.Equal(workspace.ID, fetched.ID)
	req.Equal(workspace.Name, fetched.Name)
	req.Equal(workspace.Description, fetched.Description)
	req.Equal(workspace.OwnerID, fetched.OwnerID)
	req.True(fetched.CreatedAt.Equal(workspace.CreatedAt))

	_, err = repository.GetByID(uuid.New())
	req.ErrorIs(err, errors.ErrWorkspaceNotFound)
}

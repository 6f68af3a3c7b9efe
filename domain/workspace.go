package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Workspace is the scoping boundary for membership, messages and
// notifications.
type Workspace struct {
	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
}

func NewWorkspace(name, description string, ownerID uuid.UUID) Workspace {
	return Workspace{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
}

// Member ties a user to a workspace. The membership gate reads these
// records fresh on every call so a revocation takes effect immediately.
type Member struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	Role        Role
	JoinedAt    time.Time
}

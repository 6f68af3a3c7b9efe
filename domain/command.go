package domain

import "github.com/google/uuid"

// Commands are the already-parsed arguments the transport layer hands to the
// services. They carry the authenticated user explicitly; there is no
// ambient "current request" state.

type SendMessageCommand struct {
	SenderID    uuid.UUID
	WorkspaceID uuid.UUID
	Content     string
}

type ListMessagesCommand struct {
	ReaderID    uuid.UUID
	WorkspaceID uuid.UUID
}

type EditMessageCommand struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	MessageID   uuid.UUID
	Content     string
}

type DeleteMessageCommand struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
	MessageID   uuid.UUID
}

type SearchMessagesCommand struct {
	ReaderID    uuid.UUID
	WorkspaceID uuid.UUID
	Terms       string
	Limit       int
}

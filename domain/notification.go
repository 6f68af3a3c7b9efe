package domain

import (
	"time"

	"github.com/google/uuid"
)

// RetentionWindow is how long a notification is kept before the store
// expires it. The store enforces this with a TTL on each record.
const RetentionWindow = 30 * 24 * time.Hour

// Kind is the closed set of notification variants.
type Kind string

const (
	// KindMention targets the users referenced in the message content.
	KindMention Kind = "mention"
	// KindGeneral is the ambient fan-out to every other workspace member
	// when a message carries no mention.
	KindGeneral Kind = "general"
)

func (k Kind) Valid() bool {
	switch k {
	case KindMention, KindGeneral:
		return true
	}
	return false
}

// Notification is a derived record produced exactly once, as a side effect
// of message creation. It holds a non-owning reference to the message.
// The Read flag is one-way and only ever flipped in bulk.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	WorkspaceID uuid.UUID
	MessageID   uuid.UUID
	Kind        Kind
	Read        bool
	CreatedAt   time.Time
}

func NewNotification(recipientID uuid.UUID, message Message, kind Kind) Notification {
	return Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		WorkspaceID: message.WorkspaceID,
		MessageID:   message.ID,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}
}

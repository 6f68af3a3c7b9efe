// Package domain contains core concepts of the workspace messaging system.
// This file defines Message records, their lifecycle transitions and the
// visibility rule. No storage, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Message is a workspace-scoped chat message. A message moves through three
// states: active, edited and deleted. The Edited and Deleted flags are
// one-way; once set they are never reset.
//
// Mentions are resolved once, at creation time, and are never re-derived on
// edit. Editing therefore cannot retroactively add or remove notification
// recipients or change who may read the message.
type Message struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	SenderID    uuid.UUID
	Content     string
	Mentions    []uuid.UUID // first-occurrence order, no duplicates
	Edited      bool
	Deleted     bool
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

func NewMessage(workspaceID, senderID uuid.UUID, content string, mentions []uuid.UUID, at time.Time) Message {
	return Message{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		SenderID:    senderID,
		Content:     content,
		Mentions:    mentions,
		CreatedAt:   at,
	}
}

// VisibleTo decides read access for a given reader. A message without
// mentions is visible to every workspace member. As soon as it carries at
// least one mention it becomes addressed: only the sender and the mentioned
// users may see it, everyone else sees neither the content nor its existence.
func (m Message) VisibleTo(readerID uuid.UUID) bool {
	if len(m.Mentions) == 0 {
		return true
	}
	if m.SenderID == readerID {
		return true
	}
	return lo.Contains(m.Mentions, readerID)
}

// Edit replaces the content and marks the message as edited.
func (m *Message) Edit(content string) {
	m.Content = content
	m.Edited = true
}

// Delete performs the soft delete: the content is erased but the record,
// its mentions and timestamps are retained for audit and notification
// back-references. Calling Delete on an already deleted message is a no-op
// so the terminal state is stable.
func (m *Message) Delete(at time.Time) {
	if m.Deleted {
		return
	}
	m.Deleted = true
	m.DeletedAt = lo.ToPtr(at)
	m.Content = ""
}

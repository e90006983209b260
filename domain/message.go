// Package domain contains core concepts of the care-thread system.
// This file defines Message entries of a thread log.
// Messages are immutable once created, except ReadBy which only grows.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type MessageKind string

const (
	KindText   MessageKind = "text"
	KindImage  MessageKind = "image"
	KindVideo  MessageKind = "video"
	KindSystem MessageKind = "system"
)

// SystemEvent tags what a System message records.
type SystemEvent string

const (
	EventAdmitted      SystemEvent = "admitted"
	EventDischarged    SystemEvent = "discharged"
	EventReadmitted    SystemEvent = "readmitted"
	EventMemberAdded   SystemEvent = "member_added"
	EventMemberRemoved SystemEvent = "member_removed"
	EventMemberLeft    SystemEvent = "member_left"
)

// Message is one slot of a thread log. Seq is the authoritative order,
// Timestamp is informational and never used to sort.
type Message struct {
	ID            uuid.UUID
	ThreadID      ThreadID
	Seq           uint64
	SenderID      UserID
	Timestamp     time.Time
	Kind          MessageKind
	Content       string
	AttachmentRef string
	SystemEvent   SystemEvent
	Subject       UserID // member concerned by a membership System message
	ReadBy        []UserID
	Deleted       bool
	DeletedAt     *time.Time
}

func (m Message) IsSystem() bool {
	return m.Kind == KindSystem
}

func (m Message) IsMedia() bool {
	return m.Kind == KindImage || m.Kind == KindVideo
}

// HasRead reports whether userID has seen the message.
// System messages are always considered read.
func (m Message) HasRead(userID UserID) bool {
	if m.IsSystem() {
		return true
	}
	return slices.Contains(m.ReadBy, userID)
}

// ReadByOthers drives the delivery checkmark: someone besides the sender has seen it.
func (m Message) ReadByOthers() bool {
	return len(m.ReadBy) > 1
}

// UnreadBy is the predicate summed by the unread counter.
// Tombstones are skipped because their read set is frozen.
func (m Message) UnreadBy(userID UserID) bool {
	return !m.Deleted && !m.HasRead(userID)
}

func (m Message) clone() Message {
	m.ReadBy = slices.Clone(m.ReadBy)
	if m.DeletedAt != nil {
		at := *m.DeletedAt
		m.DeletedAt = &at
	}
	return m
}

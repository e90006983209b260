package event

import (
	"care-thread/domain"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is anything the fanout can route to the subscribers of a thread.
type DomainEvent interface {
	ThreadID() domain.ThreadID
}

type Action string

const (
	AdmissionCreated    Action = "admission.created"
	AdmissionUpdated    Action = "admission.updated"
	AdmissionDischarged Action = "admission.discharged"
	AdmissionReadmitted Action = "admission.readmitted"
	MessageSent         Action = "message.sent"
	MessageRead         Action = "message.read"
	MessageDeleted      Action = "message.deleted"
	MemberAdded         Action = "member.added"
	MemberRemoved       Action = "member.removed"
	MemberLeft          Action = "member.left"
)

// AuditEvent is emitted exactly once per successful mutating operation.
// TargetID names the entity acted upon: a message id, a user id or the thread itself.
type AuditEvent struct {
	ID       uuid.UUID
	UserID   domain.UserID
	Action   Action
	Thread   domain.ThreadID
	TargetID string
	At       time.Time
	Details  map[string]string
}

func (e AuditEvent) ThreadID() domain.ThreadID {
	return e.Thread
}

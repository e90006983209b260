package domain

import (
	"care-thread/errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Append adds a user-authored message at the tail of the thread log.
// The sender has implicitly read their own message.
func Append(a Admission, author UserID, draft Draft, at time.Time, id uuid.UUID) (Admission, Message, error) {
	if err := CheckWrite(author, a); err != nil {
		return a, Message{}, err
	}
	if err := draft.Validate(); err != nil {
		return a, Message{}, err
	}
	next, msg := a.push(Message{
		ID:            id,
		SenderID:      author,
		Timestamp:     at,
		Kind:          draft.Kind,
		Content:       draft.Content,
		AttachmentRef: draft.AttachmentRef,
		ReadBy:        []UserID{author},
	})
	return next, msg, nil
}

// appendSystem records a lifecycle or membership event. It skips CheckWrite
// on purpose: the discharge message lands after the status already flipped.
func (a Admission) appendSystem(actor UserID, evt SystemEvent, subject UserID, at time.Time, id uuid.UUID) (Admission, Message) {
	return a.push(Message{
		ID:          id,
		SenderID:    actor,
		Timestamp:   at,
		Kind:        KindSystem,
		Content:     systemContent(evt, actor, subject),
		SystemEvent: evt,
		Subject:     subject,
	})
}

// push assigns the next gap-free seq and a timestamp that never goes back
// in time within the thread, whatever the caller clock says.
func (a Admission) push(m Message) (Admission, Message) {
	a = a.clone()
	if m.Timestamp.Before(a.LastActivity) {
		m.Timestamp = a.LastActivity
	}
	a.LastSeq++
	m.Seq = a.LastSeq
	m.ThreadID = a.ID
	a.LastActivity = m.Timestamp
	return a, m
}

// Tombstone soft-deletes a message. The slot, kind and seq stay, content is
// cleared and ReadBy is frozen. Deleting a tombstone again changes nothing.
func Tombstone(m Message, requestor User, at time.Time) (Message, bool, error) {
	if m.IsSystem() {
		return m, false, errors.ErrPermissionDenied
	}
	if requestor.ID != m.SenderID && requestor.Role != RoleAdmin {
		return m, false, errors.ErrPermissionDenied
	}
	if m.Deleted {
		return m, false, nil
	}
	m = m.clone()
	m.Content = ""
	m.AttachmentRef = ""
	m.Deleted = true
	m.DeletedAt = &at
	return m, true, nil
}

func systemContent(evt SystemEvent, actor, subject UserID) string {
	switch evt {
	case EventAdmitted:
		return fmt.Sprintf("Patient admitted by %s", actor)
	case EventDischarged:
		return fmt.Sprintf("Patient discharged by %s", actor)
	case EventReadmitted:
		return fmt.Sprintf("Patient readmitted by %s", actor)
	case EventMemberAdded:
		return fmt.Sprintf("%s added %s to the care team", actor, subject)
	case EventMemberRemoved:
		return fmt.Sprintf("%s removed %s from the care team", actor, subject)
	case EventMemberLeft:
		return fmt.Sprintf("%s left the care team", subject)
	default:
		return string(evt)
	}
}

package domain

import (
	"care-thread/errors"
	"time"

	"github.com/google/uuid"
)

// AddMember grants thread access to newMember. Adding a current member is a
// no-op and returns no message.
func AddMember(a Admission, actor User, newMember UserID, at time.Time, msgID uuid.UUID) (Admission, []Message, error) {
	if !CanManageMembership(actor, a) {
		return a, nil, errors.ErrPermissionDenied
	}
	if !a.IsActive() {
		return a, nil, errors.ErrThreadClosed
	}
	if a.HasMember(newMember) {
		return a, nil, nil
	}
	next, msg := a.withMember(newMember).appendSystem(actor.ID, EventMemberAdded, newMember, at, msgID)
	return next, []Message{msg}, nil
}

// RemoveMember revokes target's access. The owner can never be removed,
// whoever asks. A member removing themselves is leaving and needs no rights.
func RemoveMember(a Admission, actor User, target UserID, at time.Time, msgID uuid.UUID) (Admission, []Message, error) {
	if target == a.MainCareOwnerID {
		return a, nil, errors.ErrCannotRemoveOwner
	}
	leaving := actor.ID == target
	if !leaving && !CanManageMembership(actor, a) {
		return a, nil, errors.ErrPermissionDenied
	}
	if !a.IsActive() {
		return a, nil, errors.ErrThreadClosed
	}
	if !a.HasMember(target) {
		return a, nil, nil
	}
	evt := EventMemberRemoved
	if leaving {
		evt = EventMemberLeft
	}
	next, msg := a.withoutMember(target).appendSystem(actor.ID, evt, target, at, msgID)
	return next, []Message{msg}, nil
}

package domain

import (
	"care-thread/errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// transitions lists the only legal status moves.
var transitions = map[AdmissionStatus]AdmissionStatus{
	StatusActive:     StatusDischarged,
	StatusDischarged: StatusActive,
}

// Admit opens a new admission owned by its creator, who is its only member.
func Admit(id ThreadID, owner UserID, patient PatientDetails, appearance Appearance,
	at time.Time, msgID uuid.UUID) (Admission, Message, error) {
	if err := ValidatePatient(patient, appearance); err != nil {
		return Admission{}, Message{}, err
	}
	a := Admission{
		ID:              id,
		Patient:         patient,
		Appearance:      appearance,
		MainCareOwnerID: owner,
		Members:         []UserID{owner},
		Status:          StatusActive,
		DateAdmitted:    at,
		LastActivity:    at,
	}
	a, msg := a.appendSystem(owner, EventAdmitted, owner, at, msgID)
	return a, msg, nil
}

// Transition moves the admission to the target status. Any move outside the
// transition table, including a move to the current status, is rejected.
func (a Admission) Transition(to AdmissionStatus, at time.Time) (Admission, error) {
	next, ok := transitions[a.Status]
	if !ok || next != to {
		return a, fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, a.Status, to)
	}
	a = a.clone()
	a.Status = to
	switch to {
	case StatusDischarged:
		a.DateDischarged = &at
	case StatusActive:
		a.DateDischarged = nil
	}
	return a, nil
}

// Discharge closes the thread for user-authored messages and freezes membership.
// Discharging a discharged thread returns ErrInvalidTransition.
func Discharge(a Admission, actor UserID, at time.Time, msgID uuid.UUID) (Admission, Message, error) {
	if !CanAccess(actor, a) {
		return a, Message{}, errors.ErrPermissionDenied
	}
	next, err := a.Transition(StatusDischarged, at)
	if err != nil {
		return a, Message{}, err
	}
	next, msg := next.appendSystem(actor, EventDischarged, "", at, msgID)
	return next, msg, nil
}

// Readmit reopens a discharged thread. Members frozen at discharge time and
// membership managers may do it.
func Readmit(a Admission, actor User, at time.Time, msgID uuid.UUID) (Admission, Message, error) {
	if !CanAccess(actor.ID, a) && !CanManageMembership(actor, a) {
		return a, Message{}, errors.ErrPermissionDenied
	}
	next, err := a.Transition(StatusActive, at)
	if err != nil {
		return a, Message{}, err
	}
	next, msg := next.appendSystem(actor.ID, EventReadmitted, "", at, msgID)
	return next, msg, nil
}

// UpdateDetails replaces the cosmetic patient metadata (last writer wins).
func UpdateDetails(a Admission, actor User, patient PatientDetails, appearance Appearance,
	at time.Time) (Admission, error) {
	if !CanManageMembership(actor, a) {
		if err := CheckWrite(actor.ID, a); err != nil {
			return a, err
		}
	}
	if err := ValidatePatient(patient, appearance); err != nil {
		return a, err
	}
	a = a.clone()
	a.Patient = patient
	a.Appearance = appearance
	return a, nil
}

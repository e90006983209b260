package domain

import (
	"care-thread/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAdmit(t *testing.T) {
	req := require.New(t)

	a, msg, err := Admit("t1", owner.ID, patient, Appearance{AvatarColor: "teal"}, t0, uuid.New())

	req.NoError(err)
	req.Equal(StatusActive, a.Status)
	req.Equal([]UserID{owner.ID}, a.Members)
	req.Equal(owner.ID, a.MainCareOwnerID)
	req.Nil(a.DateDischarged)
	req.Equal(uint64(1), msg.Seq)
	req.Equal(KindSystem, msg.Kind)
	req.Equal(EventAdmitted, msg.SystemEvent)
	req.Equal("Jane Doe", a.Patient.FullName())
}

func TestAdmit_Invalid_Patient(t *testing.T) {
	req := require.New(t)

	_, _, err := Admit("t1", owner.ID, PatientDetails{FirstName: "Jane", Age: 200}, Appearance{}, t0, uuid.New())

	req.ErrorIs(err, errors.ErrInvalidAdmission)
}

func TestTransition_Table(t *testing.T) {
	req := require.New(t)
	a := admitted(t)

	_, err := a.Transition(StatusActive, t0)
	req.ErrorIs(err, errors.ErrInvalidTransition)

	discharged, err := a.Transition(StatusDischarged, t0)
	req.NoError(err)
	req.NotNil(discharged.DateDischarged)

	_, err = discharged.Transition(StatusDischarged, t0)
	req.ErrorIs(err, errors.ErrInvalidTransition)

	_, err = a.Transition("archived", t0)
	req.ErrorIs(err, errors.ErrInvalidTransition)
}

func TestDischarge_Then_Readmit(t *testing.T) {
	req := require.New(t)
	a := admitted(t)
	at := t0.Add(time.Hour)

	// When a member discharges the patient
	discharged, msg, err := Discharge(a, nurse.ID, at, uuid.New())
	req.NoError(err)

	// Then the thread is closed and the event is logged
	req.Equal(StatusDischarged, discharged.Status)
	req.Equal(at, *discharged.DateDischarged)
	req.Equal(EventDischarged, msg.SystemEvent)
	req.Equal(a.LastSeq+1, msg.Seq)
	req.Equal(a.Members, discharged.Members, "members are frozen, not cleared")
	_, _, err = Append(discharged, nurse.ID, text("late note"), at, uuid.New())
	req.ErrorIs(err, errors.ErrThreadClosed)

	// When a frozen member readmits
	readmitted, msg, err := Readmit(discharged, nurse, at.Add(time.Hour), uuid.New())
	req.NoError(err)

	// Then writing works again
	req.Equal(StatusActive, readmitted.Status)
	req.Nil(readmitted.DateDischarged)
	req.Equal(EventReadmitted, msg.SystemEvent)
	_, _, err = Append(readmitted, nurse.ID, text("back"), at, uuid.New())
	req.NoError(err)
}

func TestDischarge_Rejections(t *testing.T) {
	req := require.New(t)
	a := admitted(t)

	_, _, err := Discharge(a, visitor.ID, t0, uuid.New())
	req.ErrorIs(err, errors.ErrPermissionDenied)

	discharged, _, err := Discharge(a, owner.ID, t0, uuid.New())
	req.NoError(err)
	_, _, err = Discharge(discharged, owner.ID, t0, uuid.New())
	req.ErrorIs(err, errors.ErrInvalidTransition)
}

func TestReadmit_Rights(t *testing.T) {
	req := require.New(t)
	discharged, _, err := Discharge(admitted(t), owner.ID, t0, uuid.New())
	req.NoError(err)

	_, _, err = Readmit(discharged, visitor, t0, uuid.New())
	req.ErrorIs(err, errors.ErrPermissionDenied)

	_, _, err = Readmit(discharged, clerk, t0, uuid.New())
	req.NoError(err, "a clerk is not a member but manages membership")

	active := admitted(t)
	_, _, err = Readmit(active, owner, t0, uuid.New())
	req.ErrorIs(err, errors.ErrInvalidTransition)
}

func TestUpdateDetails(t *testing.T) {
	req := require.New(t)
	a := admitted(t)
	moved := patient
	moved.Ward = "ICU"

	updated, err := UpdateDetails(a, nurse, moved, Appearance{Background: "blue"}, t0)
	req.NoError(err)
	req.Equal("ICU", updated.Patient.Ward)
	req.Equal(a.LastSeq, updated.LastSeq, "details edits add no message")

	_, err = UpdateDetails(a, visitor, moved, Appearance{}, t0)
	req.ErrorIs(err, errors.ErrPermissionDenied)

	discharged, _, err := Discharge(a, owner.ID, t0, uuid.New())
	req.NoError(err)
	_, err = UpdateDetails(discharged, nurse, moved, Appearance{}, t0)
	req.ErrorIs(err, errors.ErrThreadClosed)
	_, err = UpdateDetails(discharged, clerk, moved, Appearance{}, t0)
	req.NoError(err)
}

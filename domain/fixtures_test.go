package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	t0      = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	owner   = User{ID: "u1", Role: RoleHealthcareWorker}
	nurse   = User{ID: "u2", Role: RoleHealthcareWorker}
	visitor = User{ID: "u3", Role: RoleHealthcareWorker}
	admin   = User{ID: "adm", Role: RoleAdmin}
	clerk   = User{ID: "clerk", Role: RoleSystemClerk}
	patient = PatientDetails{FirstName: "Jane", LastName: "Doe", Age: 67, Ward: "B2"}
)

// admitted returns a fresh active thread owned by owner with nurse as member.
func admitted(t *testing.T) Admission {
	t.Helper()
	req := require.New(t)
	a, _, err := Admit("t1", owner.ID, patient, Appearance{}, t0, uuid.New())
	req.NoError(err)
	a, _, err = AddMember(a, owner, nurse.ID, t0.Add(time.Minute), uuid.New())
	req.NoError(err)
	return a
}

func text(content string) Draft {
	return Draft{Kind: KindText, Content: content}
}

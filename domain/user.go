// Package domain contains core concepts of the care-thread system.
// This file defines care-team members as seen by the core: an opaque id and a role.
// No runtime, network, or UI logic should be added here.
package domain

type UserID string

type Role string

const (
	RoleAdmin            Role = "admin"
	RoleHealthcareWorker Role = "healthcare_worker"
	RoleSystemClerk      Role = "system_clerk"
)

// User is an external identity. Credentials live in the identity provider,
// the core only needs the role for authorization decisions.
type User struct {
	ID          UserID `validate:"required"`
	Role        Role   `validate:"required,oneof=admin healthcare_worker system_clerk"`
	DisplayName string `validate:"max=120"`
}

// IsManager reports whether the role grants membership management on every thread.
func (u User) IsManager() bool {
	return u.Role == RoleAdmin || u.Role == RoleSystemClerk
}

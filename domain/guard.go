package domain

import "care-thread/errors"

// CanAccess is true iff userID is a member. Non-members may still see the
// admission in the roster but never its messages.
func CanAccess(userID UserID, a Admission) bool {
	return a.HasMember(userID)
}

// CanWrite is true iff the user is a member of an active thread.
func CanWrite(userID UserID, a Admission) bool {
	return CanAccess(userID, a) && a.IsActive()
}

// CanManageMembership grants add/remove to managers and to the main care owner.
func CanManageMembership(u User, a Admission) bool {
	return u.IsManager() || u.ID == a.MainCareOwnerID
}

// CanLeave allows any member except the owner to remove themselves.
func CanLeave(userID UserID, a Admission) bool {
	return CanAccess(userID, a) && userID != a.MainCareOwnerID
}

// CheckWrite explains why CanWrite is false.
func CheckWrite(userID UserID, a Admission) error {
	if !CanAccess(userID, a) {
		return errors.ErrPermissionDenied
	}
	if !a.IsActive() {
		return errors.ErrThreadClosed
	}
	return nil
}

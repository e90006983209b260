package api

import (
	"care-thread/errors"
	goerrors "errors"
	"net/http"
)

// statusFor maps a service failure to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case goerrors.Is(err, errors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case goerrors.Is(err, errors.ErrPermissionDenied):
		return http.StatusForbidden
	case goerrors.Is(err, errors.ErrThreadNotFound),
		goerrors.Is(err, errors.ErrMessageNotFound),
		goerrors.Is(err, errors.ErrUserNotFound):
		return http.StatusNotFound
	case goerrors.Is(err, errors.ErrThreadClosed),
		goerrors.Is(err, errors.ErrCannotRemoveOwner),
		goerrors.Is(err, errors.ErrInvalidTransition):
		return http.StatusConflict
	case goerrors.Is(err, errors.ErrInvalidAttachment),
		goerrors.Is(err, errors.ErrInvalidDraft),
		goerrors.Is(err, errors.ErrInvalidAdmission):
		return http.StatusUnprocessableEntity
	case goerrors.Is(err, errors.ErrInvalidRequest):
		return http.StatusBadRequest
	case goerrors.Is(err, errors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// reasonFor is the stable, machine readable failure code sent to clients.
func reasonFor(err error) string {
	switch {
	case goerrors.Is(err, errors.ErrUnauthenticated):
		return "unauthenticated"
	case goerrors.Is(err, errors.ErrPermissionDenied):
		return "permission_denied"
	case goerrors.Is(err, errors.ErrThreadNotFound):
		return "thread_not_found"
	case goerrors.Is(err, errors.ErrMessageNotFound):
		return "message_not_found"
	case goerrors.Is(err, errors.ErrUserNotFound):
		return "user_not_found"
	case goerrors.Is(err, errors.ErrThreadClosed):
		return "thread_closed"
	case goerrors.Is(err, errors.ErrCannotRemoveOwner):
		return "cannot_remove_owner"
	case goerrors.Is(err, errors.ErrInvalidTransition):
		return "invalid_transition"
	case goerrors.Is(err, errors.ErrInvalidAttachment):
		return "invalid_attachment"
	case goerrors.Is(err, errors.ErrInvalidDraft):
		return "invalid_draft"
	case goerrors.Is(err, errors.ErrInvalidAdmission):
		return "invalid_admission"
	case goerrors.Is(err, errors.ErrInvalidRequest):
		return "invalid_request"
	case goerrors.Is(err, errors.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "internal"
	}
}

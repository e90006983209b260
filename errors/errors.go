package errors

import "fmt"

var (
	ErrPermissionDenied   = fmt.Errorf("permission denied")
	ErrThreadClosed       = fmt.Errorf("thread is closed")
	ErrInvalidAttachment  = fmt.Errorf("media message requires an attachment reference")
	ErrCannotRemoveOwner  = fmt.Errorf("main care owner cannot be removed")
	ErrInvalidTransition  = fmt.Errorf("invalid admission transition")
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")
)

var (
	ErrThreadNotFound   = fmt.Errorf("thread not found")
	ErrMessageNotFound  = fmt.Errorf("message not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrInvalidDraft     = fmt.Errorf("invalid message draft")
	ErrInvalidAdmission = fmt.Errorf("invalid admission attributes")
	ErrUnauthenticated  = fmt.Errorf("unauthenticated")
	ErrInvalidRequest   = fmt.Errorf("invalid request")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
)

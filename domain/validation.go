package domain

import (
	"care-thread/errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Draft is what an end user submits before the log assigns seq and timestamp.
type Draft struct {
	Kind          MessageKind `validate:"required,oneof=text image video"`
	Content       string      `validate:"max=4000"`
	AttachmentRef string      `validate:"omitempty,max=2048"`
}

// Validate checks the draft shape. Media without a reference fails with
// ErrInvalidAttachment, every other violation with ErrInvalidDraft.
func (d Draft) Validate() error {
	if (d.Kind == KindImage || d.Kind == KindVideo) && strings.TrimSpace(d.AttachmentRef) == "" {
		return errors.ErrInvalidAttachment
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidDraft, err)
	}
	if d.Kind == KindText && strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: empty text message", errors.ErrInvalidDraft)
	}
	return nil
}

func ValidatePatient(p PatientDetails, appearance Appearance) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidAdmission, err)
	}
	if err := validate.Struct(appearance); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidAdmission, err)
	}
	return nil
}

func ValidateUser(u User) error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrUserNotFound, err)
	}
	return nil
}

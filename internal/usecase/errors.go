package usecase

import (
	"errors"
	"fmt"

	"movie-theater/pkg/utils"
)

// Error kinds returned by services. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("admin access required")
	ErrForbidden             = errors.New("forbidden")
	ErrInsufficientInventory = errors.New("not enough seats available")
	ErrConflict              = errors.New("already exists")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrReviewsDisabled       = errors.New("reviews are disabled")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrAccountInactive       = errors.New("account is inactive")

	ErrSelfDeletion = fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
)

func validationError(errs map[string]string) error {
	return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
}

func notFound(what string, id fmt.Stringer) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

package usecase

import (
	"fmt"

	"movie-theater/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   uuid.UUID
	Role entity.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// RequireAdmin guards every admin-only operation. It must run before any
// read or write of the target so a refused call has no side effects.
func RequireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: actor %s has role %q", ErrUnauthorized, actor.ID, actor.Role)
	}
	return nil
}

package service

import (
	"github.com/google/uuid"

	"solarhub/internal/domain"
)

// Caller identifies the authenticated user acting on a record.
type Caller struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// CanAccess reports whether the caller may act on a record owned by ownerID.
func (c Caller) CanAccess(ownerID uuid.UUID) bool {
	return c.Role.IsStaff() || c.UserID == ownerID
}

func authorize(c Caller, ownerID uuid.UUID) error {
	if !c.CanAccess(ownerID) {
		return domain.ErrForbidden
	}
	return nil
}

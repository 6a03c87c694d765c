package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentID is a value object for assignment identity.
type AssignmentID struct{ uuid.UUID }

// NewAssignmentID creates a new AssignmentID from uuid.
func NewAssignmentID(id uuid.UUID) AssignmentID { return AssignmentID{UUID: id} }

// String returns the canonical string form.
func (a AssignmentID) String() string { return a.UUID.String() }

// Assignment records that a user has been asked to describe a resource.
type Assignment struct {
	ID         AssignmentID
	UserID     UserID
	ResourceID ResourceID
	CreatedAt  time.Time
}

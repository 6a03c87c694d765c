package domain

import (
	"time"

	"github.com/google/uuid"
)

// RepresentationID is a value object for representation identity.
type RepresentationID struct{ uuid.UUID }

// NewRepresentationID creates a new RepresentationID from uuid.
func NewRepresentationID(id uuid.UUID) RepresentationID { return RepresentationID{UUID: id} }

// String returns the canonical string form.
func (r RepresentationID) String() string { return r.UUID.String() }

// RepresentationStatus tracks a representation through review.
type RepresentationStatus string

const (
	RepresentationNotApproved RepresentationStatus = "not_approved"
	RepresentationApproved    RepresentationStatus = "approved"
)

// Representation is one accessible description of a resource: alt-text, a
// caption, a transcription. Author, license, endpoint and metum default from
// the owning organization's context when omitted at nested creation.
type Representation struct {
	ID          RepresentationID
	ResourceID  ResourceID
	AuthorID    UserID
	EndpointID  EndpointID
	LicenseID   LicenseID
	MetumID     MetumID
	Text        string
	Language    string
	ContentURI  string
	ContentType string
	Notes       string
	Ordinality  *int
	Status      RepresentationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Approved reports whether the representation has passed review.
func (r *Representation) Approved() bool { return r.Status == RepresentationApproved }

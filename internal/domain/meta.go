package domain

import (
	"time"

	"github.com/google/uuid"
)

// Default lookup names used when nested representation attributes omit an
// explicit association.
const (
	DefaultEndpointName = "Any"
	DefaultLicenseName  = "cc0-1.0"
	DefaultMetumTitle   = "Short"
)

// MetumID is a value object for metum identity.
type MetumID struct{ uuid.UUID }

// NewMetumID creates a new MetumID from uuid.
func NewMetumID(id uuid.UUID) MetumID { return MetumID{UUID: id} }

// String returns the canonical string form.
func (m MetumID) String() string { return m.UUID.String() }

// Metum is one dimension of an organization's classification scheme: what
// aspect of a resource a representation covers (Short, Long, Transcript).
type Metum struct {
	ID             MetumID
	OrganizationID OrganizationID
	Title          string
	Instructions   string
	CreatedAt      time.Time
}

// LicenseID is a value object for license identity.
type LicenseID struct{ uuid.UUID }

// NewLicenseID creates a new LicenseID from uuid.
func NewLicenseID(id uuid.UUID) LicenseID { return LicenseID{UUID: id} }

// String returns the canonical string form.
func (l LicenseID) String() string { return l.UUID.String() }

// License is the terms under which a representation's text may be reused.
type License struct {
	ID          LicenseID
	Name        string
	Description string
	URL         string
	CreatedAt   time.Time
}

// EndpointID is a value object for endpoint identity.
type EndpointID struct{ uuid.UUID }

// NewEndpointID creates a new EndpointID from uuid.
func NewEndpointID(id uuid.UUID) EndpointID { return EndpointID{UUID: id} }

// String returns the canonical string form.
func (e EndpointID) String() string { return e.UUID.String() }

// Endpoint is where a representation is intended to be consumed (Web,
// Mobile, or the catch-all "Any").
type Endpoint struct {
	ID        EndpointID
	Name      string
	CreatedAt time.Time
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationID is a value object for organization (tenant) identity.
type OrganizationID struct{ uuid.UUID }

// NewOrganizationID creates a new OrganizationID from uuid.
func NewOrganizationID(id uuid.UUID) OrganizationID { return OrganizationID{UUID: id} }

// String returns the canonical string form.
func (o OrganizationID) String() string { return o.UUID.String() }

// Organization is the tenant. Every resource and resource group belongs to
// exactly one organization; users belong via memberships.
type Organization struct {
	ID           OrganizationID
	Name         string
	APITokenHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role is a membership role within an organization, ordered by capability.
type Role string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleAuthor Role = "author"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

var roleRanks = map[Role]int{
	RoleNone:   0,
	RoleViewer: 1,
	RoleAuthor: 2,
	RoleEditor: 3,
	RoleAdmin:  4,
	RoleOwner:  5,
}

// Rank returns the ordinal capability level of the role. Unknown roles rank
// below viewer.
func (r Role) Rank() int { return roleRanks[r] }

// AtLeast reports whether the role grants at least the capability of other.
func (r Role) AtLeast(other Role) bool { return r.Rank() >= other.Rank() }

// Membership links a user to an organization with a role. Inactive
// memberships keep history but grant nothing and are skipped when defaulting
// representation authors.
type Membership struct {
	OrganizationID OrganizationID
	UserID         UserID
	Role           Role
	Active         bool
	CreatedAt      time.Time
}

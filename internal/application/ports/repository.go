package ports

import (
	"context"
	"time"

	"github.com/llinneaa/coyote/internal/domain"
)

// ResourceRepository defines persistence for resources. Reads are scoped to
// an organization except the system-wide identifier check. The store's
// unique constraints on (identifier), (organization_id, canonical_id) and
// (organization_id, source_uri) are the uniqueness authority; writes that
// hit them return ErrUniquenessViolation.
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	Update(ctx context.Context, resource *domain.Resource) error
	Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) error
	// GetByID returns the fully hydrated aggregate: representations, group
	// memberships, links and the counts the derived predicates read.
	GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) (*domain.Resource, error)
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Resource, error)
	// IdentifierTaken checks the system-wide identifier slug, excluding the
	// given resource when it is already persisted.
	IdentifierTaken(ctx context.Context, identifier string, exclude domain.ResourceID) (bool, error)
	// CanonicalIDTaken checks canonical-id uniqueness within one
	// organization, excluding the given resource.
	CanonicalIDTaken(ctx context.Context, orgID domain.OrganizationID, canonicalID string, exclude domain.ResourceID) (bool, error)
	// LatestTimestamp returns the created-at time of the organization's most
	// recently created resource, or nil when it has none.
	LatestTimestamp(ctx context.Context, orgID domain.OrganizationID) (*time.Time, error)
}

// ResourceGroupRepository defines persistence for resource groups.
type ResourceGroupRepository interface {
	Create(ctx context.Context, group *domain.ResourceGroup) error
	GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) (*domain.ResourceGroup, error)
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.ResourceGroup, error)
	// DefaultForOrganization returns the organization's designated default
	// group.
	DefaultForOrganization(ctx context.Context, orgID domain.OrganizationID) (*domain.ResourceGroup, error)
	ResourceCount(ctx context.Context, id domain.ResourceGroupID) (int, error)
	Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) error
}

// OrganizationRepository defines persistence for organizations and their
// memberships.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error)
	GetByAPITokenHash(ctx context.Context, tokenHash string) (*domain.Organization, error)
	ListMemberships(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Membership, error)
	// MembershipFor returns the membership linking the user to the
	// organization, or ErrNotFound.
	MembershipFor(ctx context.Context, orgID domain.OrganizationID, userID domain.UserID) (*domain.Membership, error)
	// MetumCount returns the size of the organization's classification
	// scheme, which decides resource completeness.
	MetumCount(ctx context.Context, orgID domain.OrganizationID) (int, error)
}

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id domain.UserID) error
}

// LookupRepository resolves the nested-representation defaults. Each lookup
// reports found=false instead of an error when the named record does not
// exist so the caller can fall back to the earliest-created record.
type LookupRepository interface {
	// FirstActiveMemberID returns the user of the organization's earliest
	// active membership.
	FirstActiveMemberID(ctx context.Context, orgID domain.OrganizationID) (domain.UserID, bool, error)
	EndpointIDByName(ctx context.Context, name string) (domain.EndpointID, bool, error)
	EarliestEndpointID(ctx context.Context) (domain.EndpointID, bool, error)
	LicenseIDByName(ctx context.Context, name string) (domain.LicenseID, bool, error)
	EarliestLicenseID(ctx context.Context) (domain.LicenseID, bool, error)
	MetumIDByTitle(ctx context.Context, orgID domain.OrganizationID, title string) (domain.MetumID, bool, error)
	EarliestMetumID(ctx context.Context, orgID domain.OrganizationID) (domain.MetumID, bool, error)
}

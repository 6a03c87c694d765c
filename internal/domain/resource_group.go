package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGroupTitle names the group every organization starts with.
const DefaultGroupTitle = "Uncategorized"

// ResourceGroupID is a value object for resource group identity.
type ResourceGroupID struct{ uuid.UUID }

// NewResourceGroupID creates a new ResourceGroupID from uuid.
func NewResourceGroupID(id uuid.UUID) ResourceGroupID { return ResourceGroupID{UUID: id} }

// String returns the canonical string form.
func (r ResourceGroupID) String() string { return r.UUID.String() }

// ResourceGroup is the situation in which a resource is being considered:
// Web, Exhibitions, Poetry, Audio Tour. Title is unique per organization and
// exactly one group per organization is the default. A group with a webhook
// URI receives change notifications for its resources.
type ResourceGroup struct {
	ID             ResourceGroupID
	OrganizationID OrganizationID
	Title          string
	Default        bool
	WebhookURI     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WebhookEnabled reports whether the group has a webhook endpoint.
func (g *ResourceGroup) WebhookEnabled() bool { return g.WebhookURI != "" }

// TitleWithDefaultAnnotation returns the title, marked when the group is the
// organization default.
func (g *ResourceGroup) TitleWithDefaultAnnotation() string {
	if g.Default {
		return g.Title + " (default)"
	}
	return g.Title
}

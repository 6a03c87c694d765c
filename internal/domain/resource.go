package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is stored when a resource is created without a title.
const DefaultTitle = "(no title provided)"

// ResourceID is a value object for resource identity.
type ResourceID struct{ uuid.UUID }

// NewResourceID creates a new ResourceID from uuid.
func NewResourceID(id uuid.UUID) ResourceID { return ResourceID{UUID: id} }

// String returns the canonical string form.
func (r ResourceID) String() string { return r.UUID.String() }

// ResourceType is the Dublin Core category of a resource. The set is closed.
type ResourceType string

const (
	TypeCollection          ResourceType = "collection"
	TypeDataset             ResourceType = "dataset"
	TypeEvent               ResourceType = "event"
	TypeImage               ResourceType = "image"
	TypeInteractiveResource ResourceType = "interactive_resource"
	TypeMovingImage         ResourceType = "moving_image"
	TypePhysicalObject      ResourceType = "physical_object"
	TypeService             ResourceType = "service"
	TypeSoftware            ResourceType = "software"
	TypeSound               ResourceType = "sound"
	TypeText                ResourceType = "text"
)

// ResourceTypes lists every valid resource type.
var ResourceTypes = []ResourceType{
	TypeCollection,
	TypeDataset,
	TypeEvent,
	TypeImage,
	TypeInteractiveResource,
	TypeMovingImage,
	TypePhysicalObject,
	TypeService,
	TypeSoftware,
	TypeSound,
	TypeText,
}

// Valid reports whether t is a member of the closed type set.
func (t ResourceType) Valid() bool {
	for _, rt := range ResourceTypes {
		if t == rt {
			return true
		}
	}
	return false
}

var imageLikeTypes = map[ResourceType]bool{
	TypeImage:       true,
	TypeMovingImage: true,
}

// Status is a derived display status of a resource.
type Status string

const (
	StatusUrgent            Status = "urgent"
	StatusUnrepresented     Status = "unrepresented"
	StatusRepresented       Status = "represented"
	StatusUnassigned        Status = "unassigned"
	StatusAssigned          Status = "assigned"
	StatusPartiallyComplete Status = "partially_complete"
)

// WatchedFields are the resource fields whose change triggers a webhook
// notification after commit.
var WatchedFields = []string{
	"identifier",
	"title",
	"resource_type",
	"canonical_id",
	"source_uri",
	"priority_flag",
	"host_uris",
	"ordinality",
}

// Resource is anything that has identity and needs an accessible
// description: an image, a document, a physical object. It is the aggregate
// root of the catalogue, scoped to exactly one organization.
//
// Invariants: Identifier is unique system-wide; (OrganizationID, CanonicalID)
// is unique; (OrganizationID, SourceURI) is unique when SourceURI is present;
// a persisted resource belongs to at least one resource group.
type Resource struct {
	ID             ResourceID
	OrganizationID OrganizationID
	Identifier     string
	CanonicalID    string
	Title          string
	ResourceType   ResourceType
	SourceURI      string
	HostURIs       []string
	PriorityFlag   bool
	Ordinality     *int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Loaded associations. Repositories populate these when the caller asks
	// for a fully hydrated aggregate; derived predicates below read them.
	Representations []Representation
	AssignmentCount int
	// OrganizationMetumCount is the size of the owning organization's
	// classification scheme, used to decide completeness.
	OrganizationMetumCount int
	Groups                 []ResourceGroup
	SubjectLinks           []ResourceLink
	ObjectLinks            []ResourceLink
}

var hostURISeparator = regexp.MustCompile(`[\r\n]+`)

// SetHostURIs replaces HostURIs with the non-empty lines of a
// newline-delimited block of text, preserving order.
func (r *Resource) SetHostURIs(text string) {
	parts := hostURISeparator.Split(text, -1)
	uris := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			uris = append(uris, p)
		}
	}
	r.HostURIs = uris
}

// Label is a human-friendly way of identifying this resource in titles and
// select boxes.
func (r *Resource) Label() string {
	return fmt.Sprintf("%s (%s)", r.Title, r.Identifier)
}

// Viewable reports whether the resource can be displayed inline: it has a
// source URI and an image-like type.
func (r *Resource) Viewable() bool {
	return r.SourceURI != "" && imageLikeTypes[r.ResourceType]
}

// Unrepresented reports whether the resource has no representations.
func (r *Resource) Unrepresented() bool { return len(r.Representations) == 0 }

// Represented reports whether the resource has at least one representation.
func (r *Resource) Represented() bool { return !r.Unrepresented() }

// Unassigned reports whether no one has been assigned to describe the
// resource.
func (r *Resource) Unassigned() bool { return r.AssignmentCount == 0 }

// Assigned reports whether at least one assignment exists.
func (r *Resource) Assigned() bool { return !r.Unassigned() }

// Complete reports whether the resource has at least as many representations
// as the organization has meta in its classification scheme.
func (r *Resource) Complete() bool {
	return len(r.Representations) >= r.OrganizationMetumCount
}

// PartiallyComplete reports whether the resource is represented but not yet
// complete.
func (r *Resource) PartiallyComplete() bool {
	return r.Represented() && !r.Complete()
}

// Approved reports whether the resource is complete and every representation
// has been approved.
func (r *Resource) Approved() bool {
	if !r.Complete() {
		return false
	}
	for _, rep := range r.Representations {
		if !rep.Approved() {
			return false
		}
	}
	return true
}

// Statuses returns the display statuses of the resource in a fixed order.
// The order matters for display only.
func (r *Resource) Statuses() []Status {
	var statuses []Status
	if r.PriorityFlag {
		statuses = append(statuses, StatusUrgent)
	}
	if r.Unrepresented() {
		statuses = append(statuses, StatusUnrepresented)
	}
	if r.Represented() {
		statuses = append(statuses, StatusRepresented)
	}
	if r.Unassigned() {
		statuses = append(statuses, StatusUnassigned)
	}
	if r.Assigned() {
		statuses = append(statuses, StatusAssigned)
	}
	if r.PartiallyComplete() {
		statuses = append(statuses, StatusPartiallyComplete)
	}
	return statuses
}

// WebhookEnabled reports whether at least one of the resource's groups has a
// webhook endpoint configured.
func (r *Resource) WebhookEnabled() bool {
	for _, g := range r.Groups {
		if g.WebhookEnabled() {
			return true
		}
	}
	return false
}

// ContentChanged reports whether any watched field differs between prev and
// the current state. A nil prev means the resource was just created, which
// always counts as a content change.
func (r *Resource) ContentChanged(prev *Resource) bool {
	if prev == nil {
		return true
	}
	if r.Identifier != prev.Identifier ||
		r.Title != prev.Title ||
		r.ResourceType != prev.ResourceType ||
		r.CanonicalID != prev.CanonicalID ||
		r.SourceURI != prev.SourceURI ||
		r.PriorityFlag != prev.PriorityFlag {
		return true
	}
	if !intPtrEqual(r.Ordinality, prev.Ordinality) {
		return true
	}
	if len(r.HostURIs) != len(prev.HostURIs) {
		return true
	}
	for i := range r.HostURIs {
		if r.HostURIs[i] != prev.HostURIs[i] {
			return true
		}
	}
	return false
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// RelatedResource is one end of a resource link, seen from the perspective
// of the resource that produced it.
type RelatedResource struct {
	Verb     Verb
	Link     ResourceLink
	Resource ResourceSummary
}

// RelatedResources returns each linked resource with the verb given from
// this resource's perspective: outbound links keep their verb, inbound links
// carry the reverse verb.
func (r *Resource) RelatedResources() []RelatedResource {
	related := make([]RelatedResource, 0, len(r.SubjectLinks)+len(r.ObjectLinks))
	for _, link := range r.SubjectLinks {
		related = append(related, RelatedResource{
			Verb:     link.Verb,
			Link:     link,
			Resource: link.ObjectResource,
		})
	}
	for _, link := range r.ObjectLinks {
		related = append(related, RelatedResource{
			Verb:     link.Verb.Reverse(),
			Link:     link,
			Resource: link.SubjectResource,
		})
	}
	return related
}

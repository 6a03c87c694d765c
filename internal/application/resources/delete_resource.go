package resources

import (
	"context"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
)

// DeleteResource destroys a resource outright. No soft delete.
type DeleteResource struct {
	resources ports.ResourceRepository
}

// NewDeleteResource wires the deletion use case.
func NewDeleteResource(resources ports.ResourceRepository) *DeleteResource {
	return &DeleteResource{resources: resources}
}

// Do removes the resource from the organization's catalogue.
func (uc *DeleteResource) Do(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) error {
	return uc.resources.Delete(ctx, orgID, id)
}

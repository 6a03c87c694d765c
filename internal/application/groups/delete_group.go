package groups

import (
	"context"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// DeleteGroup removes a resource group. The organization's default group
// and any group that still has resources in it are protected.
type DeleteGroup struct {
	groups ports.ResourceGroupRepository
}

// NewDeleteGroup wires the use case.
func NewDeleteGroup(groups ports.ResourceGroupRepository) *DeleteGroup {
	return &DeleteGroup{groups: groups}
}

// Do checks the deletion guards and deletes the group.
func (uc *DeleteGroup) Do(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) error {
	group, err := uc.groups.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}
	if group.Default {
		return domerrors.ErrResourceGroupIsDefault
	}
	count, err := uc.groups.ResourceCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domerrors.ErrResourceGroupNotEmpty
	}
	return uc.groups.Delete(ctx, orgID, id)
}

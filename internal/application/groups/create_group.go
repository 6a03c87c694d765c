// Package groups holds the resource group use cases.
package groups

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// CreateGroupInput carries a group creation request.
type CreateGroupInput struct {
	OrganizationID domain.OrganizationID
	Title          string
	WebhookURI     string
}

// CreateGroup creates a named bucket for resources within an organization.
// Title is unique per organization (store constraint).
type CreateGroup struct {
	groups ports.ResourceGroupRepository
}

// NewCreateGroup wires the use case.
func NewCreateGroup(groups ports.ResourceGroupRepository) *CreateGroup {
	return &CreateGroup{groups: groups}
}

// Do validates and persists the group.
func (uc *CreateGroup) Do(ctx context.Context, input CreateGroupInput) (*domain.ResourceGroup, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		vErr := domerrors.NewValidationError()
		vErr.Add("title", "is required")
		return nil, vErr
	}
	group := &domain.ResourceGroup{
		ID:             domain.NewResourceGroupID(uuid.New()),
		OrganizationID: input.OrganizationID,
		Title:          title,
		WebhookURI:     input.WebhookURI,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := uc.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

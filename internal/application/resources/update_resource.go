package resources

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// UpdateResourceInput carries the fields an update request may change. Nil
// pointers leave the field untouched; blanking Identifier or CanonicalID
// triggers regeneration.
type UpdateResourceInput struct {
	Title           *string
	ResourceType    *domain.ResourceType
	Identifier      *string
	CanonicalID     *string
	SourceURI       *string
	HostURIs        *string
	PriorityFlag    *bool
	Ordinality      *int
	ClearOrdinality bool
	ResourceGroupID *domain.ResourceGroupID
}

// UpdateResource mutates a persisted resource, re-running the blank-field
// generation hooks and triggering the webhook when a watched field changed.
type UpdateResource struct {
	resources ports.ResourceRepository
	groups    ports.ResourceGroupRepository
	enqueuer  ports.TaskEnqueuer
	log       zerolog.Logger
}

// NewUpdateResource wires the update use case.
func NewUpdateResource(resources ports.ResourceRepository, groups ports.ResourceGroupRepository, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *UpdateResource {
	return &UpdateResource{resources: resources, groups: groups, enqueuer: enqueuer, log: log}
}

// Do applies the changes and persists them. At most one webhook notification
// is enqueued per change-bearing commit.
func (uc *UpdateResource) Do(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID, input UpdateResourceInput) (*domain.Resource, error) {
	resource, err := uc.resources.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	prev := *resource
	prev.HostURIs = append([]string(nil), resource.HostURIs...)

	if input.Title != nil {
		resource.Title = *input.Title
		if resource.Title == "" {
			resource.Title = domain.DefaultTitle
		}
	}
	if input.ResourceType != nil {
		if err := validateType(*input.ResourceType); err != nil {
			return nil, err
		}
		resource.ResourceType = *input.ResourceType
	}
	if input.Identifier != nil {
		resource.Identifier = *input.Identifier
	}
	if input.CanonicalID != nil {
		resource.CanonicalID = *input.CanonicalID
	}
	if input.SourceURI != nil {
		resource.SourceURI = *input.SourceURI
	}
	if input.HostURIs != nil {
		resource.SetHostURIs(*input.HostURIs)
	}
	if input.PriorityFlag != nil {
		resource.PriorityFlag = *input.PriorityFlag
	}
	if input.Ordinality != nil {
		v := *input.Ordinality
		resource.Ordinality = &v
	} else if input.ClearOrdinality {
		resource.Ordinality = nil
	}
	if input.ResourceGroupID != nil {
		if err := uc.addGroup(ctx, resource, *input.ResourceGroupID); err != nil {
			return nil, err
		}
	}

	generatedCanonical := resource.CanonicalID == ""
	generatedIdentifier := resource.Identifier == ""
	resource.UpdatedAt = time.Now()

	for attempt := 0; ; attempt++ {
		if err := ensureCanonicalID(ctx, uc.resources, resource); err != nil {
			return nil, err
		}
		if err := ensureIdentifier(ctx, uc.resources, resource); err != nil {
			return nil, err
		}
		err := uc.resources.Update(ctx, resource)
		if err == nil {
			break
		}
		if errors.Is(err, domerrors.ErrUniquenessViolation) &&
			(generatedCanonical || generatedIdentifier) &&
			attempt+1 < maxUniquenessAttempts {
			if generatedCanonical {
				resource.CanonicalID = ""
			}
			if generatedIdentifier {
				resource.Identifier = ""
			}
			continue
		}
		return nil, err
	}

	if resource.ContentChanged(&prev) && resource.WebhookEnabled() {
		if err := uc.enqueuer.EnqueueResourceWebhook(ctx, resource.ID); err != nil {
			uc.log.Warn().Err(err).Str("resource_id", resource.ID.String()).Msg("enqueue resource webhook failed")
		}
	}
	return resource, nil
}

// addGroup attaches one more group, scoped to the resource's organization.
// Unknown or foreign group ids are ignored.
func (uc *UpdateResource) addGroup(ctx context.Context, resource *domain.Resource, id domain.ResourceGroupID) error {
	for _, g := range resource.Groups {
		if g.ID == id {
			return nil
		}
	}
	group, err := uc.groups.GetByID(ctx, resource.OrganizationID, id)
	if errors.Is(err, domerrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	resource.Groups = append(resource.Groups, *group)
	return nil
}

package resources

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// RepresentationInput is one nested representation supplied with a resource
// creation. Omitted associations default from the organization context; an
// explicit id always wins over a name.
type RepresentationInput struct {
	AuthorID    *domain.UserID
	EndpointID  *domain.EndpointID
	Endpoint    string
	LicenseID   *domain.LicenseID
	License     string
	MetumID     *domain.MetumID
	Metum       string
	Text        string
	Language    string
	ContentURI  string
	ContentType string
	Notes       string
	Ordinality  *int
	Status      domain.RepresentationStatus
}

// CreateResourceInput carries everything a tenant-scoped creation request
// may set. HostURIs is the raw newline-delimited block from the request.
type CreateResourceInput struct {
	OrganizationID   domain.OrganizationID
	Title            string
	ResourceType     domain.ResourceType
	Identifier       string
	CanonicalID      string
	SourceURI        string
	HostURIs         string
	PriorityFlag     bool
	Ordinality       *int
	ResourceGroupIDs []domain.ResourceGroupID
	Representations  []RepresentationInput
}

// CreateResource runs the resource creation lifecycle: default group
// attachment, canonical-id and identifier generation, nested representation
// defaulting, persistence, and the post-commit webhook trigger.
type CreateResource struct {
	resources ports.ResourceRepository
	groups    ports.ResourceGroupRepository
	defaults  *Defaults
	enqueuer  ports.TaskEnqueuer
	log       zerolog.Logger
}

// NewCreateResource wires the creation use case.
func NewCreateResource(resources ports.ResourceRepository, groups ports.ResourceGroupRepository, defaults *Defaults, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *CreateResource {
	return &CreateResource{
		resources: resources,
		groups:    groups,
		defaults:  defaults,
		enqueuer:  enqueuer,
		log:       log,
	}
}

// Do creates the resource. On a uniqueness rejection from the store, any
// auto-generated identifier or canonical id is regenerated and the write
// retried, bounded by maxUniquenessAttempts.
func (uc *CreateResource) Do(ctx context.Context, input CreateResourceInput) (*domain.Resource, error) {
	if err := validateType(input.ResourceType); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = domain.DefaultTitle
	}

	resource := &domain.Resource{
		ID:             domain.NewResourceID(uuid.New()),
		OrganizationID: input.OrganizationID,
		Identifier:     input.Identifier,
		CanonicalID:    input.CanonicalID,
		Title:          title,
		ResourceType:   input.ResourceType,
		SourceURI:      input.SourceURI,
		PriorityFlag:   input.PriorityFlag,
		Ordinality:     input.Ordinality,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	resource.SetHostURIs(input.HostURIs)

	if err := uc.attachGroups(ctx, resource, input.ResourceGroupIDs); err != nil {
		return nil, err
	}
	if err := uc.buildRepresentations(ctx, resource, input.Representations); err != nil {
		return nil, err
	}

	generatedCanonical := input.CanonicalID == ""
	generatedIdentifier := input.Identifier == ""

	for attempt := 0; ; attempt++ {
		if err := ensureCanonicalID(ctx, uc.resources, resource); err != nil {
			return nil, err
		}
		if err := ensureIdentifier(ctx, uc.resources, resource); err != nil {
			return nil, err
		}
		err := uc.resources.Create(ctx, resource)
		if err == nil {
			break
		}
		// The pre-checks raced another writer; the constraint is the
		// authority. Retry only with fresh auto-generated candidates.
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

	uc.notifyWebhook(ctx, resource)
	return resource, nil
}

func validateType(t domain.ResourceType) error {
	vErr := domerrors.NewValidationError()
	switch {
	case t == "":
		vErr.Add("resource_type", "is required")
	case !t.Valid():
		vErr.Add("resource_type", "is not a recognized type")
	}
	if vErr.Any() {
		return vErr
	}
	return nil
}

// attachGroups resolves the requested groups within the organization and
// attaches the organization's default group when none were given. A resource
// must belong to at least one group after creation.
func (uc *CreateResource) attachGroups(ctx context.Context, resource *domain.Resource, ids []domain.ResourceGroupID) error {
	for _, id := range ids {
		group, err := uc.groups.GetByID(ctx, resource.OrganizationID, id)
		if errors.Is(err, domerrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		resource.Groups = append(resource.Groups, *group)
	}
	if len(resource.Groups) > 0 {
		return nil
	}
	group, err := uc.groups.DefaultForOrganization(ctx, resource.OrganizationID)
	if errors.Is(err, domerrors.ErrNotFound) {
		vErr := domerrors.NewValidationError()
		vErr.Add("resource_groups", "must belong to at least one resource group")
		return vErr
	}
	if err != nil {
		return err
	}
	resource.Groups = append(resource.Groups, *group)
	return nil
}

// buildRepresentations applies the default registry to each nested
// representation. Runs only at initial creation, never on update.
func (uc *CreateResource) buildRepresentations(ctx context.Context, resource *domain.Resource, inputs []RepresentationInput) error {
	for _, in := range inputs {
		rep := domain.Representation{
			ID:          domain.NewRepresentationID(uuid.New()),
			ResourceID:  resource.ID,
			Text:        in.Text,
			Language:    in.Language,
			ContentURI:  in.ContentURI,
			ContentType: in.ContentType,
			Notes:       in.Notes,
			Ordinality:  in.Ordinality,
			Status:      in.Status,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if rep.Status == "" {
			rep.Status = domain.RepresentationNotApproved
		}

		var err error
		if in.AuthorID != nil {
			rep.AuthorID = *in.AuthorID
		} else if rep.AuthorID, err = uc.defaults.AuthorID(ctx, resource.OrganizationID); err != nil {
			return err
		}
		if in.EndpointID != nil {
			rep.EndpointID = *in.EndpointID
		} else if rep.EndpointID, err = uc.defaults.EndpointID(ctx, in.Endpoint); err != nil {
			return err
		}
		if in.LicenseID != nil {
			rep.LicenseID = *in.LicenseID
		} else if rep.LicenseID, err = uc.defaults.LicenseID(ctx, in.License); err != nil {
			return err
		}
		if in.MetumID != nil {
			rep.MetumID = *in.MetumID
		} else if rep.MetumID, err = uc.defaults.MetumID(ctx, resource.OrganizationID, in.Metum); err != nil {
			return err
		}
		resource.Representations = append(resource.Representations, rep)
	}
	return nil
}

// notifyWebhook enqueues a change notification after a change-bearing
// commit. Delivery failures belong to the worker; an enqueue failure is
// logged, never surfaced.
func (uc *CreateResource) notifyWebhook(ctx context.Context, resource *domain.Resource) {
	if !resource.WebhookEnabled() {
		return
	}
	if err := uc.enqueuer.EnqueueResourceWebhook(ctx, resource.ID); err != nil {
		uc.log.Warn().Err(err).Str("resource_id", resource.ID.String()).Msg("enqueue resource webhook failed")
	}
}

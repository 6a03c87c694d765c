package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// ResourceRepository persists resources, their group memberships and nested
// representations.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository creates a resource repository over the pool.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

const resourceColumns = `id, organization_id, identifier, canonical_id, title, resource_type,
	source_uri, host_uris, priority_flag, ordinality, created_at, updated_at`

// Create inserts the resource, its group memberships and its nested
// representations in one transaction. A uniqueness rejection rolls the whole
// write back and surfaces ErrUniquenessViolation.
func (r *ResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO resources (`+resourceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		resource.ID.UUID, resource.OrganizationID.UUID, resource.Identifier,
		resource.CanonicalID, resource.Title, string(resource.ResourceType),
		resource.SourceURI, resource.HostURIs, resource.PriorityFlag,
		resource.Ordinality, resource.CreatedAt, resource.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	for _, group := range resource.Groups {
		_, err = tx.Exec(ctx, `
			INSERT INTO resource_group_resources (resource_id, resource_group_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			resource.ID.UUID, group.ID.UUID,
		)
		if err != nil {
			return mapError(err)
		}
	}
	for _, rep := range resource.Representations {
		if err := insertRepresentation(ctx, tx, rep); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertRepresentation(ctx context.Context, tx pgx.Tx, rep domain.Representation) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO representations (
			id, resource_id, author_id, endpoint_id, license_id, metum_id,
			text, language, content_uri, content_type, notes, ordinality,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rep.ID.UUID, rep.ResourceID.UUID, rep.AuthorID.UUID, rep.EndpointID.UUID,
		rep.LicenseID.UUID, rep.MetumID.UUID, rep.Text, rep.Language,
		rep.ContentURI, rep.ContentType, rep.Notes, rep.Ordinality,
		string(rep.Status), rep.CreatedAt, rep.UpdatedAt,
	)
	return mapError(err)
}

// Update rewrites the resource row and synchronizes group memberships.
func (r *ResourceRepository) Update(ctx context.Context, resource *domain.Resource) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE resources
		SET identifier = $3, canonical_id = $4, title = $5, resource_type = $6,
			source_uri = $7, host_uris = $8, priority_flag = $9, ordinality = $10,
			updated_at = $11
		WHERE id = $1 AND organization_id = $2`,
		resource.ID.UUID, resource.OrganizationID.UUID, resource.Identifier,
		resource.CanonicalID, resource.Title, string(resource.ResourceType),
		resource.SourceURI, resource.HostURIs, resource.PriorityFlag,
		resource.Ordinality, resource.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	for _, group := range resource.Groups {
		_, err = tx.Exec(ctx, `
			INSERT INTO resource_group_resources (resource_id, resource_group_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			resource.ID.UUID, group.ID.UUID,
		)
		if err != nil {
			return mapError(err)
		}
	}
	return tx.Commit(ctx)
}

// Delete removes the resource. Children go with it via cascading foreign
// keys.
func (r *ResourceRepository) Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM resources WHERE id = $1 AND organization_id = $2`,
		id.UUID, orgID.UUID,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

// GetByID returns the fully hydrated aggregate.
func (r *ResourceRepository) GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) (*domain.Resource, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+resourceColumns+` FROM resources
		WHERE id = $1 AND organization_id = $2`,
		id.UUID, orgID.UUID,
	)
	resource, err := scanResource(row)
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.hydrate(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// ListByOrganization returns the organization's resources, hydrated enough
// for the filter scopes and derived predicates.
func (r *ResourceRepository) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+resourceColumns+` FROM resources
		WHERE organization_id = $1
		ORDER BY created_at`,
		orgID.UUID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var resources []*domain.Resource
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, resource := range resources {
		if err := r.hydrate(ctx, resource); err != nil {
			return nil, err
		}
	}
	return resources, nil
}

// IdentifierTaken checks the system-wide identifier slug.
func (r *ResourceRepository) IdentifierTaken(ctx context.Context, identifier string, exclude domain.ResourceID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM resources WHERE identifier = $1 AND id <> $2)`,
		identifier, exclude.UUID,
	).Scan(&taken)
	return taken, mapError(err)
}

// CanonicalIDTaken checks canonical-id uniqueness within the organization.
func (r *ResourceRepository) CanonicalIDTaken(ctx context.Context, orgID domain.OrganizationID, canonicalID string, exclude domain.ResourceID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM resources
			WHERE organization_id = $1 AND canonical_id = $2 AND id <> $3)`,
		orgID.UUID, canonicalID, exclude.UUID,
	).Scan(&taken)
	return taken, mapError(err)
}

// ResourceForWebhook loads a resource by id alone for webhook delivery.
// The worker only has the id from the task payload; group membership
// carries the delivery endpoints.
func (r *ResourceRepository) ResourceForWebhook(ctx context.Context, id domain.ResourceID) (*domain.Resource, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+resourceColumns+` FROM resources WHERE id = $1`,
		id.UUID,
	)
	resource, err := scanResource(row)
	if err != nil {
		return nil, mapError(err)
	}
	if err := r.loadGroups(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// LatestTimestamp returns the creation time of the organization's newest
// resource, or nil when it has none.
func (r *ResourceRepository) LatestTimestamp(ctx context.Context, orgID domain.OrganizationID) (*time.Time, error) {
	var ts *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT MAX(created_at) FROM resources WHERE organization_id = $1`,
		orgID.UUID,
	).Scan(&ts)
	if err != nil {
		return nil, mapError(err)
	}
	return ts, nil
}

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var (
		resource     domain.Resource
		id, orgID    uuid.UUID
		resourceType string
	)
	err := row.Scan(
		&id, &orgID, &resource.Identifier, &resource.CanonicalID,
		&resource.Title, &resourceType, &resource.SourceURI, &resource.HostURIs,
		&resource.PriorityFlag, &resource.Ordinality, &resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	resource.ID = domain.NewResourceID(id)
	resource.OrganizationID = domain.NewOrganizationID(orgID)
	resource.ResourceType = domain.ResourceType(resourceType)
	return &resource, nil
}

// hydrate loads the associations the derived predicates and filter scopes
// read: representations, assignment and metum counts, groups, links.
func (r *ResourceRepository) hydrate(ctx context.Context, resource *domain.Resource) error {
	if err := r.loadRepresentations(ctx, resource); err != nil {
		return err
	}
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM assignments WHERE resource_id = $1`,
		resource.ID.UUID,
	).Scan(&resource.AssignmentCount)
	if err != nil {
		return mapError(err)
	}
	err = r.pool.QueryRow(ctx, `
		SELECT count(*) FROM meta WHERE organization_id = $1`,
		resource.OrganizationID.UUID,
	).Scan(&resource.OrganizationMetumCount)
	if err != nil {
		return mapError(err)
	}
	if err := r.loadGroups(ctx, resource); err != nil {
		return err
	}
	return r.loadLinks(ctx, resource)
}

func (r *ResourceRepository) loadRepresentations(ctx context.Context, resource *domain.Resource) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, resource_id, author_id, endpoint_id, license_id, metum_id,
			text, language, content_uri, content_type, notes, ordinality,
			status, created_at, updated_at
		FROM representations
		WHERE resource_id = $1
		ORDER BY created_at`,
		resource.ID.UUID,
	)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	resource.Representations = nil
	for rows.Next() {
		var (
			rep                                          domain.Representation
			id, resourceID, author, endpoint, license, metum uuid.UUID
			status                                       string
		)
		err := rows.Scan(
			&id, &resourceID, &author, &endpoint, &license, &metum,
			&rep.Text, &rep.Language, &rep.ContentURI, &rep.ContentType,
			&rep.Notes, &rep.Ordinality, &status, &rep.CreatedAt, &rep.UpdatedAt,
		)
		if err != nil {
			return err
		}
		rep.ID = domain.NewRepresentationID(id)
		rep.ResourceID = domain.NewResourceID(resourceID)
		rep.AuthorID = domain.NewUserID(author)
		rep.EndpointID = domain.NewEndpointID(endpoint)
		rep.LicenseID = domain.NewLicenseID(license)
		rep.MetumID = domain.NewMetumID(metum)
		rep.Status = domain.RepresentationStatus(status)
		resource.Representations = append(resource.Representations, rep)
	}
	return rows.Err()
}

func (r *ResourceRepository) loadGroups(ctx context.Context, resource *domain.Resource) error {
	rows, err := r.pool.Query(ctx, `
		SELECT g.id, g.organization_id, g.title, g.is_default, g.webhook_uri,
			g.created_at, g.updated_at
		FROM resource_groups g
		JOIN resource_group_resources rgr ON rgr.resource_group_id = g.id
		WHERE rgr.resource_id = $1
		ORDER BY g.is_default DESC, g.title`,
		resource.ID.UUID,
	)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	resource.Groups = nil
	for rows.Next() {
		group, err := scanResourceGroup(rows)
		if err != nil {
			return err
		}
		resource.Groups = append(resource.Groups, *group)
	}
	return rows.Err()
}

func (r *ResourceRepository) loadLinks(ctx context.Context, resource *domain.Resource) error {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.subject_resource_id, l.object_resource_id, l.verb, l.created_at,
			s.identifier, s.title, o.identifier, o.title
		FROM resource_links l
		JOIN resources s ON s.id = l.subject_resource_id
		JOIN resources o ON o.id = l.object_resource_id
		WHERE l.subject_resource_id = $1 OR l.object_resource_id = $1
		ORDER BY l.created_at`,
		resource.ID.UUID,
	)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	resource.SubjectLinks = nil
	resource.ObjectLinks = nil
	for rows.Next() {
		var (
			link                 domain.ResourceLink
			id, subjectID, objectID uuid.UUID
			verb                 string
		)
		err := rows.Scan(
			&id, &subjectID, &objectID, &verb, &link.CreatedAt,
			&link.SubjectResource.Identifier, &link.SubjectResource.Title,
			&link.ObjectResource.Identifier, &link.ObjectResource.Title,
		)
		if err != nil {
			return err
		}
		link.ID = domain.NewResourceLinkID(id)
		link.SubjectResourceID = domain.NewResourceID(subjectID)
		link.ObjectResourceID = domain.NewResourceID(objectID)
		link.Verb = domain.Verb(verb)
		link.SubjectResource.ID = link.SubjectResourceID
		link.ObjectResource.ID = link.ObjectResourceID
		if link.SubjectResourceID == resource.ID {
			resource.SubjectLinks = append(resource.SubjectLinks, link)
		} else {
			resource.ObjectLinks = append(resource.ObjectLinks, link)
		}
	}
	return rows.Err()
}

var (
	_ ports.ResourceRepository = (*ResourceRepository)(nil)
	_ ports.WebhookSource      = (*ResourceRepository)(nil)
)

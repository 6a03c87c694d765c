package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// ResourceGroupRepository persists resource groups.
type ResourceGroupRepository struct {
	pool *pgxpool.Pool
}

// NewResourceGroupRepository creates a group repository over the pool.
func NewResourceGroupRepository(pool *pgxpool.Pool) *ResourceGroupRepository {
	return &ResourceGroupRepository{pool: pool}
}

const groupColumns = `id, organization_id, title, is_default, webhook_uri, created_at, updated_at`

// Create inserts the group. Titles are unique per organization; a collision
// surfaces ErrUniquenessViolation.
func (r *ResourceGroupRepository) Create(ctx context.Context, group *domain.ResourceGroup) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO resource_groups (`+groupColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		group.ID.UUID, group.OrganizationID.UUID, group.Title, group.Default,
		group.WebhookURI, group.CreatedAt, group.UpdatedAt,
	)
	return mapError(err)
}

// GetByID returns the group within the organization.
func (r *ResourceGroupRepository) GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) (*domain.ResourceGroup, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+groupColumns+` FROM resource_groups
		WHERE id = $1 AND organization_id = $2`,
		id.UUID, orgID.UUID,
	)
	group, err := scanResourceGroup(row)
	if err != nil {
		return nil, mapError(err)
	}
	return group, nil
}

// ListByOrganization returns the organization's groups, default first.
func (r *ResourceGroupRepository) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.ResourceGroup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+groupColumns+` FROM resource_groups
		WHERE organization_id = $1
		ORDER BY is_default DESC, title`,
		orgID.UUID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var groups []*domain.ResourceGroup
	for rows.Next() {
		group, err := scanResourceGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// DefaultForOrganization returns the organization's designated default
// group.
func (r *ResourceGroupRepository) DefaultForOrganization(ctx context.Context, orgID domain.OrganizationID) (*domain.ResourceGroup, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+groupColumns+` FROM resource_groups
		WHERE organization_id = $1 AND is_default`,
		orgID.UUID,
	)
	group, err := scanResourceGroup(row)
	if err != nil {
		return nil, mapError(err)
	}
	return group, nil
}

// ResourceCount returns how many resources belong to the group.
func (r *ResourceGroupRepository) ResourceCount(ctx context.Context, id domain.ResourceGroupID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM resource_group_resources WHERE resource_group_id = $1`,
		id.UUID,
	).Scan(&count)
	return count, mapError(err)
}

// Delete removes the group. The deletion guards live in the use case; this
// is a plain delete.
func (r *ResourceGroupRepository) Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM resource_groups WHERE id = $1 AND organization_id = $2`,
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

func scanResourceGroup(row pgx.Row) (*domain.ResourceGroup, error) {
	var (
		group     domain.ResourceGroup
		id, orgID uuid.UUID
	)
	err := row.Scan(
		&id, &orgID, &group.Title, &group.Default, &group.WebhookURI,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	group.ID = domain.NewResourceGroupID(id)
	group.OrganizationID = domain.NewOrganizationID(orgID)
	return &group, nil
}

var _ ports.ResourceGroupRepository = (*ResourceGroupRepository)(nil)

package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
)

// OrganizationRepository persists organizations and memberships.
type OrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates an organization repository over the
// pool.
func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

const organizationColumns = `id, name, api_token_hash, created_at, updated_at`

// GetByID returns the organization.
func (r *OrganizationRepository) GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+organizationColumns+` FROM organizations WHERE id = $1`,
		id.UUID,
	)
	return scanOrganization(row)
}

// GetByAPITokenHash resolves the tenant for an API request.
func (r *OrganizationRepository) GetByAPITokenHash(ctx context.Context, tokenHash string) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+organizationColumns+` FROM organizations WHERE api_token_hash = $1`,
		tokenHash,
	)
	return scanOrganization(row)
}

// ListMemberships returns the organization's memberships by earliest first.
func (r *OrganizationRepository) ListMemberships(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT organization_id, user_id, role, active, created_at
		FROM memberships
		WHERE organization_id = $1
		ORDER BY created_at`,
		orgID.UUID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var memberships []*domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// MembershipFor returns the membership linking the user to the
// organization, or ErrNotFound.
func (r *OrganizationRepository) MembershipFor(ctx context.Context, orgID domain.OrganizationID, userID domain.UserID) (*domain.Membership, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT organization_id, user_id, role, active, created_at
		FROM memberships
		WHERE organization_id = $1 AND user_id = $2`,
		orgID.UUID, userID.UUID,
	)
	m, err := scanMembership(row)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

// MetumCount returns the size of the organization's classification scheme.
func (r *OrganizationRepository) MetumCount(ctx context.Context, orgID domain.OrganizationID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM meta WHERE organization_id = $1`,
		orgID.UUID,
	).Scan(&count)
	return count, mapError(err)
}

func scanOrganization(row pgx.Row) (*domain.Organization, error) {
	var (
		org domain.Organization
		id  uuid.UUID
	)
	err := row.Scan(&id, &org.Name, &org.APITokenHash, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	org.ID = domain.NewOrganizationID(id)
	return &org, nil
}

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var (
		m             domain.Membership
		orgID, userID uuid.UUID
		role          string
	)
	err := row.Scan(&orgID, &userID, &role, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.OrganizationID = domain.NewOrganizationID(orgID)
	m.UserID = domain.NewUserID(userID)
	m.Role = domain.Role(role)
	return &m, nil
}

var _ ports.OrganizationRepository = (*OrganizationRepository)(nil)

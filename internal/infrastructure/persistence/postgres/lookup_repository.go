package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
)

// LookupRepository answers the nested-representation default lookups. Every
// method reports found=false instead of an error for a missing row so the
// default registry can fall back to the earliest record.
type LookupRepository struct {
	pool *pgxpool.Pool
}

// NewLookupRepository creates a lookup repository over the pool.
func NewLookupRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{pool: pool}
}

// FirstActiveMemberID returns the user behind the organization's earliest
// active membership.
func (r *LookupRepository) FirstActiveMemberID(ctx context.Context, orgID domain.OrganizationID) (domain.UserID, bool, error) {
	id, ok, err := r.lookupID(ctx, `
		SELECT user_id FROM memberships
		WHERE organization_id = $1 AND active
		ORDER BY created_at LIMIT 1`,
		orgID.UUID)
	return domain.NewUserID(id), ok, err
}

// EndpointIDByName resolves an endpoint by name.
func (r *LookupRepository) EndpointIDByName(ctx context.Context, name string) (domain.EndpointID, bool, error) {
	id, ok, err := r.lookupID(ctx, `SELECT id FROM endpoints WHERE name = $1`, name)
	return domain.NewEndpointID(id), ok, err
}

// EarliestEndpointID returns the oldest endpoint on record.
func (r *LookupRepository) EarliestEndpointID(ctx context.Context) (domain.EndpointID, bool, error) {
	id, ok, err := r.lookupID(ctx, `SELECT id FROM endpoints ORDER BY created_at LIMIT 1`)
	return domain.NewEndpointID(id), ok, err
}

// LicenseIDByName resolves a license by name.
func (r *LookupRepository) LicenseIDByName(ctx context.Context, name string) (domain.LicenseID, bool, error) {
	id, ok, err := r.lookupID(ctx, `SELECT id FROM licenses WHERE name = $1`, name)
	return domain.NewLicenseID(id), ok, err
}

// EarliestLicenseID returns the oldest license on record.
func (r *LookupRepository) EarliestLicenseID(ctx context.Context) (domain.LicenseID, bool, error) {
	id, ok, err := r.lookupID(ctx, `SELECT id FROM licenses ORDER BY created_at LIMIT 1`)
	return domain.NewLicenseID(id), ok, err
}

// MetumIDByTitle resolves a metum by title within the organization.
func (r *LookupRepository) MetumIDByTitle(ctx context.Context, orgID domain.OrganizationID, title string) (domain.MetumID, bool, error) {
	id, ok, err := r.lookupID(ctx, `
		SELECT id FROM meta WHERE organization_id = $1 AND title = $2`,
		orgID.UUID, title)
	return domain.NewMetumID(id), ok, err
}

// EarliestMetumID returns the organization's oldest metum.
func (r *LookupRepository) EarliestMetumID(ctx context.Context, orgID domain.OrganizationID) (domain.MetumID, bool, error) {
	id, ok, err := r.lookupID(ctx, `
		SELECT id FROM meta WHERE organization_id = $1 ORDER BY created_at LIMIT 1`,
		orgID.UUID)
	return domain.NewMetumID(id), ok, err
}

func (r *LookupRepository) lookupID(ctx context.Context, query string, args ...any) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.UUID{}, false, nil
	}
	if err != nil {
		return uuid.UUID{}, false, err
	}
	return id, true, nil
}

var _ ports.LookupRepository = (*LookupRepository)(nil)

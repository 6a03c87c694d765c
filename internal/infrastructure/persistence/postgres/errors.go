// Package postgres implements the application ports over pgx. The database's
// unique indexes are the single source of truth for the identifier,
// canonical-id and source-uri invariants; this package translates their
// rejections into the domain error taxonomy.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// uniqueViolation is the SQLSTATE for unique-constraint rejection.
const uniqueViolation = "23505"

// mapError translates pgx errors into domain errors so callers can
// distinguish uniqueness collisions (retry with a fresh candidate) from
// other write failures.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domerrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domerrors.ErrUniquenessViolation
	}
	return err
}

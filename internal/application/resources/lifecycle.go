package resources

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// maxUniquenessAttempts bounds every candidate-generation loop. The store's
// unique constraints remain the authority; the pre-checks here only reduce
// the chance of a round-trip failure. Exhaustion surfaces
// ErrUniquenessViolation to the caller.
const maxUniquenessAttempts = 10

// ensureCanonicalID assigns a random canonical id while the field is blank,
// regenerating until no other resource in the same organization holds the
// candidate. An explicitly supplied canonical id is preserved verbatim.
func ensureCanonicalID(ctx context.Context, repo ports.ResourceRepository, resource *domain.Resource) error {
	if resource.CanonicalID != "" {
		return nil
	}
	for attempt := 0; attempt < maxUniquenessAttempts; attempt++ {
		candidate := uuid.NewString()
		taken, err := repo.CanonicalIDTaken(ctx, resource.OrganizationID, candidate, resource.ID)
		if err != nil {
			return err
		}
		if !taken {
			resource.CanonicalID = candidate
			return nil
		}
	}
	return fmt.Errorf("canonical id: %w", domerrors.ErrUniquenessViolation)
}

// ensureIdentifier derives a slug from the title while the identifier is
// blank. When the slug is taken system-wide a short random suffix is
// appended, retried with fresh suffixes until unique.
func ensureIdentifier(ctx context.Context, repo ports.ResourceRepository, resource *domain.Resource) error {
	if resource.Identifier != "" {
		return nil
	}
	root := Slugify(resource.Title)
	if root == "" {
		root = "resource"
	}
	candidate := root
	for attempt := 0; attempt < maxUniquenessAttempts; attempt++ {
		taken, err := repo.IdentifierTaken(ctx, candidate, resource.ID)
		if err != nil {
			return err
		}
		if !taken {
			resource.Identifier = candidate
			return nil
		}
		suffix, err := randomSuffix()
		if err != nil {
			return err
		}
		candidate = root + "-" + suffix
	}
	return fmt.Errorf("identifier: %w", domerrors.ErrUniquenessViolation)
}

// randomSuffix returns 6 hex characters for identifier collision avoidance.
func randomSuffix() (string, error) {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

var slugFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases the title, folds away diacritics and collapses every
// run of non-alphanumeric characters into a single hyphen.
func Slugify(title string) string {
	folded, _, err := transform.String(slugFold, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingDash := false
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// Defaults is the fixed registry resolving nested-representation attributes
// omitted at creation. Each entry maps one symbolic key (author, endpoint,
// license, metum) to its lookup, falling back to the earliest-created record
// when the named default does not exist.
type Defaults struct {
	lookups ports.LookupRepository
}

// NewDefaults builds the registry over the given lookups.
func NewDefaults(lookups ports.LookupRepository) *Defaults {
	return &Defaults{lookups: lookups}
}

// AuthorID returns the user behind the organization's earliest active
// membership.
func (d *Defaults) AuthorID(ctx context.Context, orgID domain.OrganizationID) (domain.UserID, error) {
	id, ok, err := d.lookups.FirstActiveMemberID(ctx, orgID)
	if err != nil {
		return domain.UserID{}, err
	}
	if !ok {
		return domain.UserID{}, representationDefaultMissing("author")
	}
	return id, nil
}

// EndpointID resolves an endpoint by name, defaulting to "Any" and falling
// back to the earliest endpoint on record.
func (d *Defaults) EndpointID(ctx context.Context, name string) (domain.EndpointID, error) {
	if name == "" {
		name = domain.DefaultEndpointName
	}
	id, ok, err := d.lookups.EndpointIDByName(ctx, name)
	if err != nil {
		return domain.EndpointID{}, err
	}
	if !ok {
		id, ok, err = d.lookups.EarliestEndpointID(ctx)
		if err != nil {
			return domain.EndpointID{}, err
		}
		if !ok {
			return domain.EndpointID{}, representationDefaultMissing("endpoint")
		}
	}
	return id, nil
}

// LicenseID resolves a license by name, defaulting to the universal license
// and falling back to the earliest license on record.
func (d *Defaults) LicenseID(ctx context.Context, name string) (domain.LicenseID, error) {
	if name == "" {
		name = domain.DefaultLicenseName
	}
	id, ok, err := d.lookups.LicenseIDByName(ctx, name)
	if err != nil {
		return domain.LicenseID{}, err
	}
	if !ok {
		id, ok, err = d.lookups.EarliestLicenseID(ctx)
		if err != nil {
			return domain.LicenseID{}, err
		}
		if !ok {
			return domain.LicenseID{}, representationDefaultMissing("license")
		}
	}
	return id, nil
}

// MetumID resolves a metum by title within the organization, defaulting to
// "Short" and falling back to the earliest metum.
func (d *Defaults) MetumID(ctx context.Context, orgID domain.OrganizationID, title string) (domain.MetumID, error) {
	if title == "" {
		title = domain.DefaultMetumTitle
	}
	id, ok, err := d.lookups.MetumIDByTitle(ctx, orgID, title)
	if err != nil {
		return domain.MetumID{}, err
	}
	if !ok {
		id, ok, err = d.lookups.EarliestMetumID(ctx, orgID)
		if err != nil {
			return domain.MetumID{}, err
		}
		if !ok {
			return domain.MetumID{}, representationDefaultMissing("metum")
		}
	}
	return id, nil
}

func representationDefaultMissing(kind string) error {
	vErr := domerrors.NewValidationError()
	vErr.Add("representations", "no "+kind+" available to default from")
	return vErr
}

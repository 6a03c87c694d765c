package resources

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"This is a test, isn't it?! YES!", "this-is-a-test-isn-t-it-yes"},
		{"Café au lait", "cafe-au-lait"},
		{"  spaced   out  ", "spaced-out"},
		{"UPPER", "upper"},
		{"already-slugged", "already-slugged"},
		{"123 go", "123-go"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestEnsureCanonicalIDPreservesExplicitValue(t *testing.T) {
	repo := newFakeResourceRepo()
	resource := &domain.Resource{
		ID:          domain.NewResourceID(uuid.New()),
		CanonicalID: "museum-catalog-4711",
	}
	require.NoError(t, ensureCanonicalID(context.Background(), repo, resource))
	assert.Equal(t, "museum-catalog-4711", resource.CanonicalID)
}

func TestEnsureCanonicalIDGeneratesUUID(t *testing.T) {
	repo := newFakeResourceRepo()
	resource := &domain.Resource{ID: domain.NewResourceID(uuid.New())}
	require.NoError(t, ensureCanonicalID(context.Background(), repo, resource))
	_, err := uuid.Parse(resource.CanonicalID)
	assert.NoError(t, err)
}

func TestEnsureIdentifierSlugsFromTitle(t *testing.T) {
	repo := newFakeResourceRepo()
	resource := &domain.Resource{
		ID:    domain.NewResourceID(uuid.New()),
		Title: "Lion Resting in Shade",
	}
	require.NoError(t, ensureIdentifier(context.Background(), repo, resource))
	assert.Equal(t, "lion-resting-in-shade", resource.Identifier)
}

func TestEnsureIdentifierAppendsSuffixOnCollision(t *testing.T) {
	repo := newFakeResourceRepo()
	repo.takenIdentifiers["lion"] = true
	resource := &domain.Resource{
		ID:    domain.NewResourceID(uuid.New()),
		Title: "Lion",
	}
	require.NoError(t, ensureIdentifier(context.Background(), repo, resource))
	require.True(t, strings.HasPrefix(resource.Identifier, "lion-"), resource.Identifier)
	suffix := strings.TrimPrefix(resource.Identifier, "lion-")
	assert.Len(t, suffix, 6)
}

func TestEnsureIdentifierBlankTitleFallsBack(t *testing.T) {
	repo := newFakeResourceRepo()
	resource := &domain.Resource{ID: domain.NewResourceID(uuid.New()), Title: "???"}
	require.NoError(t, ensureIdentifier(context.Background(), repo, resource))
	assert.Equal(t, "resource", resource.Identifier)
}

func TestEnsureIdentifierPreservesExplicitValue(t *testing.T) {
	repo := newFakeResourceRepo()
	resource := &domain.Resource{
		ID:         domain.NewResourceID(uuid.New()),
		Title:      "Lion",
		Identifier: "my-lion",
	}
	require.NoError(t, ensureIdentifier(context.Background(), repo, resource))
	assert.Equal(t, "my-lion", resource.Identifier)
}

func TestDefaultsAuthorFromEarliestActiveMembership(t *testing.T) {
	lookups := newFakeLookups()
	defaults := NewDefaults(lookups)
	id, err := defaults.AuthorID(context.Background(), domain.NewOrganizationID(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, lookups.authorID, id)
}

func TestDefaultsAuthorMissingIsValidationError(t *testing.T) {
	lookups := newFakeLookups()
	lookups.hasAuthor = false
	defaults := NewDefaults(lookups)
	_, err := defaults.AuthorID(context.Background(), domain.NewOrganizationID(uuid.New()))
	var vErr *domerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "representations")
}

func TestDefaultsEndpointFallsBackToEarliest(t *testing.T) {
	lookups := newFakeLookups()
	earliest := domain.NewEndpointID(uuid.New())
	lookups.endpoints = map[string]domain.EndpointID{}
	lookups.earliestEP = &earliest
	defaults := NewDefaults(lookups)

	id, err := defaults.EndpointID(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, earliest, id)
}

func TestDefaultsEndpointByName(t *testing.T) {
	lookups := newFakeLookups()
	named := domain.NewEndpointID(uuid.New())
	lookups.endpoints["Kiosk"] = named
	defaults := NewDefaults(lookups)

	id, err := defaults.EndpointID(context.Background(), "Kiosk")
	require.NoError(t, err)
	assert.Equal(t, named, id)
}

func TestDefaultsMetumDefaultsToShort(t *testing.T) {
	lookups := newFakeLookups()
	defaults := NewDefaults(lookups)
	id, err := defaults.MetumID(context.Background(), domain.NewOrganizationID(uuid.New()), "")
	require.NoError(t, err)
	assert.Equal(t, lookups.meta[domain.DefaultMetumTitle], id)
}

func TestDefaultsLicenseMissingEverywhere(t *testing.T) {
	lookups := newFakeLookups()
	lookups.licenses = map[string]domain.LicenseID{}
	lookups.earliestLC = nil
	defaults := NewDefaults(lookups)
	_, err := defaults.LicenseID(context.Background(), "")
	var vErr *domerrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

package resources

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

func testOrg() domain.OrganizationID { return domain.NewOrganizationID(uuid.New()) }

func defaultGroupFor(groups *fakeGroupRepo, orgID domain.OrganizationID) *domain.ResourceGroup {
	return groups.add(&domain.ResourceGroup{
		ID:             domain.NewResourceGroupID(uuid.New()),
		OrganizationID: orgID,
		Title:          domain.DefaultGroupTitle,
		Default:        true,
		CreatedAt:      time.Now(),
	})
}

func newCreateFixture(orgID domain.OrganizationID) (*CreateResource, *fakeResourceRepo, *fakeGroupRepo, *fakeEnqueuer) {
	repo := newFakeResourceRepo()
	groups := newFakeGroupRepo()
	enq := &fakeEnqueuer{}
	uc := NewCreateResource(repo, groups, NewDefaults(newFakeLookups()), enq, zerolog.Nop())
	return uc, repo, groups, enq
}

func TestCreateResourceDefaults(t *testing.T) {
	orgID := testOrg()
	uc, repo, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion Resting",
	})
	require.NoError(t, err)

	assert.Equal(t, "lion-resting", resource.Identifier)
	_, uuidErr := uuid.Parse(resource.CanonicalID)
	assert.NoError(t, uuidErr)
	require.Len(t, resource.Groups, 1)
	assert.True(t, resource.Groups[0].Default)
	assert.Contains(t, repo.stored, resource.ID)
}

func TestCreateResourceBlankTitleGetsDefault(t *testing.T) {
	orgID := testOrg()
	uc, _, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "   ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTitle, resource.Title)
}

func TestCreateResourcePreservesExplicitCanonicalID(t *testing.T) {
	orgID := testOrg()
	uc, _, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
		CanonicalID:    "accession-1859-112",
	})
	require.NoError(t, err)
	assert.Equal(t, "accession-1859-112", resource.CanonicalID)
}

func TestCreateResourceRequiresValidType(t *testing.T) {
	orgID := testOrg()
	uc, _, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)

	var vErr *domerrors.ValidationError

	_, err := uc.Do(context.Background(), CreateResourceInput{OrganizationID: orgID, Title: "Lion"})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "resource_type")

	_, err = uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.ResourceType("painting"),
		Title:          "Lion",
	})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "resource_type")
}

func TestCreateResourceWithoutAnyGroupFails(t *testing.T) {
	orgID := testOrg()
	uc, repo, _, _ := newCreateFixture(orgID)

	_, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
	})
	var vErr *domerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "resource_groups")
	assert.Empty(t, repo.stored)
}

func TestCreateResourceSkipsForeignGroups(t *testing.T) {
	orgID := testOrg()
	uc, _, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)
	foreign := groups.add(&domain.ResourceGroup{
		ID:             domain.NewResourceGroupID(uuid.New()),
		OrganizationID: testOrg(),
		Title:          "Someone else's",
	})

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID:   orgID,
		ResourceType:     domain.TypeImage,
		Title:            "Lion",
		ResourceGroupIDs: []domain.ResourceGroupID{foreign.ID},
	})
	require.NoError(t, err)
	// the foreign group was ignored; the default group filled in
	require.Len(t, resource.Groups, 1)
	assert.True(t, resource.Groups[0].Default)
}

func TestCreateResourceNestedRepresentationDefaults(t *testing.T) {
	orgID := testOrg()
	repo := newFakeResourceRepo()
	groups := newFakeGroupRepo()
	defaultGroupFor(groups, orgID)
	lookups := newFakeLookups()
	uc := NewCreateResource(repo, groups, NewDefaults(lookups), &fakeEnqueuer{}, zerolog.Nop())

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID:  orgID,
		ResourceType:    domain.TypeImage,
		Title:           "Lion",
		Representations: []RepresentationInput{{Text: "A lion resting in shade."}},
	})
	require.NoError(t, err)
	require.Len(t, resource.Representations, 1)
	rep := resource.Representations[0]
	assert.Equal(t, lookups.authorID, rep.AuthorID)
	assert.Equal(t, lookups.endpoints[domain.DefaultEndpointName], rep.EndpointID)
	assert.Equal(t, lookups.licenses[domain.DefaultLicenseName], rep.LicenseID)
	assert.Equal(t, lookups.meta[domain.DefaultMetumTitle], rep.MetumID)
	assert.Equal(t, domain.RepresentationNotApproved, rep.Status)
}

func TestCreateResourceRetriesGeneratedCandidates(t *testing.T) {
	orgID := testOrg()
	uc, repo, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)
	repo.createErrs = []error{domerrors.ErrUniquenessViolation, domerrors.ErrUniquenessViolation}

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.createCalls)
	assert.NotEmpty(t, resource.CanonicalID)
	assert.NotEmpty(t, resource.Identifier)
}

func TestCreateResourceRetryIsBounded(t *testing.T) {
	orgID := testOrg()
	uc, repo, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)
	for i := 0; i < 20; i++ {
		repo.createErrs = append(repo.createErrs, domerrors.ErrUniquenessViolation)
	}

	_, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
	})
	require.ErrorIs(t, err, domerrors.ErrUniquenessViolation)
	assert.Equal(t, maxUniquenessAttempts, repo.createCalls)
}

func TestCreateResourceExplicitFieldsDoNotRetry(t *testing.T) {
	orgID := testOrg()
	uc, repo, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)
	repo.createErrs = []error{domerrors.ErrUniquenessViolation}

	_, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
		Identifier:     "my-lion",
		CanonicalID:    "accession-1",
	})
	require.ErrorIs(t, err, domerrors.ErrUniquenessViolation)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCreateResourceEnqueuesWebhookOnlyForWebhookGroups(t *testing.T) {
	orgID := testOrg()
	uc, _, groups, enq := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
	})
	require.NoError(t, err)
	assert.Empty(t, enq.enqueued)

	hooked := groups.add(&domain.ResourceGroup{
		ID:             domain.NewResourceGroupID(uuid.New()),
		OrganizationID: orgID,
		Title:          "Exhibits",
		WebhookURI:     "https://example.org/hook",
	})
	resource, err = uc.Do(context.Background(), CreateResourceInput{
		OrganizationID:   orgID,
		ResourceType:     domain.TypeImage,
		Title:            "Tiger",
		ResourceGroupIDs: []domain.ResourceGroupID{hooked.ID},
	})
	require.NoError(t, err)
	require.Len(t, enq.enqueued, 1)
	assert.Equal(t, resource.ID, enq.enqueued[0])
}

func TestCreateResourceParsesHostURIs(t *testing.T) {
	orgID := testOrg()
	uc, _, groups, _ := newCreateFixture(orgID)
	defaultGroupFor(groups, orgID)

	resource, err := uc.Do(context.Background(), CreateResourceInput{
		OrganizationID: orgID,
		ResourceType:   domain.TypeImage,
		Title:          "Lion",
		HostURIs:       "https://example.org/a\n\nhttps://example.org/b",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, resource.HostURIs)
}

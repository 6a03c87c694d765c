package groups

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

type fakeGroupRepo struct {
	groups map[domain.ResourceGroupID]*domain.ResourceGroup
	counts map[domain.ResourceGroupID]int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups: map[domain.ResourceGroupID]*domain.ResourceGroup{},
		counts: map[domain.ResourceGroupID]int{},
	}
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *domain.ResourceGroup) error {
	f.groups[group.ID] = group
	return nil
}

func (f *fakeGroupRepo) GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) (*domain.ResourceGroup, error) {
	g, ok := f.groups[id]
	if !ok || g.OrganizationID != orgID {
		return nil, domerrors.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroupRepo) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.ResourceGroup, error) {
	var out []*domain.ResourceGroup
	for _, g := range f.groups {
		if g.OrganizationID == orgID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) DefaultForOrganization(ctx context.Context, orgID domain.OrganizationID) (*domain.ResourceGroup, error) {
	for _, g := range f.groups {
		if g.OrganizationID == orgID && g.Default {
			return g, nil
		}
	}
	return nil, domerrors.ErrNotFound
}

func (f *fakeGroupRepo) ResourceCount(ctx context.Context, id domain.ResourceGroupID) (int, error) {
	return f.counts[id], nil
}

func (f *fakeGroupRepo) Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceGroupID) error {
	if _, ok := f.groups[id]; !ok {
		return domerrors.ErrNotFound
	}
	delete(f.groups, id)
	return nil
}

func seedGroup(repo *fakeGroupRepo, orgID domain.OrganizationID, title string, isDefault bool) *domain.ResourceGroup {
	g := &domain.ResourceGroup{
		ID:             domain.NewResourceGroupID(uuid.New()),
		OrganizationID: orgID,
		Title:          title,
		Default:        isDefault,
		CreatedAt:      time.Now(),
	}
	repo.groups[g.ID] = g
	return g
}

func TestCreateGroupRequiresTitle(t *testing.T) {
	uc := NewCreateGroup(newFakeGroupRepo())
	_, err := uc.Do(context.Background(), CreateGroupInput{
		OrganizationID: domain.NewOrganizationID(uuid.New()),
		Title:          "   ",
	})
	var vErr *domerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
}

func TestCreateGroupTrimsTitle(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := NewCreateGroup(repo)
	group, err := uc.Do(context.Background(), CreateGroupInput{
		OrganizationID: domain.NewOrganizationID(uuid.New()),
		Title:          "  Audio Tour  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Audio Tour", group.Title)
	assert.Contains(t, repo.groups, group.ID)
}

func TestDeleteGroupRefusesDefault(t *testing.T) {
	repo := newFakeGroupRepo()
	orgID := domain.NewOrganizationID(uuid.New())
	g := seedGroup(repo, orgID, domain.DefaultGroupTitle, true)

	err := NewDeleteGroup(repo).Do(context.Background(), orgID, g.ID)
	assert.ErrorIs(t, err, domerrors.ErrResourceGroupIsDefault)
	assert.Contains(t, repo.groups, g.ID)
}

func TestDeleteGroupRefusesNonEmpty(t *testing.T) {
	repo := newFakeGroupRepo()
	orgID := domain.NewOrganizationID(uuid.New())
	g := seedGroup(repo, orgID, "Exhibits", false)
	repo.counts[g.ID] = 3

	err := NewDeleteGroup(repo).Do(context.Background(), orgID, g.ID)
	assert.ErrorIs(t, err, domerrors.ErrResourceGroupNotEmpty)
	assert.Contains(t, repo.groups, g.ID)
}

func TestDeleteGroupRemovesEmptyNonDefault(t *testing.T) {
	repo := newFakeGroupRepo()
	orgID := domain.NewOrganizationID(uuid.New())
	g := seedGroup(repo, orgID, "Exhibits", false)

	require.NoError(t, NewDeleteGroup(repo).Do(context.Background(), orgID, g.ID))
	assert.NotContains(t, repo.groups, g.ID)
}

func TestDeleteGroupScopedToOrganization(t *testing.T) {
	repo := newFakeGroupRepo()
	orgID := domain.NewOrganizationID(uuid.New())
	g := seedGroup(repo, orgID, "Exhibits", false)

	err := NewDeleteGroup(repo).Do(context.Background(), domain.NewOrganizationID(uuid.New()), g.ID)
	assert.ErrorIs(t, err, domerrors.ErrNotFound)
}

package resources

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

type fakeResourceRepo struct {
	stored           map[domain.ResourceID]*domain.Resource
	takenIdentifiers map[string]bool
	takenCanonical   map[string]bool
	createErrs       []error
	updateErrs       []error
	createCalls      int
	updateCalls      int
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{
		stored:           map[domain.ResourceID]*domain.Resource{},
		takenIdentifiers: map[string]bool{},
		takenCanonical:   map[string]bool{},
	}
}

func (f *fakeResourceRepo) Create(ctx context.Context, resource *domain.Resource) error {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	clone := *resource
	f.stored[resource.ID] = &clone
	return nil
}

func (f *fakeResourceRepo) Update(ctx context.Context, resource *domain.Resource) error {
	f.updateCalls++
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := f.stored[resource.ID]; !ok {
		return domerrors.ErrNotFound
	}
	clone := *resource
	f.stored[resource.ID] = &clone
	return nil
}

func (f *fakeResourceRepo) Delete(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) error {
	if _, ok := f.stored[id]; !ok {
		return domerrors.ErrNotFound
	}
	delete(f.stored, id)
	return nil
}

func (f *fakeResourceRepo) GetByID(ctx context.Context, orgID domain.OrganizationID, id domain.ResourceID) (*domain.Resource, error) {
	r, ok := f.stored[id]
	if !ok || r.OrganizationID != orgID {
		return nil, domerrors.ErrNotFound
	}
	clone := *r
	clone.HostURIs = append([]string(nil), r.HostURIs...)
	return &clone, nil
}

func (f *fakeResourceRepo) ListByOrganization(ctx context.Context, orgID domain.OrganizationID) ([]*domain.Resource, error) {
	var out []*domain.Resource
	for _, r := range f.stored {
		if r.OrganizationID == orgID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResourceRepo) IdentifierTaken(ctx context.Context, identifier string, exclude domain.ResourceID) (bool, error) {
	if f.takenIdentifiers[identifier] {
		return true, nil
	}
	for id, r := range f.stored {
		if id != exclude && r.Identifier == identifier {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResourceRepo) CanonicalIDTaken(ctx context.Context, orgID domain.OrganizationID, canonicalID string, exclude domain.ResourceID) (bool, error) {
	if f.takenCanonical[canonicalID] {
		return true, nil
	}
	for id, r := range f.stored {
		if id != exclude && r.OrganizationID == orgID && r.CanonicalID == canonicalID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResourceRepo) LatestTimestamp(ctx context.Context, orgID domain.OrganizationID) (*time.Time, error) {
	var latest *time.Time
	for _, r := range f.stored {
		if r.OrganizationID != orgID {
			continue
		}
		t := r.CreatedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

type fakeGroupRepo struct {
	groups       map[domain.ResourceGroupID]*domain.ResourceGroup
	defaultGroup *domain.ResourceGroup
	counts       map[domain.ResourceGroupID]int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups: map[domain.ResourceGroupID]*domain.ResourceGroup{},
		counts: map[domain.ResourceGroupID]int{},
	}
}

func (f *fakeGroupRepo) add(group *domain.ResourceGroup) *domain.ResourceGroup {
	f.groups[group.ID] = group
	if group.Default {
		f.defaultGroup = group
	}
	return group
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *domain.ResourceGroup) error {
	f.add(group)
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
	if f.defaultGroup == nil || f.defaultGroup.OrganizationID != orgID {
		return nil, domerrors.ErrNotFound
	}
	return f.defaultGroup, nil
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

type fakeLookups struct {
	authorID   domain.UserID
	hasAuthor  bool
	endpoints  map[string]domain.EndpointID
	earliestEP *domain.EndpointID
	licenses   map[string]domain.LicenseID
	earliestLC *domain.LicenseID
	meta       map[string]domain.MetumID
	earliestMT *domain.MetumID
}

func newFakeLookups() *fakeLookups {
	ep := domain.NewEndpointID(uuid.New())
	lc := domain.NewLicenseID(uuid.New())
	mt := domain.NewMetumID(uuid.New())
	return &fakeLookups{
		authorID:   domain.NewUserID(uuid.New()),
		hasAuthor:  true,
		endpoints:  map[string]domain.EndpointID{domain.DefaultEndpointName: ep},
		earliestEP: &ep,
		licenses:   map[string]domain.LicenseID{domain.DefaultLicenseName: lc},
		earliestLC: &lc,
		meta:       map[string]domain.MetumID{domain.DefaultMetumTitle: mt},
		earliestMT: &mt,
	}
}

func (f *fakeLookups) FirstActiveMemberID(ctx context.Context, orgID domain.OrganizationID) (domain.UserID, bool, error) {
	return f.authorID, f.hasAuthor, nil
}

func (f *fakeLookups) EndpointIDByName(ctx context.Context, name string) (domain.EndpointID, bool, error) {
	id, ok := f.endpoints[name]
	return id, ok, nil
}

func (f *fakeLookups) EarliestEndpointID(ctx context.Context) (domain.EndpointID, bool, error) {
	if f.earliestEP == nil {
		return domain.EndpointID{}, false, nil
	}
	return *f.earliestEP, true, nil
}

func (f *fakeLookups) LicenseIDByName(ctx context.Context, name string) (domain.LicenseID, bool, error) {
	id, ok := f.licenses[name]
	return id, ok, nil
}

func (f *fakeLookups) EarliestLicenseID(ctx context.Context) (domain.LicenseID, bool, error) {
	if f.earliestLC == nil {
		return domain.LicenseID{}, false, nil
	}
	return *f.earliestLC, true, nil
}

func (f *fakeLookups) MetumIDByTitle(ctx context.Context, orgID domain.OrganizationID, title string) (domain.MetumID, bool, error) {
	id, ok := f.meta[title]
	return id, ok, nil
}

func (f *fakeLookups) EarliestMetumID(ctx context.Context, orgID domain.OrganizationID) (domain.MetumID, bool, error) {
	if f.earliestMT == nil {
		return domain.MetumID{}, false, nil
	}
	return *f.earliestMT, true, nil
}

type fakeEnqueuer struct {
	enqueued []domain.ResourceID
}

func (f *fakeEnqueuer) EnqueueResourceWebhook(ctx context.Context, resourceID domain.ResourceID) error {
	f.enqueued = append(f.enqueued, resourceID)
	return nil
}

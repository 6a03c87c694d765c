package resources

import (
	"context"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/filter"
)

// ListView selects which pagination links the caller gets. API consumers
// always receive the literal first link; browsers drop it while already on
// the first page.
type ListView int

const (
	ViewAPI ListView = iota
	ViewBrowser
)

// ListResourcesOutput is the inbound query interface's response shape.
type ListResourcesOutput struct {
	Records    []*domain.Resource
	Links      map[string]filter.Params
	TotalCount int
}

// ListResources answers filtered, paginated listing queries over an
// organization's resources.
type ListResources struct {
	resources      ports.ResourceRepository
	schema         *filter.Schema[*domain.Resource]
	defaultPerPage int
	maxPerPage     int
}

// NewListResources wires the listing use case. Page sizes come from
// configuration.
func NewListResources(resources ports.ResourceRepository, defaultPerPage, maxPerPage int) *ListResources {
	return &ListResources{
		resources:      resources,
		schema:         Schema(),
		defaultPerPage: defaultPerPage,
		maxPerPage:     maxPerPage,
	}
}

// Do runs the filter pipeline: normalize the raw parameters, search the
// tenant-scoped collection, paginate, and build navigation links for the
// requested view.
func (uc *ListResources) Do(ctx context.Context, orgID domain.OrganizationID, rawFilter map[string]any, rawPage map[string]any, view ListView) (*ListResourcesOutput, error) {
	base, err := uc.resources.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	pageParams := filter.ParsePageParams(rawPage, uc.defaultPerPage, uc.maxPerPage)
	rf := filter.NewRecordFilter(uc.schema, rawFilter, pageParams, base, DefaultOrderScope)

	records, err := rf.Records()
	if err != nil {
		return nil, err
	}
	var links map[string]filter.Params
	if view == ViewBrowser {
		links, err = rf.BrowserPaginationLinkParams()
	} else {
		links, err = rf.PaginationLinkParams()
	}
	if err != nil {
		return nil, err
	}
	total, err := rf.TotalCount()
	if err != nil {
		return nil, err
	}
	return &ListResourcesOutput{Records: records, Links: links, TotalCount: total}, nil
}

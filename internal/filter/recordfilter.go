package filter

// RecordFilter composes normalization, search and pagination over a
// tenant-scoped base collection. Default ordering applies only while the
// filter specification is empty; any explicit filter suppresses it. Derived
// search and page are computed once per instance.
type RecordFilter[T any] struct {
	schema       *Schema[T]
	params       Params
	pageParams   PageParams
	base         []T
	defaultOrder []string

	ran  bool
	page Page[T]
	err  error
}

// NewRecordFilter builds a filter from raw request parameters. The base
// collection must already be restricted to the caller's tenant and
// visibility; defaultOrder names schema scopes applied when no filters are
// given.
func NewRecordFilter[T any](schema *Schema[T], rawFilter map[string]any, pageParams PageParams, base []T, defaultOrder ...string) *RecordFilter[T] {
	return &RecordFilter[T]{
		schema:       schema,
		params:       Normalize(rawFilter),
		pageParams:   pageParams,
		base:         base,
		defaultOrder: defaultOrder,
	}
}

// Params returns the normalized filter specification.
func (f *RecordFilter[T]) Params() Params { return f.params }

// Records returns the current page of filtered records.
func (f *RecordFilter[T]) Records() ([]T, error) {
	page, err := f.Page()
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

// TotalCount returns the number of records across all pages.
func (f *RecordFilter[T]) TotalCount() (int, error) {
	page, err := f.Page()
	if err != nil {
		return 0, err
	}
	return page.TotalCount, nil
}

// Page runs the search and pagination once and returns the resulting page.
func (f *RecordFilter[T]) Page() (Page[T], error) {
	if f.ran {
		return f.page, f.err
	}
	f.ran = true

	base := f.base
	if f.params.Empty() {
		for _, name := range f.defaultOrder {
			base = f.schema.ApplyScope(name, base)
		}
	}
	result, err := NewSearch(f.schema, f.params, base).Result()
	if err != nil {
		f.err = err
		return f.page, f.err
	}
	f.page = Paginate(result, f.pageParams)
	return f.page, nil
}

// PaginationLinkParams returns the links an API consumer sees. The filter
// specification rides along under "q" so links reproduce the current query.
func (f *RecordFilter[T]) PaginationLinkParams() (map[string]Params, error) {
	page, err := f.Page()
	if err != nil {
		return nil, err
	}
	base := Params{}
	if !f.params.Empty() {
		base["q"] = map[string]any(f.params)
	}
	return page.LinksFor(base), nil
}

// BrowserPaginationLinkParams returns the links a browser user sees: the
// same as the API view except the first-page link is suppressed while the
// user is already on the first page.
func (f *RecordFilter[T]) BrowserPaginationLinkParams() (map[string]Params, error) {
	links, err := f.PaginationLinkParams()
	if err != nil {
		return nil, err
	}
	page, _ := f.Page()
	if page.FirstPage() {
		delete(links, LinkFirst)
	}
	return links, nil
}

package filter

import (
	"strconv"
)

// Link keys produced by LinksFor.
const (
	LinkFirst = "first"
	LinkPrev  = "prev"
	LinkNext  = "next"
	LinkLast  = "last"
)

// PageKey is the parameter name link builders merge the page number under.
const PageKey = "page"

// PageParams is the requested slice of a result set: a 1-based page number
// and an items-per-page size.
type PageParams struct {
	Number  int
	PerPage int
}

// ParsePageParams resolves raw pagination parameters ({number/page,
// per_page/size}) into PageParams. Per-page requests clamp to [1, max];
// non-numeric or negative page numbers resolve to page 1. Out-of-range input
// never fails.
func ParsePageParams(raw map[string]any, defaultPerPage, maxPerPage int) PageParams {
	p := PageParams{Number: 1, PerPage: defaultPerPage}
	number, ok := intValue(raw["number"])
	if !ok {
		number, ok = intValue(raw[PageKey])
	}
	if ok && number >= 1 {
		p.Number = number
	}
	size, ok := intValue(raw["per_page"])
	if !ok {
		size, ok = intValue(raw["size"])
	}
	if ok {
		p.PerPage = size
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	if p.PerPage < 1 {
		p.PerPage = 1
	}
	return p
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Page is one slice of a result set plus the counts needed for navigation.
type Page[T any] struct {
	Records    []T
	Number     int
	PerPage    int
	TotalPages int
	TotalCount int
}

// Paginate slices records into the requested page. The page number is
// resolved to the nearest valid page: below range becomes 1, beyond the last
// page becomes the last page.
func Paginate[T any](records []T, params PageParams) Page[T] {
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 1
	}
	total := len(records)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	number := params.Number
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	start := (number - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page[T]{
		Records:    records[start:end],
		Number:     number,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalCount: total,
	}
}

// FirstPage reports whether this is page 1.
func (p Page[T]) FirstPage() bool { return p.Number <= 1 }

// LastPage reports whether this is the final page.
func (p Page[T]) LastPage() bool { return p.Number >= p.TotalPages }

// LinksFor produces navigation link descriptors: base merged with the
// correct page number under each applicable key. prev is omitted on page 1
// and next on the last page; first and last always resolve to page 1 and the
// total page count.
func (p Page[T]) LinksFor(base Params) map[string]Params {
	links := map[string]Params{
		LinkFirst: pageLink(base, 1),
		LinkLast:  pageLink(base, p.TotalPages),
	}
	if !p.FirstPage() {
		links[LinkPrev] = pageLink(base, p.Number-1)
	}
	if !p.LastPage() {
		links[LinkNext] = pageLink(base, p.Number+1)
	}
	return links
}

func pageLink(base Params, number int) Params {
	link := base.clone()
	link[PageKey] = number
	return link
}

package filter

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

func orderedSchema() *Schema[record] {
	s := testSchema()
	s.Scope("default_order", func(records []record) []record {
		out := append([]record(nil), records...)
		sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
		return out
	})
	return s
}

func TestRecordFilterDefaultOrderOnEmptyFilter(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), nil, PageParams{Number: 1, PerPage: 10}, testRecords, "default_order")
	got, err := rf.Records()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "bear-3", got[0].Identifier)
	assert.Equal(t, "lion-1", got[1].Identifier)
	assert.Equal(t, "tiger-2", got[2].Identifier)
}

func TestRecordFilterDefaultOrderSuppressedByAnyFilter(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), map[string]any{"title_i_cont": "i"},
		PageParams{Number: 1, PerPage: 10}, testRecords, "default_order")
	got, err := rf.Records()
	require.NoError(t, err)
	// lion and tiger match; base order preserved, not identifier order
	require.Len(t, got, 2)
	assert.Equal(t, "lion-1", got[0].Identifier)
	assert.Equal(t, "tiger-2", got[1].Identifier)
}

func TestRecordFilterUnknownFieldPropagates(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), map[string]any{"nope_eq": "x"},
		PageParams{Number: 1, PerPage: 10}, testRecords)
	_, err := rf.Records()
	var ferr *domerrors.InvalidFilterFieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "nope_eq", ferr.Field)

	_, err = rf.TotalCount()
	assert.ErrorAs(t, err, &ferr)
}

func TestPaginationLinkParamsCarryFilterUnderQ(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), map[string]any{"title_i_cont": "i"},
		PageParams{Number: 1, PerPage: 1}, testRecords)
	links, err := rf.PaginationLinkParams()
	require.NoError(t, err)
	require.Contains(t, links, LinkNext)
	q, ok := links[LinkNext]["q"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "i", q["title_i_cont"])
	assert.Equal(t, 2, links[LinkNext][PageKey])
}

func TestAPILinksAlwaysIncludeFirst(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), nil, PageParams{Number: 1, PerPage: 1}, testRecords)
	links, err := rf.PaginationLinkParams()
	require.NoError(t, err)
	assert.Contains(t, links, LinkFirst)
}

func TestBrowserLinksDropFirstOnFirstPage(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), nil, PageParams{Number: 1, PerPage: 1}, testRecords)
	links, err := rf.BrowserPaginationLinkParams()
	require.NoError(t, err)
	assert.NotContains(t, links, LinkFirst)
	assert.Contains(t, links, LinkNext)
	assert.Contains(t, links, LinkLast)

	rf = NewRecordFilter(orderedSchema(), nil, PageParams{Number: 2, PerPage: 1}, testRecords)
	links, err = rf.BrowserPaginationLinkParams()
	require.NoError(t, err)
	assert.Contains(t, links, LinkFirst)
}

func TestRecordFilterTotalCountSpansPages(t *testing.T) {
	rf := NewRecordFilter(orderedSchema(), nil, PageParams{Number: 1, PerPage: 2}, testRecords)
	total, err := rf.TotalCount()
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	got, err := rf.Records()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

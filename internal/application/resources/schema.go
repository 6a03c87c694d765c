package resources

import (
	"sort"
	"strings"

	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/filter"
)

// DefaultOrderScope is applied to resource listings when no filters are
// given: priority-flagged resources first, newest first within each band.
const DefaultOrderScope = "order_by_priority_and_date"

// Schema registers the filter fields and named scopes the resource
// collection supports. Built once at wiring time.
func Schema() *filter.Schema[*domain.Resource] {
	identifier := func(r *domain.Resource) string { return r.Identifier }
	title := func(r *domain.Resource) string { return r.Title }
	representationText := func(r *domain.Resource) string {
		texts := make([]string, 0, len(r.Representations))
		for _, rep := range r.Representations {
			texts = append(texts, rep.Text)
		}
		return strings.Join(texts, "\n")
	}

	s := filter.NewSchema[*domain.Resource]()
	s.Field("identifier_eq", filter.Eq(identifier))
	s.Field("canonical_id_eq", filter.Eq(func(r *domain.Resource) string { return r.CanonicalID }))
	s.Field("source_uri_eq", filter.Eq(func(r *domain.Resource) string { return r.SourceURI }))
	s.Field("resource_type_eq", filter.Eq(func(r *domain.Resource) string { return string(r.ResourceType) }))
	s.Field("identifier_cont", filter.Contains(identifier))
	s.Field("title_cont", filter.Contains(title))
	s.Field("title_i_cont", filter.ContainsFold(title))
	s.Field("identifier_or_title_cont_any", filter.ContainsFold(identifier, title))
	s.Field("identifier_or_title_or_representations_text_cont_all",
		filter.ContainsAll(identifier, title, representationText))

	s.Scope("represented", keep((*domain.Resource).Represented))
	s.Scope("unrepresented", keep((*domain.Resource).Unrepresented))
	s.Scope("assigned", keep((*domain.Resource).Assigned))
	s.Scope("unassigned", keep((*domain.Resource).Unassigned))
	s.Scope("assigned_unrepresented", keep(func(r *domain.Resource) bool {
		return r.Unrepresented() && r.Assigned()
	}))
	s.Scope("unassigned_unrepresented", keep(func(r *domain.Resource) bool {
		return r.Unrepresented() && r.Unassigned()
	}))
	s.Scope("with_approved_representations", keep(func(r *domain.Resource) bool {
		for _, rep := range r.Representations {
			if rep.Approved() {
				return true
			}
		}
		return false
	}))
	s.Scope("by_date", orderBy(newerFirst))
	s.Scope("by_priority", orderBy(priorityFirst))
	s.Scope(DefaultOrderScope, orderBy(func(a, b *domain.Resource) bool {
		if a.PriorityFlag != b.PriorityFlag {
			return a.PriorityFlag
		}
		return newerFirst(a, b)
	}))
	return s
}

// keep builds a scope that retains records satisfying pred, preserving
// order.
func keep(pred func(*domain.Resource) bool) filter.Scope[*domain.Resource] {
	return func(records []*domain.Resource) []*domain.Resource {
		out := records[:0:0]
		for _, r := range records {
			if pred(r) {
				out = append(out, r)
			}
		}
		return out
	}
}

// orderBy builds a scope that returns a sorted copy of the records.
func orderBy(less func(a, b *domain.Resource) bool) filter.Scope[*domain.Resource] {
	return func(records []*domain.Resource) []*domain.Resource {
		out := make([]*domain.Resource, len(records))
		copy(out, records)
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		return out
	}
}

func newerFirst(a, b *domain.Resource) bool { return a.CreatedAt.After(b.CreatedAt) }

func priorityFirst(a, b *domain.Resource) bool { return a.PriorityFlag && !b.PriorityFlag }

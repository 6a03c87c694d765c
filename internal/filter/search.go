package filter

import (
	"sort"
	"strings"

	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
)

// Predicate decides whether a record matches the terms of one filter field.
type Predicate[T any] func(record T, terms []string) bool

// Scope is an opaque collection transform registered under a name: a
// boolean-returning filter, an ordering, or both. Scopes never mutate their
// input.
type Scope[T any] func(records []T) []T

// Schema registers the filter fields and named scopes a collection supports.
// Registration happens once at wiring time; searches only read it.
type Schema[T any] struct {
	fields map[string]Predicate[T]
	scopes map[string]Scope[T]
}

// NewSchema creates an empty schema.
func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{
		fields: map[string]Predicate[T]{},
		scopes: map[string]Scope[T]{},
	}
}

// Field registers a predicate under a filter key. Returns the schema for
// chaining.
func (s *Schema[T]) Field(name string, p Predicate[T]) *Schema[T] {
	s.fields[name] = p
	return s
}

// Scope registers a named collection transform. Returns the schema for
// chaining.
func (s *Schema[T]) Scope(name string, sc Scope[T]) *Schema[T] {
	s.scopes[name] = sc
	return s
}

// HasScope reports whether the named scope is registered.
func (s *Schema[T]) HasScope(name string) bool {
	_, ok := s.scopes[name]
	return ok
}

// ApplyScope runs the named scope over records, returning records unchanged
// when the scope is unknown.
func (s *Schema[T]) ApplyScope(name string, records []T) []T {
	if sc, ok := s.scopes[name]; ok {
		return sc(records)
	}
	return records
}

// Search applies a filter specification to a pre-scoped base collection.
// Read-only: the base slice is never mutated. An unrecognized key fails the
// whole search with InvalidFilterFieldError; keys are never silently
// dropped.
type Search[T any] struct {
	schema *Schema[T]
	params Params
	base   []T
}

// NewSearch builds a search over base. The base must already be restricted
// to the caller's tenant and visibility.
func NewSearch[T any](schema *Schema[T], params Params, base []T) *Search[T] {
	return &Search[T]{schema: schema, params: params, base: base}
}

// Result runs the search: field predicates first, then enabled scopes in
// deterministic (sorted key) order.
func (s *Search[T]) Result() ([]T, error) {
	keys := make([]string, 0, len(s.params))
	for k := range s.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]T, len(s.base))
	copy(records, s.base)

	var scopes []string
	for _, key := range keys {
		value := s.params[key]
		if pred, ok := s.schema.fields[key]; ok {
			records = applyPredicate(records, pred, terms(value))
			continue
		}
		if s.schema.HasScope(key) {
			if truthy(value) {
				scopes = append(scopes, key)
			}
			continue
		}
		return nil, &domerrors.InvalidFilterFieldError{Field: key}
	}
	for _, name := range scopes {
		records = s.schema.ApplyScope(name, records)
	}
	return records, nil
}

func applyPredicate[T any](records []T, pred Predicate[T], terms []string) []T {
	out := records[:0:0]
	for _, r := range records {
		if pred(r, terms) {
			out = append(out, r)
		}
	}
	return out
}

// Eq builds an exact-match predicate over one string field. Matches when any
// term equals the field.
func Eq[T any](get func(T) string) Predicate[T] {
	return func(record T, terms []string) bool {
		v := get(record)
		for _, t := range terms {
			if v == t {
				return true
			}
		}
		return len(terms) == 0
	}
}

// Contains builds a case-sensitive substring predicate: the record matches
// when any field value contains any term.
func Contains[T any](getters ...func(T) string) Predicate[T] {
	return matchTerms(getters, strings.Contains, anyTerm)
}

// ContainsFold is Contains with case-insensitive comparison.
func ContainsFold[T any](getters ...func(T) string) Predicate[T] {
	return matchTerms(getters, containsFold, anyTerm)
}

// ContainsAll matches when every term is contained in at least one of the
// field values (case-insensitive). Used for _cont_all multi-term filters.
func ContainsAll[T any](getters ...func(T) string) Predicate[T] {
	return matchTerms(getters, containsFold, everyTerm)
}

type termMode int

const (
	anyTerm termMode = iota
	everyTerm
)

func matchTerms[T any](getters []func(T) string, contains func(string, string) bool, mode termMode) Predicate[T] {
	return func(record T, terms []string) bool {
		if len(terms) == 0 {
			return true
		}
		for _, term := range terms {
			found := false
			for _, get := range getters {
				if contains(get(record), term) {
					found = true
					break
				}
			}
			if mode == anyTerm && found {
				return true
			}
			if mode == everyTerm && !found {
				return false
			}
		}
		return mode == everyTerm
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

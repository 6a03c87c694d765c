// Package filter turns raw query parameters into tenant-scoped, paginated
// record sets: a parameter normalizer, a predicate/scope search, a paginator
// that produces navigation link descriptors, and the RecordFilter that
// composes the three.
package filter

import (
	"regexp"
)

// Params is a normalized filter specification: field name to value, with
// named scopes expanded to boolean entries. Treated as immutable once built.
type Params map[string]any

// ScopeKey is the reserved key whose values expand into boolean scope
// entries during normalization.
const ScopeKey = "scope"

var (
	multiTermKey  = regexp.MustCompile(`_(cont_all|any)$`)
	termSeparator = regexp.MustCompile(`[\s,]+`)
)

// Normalize builds a filter specification from raw request parameters.
// Values of multi-term keys (suffix _cont_all or _any) are split into tokens
// on whitespace or comma. The reserved scope key is removed and each named
// scope becomes a boolean-true entry under its own key. Pure transformation;
// unknown keys are not rejected here but by the search that consumes the
// result.
func Normalize(raw map[string]any) Params {
	params := make(Params, len(raw))
	for key, value := range raw {
		if key == ScopeKey {
			for _, scope := range stringValues(value) {
				if scope != "" {
					params[scope] = true
				}
			}
			continue
		}
		if multiTermKey.MatchString(key) {
			params[key] = splitTerms(value)
			continue
		}
		params[key] = value
	}
	return params
}

// Empty reports whether the specification has no entries.
func (p Params) Empty() bool { return len(p) == 0 }

// clone returns a shallow copy, used when link builders merge page numbers.
func (p Params) clone() Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

func splitTerms(value any) []string {
	var terms []string
	for _, v := range stringValues(value) {
		for _, t := range termSeparator.Split(v, -1) {
			if t != "" {
				terms = append(terms, t)
			}
		}
	}
	return terms
}

// stringValues coerces a raw parameter value into a string slice: scalars
// become one-element slices, slices keep their order.
func stringValues(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// terms coerces a param value into search terms for a field predicate.
func terms(value any) []string {
	if vs := stringValues(value); vs != nil {
		return vs
	}
	return nil
}

// truthy reports whether a scope entry is enabled. Normalization writes
// boolean trues; raw params may still carry "true"/"1" strings.
func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

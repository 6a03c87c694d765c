package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResourceLinkID is a value object for resource link identity.
type ResourceLinkID struct{ uuid.UUID }

// NewResourceLinkID creates a new ResourceLinkID from uuid.
func NewResourceLinkID(id uuid.UUID) ResourceLinkID { return ResourceLinkID{UUID: id} }

// String returns the canonical string form.
func (r ResourceLinkID) String() string { return r.UUID.String() }

// Verb describes the relationship a link's subject resource bears to its
// object resource, using the Dublin Core relation vocabulary.
type Verb string

// The closed verb dictionary. Every verb maps to its reverse and the mapping
// is an involution: Reverse(Reverse(v)) == v.
var reverseVerbs = map[Verb]Verb{
	"hasFormat":      "isFormatOf",
	"isFormatOf":     "hasFormat",
	"hasPart":        "isPartOf",
	"isPartOf":       "hasPart",
	"hasVersion":     "isVersionOf",
	"isVersionOf":    "hasVersion",
	"references":     "isReferencedBy",
	"isReferencedBy": "references",
	"replaces":       "isReplacedBy",
	"isReplacedBy":   "replaces",
	"requires":       "isRequiredBy",
	"isRequiredBy":   "requires",
}

// Verbs returns every verb in the dictionary.
func Verbs() []Verb {
	verbs := make([]Verb, 0, len(reverseVerbs))
	for v := range reverseVerbs {
		verbs = append(verbs, v)
	}
	return verbs
}

// Valid reports whether the verb is in the dictionary.
func (v Verb) Valid() bool {
	_, ok := reverseVerbs[v]
	return ok
}

// Reverse returns the verb describing the same link from the object
// resource's perspective. Unknown verbs reverse to themselves.
func (v Verb) Reverse() Verb {
	if rv, ok := reverseVerbs[v]; ok {
		return rv
	}
	return v
}

// ValidateVerbDictionary checks that the verb dictionary is a true
// involution. Called once at startup; a failure is a programming error.
func ValidateVerbDictionary() error {
	for verb, reverse := range reverseVerbs {
		back, ok := reverseVerbs[reverse]
		if !ok {
			return fmt.Errorf("verb %q reverses to %q, which is not in the dictionary", verb, reverse)
		}
		if back != verb {
			return fmt.Errorf("verb %q does not reverse back: %q -> %q -> %q", verb, verb, reverse, back)
		}
	}
	return nil
}

// ResourceSummary carries the fields of a linked resource needed to present
// a relationship without loading the full aggregate.
type ResourceSummary struct {
	ID         ResourceID
	Identifier string
	Title      string
}

// ResourceLink is a typed, directed connection between two resources within
// an organization. The verb is given from the subject's perspective; the
// object sees the reverse verb.
type ResourceLink struct {
	ID                ResourceLinkID
	SubjectResourceID ResourceID
	ObjectResourceID  ResourceID
	Verb              Verb
	SubjectResource   ResourceSummary
	ObjectResource    ResourceSummary
	CreatedAt         time.Time
}

package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSetHostURIs(t *testing.T) {
	var r Resource
	r.SetHostURIs("https://example.org/a\nhttps://example.org/b\r\n\r\nhttps://example.org/c\n")
	assert.Equal(t, []string{
		"https://example.org/a",
		"https://example.org/b",
		"https://example.org/c",
	}, r.HostURIs)

	r.SetHostURIs("")
	assert.Empty(t, r.HostURIs)
}

func TestLabel(t *testing.T) {
	r := Resource{Title: "Lion resting", Identifier: "lion-resting"}
	assert.Equal(t, "Lion resting (lion-resting)", r.Label())
}

func TestViewable(t *testing.T) {
	r := Resource{ResourceType: TypeImage, SourceURI: "https://example.org/lion.jpg"}
	assert.True(t, r.Viewable())

	r.SourceURI = ""
	assert.False(t, r.Viewable())

	r = Resource{ResourceType: TypeText, SourceURI: "https://example.org/doc"}
	assert.False(t, r.Viewable())

	r = Resource{ResourceType: TypeMovingImage, SourceURI: "https://example.org/clip"}
	assert.True(t, r.Viewable())
}

func TestResourceTypeValid(t *testing.T) {
	assert.True(t, TypeImage.Valid())
	assert.True(t, TypePhysicalObject.Valid())
	assert.False(t, ResourceType("painting").Valid())
	assert.False(t, ResourceType("").Valid())
}

func TestDerivedPredicates(t *testing.T) {
	r := Resource{OrganizationMetumCount: 2}
	assert.True(t, r.Unrepresented())
	assert.False(t, r.Represented())
	assert.True(t, r.Unassigned())
	assert.False(t, r.Complete())
	assert.False(t, r.PartiallyComplete())
	assert.False(t, r.Approved())

	r.Representations = []Representation{{Status: RepresentationApproved}}
	assert.True(t, r.Represented())
	assert.True(t, r.PartiallyComplete())
	assert.False(t, r.Complete())

	r.Representations = append(r.Representations, Representation{Status: RepresentationNotApproved})
	assert.True(t, r.Complete())
	assert.False(t, r.PartiallyComplete())
	assert.False(t, r.Approved())

	r.Representations[1].Status = RepresentationApproved
	assert.True(t, r.Approved())
}

func TestStatusesOrder(t *testing.T) {
	r := Resource{
		PriorityFlag:           true,
		OrganizationMetumCount: 2,
		Representations:        []Representation{{}},
	}
	assert.Equal(t, []Status{
		StatusUrgent,
		StatusRepresented,
		StatusUnassigned,
		StatusPartiallyComplete,
	}, r.Statuses())

	plain := Resource{OrganizationMetumCount: 2}
	assert.Equal(t, []Status{StatusUnrepresented, StatusUnassigned}, plain.Statuses())
}

func TestWebhookEnabled(t *testing.T) {
	r := Resource{Groups: []ResourceGroup{{Title: "Web"}}}
	assert.False(t, r.WebhookEnabled())

	r.Groups = append(r.Groups, ResourceGroup{Title: "Exhibits", WebhookURI: "https://example.org/hook"})
	assert.True(t, r.WebhookEnabled())
}

func TestContentChangedWatchedFields(t *testing.T) {
	base := func() Resource {
		ord := 3
		return Resource{
			Identifier:   "lion-1",
			Title:        "Lion",
			ResourceType: TypeImage,
			CanonicalID:  uuid.NewString(),
			SourceURI:    "https://example.org/lion.jpg",
			HostURIs:     []string{"https://example.org/page"},
			PriorityFlag: false,
			Ordinality:   &ord,
		}
	}

	prev := base()
	curr := base()
	curr.CanonicalID = prev.CanonicalID
	assert.False(t, curr.ContentChanged(&prev))

	// creation always counts as a change
	assert.True(t, curr.ContentChanged(nil))

	mutations := map[string]func(*Resource){
		"identifier":    func(r *Resource) { r.Identifier = "lion-2" },
		"title":         func(r *Resource) { r.Title = "Lioness" },
		"resource_type": func(r *Resource) { r.ResourceType = TypeText },
		"canonical_id":  func(r *Resource) { r.CanonicalID = uuid.NewString() },
		"source_uri":    func(r *Resource) { r.SourceURI = "https://example.org/other.jpg" },
		"priority_flag": func(r *Resource) { r.PriorityFlag = true },
		"host_uris":     func(r *Resource) { r.HostURIs = append(r.HostURIs, "https://example.org/extra") },
		"ordinality":    func(r *Resource) { n := 9; r.Ordinality = &n },
	}
	for field, mutate := range mutations {
		prev := base()
		curr := base()
		curr.CanonicalID = prev.CanonicalID
		mutate(&curr)
		assert.True(t, curr.ContentChanged(&prev), field)
	}
}

func TestContentChangedIgnoresUnwatchedState(t *testing.T) {
	prev := Resource{Identifier: "lion-1", Title: "Lion"}
	curr := prev
	curr.AssignmentCount = 4
	curr.Representations = []Representation{{}}
	assert.False(t, curr.ContentChanged(&prev))
}

func TestContentChangedNilOrdinality(t *testing.T) {
	n := 1
	prev := Resource{Ordinality: nil}
	curr := Resource{Ordinality: &n}
	assert.True(t, curr.ContentChanged(&prev))

	curr.Ordinality = nil
	assert.False(t, curr.ContentChanged(&prev))
}

func TestRelatedResources(t *testing.T) {
	subject := NewResourceID(uuid.New())
	object := NewResourceID(uuid.New())
	inboundSubject := NewResourceID(uuid.New())

	r := Resource{
		ID: subject,
		SubjectLinks: []ResourceLink{{
			SubjectResourceID: subject,
			ObjectResourceID:  object,
			Verb:              Verb("hasPart"),
			ObjectResource:    ResourceSummary{ID: object, Identifier: "page-2"},
		}},
		ObjectLinks: []ResourceLink{{
			SubjectResourceID: inboundSubject,
			ObjectResourceID:  subject,
			Verb:              Verb("hasVersion"),
			SubjectResource:   ResourceSummary{ID: inboundSubject, Identifier: "edition-1"},
		}},
	}

	related := r.RelatedResources()
	assert.Len(t, related, 2)
	assert.Equal(t, Verb("hasPart"), related[0].Verb)
	assert.Equal(t, "page-2", related[0].Resource.Identifier)
	// inbound links carry the reverse verb
	assert.Equal(t, Verb("isVersionOf"), related[1].Verb)
	assert.Equal(t, "edition-1", related[1].Resource.Identifier)
}

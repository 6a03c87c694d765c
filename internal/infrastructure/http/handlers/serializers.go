package handlers

import (
	"time"

	"github.com/llinneaa/coyote/internal/domain"
)

const timeFormat = time.RFC3339

type resourceResponse struct {
	ID              string                   `json:"id"`
	Identifier      string                   `json:"identifier"`
	CanonicalID     string                   `json:"canonical_id"`
	Title           string                   `json:"title"`
	Label           string                   `json:"label"`
	ResourceType    string                   `json:"resource_type"`
	SourceURI       string                   `json:"source_uri,omitempty"`
	HostURIs        []string                 `json:"host_uris,omitempty"`
	PriorityFlag    bool                     `json:"priority_flag"`
	Ordinality      *int                     `json:"ordinality,omitempty"`
	Statuses        []string                 `json:"statuses"`
	Viewable        bool                     `json:"viewable"`
	Representations []representationResponse `json:"representations"`
	ResourceGroups  []resourceGroupResponse  `json:"resource_groups"`
	Related         []relatedResourceResponse `json:"related_resources,omitempty"`
	CreatedAt       string                   `json:"created_at"`
	UpdatedAt       string                   `json:"updated_at"`
}

type representationResponse struct {
	ID          string `json:"id"`
	AuthorID    string `json:"author_id"`
	EndpointID  string `json:"endpoint_id"`
	LicenseID   string `json:"license_id"`
	MetumID     string `json:"metum_id"`
	Text        string `json:"text,omitempty"`
	Language    string `json:"language,omitempty"`
	ContentURI  string `json:"content_uri,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Ordinality  *int   `json:"ordinality,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type resourceGroupResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Default    bool   `json:"default"`
	WebhookURI string `json:"webhook_uri,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type relatedResourceResponse struct {
	Verb       string `json:"verb"`
	ResourceID string `json:"resource_id"`
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

func newResourceResponse(resource *domain.Resource) resourceResponse {
	statuses := resource.Statuses()
	statusStrings := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrings = append(statusStrings, string(s))
	}
	reps := make([]representationResponse, 0, len(resource.Representations))
	for _, rep := range resource.Representations {
		reps = append(reps, newRepresentationResponse(rep))
	}
	groups := make([]resourceGroupResponse, 0, len(resource.Groups))
	for _, g := range resource.Groups {
		groups = append(groups, newResourceGroupResponse(&g))
	}
	var related []relatedResourceResponse
	for _, rel := range resource.RelatedResources() {
		related = append(related, relatedResourceResponse{
			Verb:       string(rel.Verb),
			ResourceID: rel.Resource.ID.String(),
			Identifier: rel.Resource.Identifier,
			Title:      rel.Resource.Title,
		})
	}
	return resourceResponse{
		ID:              resource.ID.String(),
		Identifier:      resource.Identifier,
		CanonicalID:     resource.CanonicalID,
		Title:           resource.Title,
		Label:           resource.Label(),
		ResourceType:    string(resource.ResourceType),
		SourceURI:       resource.SourceURI,
		HostURIs:        resource.HostURIs,
		PriorityFlag:    resource.PriorityFlag,
		Ordinality:      resource.Ordinality,
		Statuses:        statusStrings,
		Viewable:        resource.Viewable(),
		Representations: reps,
		ResourceGroups:  groups,
		Related:         related,
		CreatedAt:       resource.CreatedAt.Format(timeFormat),
		UpdatedAt:       resource.UpdatedAt.Format(timeFormat),
	}
}

func newRepresentationResponse(rep domain.Representation) representationResponse {
	return representationResponse{
		ID:          rep.ID.String(),
		AuthorID:    rep.AuthorID.String(),
		EndpointID:  rep.EndpointID.String(),
		LicenseID:   rep.LicenseID.String(),
		MetumID:     rep.MetumID.String(),
		Text:        rep.Text,
		Language:    rep.Language,
		ContentURI:  rep.ContentURI,
		ContentType: rep.ContentType,
		Notes:       rep.Notes,
		Ordinality:  rep.Ordinality,
		Status:      string(rep.Status),
		CreatedAt:   rep.CreatedAt.Format(timeFormat),
		UpdatedAt:   rep.UpdatedAt.Format(timeFormat),
	}
}

func newResourceGroupResponse(g *domain.ResourceGroup) resourceGroupResponse {
	return resourceGroupResponse{
		ID:         g.ID.String(),
		Title:      g.Title,
		Default:    g.Default,
		WebhookURI: g.WebhookURI,
		CreatedAt:  g.CreatedAt.Format(timeFormat),
		UpdatedAt:  g.UpdatedAt.Format(timeFormat),
	}
}

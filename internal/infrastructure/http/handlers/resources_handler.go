package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/application/resources"
	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/filter"
	"github.com/llinneaa/coyote/internal/infrastructure/http/middleware"
	"github.com/llinneaa/coyote/internal/policy"
)

// ResourcesHandler handles /resources/*. Tenant and actor middleware run
// before it; every action re-checks the permission table.
type ResourcesHandler struct {
	list      *resources.ListResources
	create    *resources.CreateResource
	update    *resources.UpdateResource
	delete    *resources.DeleteResource
	resources ports.ResourceRepository
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewResourcesHandler creates the resources handler.
func NewResourcesHandler(list *resources.ListResources, create *resources.CreateResource, update *resources.UpdateResource, del *resources.DeleteResource, repo ports.ResourceRepository, log zerolog.Logger) *ResourcesHandler {
	return &ResourcesHandler{
		list:      list,
		create:    create,
		update:    update,
		delete:    del,
		resources: repo,
		validate:  validator.New(),
		log:       log,
	}
}

// Index handles GET /resources. Filter keys arrive as q[...] query
// parameters; page and per_page control pagination. Responds with
// { "records": [...], "links": {...}, "total_count": n }.
func (h *ResourcesHandler) Index(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResource, policy.ActionIndex)
	if !ok {
		return
	}
	rawFilter, rawPage := splitQuery(r)
	out, err := h.list.Do(r.Context(), org.ID, rawFilter, rawPage, resources.ViewAPI)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	records := make([]resourceResponse, 0, len(out.Records))
	for _, resource := range out.Records {
		records = append(records, newResourceResponse(resource))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records":     records,
		"links":       linkQueries(out.Links),
		"total_count": out.TotalCount,
	})
}

// Show handles GET /resources/{id}.
func (h *ResourcesHandler) Show(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResource, policy.ActionShow)
	if !ok {
		return
	}
	id, ok := resourceIDParam(w, r)
	if !ok {
		return
	}
	resource, err := h.resources.GetByID(r.Context(), org.ID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newResourceResponse(resource))
}

type representationRequest struct {
	AuthorID    string `json:"author_id"`
	EndpointID  string `json:"endpoint_id"`
	Endpoint    string `json:"endpoint"`
	LicenseID   string `json:"license_id"`
	License     string `json:"license"`
	MetumID     string `json:"metum_id"`
	Metum       string `json:"metum"`
	Text        string `json:"text"`
	Language    string `json:"language"`
	ContentURI  string `json:"content_uri"`
	ContentType string `json:"content_type"`
	Notes       string `json:"notes"`
	Ordinality  *int   `json:"ordinality"`
	Status      string `json:"status"`
}

type createResourceRequest struct {
	Title            string                  `json:"title" validate:"max=2048"`
	ResourceType     string                  `json:"resource_type" validate:"required"`
	Identifier       string                  `json:"identifier" validate:"max=512"`
	CanonicalID      string                  `json:"canonical_id" validate:"max=512"`
	SourceURI        string                  `json:"source_uri" validate:"max=2048"`
	HostURIs         string                  `json:"host_uris"`
	PriorityFlag     bool                    `json:"priority_flag"`
	Ordinality       *int                    `json:"ordinality"`
	ResourceGroupIDs []string                `json:"resource_group_ids"`
	Representations  []representationRequest `json:"representations"`
}

// Create handles POST /resources.
func (h *ResourcesHandler) Create(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResource, policy.ActionCreate)
	if !ok {
		return
	}
	var body createResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	input := resources.CreateResourceInput{
		OrganizationID: org.ID,
		Title:          strings.TrimSpace(body.Title),
		ResourceType:   domain.ResourceType(body.ResourceType),
		Identifier:     strings.TrimSpace(body.Identifier),
		CanonicalID:    strings.TrimSpace(body.CanonicalID),
		SourceURI:      strings.TrimSpace(body.SourceURI),
		HostURIs:       body.HostURIs,
		PriorityFlag:   body.PriorityFlag,
		Ordinality:     body.Ordinality,
	}
	for _, raw := range body.ResourceGroupIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid resource group id")
			return
		}
		input.ResourceGroupIDs = append(input.ResourceGroupIDs, domain.NewResourceGroupID(id))
	}
	for _, rep := range body.Representations {
		in, err := representationInput(rep)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", err.Error())
			return
		}
		input.Representations = append(input.Representations, in)
	}
	resource, err := h.create.Do(r.Context(), input)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newResourceResponse(resource))
}

type updateResourceRequest struct {
	Title           *string `json:"title"`
	ResourceType    *string `json:"resource_type"`
	Identifier      *string `json:"identifier"`
	CanonicalID     *string `json:"canonical_id"`
	SourceURI       *string `json:"source_uri"`
	HostURIs        *string `json:"host_uris"`
	PriorityFlag    *bool   `json:"priority_flag"`
	Ordinality      *int    `json:"ordinality"`
	ClearOrdinality bool    `json:"clear_ordinality"`
	ResourceGroupID *string `json:"resource_group_id"`
}

// Update handles PATCH /resources/{id}.
func (h *ResourcesHandler) Update(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResource, policy.ActionUpdate)
	if !ok {
		return
	}
	id, ok := resourceIDParam(w, r)
	if !ok {
		return
	}
	var body updateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	input := resources.UpdateResourceInput{
		Title:           body.Title,
		Identifier:      body.Identifier,
		CanonicalID:     body.CanonicalID,
		SourceURI:       body.SourceURI,
		HostURIs:        body.HostURIs,
		PriorityFlag:    body.PriorityFlag,
		Ordinality:      body.Ordinality,
		ClearOrdinality: body.ClearOrdinality,
	}
	if body.ResourceType != nil {
		rt := domain.ResourceType(*body.ResourceType)
		input.ResourceType = &rt
	}
	if body.ResourceGroupID != nil {
		gid, err := uuid.Parse(*body.ResourceGroupID)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "", "invalid resource group id")
			return
		}
		g := domain.NewResourceGroupID(gid)
		input.ResourceGroupID = &g
	}
	resource, err := h.update.Do(r.Context(), org.ID, id, input)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newResourceResponse(resource))
}

// Destroy handles DELETE /resources/{id}.
func (h *ResourcesHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResource, policy.ActionDestroy)
	if !ok {
		return
	}
	id, ok := resourceIDParam(w, r)
	if !ok {
		return
	}
	if err := h.delete.Do(r.Context(), org.ID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func resourceIDParam(w http.ResponseWriter, r *http.Request) (domain.ResourceID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid resource id")
		return domain.ResourceID{}, false
	}
	return domain.NewResourceID(id), true
}

func representationInput(rep representationRequest) (resources.RepresentationInput, error) {
	in := resources.RepresentationInput{
		Endpoint:    rep.Endpoint,
		License:     rep.License,
		Metum:       rep.Metum,
		Text:        rep.Text,
		Language:    rep.Language,
		ContentURI:  rep.ContentURI,
		ContentType: rep.ContentType,
		Notes:       rep.Notes,
		Ordinality:  rep.Ordinality,
		Status:      domain.RepresentationStatus(rep.Status),
	}
	if rep.AuthorID != "" {
		id, err := uuid.Parse(rep.AuthorID)
		if err != nil {
			return in, errInvalidID("author_id")
		}
		a := domain.NewUserID(id)
		in.AuthorID = &a
	}
	if rep.EndpointID != "" {
		id, err := uuid.Parse(rep.EndpointID)
		if err != nil {
			return in, errInvalidID("endpoint_id")
		}
		e := domain.NewEndpointID(id)
		in.EndpointID = &e
	}
	if rep.LicenseID != "" {
		id, err := uuid.Parse(rep.LicenseID)
		if err != nil {
			return in, errInvalidID("license_id")
		}
		l := domain.NewLicenseID(id)
		in.LicenseID = &l
	}
	if rep.MetumID != "" {
		id, err := uuid.Parse(rep.MetumID)
		if err != nil {
			return in, errInvalidID("metum_id")
		}
		m := domain.NewMetumID(id)
		in.MetumID = &m
	}
	return in, nil
}

type invalidIDError struct{ field string }

func (e invalidIDError) Error() string { return "invalid " + e.field }

func errInvalidID(field string) error { return invalidIDError{field: field} }

// splitQuery separates filter parameters from pagination parameters.
// Filters arrive Rails-style as q[field]=value; page and per_page stand
// alone. Repeated q keys become a slice so multi-term predicates see every
// value.
func splitQuery(r *http.Request) (map[string]any, map[string]any) {
	rawFilter := make(map[string]any)
	rawPage := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "page", "per_page", "size":
			rawPage[key] = values[0]
			continue
		}
		if field, ok := filterKey(key); ok {
			if len(values) == 1 {
				rawFilter[field] = values[0]
			} else {
				rawFilter[field] = values
			}
		}
	}
	return rawFilter, rawPage
}

// filterKey extracts field from "q[field]" (also accepting the unbracketed
// repeated form "q[field][]").
func filterKey(key string) (string, bool) {
	if !strings.HasPrefix(key, "q[") {
		return "", false
	}
	rest := strings.TrimPrefix(key, "q[")
	end := strings.Index(rest, "]")
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}

// linkQueries renders pagination link parameter sets as flat query strings
// keyed by link name.
func linkQueries(links map[string]filter.Params) map[string]map[string]any {
	out := make(map[string]map[string]any, len(links))
	for name, params := range links {
		out[name] = map[string]any(params)
	}
	return out
}

// requireOrgActor pulls the organization and actor from context and runs the
// policy check. A false return means the response is already written.
func requireOrgActor(w http.ResponseWriter, r *http.Request, kind policy.Kind, action policy.Action) (*domain.Organization, policy.Actor, bool) {
	org := middleware.OrganizationFromContext(r.Context())
	if org == nil {
		writeErr(w, http.StatusUnauthorized, "", "organization not resolved")
		return nil, policy.Actor{}, false
	}
	actor := middleware.ActorFromContext(r.Context())
	if !policy.Can(actor, policy.Target{Kind: kind}, action) {
		writeErr(w, http.StatusForbidden, "", "forbidden")
		return nil, policy.Actor{}, false
	}
	return org, actor, true
}

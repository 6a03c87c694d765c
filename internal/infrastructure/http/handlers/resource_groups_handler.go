package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/groups"
	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/policy"
)

// ResourceGroupsHandler handles /resource_groups/*.
type ResourceGroupsHandler struct {
	create   *groups.CreateGroup
	delete   *groups.DeleteGroup
	groups   ports.ResourceGroupRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewResourceGroupsHandler creates the resource groups handler.
func NewResourceGroupsHandler(create *groups.CreateGroup, del *groups.DeleteGroup, repo ports.ResourceGroupRepository, log zerolog.Logger) *ResourceGroupsHandler {
	return &ResourceGroupsHandler{
		create:   create,
		delete:   del,
		groups:   repo,
		validate: validator.New(),
		log:      log,
	}
}

// Index handles GET /resource_groups.
func (h *ResourceGroupsHandler) Index(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResourceGroup, policy.ActionIndex)
	if !ok {
		return
	}
	list, err := h.groups.ListByOrganization(r.Context(), org.ID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	records := make([]resourceGroupResponse, 0, len(list))
	for _, g := range list {
		records = append(records, newResourceGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// Show handles GET /resource_groups/{id}.
func (h *ResourceGroupsHandler) Show(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResourceGroup, policy.ActionShow)
	if !ok {
		return
	}
	id, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	group, err := h.groups.GetByID(r.Context(), org.ID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newResourceGroupResponse(group))
}

type createGroupRequest struct {
	Title      string `json:"title" validate:"required,max=512"`
	WebhookURI string `json:"webhook_uri" validate:"omitempty,url,max=2048"`
}

// Create handles POST /resource_groups.
func (h *ResourceGroupsHandler) Create(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResourceGroup, policy.ActionCreate)
	if !ok {
		return
	}
	var body createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	group, err := h.create.Do(r.Context(), groups.CreateGroupInput{
		OrganizationID: org.ID,
		Title:          strings.TrimSpace(body.Title),
		WebhookURI:     strings.TrimSpace(body.WebhookURI),
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newResourceGroupResponse(group))
}

// Destroy handles DELETE /resource_groups/{id}. The default group and
// non-empty groups are refused.
func (h *ResourceGroupsHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindResourceGroup, policy.ActionDestroy)
	if !ok {
		return
	}
	id, ok := groupIDParam(w, r)
	if !ok {
		return
	}
	if err := h.delete.Do(r.Context(), org.ID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func groupIDParam(w http.ResponseWriter, r *http.Request) (domain.ResourceGroupID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid resource group id")
		return domain.ResourceGroupID{}, false
	}
	return domain.NewResourceGroupID(id), true
}

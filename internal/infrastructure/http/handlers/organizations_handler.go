package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/policy"
)

// OrganizationsHandler handles the current organization's endpoints. The
// organization always comes from the resolved API token, never from the
// path, so one tenant can never read another.
type OrganizationsHandler struct {
	organizations ports.OrganizationRepository
	log           zerolog.Logger
}

// NewOrganizationsHandler creates the organizations handler.
func NewOrganizationsHandler(organizations ports.OrganizationRepository, log zerolog.Logger) *OrganizationsHandler {
	return &OrganizationsHandler{organizations: organizations, log: log}
}

type organizationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type membershipResponse struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

// Show handles GET /organization.
func (h *OrganizationsHandler) Show(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindOrganization, policy.ActionShow)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, organizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		CreatedAt: org.CreatedAt.Format(timeFormat),
		UpdatedAt: org.UpdatedAt.Format(timeFormat),
	})
}

// Memberships handles GET /organization/memberships.
func (h *OrganizationsHandler) Memberships(w http.ResponseWriter, r *http.Request) {
	org, _, ok := requireOrgActor(w, r, policy.KindMembership, policy.ActionIndex)
	if !ok {
		return
	}
	memberships, err := h.organizations.ListMemberships(r.Context(), org.ID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	records := make([]membershipResponse, 0, len(memberships))
	for _, m := range memberships {
		records = append(records, newMembershipResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func newMembershipResponse(m *domain.Membership) membershipResponse {
	return membershipResponse{
		UserID:    m.UserID.String(),
		Role:      string(m.Role),
		Active:    m.Active,
		CreatedAt: m.CreatedAt.Format(timeFormat),
	}
}

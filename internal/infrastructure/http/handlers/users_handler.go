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
	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/infrastructure/http/middleware"
	"github.com/llinneaa/coyote/internal/policy"
)

// UsersHandler handles /users/*. User records follow the self rule: anyone
// signed in may view, only the user themselves (or staff) may change or
// remove the account.
type UsersHandler struct {
	users    ports.UserRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewUsersHandler creates the users handler.
func NewUsersHandler(users ports.UserRepository, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{users: users, validate: validator.New(), log: log}
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Staff     bool   `json:"staff"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newUserResponse(user *domain.User) userResponse {
	return userResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Staff:     user.Staff,
		CreatedAt: user.CreatedAt.Format(timeFormat),
		UpdatedAt: user.UpdatedAt.Format(timeFormat),
	}
}

// Show handles GET /users/{id}.
func (h *UsersHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	if !policy.Can(actor, policy.Target{Kind: policy.KindUser, UserID: id}, policy.ActionShow) {
		writeErr(w, http.StatusForbidden, "", "forbidden")
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

type updateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=254"`
}

// Update handles PATCH /users/{id}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	if !policy.Can(actor, policy.Target{Kind: policy.KindUser, UserID: id}, policy.ActionUpdate) {
		writeErr(w, http.StatusForbidden, "", "forbidden")
		return
	}
	var body updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if body.Name != nil {
		user.Name = strings.TrimSpace(*body.Name)
	}
	if body.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*body.Email))
	}
	if err := h.users.Update(r.Context(), user); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// Destroy handles DELETE /users/{id}. Staff only.
func (h *UsersHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(w, r)
	if !ok {
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	if !policy.Can(actor, policy.Target{Kind: policy.KindUser, UserID: id}, policy.ActionDestroy) {
		writeErr(w, http.StatusForbidden, "", "forbidden")
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userIDParam(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid user id")
		return domain.UserID{}, false
	}
	return domain.NewUserID(id), true
}

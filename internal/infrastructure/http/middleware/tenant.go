package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
	domerrors "github.com/llinneaa/coyote/internal/domain/errors"
	"github.com/llinneaa/coyote/internal/policy"
)

// HashAPITokenFunc hashes an API token for storage/lookup (SHA256).
type HashAPITokenFunc func(string) string

// SHA256HashAPIToken returns a function that SHA256-hashes the token (hex).
func SHA256HashAPIToken() HashAPITokenFunc {
	return func(token string) string {
		h := sha256.Sum256([]byte(token))
		return hex.EncodeToString(h[:])
	}
}

// TenantResolver validates the organization API token (X-Coyote-Token or
// Authorization: Bearer <token>) and sets the organization in context.
type TenantResolver struct {
	organizations ports.OrganizationRepository
	hashAPIToken  HashAPITokenFunc
}

func NewTenantResolver(organizations ports.OrganizationRepository, hashAPIToken HashAPITokenFunc) *TenantResolver {
	return &TenantResolver{organizations: organizations, hashAPIToken: hashAPIToken}
}

func (m *TenantResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Coyote-Token")
		if token == "" {
			if auth := r.Header.Get("Authorization"); len(auth) >= 7 && auth[:7] == "Bearer " {
				token = auth[7:]
			}
		}
		if token == "" {
			writeErrResolver(w, http.StatusUnauthorized, "missing api token")
			return
		}
		org, err := m.organizations.GetByAPITokenHash(r.Context(), m.hashAPIToken(token))
		if err != nil {
			if errors.Is(err, domerrors.ErrNotFound) {
				writeErrResolver(w, http.StatusUnauthorized, "unknown api token")
				return
			}
			writeErrResolver(w, http.StatusInternalServerError, "internal error")
			return
		}
		ctx := WithOrganization(r.Context(), org)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorResolver identifies the requesting user (X-Coyote-User, set by the
// authenticating frontend) and resolves their membership role in the
// organization already placed in context by TenantResolver. Staff users
// without a membership still get an actor; everyone else needs one.
type ActorResolver struct {
	organizations ports.OrganizationRepository
	users         ports.UserRepository
}

func NewActorResolver(organizations ports.OrganizationRepository, users ports.UserRepository) *ActorResolver {
	return &ActorResolver{organizations: organizations, users: users}
}

func (m *ActorResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		org := OrganizationFromContext(r.Context())
		if org == nil {
			writeErrResolver(w, http.StatusUnauthorized, "organization not resolved")
			return
		}
		raw := r.Header.Get("X-Coyote-User")
		if raw == "" {
			writeErrResolver(w, http.StatusUnauthorized, "missing user identity")
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			writeErrResolver(w, http.StatusUnauthorized, "invalid user identity")
			return
		}
		user, err := m.users.GetByID(r.Context(), domain.NewUserID(id))
		if err != nil {
			if errors.Is(err, domerrors.ErrNotFound) {
				writeErrResolver(w, http.StatusUnauthorized, "unknown user")
				return
			}
			writeErrResolver(w, http.StatusInternalServerError, "internal error")
			return
		}
		actor := policy.Actor{UserID: user.ID, Staff: user.Staff}
		membership, err := m.organizations.MembershipFor(r.Context(), org.ID, user.ID)
		switch {
		case err == nil:
			actor.Role = membership.Role
		case errors.Is(err, domerrors.ErrNotFound):
			if !user.Staff {
				writeErrResolver(w, http.StatusForbidden, "not a member of this organization")
				return
			}
		default:
			writeErrResolver(w, http.StatusInternalServerError, "internal error")
			return
		}
		ctx := WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeErrResolver(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

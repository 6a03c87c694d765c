package middleware

import (
	"context"

	"github.com/llinneaa/coyote/internal/domain"
	"github.com/llinneaa/coyote/internal/policy"
)

type contextKey string

const (
	organizationContextKey contextKey = "organization"
	actorContextKey        contextKey = "actor"
)

// WithOrganization injects the resolved organization into the context.
func WithOrganization(ctx context.Context, org *domain.Organization) context.Context {
	return context.WithValue(ctx, organizationContextKey, org)
}

// OrganizationFromContext returns the organization from the context, or nil.
func OrganizationFromContext(ctx context.Context) *domain.Organization {
	v := ctx.Value(organizationContextKey)
	if v == nil {
		return nil
	}
	org, _ := v.(*domain.Organization)
	return org
}

// WithActor injects the resolved actor into the context.
func WithActor(ctx context.Context, actor policy.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the actor from the context. The zero Actor is
// unauthenticated and fails every policy check.
func ActorFromContext(ctx context.Context) policy.Actor {
	v := ctx.Value(actorContextKey)
	if v == nil {
		return policy.Actor{}
	}
	actor, _ := v.(policy.Actor)
	return actor
}

package ports

import (
	"context"

	"github.com/llinneaa/coyote/internal/domain"
)

// WebhookEvent is the payload POSTed to a resource group's webhook
// endpoint when a watched field of one of its resources changes.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData identifies the changed resource. CanonicalID is the contract
// with consumers; the rest is convenience.
type WebhookData struct {
	CanonicalID  string   `json:"canonical_id"`
	Identifier   string   `json:"identifier"`
	Title        string   `json:"title"`
	ResourceType string   `json:"resource_type"`
	SourceURI    string   `json:"source_uri,omitempty"`
	HostURIs     []string `json:"host_uris,omitempty"`
}

// WebhookEmitter delivers an event to one endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, uri string, event WebhookEvent) error
}

// WebhookSource loads a resource for webhook delivery. Unlike the
// organization-scoped reads, the worker only has the resource id from the
// task payload.
type WebhookSource interface {
	ResourceForWebhook(ctx context.Context, id domain.ResourceID) (*domain.Resource, error)
}

package webhook

import (
	"context"

	"github.com/llinneaa/coyote/internal/application/ports"
)

// NoopEmitter discards events when webhook delivery is disabled.
type NoopEmitter struct{}

// NewNoopEmitter returns a WebhookEmitter that discards all events.
func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

// Emit implements ports.WebhookEmitter.
func (e *NoopEmitter) Emit(ctx context.Context, uri string, event ports.WebhookEvent) error {
	return nil
}

var _ ports.WebhookEmitter = (*NoopEmitter)(nil)

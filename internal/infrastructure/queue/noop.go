package queue

import (
	"context"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueResourceWebhook(ctx context.Context, resourceID domain.ResourceID) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)

package ports

import (
	"context"

	"github.com/llinneaa/coyote/internal/domain"
)

// TaskEnqueuer enqueues async work. Webhook delivery is fire-and-forget
// from the lifecycle's perspective; the worker owns failures.
type TaskEnqueuer interface {
	// EnqueueResourceWebhook queues a change notification for the resource.
	// Called once per change-bearing commit, after the commit.
	EnqueueResourceWebhook(ctx context.Context, resourceID domain.ResourceID) error
}

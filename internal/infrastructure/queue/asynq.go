package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
)

// TypeResourceWebhook is the task type for resource change notifications.
const TypeResourceWebhook = "webhook:resource"

// resourceWebhookPayload is the JSON carried by a TypeResourceWebhook task.
type resourceWebhookPayload struct {
	ResourceID string `json:"resource_id"`
}

// TaskEnqueuer queues async tasks on Asynq/Redis.
type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

// NewAsynqEnqueuer creates the enqueuer.
func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log}, nil
}

// Close releases the underlying client.
func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

// EnqueueResourceWebhook queues a change notification for the resource.
func (q *TaskEnqueuer) EnqueueResourceWebhook(ctx context.Context, resourceID domain.ResourceID) error {
	payload, _ := json.Marshal(resourceWebhookPayload{ResourceID: resourceID.String()})
	task := asynq.NewTask(TypeResourceWebhook, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Str("resource_id", resourceID.String()).Msg("enqueue resource webhook failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)

package queue

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/domain"
)

var webhookDeliveries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "coyote_webhook_deliveries_total",
		Help: "Resource webhook deliveries by outcome",
	},
	[]string{"outcome"},
)

// Worker runs the Asynq handlers that deliver resource webhooks. The
// lifecycle only enqueues a resource id; the worker owns payload building
// and delivery failures.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	source  ports.WebhookSource
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to
// start.
func NewWorker(redisOpt asynq.RedisClientOpt, source ports.WebhookSource, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, source: source, emitter: emitter, log: log}
	mux.HandleFunc(TypeResourceWebhook, w.handleResourceWebhook)
	return w
}

// handleResourceWebhook loads the resource and POSTs the change event to
// every webhook-enabled group it belongs to. Returning an error lets Asynq
// retry the delivery.
func (w *Worker) handleResourceWebhook(ctx context.Context, t *asynq.Task) error {
	var p resourceWebhookPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("resource webhook task payload invalid")
		return err
	}
	id, err := uuid.Parse(p.ResourceID)
	if err != nil {
		w.log.Error().Err(err).Str("resource_id", p.ResourceID).Msg("resource webhook task id invalid")
		return err
	}
	resource, err := w.source.ResourceForWebhook(ctx, domain.NewResourceID(id))
	if err != nil {
		return err
	}
	event := ports.WebhookEvent{
		Event: "resource.updated",
		Data: ports.WebhookData{
			CanonicalID:  resource.CanonicalID,
			Identifier:   resource.Identifier,
			Title:        resource.Title,
			ResourceType: string(resource.ResourceType),
			SourceURI:    resource.SourceURI,
			HostURIs:     resource.HostURIs,
		},
	}
	for _, group := range resource.Groups {
		if !group.WebhookEnabled() {
			continue
		}
		if err := w.emitter.Emit(ctx, group.WebhookURI, event); err != nil {
			webhookDeliveries.WithLabelValues("failure").Inc()
			w.log.Warn().Err(err).
				Str("resource_id", p.ResourceID).
				Str("webhook_uri", group.WebhookURI).
				Msg("webhook delivery failed")
			return err
		}
		webhookDeliveries.WithLabelValues("success").Inc()
	}
	return nil
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

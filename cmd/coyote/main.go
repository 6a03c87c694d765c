package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/llinneaa/coyote/internal/application/groups"
	"github.com/llinneaa/coyote/internal/application/ports"
	"github.com/llinneaa/coyote/internal/application/resources"
	"github.com/llinneaa/coyote/internal/config"
	"github.com/llinneaa/coyote/internal/domain"
	httprouter "github.com/llinneaa/coyote/internal/infrastructure/http"
	"github.com/llinneaa/coyote/internal/infrastructure/http/handlers"
	"github.com/llinneaa/coyote/internal/infrastructure/http/middleware"
	"github.com/llinneaa/coyote/internal/infrastructure/persistence/postgres"
	"github.com/llinneaa/coyote/internal/infrastructure/queue"
	"github.com/llinneaa/coyote/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := domain.ValidateVerbDictionary(); err != nil {
		log.Fatal().Err(err).Msg("verb dictionary invalid")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	resourceRepo := postgres.NewResourceRepository(pool)
	groupRepo := postgres.NewResourceGroupRepository(pool)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	lookupRepo := postgres.NewLookupRepository(pool)

	var emitter ports.WebhookEmitter
	if cfg.Webhook.Enabled {
		opts := []webhook.HTTPEmitterOption{}
		if cfg.Webhook.AuthHeader != "" {
			opts = append(opts, webhook.WithHeader(cfg.Webhook.AuthHeader, cfg.Webhook.AuthValue))
		}
		emitter = webhook.NewHTTPEmitter(opts...)
	} else {
		emitter = webhook.NewNoopEmitter()
	}

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		asynqOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, resourceRepo, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	defaults := resources.NewDefaults(lookupRepo)
	listUC := resources.NewListResources(resourceRepo, cfg.Pagination.PerPage, cfg.Pagination.MaxPerPage)
	createUC := resources.NewCreateResource(resourceRepo, groupRepo, defaults, taskEnqueuer, log)
	updateUC := resources.NewUpdateResource(resourceRepo, groupRepo, taskEnqueuer, log)
	deleteUC := resources.NewDeleteResource(resourceRepo)
	createGroupUC := groups.NewCreateGroup(groupRepo)
	deleteGroupUC := groups.NewDeleteGroup(groupRepo)

	tenantResolver := middleware.NewTenantResolver(organizationRepo, middleware.SHA256HashAPIToken())
	actorResolver := middleware.NewActorResolver(organizationRepo, userRepo)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.Rate)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	orgLimit, err := middleware.NewOrganizationRateLimiter(cfg.RateLimit.Rate)
	if err != nil {
		log.Fatal().Err(err).Msg("create organization rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(false))

	router := httprouter.NewRouter(httprouter.RouterConfig{
		HealthHandler:         healthHandler,
		ResourcesHandler:      handlers.NewResourcesHandler(listUC, createUC, updateUC, deleteUC, resourceRepo, log),
		ResourceGroupsHandler: handlers.NewResourceGroupsHandler(createGroupUC, deleteGroupUC, groupRepo, log),
		OrganizationsHandler:  handlers.NewOrganizationsHandler(organizationRepo, log),
		UsersHandler:          handlers.NewUsersHandler(userRepo, log),
		Tenant:                tenantResolver,
		Actor:                 actorResolver,
		Log:                   log,
		Secure:                secureMiddleware,
		IPRateLimit:           ipLimit,
		OrganizationRateLimit: orgLimit,
		Metrics:               true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}

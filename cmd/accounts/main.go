package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/litterbugs/internal/adapters/objectstore"
	"github.com/samirrijal/litterbugs/internal/adapters/postgres"
	"github.com/samirrijal/litterbugs/internal/adapters/valkey"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
	"github.com/samirrijal/litterbugs/internal/pkg/config"
	"github.com/samirrijal/litterbugs/internal/pkg/logging"
	"github.com/samirrijal/litterbugs/internal/workflows"
)

// accounts runs the Temporal worker that deletes user accounts.
func main() {
	cfg, err := config.Load("litterbugs-accounts")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	if cfg.Temporal.HostPort == "" {
		log.Fatal("temporal.host_port is required")
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer c.Close()
		cache = c
	}

	var photos ports.ObjectStore
	if cfg.Storage.Enabled() {
		store, err := objectstore.New(objectstore.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Fatalf("photo storage: %v", err)
		}
		photos = store
	}

	accounts := usecases.NewAccountService(
		postgres.NewSessionRepo(db),
		postgres.NewPublishedRouteRepo(db),
		postgres.NewMeetupRepo(db),
		postgres.NewProfileRepo(db),
		photos,
		cache,
	)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.AccountDeletionWorkflow)
	w.RegisterActivity(&workflows.AccountActivities{Accounts: accounts})

	slog.Info("accounts worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

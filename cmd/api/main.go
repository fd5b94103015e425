package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/litterbugs/internal/adapters/http"
	natsadapter "github.com/samirrijal/litterbugs/internal/adapters/nats"
	"github.com/samirrijal/litterbugs/internal/adapters/objectstore"
	"github.com/samirrijal/litterbugs/internal/adapters/postgres"
	"github.com/samirrijal/litterbugs/internal/adapters/valkey"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
	"github.com/samirrijal/litterbugs/internal/pkg/config"
	"github.com/samirrijal/litterbugs/internal/pkg/logging"
	"github.com/samirrijal/litterbugs/internal/pkg/metrics"
	"github.com/samirrijal/litterbugs/internal/pkg/telemetry"
	"github.com/samirrijal/litterbugs/internal/workflows"
)

func main() {
	cfg, err := config.Load("litterbugs-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional)
	var cache ports.CacheService
	valkeyCache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, running without cache", "error", err)
		valkeyCache = nil
	} else {
		defer valkeyCache.Close()
		cache = valkeyCache
	}

	// NATS (optional)
	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer nc.Close()
		publisher = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	// Photo storage (optional)
	var (
		photoStore ports.ObjectStore
		store      *objectstore.Store
	)
	if cfg.Storage.Enabled() {
		store, err = objectstore.New(objectstore.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err == nil {
			err = store.EnsureBucket(ctx, cfg.Storage.Region)
		}
		if err != nil {
			slog.Warn("photo storage unavailable", "error", err)
			store = nil
		} else {
			photoStore = store
		}
	}

	// Repos
	sessionRepo := postgres.NewSessionRepo(db)
	routeRepo := postgres.NewPublishedRouteRepo(db)
	meetupRepo := postgres.NewMeetupRepo(db)
	profileRepo := postgres.NewProfileRepo(db)

	// Use cases
	profileSvc := usecases.NewProfileService(profileRepo, cache)
	sessionSvc := usecases.NewSessionService(sessionRepo)
	routeSvc := usecases.NewRouteService(routeRepo, profileRepo, publisher, cache)
	meetupSvc := usecases.NewMeetupService(meetupRepo, profileRepo)
	accountSvc := usecases.NewAccountService(sessionRepo, routeRepo, meetupRepo, profileRepo, photoStore, cache)

	var photoSvc *usecases.PhotoService
	if photoStore != nil {
		photoSvc = usecases.NewPhotoService(photoStore, cfg.Storage.MaxPhotoBytes)
	}

	// Account deletion runs as a workflow when Temporal is configured
	if cfg.Temporal.HostPort != "" {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			slog.Warn("temporal unavailable, deleting accounts inline", "error", err)
		} else {
			defer tc.Close()
			accountSvc.WithStarter(workflows.NewStarter(tc, cfg.Temporal.TaskQueue))
		}
	}

	deps := &http.Dependencies{
		Profiles: profileSvc,
		Sessions: sessionSvc,
		Routes:   routeSvc,
		Meetups:  meetupSvc,
		Photos:   photoSvc,
		Accounts: accountSvc,
		NATS:     natsConn,
		DB:       db,
		Cache:    valkeyCache,
		Store:    store,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "Litter Bugs API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + http.HeaderUserID,
		ExposeHeaders:    "Link, ETag, Deprecation, Sunset",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", http.Version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/litterbugs/internal/adapters/nats"
	"github.com/samirrijal/litterbugs/internal/adapters/postgres"
	"github.com/samirrijal/litterbugs/internal/adapters/valkey"
	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
	"github.com/samirrijal/litterbugs/internal/pkg/config"
	"github.com/samirrijal/litterbugs/internal/pkg/logging"
	"github.com/samirrijal/litterbugs/internal/pkg/metrics"
	"github.com/samirrijal/litterbugs/internal/pkg/telemetry"
)

// achiever consumes route publications, updates profile totals and awards
// badges.
func main() {
	cfg, err := config.Load("litterbugs-achiever")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, leaderboard cache will expire on its own", "error", err)
	} else {
		defer c.Close()
		cache = c
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	svc := usecases.NewAchievementService(postgres.NewProfileRepo(db), pub, cache)

	err = sub.SubscribeRoutePublished(ctx, func(ctx context.Context, event *domain.RoutePublished) error {
		awarded, err := svc.ApplyPublication(ctx, event)
		if err != nil {
			return err
		}
		for _, b := range awarded {
			metrics.BadgesAwarded.WithLabelValues(b.Key).Inc()
			slog.Info("badge awarded", "user_id", event.UserID, "badge", b.Key)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("achiever started")
	<-ctx.Done()
	slog.Info("achiever stopping")
}

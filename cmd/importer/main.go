package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/litterbugs/internal/adapters/postgres"
	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
	"github.com/samirrijal/litterbugs/internal/pkg/config"
	"github.com/samirrijal/litterbugs/internal/pkg/logging"
)

// importer loads guest sessions exported from the browser into a user's
// account.
//
//	importer -user <user id> -file sessions.json
func main() {
	userID := flag.String("user", "", "user id that will own the sessions")
	file := flag.String("file", "", "JSON array of guest sessions")
	flag.Parse()

	if *userID == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load("litterbugs-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", cfg.Telemetry.ServiceName)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var guests []domain.GuestSession
	if err := json.Unmarshal(data, &guests); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	svc := usecases.NewSessionService(postgres.NewSessionRepo(db))
	report, err := svc.ImportGuestSessions(ctx, *userID, guests)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	slog.Info("import finished",
		"user_id", *userID,
		"imported", report.Imported,
		"legacy", report.Legacy,
		"skipped", report.Skipped,
	)
}

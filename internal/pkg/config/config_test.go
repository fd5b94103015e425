package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("litterbugs-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "litterbugs-test" {
		t.Errorf("expected service name from argument, got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Storage.MaxPhotoBytes != 5*1024*1024 {
		t.Errorf("expected 5 MiB photo limit, got %d", cfg.Storage.MaxPhotoBytes)
	}
	if cfg.Storage.Enabled() {
		t.Error("storage should be disabled without credentials")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LITTERBUGS_DATABASE_HOST", "db.internal")
	t.Setenv("LITTERBUGS_SERVER_PORT", "9090")

	cfg, err := Load("litterbugs-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected db.internal, got %q", cfg.Database.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected 9090, got %d", cfg.Server.Port)
	}
	if got := cfg.Database.DSN(); !strings.Contains(got, "@db.internal:5432/") {
		t.Errorf("unexpected DSN %q", got)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 0, ReadTimeout: 10, WriteTimeout: 10, BodyLimit: 1},
		Storage: StorageConfig{
			Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b", MaxPhotoBytes: 1,
		},
		Log: LogConfig{Format: "xml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "database.host", "nats.url", "storage.bucket", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
}

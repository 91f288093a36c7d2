package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/courseflow")
	t.Setenv("SUPABASE_S3_URL", "http://localhost:9000")
	t.Setenv("SUPABASE_S3_BUCKET", "course-media")
	t.Setenv("SUPABASE_S3_REGION", "local")
	t.Setenv("SUPABASE_S3_ACCESS_KEY", "key")
	t.Setenv("SUPABASE_S3_SECRET_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.MediaURLTTL != 15*time.Minute {
		t.Fatalf("expected 15m media url ttl, got %s", cfg.MediaURLTTL)
	}
	if cfg.ResolveConcurrency != 8 {
		t.Fatalf("expected resolve concurrency 8, got %d", cfg.ResolveConcurrency)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_CONNECTION_STRING is missing")
	}
}

func TestGetGCPProjectID(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "emulator uses local", cfg: Config{PubSubEmulatorHost: "localhost:8085", GCPProjectIDLocal: "local", GCPProjectID: "explicit"}, want: "local"},
		{name: "explicit project", cfg: Config{GCPProjectID: "explicit", GCPProjectIDStaging: "staging"}, want: "explicit"},
		{name: "staging preferred over prod", cfg: Config{GCPProjectIDStaging: "staging", GCPProjectIDProd: "prod"}, want: "staging"},
		{name: "prod fallback", cfg: Config{GCPProjectIDProd: "prod"}, want: "prod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.GetGCPProjectID(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.AdminToken != "secret" || cfg.HTTP.Addr != ":8080" {
		t.Errorf("http = %+v", cfg.HTTP)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("driver = %q", cfg.Store.Driver)
	}
	if cfg.Reminders.Interval != 24*time.Hour || cfg.Reminders.Schedule != "0 * * * *" {
		t.Errorf("reminders = %+v", cfg.Reminders)
	}
	if cfg.I18n.DefaultLanguage != "he" {
		t.Errorf("language = %q", cfg.I18n.DefaultLanguage)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
env: production
http:
  addr: ":9090"
store:
  driver: postgres
database:
  max_connections: 5
  max_conn_lifetime: 1m
log:
  level: warn
reminders:
  interval: 12h
  wedding_ids: [w1, w2]
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADMIN_TOKEN", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/wedding")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "production" || cfg.HTTP.Addr != ":9090" {
		t.Errorf("cfg = %+v", cfg)
	}
	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://localhost/wedding" {
		t.Errorf("DSN = %q, %v", dsn, err)
	}
	if cfg.DB.MaxConnections != 5 || cfg.DB.MaxConnLifetime != time.Minute {
		t.Errorf("db = %+v", cfg.DB)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Reminders.Interval != 12*time.Hour || len(cfg.Reminders.WeddingIDs) != 2 {
		t.Errorf("reminders = %+v", cfg.Reminders)
	}
}

func TestLoadMissingSecrets(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"no admin token", map[string]string{"ADMIN_TOKEN": ""}, ErrMissingEnvironmentVariables},
		{"postgres without url", map[string]string{
			"ADMIN_TOKEN": "x", "STORE_DRIVER": DriverPostgres, "DATABASE_URL": "",
		}, ErrMissingEnvironmentVariables},
		{"firestore without project", map[string]string{
			"ADMIN_TOKEN": "x", "STORE_DRIVER": DriverFirestore, "FIREBASE_PROJECT_ID": "",
		}, ErrMissingEnvironmentVariables},
		{"unknown driver", map[string]string{"ADMIN_TOKEN": "x", "STORE_DRIVER": "mongo"}, ErrUnknownStoreDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFrom(t.TempDir()); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

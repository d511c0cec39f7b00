package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/moonandjupiter/consign-tracker/internal/config"
)

var envKeys = []string{
	"DATA_SOURCE", "DATA_SOURCE_URL", "DATA_FILE", "DATABASE_URL", "MYSQL_DSN",
	"RECORDS_TABLE", "FETCH_TIMEOUT", "SERVER_PORT", "ALLOWED_ORIGINS",
	"SESSION_TTL", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != config.SourceHTTP || cfg.Server.Port != "8080" || cfg.Source.Timeout != 15*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	yml := `
source:
  kind: postgres
  database_url: postgres://localhost/tracker
  table: public.consign_records
  timeout: 5s
server:
  port: "9000"
  session_ttl: 10m
log:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("FETCH_TIMEOUT", "750ms")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Kind != config.SourcePostgres || cfg.Source.Table != "public.consign_records" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("env must override file: port = %q", cfg.Server.Port)
	}
	if cfg.Source.Timeout != 750*time.Millisecond || cfg.Server.SessionTTL != 10*time.Minute {
		t.Errorf("durations = %v / %v", cfg.Source.Timeout, cfg.Server.SessionTTL)
	}
}

func TestLoad_BadDurationEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "soon")
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil || !strings.Contains(err.Error(), "SESSION_TTL") {
		t.Errorf("expected SESSION_TTL error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"default http", func(c *config.Config) {}, false},
		{"http without url", func(c *config.Config) { c.Source.URL = "" }, true},
		{"file json", func(c *config.Config) { c.Source.Kind, c.Source.File = config.SourceFile, "data/records.json" }, false},
		{"file xlsx upper", func(c *config.Config) { c.Source.Kind, c.Source.File = config.SourceFile, "R.XLSX" }, false},
		{"file unsupported", func(c *config.Config) { c.Source.Kind, c.Source.File = config.SourceFile, "r.txt" }, true},
		{"postgres without url", func(c *config.Config) { c.Source.Kind = config.SourcePostgres }, true},
		{"mysql ok", func(c *config.Config) { c.Source.Kind, c.Source.MySQLDSN = config.SourceMySQL, "u:p@tcp(db)/shop" }, false},
		{"mysql injected table", func(c *config.Config) {
			c.Source.Kind, c.Source.MySQLDSN, c.Source.Table = config.SourceMySQL, "dsn", "records; DROP TABLE x"
		}, true},
		{"unknown kind", func(c *config.Config) { c.Source.Kind = "mongo" }, true},
		{"zero timeout", func(c *config.Config) { c.Source.Timeout = 0 }, true},
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *config.Config) { c.Log.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := config.NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hidden")
	log.WithField("co_no", "C1").Warn("shown")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["co_no"] != "C1" {
		t.Errorf("entry = %v", entry)
	}
}

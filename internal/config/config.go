// Package config loads tracker settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceMySQL    = "mysql"
)

// DefaultPath is the config file read when none is named.
const DefaultPath = "tracker.yaml"

// Config is the complete tracker configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig selects where raw records come from.
type SourceConfig struct {
	// Kind is one of http, file, postgres, mysql.
	Kind string `yaml:"kind"`

	URL         string        `yaml:"url"`          // http: endpoint returning a JSON array of records
	File        string        `yaml:"file"`         // file: .json, .csv or .xlsx export
	DatabaseURL string        `yaml:"database_url"` // postgres
	MySQLDSN    string        `yaml:"mysql_dsn"`    // mysql
	Table       string        `yaml:"table"`        // postgres and mysql
	Timeout     time.Duration `yaml:"timeout"`
}

// ServerConfig holds the web adapter settings.
type ServerConfig struct {
	Port           string        `yaml:"port"`
	AllowedOrigins string        `yaml:"allowed_origins"` // comma-separated; empty disables CORS
	SessionTTL     time.Duration `yaml:"session_ttl"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:    SourceHTTP,
			URL:     "http://localhost:8000/api/records",
			Table:   "consign_records",
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Port:       "8080",
			SessionTTL: 30 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. path may be empty, in which case DefaultPath is
// tried; a missing file is not an error. Environment variables override the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Source.Kind, "DATA_SOURCE")
	setString(&c.Source.URL, "DATA_SOURCE_URL")
	setString(&c.Source.File, "DATA_FILE")
	setString(&c.Source.DatabaseURL, "DATABASE_URL")
	setString(&c.Source.MySQLDSN, "MYSQL_DSN")
	setString(&c.Source.Table, "RECORDS_TABLE")
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.AllowedOrigins, "ALLOWED_ORIGINS")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	if err := setDuration(&c.Source.Timeout, "FETCH_TIMEOUT"); err != nil {
		return err
	}
	return setDuration(&c.Server.SessionTTL, "SESSION_TTL")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}(\.[A-Za-z_][A-Za-z0-9_]{0,62})?$`)

// ValidTable reports whether name is a safe, optionally schema-qualified table name.
func ValidTable(name string) bool {
	return validTable.MatchString(name)
}

// Validate checks that the selected source has everything it needs.
func (c *Config) Validate() error {
	s := c.Source
	switch s.Kind {
	case SourceHTTP:
		if s.URL == "" {
			return errors.New("source.url (DATA_SOURCE_URL) is required for the http source")
		}
	case SourceFile:
		if s.File == "" {
			return errors.New("source.file (DATA_FILE) is required for the file source")
		}
		switch strings.ToLower(filepath.Ext(s.File)) {
		case ".json", ".csv", ".xlsx":
		default:
			return fmt.Errorf("unsupported data file type %q (want .json, .csv or .xlsx)", filepath.Ext(s.File))
		}
	case SourcePostgres:
		if s.DatabaseURL == "" {
			return errors.New("source.database_url (DATABASE_URL) is required for the postgres source")
		}
	case SourceMySQL:
		if s.MySQLDSN == "" {
			return errors.New("source.mysql_dsn (MYSQL_DSN) is required for the mysql source")
		}
	default:
		return fmt.Errorf("unknown source kind %q", s.Kind)
	}

	if (s.Kind == SourcePostgres || s.Kind == SourceMySQL) && !ValidTable(s.Table) {
		return fmt.Errorf("invalid records table name %q", s.Table)
	}
	if s.Timeout <= 0 {
		return errors.New("source.timeout must be positive")
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("server.session_ttl must be positive")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

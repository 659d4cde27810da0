/*
Package configs loads the application's configuration from environment variables.

Values are read with caarlos0/env struct tags and then validated. The server base URL
is chosen per environment unless ASSASSIN_BASE_URL overrides it; S3 settings are only
checked by the commands that need them.
*/
package configs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"assassin/internal/pkg/errs"
)

const (
	// SessionBackendFile keeps the saved session in a local JSON file.
	SessionBackendFile = "file"

	// SessionBackendPostgres keeps saved sessions in a Postgres table.
	SessionBackendPostgres = "postgres"
)

// baseURLs holds the server address compiled in for each environment.
var baseURLs = map[string]string{
	"production":  "https://sheep.thingkingland.app/assassin/",
	"development": "https://sheep.thingkingland.app/assassin/",
	"local":       "http://localhost:8000/assassin/",
}

// AppConfig contains every configuration parameter of the application.
type AppConfig struct {
	// General Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	BaseURL     string `env:"ASSASSIN_BASE_URL"`

	// Dev Server Settings
	Port           int           `env:"PORT" envDefault:"8080"`
	BundleDir      string        `env:"BUNDLE_DIR" envDefault:"dist"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	WatchInterval  time.Duration `env:"WATCH_INTERVAL" envDefault:"500ms"` // live reload debounce

	Session SessionConfig
	Storage StorageConfig
}

// SessionConfig selects where the logged-in session is remembered between runs.
type SessionConfig struct {
	Backend     string `env:"SESSION_STORE" envDefault:"file"`
	File        string `env:"SESSION_FILE"`
	Profile     string `env:"SESSION_PROFILE" envDefault:"default"`
	DatabaseDSN string `env:"DATABASE_URL"`
}

// StorageConfig holds the S3-compatible bucket the bundle is published to.
type StorageConfig struct {
	S3BucketName      string `env:"S3_BUCKET_NAME"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" envDefault:"auto"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	Prefix            string `env:"DEPLOY_PREFIX"`
}

// LoadConfig reads and validates the configuration from the process environment.
func LoadConfig() (*AppConfig, error) {
	return load(env.Options{})
}

// LoadConfigFrom reads the configuration from the given variables instead of the
// process environment.
func LoadConfigFrom(vars map[string]string) (*AppConfig, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// --- General Settings ---
	if cfg.BaseURL == "" {
		base, ok := baseURLs[cfg.Environment]
		if !ok {
			return nil, fmt.Errorf("no server address known for ENVIRONMENT %q; set ASSASSIN_BASE_URL", cfg.Environment)
		}
		cfg.BaseURL = base
	}

	if cfg.Session.Backend == SessionBackendFile && cfg.Session.File == "" {
		cfg.Session.File = defaultSessionFile()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every command relies on. Callers that override fields
// after loading, such as command line flags, must call it again.
func (c *AppConfig) Validate() error {
	// --- General Settings ---
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid ASSASSIN_BASE_URL %q: must be an absolute http(s) URL", c.BaseURL)
	}

	// --- Dev Server Settings ---
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", c.Port, 1024, 65535)
	}

	if c.WatchInterval <= 0 {
		return fmt.Errorf("WATCH_INTERVAL must be positive, got %s", c.WatchInterval)
	}

	// --- Session Settings ---
	switch c.Session.Backend {
	case SessionBackendFile:
		if c.Session.File == "" {
			return fmt.Errorf("SESSION_FILE must not be empty")
		}
	case SessionBackendPostgres:
		if c.Session.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required when SESSION_STORE=%s", SessionBackendPostgres)
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want %q or %q)", c.Session.Backend, SessionBackendFile, SessionBackendPostgres)
	}

	if c.Session.Profile == "" {
		return fmt.Errorf("SESSION_PROFILE must not be empty")
	}
	if strings.ContainsAny(c.Session.Profile, `/\`) {
		return fmt.Errorf("SESSION_PROFILE %q must not contain path separators", c.Session.Profile)
	}

	return nil
}

// IsDevelopment reports whether the application runs in a non-production environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment != "production"
}

// Validate checks that every setting needed to publish the bundle is present.
func (s StorageConfig) Validate() *errs.CustomError {
	required := []struct {
		name  string
		value string
	}{
		{"S3_BUCKET_NAME", s.S3BucketName},
		{"S3_ENDPOINT", s.S3Endpoint},
		{"S3_ACCESS_KEY_ID", s.S3AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", s.S3SecretAccessKey},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return errs.NewError(errs.ErrStorageNotConfigured, missing[0])
	}

	return nil
}

// EnvironmentNames lists the environments with a compiled-in server address.
func EnvironmentNames() []string {
	names := make([]string, 0, len(baseURLs))
	for name := range baseURLs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "assassin", "session.json")
}

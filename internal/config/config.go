package config

import (
	"fmt"
	"time"

	"github.com/pruthviraj-chavan/happytools1/internal/catalog"
	"github.com/pruthviraj-chavan/happytools1/internal/database"
	"github.com/pruthviraj-chavan/happytools1/internal/events"
	"github.com/pruthviraj-chavan/happytools1/internal/extractor"
	"github.com/pruthviraj-chavan/happytools1/internal/fetcher"
	"github.com/pruthviraj-chavan/happytools1/internal/logger"
	"github.com/pruthviraj-chavan/happytools1/internal/producthunt"
	"github.com/pruthviraj-chavan/happytools1/internal/scheduler"
	"github.com/pruthviraj-chavan/happytools1/internal/syncer"
)

const (
	defaultServiceName  = "happytools"
	defaultServerPort   = 8080
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 10 * time.Minute
	defaultSyncTimeout  = 10 * time.Minute
	defaultSyncDelay    = 2 * time.Second
)

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig               `yaml:"service"`
	Server        ServerConfig                `yaml:"server"`
	Logging       logger.Config               `yaml:"logging"`
	Fetcher       fetcher.Config              `yaml:"fetcher"`
	Sync          SyncConfig                  `yaml:"sync"`
	Schedule      scheduler.Config            `yaml:"schedule"`
	ProductHunt   producthunt.Config          `yaml:"producthunt"`
	Elasticsearch catalog.ElasticsearchConfig `yaml:"elasticsearch"`
	Database      database.Config             `yaml:"database"`
	Redis         events.Config               `yaml:"redis"`
}

// ServiceConfig identifies the running service in logs.
type ServiceConfig struct {
	Name    string `env:"SERVICE_NAME"    yaml:"name"`
	Version string `env:"SERVICE_VERSION" yaml:"version"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// SyncTimeout bounds a sync triggered over HTTP.
	SyncTimeout time.Duration `env:"SERVER_SYNC_TIMEOUT" yaml:"sync_timeout"`
	CORSOrigins []string      `env:"CORS_ORIGINS"        yaml:"cors_origins"`
}

// Address returns host:port.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SyncConfig controls the scraped sync path.
type SyncConfig struct {
	TargetsFile        string        `env:"SYNC_TARGETS_FILE"         yaml:"targets_file"`
	Delay              time.Duration `env:"SYNC_DELAY"                yaml:"delay"`
	MaxToolsPerPage    int           `env:"SYNC_MAX_TOOLS_PER_PAGE"   yaml:"max_tools_per_page"`
	FetchAttempts      int           `env:"SYNC_FETCH_ATTEMPTS"       yaml:"fetch_attempts"`
	PlaceholderOnEmpty bool          `env:"SYNC_PLACEHOLDER_ON_EMPTY" yaml:"placeholder_on_empty"`
}

// Orchestrator maps the section onto the orchestrator settings.
func (c SyncConfig) Orchestrator() syncer.Config {
	return syncer.Config{
		Delay:              c.Delay,
		FetchAttempts:      c.FetchAttempts,
		PlaceholderOnEmpty: c.PlaceholderOnEmpty,
	}
}

// Load reads path (optional) and applies defaults and environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "dev"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.SyncTimeout == 0 {
		cfg.Server.SyncTimeout = defaultSyncTimeout
	}
	if cfg.Sync.Delay == 0 {
		cfg.Sync.Delay = defaultSyncDelay
	}
	if cfg.Sync.MaxToolsPerPage == 0 {
		cfg.Sync.MaxToolsPerPage = extractor.DefaultMaxPerPage
	}
	if cfg.Sync.FetchAttempts == 0 {
		cfg.Sync.FetchAttempts = 1
	}

	cfg.Logging.SetDefaults()
	cfg.Fetcher = cfg.Fetcher.WithDefaults()
	cfg.Schedule.SetDefaults()
	cfg.ProductHunt = cfg.ProductHunt.WithDefaults()
	cfg.Elasticsearch.SetDefaults()
	if cfg.Database.Enabled() {
		cfg.Database.SetDefaults()
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := validatePort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := validateLogLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := validateLogFormat(c.Logging.Format); err != nil {
		return err
	}
	if c.Sync.Delay < 0 {
		return &ValidationError{Field: "sync.delay", Message: "must not be negative"}
	}
	if c.Sync.MaxToolsPerPage < 1 {
		return &ValidationError{Field: "sync.max_tools_per_page", Message: "must be positive"}
	}
	if c.Sync.FetchAttempts < 1 {
		return &ValidationError{Field: "sync.fetch_attempts", Message: "must be positive"}
	}
	if c.Fetcher.MaxRedirects < 0 {
		return &ValidationError{Field: "fetcher.max_redirects", Message: "must not be negative"}
	}
	if c.Elasticsearch.URL == "" {
		return &ValidationError{Field: "elasticsearch.url", Message: "is required"}
	}
	return nil
}

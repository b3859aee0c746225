// Package backend selects and builds the data source behind the web layer.
package backend

import (
	"context"
	"fmt"
	"time"

	"vibes/internal/api"
	"vibes/internal/api/memory"
	"vibes/internal/api/postgrest"
	"vibes/internal/config"
	"vibes/internal/log"
)

// BackendType represents the type of backend
type BackendType string

const (
	PostgRESTBackend BackendType = config.BackendPostgREST
	MemoryBackend    BackendType = config.BackendMemory
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case PostgRESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// PostgREST specific
	BaseURL string
	Timeout time.Duration

	// Memory backend specific
	DataDirectory string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:          backendType,
		BaseURL:       appConfig.APIBaseURL,
		Timeout:       appConfig.APITimeout,
		DataDirectory: appConfig.DataDir,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == PostgRESTBackend && c.BaseURL == "" {
		return fmt.Errorf("base URL is required for postgrest backend")
	}
	return nil
}

// New builds the backend described by cfg.
func New(ctx context.Context, cfg Config, logger *log.Logger) (api.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.WithComponent(log.ComponentBackend)

	switch cfg.Type {
	case PostgRESTBackend:
		client := postgrest.New(cfg.BaseURL, cfg.Timeout, postgrest.WithLogger(logger))
		if err := client.Ping(ctx); err != nil {
			// the API may come up after us; readiness reports it meanwhile
			logger.WarnContext(ctx, "Data API not reachable at startup", log.FieldError, err.Error())
		}
		logger.InfoContext(ctx, "Initialized PostgREST backend", "base_url", client.BaseURL())
		return client, nil
	case MemoryBackend:
		dataDir := cfg.DataDirectory
		if dataDir == "" {
			dataDir = "data"
		}
		store := memory.NewFromFiles(dataDir)
		logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dataDir)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/eventspot/internal/config"
	"github.com/runnerr0/eventspot/internal/fetcher"
	"github.com/runnerr0/eventspot/internal/filters"
	"github.com/runnerr0/eventspot/internal/logger"
	"github.com/runnerr0/eventspot/internal/storage"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// eventAPI is the part of the Discovery client the commands use.
type eventAPI interface {
	fetcher.Lister
	fetcher.Getter
}

// auditor is implemented by backends that keep an audit log.
type auditor interface {
	RecordAudit(ctx context.Context, action, details string) error
	AuditLog(ctx context.Context, limit int) ([]storage.AuditEntry, error)
}

// appEnv is everything a command needs: configuration, the storage
// backend, the filter state on top of it and the API client.
type appEnv struct {
	cfg        *config.Config
	configPath string
	backend    storage.Backend
	filters    *filters.Store
	api        eventAPI
	cache      *fetcher.Cache
	now        func() time.Time
}

// errNoAPIKey is returned by commands that call the API without a key.
var errNoAPIKey = errors.New("no API key: set " + config.EnvAPIKey + " or api.api_key in the config file")

// openEnv loads the config and opens the backend and filter state.
func openEnv(ctx context.Context, g *GlobalFlags) (*appEnv, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	path := config.DefaultConfigPath
	if g != nil && g.Config != "" {
		path = g.Config
	}
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrCreateAt(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if g != nil && g.Verbose {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Format: cfg.Logging.Format})

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	env, err := newEnv(ctx, cfg, backend, nil)
	if err != nil {
		backend.Close()
		return nil, err
	}
	env.configPath = path

	if cfg.API.APIKey != "" {
		client, err := ticketmaster.New(ticketmaster.Options{
			BaseURL:       cfg.API.BaseURL,
			APIKey:        cfg.API.APIKey,
			Timeout:       cfg.API.Timeout(),
			RetryAttempts: cfg.API.RetryAttempts,
		})
		if err != nil {
			backend.Close()
			return nil, err
		}
		env.api = client
	}
	return env, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return storage.OpenRedis(ctx, cfg.Storage.RedisURL, cfg.Storage.KeyPrefix)
	default:
		path, err := cfg.Storage.DatabasePath()
		if err != nil {
			return nil, err
		}
		return storage.OpenSQLite(ctx, path)
	}
}

// newEnv wires an environment around an already opened backend.
func newEnv(ctx context.Context, cfg *config.Config, backend storage.Backend, api eventAPI) (*appEnv, error) {
	sort, _ := filters.ParseSort(cfg.Defaults.Sort)
	fs, err := filters.Open(ctx, backend, filters.Defaults{Region: cfg.Defaults.Region, Sort: sort})
	if err != nil {
		return nil, fmt.Errorf("load saved filters: %w", err)
	}
	return &appEnv{
		cfg:     cfg,
		backend: backend,
		filters: fs,
		api:     api,
		cache:   fetcher.NewCache(cfg.API.StaleWindow()),
		now:     time.Now,
	}, nil
}

// client returns the API client or errNoAPIKey.
func (e *appEnv) client() (eventAPI, error) {
	if e.api == nil {
		return nil, errNoAPIKey
	}
	return e.api, nil
}

// audit records action when the backend keeps an audit log.
func (e *appEnv) audit(ctx context.Context, action, details string) {
	a, ok := e.backend.(auditor)
	if !ok {
		return
	}
	if err := a.RecordAudit(ctx, action, details); err != nil {
		logger.Get().Warn().Err(err).Str("action", action).Msg("audit record failed")
	}
}

func (e *appEnv) close() error {
	return e.backend.Close()
}

// withEnv runs fn against injected, or against a freshly opened
// environment that is closed afterwards.
func withEnv(ctx context.Context, g *GlobalFlags, injected *appEnv, fn func(*appEnv) error) error {
	if injected != nil {
		return fn(injected)
	}
	env, err := openEnv(ctx, g)
	if err != nil {
		return err
	}
	defer env.close()
	return fn(env)
}

func wantJSON(g *GlobalFlags) bool {
	return g != nil && g.JSON
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

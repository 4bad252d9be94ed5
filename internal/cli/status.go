package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/eventspot/internal/format"
	"github.com/runnerr0/eventspot/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string            `json:"version"`
	ConfigPath        string            `json:"config_path,omitempty"`
	Backend           string            `json:"backend"`
	DatabaseSizeBytes int64             `json:"database_size_bytes"`
	TotalKeys         int64             `json:"total_keys"`
	TotalBytes        int64             `json:"total_bytes"`
	LastUpdated       string            `json:"last_updated,omitempty"`
	Keys              []storage.KeySize `json:"keys"`
	Region            string            `json:"region"`
	Favorites         int               `json:"favorites"`
	History           int               `json:"history"`
	APIKeySet         bool              `json:"api_key_set"`
	Audit             []auditEntryJSON  `json:"audit"`
}

type auditEntryJSON struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

// executeWithEnv runs status against a provided environment (for testing).
func (c *StatusCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	stats, err := env.backend.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	var audit []storage.AuditEntry
	if a, ok := env.backend.(auditor); ok && c.Audit > 0 {
		audit, err = a.AuditLog(ctx, c.Audit)
		if err != nil {
			return fmt.Errorf("read audit log: %w", err)
		}
	}

	if wantJSON(c.globals) {
		return c.printStatusJSON(env, stats, audit)
	}
	c.printStatusHuman(env, stats, audit)
	return nil
}

func (c *StatusCommand) printStatusHuman(env *appEnv, stats *storage.Stats, audit []storage.AuditEntry) {
	st := env.filters.State()

	fmt.Println("eventspot Status")
	fmt.Println("================")
	fmt.Printf("Version:       %s\n", c.version)
	if env.configPath != "" {
		fmt.Printf("Config:        %s\n", env.configPath)
	}
	if stats.DatabaseSizeBytes > 0 {
		fmt.Printf("Storage:       %s (%s)\n", stats.Backend, formatBytes(stats.DatabaseSizeBytes))
	} else {
		fmt.Printf("Storage:       %s\n", stats.Backend)
	}
	fmt.Printf("Keys:          %s (%s)\n", format.Number(int(stats.TotalKeys)), formatBytes(stats.TotalBytes))
	if !stats.LastUpdated.IsZero() {
		fmt.Printf("Last write:    %s\n", stats.LastUpdated.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	region := st.SelectedRegion
	if r, ok := st.CurrentRegion(); ok {
		region = r.Flag() + " " + r.Name
	}
	fmt.Printf("Region:        %s\n", region)
	fmt.Printf("Favorites:     %d\n", len(st.Favorites))
	fmt.Printf("History:       %d\n", len(st.SearchHistory))
	if env.api != nil {
		fmt.Println("API key:       set")
	} else {
		fmt.Println("API key:       missing")
	}

	if len(stats.Keys) > 0 {
		fmt.Println()
		fmt.Println("Largest Keys:")
		for _, k := range stats.Keys {
			fmt.Printf("  %-20s %s\n", k.Key, formatBytes(k.Bytes))
		}
	}

	if len(audit) > 0 {
		fmt.Println()
		fmt.Println("Recent Activity:")
		for _, e := range audit {
			fmt.Printf("  %s  %-8s %s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, e.Details)
		}
	}
}

func (c *StatusCommand) printStatusJSON(env *appEnv, stats *storage.Stats, audit []storage.AuditEntry) error {
	st := env.filters.State()
	out := statusJSON{
		Version:           c.version,
		ConfigPath:        env.configPath,
		Backend:           stats.Backend,
		DatabaseSizeBytes: stats.DatabaseSizeBytes,
		TotalKeys:         stats.TotalKeys,
		TotalBytes:        stats.TotalBytes,
		Keys:              stats.Keys,
		Region:            st.SelectedRegion,
		Favorites:         len(st.Favorites),
		History:           len(st.SearchHistory),
		APIKeySet:         env.api != nil,
		Audit:             make([]auditEntryJSON, len(audit)),
	}
	if out.Keys == nil {
		out.Keys = []storage.KeySize{}
	}
	if !stats.LastUpdated.IsZero() {
		out.LastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
	}
	for i, e := range audit {
		out.Audit[i] = auditEntryJSON{
			Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			Action:    e.Action,
			Details:   e.Details,
		}
	}
	return printJSON(out)
}

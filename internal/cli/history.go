package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

func (c *HistoryCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	switch {
	case c.Clear:
		if err := env.filters.ClearHistory(ctx); err != nil {
			return err
		}
	case c.Remove != "":
		if err := env.filters.RemoveFromHistory(ctx, c.Remove); err != nil {
			return err
		}
	}

	h := env.filters.State().SearchHistory
	if wantJSON(c.globals) {
		return printJSON(map[string]any{"history": h})
	}
	if len(h) == 0 {
		fmt.Println("No recent searches.")
		return nil
	}
	for i, q := range h {
		fmt.Printf("%2d. %s\n", i+1, q)
	}
	return nil
}

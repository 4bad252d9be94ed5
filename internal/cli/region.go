package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/eventspot/internal/datefilter"
	"github.com/runnerr0/eventspot/internal/filters"
)

// Execute implements the go-flags Commander interface for RegionCommand.
func (c *RegionCommand) Execute(args []string) error {
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env, args)
	})
}

func (c *RegionCommand) executeWithEnv(ctx context.Context, env *appEnv, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("region takes at most one country code")
	}
	if len(args) == 1 {
		if err := env.filters.SetRegion(ctx, args[0]); err != nil {
			return err
		}
	}

	current := env.filters.State().SelectedRegion
	if wantJSON(c.globals) {
		return printJSON(map[string]any{"selected": current, "regions": filters.Regions})
	}
	if len(args) == 1 {
		r, _ := filters.RegionByCode(current)
		fmt.Printf("Region set to %s %s.\n", r.Flag(), r.Name)
		return nil
	}
	for _, r := range filters.Regions {
		mark := " "
		if r.Code == current {
			mark = "*"
		}
		fmt.Printf("%s %s %s  %s\n", mark, r.Flag(), r.Code, r.Name)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ClearFiltersCommand.
func (c *ClearFiltersCommand) Execute(args []string) error {
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

func (c *ClearFiltersCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	if err := env.filters.ClearFilters(ctx); err != nil {
		return err
	}
	st := env.filters.State()
	if wantJSON(c.globals) {
		return printJSON(map[string]any{
			"region": st.SelectedRegion,
			"date":   datefilter.All.String(),
		})
	}
	fmt.Printf("Filters cleared. Region: %s, dates: %s.\n", st.SelectedRegion, st.DateFilterLabel())
	return nil
}

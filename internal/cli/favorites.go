package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/runnerr0/eventspot/internal/calendar"
	"github.com/runnerr0/eventspot/internal/fetcher"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// Execute implements the go-flags Commander interface for FavoriteCommand.
func (c *FavoriteCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for favorite command")
	}
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

func (c *FavoriteCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	added, err := env.filters.ToggleFavorite(ctx, c.ID)
	if err != nil {
		return err
	}

	if wantJSON(c.globals) {
		return printJSON(map[string]any{"id": c.ID, "favorite": added})
	}
	if added {
		fmt.Printf("Added %s to favorites.\n", c.ID)
	} else {
		fmt.Printf("Removed %s from favorites.\n", c.ID)
	}
	return nil
}

// Execute implements the go-flags Commander interface for FavoritesCommand.
func (c *FavoritesCommand) Execute(args []string) error {
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

func (c *FavoritesCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	ids := env.filters.Favorites()
	if len(ids) == 0 {
		if wantJSON(c.globals) {
			return printJSON(favoritesJSON{Events: []ticketmaster.Event{}, Missing: []string{}, Failed: []failureJSON{}})
		}
		fmt.Println("No favorites yet. Use `eventspot favorite --id ID` to add one.")
		return nil
	}

	api, err := env.client()
	if err != nil {
		return err
	}
	res := fetcher.FetchFavorites(ctx, api, env.cache, ids)

	if c.Prune {
		for _, id := range res.Missing {
			if _, err := env.filters.ToggleFavorite(ctx, id); err != nil {
				return err
			}
		}
	}

	if err := res.Err(); err != nil {
		return err
	}

	if c.ICS != "" {
		if err := writeICS(c.ICS, res.Events, env); err != nil {
			return err
		}
	}

	if wantJSON(c.globals) {
		out := favoritesJSON{Events: res.Events, Missing: res.Missing, Failed: []failureJSON{}}
		if out.Missing == nil {
			out.Missing = []string{}
		}
		for _, f := range res.Failed {
			out.Failed = append(out.Failed, failureJSON{ID: f.ID, Error: f.Err.Error()})
		}
		return printJSON(out)
	}

	if len(res.Events) == 0 {
		fmt.Println("None of your favorites could be loaded.")
	} else {
		fmt.Printf("%d favorites\n\n", len(res.Events))
		for i, e := range res.Events {
			printEvent(i+1, e, true, env)
			if i < len(res.Events)-1 {
				fmt.Println()
			}
		}
	}
	if len(res.Missing) > 0 {
		verb := "no longer exist"
		if c.Prune {
			verb = "no longer exist and were removed"
		}
		fmt.Printf("\n%d favorites %s: %v\n", len(res.Missing), verb, res.Missing)
	}
	for _, f := range res.Failed {
		fmt.Printf("\ncould not load %s: %v\n", f.ID, f.Err)
	}
	if c.ICS != "" {
		fmt.Printf("\nWrote %s\n", c.ICS)
	}
	return nil
}

func writeICS(path string, events []ticketmaster.Event, env *appEnv) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := calendar.Write(f, events, env.now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type failureJSON struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type favoritesJSON struct {
	Events  []ticketmaster.Event `json:"events"`
	Missing []string             `json:"missing"`
	Failed  []failureJSON        `json:"failed"`
}

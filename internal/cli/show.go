package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/eventspot/internal/fetcher"
	"github.com/runnerr0/eventspot/internal/format"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required for show command")
	}
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env)
	})
}

func (c *ShowCommand) executeWithEnv(ctx context.Context, env *appEnv) error {
	api, err := env.client()
	if err != nil {
		return err
	}

	e, err := fetcher.Fetch(ctx, env.cache, "event:"+c.ID, func(ctx context.Context) (ticketmaster.Event, error) {
		return api.GetEvent(ctx, c.ID)
	})
	if ticketmaster.IsNotFound(err) {
		return fmt.Errorf("event not found: %s", c.ID)
	}
	if err != nil {
		return err
	}

	favorite := env.filters.IsFavorite(e.ID)
	if wantJSON(c.globals) {
		return printJSON(showJSON{Event: e, Favorite: favorite})
	}

	star := ""
	if favorite {
		star = " ★"
	}
	fmt.Printf("%s%s\n", e.Name, star)
	fmt.Printf("ID:       %s\n", e.ID)

	when := format.EventDate(e.Date, env.now())
	if e.Time != "" {
		when += " at " + format.EventTime(e.Time)
	}
	fmt.Printf("When:     %s (%s)\n", when, e.Date)

	if e.Venue != nil {
		fmt.Printf("Venue:    %s\n", e.Venue.Name)
		if e.Venue.Address != "" {
			fmt.Printf("Address:  %s\n", e.Venue.Address)
		}
		if e.Venue.City != "" {
			loc := e.Venue.City
			if e.Venue.State != "" {
				loc += ", " + e.Venue.State
			}
			fmt.Printf("City:     %s\n", loc)
		}
	}
	if e.PriceRange != nil {
		fmt.Printf("Price:    %s\n", format.PriceRange(e.PriceRange.Min, e.PriceRange.Max, e.PriceRange.Currency))
	}
	if e.Segment != "" || e.Genre != "" {
		fmt.Printf("Category: %s\n", joinNonEmpty(" / ", e.Segment, e.Genre))
	}
	if e.URL != "" {
		fmt.Printf("Tickets:  %s\n", e.URL)
	}
	if e.Info != "" {
		fmt.Printf("\n%s\n", e.Info)
	}
	return nil
}

type showJSON struct {
	Event    ticketmaster.Event `json:"event"`
	Favorite bool               `json:"favorite"`
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/runnerr0/eventspot/internal/datefilter"
	"github.com/runnerr0/eventspot/internal/fetcher"
	"github.com/runnerr0/eventspot/internal/filters"
	"github.com/runnerr0/eventspot/internal/format"
	"github.com/runnerr0/eventspot/internal/query"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	ctx := context.Background()
	return withEnv(ctx, c.globals, c.env, func(env *appEnv) error {
		return c.executeWithEnv(ctx, env, args)
	})
}

// executeWithEnv runs the search against a provided environment (for testing).
func (c *SearchCommand) executeWithEnv(ctx context.Context, env *appEnv, args []string) error {
	api, err := env.client()
	if err != nil {
		return err
	}
	if err := c.applyFilters(ctx, env.filters); err != nil {
		return err
	}

	keyword := strings.Join(args, " ")
	env.filters.SetSearchQuery(keyword)

	size := c.Size
	if size <= 0 {
		size = env.cfg.API.PageSize
	}
	state := env.filters.State()
	q, err := query.Build(state, keyword, 0, size, env.now())
	if err != nil {
		return err
	}

	pager := fetcher.NewPager(api, env.cache)
	pager.SetQuery(q)
	if err := pager.Load(ctx); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	for i := 1; i < c.Pages && pager.HasNextPage(); i++ {
		if err := pager.FetchNextPage(ctx); err != nil {
			return fmt.Errorf("load page %d: %w", i+1, err)
		}
	}

	if !c.NoHistory {
		if err := env.filters.AddToHistory(ctx, keyword); err != nil {
			return err
		}
	}

	if wantJSON(c.globals) {
		return printJSON(searchJSON{
			Keyword:       strings.TrimSpace(keyword),
			Region:        state.SelectedRegion,
			Category:      state.SelectedCategory,
			Date:          state.SelectedDateFilter.String(),
			Sort:          string(state.SelectedSort),
			TotalElements: pager.TotalElements(),
			PagesLoaded:   len(pager.Pages()),
			HasMore:       pager.HasNextPage(),
			Events:        nonNil(pager.Events()),
		})
	}
	c.printHuman(env, state, pager)
	return nil
}

// applyFilters moves the flag values into the filter state.
func (c *SearchCommand) applyFilters(ctx context.Context, fs *filters.Store) error {
	if c.Category != "" {
		if err := fs.SetCategory(c.Category); err != nil {
			return err
		}
	}
	if c.Region != "" {
		if err := fs.SetRegion(ctx, c.Region); err != nil {
			return err
		}
	}
	df, err := datefilter.Parse(c.Date)
	if err != nil {
		return fmt.Errorf("invalid --date value %q: %w", c.Date, err)
	}
	if err := fs.SetDateFilter(df); err != nil {
		return err
	}
	if c.Sort != "" {
		s, ok := filters.ParseSort(c.Sort)
		if !ok {
			return fmt.Errorf("invalid --sort value %q", c.Sort)
		}
		if err := fs.SetSort(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *SearchCommand) printHuman(env *appEnv, state filters.State, pager *fetcher.Pager) {
	region := state.SelectedRegion
	if r, ok := state.CurrentRegion(); ok {
		region = r.Flag() + " " + r.Name
	}
	fmt.Printf("%s · %s · %s · %s\n", format.ResultCount(pager.TotalElements()), region, state.DateFilterLabel(), state.SortLabel())

	events := pager.Events()
	if len(events) == 0 {
		fmt.Println("Try a different keyword or clear the filters.")
		return
	}
	fmt.Println()
	for i, e := range events {
		printEvent(i+1, e, env.filters.IsFavorite(e.ID), env)
		if i < len(events)-1 {
			fmt.Println()
		}
	}
	if pager.HasNextPage() {
		fmt.Printf("\nMore results available (use --pages %d)\n", len(pager.Pages())+1)
	}
}

// printEvent writes one numbered event block.
func printEvent(n int, e ticketmaster.Event, favorite bool, env *appEnv) {
	star := ""
	if favorite {
		star = " ★"
	}
	fmt.Printf("%d. %s%s\n", n, e.Name, star)

	when := format.EventDate(e.Date, env.now())
	if e.Time != "" {
		when += " · " + format.EventTime(e.Time)
	}
	if e.Venue != nil {
		where := e.Venue.Name
		if e.Venue.City != "" {
			where += ", " + e.Venue.City
		}
		when += " · " + where
	}
	fmt.Printf("   %s\n", when)

	if e.PriceRange != nil {
		fmt.Printf("   %s\n", format.PriceRange(e.PriceRange.Min, e.PriceRange.Max, e.PriceRange.Currency))
	}
	fmt.Printf("   id: %s\n", e.ID)
}

type searchJSON struct {
	Keyword       string               `json:"keyword"`
	Region        string               `json:"region"`
	Category      string               `json:"category"`
	Date          string               `json:"date"`
	Sort          string               `json:"sort"`
	TotalElements int                  `json:"total_elements"`
	PagesLoaded   int                  `json:"pages_loaded"`
	HasMore       bool                 `json:"has_more"`
	Events        []ticketmaster.Event `json:"events"`
}

func nonNil(events []ticketmaster.Event) []ticketmaster.Event {
	if events == nil {
		return []ticketmaster.Event{}
	}
	return events
}

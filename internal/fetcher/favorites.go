package fetcher

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// favoritesConcurrency bounds the parallel detail requests.
const favoritesConcurrency = 4

// FavoriteFailure is a favorite that could not be fetched.
type FavoriteFailure struct {
	ID  string
	Err error
}

// FavoritesResult is the outcome of fetching every favorite.
type FavoritesResult struct {
	// Events holds the fetched favorites in the order of the ids given.
	Events []ticketmaster.Event
	// Missing lists ids whose event no longer exists upstream.
	Missing []string
	// Failed lists ids that failed for any other reason.
	Failed []FavoriteFailure
	// Requested is the number of ids asked for.
	Requested int
}

// IsEmpty reports whether no favorites were requested. A request whose
// fetches all failed is not empty; see Err.
func (r FavoritesResult) IsEmpty() bool {
	return r.Requested == 0
}

// Err reports a total failure: favorites were requested, none loaded and at
// least one failed for a reason other than being removed upstream.
func (r FavoritesResult) Err() error {
	if len(r.Events) > 0 || len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.ID, f.Err))
	}
	return fmt.Errorf("could not load any favorites: %w", errors.Join(errs...))
}

// FetchFavorites fetches each id independently and in parallel. A removed
// event is dropped from the result; other failures are reported per id and
// never hide the favorites that did load. Results are cached by id.
func FetchFavorites(ctx context.Context, g Getter, c *Cache, ids []string) FavoritesResult {
	if c == nil {
		c = NewCache(0)
	}

	events := make([]*ticketmaster.Event, len(ids))
	errs := make([]error, len(ids))

	var eg errgroup.Group
	eg.SetLimit(favoritesConcurrency)
	for i, id := range ids {
		eg.Go(func() error {
			e, err := Fetch(ctx, c, "event:"+id, func(ctx context.Context) (ticketmaster.Event, error) {
				return g.GetEvent(ctx, id)
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			events[i] = &e
			return nil
		})
	}
	_ = eg.Wait()

	res := FavoritesResult{Events: []ticketmaster.Event{}, Requested: len(ids)}
	for i, id := range ids {
		switch {
		case events[i] != nil:
			res.Events = append(res.Events, *events[i])
		case ticketmaster.IsNotFound(errs[i]):
			res.Missing = append(res.Missing, id)
		default:
			res.Failed = append(res.Failed, FavoriteFailure{ID: id, Err: errs[i]})
		}
	}
	return res
}

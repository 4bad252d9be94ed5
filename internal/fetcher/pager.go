// Package fetcher runs listing queries page by page on top of a keyed
// result cache, and fetches favorite events by id.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/runnerr0/eventspot/internal/logger"
	"github.com/runnerr0/eventspot/internal/query"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// Lister fetches one listing page.
type Lister interface {
	ListEvents(ctx context.Context, q query.EventsQuery) (ticketmaster.EventsPage, error)
}

// Getter fetches one event by id.
type Getter interface {
	GetEvent(ctx context.Context, id string) (ticketmaster.Event, error)
}

// Status is the pager's state.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	LoadingMore
	Refreshing
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case LoadingMore:
		return "loading_more"
	case Refreshing:
		return "refreshing"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) busy() bool {
	return s == Loading || s == LoadingMore || s == Refreshing
}

// ErrNoQuery is returned when loading before SetQuery.
var ErrNoQuery = errors.New("fetcher: no query set")

// Pager accumulates the pages of one query. Changing any filter field of
// the query drops the pages and starts again from page 0; a response for a
// superseded query is discarded.
type Pager struct {
	lister Lister
	cache  *Cache
	log    *logger.Logger

	mu       sync.Mutex
	query    query.EventsQuery
	hasQuery bool
	gen      uint64
	pages    []ticketmaster.EventsPage
	status   Status
	err      error
	failed   fetchOp
}

// fetchOp is one page request as issued by run.
type fetchOp struct {
	status  Status
	page    int
	replace bool
}

// NewPager returns an idle Pager. A nil cache disables result reuse.
func NewPager(l Lister, c *Cache) *Pager {
	if c == nil {
		c = NewCache(0)
	}
	return &Pager{lister: l, cache: c, log: logger.Named("pager")}
}

// SetQuery installs q. It reports whether the accumulated pages were reset,
// which happens when q's filter identity differs from the current one.
func (p *Pager) SetQuery(q query.EventsQuery) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	q.Page = 0
	if p.hasQuery && p.query.FilterKey() == q.FilterKey() {
		return false
	}
	p.query = q
	p.hasQuery = true
	p.gen++
	p.pages = nil
	p.status = Idle
	p.err = nil
	p.failed = fetchOp{}
	return true
}

// Query returns the current query at page 0.
func (p *Pager) Query() query.EventsQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Load fetches the first page. It is a no-op while a load is in flight or
// once the first page is loaded.
func (p *Pager) Load(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasQuery {
		p.mu.Unlock()
		return ErrNoQuery
	}
	if p.status.busy() || len(p.pages) > 0 {
		p.mu.Unlock()
		return nil
	}
	return p.run(ctx, Loading, 0, false)
}

// FetchNextPage appends the next page. It is a no-op while a load is in
// flight or when there is no next page.
func (p *Pager) FetchNextPage(ctx context.Context) error {
	p.mu.Lock()
	if p.status != Ready || !p.hasNextLocked() {
		p.mu.Unlock()
		return nil
	}
	next := p.pages[len(p.pages)-1].Page + 1
	return p.run(ctx, LoadingMore, next, false)
}

// Refresh refetches page 0 bypassing the cache and replaces the pages with
// it. It is a no-op while a load is in flight.
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasQuery {
		p.mu.Unlock()
		return ErrNoQuery
	}
	if p.status.busy() {
		p.mu.Unlock()
		return nil
	}
	keys := []string{p.query.Key()}
	for _, pg := range p.pages {
		keys = append(keys, p.query.WithPage(pg.Page).Key())
	}
	p.cache.Invalidate(keys...)

	status := Refreshing
	if len(p.pages) == 0 {
		status = Loading
	}
	return p.run(ctx, status, 0, true)
}

// Retry repeats the fetch that failed. A failed refresh is retried as a
// refresh, so its result replaces the loaded pages. It is a no-op unless
// the pager is Errored.
func (p *Pager) Retry(ctx context.Context) error {
	p.mu.Lock()
	if p.status != Errored {
		p.mu.Unlock()
		return nil
	}
	op := p.failed
	return p.run(ctx, op.status, op.page, op.replace)
}

// run is called with p.mu held. It moves to status, fetches page without
// holding the lock and applies the result if the query is unchanged.
func (p *Pager) run(ctx context.Context, status Status, page int, replace bool) error {
	p.status = status
	p.err = nil
	gen := p.gen
	q := p.query.WithPage(page)
	p.mu.Unlock()

	res, err := Fetch(ctx, p.cache, q.Key(), func(ctx context.Context) (ticketmaster.EventsPage, error) {
		return p.lister.ListEvents(ctx, q)
	})

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		p.log.Debug().Str("key", q.Key()).Msg("discarding result for superseded query")
		return nil
	}
	if err != nil {
		p.status = Errored
		p.err = err
		p.failed = fetchOp{status: status, page: page, replace: replace}
		return err
	}
	if replace || status == Loading {
		p.pages = []ticketmaster.EventsPage{res}
	} else {
		p.pages = append(p.pages, res)
	}
	p.status = Ready
	return nil
}

// HasNextPage reports whether the last loaded page is not the final one.
func (p *Pager) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNextLocked()
}

func (p *Pager) hasNextLocked() bool {
	if len(p.pages) == 0 {
		return false
	}
	return p.pages[len(p.pages)-1].HasNext()
}

// Status returns the current state.
func (p *Pager) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Err returns the error that moved the pager to Errored.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Pages returns the loaded pages in order.
func (p *Pager) Pages() []ticketmaster.EventsPage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ticketmaster.EventsPage, len(p.pages))
	copy(out, p.pages)
	return out
}

// Events returns the events of every loaded page, in page order.
func (p *Pager) Events() []ticketmaster.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []ticketmaster.Event
	for _, pg := range p.pages {
		out = append(out, pg.Events...)
	}
	return out
}

// TotalElements returns the result count reported by the last page.
func (p *Pager) TotalElements() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pages) == 0 {
		return 0
	}
	return p.pages[len(p.pages)-1].TotalElements
}

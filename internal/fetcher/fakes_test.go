package fetcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/runnerr0/eventspot/internal/query"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// fakeLister serves totalPages pages of two events each for any query.
type fakeLister struct {
	totalPages int
	calls      atomic.Int32

	mu     sync.Mutex
	seen   []query.EventsQuery
	failOn map[int]error
	gate   chan struct{} // when non-nil, each call waits for a receive
}

func (f *fakeLister) ListEvents(ctx context.Context, q query.EventsQuery) (ticketmaster.EventsPage, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, q)
	err := f.failOn[q.Page]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ticketmaster.EventsPage{}, ctx.Err()
		}
	}
	if err != nil {
		return ticketmaster.EventsPage{}, err
	}

	page := ticketmaster.EventsPage{Page: q.Page, TotalPages: f.totalPages, TotalElements: f.totalPages * 2}
	for i := 0; i < 2; i++ {
		page.Events = append(page.Events, ticketmaster.Event{
			ID:   fmt.Sprintf("%s-p%d-%d", q.CountryCode, q.Page, i),
			Name: q.Keyword,
		})
	}
	return page, nil
}

func (f *fakeLister) setFail(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == nil {
		f.failOn = map[int]error{}
	}
	if err == nil {
		delete(f.failOn, page)
		return
	}
	f.failOn[page] = err
}

// fakeGetter serves events from a map; missing ids are NotFound.
type fakeGetter struct {
	events map[string]ticketmaster.Event
	errs   map[string]error
	calls  atomic.Int32
}

func (f *fakeGetter) GetEvent(ctx context.Context, id string) (ticketmaster.Event, error) {
	f.calls.Add(1)
	if err, ok := f.errs[id]; ok {
		return ticketmaster.Event{}, err
	}
	e, ok := f.events[id]
	if !ok {
		return ticketmaster.Event{}, fmt.Errorf("event %s: %w", id, &ticketmaster.NetworkError{StatusCode: 404, Status: "404 Not Found", Err: ticketmaster.ErrNotFound})
	}
	return e, nil
}

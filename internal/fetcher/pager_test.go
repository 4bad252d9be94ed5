package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/runnerr0/eventspot/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseQuery() query.EventsQuery {
	return query.EventsQuery{Keyword: "jazz", CountryCode: "US", Sort: "date,asc", Size: 2}
}

func TestPager_LoadAndPaginate(t *testing.T) {
	l := &fakeLister{totalPages: 3}
	p := NewPager(l, NewCache(time.Minute))
	ctx := context.Background()

	assert.Equal(t, Idle, p.Status())
	assert.ErrorIs(t, p.Load(ctx), ErrNoQuery)

	require.True(t, p.SetQuery(baseQuery()))
	require.NoError(t, p.Load(ctx))
	assert.Equal(t, Ready, p.Status())
	assert.Len(t, p.Events(), 2)
	assert.True(t, p.HasNextPage())

	require.NoError(t, p.FetchNextPage(ctx))
	require.NoError(t, p.FetchNextPage(ctx))
	assert.False(t, p.HasNextPage(), "page 2 of 3 is the last")

	pages := p.Pages()
	require.Len(t, pages, 3)
	for i, pg := range pages {
		assert.Equal(t, i, pg.Page, "pages stay in order")
	}
	assert.Len(t, p.Events(), 6)
	assert.Equal(t, "US-p0-0", p.Events()[0].ID)
	assert.Equal(t, "US-p2-1", p.Events()[5].ID)
	assert.Equal(t, 6, p.TotalElements())

	// No next page: no request.
	before := l.calls.Load()
	require.NoError(t, p.FetchNextPage(ctx))
	assert.Equal(t, before, l.calls.Load())
}

func TestPager_LoadIsIdempotent(t *testing.T) {
	l := &fakeLister{totalPages: 2}
	p := NewPager(l, nil)
	ctx := context.Background()

	p.SetQuery(baseQuery())
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.Load(ctx))
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestPager_SinglePageHasNoNext(t *testing.T) {
	p := NewPager(&fakeLister{totalPages: 1}, nil)
	p.SetQuery(baseQuery())
	require.NoError(t, p.Load(context.Background()))
	assert.False(t, p.HasNextPage())
}

func TestPager_FilterChangeResets(t *testing.T) {
	l := &fakeLister{totalPages: 5}
	p := NewPager(l, NewCache(time.Minute))
	ctx := context.Background()

	q := baseQuery()
	p.SetQuery(q)
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.FetchNextPage(ctx))
	require.Len(t, p.Pages(), 2)

	// Same filters on another page is not a change.
	assert.False(t, p.SetQuery(q.WithPage(4)))
	assert.Len(t, p.Pages(), 2)

	q.CountryCode = "GB"
	assert.True(t, p.SetQuery(q))
	assert.Empty(t, p.Pages())
	assert.Equal(t, Idle, p.Status())

	require.NoError(t, p.Load(ctx))
	require.Len(t, p.Pages(), 1)
	assert.Equal(t, 0, p.Pages()[0].Page)
	assert.Equal(t, "GB-p0-0", p.Events()[0].ID)
}

func TestPager_FetchNextPageWhileLoadingIsNoop(t *testing.T) {
	l := &fakeLister{totalPages: 3}
	p := NewPager(l, nil)
	ctx := context.Background()

	p.SetQuery(baseQuery())
	require.NoError(t, p.Load(ctx))

	l.mu.Lock()
	l.gate = make(chan struct{})
	l.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- p.FetchNextPage(ctx) }()
	assert.Eventually(t, func() bool { return p.Status() == LoadingMore }, time.Second, time.Millisecond)

	// Duplicate calls while in flight do nothing.
	require.NoError(t, p.FetchNextPage(ctx))
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.Refresh(ctx))
	assert.Equal(t, int32(2), l.calls.Load())

	l.gate <- struct{}{}
	require.NoError(t, <-done)
	assert.Len(t, p.Pages(), 2)
	assert.Equal(t, Ready, p.Status())
}

func TestPager_StaleResponseDiscarded(t *testing.T) {
	l := &fakeLister{totalPages: 3, gate: make(chan struct{})}
	p := NewPager(l, nil)
	ctx := context.Background()

	old := baseQuery()
	p.SetQuery(old)
	done := make(chan error, 1)
	go func() { done <- p.Load(ctx) }()
	assert.Eventually(t, func() bool { return l.calls.Load() == 1 }, time.Second, time.Millisecond)

	newer := old
	newer.CountryCode = "DE"
	require.True(t, p.SetQuery(newer))

	// Let the old request finish: its page must not land.
	l.gate <- struct{}{}
	require.NoError(t, <-done)
	assert.Empty(t, p.Pages())
	assert.Equal(t, Idle, p.Status())

	go func() { done <- p.Load(ctx) }()
	l.gate <- struct{}{}
	require.NoError(t, <-done)
	require.Len(t, p.Events(), 2)
	assert.Equal(t, "DE-p0-0", p.Events()[0].ID)
}

func TestPager_ErrorAndRetry(t *testing.T) {
	boom := errors.New("boom")
	l := &fakeLister{totalPages: 3}
	l.setFail(0, boom)
	p := NewPager(l, nil)
	ctx := context.Background()

	p.SetQuery(baseQuery())
	assert.ErrorIs(t, p.Load(ctx), boom)
	assert.Equal(t, Errored, p.Status())
	assert.ErrorIs(t, p.Err(), boom)

	l.setFail(0, nil)
	require.NoError(t, p.Retry(ctx))
	assert.Equal(t, Ready, p.Status())
	assert.Nil(t, p.Err())
	assert.Len(t, p.Pages(), 1)

	// Retry outside Errored does nothing.
	before := l.calls.Load()
	require.NoError(t, p.Retry(ctx))
	assert.Equal(t, before, l.calls.Load())
}

func TestPager_LoadMoreErrorKeepsPages(t *testing.T) {
	boom := errors.New("boom")
	l := &fakeLister{totalPages: 3}
	p := NewPager(l, nil)
	ctx := context.Background()

	p.SetQuery(baseQuery())
	require.NoError(t, p.Load(ctx))

	l.setFail(1, boom)
	assert.ErrorIs(t, p.FetchNextPage(ctx), boom)
	assert.Equal(t, Errored, p.Status())
	assert.Len(t, p.Pages(), 1)

	l.setFail(1, nil)
	require.NoError(t, p.Retry(ctx))
	require.Len(t, p.Pages(), 2)
	assert.Equal(t, 1, p.Pages()[1].Page)
}

func TestPager_RefreshBypassesCacheAndReplaces(t *testing.T) {
	l := &fakeLister{totalPages: 3}
	c := NewCache(time.Hour)
	p := NewPager(l, c)
	ctx := context.Background()

	p.SetQuery(baseQuery())
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.FetchNextPage(ctx))
	require.Equal(t, int32(2), l.calls.Load())

	require.NoError(t, p.Refresh(ctx))
	assert.Equal(t, int32(3), l.calls.Load(), "refresh goes upstream despite a fresh cache")
	assert.Len(t, p.Pages(), 1)
	assert.Equal(t, Ready, p.Status())

	// Page 1 was invalidated too.
	require.NoError(t, p.FetchNextPage(ctx))
	assert.Equal(t, int32(4), l.calls.Load())
}

func TestPager_FailedRefreshRetriesAsRefresh(t *testing.T) {
	boom := errors.New("boom")
	l := &fakeLister{totalPages: 3}
	p := NewPager(l, NewCache(time.Hour))
	ctx := context.Background()

	p.SetQuery(baseQuery())
	require.NoError(t, p.Load(ctx))
	require.NoError(t, p.FetchNextPage(ctx))
	require.Len(t, p.Pages(), 2)

	l.setFail(0, boom)
	assert.ErrorIs(t, p.Refresh(ctx), boom)
	assert.Equal(t, Errored, p.Status())
	assert.Len(t, p.Pages(), 2, "pages survive a failed refresh")

	l.setFail(0, nil)
	require.NoError(t, p.Retry(ctx))
	assert.Equal(t, Ready, p.Status())
	pages := p.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Page)
	assert.True(t, p.HasNextPage())
}

func TestPager_SharedCacheAcrossPagers(t *testing.T) {
	l := &fakeLister{totalPages: 2}
	c := NewCache(time.Minute)
	ctx := context.Background()

	a := NewPager(l, c)
	b := NewPager(l, c)
	a.SetQuery(baseQuery())
	b.SetQuery(baseQuery())
	require.NoError(t, a.Load(ctx))
	require.NoError(t, b.Load(ctx))

	assert.Equal(t, int32(1), l.calls.Load())
	assert.Equal(t, a.Events(), b.Events())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading_more", LoadingMore.String())
	assert.Equal(t, "errored", Errored.String())
	assert.Equal(t, "Status(42)", Status(42).String())
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/eventspot/internal/config"
	"github.com/runnerr0/eventspot/internal/query"
	"github.com/runnerr0/eventspot/internal/storage"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testNow is a Friday.
var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeDiscovery serves the listing and detail endpoints. Listings have
// totalPages pages of two events each; details come from the details map.
type fakeDiscovery struct {
	totalPages int
	details    map[string]map[string]any

	mu       sync.Mutex
	listings []url.Values
}

func (f *fakeDiscovery) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("apikey") != "test-key" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch {
	case r.URL.Path == "/events.json":
		f.mu.Lock()
		f.listings = append(f.listings, q)
		f.mu.Unlock()

		page, _ := strconv.Atoi(q.Get("page"))
		var events []map[string]any
		for i := 0; i < 2; i++ {
			id := fmt.Sprintf("%s-%d-%d", q.Get("countryCode"), page, i)
			events = append(events, rawEvent(id, fmt.Sprintf("%s show %d", q.Get("keyword"), page*2+i), "2024-03-16"))
		}
		writeJSON(w, map[string]any{
			"_embedded": map[string]any{"events": events},
			"page": map[string]any{
				"size": 2, "number": page, "totalPages": f.totalPages, "totalElements": f.totalPages * 2,
			},
		})

	case strings.HasPrefix(r.URL.Path, "/events/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/events/"), ".json")
		ev, ok := f.details[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, ev)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeDiscovery) requests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.listings...)
}

func rawEvent(id, name, date string) map[string]any {
	return map[string]any{
		"id":   id,
		"name": name,
		"url":  "https://tickets.example/" + id,
		"images": []map[string]any{
			{"url": "https://img.example/" + id + ".jpg", "ratio": "16_9", "width": 1024, "height": 576},
		},
		"dates": map[string]any{
			"start": map[string]any{"localDate": date, "localTime": "19:30:00", "dateTime": date + "T23:30:00Z"},
		},
		"priceRanges": []map[string]any{{"type": "standard", "currency": "USD", "min": 45, "max": 120}},
		"classifications": []map[string]any{
			{"primary": true, "segment": map[string]any{"name": "Music"}, "genre": map[string]any{"name": "Jazz"}},
		},
		"_embedded": map[string]any{
			"venues": []map[string]any{{"id": "v1", "name": "Blue Note", "city": map[string]any{"name": "New York"}}},
		},
	}
}

// failingAPI fails every call with a server error.
type failingAPI struct{}

func (failingAPI) ListEvents(context.Context, query.EventsQuery) (ticketmaster.EventsPage, error) {
	return ticketmaster.EventsPage{}, &ticketmaster.NetworkError{StatusCode: 503, Status: "503 Service Unavailable"}
}

func (failingAPI) GetEvent(context.Context, string) (ticketmaster.Event, error) {
	return ticketmaster.Event{}, &ticketmaster.NetworkError{StatusCode: 503, Status: "503 Service Unavailable"}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// newTestEnv builds an environment on an in-memory database. A nil api
// leaves the environment without an API client.
func newTestEnv(t *testing.T, api *fakeDiscovery) (*appEnv, *storage.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	store, err := storage.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.API.PageSize = 2

	var client eventAPI
	if api != nil {
		srv := httptest.NewServer(api)
		t.Cleanup(srv.Close)
		c, err := ticketmaster.New(ticketmaster.Options{
			BaseURL:       srv.URL,
			APIKey:        "test-key",
			RetryAttempts: 1,
		})
		require.NoError(t, err)
		client = c
	}

	env, err := newEnv(ctx, cfg, store, client)
	require.NoError(t, err)
	env.now = func() time.Time { return testNow }
	return env, store
}

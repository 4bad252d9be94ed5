// Package ticketmaster is a client for the Ticketmaster Discovery API
// listing and detail endpoints, and the normalization of its event records.
package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/runnerr0/eventspot/internal/logger"
	"github.com/runnerr0/eventspot/internal/query"
)

// DefaultBaseURL is the Discovery API v2 root.
const DefaultBaseURL = "https://app.ticketmaster.com/discovery/v2"

const maxBodyBytes = 10 << 20

// Options configures a Client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RetryAttempts is the total number of tries per request, including
	// the first. Values below 1 mean 1.
	RetryAttempts int
	// RetryWait is the initial backoff between tries.
	RetryWait  time.Duration
	HTTPClient *http.Client
}

// Client calls the Discovery API.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	attempts  int
	retryWait time.Duration
	http      *http.Client
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("ticketmaster: api key is required")
	}
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("ticketmaster: invalid base url %q", base)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	attempts := opts.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	wait := opts.RetryWait
	if wait <= 0 {
		wait = 500 * time.Millisecond
	}

	return &Client{baseURL: u, apiKey: opts.APIKey, attempts: attempts, retryWait: wait, http: hc}, nil
}

// ListEvents fetches one listing page.
func (c *Client) ListEvents(ctx context.Context, q query.EventsQuery) (EventsPage, error) {
	var resp EventsResponse
	if err := c.get(ctx, "/events.json", q.Values(), &resp); err != nil {
		return EventsPage{}, err
	}
	return TransformPage(resp), nil
}

// GetEvent fetches one event by id. A missing event yields an error for
// which IsNotFound is true.
func (c *Client) GetEvent(ctx context.Context, id string) (Event, error) {
	if strings.TrimSpace(id) == "" {
		return Event{}, errors.New("event id is required")
	}
	var raw RawEvent
	if err := c.get(ctx, "/events/"+url.PathEscape(id)+".json", nil, &raw); err != nil {
		return Event{}, fmt.Errorf("event %s: %w", id, err)
	}
	return Transform(raw), nil
}

// get performs a GET with the retry budget and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := *c.baseURL
	u.Path += path
	v := url.Values{}
	for k, vals := range params {
		v[k] = vals
	}
	v.Set("apikey", c.apiKey)
	u.RawQuery = v.Encode()

	ctx = logger.WithRequest(ctx, uuid.NewString())
	log := logger.C(ctx)

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		body, err := c.do(ctx, u.String())
		if err == nil {
			return body, nil
		}
		var ne *NetworkError
		if ctx.Err() != nil || !errors.As(err, &ne) || !ne.Retryable() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryWait
	b.MaxElapsedTime = 0
	b.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.attempts-1)), ctx)

	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", next).Msg("api request failed, retrying")
	}

	start := time.Now()
	body, err := backoff.RetryNotifyWithData(op, policy, notify)
	if err != nil {
		log.Debug().Err(err).Str("url", redactURL(u)).Int("attempts", attempt).Msg("api request failed")
		return err
	}
	log.Debug().Str("url", redactURL(u)).Int("attempts", attempt).Dur("took", time.Since(start)).Msg("api request")

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: stripURL(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status, Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return body, nil
}

// redactURL hides the api key before a URL is logged.
func redactURL(u url.URL) string {
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// stripURL drops the request URL, which carries the api key, from a
// transport error.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

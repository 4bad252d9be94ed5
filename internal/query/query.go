// Package query derives the listing request parameters from the current
// filter state.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/eventspot/internal/datefilter"
	"github.com/runnerr0/eventspot/internal/filters"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 20

// EventsQuery is the immutable parameter set for one listing request.
// Empty optional fields are omitted from the request.
type EventsQuery struct {
	Keyword       string `json:"keyword,omitempty"`
	SegmentID     string `json:"segmentId,omitempty"`
	CountryCode   string `json:"countryCode,omitempty"`
	StartDateTime string `json:"startDateTime,omitempty"`
	EndDateTime   string `json:"endDateTime,omitempty"`
	Sort          string `json:"sort"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`

	// DateFilter is the selection the date bounds were resolved from.
	DateFilter string `json:"-"`
}

// Build combines the filter state with the debounced search text. The raw
// state.SearchQuery is ignored so typing does not issue a request per
// keystroke. A date filter that cannot be resolved is an error.
func Build(state filters.State, debouncedSearch string, page, size int, now time.Time) (EventsQuery, error) {
	if page < 0 {
		return EventsQuery{}, fmt.Errorf("page must be >= 0, got %d", page)
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	q := EventsQuery{
		Keyword:     strings.TrimSpace(debouncedSearch),
		CountryCode: state.SelectedRegion,
		Sort:        string(state.SelectedSort),
		Page:        page,
		Size:        size,
	}
	if q.Sort == "" {
		q.Sort = string(filters.SortDateAsc)
	}

	if c, ok := filters.CategoryByID(state.SelectedCategory); ok {
		q.SegmentID = c.SegmentID
	} else if state.SelectedCategory != "" {
		return EventsQuery{}, fmt.Errorf("unknown category %q", state.SelectedCategory)
	}

	r, err := datefilter.Resolve(state.SelectedDateFilter, now)
	if err != nil {
		return EventsQuery{}, fmt.Errorf("resolve date filter: %w", err)
	}
	q.StartDateTime = r.StartDateTime
	q.EndDateTime = r.EndDateTime
	q.DateFilter = state.SelectedDateFilter.String()

	return q, nil
}

// WithPage returns a copy of q for another page.
func (q EventsQuery) WithPage(page int) EventsQuery {
	q.Page = page
	return q
}

// Values encodes q as request parameters. page, size and sort are always
// present; the rest only when set.
func (q EventsQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("sort", q.Sort)
	setIf(v, "keyword", q.Keyword)
	setIf(v, "segmentId", q.SegmentID)
	setIf(v, "countryCode", q.CountryCode)
	setIf(v, "startDateTime", q.StartDateTime)
	setIf(v, "endDateTime", q.EndDateTime)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// FilterKey identifies the result set independently of the page. Two
// queries with the same FilterKey are pages of one listing. When the date
// selection is known it stands in for the resolved bounds, whose start
// moves with the clock for presets.
func (q EventsQuery) FilterKey() string {
	v := q.Values()
	v.Del("page")
	if q.DateFilter != "" {
		v.Del("startDateTime")
		v.Del("endDateTime")
		v.Set("dateFilter", q.DateFilter)
	}
	return v.Encode()
}

// Key identifies this exact request.
func (q EventsQuery) Key() string {
	return q.Values().Encode()
}

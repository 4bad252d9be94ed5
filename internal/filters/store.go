// Package filters holds the user's current search selections (query,
// category, region, date filter, sort), the search history and favorites,
// and persists the durable subset through a storage.KV.
package filters

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/runnerr0/eventspot/internal/datefilter"
	"github.com/runnerr0/eventspot/internal/logger"
	"github.com/runnerr0/eventspot/internal/storage"
)

// Persisted keys.
const (
	KeySearchHistory  = "search_history"
	KeySelectedRegion = "selected_region"
	KeyFavorites      = "favorites"
)

// MaxHistory caps the number of remembered searches.
const MaxHistory = 10

// State is a snapshot of the current selections.
type State struct {
	SearchQuery        string            `json:"search_query"`
	SearchHistory      []string          `json:"search_history"`
	SelectedCategory   string            `json:"selected_category"`
	SelectedRegion     string            `json:"selected_region"`
	SelectedDateFilter datefilter.Filter `json:"selected_date_filter"`
	SelectedSort       SortOption        `json:"selected_sort"`
	Favorites          []string          `json:"favorites"`

	defaultRegion string
}

// IsDateFilterActive reports whether a date bound is applied.
func (s State) IsDateFilterActive() bool {
	return !datefilter.IsAll(s.SelectedDateFilter)
}

// IsRegionFilterActive reports whether the region differs from the default.
func (s State) IsRegionFilterActive() bool {
	def := s.defaultRegion
	if def == "" {
		def = DefaultRegion
	}
	return s.SelectedRegion != def
}

// HasActiveFilters reports whether ClearFilters would change anything.
func (s State) HasActiveFilters() bool {
	return s.IsDateFilterActive() || s.IsRegionFilterActive()
}

// DateFilterLabel returns the short label of the selected date filter.
func (s State) DateFilterLabel() string {
	return datefilter.Label(s.SelectedDateFilter)
}

// SortLabel returns the label of the selected sort.
func (s State) SortLabel() string {
	return SortLabel(s.SelectedSort)
}

// CurrentRegion returns the catalog entry of the selected region.
func (s State) CurrentRegion() (Region, bool) {
	return RegionByCode(s.SelectedRegion)
}

// Defaults are the values a fresh state starts from.
type Defaults struct {
	Region string
	Sort   SortOption
}

// Store owns the State. It is single-writer: callers must not mutate it
// from several goroutines at once.
type Store struct {
	kv    storage.KV
	state State
	log   *logger.Logger
}

// Open builds a Store with defaults and hydrates the persisted subset from
// kv. A persisted value that cannot be decoded is logged and ignored.
func Open(ctx context.Context, kv storage.KV, d Defaults) (*Store, error) {
	if d.Region == "" {
		d.Region = DefaultRegion
	}
	if _, ok := RegionByCode(d.Region); !ok {
		return nil, fmt.Errorf("unknown default region %q", d.Region)
	}
	d.Region = strings.ToUpper(d.Region)
	if d.Sort == "" {
		d.Sort = SortDateAsc
	}

	s := &Store{
		kv:  kv,
		log: logger.Named("filters"),
		state: State{
			SearchHistory:      []string{},
			SelectedCategory:   CategoryAll,
			SelectedRegion:     d.Region,
			SelectedDateFilter: datefilter.All,
			SelectedSort:       d.Sort,
			Favorites:          []string{},
			defaultRegion:      d.Region,
		},
	}

	if err := s.hydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) hydrate(ctx context.Context) error {
	if v, ok, err := s.kv.Get(ctx, KeySearchHistory); err != nil {
		return fmt.Errorf("load %s: %w", KeySearchHistory, err)
	} else if ok {
		var h []string
		if err := json.Unmarshal([]byte(v), &h); err != nil {
			s.log.Warn().Err(err).Str("key", KeySearchHistory).Msg("ignoring corrupt persisted value")
		} else {
			if len(h) > MaxHistory {
				h = h[:MaxHistory]
			}
			if h != nil {
				s.state.SearchHistory = h
			}
		}
	}

	if v, ok, err := s.kv.Get(ctx, KeySelectedRegion); err != nil {
		return fmt.Errorf("load %s: %w", KeySelectedRegion, err)
	} else if ok {
		if r, found := RegionByCode(v); found {
			s.state.SelectedRegion = r.Code
		} else {
			s.log.Warn().Str("key", KeySelectedRegion).Str("value", v).Msg("ignoring unknown persisted region")
		}
	}

	if v, ok, err := s.kv.Get(ctx, KeyFavorites); err != nil {
		return fmt.Errorf("load %s: %w", KeyFavorites, err)
	} else if ok {
		var ids []string
		if err := json.Unmarshal([]byte(v), &ids); err != nil {
			s.log.Warn().Err(err).Str("key", KeyFavorites).Msg("ignoring corrupt persisted value")
		} else {
			s.state.Favorites = dedupe(ids)
		}
	}

	return nil
}

// State returns a copy of the current selections.
func (s *Store) State() State {
	st := s.state
	st.SearchHistory = slices.Clone(s.state.SearchHistory)
	st.Favorites = slices.Clone(s.state.Favorites)
	return st
}

// SetSearchQuery sets the raw search text. It is not persisted.
func (s *Store) SetSearchQuery(q string) {
	s.state.SearchQuery = q
}

// SetCategory selects a category by id.
func (s *Store) SetCategory(id string) error {
	c, ok := CategoryByID(id)
	if !ok {
		return fmt.Errorf("unknown category %q", id)
	}
	s.state.SelectedCategory = c.ID
	return nil
}

// SetRegion selects and persists a region.
func (s *Store) SetRegion(ctx context.Context, code string) error {
	r, ok := RegionByCode(code)
	if !ok {
		return fmt.Errorf("unknown region %q", code)
	}
	if err := s.kv.Set(ctx, KeySelectedRegion, r.Code); err != nil {
		return fmt.Errorf("persist region: %w", err)
	}
	s.state.SelectedRegion = r.Code
	return nil
}

// SetDateFilter selects a date filter. Custom ranges are validated here so
// a bad range never reaches the query builder.
func (s *Store) SetDateFilter(f datefilter.Filter) error {
	if datefilter.IsCustom(f) {
		checked, err := datefilter.Custom(f.Start, f.End)
		if err != nil {
			return err
		}
		f = checked
	} else if f.Kind == "" {
		f = datefilter.All
	} else if !slices.Contains(datefilter.Presets, f.Kind) {
		return &datefilter.InvalidDateError{Value: string(f.Kind), Reason: "unknown date filter"}
	}
	s.state.SelectedDateFilter = f
	return nil
}

// SetSort selects a sort order.
func (s *Store) SetSort(o SortOption) error {
	if !slices.Contains(SortOptions, o) {
		return fmt.Errorf("unknown sort %q", o)
	}
	s.state.SelectedSort = o
	return nil
}

// AddToHistory records a search, most recent first. The query is trimmed;
// empty queries are ignored and an existing identical entry moves to the
// front.
func (s *Store) AddToHistory(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	h := make([]string, 0, MaxHistory)
	h = append(h, q)
	for _, existing := range s.state.SearchHistory {
		if existing != q {
			h = append(h, existing)
		}
	}
	if len(h) > MaxHistory {
		h = h[:MaxHistory]
	}
	return s.saveHistory(ctx, h)
}

// RemoveFromHistory drops an exact entry from the history.
func (s *Store) RemoveFromHistory(ctx context.Context, q string) error {
	h := slices.DeleteFunc(slices.Clone(s.state.SearchHistory), func(e string) bool { return e == q })
	return s.saveHistory(ctx, h)
}

// ClearHistory empties the history.
func (s *Store) ClearHistory(ctx context.Context) error {
	if err := s.kv.Remove(ctx, KeySearchHistory); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.state.SearchHistory = []string{}
	return nil
}

func (s *Store) saveHistory(ctx context.Context, h []string) error {
	if h == nil {
		h = []string{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, KeySearchHistory, string(b)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	s.state.SearchHistory = h
	return nil
}

// ToggleFavorite adds id to the favorites, or removes it when present. It
// returns whether id is a favorite afterwards.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("event id is required")
	}

	favs := slices.Clone(s.state.Favorites)
	now := !slices.Contains(favs, id)
	if now {
		favs = append(favs, id)
	} else {
		favs = slices.DeleteFunc(favs, func(f string) bool { return f == id })
	}

	b, err := json.Marshal(favs)
	if err != nil {
		return false, fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, KeyFavorites, string(b)); err != nil {
		return false, fmt.Errorf("persist favorites: %w", err)
	}
	s.state.Favorites = favs
	return now, nil
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(id string) bool {
	return slices.Contains(s.state.Favorites, id)
}

// Favorites returns the favorite ids in the order they were added.
func (s *Store) Favorites() []string {
	return slices.Clone(s.state.Favorites)
}

// ClearFilters resets the date filter to all and the region to the
// default. Category and sort are left alone.
func (s *Store) ClearFilters(ctx context.Context) error {
	if err := s.SetRegion(ctx, s.state.defaultRegion); err != nil {
		return err
	}
	s.state.SelectedDateFilter = datefilter.All
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

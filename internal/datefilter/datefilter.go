// Package datefilter turns a date filter selection (a relative preset or an
// explicit calendar range) into the label shown to the user and into the
// startDateTime/endDateTime pair sent to the listing API.
package datefilter

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the Filter variants.
type Kind string

const (
	KindAll     Kind = "all"
	KindToday   Kind = "today"
	KindWeekend Kind = "weekend"
	KindWeek    Kind = "week"
	KindMonth   Kind = "month"
	KindCustom  Kind = "custom"
)

// Presets lists the preset kinds in menu order.
var Presets = []Kind{KindAll, KindToday, KindWeekend, KindWeek, KindMonth}

// DateLayout is the layout of a CalendarDate.
const DateLayout = "2006-01-02"

// WireLayout is the timestamp layout the ticketing API accepts: UTC, whole seconds.
const WireLayout = "2006-01-02T15:04:05Z"

// CalendarDate is a YYYY-MM-DD date with no time of day.
type CalendarDate string

// In parses d as local midnight in loc.
func (d CalendarDate) In(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: string(d), Reason: "expected YYYY-MM-DD"}
	}
	return t, nil
}

// ParseCalendarDate validates s and returns it as a CalendarDate.
func ParseCalendarDate(s string) (CalendarDate, error) {
	d := CalendarDate(strings.TrimSpace(s))
	if _, err := d.In(time.UTC); err != nil {
		return "", err
	}
	return d, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate(t.Format(DateLayout))
}

// InvalidDateError reports a malformed calendar date or an unusable range.
type InvalidDateError struct {
	Value  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Value, e.Reason)
}

// Filter is the tagged union of date filter selections. Start and End are
// only meaningful when Kind is KindCustom. The zero value behaves as KindAll.
type Filter struct {
	Kind  Kind         `json:"kind"`
	Start CalendarDate `json:"start_date,omitempty"`
	End   CalendarDate `json:"end_date,omitempty"`
}

// All is the filter that applies no date bound.
var All = Filter{Kind: KindAll}

// Preset returns the filter for a preset kind.
func Preset(k Kind) Filter {
	return Filter{Kind: k}
}

// Custom builds a custom range. Both dates must be well formed and start
// must not be after end.
func Custom(start, end CalendarDate) (Filter, error) {
	s, err := ParseCalendarDate(string(start))
	if err != nil {
		return Filter{}, err
	}
	e, err := ParseCalendarDate(string(end))
	if err != nil {
		return Filter{}, err
	}
	if s > e {
		return Filter{}, &InvalidDateError{Value: string(s) + ".." + string(e), Reason: "start is after end"}
	}
	return Filter{Kind: KindCustom, Start: s, End: e}, nil
}

// IsCustom reports whether f is an explicit calendar range.
func IsCustom(f Filter) bool {
	return f.Kind == KindCustom
}

// IsAll reports whether f applies no date bound.
func IsAll(f Filter) bool {
	return f.Kind == KindAll || f.Kind == ""
}

// Parse reads the text form used on the command line: a preset name or
// "YYYY-MM-DD..YYYY-MM-DD". An empty string is KindAll.
func Parse(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All, nil
	}
	for _, k := range Presets {
		if s == string(k) {
			return Preset(k), nil
		}
	}
	if start, end, ok := strings.Cut(s, ".."); ok {
		return Custom(CalendarDate(start), CalendarDate(end))
	}
	return Filter{}, &InvalidDateError{Value: s, Reason: "expected all, today, weekend, week, month or START..END"}
}

// String returns the text form accepted by Parse.
func (f Filter) String() string {
	if IsCustom(f) {
		return string(f.Start) + ".." + string(f.End)
	}
	if f.Kind == "" {
		return string(KindAll)
	}
	return string(f.Kind)
}

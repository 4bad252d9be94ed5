package datefilter

import "time"

var shortLabels = map[Kind]string{
	KindAll:     "Any",
	KindToday:   "Today",
	KindWeekend: "Wknd",
	KindWeek:    "Week",
	KindMonth:   "Month",
}

var presetLabels = map[Kind]string{
	KindAll:     "All Dates",
	KindToday:   "Today",
	KindWeekend: "This Weekend",
	KindWeek:    "This Week",
	KindMonth:   "This Month",
}

// Label returns the short chip label for f. Custom ranges render as
// "Mar 15 - Mar 20" regardless of year.
func Label(f Filter) string {
	if IsCustom(f) {
		return shortDate(f.Start) + " - " + shortDate(f.End)
	}
	if f.Kind == "" {
		return shortLabels[KindAll]
	}
	if l, ok := shortLabels[f.Kind]; ok {
		return l
	}
	return "Date"
}

// PresetLabel returns the long menu label for a preset kind.
func PresetLabel(k Kind) string {
	if l, ok := presetLabels[k]; ok {
		return l
	}
	return string(k)
}

func shortDate(d CalendarDate) string {
	t, err := d.In(time.UTC)
	if err != nil {
		return string(d)
	}
	return t.Format("Jan 2")
}

// Bounds is an inclusive calendar-day range.
type Bounds struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// Range is the API-ready date window. An empty field is unbounded.
type Range struct {
	StartDateTime string `json:"startDateTime,omitempty"`
	EndDateTime   string `json:"endDateTime,omitempty"`
}

// PresetBounds returns the calendar days a preset covers relative to now.
// KindAll (and any non-preset kind) has no bounds and returns false.
//
// Weekend: on Saturday the range is Saturday..Sunday, on Sunday it is the
// single day, otherwise it is the coming Saturday..Sunday. Week ends on
// today + (7 - weekday) with Sunday as weekday 0, so on a Sunday it runs to
// the following Sunday.
func PresetBounds(k Kind, now time.Time) (Bounds, bool) {
	start, end, ok := presetDays(k, now)
	if !ok {
		return Bounds{}, false
	}
	return Bounds{Start: DateOf(start), End: DateOf(end)}, true
}

func presetDays(k Kind, now time.Time) (time.Time, time.Time, bool) {
	today := startOfDay(now)
	switch k {
	case KindToday:
		return today, today, true
	case KindWeekend:
		switch today.Weekday() {
		case time.Saturday:
			return today, today.AddDate(0, 0, 1), true
		case time.Sunday:
			return today, today, true
		default:
			sat := today.AddDate(0, 0, int(time.Saturday-today.Weekday()))
			return sat, sat.AddDate(0, 0, 1), true
		}
	case KindWeek:
		return today, today.AddDate(0, 0, 7-int(today.Weekday())), true
	case KindMonth:
		y, m, _ := today.Date()
		return today, time.Date(y, m+1, 0, 0, 0, 0, 0, today.Location()), true
	}
	return time.Time{}, time.Time{}, false
}

// Resolve converts f into API timestamps relative to now. Local days are
// taken in now's location.
//
// Presets start at now, or at local midnight of their first day when that
// is later (a weekend asked for on a weekday), and end at 23:59:59 local of
// their last day. Custom ranges run from local midnight of Start to
// 23:59:59 local of End.
func Resolve(f Filter, now time.Time) (Range, error) {
	switch f.Kind {
	case KindAll, "":
		return Range{}, nil
	case KindCustom:
		loc := now.Location()
		start, err := f.Start.In(loc)
		if err != nil {
			return Range{}, err
		}
		end, err := f.End.In(loc)
		if err != nil {
			return Range{}, err
		}
		if start.After(end) {
			return Range{}, &InvalidDateError{Value: f.String(), Reason: "start is after end"}
		}
		return Range{StartDateTime: wire(start), EndDateTime: wire(endOfDay(end))}, nil
	}

	first, last, ok := presetDays(f.Kind, now)
	if !ok {
		return Range{}, &InvalidDateError{Value: string(f.Kind), Reason: "unknown date filter"}
	}
	from := now
	if first.After(now) {
		from = first
	}
	return Range{StartDateTime: wire(from), EndDateTime: wire(endOfDay(last))}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// wire formats t for the API. Format drops the fractional part, which is
// the truncation the API expects.
func wire(t time.Time) string {
	return t.UTC().Format(WireLayout)
}

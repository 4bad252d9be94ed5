package datefilter

import "time"

// RangePicker holds an in-progress custom range selection made by tapping
// days. The first tap sets the start, the second sets the end (swapping
// when it lands before the start) and a further tap starts over.
type RangePicker struct {
	start CalendarDate
	end   CalendarDate
}

// NewRangePicker seeds the picker from the current filter when it is a
// custom range.
func NewRangePicker(current Filter) *RangePicker {
	p := &RangePicker{}
	if IsCustom(current) {
		p.start, p.end = current.Start, current.End
	}
	return p
}

// Tap records a selected day.
func (p *RangePicker) Tap(day CalendarDate) error {
	d, err := ParseCalendarDate(string(day))
	if err != nil {
		return err
	}
	if p.start == "" || p.end != "" {
		p.start, p.end = d, ""
		return nil
	}
	if d < p.start {
		p.start, p.end = d, p.start
		return nil
	}
	p.end = d
	return nil
}

// Start returns the selected start, or "" when none.
func (p *RangePicker) Start() CalendarDate { return p.start }

// End returns the selected end, or "" when none.
func (p *RangePicker) End() CalendarDate { return p.end }

// Reset clears the selection.
func (p *RangePicker) Reset() {
	p.start, p.end = "", ""
}

// Apply returns the custom filter once both ends are chosen.
func (p *RangePicker) Apply() (Filter, bool) {
	if p.start == "" || p.end == "" {
		return Filter{}, false
	}
	return Filter{Kind: KindCustom, Start: p.start, End: p.end}, true
}

// Days lists every selected day in order: just the start while the end is
// open, the whole inclusive range once it is closed.
func (p *RangePicker) Days() []CalendarDate {
	if p.start == "" {
		return nil
	}
	if p.end == "" {
		return []CalendarDate{p.start}
	}
	start, err := p.start.In(time.UTC)
	if err != nil {
		return nil
	}
	end, err := p.end.In(time.UTC)
	if err != nil {
		return nil
	}
	var days []CalendarDate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, DateOf(d))
	}
	return days
}

// Package calendar exports events as an iCalendar (.ics) feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/runnerr0/eventspot/internal/datefilter"
	"github.com/runnerr0/eventspot/internal/format"
	"github.com/runnerr0/eventspot/internal/logger"
	"github.com/runnerr0/eventspot/internal/ticketmaster"
)

// ProductID identifies the generator in the PRODID property.
const ProductID = "-//eventspot//favorites//EN"

// UIDSuffix makes event UIDs globally unique.
const UIDSuffix = "@eventspot"

// Write serializes events as a VCALENDAR to w. Events with an exact start
// become timed entries; events with only a local date become all-day
// entries. Events without any date are skipped. It returns the number of
// events written.
func Write(w io.Writer, events []ticketmaster.Event, now time.Time) (int, error) {
	log := logger.Named("calendar")

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetName("eventspot favorites")

	written := 0
	for _, e := range events {
		if !addEvent(cal, e, now) {
			log.Debug().Str("event_id", e.ID).Msg("skipping event without a date")
			continue
		}
		written++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("write calendar: %w", err)
	}
	return written, nil
}

func addEvent(cal *ical.Calendar, e ticketmaster.Event, now time.Time) bool {
	start, timed := eventStart(e)
	if start.IsZero() {
		return false
	}

	ve := cal.AddEvent(e.ID + UIDSuffix)
	ve.SetDtStampTime(now.UTC())
	if timed {
		ve.SetStartAt(start)
	} else {
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
	}
	ve.SetSummary(e.Name)
	if e.URL != "" {
		ve.SetURL(e.URL)
	}
	if loc := location(e.Venue); loc != "" {
		ve.SetLocation(loc)
	}
	if desc := description(e); desc != "" {
		ve.SetDescription(desc)
	}
	return true
}

// eventStart prefers the exact UTC start and falls back to the local date.
func eventStart(e ticketmaster.Event) (time.Time, bool) {
	if e.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, e.DateTime); err == nil {
			return t.UTC(), true
		}
	}
	if e.Date != "" {
		if d, err := datefilter.ParseCalendarDate(e.Date); err == nil {
			if t, err := d.In(time.UTC); err == nil {
				return t, false
			}
		}
	}
	return time.Time{}, false
}

func location(v *ticketmaster.Venue) string {
	if v == nil {
		return ""
	}
	var parts []string
	for _, p := range []string{v.Name, v.Address, v.City, v.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func description(e ticketmaster.Event) string {
	var lines []string
	if e.Genre != "" {
		lines = append(lines, e.Genre)
	}
	if e.PriceRange != nil {
		lines = append(lines, format.PriceRange(e.PriceRange.Min, e.PriceRange.Max, e.PriceRange.Currency))
	}
	if e.Info != "" {
		lines = append(lines, e.Info)
	}
	return strings.Join(lines, "\n")
}

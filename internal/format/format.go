// Package format renders events for display: relative dates, 12-hour
// times, prices and result counts.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/runnerr0/eventspot/internal/datefilter"
)

// DefaultCurrency is used when an event carries no currency code.
const DefaultCurrency = "USD"

var printer = message.NewPrinter(language.AmericanEnglish)

// EventDate renders an event's local date relative to now: "Today",
// "Tomorrow", "This Sat" within the week, "Next Sat" the week after, and
// "Mon, Apr 15" otherwise. An unparseable date is returned unchanged.
func EventDate(date string, now time.Time) string {
	d, err := datefilter.ParseCalendarDate(date)
	if err != nil {
		return date
	}
	day, err := d.In(now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Count calendar days, not 24h spans, so DST shifts do not matter.
	diff := int(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Sub(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)).Hours() / 24)

	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff >= 2 && diff <= 6:
		return "This " + day.Format("Mon")
	case diff >= 7 && diff <= 13:
		return "Next " + day.Format("Mon")
	}
	return day.Format("Mon, Jan 2")
}

// EventTime renders "19:30:00" or "19:30" as "7:30 PM". Anything else is
// returned unchanged.
func EventTime(clock string) string {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return clock
}

// Price renders a whole-unit amount with the currency's narrow symbol,
// e.g. "$45" or "£1,200". Unknown codes are written out: "XYZ 45".
func Price(amount float64, code string) string {
	if code == "" {
		code = DefaultCurrency
	}
	digits := printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))

	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + digits
	}
	return printer.Sprint(currency.NarrowSymbol(unit)) + digits
}

// PriceRange renders "$45 - $120", or a single price when min equals max.
func PriceRange(min, max float64, code string) string {
	if min == max {
		return Price(min, code)
	}
	return Price(min, code) + " - " + Price(max, code)
}

// ResultCount summarizes a total: "No events", "42 events", "150+ events"
// from 100 up, and "1000+ events" from 1000 up.
func ResultCount(total int) string {
	switch {
	case total <= 0:
		return "No events"
	case total >= 1000:
		return "1000+ events"
	case total >= 100:
		return fmt.Sprintf("%d+ events", total/10*10)
	}
	return fmt.Sprintf("%d events", total)
}

// Number renders n with thousands separators.
func Number(n int) string {
	return printer.Sprint(number.Decimal(n))
}

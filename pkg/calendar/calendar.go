// Package calendar exports day plans as iCalendar documents.
package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/toria/pkg/domain"
	ics "github.com/arran4/golang-ical"
)

const (
	productID       = "-//Toria//Day Plans//EN"
	dayStart        = 9 * time.Hour
	defaultDuration = time.Hour
	maxDuration     = 24 * time.Hour

	// Stop times are wall-clock times at the destination, so events are
	// written as floating local times (no Z suffix, no TZID).
	floatingFormat = "20060102T150405"
)

// ErrNoStops is returned for a plan without any stop to export.
var ErrNoStops = errors.New("day plan has no stops")

var durationPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)\b`)

// Export renders plan as a VCALENDAR with one VEVENT per stop.
// Stops without a time start when the previous one ends; the first defaults to 09:00.
func Export(plan *domain.Itinerary, stamp time.Time) (string, error) {
	if len(plan.Stops) == 0 {
		return "", ErrNoStops
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calendarName(plan))

	// Wall-clock arithmetic on a UTC base avoids DST shifts; the zone is dropped on output.
	day := time.Date(plan.Date.Year(), plan.Date.Month(), plan.Date.Day(), 0, 0, 0, 0, time.UTC)
	next := day.Add(dayStart)

	for i, stop := range plan.Stops {
		start := next
		if at, ok := clock(stop.Time); ok {
			start = day.Add(at)
		}
		end := start.Add(ParseDuration(stop.Duration))
		next = end

		id := stop.ID
		if id == "" {
			id = strconv.Itoa(i)
		}
		event := cal.AddEvent(fmt.Sprintf("%s-%s@toria", plan.ID, id))
		event.SetDtStampTime(stamp.UTC())
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(floatingFormat))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(floatingFormat))
		event.SetSummary(stop.Name)
		if loc := location(stop, plan.City); loc != "" {
			event.SetLocation(loc)
		}
		if stop.Description != "" {
			event.SetDescription(stop.Description)
		}
	}

	return cal.Serialize(), nil
}

// ParseDuration reads free-form stop durations such as "2 hours", "90 min" or
// "1h30m". Anything unreadable, or longer than a day, counts as one hour.
func ParseDuration(raw string) time.Duration {
	if d, err := time.ParseDuration(strings.ReplaceAll(raw, " ", "")); err == nil {
		if d <= 0 || d > maxDuration {
			return defaultDuration
		}
		return d
	}
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil {
		return defaultDuration
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || n <= 0 {
		return defaultDuration
	}
	unit := time.Minute
	if strings.HasPrefix(strings.ToLower(m[2]), "h") {
		unit = time.Hour
	}
	// Compare as float first: the product may not fit in an int64.
	if n*float64(unit) > float64(maxDuration) {
		return defaultDuration
	}
	return time.Duration(n * float64(unit))
}

func clock(raw string) (time.Duration, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

func location(stop domain.Stop, city string) string {
	switch {
	case stop.Address != "":
		return stop.Address
	case city != "":
		return stop.Name + ", " + city
	default:
		return ""
	}
}

func calendarName(plan *domain.Itinerary) string {
	if plan.Title != "" {
		return plan.Title
	}
	return "Day in " + plan.City
}

// Package timegrid turns operating hours into candidate reservation windows.
// Generation is pure: no I/O, deterministic output, finite for any input.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a restaurant carries no usable configuration.
const (
	DefaultOpen         = "10:00"
	DefaultClose        = "22:00"
	DefaultSlotDuration = 90 * time.Minute
	DefaultStep         = 30 * time.Minute
)

// Window is a half-open candidate interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Params describes one day of service.
type Params struct {
	Open         string // "HH:MM" local wall-clock
	Close        string // "HH:MM"; at or before Open means overnight service
	SlotDuration time.Duration
	Step         time.Duration
}

// Generate produces the ordered slot windows for a calendar day in the given
// location. Starts advance by Step; every window satisfies
// start + SlotDuration <= close, with close rolled to the next day for
// overnight hours. Unparsable hours fall back to the default window.
func Generate(date time.Time, loc *time.Location, p Params) []Window {
	if loc == nil {
		loc = time.Local
	}
	if p.SlotDuration <= 0 {
		p.SlotDuration = DefaultSlotDuration
	}
	if p.Step <= 0 {
		p.Step = DefaultStep
	}

	openAt, err := onDate(date, loc, p.Open)
	if err != nil {
		openAt, _ = onDate(date, loc, DefaultOpen)
	}
	closeAt, err := onDate(date, loc, p.Close)
	if err != nil {
		closeAt, _ = onDate(date, loc, DefaultClose)
	}

	// Overnight service: close wall-clock at or before open rolls to the
	// next day, so a 18:00-02:00 restaurant still yields late windows.
	if !closeAt.After(openAt) {
		closeAt = closeAt.AddDate(0, 0, 1)
	}

	var windows []Window
	for cursor := openAt; !cursor.Add(p.SlotDuration).After(closeAt); cursor = cursor.Add(p.Step) {
		windows = append(windows, Window{Start: cursor, End: cursor.Add(p.SlotDuration)})
	}
	return windows
}

// onDate parses an "HH:MM" string onto a calendar date in loc.
func onDate(date time.Time, loc *time.Location, clock string) (time.Time, error) {
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour: %w", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %s", clock)
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}

// DayBounds returns [local midnight, next local midnight) for a date in loc.
// All day-boundary math goes through here; callers convert the bounds to UTC
// for storage queries so a day never leaks across a DST or offset change.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Overlapping reports whether two half-open intervals intersect.
func Overlapping(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

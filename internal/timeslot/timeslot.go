// Package timeslot is the minute-of-day interval model shared by the
// availability calculator, the booking collision guard and the waitlist
// fulfillment engine. All intervals are half-open [start, end): touching
// endpoints do not overlap.
package timeslot

import (
	"fmt"
	"time"
)

// StepMinutes is the booking grid granularity.
const StepMinutes = 30

// MinutesPerDay allows CloseMinute == 1440 (end-of-day midnight).
const MinutesPerDay = 24 * 60

// Interval is a busy window in minutes since local midnight.
type Interval struct {
	StartMin int
	EndMin   int
}

// Overlaps reports whether [startMin, startMin+durationMin) intersects
// any of the busy intervals.
func Overlaps(startMin, durationMin int, busy []Interval) bool {
	end := startMin + durationMin
	for _, b := range busy {
		if startMin < b.EndMin && end > b.StartMin {
			return true
		}
	}
	return false
}

// MinuteOfDay converts a timestamp to minutes since local midnight (0-1439).
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatMinute renders a minute-of-day value as zero-padded HH:MM.
// Minute 1440 renders as 24:00.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseMinute parses a zero-padded HH:MM label back to minutes since
// midnight. "24:00" is accepted as end-of-day.
func ParseMinute(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	total := h*60 + m
	if h < 0 || m < 0 || m > 59 || total > MinutesPerDay {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return total, nil
}

// DayBounds returns the local [midnight, midnight+24h) bounds of the day
// containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// AtMinute returns the timestamp at the given minute of day's calendar day.
func AtMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minute, 0, 0, day.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

// DayKey formats the date-only key used by the waitlist tuple.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date without a time zone, serialized as "2006-01-02".
// The zero value means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses an ISO calendar date. An empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("models: parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Weekday returns the day of the week the date falls on.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// DaysBetween returns the number of whole days from a to b; negative when b
// is earlier than a.
func DaysBetween(a, b Date) int {
	return int(b.Time(time.UTC).Sub(a.Time(time.UTC)) / (24 * time.Hour))
}

// MarshalJSON encodes the date as "2006-01-02", or "" when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "2006-01-02" or "" (unset).
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a local wall-clock time with minute resolution. The canonical
// textual form is 24-hour "15:04"; the 12-hour "3:04 PM" form is accepted on
// parse so divergent data sources normalize here. The zero value means
// "no time set" and is distinct from midnight.
type TimeOfDay struct {
	hour   int
	minute int
	set    bool
}

// NewTimeOfDay constructs a set time of day. Values outside the valid range
// are normalized modulo the day.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	hour = ((hour % 24) + 24) % 24
	minute = ((minute % 60) + 60) % 60
	return TimeOfDay{hour: hour, minute: minute, set: true}
}

// ParseTimeOfDay parses "15:04" or "3:04 PM"/"3:04 am". An empty string
// yields the unset zero value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeOfDay{}, nil
	}
	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute()), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("models: parse time of day %q", s)
}

// ClockOf returns the wall-clock time of t truncated to the minute.
func ClockOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

// IsZero reports whether the time is unset.
func (c TimeOfDay) IsZero() bool {
	return !c.set
}

// Hour returns the hour in [0, 23]; zero when unset.
func (c TimeOfDay) Hour() int { return c.hour }

// Minute returns the minute in [0, 59]; zero when unset.
func (c TimeOfDay) Minute() int { return c.minute }

// Minutes returns minutes since midnight; -1 when unset so unset times sort
// before midnight.
func (c TimeOfDay) Minutes() int {
	if !c.set {
		return -1
	}
	return c.hour*60 + c.minute
}

func (c TimeOfDay) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}

// Format12 renders the time in 12-hour form ("3:04 PM"); empty when unset.
func (c TimeOfDay) Format12() string {
	if !c.set {
		return ""
	}
	return time.Date(0, 1, 1, c.hour, c.minute, 0, 0, time.UTC).Format("3:04 PM")
}

// On returns the instant of this wall-clock time on the calendar day of t,
// in t's location.
func (c TimeOfDay) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.hour, c.minute, 0, 0, t.Location())
}

// MarshalJSON encodes the canonical "15:04" form, or "" when unset.
func (c TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts 24-hour, 12-hour, or "" (unset).
func (c *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MinuteKey returns t's calendar minute as "2006-01-02T15:04". The alarm
// scheduler uses it to mark alarms already fired in the current minute.
func MinuteKey(t time.Time) string {
	return t.Format("2006-01-02T15:04")
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage layout for calendar dates.
const DateLayout = "2006-01-02"

// dateTimeLayouts are accepted for event dates that carry a time of day.
// Layouts without an offset are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Day is a calendar date with no time-of-day or zone. The zero Day is
// "unset" and is rejected by validation wherever a date is required.
type Day struct {
	t time.Time // always midnight UTC
}

// NewDay returns the calendar date y-m-d. Out-of-range values normalize the
// way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay accepts "2006-01-02" or an RFC3339 date-time, keeping only the
// date component as written.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DayOf(t), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

// MustParseDay is ParseDay for literals known to be valid.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date.
func (d Day) Time() time.Time { return d.t }

func (d Day) AddDays(n int) Day {
	if d.IsZero() {
		return d
	}
	return Day{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to other (negative if
// other is earlier).
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool  { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool  { return d.t.Equal(other.t) }

func (d Day) Compare(other Day) int { return d.t.Compare(other.t) }

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Moment is an event date: either a bare calendar date or a date-time.
// Only the calendar date takes part in week membership; the time of day is
// kept for ordering and display.
type Moment struct {
	at    time.Time
	timed bool
}

// OnDay returns an all-day Moment.
func OnDay(d Day) Moment {
	return Moment{at: d.Time()}
}

// At returns a timed Moment. The location of t is preserved and decides
// which calendar date the moment belongs to.
func At(t time.Time) Moment {
	return Moment{at: t, timed: true}
}

// ParseMoment accepts "2006-01-02" (all-day) or a date-time in one of the
// supported layouts.
func ParseMoment(s string) (Moment, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Moment{at: t}, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return At(t), nil
		}
	}
	return Moment{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC3339)", s)
}

func (m Moment) IsZero() bool { return m.at.IsZero() }

// Timed reports whether the moment carries a time of day.
func (m Moment) Timed() bool { return m.timed }

// Time returns the underlying instant (midnight UTC for all-day moments).
func (m Moment) Time() time.Time { return m.at }

// Day returns the calendar date of the moment as written.
func (m Moment) Day() Day {
	if m.IsZero() {
		return Day{}
	}
	return DayOf(m.at)
}

// Compare orders by calendar date, then all-day before timed, then by
// instant, so timed moments written with different offsets on the same
// date keep their real order.
func (m Moment) Compare(other Moment) int {
	if c := m.Day().Compare(other.Day()); c != 0 {
		return c
	}
	switch {
	case !m.timed && other.timed:
		return -1
	case m.timed && !other.timed:
		return 1
	case !m.timed:
		return 0
	}
	return m.at.Compare(other.at)
}

// Equal reports whether both moments render identically.
func (m Moment) Equal(other Moment) bool {
	return m.String() == other.String()
}

func (m Moment) String() string {
	switch {
	case m.IsZero():
		return ""
	case m.timed:
		return m.at.Format(time.RFC3339)
	default:
		return m.at.Format(DateLayout)
	}
}

// Display renders the moment for humans: the date, plus "15:04" when timed.
func (m Moment) Display() string {
	if !m.timed {
		return m.String()
	}
	return m.at.Format("2006-01-02 15:04")
}

func (m Moment) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Moment) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = Moment{}
		return nil
	}
	parsed, err := ParseMoment(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Package timeline generates practicum timelines, derives their bucketed
// views and holds the editor state machine that mutates them.
package timeline

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/schologic/practicum/internal/domain"
)

const (
	daysPerWeek = 7
	// monthly cadence is a fixed 30-day step, not a calendar month.
	daysPerMonth = 30
)

// IDFunc mints event ids.
type IDFunc func() string

// NewID returns a random UUID v4 string.
func NewID() string {
	return uuid.NewString()
}

// Generator builds default timelines for a cohort.
type Generator struct {
	newID IDFunc
}

// NewGenerator returns a Generator using newID for event ids, or random
// UUIDs when newID is nil.
func NewGenerator(newID IDFunc) *Generator {
	if newID == nil {
		newID = NewID
	}
	return &Generator{newID: newID}
}

// Generate builds a timeline with random event ids.
func Generate(start, end domain.Day, interval domain.LogInterval, label string) (domain.TimelineConfig, error) {
	return NewGenerator(nil).Generate(start, end, interval, label)
}

// Generate partitions [start, end] into weeks, projects recurring log
// events at the interval's cadence and adds the fixed cohort milestones.
// Identical inputs give identical weeks and events that differ only in id.
func (g *Generator) Generate(start, end domain.Day, interval domain.LogInterval, label string) (domain.TimelineConfig, error) {
	if start.IsZero() || end.IsZero() {
		verr := &domain.ValidationError{}
		if start.IsZero() {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "start_date", Message: "start_date is a required field"})
		}
		if end.IsZero() {
			verr.Fields = append(verr.Fields, domain.FieldError{Field: "end_date", Message: "end_date is a required field"})
		}
		return domain.TimelineConfig{}, verr
	}
	if start.After(end) {
		return domain.TimelineConfig{}, &domain.InvalidRangeError{Start: start, End: end}
	}
	if !interval.Valid() {
		return domain.TimelineConfig{}, domain.NewValidationError("log_interval",
			fmt.Sprintf("log_interval must be one of daily, weekly, monthly, got %q", interval))
	}

	weeks := partitionWeeks(start, end)

	var events []domain.TimelineEvent
	for _, d := range logDates(start, end, interval, weeks) {
		events = append(events, domain.TimelineEvent{
			ID:       g.newID(),
			Title:    logTitle(interval, label, d),
			Date:     domain.OnDay(d),
			Type:     domain.EventLog,
			IsSystem: true,
		})
	}
	events = append(events, g.milestones(start, end)...)

	slices.SortStableFunc(events, func(a, b domain.TimelineEvent) int {
		return a.Date.Compare(b.Date)
	})

	return domain.TimelineConfig{Weeks: weeks, Events: events}, nil
}

// partitionWeeks cuts [start, end] into 7-day windows from start, the last
// one truncated at end.
func partitionWeeks(start, end domain.Day) []domain.TimelineWeek {
	total := start.DaysUntil(end) + 1
	weeks := make([]domain.TimelineWeek, 0, (total+daysPerWeek-1)/daysPerWeek)
	for n, ws := 1, start; !ws.After(end); n, ws = n+1, ws.AddDays(daysPerWeek) {
		we := ws.AddDays(daysPerWeek - 1)
		if we.After(end) {
			we = end
		}
		weeks = append(weeks, domain.TimelineWeek{
			WeekNumber: n,
			Label:      fmt.Sprintf("Week %d", n),
			StartDate:  ws,
			EndDate:    we,
		})
	}
	return weeks
}

// logDates returns the due dates of recurring log submissions.
func logDates(start, end domain.Day, interval domain.LogInterval, weeks []domain.TimelineWeek) []domain.Day {
	var dates []domain.Day
	switch interval {
	case domain.LogDaily:
		for d := start; !d.After(end); d = d.AddDays(1) {
			dates = append(dates, d)
		}
	case domain.LogWeekly:
		for _, w := range weeks {
			dates = append(dates, w.EndDate)
		}
	case domain.LogMonthly:
		// Each 30-day interval closes 29 days after it opens; the last one
		// closes at end.
		for open := start; !open.After(end); open = open.AddDays(daysPerMonth) {
			closes := open.AddDays(daysPerMonth - 1)
			if closes.After(end) {
				closes = end
			}
			dates = append(dates, closes)
		}
	}
	return dates
}

func logTitle(interval domain.LogInterval, label string, d domain.Day) string {
	if label == "" {
		return fmt.Sprintf("%s Log (%s)", interval.Title(), d)
	}
	return fmt.Sprintf("%s Log – %s (%s)", interval.Title(), label, d)
}

func (g *Generator) milestones(start, end domain.Day) []domain.TimelineEvent {
	midpoint := start.AddDays(int(math.Round(float64(start.DaysUntil(end)) / 2)))
	defaults := []struct {
		title string
		day   domain.Day
		typ   domain.EventType
		desc  string
	}{
		{"Enrollment Opens", start, domain.EventMilestone, "Students join the cohort and confirm their placement."},
		{"Midpoint Check-in", midpoint, domain.EventMeeting, "Supervisor review of progress at the halfway mark."},
		{"Final Report Due", end, domain.EventReport, "Submit the final practicum report."},
		{"Cohort Closeout", end.AddDays(1), domain.EventMilestone, "Evaluations are finalized and the cohort is closed."},
	}

	events := make([]domain.TimelineEvent, 0, len(defaults))
	for _, m := range defaults {
		events = append(events, domain.TimelineEvent{
			ID:          g.newID(),
			Title:       m.title,
			Date:        domain.OnDay(m.day),
			Type:        m.typ,
			Description: m.desc,
			IsSystem:    true,
		})
	}
	return events
}

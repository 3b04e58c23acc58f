package formatter

import (
	"fmt"
	"strings"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/service"
	"github.com/schologic/practicum/internal/timeline"
)

const (
	PreWeekHeading  = "Before week 1"
	PostWeekHeading = "After the last week"
	EmptyTimeline   = "No events to show."
)

// WeekHeading returns e.g. "Week 2 · 2026-01-12 → 2026-01-18".
func WeekHeading(w domain.TimelineWeek) string {
	label := w.Label
	if label == "" {
		label = fmt.Sprintf("Week %d", w.WeekNumber)
	}
	return fmt.Sprintf("%s · %s", label, DayRange(w.StartDate, w.EndDate))
}

// FormatEventLine renders one event on a single line: date, type, title.
func FormatEventLine(e domain.TimelineEvent) string {
	date := e.Date.Display()
	title := e.Title
	if e.Type == domain.EventLog {
		title = Dim(title)
	}
	line := fmt.Sprintf("%-16s  %s  %s", date, EventTypeBadge(e.Type), title)
	if !e.IsSystem {
		line += Dim("  (custom)")
	}
	return line
}

// HiddenLogsNote returns the notice shown while logs are filtered out, or
// "" when none are hidden.
func HiddenLogsNote(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%s hidden", Plural(n, "log event"))
}

// FormatTimeline renders a derived view: the pre-week bucket, each week
// with visible events, then the post-week bucket. Descriptions are shown
// indented under their event.
func FormatTimeline(v timeline.View) string {
	var b strings.Builder

	section := func(heading string, events []domain.TimelineEvent) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(heading))
		b.WriteString("\n")
		for _, e := range events {
			b.WriteString("  ")
			b.WriteString(FormatEventLine(e))
			b.WriteString("\n")
			if e.Description != "" {
				b.WriteString("      ")
				b.WriteString(Dim(e.Description))
				b.WriteString("\n")
			}
		}
	}

	if v.Empty() {
		b.WriteString(Dim(EmptyTimeline))
		b.WriteString("\n")
	} else {
		if len(v.Pre) > 0 {
			section(PreWeekHeading, v.Pre)
		}
		for _, wb := range v.Weeks {
			section(WeekHeading(wb.Week), wb.Events)
		}
		if len(v.Post) > 0 {
			section(PostWeekHeading, v.Post)
		}
	}

	if note := HiddenLogsNote(v.HiddenLogs); note != "" {
		b.WriteString("\n")
		b.WriteString(Dim(note))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatLogSchedule renders the next log deadline, the last one passed and
// the next few other events.
func FormatLogSchedule(p *domain.Practicum, s *service.LogSchedule) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s · %s", p.DisplayID(), p.Title)))
	b.WriteString("\n")

	switch {
	case s.Total == 0:
		b.WriteString(Dim("This timeline has no log events."))
		b.WriteString("\n")
	case s.Next == nil:
		fmt.Fprintf(&b, "All %s are past due dates.\n", Plural(s.Total, "log"))
	default:
		fmt.Fprintf(&b, "Next log   %s  %s  %s\n",
			s.Next.Date.Display(), RelativeDayStyled(s.Next.Date.Day(), s.Today), s.Next.Title)
		fmt.Fprintf(&b, "Remaining  %d of %d\n", s.Remaining, s.Total)
	}
	if s.Previous != nil {
		fmt.Fprintf(&b, "Last log   %s  %s\n", s.Previous.Date.Display(), Dim(RelativeDay(s.Previous.Date.Day(), s.Today)))
	}

	if len(s.Upcoming) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("Coming up"))
		b.WriteString("\n")
		for _, e := range s.Upcoming {
			b.WriteString("  ")
			b.WriteString(FormatEventLine(e))
			b.WriteString("\n")
		}
	}
	return b.String()
}

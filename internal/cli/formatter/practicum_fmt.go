package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/schologic/practicum/internal/domain"
)

// Phase is where a cohort sits relative to a day.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseActive   Phase = "active"
	PhaseEnded    Phase = "ended"
)

// PracticumPhase classifies p against today.
func PracticumPhase(p *domain.Practicum, today domain.Day) Phase {
	switch {
	case today.Before(p.StartDate):
		return PhaseUpcoming
	case today.After(p.EndDate):
		return PhaseEnded
	default:
		return PhaseActive
	}
}

// PhasePill returns a colored phase indicator.
func PhasePill(ph Phase) string {
	switch ph {
	case PhaseActive:
		return StyleGreen.Render("● Active")
	case PhaseUpcoming:
		return StyleBlue.Render("○ Upcoming")
	case PhaseEnded:
		return StyleDim.Render("✔ Ended")
	default:
		return StyleDim.Render(string(ph))
	}
}

// FormatPracticumList renders practicums as a table.
func FormatPracticumList(practicums []*domain.Practicum, today domain.Day) string {
	headers := []string{"CODE", "TITLE", "DATES", "DAYS", "LOGS", "STATUS"}
	rows := make([][]string, 0, len(practicums))
	for _, p := range practicums {
		rows = append(rows, []string{
			StyleBold.Render(p.DisplayID()),
			p.Title,
			DayRange(p.StartDate, p.EndDate),
			fmt.Sprintf("%d", p.Days()),
			IntervalBadge(p.LogInterval),
			PhasePill(PracticumPhase(p, today)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatPracticumDetail renders a practicum record with a summary of its
// timeline.
func FormatPracticumDetail(p *domain.Practicum, cfg domain.TimelineConfig, today domain.Day) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s  %s\n", Dim(fmt.Sprintf("%-10s", label)), value)
	}

	field("Code", StyleBold.Render(p.DisplayID()))
	field("ID", TruncID(p.ID))
	field("Dates", fmt.Sprintf("%s  %s", DayRange(p.StartDate, p.EndDate), Dim(Plural(p.Days(), "day"))))
	field("Logs", IntervalBadge(p.LogInterval))
	field("Status", PhasePill(PracticumPhase(p, today)))
	field("Weeks", fmt.Sprintf("%d", len(cfg.Weeks)))
	field("Events", formatTypeCounts(cfg))
	if p.TimelineSavedAt != nil {
		field("Saved", p.TimelineSavedAt.Local().Format(time.DateTime))
	} else {
		field("Saved", Dim("generated, never edited"))
	}

	return RenderBox(p.Title, strings.TrimRight(b.String(), "\n"))
}

func formatTypeCounts(cfg domain.TimelineConfig) string {
	if len(cfg.Events) == 0 {
		return Dim("none")
	}
	counts := cfg.CountByType()
	parts := make([]string, 0, len(domain.EventTypes))
	for _, t := range domain.EventTypes {
		if n := counts[t]; n > 0 {
			parts = append(parts, EventTypeStyle(t).Render(fmt.Sprintf("%d %s", n, t)))
		}
	}
	return fmt.Sprintf("%d  %s", len(cfg.Events), Dim("(")+strings.Join(parts, Dim(", "))+Dim(")"))
}

package timeline

import (
	"slices"

	"github.com/schologic/practicum/internal/domain"
)

// Filter controls which events a View shows.
type Filter struct {
	ShowLogs bool
}

// WeekBucket is a week together with its visible events.
type WeekBucket struct {
	Week   domain.TimelineWeek
	Events []domain.TimelineEvent
}

// View is the bucketed, sorted, filtered rendering of a timeline. It is
// derived on demand and never stored.
type View struct {
	Pre        []domain.TimelineEvent
	Weeks      []WeekBucket // only weeks with at least one visible event
	Post       []domain.TimelineEvent
	HiddenLogs int
}

// Empty reports whether no event is visible.
func (v View) Empty() bool {
	return len(v.Pre) == 0 && len(v.Weeks) == 0 && len(v.Post) == 0
}

// Visible returns the number of visible events.
func (v View) Visible() int {
	n := len(v.Pre) + len(v.Post)
	for _, wb := range v.Weeks {
		n += len(wb.Events)
	}
	return n
}

// BuildView buckets cfg's events by calendar date: before the first week,
// inside a week's inclusive range, or after the last week. Without any
// weeks every event is post-week. cfg is not modified.
func BuildView(cfg domain.TimelineConfig, f Filter) View {
	var v View

	visible := make([]domain.TimelineEvent, 0, len(cfg.Events))
	for _, e := range cfg.Events {
		if e.Type == domain.EventLog && !f.ShowLogs {
			v.HiddenLogs++
			continue
		}
		visible = append(visible, e)
	}
	slices.SortStableFunc(visible, func(a, b domain.TimelineEvent) int {
		return a.Date.Compare(b.Date)
	})

	start, end, ok := cfg.Span()
	if !ok {
		v.Post = visible
		return v
	}

	byWeek := make([][]domain.TimelineEvent, len(cfg.Weeks))
	for _, e := range visible {
		d := e.Date.Day()
		switch {
		case d.Before(start):
			v.Pre = append(v.Pre, e)
		case d.After(end):
			v.Post = append(v.Post, e)
		default:
			if i := weekIndex(cfg.Weeks, d); i >= 0 {
				byWeek[i] = append(byWeek[i], e)
			}
		}
	}

	for i, w := range cfg.Weeks {
		if len(byWeek[i]) == 0 {
			continue
		}
		v.Weeks = append(v.Weeks, WeekBucket{Week: w, Events: byWeek[i]})
	}
	return v
}

// weekIndex finds the week containing d by binary search; weeks are sorted
// and contiguous.
func weekIndex(weeks []domain.TimelineWeek, d domain.Day) int {
	i, found := slices.BinarySearchFunc(weeks, d, func(w domain.TimelineWeek, d domain.Day) int {
		switch {
		case w.EndDate.Before(d):
			return -1
		case w.StartDate.After(d):
			return 1
		}
		return 0
	})
	if !found {
		return -1
	}
	return i
}

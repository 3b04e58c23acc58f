package domain

// EventType is the closed set of timeline event kinds.
type EventType string

const (
	EventMilestone EventType = "milestone"
	EventDeadline  EventType = "deadline"
	EventLog       EventType = "log"
	EventMeeting   EventType = "meeting"
	EventReport    EventType = "report"
)

// EventTypes lists every valid EventType in display order.
var EventTypes = []EventType{EventMilestone, EventDeadline, EventLog, EventMeeting, EventReport}

func (t EventType) Valid() bool {
	for _, et := range EventTypes {
		if t == et {
			return true
		}
	}
	return false
}

// LogInterval is the cadence of recurring log-submission reminders.
type LogInterval string

const (
	LogDaily   LogInterval = "daily"
	LogWeekly  LogInterval = "weekly"
	LogMonthly LogInterval = "monthly"
)

// LogIntervals lists every valid LogInterval.
var LogIntervals = []LogInterval{LogDaily, LogWeekly, LogMonthly}

func (i LogInterval) Valid() bool {
	return i == LogDaily || i == LogWeekly || i == LogMonthly
}

// Title returns the capitalized cadence name used in log titles ("Weekly").
func (i LogInterval) Title() string {
	switch i {
	case LogDaily:
		return "Daily"
	case LogWeekly:
		return "Weekly"
	case LogMonthly:
		return "Monthly"
	default:
		return string(i)
	}
}

// TimelineWeek is one contiguous window of a cohort's date range.
type TimelineWeek struct {
	WeekNumber int    `json:"week_number" yaml:"week_number" validate:"min=1"`
	Label      string `json:"label" yaml:"label" validate:"notblank"`
	StartDate  Day    `json:"start_date" yaml:"start_date" validate:"required"`
	EndDate    Day    `json:"end_date" yaml:"end_date" validate:"required"`
}

// Contains reports whether d falls within the week's inclusive range.
func (w TimelineWeek) Contains(d Day) bool {
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

func (w TimelineWeek) Equal(other TimelineWeek) bool {
	return w.WeekNumber == other.WeekNumber &&
		w.Label == other.Label &&
		w.StartDate.Equal(other.StartDate) &&
		w.EndDate.Equal(other.EndDate)
}

// TimelineEvent is a single dated entry on a timeline.
type TimelineEvent struct {
	ID          string    `json:"id" yaml:"id" validate:"notblank"`
	Title       string    `json:"title" yaml:"title" validate:"notblank"`
	Date        Moment    `json:"date" yaml:"date" validate:"required"`
	Type        EventType `json:"type" yaml:"type" validate:"event_type"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	// IsSystem marks events produced by the generator.
	IsSystem bool `json:"is_system,omitempty" yaml:"is_system,omitempty"`
}

// Equal compares every field.
func (e TimelineEvent) Equal(other TimelineEvent) bool {
	return e.ID == other.ID &&
		e.Title == other.Title &&
		e.Date.Equal(other.Date) &&
		e.Type == other.Type &&
		e.Description == other.Description &&
		e.IsSystem == other.IsSystem
}

// TimelineConfig is the whole timeline document owned by one practicum.
type TimelineConfig struct {
	Weeks  []TimelineWeek  `json:"weeks" yaml:"weeks" validate:"dive"`
	Events []TimelineEvent `json:"events" yaml:"events" validate:"dive"`
}

// Clone returns a deep copy; nil slices become empty ones.
func (c TimelineConfig) Clone() TimelineConfig {
	out := TimelineConfig{
		Weeks:  make([]TimelineWeek, len(c.Weeks)),
		Events: make([]TimelineEvent, len(c.Events)),
	}
	copy(out.Weeks, c.Weeks)
	copy(out.Events, c.Events)
	return out
}

// Equal is structural equality: weeks compare in order, events compare as a
// set keyed by id, since event order carries no meaning.
func (c TimelineConfig) Equal(other TimelineConfig) bool {
	if len(c.Weeks) != len(other.Weeks) || len(c.Events) != len(other.Events) {
		return false
	}
	for i := range c.Weeks {
		if !c.Weeks[i].Equal(other.Weeks[i]) {
			return false
		}
	}
	byID := make(map[string]TimelineEvent, len(other.Events))
	for _, e := range other.Events {
		byID[e.ID] = e
	}
	if len(byID) != len(other.Events) {
		return false
	}
	for _, e := range c.Events {
		o, ok := byID[e.ID]
		if !ok || !e.Equal(o) {
			return false
		}
		delete(byID, e.ID)
	}
	return len(byID) == 0
}

// Event returns the event with the given id.
func (c TimelineConfig) Event(id string) (TimelineEvent, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return TimelineEvent{}, false
}

// CountByType tallies events per type.
func (c TimelineConfig) CountByType() map[EventType]int {
	counts := make(map[EventType]int, len(EventTypes))
	for _, e := range c.Events {
		counts[e.Type]++
	}
	return counts
}

// Span returns the first week's start and the last week's end.
// ok is false when the timeline has no weeks.
func (c TimelineConfig) Span() (start, end Day, ok bool) {
	if len(c.Weeks) == 0 {
		return Day{}, Day{}, false
	}
	return c.Weeks[0].StartDate, c.Weeks[len(c.Weeks)-1].EndDate, true
}

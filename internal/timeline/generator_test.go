package timeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/validation"
)

func seqIDs(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func day(s string) domain.Day { return domain.MustParseDay(s) }

func eventsByTitle(cfg domain.TimelineConfig, title string) []domain.TimelineEvent {
	var out []domain.TimelineEvent
	for _, e := range cfg.Events {
		if e.Title == title {
			out = append(out, e)
		}
	}
	return out
}

func logEvents(cfg domain.TimelineConfig) []domain.TimelineEvent {
	var out []domain.TimelineEvent
	for _, e := range cfg.Events {
		if e.Type == domain.EventLog {
			out = append(out, e)
		}
	}
	return out
}

func TestGenerate_TwoWeekWeeklyCohort(t *testing.T) {
	cfg, err := Generate(day("2026-01-05"), day("2026-01-18"), domain.LogWeekly, "Cohort A")
	require.NoError(t, err)

	require.Len(t, cfg.Weeks, 2)
	assert.Equal(t, domain.TimelineWeek{WeekNumber: 1, Label: "Week 1", StartDate: day("2026-01-05"), EndDate: day("2026-01-11")}, cfg.Weeks[0])
	assert.Equal(t, domain.TimelineWeek{WeekNumber: 2, Label: "Week 2", StartDate: day("2026-01-12"), EndDate: day("2026-01-18")}, cfg.Weeks[1])

	enroll := eventsByTitle(cfg, "Enrollment Opens")
	require.Len(t, enroll, 1)
	assert.Equal(t, "2026-01-05", enroll[0].Date.String())
	assert.Equal(t, domain.EventMilestone, enroll[0].Type)

	mid := eventsByTitle(cfg, "Midpoint Check-in")
	require.Len(t, mid, 1)
	assert.Equal(t, "2026-01-12", mid[0].Date.String())
	assert.Equal(t, domain.EventMeeting, mid[0].Type)

	final := eventsByTitle(cfg, "Final Report Due")
	require.Len(t, final, 1)
	assert.Equal(t, "2026-01-18", final[0].Date.String())
	assert.Equal(t, domain.EventReport, final[0].Type)

	closeout := eventsByTitle(cfg, "Cohort Closeout")
	require.Len(t, closeout, 1)
	assert.Equal(t, "2026-01-19", closeout[0].Date.String())

	logs := logEvents(cfg)
	require.Len(t, logs, 2)
	assert.Equal(t, "2026-01-11", logs[0].Date.String())
	assert.Equal(t, "2026-01-18", logs[1].Date.String())
	assert.Equal(t, "Weekly Log – Cohort A (2026-01-11)", logs[0].Title)
	assert.Empty(t, logs[0].Description)

	v := BuildView(cfg, Filter{ShowLogs: true})
	require.Len(t, v.Post, 1)
	assert.Equal(t, "Cohort Closeout", v.Post[0].Title)
	assert.Empty(t, v.Pre)
}

func TestGenerate_AllEventsAreSystemWithUniqueIDs(t *testing.T) {
	cfg, err := Generate(day("2026-02-01"), day("2026-04-30"), domain.LogDaily, "Spring")
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, e := range cfg.Events {
		assert.True(t, e.IsSystem, e.Title)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
	require.NoError(t, validation.Config(cfg))
}

func TestGenerate_DailyOnePerDay(t *testing.T) {
	cfg, err := Generate(day("2026-03-01"), day("2026-03-10"), domain.LogDaily, "C")
	require.NoError(t, err)

	logs := logEvents(cfg)
	require.Len(t, logs, 10)
	for i, e := range logs {
		assert.Equal(t, day("2026-03-01").AddDays(i).String(), e.Date.String())
		assert.Equal(t, fmt.Sprintf("Daily Log – C (%s)", e.Date), e.Title)
	}
}

func TestGenerate_MonthlyThirtyDaySteps(t *testing.T) {
	cfg, err := Generate(day("2026-01-01"), day("2026-03-15"), domain.LogMonthly, "C")
	require.NoError(t, err)

	logs := logEvents(cfg)
	require.Len(t, logs, 3)
	assert.Equal(t, "2026-01-30", logs[0].Date.String())
	assert.Equal(t, "2026-03-01", logs[1].Date.String())
	assert.Equal(t, "2026-03-15", logs[2].Date.String())
}

func TestGenerate_MonthlyShorterThanThirtyDays(t *testing.T) {
	cfg, err := Generate(day("2026-01-01"), day("2026-01-12"), domain.LogMonthly, "C")
	require.NoError(t, err)

	logs := logEvents(cfg)
	require.Len(t, logs, 1)
	assert.Equal(t, "2026-01-12", logs[0].Date.String())
}

func TestGenerate_MonthlySingleDayCohort(t *testing.T) {
	cfg, err := Generate(day("2026-01-01"), day("2026-01-01"), domain.LogMonthly, "C")
	require.NoError(t, err)

	logs := logEvents(cfg)
	require.Len(t, logs, 1)
	assert.Equal(t, "2026-01-01", logs[0].Date.String())
	assert.Equal(t, "Monthly Log – C (2026-01-01)", logs[0].Title)
}

func TestGenerate_ShortCohortsHaveOneTruncatedWeek(t *testing.T) {
	for days := 1; days <= 6; days++ {
		start := day("2026-05-04")
		end := start.AddDays(days - 1)
		cfg, err := Generate(start, end, domain.LogWeekly, "Short")
		require.NoError(t, err)

		require.Len(t, cfg.Weeks, 1, "days=%d", days)
		assert.Equal(t, start, cfg.Weeks[0].StartDate)
		assert.Equal(t, end, cfg.Weeks[0].EndDate)
		require.Len(t, logEvents(cfg), 1)
	}
}

func TestGenerate_SingleDayCohort(t *testing.T) {
	d := day("2026-06-01")
	cfg, err := Generate(d, d, domain.LogDaily, "One")
	require.NoError(t, err)

	require.Len(t, cfg.Weeks, 1)
	assert.Equal(t, "2026-06-01", eventsByTitle(cfg, "Midpoint Check-in")[0].Date.String())
	assert.Equal(t, "2026-06-02", eventsByTitle(cfg, "Cohort Closeout")[0].Date.String())
}

func TestGenerate_MidpointRoundsHalfUp(t *testing.T) {
	// 3-day span: midpoint offset 1.5 rounds to 2.
	cfg, err := Generate(day("2026-01-01"), day("2026-01-04"), domain.LogWeekly, "C")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-03", eventsByTitle(cfg, "Midpoint Check-in")[0].Date.String())
}

func TestGenerate_EmptyLabel(t *testing.T) {
	cfg, err := Generate(day("2026-01-05"), day("2026-01-11"), domain.LogWeekly, "")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Log (2026-01-11)", logEvents(cfg)[0].Title)
}

func TestGenerate_InvalidRange(t *testing.T) {
	_, err := Generate(day("2026-01-18"), day("2026-01-05"), domain.LogWeekly, "C")
	var rerr *domain.InvalidRangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, day("2026-01-18"), rerr.Start)
	assert.Equal(t, day("2026-01-05"), rerr.End)
}

func TestGenerate_MissingDates(t *testing.T) {
	_, err := Generate(domain.Day{}, day("2026-01-05"), domain.LogWeekly, "C")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("start_date"))
}

func TestGenerate_UnknownInterval(t *testing.T) {
	_, err := Generate(day("2026-01-05"), day("2026-01-18"), "fortnightly", "C")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("log_interval"))
}

func TestGenerate_EventsSortedByDate(t *testing.T) {
	cfg, err := Generate(day("2026-01-05"), day("2026-02-20"), domain.LogDaily, "C")
	require.NoError(t, err)
	for i := 1; i < len(cfg.Events); i++ {
		assert.LessOrEqual(t, cfg.Events[i-1].Date.Compare(cfg.Events[i].Date), 0)
	}
}

func TestGenerator_InjectedIDs(t *testing.T) {
	cfg, err := NewGenerator(seqIDs("e")).Generate(day("2026-01-05"), day("2026-01-11"), domain.LogWeekly, "C")
	require.NoError(t, err)

	ids := make([]string, 0, len(cfg.Events))
	for _, e := range cfg.Events {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"e-1", "e-2", "e-3", "e-4", "e-5"}, ids)
}

func TestGenerate_FreshIDsEveryRun(t *testing.T) {
	a, err := Generate(day("2026-01-05"), day("2026-01-18"), domain.LogWeekly, "C")
	require.NoError(t, err)
	b, err := Generate(day("2026-01-05"), day("2026-01-18"), domain.LogWeekly, "C")
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, e := range a.Events {
		ids[e.ID] = true
	}
	for _, e := range b.Events {
		assert.False(t, ids[e.ID], "id %s reused across runs", e.ID)
	}
}

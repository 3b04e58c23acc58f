package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/repository"
	"github.com/schologic/practicum/internal/testutil"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

type timelineFixture struct {
	practicums PracticumService
	timelines  TimelineService
	store      *repository.SQLiteTimelineStore
	observer   *recordingObserver
}

func newTimelineFixture(t *testing.T) *timelineFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLitePracticumRepo(database)
	store := repository.NewSQLiteTimelineStore(database)
	obs := &recordingObserver{}
	return &timelineFixture{
		practicums: NewPracticumService(repo, testutil.NewTestUoW(database)),
		timelines:  NewTimelineService(repo, store, obs),
		store:      store,
		observer:   obs,
	}
}

func (f *timelineFixture) create(t *testing.T, title string) *domain.Practicum {
	t.Helper()
	p, _, err := f.practicums.Create(context.Background(), weeklyInput(title))
	require.NoError(t, err)
	return p
}

func TestTimelineService_ExportImportRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			f := newTimelineFixture(t)
			ctx := context.Background()
			src := f.create(t, "Source")
			dst := f.create(t, "Destination")

			var buf bytes.Buffer
			require.NoError(t, f.timelines.Export(ctx, src.ID, format, &buf))
			assert.Contains(t, buf.String(), "week_number")

			imported, err := f.timelines.Import(ctx, dst.ID, format, &buf)
			require.NoError(t, err)

			want, err := f.timelines.Get(ctx, src.ID)
			require.NoError(t, err)
			got, err := f.timelines.Get(ctx, dst.ID)
			require.NoError(t, err)
			assert.True(t, got.Equal(want))
			assert.True(t, imported.Equal(want))
		})
	}
}

func TestTimelineService_ImportKeepsTimedEvents(t *testing.T) {
	f := newTimelineFixture(t)
	ctx := context.Background()
	p := f.create(t, "Timed")

	doc := `weeks:
  - week_number: 1
    label: Week 1
    start_date: "2026-01-05"
    end_date: "2026-01-11"
events:
  - id: kickoff
    title: Kickoff call
    date: "2026-01-06T09:30:00Z"
    type: meeting
`
	cfg, err := f.timelines.Import(ctx, p.ID, FormatYAML, strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cfg.Events, 1)
	assert.True(t, cfg.Events[0].Date.Timed())
	assert.Equal(t, "2026-01-06 09:30", cfg.Events[0].Date.Display())
}

func TestTimelineService_ImportRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{"unknown json field", FormatJSON, `{"weeks":[],"events":[],"extra":1}`},
		{"unknown yaml field", FormatYAML, "weeks: []\nevents: []\nnotes: hi\n"},
		{"malformed json", FormatJSON, `{"weeks":`},
		{"blank title", FormatJSON, `{"weeks":[],"events":[{"id":"a","title":" ","date":"2026-01-05","type":"milestone"}]}`},
		{"bad type", FormatJSON, `{"weeks":[],"events":[{"id":"a","title":"A","date":"2026-01-05","type":"party"}]}`},
		{"duplicate ids", FormatJSON, `{"weeks":[],"events":[
			{"id":"a","title":"A","date":"2026-01-05","type":"milestone"},
			{"id":"a","title":"B","date":"2026-01-06","type":"milestone"}]}`},
		{"unknown format", Format("toml"), ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTimelineFixture(t)
			ctx := context.Background()
			p := f.create(t, "Target")
			before, err := f.timelines.Get(ctx, p.ID)
			require.NoError(t, err)

			_, err = f.timelines.Import(ctx, p.ID, tt.format, strings.NewReader(tt.doc))
			require.Error(t, err)

			after, err := f.timelines.Get(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, after.Equal(before), "stored timeline unchanged")
		})
	}
}

func TestTimelineService_ImportStoreFailureIsPersistenceError(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLitePracticumRepo(database)
	failing := &testutil.FailingStore{
		Inner: repository.NewSQLiteTimelineStore(database),
		Err:   errors.New("disk full"),
	}
	p, _, err := NewPracticumService(repo, testutil.NewTestUoW(database)).
		Create(context.Background(), weeklyInput("Cohort"))
	require.NoError(t, err)

	svc := NewTimelineService(repo, failing)
	_, err = svc.Import(context.Background(), p.ID, FormatJSON, strings.NewReader(`{"weeks":[],"events":[]}`))

	var perr *domain.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, p.ID, perr.PracticumID)
	assert.Equal(t, int32(1), failing.Calls.Load())
}

func TestTimelineService_OpenEditorSavesAreObserved(t *testing.T) {
	f := newTimelineFixture(t)
	ctx := context.Background()
	p := f.create(t, "Editable")

	ed, err := f.timelines.OpenEditor(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ed.Dirty())

	first := ed.Working().Events[0]
	first.Title = "Renamed"
	require.NoError(t, ed.CommitEdit(first))
	require.True(t, ed.Dirty())
	require.NoError(t, ed.Save(ctx))
	assert.False(t, ed.Dirty())

	stored, err := f.timelines.Get(ctx, p.ID)
	require.NoError(t, err)
	got, ok := stored.Event(first.ID)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	assert.Contains(t, f.observer.names(), "save-timeline")
}

func TestTimelineService_OpenEditorUnknownPracticum(t *testing.T) {
	f := newTimelineFixture(t)
	_, err := f.timelines.OpenEditor(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPracticumNotFound)
}

func TestTimelineService_Preview(t *testing.T) {
	f := newTimelineFixture(t)
	cfg, err := f.timelines.Preview(domain.MustParseDay("2026-01-05"), domain.MustParseDay("2026-01-11"), domain.LogDaily, "Preview")
	require.NoError(t, err)
	assert.Len(t, cfg.Weeks, 1)
	assert.Equal(t, 7, cfg.CountByType()[domain.EventLog])
}

func TestTimelineService_LogSchedule(t *testing.T) {
	f := newTimelineFixture(t)
	ctx := context.Background()
	p := f.create(t, "Cohort")

	// Weekly logs land on 2026-01-11 and 2026-01-18.
	sched, err := f.timelines.LogSchedule(ctx, p.ID, domain.MustParseDay("2026-01-08"))
	require.NoError(t, err)
	assert.Equal(t, 2, sched.Total)
	assert.Equal(t, 2, sched.Remaining)
	require.NotNil(t, sched.Next)
	assert.Equal(t, "2026-01-11", sched.Next.Date.String())
	assert.Equal(t, 3, sched.DaysUntilNext)
	assert.Nil(t, sched.Previous)

	sched, err = f.timelines.LogSchedule(ctx, p.ID, domain.MustParseDay("2026-01-11"))
	require.NoError(t, err)
	assert.Equal(t, 0, sched.DaysUntilNext, "a log due today is still next")

	sched, err = f.timelines.LogSchedule(ctx, p.ID, domain.MustParseDay("2026-01-30"))
	require.NoError(t, err)
	assert.Nil(t, sched.Next)
	assert.Zero(t, sched.Remaining)
	require.NotNil(t, sched.Previous)
	assert.Equal(t, "2026-01-18", sched.Previous.Date.String())
}

func TestBuildLogSchedule_UpcomingIsCapped(t *testing.T) {
	today := domain.MustParseDay("2026-01-01")
	var cfg domain.TimelineConfig
	for i := 0; i < 5; i++ {
		cfg.Events = append(cfg.Events, domain.TimelineEvent{
			ID:    string(rune('a' + i)),
			Title: "Milestone",
			Date:  domain.OnDay(today.AddDays(i)),
			Type:  domain.EventMilestone,
		})
	}
	sched := buildLogSchedule(cfg, today)
	assert.Len(t, sched.Upcoming, upcomingLimit)
	assert.Zero(t, sched.Total)
}

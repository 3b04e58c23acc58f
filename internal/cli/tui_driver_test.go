package cli

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/teatest"
	"github.com/schologic/practicum/internal/timeline"
)

// memStore keeps timelines in memory so editor saves finish well inside
// the driver's Cmd timeout.
type memStore struct {
	mu    sync.Mutex
	docs  map[string]domain.TimelineConfig
	saves int
	err   error
}

func (s *memStore) LoadTimeline(_ context.Context, id string) (domain.TimelineConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id].Clone(), nil
}

func (s *memStore) SaveTimeline(_ context.Context, id string, cfg domain.TimelineConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.docs[id] = cfg.Clone()
	return nil
}

func (s *memStore) stored(id string) domain.TimelineConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id].Clone()
}

// TestDriver wraps teatest.Driver with editor-specific inspection methods.
type TestDriver struct {
	*teatest.Driver
	Store     *memStore
	Practicum *domain.Practicum
}

// NewTestDriver opens an editor over the generated 2026-01-05..2026-01-18
// weekly timeline. Logs start hidden, so the visible order is Enrollment
// Opens, Midpoint Check-in, Final Report Due, Cohort Closeout.
func NewTestDriver(t *testing.T) *TestDriver {
	t.Helper()

	p := &domain.Practicum{
		ID:          "p-1",
		CohortCode:  "PC-TUI001",
		Title:       "Cohort A",
		StartDate:   domain.MustParseDay("2026-01-05"),
		EndDate:     domain.MustParseDay("2026-01-18"),
		LogInterval: domain.LogWeekly,
	}
	cfg, err := timeline.Generate(p.StartDate, p.EndDate, p.LogInterval, p.Title)
	require.NoError(t, err)

	store := &memStore{docs: map[string]domain.TimelineConfig{p.ID: cfg}}
	ed := timeline.NewEditor(p.ID, store)
	require.NoError(t, ed.LoadFromStore(context.Background()))

	m := newAppModel(&App{}, p, ed)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, Store: store, Practicum: p}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

func (d *TestDriver) Editor() *timeline.Editor {
	return d.appModel().state.Editor
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

func (d *TestDriver) timelineView() *timelineView {
	return d.appModel().viewStack[0].(*timelineView)
}

// Selected returns the title of the event under the cursor.
func (d *TestDriver) Selected() string {
	tv := d.timelineView()
	tv.rebuild()
	if ev := tv.current(); ev != nil {
		return ev.Title
	}
	return ""
}

func (d *TestDriver) Status() string {
	return d.appModel().state.Status
}

func (d *TestDriver) StatusErr() error {
	return d.appModel().state.StatusErr
}

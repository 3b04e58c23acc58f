package timeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schologic/practicum/internal/domain"
)

// memStore is an in-memory Store. When block is set, SaveTimeline waits on
// it so tests can observe an in-flight save.
type memStore struct {
	mu      sync.Mutex
	docs    map[string]domain.TimelineConfig
	saves   int
	failErr error
	block   chan struct{}
	entered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]domain.TimelineConfig{}}
}

func (s *memStore) LoadTimeline(_ context.Context, id string) (domain.TimelineConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.docs[id]
	if !ok {
		return domain.TimelineConfig{}, domain.ErrPracticumNotFound
	}
	return cfg.Clone(), nil
}

func (s *memStore) SaveTimeline(_ context.Context, id string, cfg domain.TimelineConfig) error {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.saves++
	s.docs[id] = cfg.Clone()
	return nil
}

var fixedNow = time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

func newTestEditor(t *testing.T, store Store, opts ...EditorOption) *Editor {
	t.Helper()
	base := []EditorOption{
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(seqIDs("new")),
	}
	e := NewEditor("prac-1", store, append(base, opts...)...)
	cfg, err := NewGenerator(seqIDs("gen")).Generate(day("2026-01-05"), day("2026-01-18"), domain.LogWeekly, "Cohort A")
	require.NoError(t, err)
	e.Load(cfg)
	return e
}

func TestEditor_LoadIsClean(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	assert.False(t, e.Dirty())
	assert.True(t, e.Working().Equal(e.Original()))
	_, open := e.Buffer()
	assert.False(t, open)
}

func TestEditor_LoadFromStore(t *testing.T) {
	store := newMemStore()
	cfg, err := Generate(day("2026-01-05"), day("2026-01-11"), domain.LogDaily, "C")
	require.NoError(t, err)
	store.docs["prac-1"] = cfg

	e := NewEditor("prac-1", store)
	require.NoError(t, e.LoadFromStore(context.Background()))
	assert.True(t, e.Working().Equal(cfg))

	missing := NewEditor("nope", store)
	err = missing.LoadFromStore(context.Background())
	assert.ErrorIs(t, err, domain.ErrPracticumNotFound)
}

func TestEditor_AddEventSeedsBuffer(t *testing.T) {
	e := newTestEditor(t, newMemStore())

	buf := e.AddEvent()

	assert.Equal(t, "new-1", buf.ID)
	assert.Equal(t, "2026-01-05", buf.Date.String())
	assert.Equal(t, domain.EventMilestone, buf.Type)
	assert.Empty(t, buf.Title)
	assert.Empty(t, buf.Description)
	assert.False(t, e.Dirty(), "opening a buffer must not touch the working copy")
	assert.Len(t, e.Working().Events, len(e.Original().Events))

	open, ok := e.Buffer()
	require.True(t, ok)
	assert.Equal(t, buf, open)
}

func TestEditor_AddEventWithoutWeeksUsesClock(t *testing.T) {
	e := NewEditor("prac-1", newMemStore(), WithClock(func() time.Time { return fixedNow }))
	e.Load(domain.TimelineConfig{})

	buf := e.AddEvent()
	assert.Equal(t, "2026-02-10", buf.Date.String())
}

func TestEditor_CommitNewEventMarksDirty(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	buf := e.AddEvent()
	buf.Title = "Site visit"

	require.NoError(t, e.CommitEdit(buf))

	assert.True(t, e.Dirty())
	got, ok := e.Working().Event(buf.ID)
	require.True(t, ok)
	assert.Equal(t, "Site visit", got.Title)
	_, open := e.Buffer()
	assert.False(t, open)
}

func TestEditor_CommitReplacesInPlace(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	target := e.Working().Events[0]

	buf, err := e.EditEvent(target.ID)
	require.NoError(t, err)
	assert.Equal(t, target, buf)

	buf.Title = "Renamed"
	require.NoError(t, e.CommitEdit(buf))

	assert.Len(t, e.Working().Events, len(e.Original().Events))
	got, _ := e.Working().Event(target.ID)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.IsSystem, "editing keeps the system flag")
	assert.True(t, e.Dirty())
}

func TestEditor_CommitUnchangedStaysClean(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	target := e.Working().Events[2]

	buf, err := e.EditEvent(target.ID)
	require.NoError(t, err)
	require.NoError(t, e.CommitEdit(buf))

	assert.False(t, e.Dirty())
}

func TestEditor_EditBackToOriginalClearsDirty(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	target := e.Working().Events[1]

	buf, _ := e.EditEvent(target.ID)
	buf.Title = "Temporary"
	require.NoError(t, e.CommitEdit(buf))
	require.True(t, e.Dirty())

	buf, _ = e.EditEvent(target.ID)
	buf.Title = target.Title
	require.NoError(t, e.CommitEdit(buf))
	assert.False(t, e.Dirty())
}

func TestEditor_EditUnknownEvent(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	_, err := e.EditEvent("missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEditor_CommitRejectsMissingTitleAndKeepsBuffer(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	buf := e.AddEvent()
	buf.Description = "no title yet"

	err := e.CommitEdit(buf)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("title"))
	assert.False(t, e.Dirty())
	_, found := e.Working().Event(buf.ID)
	assert.False(t, found)

	open, ok := e.Buffer()
	require.True(t, ok, "buffer stays open for correction")
	assert.Equal(t, "no title yet", open.Description)
}

func TestEditor_CommitRejectsMissingDate(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	buf := e.AddEvent()
	buf.Title = "Undated"
	buf.Date = domain.Moment{}

	err := e.CommitEdit(buf)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("date"))
}

func TestEditor_CancelEdit(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	e.AddEvent()
	e.CancelEdit()

	_, open := e.Buffer()
	assert.False(t, open)
	assert.False(t, e.Dirty())
}

func TestEditor_DeleteEvent(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	target := e.Working().Events[0]

	assert.True(t, e.DeleteEvent(target.ID))
	_, found := e.Working().Event(target.ID)
	assert.False(t, found)
	assert.True(t, e.Dirty())
}

func TestEditor_DeleteUnknownIsNoop(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	before := e.Working()

	assert.False(t, e.DeleteEvent("missing"))
	assert.Equal(t, before, e.Working())
	assert.False(t, e.Dirty())
}

func TestEditor_RegenerateNeedsConfirmation(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	buf := e.AddEvent()
	buf.Title = "Manual"
	require.NoError(t, e.CommitEdit(buf))

	e.RequestRegenerate(RegenerateInput{Start: day("2026-01-05"), End: day("2026-01-18"), Interval: domain.LogWeekly, Label: "Cohort A"})
	_, stillThere := e.Working().Event(buf.ID)
	assert.True(t, stillThere, "request alone changes nothing")

	require.NoError(t, e.ConfirmRegenerate())

	_, stillThere = e.Working().Event(buf.ID)
	assert.False(t, stillThere, "manual edits are discarded")
	for _, ev := range e.Working().Events {
		assert.True(t, ev.IsSystem)
	}
	// Fresh ids differ from the loaded ones, so the copy is dirty.
	assert.True(t, e.Dirty())

	_, pending := e.PendingRegenerate()
	assert.False(t, pending)
}

func TestEditor_RegenerateWithNewInterval(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	e.RequestRegenerate(RegenerateInput{Start: day("2026-01-05"), End: day("2026-01-18"), Interval: domain.LogDaily, Label: "Cohort A"})
	require.NoError(t, e.ConfirmRegenerate())

	assert.Equal(t, 14, e.Working().CountByType()[domain.EventLog])
}

func TestEditor_ConfirmWithoutRequest(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	assert.ErrorIs(t, e.ConfirmRegenerate(), domain.ErrNoPendingRegenerate)
}

func TestEditor_CancelRegenerate(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	e.RequestRegenerate(RegenerateInput{Start: day("2026-01-05"), End: day("2026-01-18"), Interval: domain.LogWeekly})
	e.CancelRegenerate()

	assert.ErrorIs(t, e.ConfirmRegenerate(), domain.ErrNoPendingRegenerate)
	assert.False(t, e.Dirty())
}

func TestEditor_RegenerateInvalidRangeLeavesState(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	before := e.Working()

	e.RequestRegenerate(RegenerateInput{Start: day("2026-02-01"), End: day("2026-01-01"), Interval: domain.LogWeekly})
	err := e.ConfirmRegenerate()

	var rerr *domain.InvalidRangeError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, before, e.Working())
	assert.False(t, e.Dirty())
}

func TestEditor_ToggleShowLogs(t *testing.T) {
	e := newTestEditor(t, newMemStore())
	require.False(t, e.ShowLogs())

	assert.Equal(t, 2, e.HiddenLogCount())
	for _, wb := range e.View().Weeks {
		for _, ev := range wb.Events {
			assert.NotEqual(t, domain.EventLog, ev.Type)
		}
	}

	assert.True(t, e.ToggleShowLogs())
	assert.Equal(t, 0, e.HiddenLogCount())
	assert.False(t, e.Dirty())
}

func TestEditor_WithShowLogsOption(t *testing.T) {
	e := newTestEditor(t, newMemStore(), WithShowLogs(true))
	assert.True(t, e.ShowLogs())
}

func TestEditor_SaveRoundTrip(t *testing.T) {
	store := newMemStore()
	var notified []domain.TimelineConfig
	e := newTestEditor(t, store, WithOnSaved(func(cfg domain.TimelineConfig) {
		notified = append(notified, cfg)
	}))

	buf := e.AddEvent()
	buf.Title = "Guest lecture"
	buf.Date = domain.At(time.Date(2026, 1, 14, 13, 30, 0, 0, time.UTC))
	buf.Type = domain.EventMeeting
	require.NoError(t, e.CommitEdit(buf))
	require.True(t, e.Dirty())

	require.NoError(t, e.Save(context.Background()))

	assert.False(t, e.Dirty())
	require.Len(t, notified, 1)
	assert.True(t, notified[0].Equal(e.Working()))

	reloaded, err := store.LoadTimeline(context.Background(), "prac-1")
	require.NoError(t, err)
	assert.True(t, reloaded.Equal(e.Working()))
	assert.True(t, e.Original().Equal(e.Working()))
}

func TestEditor_FilterNeverReachesStore(t *testing.T) {
	toggled := newMemStore()
	plain := newMemStore()

	a := newTestEditor(t, toggled)
	for i := 0; i < 5; i++ {
		a.ToggleShowLogs()
	}
	require.NoError(t, a.Save(context.Background()))

	b := newTestEditor(t, plain)
	require.NoError(t, b.Save(context.Background()))

	assert.Equal(t, plain.docs["prac-1"], toggled.docs["prac-1"])
}

func TestEditor_SaveFailureKeepsWorkingCopy(t *testing.T) {
	store := newMemStore()
	store.failErr = errors.New("connection reset")
	e := newTestEditor(t, store)

	buf := e.AddEvent()
	buf.Title = "Unsaved"
	require.NoError(t, e.CommitEdit(buf))
	working := e.Working()

	err := e.Save(context.Background())

	var perr *domain.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "prac-1", perr.PracticumID)
	assert.ErrorContains(t, err, "connection reset")
	assert.True(t, e.Dirty())
	assert.Equal(t, working, e.Working())
	assert.False(t, e.Saving())

	store.failErr = nil
	require.NoError(t, e.Save(context.Background()), "retry succeeds")
	assert.False(t, e.Dirty())
}

func TestEditor_SecondSaveWhileInFlightIsRejected(t *testing.T) {
	store := newMemStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	e := newTestEditor(t, store)

	done := make(chan error, 1)
	go func() { done <- e.Save(context.Background()) }()
	<-store.entered

	assert.True(t, e.Saving())
	assert.ErrorIs(t, e.Save(context.Background()), domain.ErrSaveInProgress)

	close(store.block)
	require.NoError(t, <-done)
	assert.False(t, e.Saving())
	assert.Equal(t, 1, store.saves)
}

func TestEditor_EditDuringSaveStaysDirty(t *testing.T) {
	store := newMemStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{}, 1)
	e := newTestEditor(t, store)

	done := make(chan error, 1)
	go func() { done <- e.Save(context.Background()) }()
	<-store.entered

	buf := e.AddEvent()
	buf.Title = "Added mid-save"
	require.NoError(t, e.CommitEdit(buf))

	close(store.block)
	require.NoError(t, <-done)

	assert.True(t, e.Dirty(), "the edit made during the write is still unsaved")
	_, saved := store.docs["prac-1"].Event(buf.ID)
	assert.False(t, saved)
}

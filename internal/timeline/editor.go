package timeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/validation"
)

// Store reads and replaces the timeline document of one practicum. Writes
// are whole-document and last-writer-wins.
type Store interface {
	LoadTimeline(ctx context.Context, practicumID string) (domain.TimelineConfig, error)
	SaveTimeline(ctx context.Context, practicumID string, cfg domain.TimelineConfig) error
}

// Clock returns the current time.
type Clock func() time.Time

// RegenerateInput is the cohort context a regenerate runs with.
type RegenerateInput struct {
	Start    domain.Day
	End      domain.Day
	Interval domain.LogInterval
	Label    string
}

// InputFor returns the regenerate input taken from a practicum record.
func InputFor(p *domain.Practicum) RegenerateInput {
	return RegenerateInput{
		Start:    p.StartDate,
		End:      p.EndDate,
		Interval: p.LogInterval,
		Label:    p.Title,
	}
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithClock sets the clock used for the default date of new events.
func WithClock(c Clock) EditorOption {
	return func(e *Editor) { e.now = c }
}

// WithIDFunc sets the id source for new and regenerated events.
func WithIDFunc(f IDFunc) EditorOption {
	return func(e *Editor) { e.newID = f }
}

// WithOnSaved registers a callback receiving the new canonical document
// after every successful save.
func WithOnSaved(fn func(domain.TimelineConfig)) EditorOption {
	return func(e *Editor) { e.onSaved = fn }
}

// WithShowLogs sets the initial log filter.
func WithShowLogs(show bool) EditorOption {
	return func(e *Editor) { e.filter.ShowLogs = show }
}

// Editor holds a working copy of one practicum's timeline. The working
// copy changes only through the editor's operations and reaches the store
// only on Save. It is safe for concurrent use; a Save runs its store write
// without holding the lock so the UI stays responsive.
type Editor struct {
	mu sync.Mutex

	practicumID string
	store       Store
	now         Clock
	newID       IDFunc
	onSaved     func(domain.TimelineConfig)

	original domain.TimelineConfig
	working  domain.TimelineConfig
	dirty    bool
	filter   Filter
	buffer   *domain.TimelineEvent
	pending  *RegenerateInput
	saving   bool
}

// NewEditor returns an Editor over an empty timeline. Call Load or
// LoadFromStore before use.
func NewEditor(practicumID string, store Store, opts ...EditorOption) *Editor {
	e := &Editor{
		practicumID: practicumID,
		store:       store,
		now:         time.Now,
		newID:       NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.original = domain.TimelineConfig{}.Clone()
	e.working = domain.TimelineConfig{}.Clone()
	return e
}

func (e *Editor) PracticumID() string { return e.practicumID }

// Load replaces both the original and the working copy with cfg and clears
// every transient state.
func (e *Editor) Load(cfg domain.TimelineConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.original = cfg.Clone()
	e.working = cfg.Clone()
	e.dirty = false
	e.buffer = nil
	e.pending = nil
}

// LoadFromStore reads the persisted timeline and loads it.
func (e *Editor) LoadFromStore(ctx context.Context) error {
	cfg, err := e.store.LoadTimeline(ctx, e.practicumID)
	if err != nil {
		return fmt.Errorf("loading timeline: %w", err)
	}
	e.Load(cfg)
	return nil
}

// AddEvent opens the edit buffer on a new milestone dated at the first
// week's start, or today when the timeline has no weeks. The working copy
// is unchanged until CommitEdit.
func (e *Editor) AddEvent() domain.TimelineEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	date := domain.DayOf(e.now())
	if start, _, ok := e.working.Span(); ok {
		date = start
	}
	buf := domain.TimelineEvent{
		ID:   e.newID(),
		Date: domain.OnDay(date),
		Type: domain.EventMilestone,
	}
	e.buffer = &buf
	return buf
}

// EditEvent opens the edit buffer on a copy of an existing event.
func (e *Editor) EditEvent(id string) (domain.TimelineEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev, ok := e.working.Event(id)
	if !ok {
		return domain.TimelineEvent{}, fmt.Errorf("%w: %s", domain.ErrEventNotFound, id)
	}
	e.buffer = &ev
	return ev, nil
}

// Buffer returns the open edit buffer.
func (e *Editor) Buffer() (domain.TimelineEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer == nil {
		return domain.TimelineEvent{}, false
	}
	return *e.buffer, true
}

// CancelEdit abandons the edit buffer.
func (e *Editor) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = nil
}

// CommitEdit admits ev into the working copy, replacing the event with the
// same id or appending it. An invalid ev is rejected with a
// *domain.ValidationError and stays in the open buffer for correction.
func (e *Editor) CommitEdit(ev domain.TimelineEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validation.Event(ev); err != nil {
		e.buffer = &ev
		return err
	}

	i := slices.IndexFunc(e.working.Events, func(x domain.TimelineEvent) bool { return x.ID == ev.ID })
	if i >= 0 {
		e.working.Events[i] = ev
	} else {
		e.working.Events = append(e.working.Events, ev)
	}
	e.buffer = nil
	e.recomputeDirty()
	return nil
}

// DeleteEvent removes the event with id. Unknown ids are ignored. It
// reports whether an event was removed.
func (e *Editor) DeleteEvent(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := len(e.working.Events)
	e.working.Events = slices.DeleteFunc(e.working.Events, func(x domain.TimelineEvent) bool { return x.ID == id })
	if len(e.working.Events) == before {
		return false
	}
	if e.buffer != nil && e.buffer.ID == id {
		e.buffer = nil
	}
	e.recomputeDirty()
	return true
}

// RequestRegenerate records a regenerate request. Nothing changes until
// ConfirmRegenerate.
func (e *Editor) RequestRegenerate(in RegenerateInput) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = &in
}

// PendingRegenerate returns the request awaiting confirmation.
func (e *Editor) PendingRegenerate() (RegenerateInput, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return RegenerateInput{}, false
	}
	return *e.pending, true
}

// CancelRegenerate drops a pending request.
func (e *Editor) CancelRegenerate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
}

// ConfirmRegenerate replaces the working copy with a freshly generated
// timeline, discarding every manual edit. If generation fails the working
// copy is untouched and the error (such as *domain.InvalidRangeError) is
// returned. The request is consumed either way.
func (e *Editor) ConfirmRegenerate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return domain.ErrNoPendingRegenerate
	}
	in := *e.pending
	e.pending = nil

	cfg, err := NewGenerator(e.newID).Generate(in.Start, in.End, in.Interval, in.Label)
	if err != nil {
		return err
	}
	e.working = cfg
	e.buffer = nil
	e.recomputeDirty()
	return nil
}

// ToggleShowLogs flips the log filter and returns the new setting. The
// working copy is not affected.
func (e *Editor) ToggleShowLogs() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter.ShowLogs = !e.filter.ShowLogs
	return e.filter.ShowLogs
}

func (e *Editor) ShowLogs() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.ShowLogs
}

// HiddenLogCount is the number of log events the filter currently hides.
func (e *Editor) HiddenLogCount() int {
	return e.View().HiddenLogs
}

// View derives the bucketed view of the working copy.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildView(e.working, e.filter)
}

// Save writes the working copy through the store. On success the saved
// document becomes the new original and the OnSaved callback is notified.
// On failure a *domain.PersistenceError is returned and the working copy
// and dirty flag are left as they were. A Save while another is in flight
// returns domain.ErrSaveInProgress.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return domain.ErrSaveInProgress
	}
	e.saving = true
	snapshot := e.working.Clone()
	e.mu.Unlock()

	err := e.store.SaveTimeline(ctx, e.practicumID, snapshot)

	e.mu.Lock()
	e.saving = false
	if err != nil {
		e.mu.Unlock()
		return &domain.PersistenceError{PracticumID: e.practicumID, Err: err}
	}
	e.original = snapshot
	e.recomputeDirty()
	onSaved := e.onSaved
	e.mu.Unlock()

	if onSaved != nil {
		onSaved(snapshot.Clone())
	}
	return nil
}

// Dirty reports whether the working copy differs from the last loaded or
// saved document.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Saving reports whether a Save is in flight.
func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// Working returns a copy of the working document.
func (e *Editor) Working() domain.TimelineConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.working.Clone()
}

// Original returns a copy of the last loaded or saved document.
func (e *Editor) Original() domain.TimelineConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.original.Clone()
}

func (e *Editor) recomputeDirty() {
	e.dirty = !e.working.Equal(e.original)
}

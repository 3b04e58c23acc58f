package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/repository"
	"github.com/schologic/practicum/internal/timeline"
	"github.com/schologic/practicum/internal/validation"
)

// upcomingLimit caps LogSchedule.Upcoming.
const upcomingLimit = 3

type timelineService struct {
	practicums repository.PracticumRepo
	store      repository.TimelineStore
	observer   UseCaseObserver
}

func NewTimelineService(
	practicums repository.PracticumRepo,
	store repository.TimelineStore,
	observers ...UseCaseObserver,
) TimelineService {
	obs := useCaseObserverOrNoop(observers)
	return &timelineService{
		practicums: practicums,
		store:      &observedStore{inner: store, observer: obs},
		observer:   obs,
	}
}

// observedStore reports every timeline write as a use case, including the
// ones an editor makes.
type observedStore struct {
	inner    repository.TimelineStore
	observer UseCaseObserver
}

func (s *observedStore) LoadTimeline(ctx context.Context, practicumID string) (domain.TimelineConfig, error) {
	return s.inner.LoadTimeline(ctx, practicumID)
}

func (s *observedStore) SaveTimeline(ctx context.Context, practicumID string, cfg domain.TimelineConfig) (err error) {
	fields := map[string]any{
		"practicum_id": practicumID,
		"week_count":   len(cfg.Weeks),
		"event_count":  len(cfg.Events),
	}
	defer observe(ctx, s.observer, "save-timeline", time.Now().UTC(), fields, &err)
	return s.inner.SaveTimeline(ctx, practicumID, cfg)
}

func (s *timelineService) Get(ctx context.Context, practicumID string) (domain.TimelineConfig, error) {
	return s.store.LoadTimeline(ctx, practicumID)
}

func (s *timelineService) OpenEditor(ctx context.Context, practicumID string, opts ...timeline.EditorOption) (*timeline.Editor, error) {
	ed := timeline.NewEditor(practicumID, s.store, opts...)
	if err := ed.LoadFromStore(ctx); err != nil {
		return nil, err
	}
	return ed, nil
}

func (s *timelineService) Preview(start, end domain.Day, interval domain.LogInterval, label string) (domain.TimelineConfig, error) {
	return timeline.Generate(start, end, interval, label)
}

func (s *timelineService) Export(ctx context.Context, practicumID string, format Format, w io.Writer) (err error) {
	defer observe(ctx, s.observer, "export-timeline", time.Now().UTC(),
		map[string]any{"practicum_id": practicumID, "format": string(format)}, &err)

	cfg, err := s.store.LoadTimeline(ctx, practicumID)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding timeline as json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding timeline as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding timeline as yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
	return nil
}

func (s *timelineService) Import(ctx context.Context, practicumID string, format Format, r io.Reader) (cfg domain.TimelineConfig, err error) {
	fields := map[string]any{"practicum_id": practicumID, "format": string(format)}
	defer observe(ctx, s.observer, "import-timeline", time.Now().UTC(), fields, &err)

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err = dec.Decode(&cfg); err != nil {
			return domain.TimelineConfig{}, fmt.Errorf("decoding json timeline: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err != nil {
			return domain.TimelineConfig{}, fmt.Errorf("decoding yaml timeline: %w", err)
		}
	default:
		return domain.TimelineConfig{}, fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}

	cfg = cfg.Clone()
	if err = validation.Config(cfg); err != nil {
		return domain.TimelineConfig{}, err
	}
	if err = s.store.SaveTimeline(ctx, practicumID, cfg); err != nil {
		return domain.TimelineConfig{}, &domain.PersistenceError{PracticumID: practicumID, Err: err}
	}
	fields["event_count"] = len(cfg.Events)
	return cfg, nil
}

func (s *timelineService) LogSchedule(ctx context.Context, practicumID string, today domain.Day) (*LogSchedule, error) {
	cfg, err := s.store.LoadTimeline(ctx, practicumID)
	if err != nil {
		return nil, err
	}
	return buildLogSchedule(cfg, today), nil
}

func buildLogSchedule(cfg domain.TimelineConfig, today domain.Day) *LogSchedule {
	events := slices.Clone(cfg.Events)
	slices.SortStableFunc(events, func(a, b domain.TimelineEvent) int {
		return a.Date.Compare(b.Date)
	})

	sched := &LogSchedule{Today: today}
	for i := range events {
		e := events[i]
		onOrAfter := !e.Date.Day().Before(today)
		if e.Type != domain.EventLog {
			if onOrAfter && len(sched.Upcoming) < upcomingLimit {
				sched.Upcoming = append(sched.Upcoming, e)
			}
			continue
		}
		sched.Total++
		if !onOrAfter {
			sched.Previous = &events[i]
			continue
		}
		sched.Remaining++
		if sched.Next == nil {
			sched.Next = &events[i]
			sched.DaysUntilNext = today.DaysUntil(e.Date.Day())
		}
	}
	return sched
}

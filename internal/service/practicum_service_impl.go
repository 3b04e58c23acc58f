package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/schologic/practicum/internal/db"
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/repository"
	"github.com/schologic/practicum/internal/timeline"
	"github.com/schologic/practicum/internal/validation"
)

const cohortCodeAttempts = 3

type practicumService struct {
	practicums repository.PracticumRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
	now        func() time.Time
	newCode    func() string
}

func NewPracticumService(
	practicums repository.PracticumRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PracticumService {
	return &practicumService{
		practicums: practicums,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
		now:        time.Now,
		newCode:    NewCohortCode,
	}
}

// NewCohortCode returns a code such as "PC-3F9A1C".
func NewCohortCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", domain.CohortCodePrefix, strings.ToUpper(hex[:6]))
}

func (s *practicumService) Create(ctx context.Context, in CreatePracticumInput) (p *domain.Practicum, cfg domain.TimelineConfig, err error) {
	fields := map[string]any{
		"title":        in.Title,
		"log_interval": string(in.LogInterval),
	}
	defer observe(ctx, s.observer, "create-practicum", time.Now().UTC(), fields, &err)

	in.Title = strings.TrimSpace(in.Title)
	if err = validation.Cohort(validation.CohortInput{
		Title:       in.Title,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		LogInterval: in.LogInterval,
	}); err != nil {
		return nil, domain.TimelineConfig{}, err
	}

	cfg, err = timeline.Generate(in.StartDate, in.EndDate, in.LogInterval, in.Title)
	if err != nil {
		return nil, domain.TimelineConfig{}, fmt.Errorf("generating timeline: %w", err)
	}
	fields["week_count"] = len(cfg.Weeks)
	fields["event_count"] = len(cfg.Events)

	now := s.now().UTC().Truncate(time.Second)
	p = &domain.Practicum{
		ID:          uuid.NewString(),
		Title:       in.Title,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		LogInterval: in.LogInterval,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Codes are short, so retry on the rare collision.
	for attempt := 1; ; attempt++ {
		p.CohortCode = s.newCode()
		err = s.practicums.Create(ctx, p, cfg)
		if err == nil {
			break
		}
		if attempt == cohortCodeAttempts || !isUniqueViolation(err) {
			return nil, domain.TimelineConfig{}, fmt.Errorf("creating practicum: %w", err)
		}
	}
	fields["cohort_code"] = p.CohortCode
	return p, cfg, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *practicumService) Resolve(ctx context.Context, ref string) (*domain.Practicum, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("practicum reference is required")
	}

	if p, err := s.practicums.GetByCode(ctx, ref); err == nil {
		return p, nil
	}
	if p, err := s.practicums.GetByID(ctx, ref); err == nil {
		return p, nil
	}

	all, err := s.practicums.List(ctx)
	if err != nil {
		return nil, err
	}
	var matches []*domain.Practicum
	for _, p := range all {
		if p.MatchesRef(ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", domain.ErrPracticumNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("practicum reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func (s *practicumService) List(ctx context.Context) ([]*domain.Practicum, error) {
	return s.practicums.List(ctx)
}

func (s *practicumService) Reschedule(ctx context.Context, id string, in RescheduleInput) (updated *domain.Practicum, err error) {
	fields := map[string]any{
		"practicum_id": id,
		"regenerate":   in.Regenerate,
	}
	defer observe(ctx, s.observer, "reschedule-practicum", time.Now().UTC(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePracticumRepo(tx)
		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if t := strings.TrimSpace(in.Title); t != "" {
			p.Title = t
		}
		if !in.StartDate.IsZero() {
			p.StartDate = in.StartDate
		}
		if !in.EndDate.IsZero() {
			p.EndDate = in.EndDate
		}
		if in.LogInterval != "" {
			p.LogInterval = in.LogInterval
		}
		if err := validation.Cohort(validation.CohortInput{
			Title:       p.Title,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			LogInterval: p.LogInterval,
		}); err != nil {
			return err
		}

		p.UpdatedAt = s.now().UTC().Truncate(time.Second)
		if err := repo.UpdateSchedule(ctx, p); err != nil {
			return err
		}

		if in.Regenerate {
			cfg, err := timeline.Generate(p.StartDate, p.EndDate, p.LogInterval, p.Title)
			if err != nil {
				return fmt.Errorf("generating timeline: %w", err)
			}
			if err := repository.NewSQLiteTimelineStore(tx).SaveTimeline(ctx, p.ID, cfg); err != nil {
				return &domain.PersistenceError{PracticumID: p.ID, Err: err}
			}
			fields["event_count"] = len(cfg.Events)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *practicumService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-practicum", time.Now().UTC(), map[string]any{"practicum_id": id}, &err)
	return s.practicums.Delete(ctx, id)
}

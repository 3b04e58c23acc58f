package validation

import (
	"fmt"

	"github.com/schologic/practicum/internal/domain"
)

// Event validates a single event buffer before it is admitted to a
// timeline. Title and date are required and the type must be known.
func Event(e domain.TimelineEvent) error {
	return Struct(e)
}

// Config validates a whole timeline document: every week and event field,
// then the structure tags cannot express. Weeks must be numbered 1..n, each
// must end on or after its start, consecutive weeks must be adjacent, and
// event ids must be unique.
func Config(cfg domain.TimelineConfig) error {
	if err := Struct(cfg); err != nil {
		return err
	}

	verr := &domain.ValidationError{}
	for i, w := range cfg.Weeks {
		path := fmt.Sprintf("weeks[%d]", i)
		if w.WeekNumber != i+1 {
			verr.Fields = append(verr.Fields, domain.FieldError{
				Field:   path + ".week_number",
				Message: fmt.Sprintf("week_number must be %d, got %d", i+1, w.WeekNumber),
			})
		}
		if w.EndDate.Before(w.StartDate) {
			verr.Fields = append(verr.Fields, domain.FieldError{
				Field:   path + ".end_date",
				Message: fmt.Sprintf("end_date %s is before start_date %s", w.EndDate, w.StartDate),
			})
		}
		if i > 0 {
			prev := cfg.Weeks[i-1]
			if !prev.EndDate.AddDays(1).Equal(w.StartDate) {
				verr.Fields = append(verr.Fields, domain.FieldError{
					Field:   path + ".start_date",
					Message: fmt.Sprintf("start_date %s does not follow the previous week ending %s", w.StartDate, prev.EndDate),
				})
			}
		}
	}

	seen := make(map[string]int, len(cfg.Events))
	for i, e := range cfg.Events {
		if first, dup := seen[e.ID]; dup {
			verr.Fields = append(verr.Fields, domain.FieldError{
				Field:   fmt.Sprintf("events[%d].id", i),
				Message: fmt.Sprintf("id %q is already used by events[%d]", e.ID, first),
			})
			continue
		}
		seen[e.ID] = i
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// CohortInput is the practicum creation form.
type CohortInput struct {
	Title       string             `json:"title" validate:"notblank,max=200"`
	StartDate   domain.Day         `json:"start_date" validate:"required"`
	EndDate     domain.Day         `json:"end_date" validate:"required"`
	LogInterval domain.LogInterval `json:"log_interval" validate:"log_interval"`
}

// Cohort validates the creation form, including the date range.
func Cohort(in CohortInput) error {
	if err := Struct(in); err != nil {
		return err
	}
	if in.StartDate.After(in.EndDate) {
		return &domain.InvalidRangeError{Start: in.StartDate, End: in.EndDate}
	}
	return nil
}

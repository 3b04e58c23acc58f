package domain

import (
	"fmt"
	"strings"
	"time"
)

// CohortCodePrefix prefixes every generated cohort code ("PC-3KX9QZ").
const CohortCodePrefix = "PC"

// Practicum is a cohort record. It exclusively owns its TimelineConfig,
// which lives in the same row and is deleted with it.
type Practicum struct {
	ID          string
	CohortCode  string
	Title       string
	StartDate   Day
	EndDate     Day
	LogInterval LogInterval
	CreatedAt   time.Time
	UpdatedAt   time.Time
	// TimelineSavedAt is set by the last explicit timeline save; nil while
	// the timeline is still the one generated at creation.
	TimelineSavedAt *time.Time
}

// DisplayID prefers the cohort code, falling back to a truncated id.
func (p *Practicum) DisplayID() string {
	if p.CohortCode != "" {
		return p.CohortCode
	}
	if len(p.ID) > 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Days returns the inclusive length of the cohort in calendar days.
func (p *Practicum) Days() int {
	return p.StartDate.DaysUntil(p.EndDate) + 1
}

// MatchesRef reports whether ref names this practicum by cohort code
// (case-insensitive), full id or id prefix.
func (p *Practicum) MatchesRef(ref string) bool {
	if ref == "" {
		return false
	}
	return strings.EqualFold(p.CohortCode, ref) || strings.HasPrefix(p.ID, ref)
}

func (p *Practicum) String() string {
	return fmt.Sprintf("%s %s (%s → %s, %s logs)", p.DisplayID(), p.Title, p.StartDate, p.EndDate, p.LogInterval)
}

package cli

import (
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/timeline"
)

// chromeLines is the number of lines the editor frame draws around the
// active view: title, breadcrumb, blank, blank, status and help.
const chromeLines = 6

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App       *App
	Practicum *domain.Practicum
	Editor    *timeline.Editor

	// Terminal dimensions
	Width  int
	Height int

	Status    string
	StatusErr error
}

func (s *SharedState) SetStatus(text string) {
	s.Status = text
	s.StatusErr = nil
}

func (s *SharedState) SetError(err error) {
	s.Status = ""
	s.StatusErr = err
}

// ContentHeight is the height left for the active view.
func (s *SharedState) ContentHeight() int {
	return max(s.Height-chromeLines, 3)
}

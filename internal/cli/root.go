package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/service"
	"github.com/schologic/practicum/internal/timeline"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Practicums service.PracticumService
	Timelines  service.TimelineService

	// DefaultInterval is used by "practicum add" when --interval is omitted.
	DefaultInterval domain.LogInterval
	// ShowLogs is the initial log filter for timeline views.
	ShowLogs bool

	// IsInteractive reports whether prompts and the editor can be shown.
	IsInteractive func() bool
	Now           func() time.Time
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
	// RunTUI runs the timeline editor. Nil runs a full-screen tea.Program.
	RunTUI func(m tea.Model) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) today() domain.Day {
	return domain.DayOf(a.now())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) defaultInterval() domain.LogInterval {
	if a.DefaultInterval.Valid() {
		return a.DefaultInterval
	}
	return domain.LogWeekly
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := wizardConfirm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func (a *App) runTUI(m tea.Model) error {
	if a.RunTUI != nil {
		return a.RunTUI(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// openEditor loads p's stored timeline into an editor using the app clock
// and log filter. Each successful save stamps p.TimelineSavedAt.
func (a *App) openEditor(ctx context.Context, p *domain.Practicum) (*timeline.Editor, error) {
	return a.Timelines.OpenEditor(ctx, p.ID,
		timeline.WithClock(a.now),
		timeline.WithShowLogs(a.ShowLogs),
		timeline.WithOnSaved(func(domain.TimelineConfig) {
			savedAt := a.now().UTC().Truncate(time.Second)
			p.TimelineSavedAt = &savedAt
		}),
	)
}

// NewRootCmd creates the top-level "practicum" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "practicum",
		Short:         "Practicum cohorts and their timelines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPracticumCmd(app),
		newTimelineCmd(app),
	)

	return root
}

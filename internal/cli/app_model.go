package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/schologic/practicum/internal/cli/formatter"
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/timeline"
)

// appModel is the root bubbletea Model of the timeline editor. It manages a
// view stack over one editor and draws the title, status and help lines.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
	quitting  bool
}

func newAppModel(app *App, p *domain.Practicum, ed *timeline.Editor) appModel {
	state := &SharedState{App: app, Practicum: p, Editor: ed}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	h.Styles.ShortDesc = formatter.StyleDim
	h.Styles.ShortSeparator = formatter.StyleDim

	return appModel{
		state:     state,
		viewStack: []View{newTimelineView(state)},
		help:      h,
	}
}

// activeView returns the top view on the stack, or nil.
func (m appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

func (m *appModel) forward(msg tea.Msg) tea.Cmd {
	v := m.activeView()
	if v == nil {
		return nil
	}
	updated, cmd := v.Update(msg)
	m.setActiveView(updated.(View))
	return cmd
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		return m, m.forward(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if !m.state.Editor.Dirty() {
				m.quitting = true
				return m, tea.Quit
			}
			if v := m.activeView(); v != nil && v.ID() == ViewConfirm {
				return m, nil
			}
			return m, pushView(newDiscardConfirmView(m.state))
		}
		return m, m.forward(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, msg.nextCmd

	case statusMsg:
		if msg.err != nil {
			m.state.SetError(msg.err)
		} else {
			m.state.SetStatus(msg.text)
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.state.SetError(fmt.Errorf("save failed: %w", msg.err))
		} else {
			m.state.SetStatus("Saved.")
		}
		return m, nil

	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.breadcrumb())
	b.WriteString("\n\n")

	if v := m.activeView(); v != nil {
		b.WriteString(v.View())
		b.WriteString("\n")
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView(v.ShortHelp()))
	}
	return b.String()
}

func (m appModel) titleLine() string {
	p := m.state.Practicum
	title := formatter.StyleHeader.Render(p.Title) + "  " +
		formatter.Dim(fmt.Sprintf("%s · %s", p.DisplayID(), formatter.DayRange(p.StartDate, p.EndDate)))

	ed := m.state.Editor
	switch {
	case ed.Saving():
		title += "  " + formatter.StyleYellow.Render("saving…")
	case ed.Dirty():
		title += "  " + formatter.StyleYellow.Render("● unsaved changes")
	default:
		title += "  " + formatter.StyleGreen.Render("✔ saved")
	}
	return title
}

func (m appModel) breadcrumb() string {
	parts := make([]string, len(m.viewStack))
	for i, v := range m.viewStack {
		parts[i] = v.Title()
	}
	return formatter.Dim(strings.Join(parts, " › "))
}

func (m appModel) statusLine() string {
	if m.state.StatusErr != nil {
		return formatter.StyleRed.Render(m.state.StatusErr.Error())
	}
	return formatter.Dim(m.state.Status)
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schologic/practicum/internal/cli/formatter"
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/timeline"
)

type timelineKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Logs       key.Binding
	Regenerate key.Binding
	Save       key.Binding
	Quit       key.Binding
}

func defaultTimelineKeys() timelineKeyMap {
	return timelineKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Delete:     key.NewBinding(key.WithKeys("x", "d"), key.WithHelp("x", "delete")),
		Logs:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "toggle logs")),
		Regenerate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "regenerate")),
		Save:       key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// timelineRow is either a section heading or an event.
type timelineRow struct {
	heading string
	event   *domain.TimelineEvent
}

// timelineView lists the editor's working timeline by week with a cursor
// over the events.
type timelineView struct {
	state    *SharedState
	keys     timelineKeyMap
	rows     []timelineRow
	hidden   int
	cursor   int // index into rows; always an event row when one exists
	selected string
	vp       viewport.Model
}

func newTimelineView(state *SharedState) *timelineView {
	v := &timelineView{
		state: state,
		keys:  defaultTimelineKeys(),
		vp:    viewport.New(0, 0),
	}
	v.rebuild()
	return v
}

func (v *timelineView) ID() ViewID    { return ViewTimeline }
func (v *timelineView) Title() string { return "Timeline" }

func (v *timelineView) ShortHelp() []key.Binding {
	k := v.keys
	return []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Logs, k.Regenerate, k.Save, k.Quit}
}

func (v *timelineView) Init() tea.Cmd {
	return nil
}

// rebuild re-derives rows from the editor, keeping the cursor on the same
// event when it is still visible.
func (v *timelineView) rebuild() {
	tv := v.state.Editor.View()
	v.hidden = tv.HiddenLogs

	rows := v.rows[:0]
	add := func(heading string, events []domain.TimelineEvent) {
		rows = append(rows, timelineRow{heading: heading})
		for i := range events {
			rows = append(rows, timelineRow{event: &events[i]})
		}
	}
	if len(tv.Pre) > 0 {
		add(formatter.PreWeekHeading, tv.Pre)
	}
	for _, wb := range tv.Weeks {
		add(formatter.WeekHeading(wb.Week), wb.Events)
	}
	if len(tv.Post) > 0 {
		add(formatter.PostWeekHeading, tv.Post)
	}
	v.rows = rows

	if v.selected != "" {
		for i, r := range v.rows {
			if r.event != nil && r.event.ID == v.selected {
				v.cursor = i
				return
			}
		}
	}
	v.cursor = min(v.cursor, len(v.rows)-1)
	if v.cursor < 0 || v.rows[v.cursor].event == nil {
		if !v.step(1) {
			v.step(-1)
		}
	}
	v.remember()
}

// step moves the cursor to the next event row in direction dir and reports
// whether one was found.
func (v *timelineView) step(dir int) bool {
	for i := v.cursor + dir; i >= 0 && i < len(v.rows); i += dir {
		if v.rows[i].event != nil {
			v.cursor = i
			v.remember()
			return true
		}
	}
	return false
}

func (v *timelineView) remember() {
	if ev := v.current(); ev != nil {
		v.selected = ev.ID
	} else {
		v.selected = ""
	}
}

// current returns the event under the cursor, or nil.
func (v *timelineView) current() *domain.TimelineEvent {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return v.rows[v.cursor].event
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil

	case tea.KeyMsg:
		v.rebuild()
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *timelineView) handleKey(msg tea.KeyMsg) tea.Cmd {
	ed := v.state.Editor

	switch {
	case key.Matches(msg, v.keys.Up):
		v.step(-1)

	case key.Matches(msg, v.keys.Down):
		v.step(1)

	case key.Matches(msg, v.keys.Add):
		ev := ed.AddEvent()
		v.selected = ev.ID
		return pushView(newEventFormView(v.state, ev, true))

	case key.Matches(msg, v.keys.Edit):
		cur := v.current()
		if cur == nil {
			return nil
		}
		ev, err := ed.EditEvent(cur.ID)
		if err != nil {
			return errorCmd(err)
		}
		return pushView(newEventFormView(v.state, ev, false))

	case key.Matches(msg, v.keys.Delete):
		cur := v.current()
		if cur == nil {
			return nil
		}
		title := cur.Title
		ed.DeleteEvent(cur.ID)
		if !v.step(1) {
			v.step(-1)
		}
		v.rebuild()
		return statusCmd(fmt.Sprintf("Deleted %q.", title))

	case key.Matches(msg, v.keys.Logs):
		shown := ed.ToggleShowLogs()
		v.rebuild()
		if shown {
			return statusCmd("Showing log events.")
		}
		return statusCmd(fmt.Sprintf("Hiding %s.", formatter.Plural(ed.HiddenLogCount(), "log event")))

	case key.Matches(msg, v.keys.Regenerate):
		ed.RequestRegenerate(timeline.InputFor(v.state.Practicum))
		prompt := fmt.Sprintf("Replace all %s with a timeline generated from %s (%s logs)?\nEvents added or edited by hand will be lost.",
			formatter.Plural(len(ed.Working().Events), "event"),
			formatter.DayRange(v.state.Practicum.StartDate, v.state.Practicum.EndDate),
			v.state.Practicum.LogInterval)
		return pushView(newConfirmView(v.state, "Regenerate", prompt,
			func() tea.Cmd {
				if err := ed.ConfirmRegenerate(); err != nil {
					return errorCmd(err)
				}
				v.selected = ""
				v.cursor = 0
				return statusCmd("Timeline regenerated. Press s to save it.")
			},
			func() tea.Cmd {
				ed.CancelRegenerate()
				return statusCmd("Regenerate cancelled.")
			},
		))

	case key.Matches(msg, v.keys.Save):
		if ed.Saving() {
			return statusCmd("A save is already in progress.")
		}
		return saveCmd(ed)

	case key.Matches(msg, v.keys.Quit):
		if !ed.Dirty() {
			return quitCmd()
		}
		return pushView(newDiscardConfirmView(v.state))
	}
	return nil
}

// saveCmd runs the store write off the update loop.
func saveCmd(ed *timeline.Editor) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: ed.Save(context.Background())}
	}
}

func (v *timelineView) View() string {
	v.rebuild()

	var b strings.Builder
	cursorLine := 0
	if len(v.rows) == 0 {
		b.WriteString(formatter.Dim(formatter.EmptyTimeline))
		b.WriteString("\n")
	}
	for i, r := range v.rows {
		if r.heading != "" {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(formatter.StyleHeader.Render(strings.ToUpper(r.heading)))
			b.WriteString("\n")
			continue
		}
		if i == v.cursor {
			cursorLine = strings.Count(b.String(), "\n")
			b.WriteString(formatter.StyleHeader.Render("› "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(formatter.FormatEventLine(*r.event))
		b.WriteString("\n")
	}
	if note := formatter.HiddenLogsNote(v.hidden); note != "" {
		b.WriteString("\n")
		b.WriteString(formatter.Dim(note + " · press l to show"))
	}

	body := strings.TrimRight(b.String(), "\n")
	if v.vp.Height <= 0 {
		return body
	}

	v.vp.SetContent(body)
	switch {
	case cursorLine < v.vp.YOffset:
		v.vp.SetYOffset(cursorLine)
	case cursorLine >= v.vp.YOffset+v.vp.Height:
		v.vp.SetYOffset(cursorLine - v.vp.Height + 1)
	}
	return v.vp.View()
}

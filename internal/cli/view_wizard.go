package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/schologic/practicum/internal/cli/formatter"
	"github.com/schologic/practicum/internal/domain"
)

// eventFormValues are the strings a huh form edits for one event.
type eventFormValues struct {
	Title       string
	Date        string
	Type        domain.EventType
	Description string
}

func formValuesOf(ev domain.TimelineEvent) *eventFormValues {
	return &eventFormValues{
		Title:       ev.Title,
		Date:        ev.Date.String(),
		Type:        ev.Type,
		Description: ev.Description,
	}
}

// apply returns base with the form's values; the id and system flag are
// kept.
func (f *eventFormValues) apply(base domain.TimelineEvent) (domain.TimelineEvent, error) {
	date, err := domain.ParseMoment(strings.TrimSpace(f.Date))
	if err != nil {
		return base, domain.NewValidationError("date", err.Error())
	}
	base.Title = strings.TrimSpace(f.Title)
	base.Date = date
	base.Type = f.Type
	base.Description = strings.TrimSpace(f.Description)
	return base, nil
}

// eventFormView wraps the event huh.Form as a View on the navigation stack.
// Submitting commits the edit buffer; a rejected event reopens the form
// with the entered values and the validation message.
type eventFormView struct {
	state  *SharedState
	form   *huh.Form
	values *eventFormValues
	base   domain.TimelineEvent
	isNew  bool
	err    error
}

func newEventFormView(state *SharedState, ev domain.TimelineEvent, isNew bool) *eventFormView {
	values := formValuesOf(ev)
	return &eventFormView{
		state:  state,
		form:   wizardEvent(values),
		values: values,
		base:   ev,
		isNew:  isNew,
	}
}

func (v *eventFormView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *eventFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, v.cancel()
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	switch v.form.State {
	case huh.StateCompleted:
		return v, v.submit()
	case huh.StateAborted:
		return v, v.cancel()
	}
	return v, cmd
}

func (v *eventFormView) cancel() tea.Cmd {
	v.state.Editor.CancelEdit()
	return completeWith(statusCmd("Edit cancelled."))
}

// submit commits the form values through the editor.
func (v *eventFormView) submit() tea.Cmd {
	ev, err := v.values.apply(v.base)
	if err == nil {
		err = v.state.Editor.CommitEdit(ev)
	}
	if err != nil {
		v.err = err
		v.form = wizardEvent(v.values)
		return v.form.Init()
	}

	verb := "Updated"
	if v.isNew {
		verb = "Added"
	}
	return completeWith(statusCmd(fmt.Sprintf("%s %q. Press s to save.", verb, ev.Title)))
}

func (v *eventFormView) View() string {
	out := v.form.View()
	if v.err != nil {
		out += "\n" + formatter.StyleRed.Render(v.err.Error())
	}
	return out
}

func (v *eventFormView) ID() ViewID { return ViewEventForm }

func (v *eventFormView) Title() string {
	if v.isNew {
		return "Add event"
	}
	return "Edit event"
}

func (v *eventFormView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

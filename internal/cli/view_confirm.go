package cli

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schologic/practicum/internal/cli/formatter"
)

// confirmView asks a yes/no question over the current view. Either answer
// pops it; onYes or onNo supplies the follow-up command.
type confirmView struct {
	state    *SharedState
	titleStr string
	prompt   string
	onYes    func() tea.Cmd
	onNo     func() tea.Cmd
}

var (
	confirmYes = key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes"))
	confirmNo  = key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "no"))
)

func newConfirmView(state *SharedState, title, prompt string, onYes, onNo func() tea.Cmd) *confirmView {
	return &confirmView{state: state, titleStr: title, prompt: prompt, onYes: onYes, onNo: onNo}
}

// newDiscardConfirmView guards quitting with unsaved changes.
func newDiscardConfirmView(state *SharedState) *confirmView {
	return newConfirmView(state, "Quit", "Discard unsaved changes and quit?", quitCmd, nil)
}

func (v *confirmView) ID() ViewID               { return ViewConfirm }
func (v *confirmView) Title() string             { return v.titleStr }
func (v *confirmView) ShortHelp() []key.Binding { return []key.Binding{confirmYes, confirmNo} }

func (v *confirmView) Init() tea.Cmd { return nil }

func (v *confirmView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(keyMsg, confirmYes):
		return v, completeWith(call(v.onYes))
	case key.Matches(keyMsg, confirmNo):
		return v, completeWith(call(v.onNo))
	}
	return v, nil
}

func call(fn func() tea.Cmd) tea.Cmd {
	if fn == nil {
		return nil
	}
	return fn()
}

func (v *confirmView) View() string {
	return formatter.RenderBox(v.titleStr, v.prompt+"\n\n"+formatter.Dim("y = yes · n = no"))
}

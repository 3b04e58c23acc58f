package cli

import tea "github.com/charmbracelet/bubbletea"

type pushViewMsg struct {
	view View
}

// wizardCompleteMsg pops the top view and then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// statusMsg replaces the status line. A non-nil err renders as an error.
type statusMsg struct {
	text string
	err  error
}

// savedMsg reports the end of an editor save.
type savedMsg struct {
	err error
}

type quitMsg struct{}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// completeWith pops the current view and runs next afterwards.
func completeWith(next tea.Cmd) tea.Cmd {
	return func() tea.Msg { return wizardCompleteMsg{nextCmd: next} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{err: err} }
}

func quitCmd() tea.Cmd {
	return func() tea.Msg { return quitMsg{} }
}

// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run to completion
// before the next input, so tests never race a tea.Program. Cmds that do
// not return within a few milliseconds, such as cursor blink timers, are
// dropped.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single input may trigger.
const MaxDrainDepth = 100

// cmdTimeout separates message factories and in-memory I/O, which return
// in microseconds, from timer-driven Cmds, which block for hundreds of
// milliseconds.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg comes out of a Cmd. The runtime
	// normally swallows it, so the driver records it instead.
	Quitting bool

	// Seen lists the dynamic type of every message fed to Update, in order.
	Seen []string
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for model. Call DrainInit afterwards to run Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit runs the model's Init command and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
// Nothing is delivered after the model has quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.drainCmd(d.update(msg), 0)
}

// Press sends a key by its bubbletea name ("enter", "esc", "ctrl+s", "up")
// or, for anything else, as typed runes.
func (d *Driver) Press(name string) {
	d.T.Helper()
	if t, ok := namedKeys[name]; ok {
		d.Send(tea.KeyMsg{Type: t})
		return
	}
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)})
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+s":    tea.KeyCtrlS,
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() { d.T.Helper(); d.Press("enter") }
func (d *Driver) PressEsc()   { d.T.Helper(); d.Press("esc") }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.Press("ctrl+c") }
func (d *Driver) PressUp()    { d.T.Helper(); d.Press("up") }
func (d *Driver) PressDown()  { d.T.Helper(); d.Press("down") }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

// Saw reports whether a message whose type name contains typeName has
// been delivered, e.g. Saw("savedMsg").
func (d *Driver) Saw(typeName string) bool {
	for _, s := range d.Seen {
		if strings.Contains(s, typeName) {
			return true
		}
	}
	return false
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	d.Seen = append(d.Seen, fmt.Sprintf("%T", msg))
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	return cmd
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drainCmd(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		d.update(m)
		return
	}

	if isCursorBlink(msg) {
		return
	}
	d.drainCmd(d.update(msg), depth+1)
}

// runWithTimeout returns nil for Cmds that do not finish within cmdTimeout.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor,
// which chain into blocking timer Cmds.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schologic/practicum/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EventTypeStyle returns the color an event type is drawn in.
func EventTypeStyle(t domain.EventType) lipgloss.Style {
	switch t {
	case domain.EventMilestone:
		return StylePurple
	case domain.EventDeadline:
		return StyleRed
	case domain.EventMeeting:
		return StyleBlue
	case domain.EventReport:
		return StyleYellow
	case domain.EventLog:
		return StyleDim
	default:
		return StyleFg
	}
}

func eventGlyph(t domain.EventType) string {
	switch t {
	case domain.EventMilestone:
		return "◆"
	case domain.EventDeadline:
		return "▲"
	case domain.EventMeeting:
		return "●"
	case domain.EventReport:
		return "■"
	case domain.EventLog:
		return "·"
	default:
		return "○"
	}
}

// EventTypeBadge returns a fixed-width colored marker such as "◆ milestone".
func EventTypeBadge(t domain.EventType) string {
	return EventTypeStyle(t).Render(fmt.Sprintf("%s %-9s", eventGlyph(t), string(t)))
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schologic/practicum/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// RelativeDay describes target relative to today: "Today", "In 3d",
// "2w ago" and so on.
func RelativeDay(target, today domain.Day) string {
	days := today.DaysUntil(target)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDayStyled colors RelativeDay by urgency.
func RelativeDayStyled(target, today domain.Day) string {
	text := RelativeDay(target, today)
	days := today.DaysUntil(target)
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// HumanDay formats a day as "Mon Jan 5".
func HumanDay(d domain.Day) string {
	if d.IsZero() {
		return "--"
	}
	return d.Time().Format("Mon Jan 2")
}

// DayRange formats an inclusive range as "2026-01-05 → 2026-01-18".
func DayRange(start, end domain.Day) string {
	return fmt.Sprintf("%s → %s", start, end)
}

// IntervalBadge returns the styled cadence label, e.g. "Weekly".
func IntervalBadge(i domain.LogInterval) string {
	if !i.Valid() {
		return StyleDim.Render("--")
	}
	return StyleGreen.Render(i.Title())
}

// Plural returns "1 event", "3 events".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

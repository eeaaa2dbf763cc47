package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar draws a single-line bar: location and attributes on
// the left, combat or inventory summary on the right, padded to the
// terminal width.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	attrs := make([]string, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, fmt.Sprintf("%s %g", name, s.Attributes[name]))
	}

	left := fmt.Sprintf(" %s ｜ %s", s.CurrentLocation, strings.Join(attrs, "  "))

	var right string
	if s.InCombat {
		right = fmt.Sprintf("⚔ 战斗中 (%d) ", len(s.Combatants))
	} else {
		right = fmt.Sprintf("背包 %d ", len(s.Inventory))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Terminal too narrow for both halves. Truncate the left side
		// so the combat indicator stays visible.
		left = runeTruncate(left, m.width-lipgloss.Width(right)-1)
		gap = 1
	}

	bar := left + strings.Repeat(" ", gap) + right
	if s.InCombat {
		return combatBarStyle.Render(bar)
	}
	return statusBarStyle.Render(bar)
}

// runeTruncate cuts text to at most width terminal cells.
func runeTruncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	cells := 0
	for _, r := range text {
		w := lipgloss.Width(string(r))
		if cells+w > width {
			break
		}
		b.WriteRune(r)
		cells += w
	}
	return b.String()
}

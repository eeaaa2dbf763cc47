package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	narrativeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	playerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	systemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	combatStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("250"))

	combatBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("52")).
			Foreground(lipgloss.Color("223"))

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// lineKind tags an output line so the viewport can re-style it after
// a resize without re-running the turn that produced it.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindPlayer
	kindSuggestion
	kindSystem
	kindError
	kindCombat
)

type outputLine struct {
	kind lineKind
	text string
}

func (l outputLine) render() string {
	switch l.kind {
	case kindPlayer:
		return playerStyle.Render(l.text)
	case kindSuggestion:
		return suggestionStyle.Render(l.text)
	case kindSystem:
		return systemStyle.Render(l.text)
	case kindError:
		return errorStyle.Render(l.text)
	case kindCombat:
		return combatStyle.Render(l.text)
	default:
		return narrativeStyle.Render(l.text)
	}
}

// runeWrap breaks text into lines of at most width terminal cells. The
// narrative is largely CJK text without word boundaries, so wrapping is
// done per rune (counting double-width cells) rather than per
// space-delimited word.
func runeWrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			out = append(out, "")
			continue
		}
		var line strings.Builder
		cells := 0
		for _, r := range para {
			w := runewidth.RuneWidth(r)
			if cells+w > width && cells > 0 {
				out = append(out, line.String())
				line.Reset()
				cells = 0
			}
			line.WriteRune(r)
			cells += w
		}
		out = append(out, line.String())
	}
	return out
}

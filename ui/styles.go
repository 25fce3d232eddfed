package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/minikastronot/minik/internal/progress"
)

const (
	fullStar  = "★"
	emptyStar = "☆"
	lockIcon  = "🔒"
)

var (
	turkishUpper = cases.Upper(language.Turkish)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fde047")).
			MarginBottom(1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"})

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1F1F1")).
			Background(lipgloss.Color("#FF5F87")).
			Bold(true).
			Padding(0, 1)

	bubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#60a5fa")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f472b6")).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0f172a")).
			Background(lipgloss.Color("#facc15")).
			Bold(true).
			Padding(0, 2)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e2e8f0")).
				Background(lipgloss.Color("#475569")).
				Padding(0, 2)

	litStyle = lipgloss.NewStyle().
			Reverse(true).
			Bold(true)

	starStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15"))

	helpStyle = subtleStyle.MarginTop(1)
)

// heading upper-cases with Turkish rules so "Dünya" becomes "DÜNYA" and
// "i" keeps its dot.
func heading(s string) string {
	return titleStyle.Render(turkishUpper.String(s))
}

func stars(n int) string {
	n = max(0, min(n, progress.MaxStars))
	return starStyle.Render(strings.Repeat(fullStar, n)) +
		subtleStyle.Render(strings.Repeat(emptyStar, progress.MaxStars-n))
}

func colored(hex, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true).Render(s)
}

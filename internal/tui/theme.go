package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme groups the lipgloss styles used by the survey views.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Notice   lipgloss.Style
	Error    lipgloss.Style

	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardTitle   lipgloss.Style

	TierOK   lipgloss.Style
	TierWarn lipgloss.Style
	TierBad  lipgloss.Style

	RankingHeader lipgloss.Style
	StopMarker    lipgloss.Style
}

// NewTheme picks the colored theme unless UNIVIA_NO_COLOR disables it.
func NewTheme() Theme {
	if os.Getenv("UNIVIA_NO_COLOR") == "1" {
		return NewNoColorTheme()
	}

	text := lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#e8e8e8"}
	muted := lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	accent := lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	border := lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#4b5563"}
	borderHi := lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#93c5fd"}
	good := lipgloss.AdaptiveColor{Light: "#15803d", Dark: "#4ade80"}
	warn := lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#fbbf24"}
	bad := lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}

	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Subtitle: lipgloss.NewStyle().Foreground(text),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Notice:   lipgloss.NewStyle().Foreground(warn),
		Error:    lipgloss.NewStyle().Foreground(bad),

		Card:        lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Padding(0, 1),
		CardFocused: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(borderHi).Padding(0, 1),
		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(text),

		TierOK:   lipgloss.NewStyle().Bold(true).Foreground(good),
		TierWarn: lipgloss.NewStyle().Bold(true).Foreground(warn),
		TierBad:  lipgloss.NewStyle().Bold(true).Foreground(bad),

		RankingHeader: lipgloss.NewStyle().Bold(true).Foreground(accent),
		StopMarker:    lipgloss.NewStyle().Bold(true).Foreground(good),
	}
}

// NewNoColorTheme keeps layout styles but drops all colors, for tests and
// dumb terminals.
func NewNoColorTheme() Theme {
	plain := lipgloss.NewStyle()
	boxed := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	return Theme{
		Title:         plain,
		Subtitle:      plain,
		Muted:         plain,
		Notice:        plain,
		Error:         plain,
		Card:          boxed,
		CardFocused:   boxed,
		CardTitle:     plain,
		TierOK:        plain,
		TierWarn:      plain,
		TierBad:       plain,
		RankingHeader: plain,
		StopMarker:    plain,
	}
}

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

var (
	ColorBg          = lipgloss.Color("#282A36")
	ColorBgHighlight = lipgloss.Color("#44475A")
	ColorText        = lipgloss.Color("#F8F8F2")
	ColorMuted       = lipgloss.Color("#6272A4")
	ColorPrimary     = lipgloss.Color("#BD93F9")
	ColorSuccess     = lipgloss.Color("#50FA7B")
	ColorWarning     = lipgloss.Color("#FFB86C")

	// Page and panel fallbacks before the first theme is applied.
	pageFallback  = model.MustParseColor("#ffffff")
	panelFallback = model.MustParseColor("#ffffff")
	textFallback  = model.MustParseColor("#000000")
)

// ══════════════════════════════════════════════════════════════════════════════
// THEME
// ══════════════════════════════════════════════════════════════════════════════

// Theme holds the chrome styles: status bar, overlays, help.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Base lipgloss.Style
}

// DefaultTheme builds the theme for renderer r, or the default renderer.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: string(ColorPrimary)},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: string(ColorMuted)},
		Subtext:   lipgloss.AdaptiveColor{Light: "#777777", Dark: "#BFBFBF"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: string(ColorBgHighlight)},
		Base:      r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: string(ColorText)}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS BAR PIECES
// ══════════════════════════════════════════════════════════════════════════════

// RenderProgressBar renders how far through the deck the scroll is.
func RenderProgressBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(t.Primary).Render(bar)
}

// RenderPhaseBadge shows whether the stack is free or settling.
func RenderPhaseBadge(settling bool, t Theme) string {
	label, fg := "FREE", ColorSuccess
	if settling {
		label, fg = "SNAP", ColorWarning
	}
	return t.Renderer.NewStyle().
		Foreground(fg).
		Background(ColorBgHighlight).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Highlight).
		Render(strings.Repeat("─", width))
}

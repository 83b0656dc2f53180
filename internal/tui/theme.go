package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/jaskcalc/internal/keypad"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
	colorMantle   lipgloss.Color = "#181825"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorMuted   = colorOverlay0
)

// keyClassColors maps keypad button classes to their face color.
var keyClassColors = map[keypad.Class]lipgloss.Color{
	keypad.ClassDigit:    colorText,
	keypad.ClassOperator: colorPeach,
	keypad.ClassFunction: colorSky,
	keypad.ClassEquals:   colorGreen,
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Foreground(colorText).
			Bold(true).
			Padding(0, 1)

	displayErrorStyle = displayStyle.BorderForeground(colorError).Foreground(colorError)

	pendingStyle = lipgloss.NewStyle().Foreground(colorMuted)

	buttonStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Align(lipgloss.Center)

	buttonActiveStyle = buttonStyle.Background(colorMauve).Foreground(colorBase).Bold(true)

	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	footerKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	statusBarStyle    = lipgloss.NewStyle().Background(colorMantle).Foreground(colorSubtext0)
	statusErrBarStyle = lipgloss.NewStyle().Background(colorMantle).Foreground(colorError)

	paletteStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
	paletteCursorStyle   = lipgloss.NewStyle().Foreground(colorBase).Background(colorBlue)
	paletteDisabledStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/jaskcalc/internal/keys"
)

const paletteMaxRows = 8

type paletteState struct {
	open          bool
	query         string
	cursor        int
	matches       []CommandMatch
	lastCommandID string
}

func (a *App) openPalette() {
	a.palette.open = true
	a.palette.query = ""
	a.palette.cursor = 0
	a.refreshPalette()
}

func (a *App) closePalette() {
	a.palette.open = false
	a.palette.query = ""
	a.palette.cursor = 0
	a.palette.matches = nil
}

func (a *App) refreshPalette() {
	a.palette.matches = a.commands.Search(a.palette.query, a, a.palette.lastCommandID)
	if a.palette.cursor >= len(a.palette.matches) {
		a.palette.cursor = max(0, len(a.palette.matches)-1)
	}
}

func (a *App) handlePaletteKey(m tea.KeyMsg) tea.Cmd {
	keyName := m.String()
	if b := a.keys.Lookup(keyName, keys.ScopePalette); b != nil {
		switch b.Action {
		case keys.ActionClose:
			a.closePalette()
			return nil
		case keys.ActionSelect:
			return a.runSelectedCommand()
		case keys.ActionNavigate:
			a.movePaletteCursor(keyName)
			return nil
		case keys.ActionQuit:
			if m.Type != tea.KeyRunes {
				return tea.Quit
			}
		}
	}
	switch m.Type {
	case tea.KeyBackspace:
		if a.palette.query != "" {
			_, size := utf8.DecodeLastRuneInString(a.palette.query)
			a.palette.query = a.palette.query[:len(a.palette.query)-size]
		}
	case tea.KeySpace:
		a.palette.query += " "
	case tea.KeyRunes:
		a.palette.query += string(m.Runes)
	default:
		return nil
	}
	a.palette.cursor = 0
	a.refreshPalette()
	return nil
}

func (a *App) movePaletteCursor(keyName string) {
	n := len(a.palette.matches)
	if n == 0 {
		return
	}
	switch keys.NormalizeKeyName(keyName) {
	case "up", "ctrl+p":
		a.palette.cursor = (a.palette.cursor - 1 + n) % n
	default:
		a.palette.cursor = (a.palette.cursor + 1) % n
	}
}

func (a *App) runSelectedCommand() tea.Cmd {
	if len(a.palette.matches) == 0 {
		return nil
	}
	match := a.palette.matches[a.palette.cursor]
	if !match.Enabled {
		a.setStatus(match.DisabledReason, true)
		return nil
	}
	id := match.Command.ID
	a.closePalette()
	cmd, err := a.commands.ExecuteByID(id, a)
	if err != nil {
		a.log.Error().Err(err).Str("command", id).Msg("palette command failed")
		a.setStatus(err.Error(), true)
		return nil
	}
	a.palette.lastCommandID = id
	a.log.Debug().Str("command", id).Msg("palette command run")
	return cmd
}

func (a *App) renderPalette() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Commands"))
	b.WriteString("\n> ")
	b.WriteString(a.palette.query)
	b.WriteString("\n")
	if len(a.palette.matches) == 0 {
		b.WriteString(mutedStyle.Render("no matching commands"))
		return paletteStyle.Render(b.String())
	}
	start := 0
	if a.palette.cursor >= paletteMaxRows {
		start = a.palette.cursor - paletteMaxRows + 1
	}
	end := min(len(a.palette.matches), start+paletteMaxRows)
	for i := start; i < end; i++ {
		b.WriteString("\n" + a.renderPaletteRow(a.palette.matches[i], i == a.palette.cursor))
	}
	return paletteStyle.Render(b.String())
}

// renderPaletteRow shows the label with the disabled reason or description.
// The selected row keeps the same text under the cursor style.
func (a *App) renderPaletteRow(match CommandMatch, selected bool) string {
	label := match.Command.Label
	switch {
	case !match.Enabled:
		text := label + " (" + match.DisabledReason + ")"
		if selected {
			return paletteCursorStyle.Render(text)
		}
		return paletteDisabledStyle.Render(text)
	case match.Command.Description != "":
		if selected {
			return paletteCursorStyle.Render(label + "  " + match.Command.Description)
		}
		return label + mutedStyle.Render("  "+match.Command.Description)
	case selected:
		return paletteCursorStyle.Render(label)
	}
	return label
}

func defaultCommands() []Command {
	press := func(id string) func(a *App) (tea.Cmd, error) {
		return func(a *App) (tea.Cmd, error) {
			return a.press(id), nil
		}
	}
	tapeEnabled := func(a *App) (bool, string) {
		if a.tape == nil {
			return false, "tape is disabled"
		}
		return true, ""
	}
	return []Command{
		{ID: "clear", Label: "Clear", Description: "Reset calculator", Category: "Calculator", Execute: press("clear")},
		{ID: "toggle_sign", Label: "Toggle sign", Description: "Negate display", Category: "Calculator", Execute: press("toggle_sign")},
		{ID: "percent", Label: "Percent", Description: "Divide display by 100", Category: "Calculator", Execute: press("percent")},
		{
			ID: "toggle_clock", Label: "Toggle clock", Category: "View",
			Execute: func(a *App) (tea.Cmd, error) {
				a.toggle(&a.cfg.UI.ShowClock, "clock")
				return nil, nil
			},
		},
		{
			ID: "toggle_weather", Label: "Toggle weather", Category: "View",
			Execute: func(a *App) (tea.Cmd, error) {
				a.toggle(&a.cfg.UI.ShowWeather, "weather")
				return nil, nil
			},
		},
		{
			ID: "toggle_tape", Label: "Toggle tape", Category: "View",
			Execute: func(a *App) (tea.Cmd, error) {
				a.toggle(&a.cfg.UI.ShowTape, "tape")
				return nil, nil
			},
		},
		{
			ID: "clear_tape", Label: "Clear tape", Description: "Forget recorded calculations", Category: "Tape",
			Enabled: tapeEnabled,
			Execute: func(a *App) (tea.Cmd, error) {
				return a.clearTape(), nil
			},
		},
		{
			ID: "save_prefs", Label: "Save preferences", Description: "Write display toggles to config", Category: "Settings",
			Enabled: func(a *App) (bool, string) {
				if strings.TrimSpace(a.configPath) == "" {
					return false, "no config path"
				}
				return true, ""
			},
			Execute: func(a *App) (tea.Cmd, error) {
				return a.savePrefs(), nil
			},
		},
		{
			ID: "quit", Label: "Quit", Category: "App",
			Execute: func(a *App) (tea.Cmd, error) {
				return tea.Quit, nil
			},
		},
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/jaskcalc/internal/calc"
	"github.com/jask/jaskcalc/internal/keypad"
	"github.com/jask/jaskcalc/internal/keys"
)

const (
	buttonWidth  = 6
	displayWidth = keypad.Columns*buttonWidth + (keypad.Columns - 1)
	sideWidth    = 28
)

func (a *App) View() string {
	calcColumn := lipgloss.JoinVertical(lipgloss.Left,
		a.renderDisplay(),
		a.renderKeypad(),
	)

	var side []string
	if a.cfg.UI.ShowClock {
		side = append(side, a.renderClock())
	}
	if a.cfg.UI.ShowWeather {
		side = append(side, a.renderWeather())
	}
	if a.cfg.UI.ShowTape && a.tape != nil {
		side = append(side, a.renderTape())
	}

	body := calcColumn
	if len(side) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, calcColumn, " ", lipgloss.JoinVertical(lipgloss.Left, side...))
	}
	if a.palette.open {
		body = lipgloss.JoinVertical(lipgloss.Left, body, a.renderPalette())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("jaskcalc"),
		body,
		a.renderFooter(),
		a.renderStatusBar(),
	)
}

// fitDisplay keeps the least significant end of s when it is wider than
// width, so the digits being typed stay visible.
func fitDisplay(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w <= width {
		return strings.Repeat(" ", width-w) + s
	}
	return ansi.TruncateLeft(s, w-width+1, "…")
}

func (a *App) renderDisplay() string {
	st := a.eval.State()
	pending := ""
	if st.PendingOperator != calc.OpNone && st.Accumulator != nil {
		pending = calc.Format(*st.Accumulator) + " " + st.PendingOperator.Symbol()
	}
	top := pendingStyle.Render(fitDisplay(pending, displayWidth))
	if st.HasError {
		return displayErrorStyle.Render(top + "\n" + fitDisplay(st.Display, displayWidth))
	}
	return displayStyle.Render(top + "\n" + fitDisplay(st.Display, displayWidth))
}

func (a *App) renderKeypad() string {
	st := a.eval.State()
	highlight := ""
	if st.AwaitingOperand && st.PendingOperator != calc.OpNone {
		if b, ok := keypad.ButtonForOperator(st.PendingOperator); ok {
			highlight = b.ID
		}
	}
	rows := make([]string, 0, len(keypad.Layout()))
	for _, row := range keypad.Layout() {
		cells := make([]string, 0, len(row))
		for _, b := range row {
			width := b.Span*buttonWidth + (b.Span - 1)
			style := buttonStyle.Foreground(keyClassColors[b.Class])
			if b.ID == highlight {
				style = buttonActiveStyle
			}
			cells = append(cells, style.Width(width).Render(b.Label))
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return panelStyle.Render(strings.Join(rows, "\n\n"))
}

func (a *App) renderClock() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		infoStyle.Bold(true).Render(a.now.Format("15:04:05")),
		mutedStyle.Render(a.now.Format("Mon 2 Jan 2006")),
		mutedStyle.Render(a.tz.String()),
	)
	return panelStyle.Width(sideWidth).Render(body)
}

func (a *App) renderWeather() string {
	w := a.cfg.Weather
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(w.Location),
		fmt.Sprintf("%s  %s", warningStyle.Render(fmt.Sprintf("%.0f°C", w.TempC)), w.Condition),
		mutedStyle.Render(fmt.Sprintf("H %.0f°  L %.0f°", w.HighC, w.LowC)),
	)
	return panelStyle.Width(sideWidth).Render(body)
}

func (a *App) renderTape() string {
	title := "Tape"
	if a.tapeTotal > len(a.tapeEntries) {
		title = fmt.Sprintf("Tape (%d of %d)", len(a.tapeEntries), a.tapeTotal)
	} else if a.tapeTotal > 0 {
		title = fmt.Sprintf("Tape (%d)", a.tapeTotal)
	}
	lines := []string{titleStyle.Render(title)}
	if len(a.tapeEntries) == 0 {
		lines = append(lines, mutedStyle.Render("no calculations yet"))
	}
	inner := sideWidth - 2
	for _, e := range a.tapeEntries {
		result := successStyle.Render("= " + e.Result)
		if e.IsError {
			result = errorStyle.Render("= " + e.Result)
		}
		lines = append(lines,
			ansi.Truncate(e.Expression, inner, "…"),
			fitDisplay(result, inner),
		)
	}
	return panelStyle.Width(sideWidth).Render(strings.Join(lines, "\n"))
}

func (a *App) activeScope() string {
	if a.palette.open {
		return keys.ScopePalette
	}
	return keys.ScopeCalculator
}

func (a *App) renderFooter() string {
	bindings := a.keys.HelpBindings(a.activeScope())
	if !a.palette.open {
		bindings = append(bindings, a.keys.HelpBindings(keys.ScopeGlobal)...)
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")
	if a.width > 0 {
		line = ansi.Truncate(line, a.width, "…")
	}
	return line
}

func (a *App) renderStatusBar() string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	style := statusBarStyle
	if a.statusErr {
		style = statusErrBarStyle
	}
	if a.width > 0 {
		msg = ansi.Truncate(msg, a.width, "…")
		return style.Width(a.width).Render(msg)
	}
	return style.Render(msg)
}

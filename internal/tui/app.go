package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jask/jaskcalc/internal/calc"
	"github.com/jask/jaskcalc/internal/config"
	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/keypad"
	"github.com/jask/jaskcalc/internal/keys"
	"github.com/jask/jaskcalc/internal/service"
)

// App is the Bubble Tea model for the calculator screen.
type App struct {
	ctx        context.Context
	cfg        config.Config
	configPath string
	log        zerolog.Logger
	tz         *time.Location
	clockNow   func() time.Time

	eval     *calc.Evaluator
	dispatch *keypad.Dispatcher
	keys     *keys.Registry
	commands *CommandRegistry
	tape     *service.TapeService

	// transitions collects listener output until the next drain.
	transitions []calc.Transition
	tapeEntries []repository.TapeEntry
	tapeTotal   int

	now       time.Time
	width     int
	height    int
	status    string
	statusErr bool

	palette paletteState
}

// Deps carries what the App needs from main.
type Deps struct {
	Config     config.Config
	ConfigPath string
	Keys       *keys.Registry
	Tape       *service.TapeService
	Log        zerolog.Logger
	Location   *time.Location

	// Now defaults to time.Now.
	Now func() time.Time
}

func New(ctx context.Context, deps Deps) *App {
	if ctx == nil {
		ctx = context.Background()
	}
	a := &App{
		ctx:        ctx,
		cfg:        deps.Config,
		configPath: deps.ConfigPath,
		log:        deps.Log,
		tz:         deps.Location,
		clockNow:   deps.Now,
		keys:       deps.Keys,
		tape:       deps.Tape,
	}
	if a.tz == nil {
		a.tz = time.Local
	}
	if a.clockNow == nil {
		a.clockNow = time.Now
	}
	if a.keys == nil {
		a.keys = keys.Default()
		keypad.RegisterBindings(a.keys)
	}
	if !a.cfg.Tape.Enabled {
		a.tape = nil
	}
	a.eval = calc.New(calc.WithListener(a.observe))
	a.dispatch = keypad.NewDispatcher(a.keys, a.eval)
	a.commands = NewCommandRegistry(defaultCommands())
	a.now = a.clockNow().In(a.tz)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.tick(), a.loadTape())
}

// Evaluator exposes the calculator for read-only inspection.
func (a *App) Evaluator() *calc.Evaluator { return a.eval }

func (a *App) Config() config.Config { return a.cfg }

func (a *App) observe(t calc.Transition) {
	a.transitions = append(a.transitions, t)
	ev := a.log.Debug().
		Str("action", t.Action.String()).
		Str("display", t.After.Display)
	if t.Evaluated != nil {
		ev = ev.Str("op", t.Evaluated.Op.String())
	}
	ev.Msg("calculator transition")
	if t.After.HasError && !t.Before.HasError {
		a.log.Warn().Str("action", t.Action.String()).Msg("calculator entered error state")
	}
}

// press runs button id through the dispatcher and returns the follow-up
// command for any evaluations it produced.
func (a *App) press(id string) tea.Cmd {
	if !a.dispatch.Press(id) {
		return nil
	}
	return a.drain()
}

// drain hands finished evaluations to the tape. Entry ids and timestamps are
// assigned here; the writes happen off the update loop.
func (a *App) drain() tea.Cmd {
	pending := a.transitions
	a.transitions = nil
	if a.tape == nil {
		return nil
	}
	var entries []repository.TapeEntry
	for _, t := range pending {
		if e, ok := a.tape.EntryFor(t); ok {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return a.recordTape(entries)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		return a, nil
	case tickMsg:
		a.now = time.Time(m).In(a.tz)
		return a, a.tick()
	case tapeMsg:
		a.tapeEntries = m.entries
		a.tapeTotal = m.total
		return a, nil
	case statusMsg:
		a.setStatus(string(m), false)
		return a, nil
	case errMsg:
		a.log.Error().Err(m.error).Msg("command failed")
		a.setStatus(m.Error(), true)
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyName := m.String()
	if a.palette.open {
		return a, a.handlePaletteKey(m)
	}
	if a.dispatch.HandleKey(keyName) {
		return a, a.drain()
	}
	b := a.keys.Lookup(keyName, keys.ScopeGlobal)
	if b == nil {
		return a, nil
	}
	switch b.Action {
	case keys.ActionQuit:
		return a, tea.Quit
	case keys.ActionPalette:
		a.openPalette()
	case keys.ActionToggleTape:
		a.toggle(&a.cfg.UI.ShowTape, "tape")
	case keys.ActionToggleClock:
		a.toggle(&a.cfg.UI.ShowClock, "clock")
	}
	return a, nil
}

func (a *App) toggle(flag *bool, name string) {
	*flag = !*flag
	state := "hidden"
	if *flag {
		state = "shown"
	}
	a.setStatus(name+" "+state, false)
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

type tickMsg time.Time

// tapeMsg is the visible tape plus the count of everything stored.
type tapeMsg struct {
	entries []repository.TapeEntry
	total   int
}

type statusMsg string

type errMsg struct{ error }

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) loadTape() tea.Cmd {
	tape := a.tape
	if tape == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		return readTape(ctx, tape)
	}
}

func readTape(ctx context.Context, tape *service.TapeService) tea.Msg {
	entries, err := tape.Recent(ctx)
	if err != nil {
		return errMsg{err}
	}
	total, err := tape.Total(ctx)
	if err != nil {
		return errMsg{err}
	}
	return tapeMsg{entries: entries, total: total}
}

func (a *App) recordTape(entries []repository.TapeEntry) tea.Cmd {
	tape := a.tape
	ctx := a.ctx
	return func() tea.Msg {
		if err := tape.RecordBatch(ctx, entries); err != nil {
			return errMsg{err}
		}
		return readTape(ctx, tape)
	}
}

func (a *App) clearTape() tea.Cmd {
	tape := a.tape
	ctx := a.ctx
	return func() tea.Msg {
		if err := tape.Clear(ctx); err != nil {
			return errMsg{err}
		}
		return tapeMsg{}
	}
}

func (a *App) savePrefs() tea.Cmd {
	cfg := a.cfg
	path := a.configPath
	return func() tea.Msg {
		if err := config.Save(path, cfg); err != nil {
			return errMsg{err}
		}
		return statusMsg("preferences saved to " + path)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcalc/internal/config"
	"github.com/jask/jaskcalc/internal/database"
	"github.com/jask/jaskcalc/internal/database/repository"
	"github.com/jask/jaskcalc/internal/keypad"
	"github.com/jask/jaskcalc/internal/keys"
	"github.com/jask/jaskcalc/internal/logging"
	"github.com/jask/jaskcalc/internal/service"
	"github.com/jask/jaskcalc/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "jaskcalc",
		Short:         "A four-function terminal calculator",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runTUI(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default $JASKCALC_CONFIG or ~/.config/jaskcalc/config.toml)")

	root.AddCommand(newEvalCmd())
	root.AddCommand(newKeysCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	load := config.Load
	if opts.configPath != "" {
		load = func() (config.Config, error) { return config.LoadFile(opts.configPath) }
	}
	cfg, err := load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newKeyRegistry builds the full key map with the configured overrides.
func newKeyRegistry(cfg config.Config) (*keys.Registry, error) {
	reg := keys.Default()
	keypad.RegisterBindings(reg)
	overrides := make([]keys.Override, 0, len(cfg.Keys))
	for _, k := range cfg.Keys {
		overrides = append(overrides, keys.Override{Scope: k.Scope, Action: k.Action, Keys: k.Keys})
	}
	if err := reg.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return reg, nil
}

func openTape(dsn string, limit int, log zerolog.Logger) (*service.TapeService, func(), error) {
	db, err := database.OpenMigrated(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open tape: %w", err)
	}
	svc := &service.TapeService{Tape: repository.NewTapeRepo(db), Log: log, Limit: limit}
	return svc, func() { _ = db.Close() }, nil
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(logging.Options{Path: cfg.Log.Path, Level: cfg.Log.Level})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	reg, err := newKeyRegistry(cfg)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.UI.Timezone).Msg("using local timezone due to load failure")
		loc = time.Local
	}

	var tape *service.TapeService
	if cfg.Tape.Enabled {
		svc, closeTape, err := openTape(cfg.Tape.DSN, cfg.Tape.Limit, log)
		if err != nil {
			return err
		}
		defer closeTape()
		tape = svc
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	log.Info().Str("config", configPath).Bool("tape", tape != nil).Msg("starting jaskcalc")
	p := tea.NewProgram(tui.New(ctx, tui.Deps{
		Config:     cfg,
		ConfigPath: configPath,
		Keys:       reg,
		Tape:       tape,
		Log:        log,
		Location:   loc,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

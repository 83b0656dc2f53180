package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcalc/internal/calc"
	"github.com/jask/jaskcalc/internal/keypad"
	"github.com/jask/jaskcalc/internal/keys"
	"github.com/jask/jaskcalc/internal/service"
)

// evalKeys is the character set accepted by the eval command. Each maps to
// the keypad key of the same name.
const evalKeys = "0123456789.+-*/=cn%"

// evalArgs is the hand-parsed eval command line. Flag parsing is off so a
// sequence may start with "-".
type evalArgs struct {
	keys     string
	showTape bool
	help     bool
}

func parseEvalArgs(args []string) (evalArgs, error) {
	var out evalArgs
	var parts []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			parts = append(parts, args[i+1:]...)
			i = len(args)
		case arg == "--tape":
			out.showTape = true
		case arg == "-h" || arg == "--help":
			out.help = true
		case arg == "--config":
			// Persistent flag; eval always uses the built-in key map.
			i++
		case strings.HasPrefix(arg, "--config="):
		case strings.HasPrefix(arg, "--"):
			return evalArgs{}, fmt.Errorf("unknown flag: %s", arg)
		default:
			parts = append(parts, arg)
		}
	}
	if out.help {
		return out, nil
	}
	out.keys = strings.Join(parts, "")
	if strings.TrimSpace(out.keys) == "" {
		return evalArgs{}, fmt.Errorf("requires a key sequence")
	}
	if err := validateEvalKeys(out.keys); err != nil {
		return evalArgs{}, err
	}
	return out, nil
}

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [--tape] <keys>",
		Short: "Press a key sequence such as 12+7*2= and print the display",
		Long: `Feed keypad keys through the calculator without the TUI.

Keys: digits, ".", "+", "-", "*", "/", "=", "c" (clear), "n" (toggle sign)
and "%". Spaces are ignored and several arguments are joined, so both
"12 + 7 =" and 12 + 7 = work. Sequences may start with "-" (-5= shows -5).
Everything after "--" is read as keys. A sequence ending in Error still
exits 0.

Flags:
  --tape   also print every evaluated step`,
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := parseEvalArgs(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseEvalArgs(args)
			if err != nil {
				return err
			}
			if parsed.help {
				return cmd.Help()
			}
			cmd.SilenceUsage = true
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var tape *service.TapeService
			if parsed.showTape {
				dsn := "file:jaskcalc-eval-" + uuid.NewString() + "?mode=memory&cache=shared"
				svc, closeTape, err := openTape(dsn, 0, zerolog.Nop())
				if err != nil {
					return err
				}
				defer closeTape()
				tape = svc
			}

			display, err := runEval(ctx, parsed.keys, tape)
			if err != nil {
				return err
			}
			if tape != nil {
				if err := printTape(ctx, cmd.OutOrStdout(), tape); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), display)
			return nil
		},
	}
	return cmd
}

func validateEvalKeys(seq string) error {
	pos := 0
	for _, r := range seq {
		pos++
		if unicode.IsSpace(r) {
			continue
		}
		if !strings.ContainsRune(evalKeys, r) {
			return fmt.Errorf("unknown key %q at position %d (allowed: %s)", r, pos, evalKeys)
		}
	}
	return nil
}

// runEval presses each key of seq on a fresh calculator and returns the final
// display. Evaluations are recorded on tape when it is non-nil.
func runEval(ctx context.Context, seq string, tape *service.TapeService) (string, error) {
	if err := validateEvalKeys(seq); err != nil {
		return "", err
	}
	reg := keys.NewRegistry()
	keypad.RegisterBindings(reg)

	var recordErr error
	e := calc.New(calc.WithListener(func(t calc.Transition) {
		if recordErr != nil {
			return
		}
		_, recordErr = tape.Observe(ctx, t)
	}))
	d := keypad.NewDispatcher(reg, e)
	for _, r := range seq {
		if unicode.IsSpace(r) {
			continue
		}
		if !d.HandleKey(string(r)) {
			return "", fmt.Errorf("key %q is not bound on the keypad", r)
		}
		if recordErr != nil {
			return "", recordErr
		}
	}
	return e.Display(), nil
}

func printTape(ctx context.Context, w io.Writer, tape *service.TapeService) error {
	entries, err := tape.Recent(ctx)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "%s = %s\n", entries[i].Expression, entries[i].Result)
	}
	return nil
}

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the calculator key map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			reg, err := newKeyRegistry(cfg)
			if err != nil {
				return err
			}
			printKeyMap(cmd.OutOrStdout(), reg)
			return nil
		},
	}
}

func printKeyMap(w io.Writer, reg *keys.Registry) {
	byAction := make(map[string][]string)
	for _, o := range reg.Export() {
		if o.Scope == keys.ScopeCalculator {
			byAction[o.Action] = o.Keys
		}
	}
	for _, row := range keypad.Layout() {
		for _, b := range row {
			fmt.Fprintf(w, "%-3s %-12s %s\n", b.Label, b.ID, strings.Join(byAction[b.ID], " "))
		}
	}
}

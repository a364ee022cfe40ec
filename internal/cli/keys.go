package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/keypad"
	"github.com/zephyrtronium/calc/session"
)

// NewKeysCmd creates the "keys" subcommand.
func NewKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys [key...]",
		Short: "Replay keypad input",
		Long: "Press each argument as a keypad key, or the whitespace-separated keys of each line of standard input if there are no arguments.\n" +
			"Keys are button labels or keyboard bindings. After the arguments, or after each line, the expression and display are printed.",
		RunE: runKeys,
	}
	cmd.Flags().Bool("grid", false, "print the keypad layout before pressing keys")
	return cmd
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg, logger, err := settings(cmd)
	if err != nil {
		return err
	}
	pad, err := cfg.Keypad()
	if err != nil {
		return exitError(exitConfig, "loading keypad: %v", err)
	}
	out := cmd.OutOrStdout()
	if grid, _ := cmd.Flags().GetBool("grid"); grid {
		printGrid(out, pad)
	}
	s := session.New(cfg.Context(), logger)
	press := func(keys []string) error {
		for _, k := range keys {
			if err := pad.Press(s, k); err != nil {
				if errors.Is(err, keypad.ErrUnknownKey) {
					return exitError(exitUnknownKey, "%v", err)
				}
				return err
			}
		}
		return show(out, pad, s)
	}
	if len(args) > 0 {
		return press(args)
	}
	return lines(cmd.InOrStdin(), func(line string) error {
		return press(strings.Fields(line))
	})
}

// show prints the rendered expression and the display of s.
func show(w io.Writer, pad *keypad.Layout, s *session.Session) error {
	expr := pad.Render(s.Full())
	if s.State() == session.Evaluated {
		expr = pad.Render(s.LastExpression()) + " ="
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", expr, s.Display())
	return err
}

func printGrid(w io.Writer, pad *keypad.Layout) {
	for _, row := range pad.Grid() {
		for i, label := range row {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%-4s", label)
		}
		fmt.Fprintln(w)
	}
}

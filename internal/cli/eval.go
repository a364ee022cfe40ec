package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
)

// NewEvalCmd creates the "eval" subcommand.
func NewEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [--] [expr...]",
		Short: "Evaluate expressions",
		Long: "Evaluate each argument as an expression, or each line of standard input if there are no arguments.\n" +
			"Failed evaluations print their error label and make the command exit with status 2.\n" +
			"Expressions that begin with '-' must follow \"--\" so they are not read as flags.",
		Example: "  calc eval 2+3*4 '3(4+5)'\n  calc eval -- -3! 5/0",
		RunE: runEval,
	}
	cmd.Flags().Bool("echo", false, "print reduced parse trees")
	return cmd
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, logger, err := settings(cmd)
	if err != nil {
		return err
	}
	echo, _ := cmd.Flags().GetBool("echo")
	out := cmd.OutOrStdout()
	ctx := cfg.Context()

	var total, failed int
	eval := func(src string) error {
		total++
		r, err := evalOne(ctx, src, echo, out)
		if err != nil {
			failed++
			logger.Info("evaluation failed", "expr", src, "error", err)
			_, err = fmt.Fprintln(out, calc.KindOf(err))
			return err
		}
		logger.Debug("evaluated", "expr", src, "result", r)
		_, err = fmt.Fprintln(out, r)
		return err
	}
	if len(args) == 0 {
		err = lines(cmd.InOrStdin(), eval)
	} else {
		for _, arg := range args {
			if err = eval(arg); err != nil {
				break
			}
		}
	}
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if failed > 0 {
		return exitError(exitEvalFailed, "%d of %d expressions failed", failed, total)
	}
	return nil
}

// evalOne evaluates one expression, printing its tree first if echo is set.
func evalOne(ctx *calc.Context, src string, echo bool, out io.Writer) (string, error) {
	e, err := ctx.Parse(src)
	if err != nil {
		return "", err
	}
	if echo {
		fmt.Fprintln(out, e)
	}
	r, err := ctx.Eval(e)
	if err != nil {
		return "", err
	}
	return calc.Format(calc.Round(r, ctx.Digits()), ctx.Digits()), nil
}

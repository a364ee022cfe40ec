// Package cli implements the commands of the calc tool.
package cli

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/config"
)

// NewRootCmd creates the calc command with all subcommands.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "calc",
		Short: "Keypad calculator",
		Long:  "calc evaluates calculator expressions and replays keypad input.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		Version:      version,
	}
	f := root.PersistentFlags()
	f.String("config", "", "YAML configuration file")
	f.String("env-file", "", "dotenv file to load (default .env if present)")
	f.Bool("verbose", false, "Enable verbose/debug logging")
	f.UintP("precision", "p", calc.DefaultPrec, "precision of calculations in bits")
	f.Int("digits", calc.DefaultDigits, "fractional digits in results")
	f.String("layout", "", "keypad layout file (default built-in keypad)")

	root.AddCommand(NewEvalCmd())
	root.AddCommand(NewKeysCmd())
	return root
}

// settings loads the configuration and applies flags which were set on the
// command line.
func settings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")
	cfg, err := config.Load(path, envFile)
	if err != nil {
		return nil, nil, exitError(exitConfig, "loading config: %v", err)
	}
	if flags.Changed("precision") {
		cfg.Precision, _ = flags.GetUint("precision")
	}
	if flags.Changed("digits") {
		cfg.Digits, _ = flags.GetInt("digits")
	}
	if flags.Changed("layout") {
		cfg.Layout, _ = flags.GetString("layout")
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, exitError(exitConfig, "invalid settings: %v", err)
	}
	logger := cfg.Logger(cmd.ErrOrStderr())
	logger.Debug("settings", "precision", cfg.Precision, "digits", cfg.Digits, "layout", cfg.Layout)
	return cfg, logger, nil
}

// lines calls f with each non-blank line of r.
func lines(r io.Reader, f func(string) error) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := f(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

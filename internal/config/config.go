// Package config loads the settings of the calculator front end.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/keypad"
)

// Environment variables which override file settings.
const (
	EnvPrecision = "CALC_PRECISION"
	EnvDigits    = "CALC_DIGITS"
	EnvLayout    = "CALC_LAYOUT"
	EnvLogLevel  = "CALC_LOG_LEVEL"
)

// Limits on settings.
const (
	MinPrecision = 64
	MaxPrecision = 1 << 16
	MaxDigits    = 64
)

type Config struct {
	// Precision is the precision of calculations in bits.
	Precision uint `yaml:"precision"`
	// Digits is the number of fractional digits in results.
	Digits int `yaml:"digits"`
	// Layout is the path of a keypad layout file. Empty means the default
	// keypad.
	Layout string `yaml:"layout"`
	// LogLevel is one of debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the default settings.
func Default() *Config {
	return &Config{
		Precision: calc.DefaultPrec,
		Digits:    calc.DefaultDigits,
		LogLevel:  "warn",
	}
}

// Load builds a configuration from defaults, then the YAML file at path if
// it is not empty, then the environment. The dotenv file at envFile is
// loaded into the environment first; if envFile is empty, a .env file in the
// working directory is loaded if it exists.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		slog.Debug("Skipping .env ...")
	}
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config YAML %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) fromEnv() error {
	if s := os.Getenv(EnvPrecision); s != "" {
		p, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPrecision, err)
		}
		cfg.Precision = uint(p)
	}
	if s := os.Getenv(EnvDigits); s != "" {
		d, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDigits, err)
		}
		cfg.Digits = d
	}
	if s, ok := os.LookupEnv(EnvLayout); ok {
		cfg.Layout = strings.TrimSpace(s)
	}
	if s := os.Getenv(EnvLogLevel); s != "" {
		cfg.LogLevel = s
	}
	return nil
}

// Validate checks that every setting is in range.
func (cfg *Config) Validate() error {
	if cfg.Precision < MinPrecision || cfg.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between %d and %d bits, not %d", MinPrecision, MaxPrecision, cfg.Precision)
	}
	if cfg.Digits < 0 || cfg.Digits > MaxDigits {
		return fmt.Errorf("digits must be between 0 and %d, not %d", MaxDigits, cfg.Digits)
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the log level.
func (cfg *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return l, nil
}

// Logger creates a text logger writing to w at the configured level.
func (cfg *Config) Logger(w io.Writer) *slog.Logger {
	l, err := cfg.Level()
	if err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// Context creates an evaluation context with the configured precision and
// digits.
func (cfg *Config) Context() *calc.Context {
	return calc.NewContext(calc.Prec(cfg.Precision), calc.Digits(cfg.Digits))
}

// Keypad loads the configured keypad layout.
func (cfg *Config) Keypad() (*keypad.Layout, error) {
	if cfg.Layout == "" {
		return keypad.Default(), nil
	}
	return keypad.LoadFile(cfg.Layout)
}

// Package app wires configuration, the sieve engine and the presentation
// layers into the primecalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/primecalc/internal/calibration"
	"github.com/agbru/primecalc/internal/cli"
	"github.com/agbru/primecalc/internal/config"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/memory"
	"github.com/agbru/primecalc/internal/ui"
)

// Application represents one primecalc invocation.
type Application struct {
	Config    config.AppConfig
	In        io.Reader
	ErrWriter io.Writer
	Logger    logging.Logger

	// memLimit is --memory-limit in bytes, 0 when unset.
	memLimit uint64
	zl       zerolog.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader used to prompt for N.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates an Application by parsing command-line arguments. args[0] is
// the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{In: os.Stdin, ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "primecalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: errWriter, NoColor: cfg.NoColor}).
		Level(logging.ParseLevel(cfg.LogLevel)).
		With().Timestamp().Str("component", "primecalc").Logger()
	app.zl = zl
	app.Logger = logging.NewZerologAdapter(zl)

	if !cfg.Calibrate {
		if withProfile, loaded := calibration.LoadCachedCalibration(cfg, app.Logger); loaded {
			cfg = withProfile
		}
	}
	if cfg.MemoryLimit != "" {
		if app.memLimit, err = memory.ParseMemoryLimit(cfg.MemoryLimit); err != nil {
			return nil, apperrors.NewConfigError("invalid --memory-limit: %v", err)
		}
	}
	app.Config = config.ApplyAdaptiveDefaults(cfg)
	return app, nil
}

// Run executes the application in the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Calibrate {
		return calibration.RunCalibration(ctx, a.Config, out, a.Logger)
	}

	if !a.Config.NSet {
		n, err := cli.PromptBound(a.In, a.ErrWriter)
		if err != nil {
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				err = apperrors.NewConfigError("%v", err)
			}
			return apperrors.HandleGenerationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		a.Config.N, a.Config.NSet = n, true
	}

	if err := a.checkMemoryBudget(ctx); err != nil {
		return apperrors.HandleGenerationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	return a.runGenerate(ctx, out)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeForError maps a construction error to an exit code.
func ExitCodeForError(err error) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	var cfgErr apperrors.ConfigError
	if errors.As(err, &cfgErr) {
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitErrorGeneric
}

// logf writes a diagnostic line unless quiet mode is on.
func (a *Application) logf(format string, args ...any) {
	if !a.Config.Quiet {
		fmt.Fprintf(a.ErrWriter, format, args...)
	}
}

package app

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/primecalc/internal/cli"
	apperrors "github.com/agbru/primecalc/internal/errors"
	"github.com/agbru/primecalc/internal/logging"
	"github.com/agbru/primecalc/internal/memory"
	"github.com/agbru/primecalc/internal/metrics"
	"github.com/agbru/primecalc/internal/orchestration"
	"github.com/agbru/primecalc/internal/server"
	"github.com/agbru/primecalc/internal/sieve"
	"github.com/agbru/primecalc/internal/sysmon"
	"github.com/agbru/primecalc/internal/tui"
)

const tracerName = "github.com/agbru/primecalc/internal/app"

// newGenerator builds the sieve generator for the current configuration.
// The scratch arena shares the --memory-limit budget.
func (a *Application) newGenerator() *sieve.Generator {
	return sieve.NewGenerator(
		sieve.WithSegmentSize(a.Config.SegmentSize),
		sieve.WithWorkers(a.Config.Workers),
		sieve.WithArena(memory.NewScratchArena(a.memLimit)),
		sieve.WithLogger(a.Logger),
	)
}

// progressReporter returns the renderer for --progress, or nil when nothing
// is displayed so the engines run without a progress callback.
func (a *Application) progressReporter() orchestration.ProgressReporter {
	if !a.Config.Progress || a.Config.Quiet {
		return nil
	}
	return cli.CLIProgressReporter{}
}

// estimateMemory returns the estimated peak bytes of the configured runs.
// Verify runs execute concurrently, so their estimates add up.
func (a *Application) estimateMemory() uint64 {
	cfg := a.Config
	if !cfg.Verify {
		return sieve.EstimateMemory(cfg.N, sieve.Choose(cfg.N, cfg.Parallel), cfg.Workers, cfg.SegmentSize)
	}
	var total uint64
	for _, alg := range []sieve.Algorithm{sieve.AlgorithmBase, sieve.AlgorithmSegmented, sieve.AlgorithmParallel} {
		total += sieve.EstimateMemory(cfg.N, alg, cfg.Workers, cfg.SegmentSize)
	}
	return total
}

// checkMemoryBudget refuses runs whose estimate exceeds --memory-limit or
// the memory the system reports as available.
func (a *Application) checkMemoryBudget(ctx context.Context) error {
	est := a.estimateMemory()
	if est == 0 {
		return nil
	}

	limit := a.memLimit
	available, err := sysmon.AvailableMemory(ctx)
	if err != nil {
		a.Logger.Debug("available memory unknown", logging.Err(err))
		available = 0
	}

	a.Logger.Debug("memory estimate",
		logging.Uint64("estimate_bytes", est),
		logging.Uint64("limit_bytes", limit),
		logging.Uint64("available_bytes", available))

	if (limit > 0 && est > limit) || (available > 0 && est > available) {
		return apperrors.MemoryError{Requested: est, Available: available, Limit: limit}
	}
	return nil
}

// observers returns the run observers for this invocation. When
// --metrics-addr is set, a Prometheus endpoint is started for the lifetime
// of ctx and its collector is returned.
func (a *Application) observers(ctx context.Context) []orchestration.RunObserver {
	if a.Config.MetricsAddr == "" {
		return nil
	}
	collector := metrics.NewRunCollector()
	m := server.NewMetrics()
	if err := m.Register(collector); err != nil {
		a.Logger.Warn("metrics disabled", logging.Err(err))
		return nil
	}
	addr, err := server.New(a.Config.MetricsAddr, m, a.Logger).Start(ctx)
	if err != nil {
		a.Logger.Warn("metrics server failed to start", logging.String("addr", a.Config.MetricsAddr), logging.Err(err))
		return nil
	}
	a.Logger.Info("serving metrics", logging.String("addr", addr.String()))
	return []orchestration.RunObserver{collector}
}

// runGenerate runs the selected algorithm, or every algorithm in verify
// mode, and prints the result. Results go to out; diagnostics, progress and
// the closing summary go to ErrWriter.
func (a *Application) runGenerate(ctx context.Context, out io.Writer) int {
	cfg := a.Config
	runID := uuid.NewString()
	logger := a.zl.With().Str("run_id", runID).Logger()
	runLogger := logging.NewZerologAdapter(logger)

	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "primecalc.generate",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int64("primes.n", int64(cfg.N)),
			attribute.Bool("primes.parallel", cfg.Parallel),
			attribute.Bool("primes.verify", cfg.Verify),
			attribute.Int64("sieve.segment_size", int64(cfg.SegmentSize)),
			attribute.Int("sieve.workers", cfg.Workers),
		))
	defer span.End()

	if !cfg.Verify && sieve.ParallelIgnored(cfg.N, cfg.Parallel) {
		cli.DisplayParallelWarning(a.ErrWriter, cfg.N, sieve.ParallelThreshold)
	}

	gen := a.newGenerator()
	runners := orchestration.GetRunnersToRun(cfg, gen)
	if !cfg.Quiet {
		cli.PrintExecutionConfig(cfg, a.ErrWriter)
		cli.PrintExecutionMode(runners, a.ErrWriter)
	}

	reporter := a.progressReporter()

	gc := memory.NewGCPause(cfg.GCMode, cfg.N, memory.WithGCLogger(logger), memory.WithSoftLimit(a.memLimit))

	runLogger.Info("generation started",
		logging.Uint64("n", cfg.N),
		logging.Int("runs", len(runners)),
		logging.String("first_algorithm", runners[0].Name()))

	gc.Pause()
	results := orchestration.ExecuteRuns(ctx, runners, cfg.N, reporter, a.ErrWriter, a.observers(ctx)...)
	gcStats := gc.Resume()

	if gc.Enabled() && !cfg.Quiet {
		cli.DisplayMemoryStats(gcStats, a.ErrWriter)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Format:     cfg.Format,
		Quiet:      cfg.Quiet,
		RunID:      runID,
	}

	var exitCode int
	if cfg.Verify {
		exitCode = a.presentVerification(results, outputCfg, out)
	} else {
		exitCode = a.presentSingle(results[0], outputCfg, out)
	}

	for _, r := range results {
		span.SetAttributes(attribute.Int64("run."+r.Algorithm.String()+".duration_ms", r.Duration.Milliseconds()))
		if r.Err != nil {
			span.RecordError(r.Err)
		}
	}
	if exitCode != apperrors.ExitSuccess {
		span.SetStatus(codes.Error, "generation failed")
	}
	runLogger.Info("generation finished", logging.Int("exit_code", exitCode))
	return exitCode
}

// presentSingle prints one run's primes and the closing summary.
func (a *Application) presentSingle(r orchestration.RunResult, outputCfg cli.OutputConfig, out io.Writer) int {
	if r.Err != nil {
		return apperrors.HandleGenerationError(r.Err, r.Duration, a.ErrWriter, cli.CLIColorProvider{})
	}
	if err := cli.DisplayResultWithConfig(out, r.Primes, a.Config.N, r.Duration, r.Name, outputCfg); err != nil {
		a.Logger.Error("writing result", err, logging.String("output", outputCfg.OutputFile))
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		cli.DisplaySummary(a.ErrWriter, a.Config.N, r.Primes, r.Duration)
	}
	return apperrors.ExitSuccess
}

// presentVerification prints the comparison table and saves the fastest
// result when the runs agree.
func (a *Application) presentVerification(results []orchestration.RunResult, outputCfg cli.OutputConfig, out io.Writer) int {
	presenter := cli.CLIResultPresenter{}
	opts := orchestration.PresentationOptions{N: a.Config.N, Quiet: a.Config.Quiet}
	exitCode := orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, out)
	if exitCode != apperrors.ExitSuccess || outputCfg.OutputFile == "" {
		return exitCode
	}

	best := fastestResult(results)
	if best == nil {
		return exitCode
	}
	if err := cli.WriteResultToFile(best.Primes, a.Config.N, best.Duration, best.Name, outputCfg); err != nil {
		a.Logger.Error("writing result", err, logging.String("output", outputCfg.OutputFile))
		return apperrors.ExitErrorGeneric
	}
	a.logf("Result saved to: %s\n", outputCfg.OutputFile)
	return exitCode
}

// runTUI launches the dashboard and writes the output file once it closes.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()

	runners := orchestration.GetRunnersToRun(a.Config, a.newGenerator())
	code, final := tui.Run(ctx, runners, a.Config, Version, a.observers(ctx)...)
	if code != apperrors.ExitSuccess || final == nil || a.Config.OutputFile == "" {
		return code
	}

	outputCfg := cli.OutputConfig{OutputFile: a.Config.OutputFile, Format: a.Config.Format, RunID: uuid.NewString()}
	if err := cli.WriteResultToFile(final.Primes, a.Config.N, final.Duration, final.Name, outputCfg); err != nil {
		a.Logger.Error("writing result", err, logging.String("output", a.Config.OutputFile))
		return apperrors.ExitErrorGeneric
	}
	a.logf("Result saved to: %s\n", a.Config.OutputFile)
	return code
}

// fastestResult returns the quickest successful result, or nil.
func fastestResult(results []orchestration.RunResult) *orchestration.RunResult {
	var best *orchestration.RunResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"moviescope/internal/config"
	apperrors "moviescope/internal/errors"
	"moviescope/internal/files"
	"moviescope/internal/infrastructure"
	"moviescope/internal/operations"
)

// Exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInput     = 3 // LOAD or PARSING
	exitInvariant = 4
	exitStorage   = 5
	exitNotFound  = 6
	exitCancelled = 130
)

type options struct {
	in         string
	out        string
	policy     string
	configFile string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.in, "in", "", "dataset to analyse, .csv or .xlsx, or a directory holding one (defaults to paths.input_file)")
	fs.StringVar(&opts.out, "out", "", "output directory (defaults to data/reports relative to executable)")
	fs.StringVar(&opts.policy, "policy", "", "parse error policy: fail | drop")
	fs.StringVar(&opts.configFile, "config", "", "YAML config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig reads config, then lets flags override it
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.configFile)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load config", err)
	}

	if opts.in != "" {
		cfg.Paths.InputFile = opts.in
	}
	if opts.out != "" {
		cfg.Paths.OutputDir = opts.out
	}
	if opts.policy != "" {
		switch opts.policy {
		case config.ParsePolicyFail, config.ParsePolicyDrop:
			cfg.Cleaning.ParseErrorPolicy = opts.policy
		default:
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("invalid -policy %q (want %q or %q)", opts.policy, config.ParsePolicyFail, config.ParsePolicyDrop), nil)
		}
	}
	return cfg, nil
}

// resolvePaths places artifacts under the output directory when one is set,
// otherwise next to the executable.
func resolvePaths(cfg *config.Config) (*config.Paths, error) {
	var paths *config.Paths
	if out := cfg.Paths.OutputDir; out != "" {
		logsDir := cfg.Paths.LogsDir
		if !filepath.IsAbs(logsDir) {
			logsDir = filepath.Join(out, logsDir)
		}
		paths = config.NewPaths(out, logsDir)
	} else {
		p, err := config.GetPaths()
		if err != nil {
			return nil, apperrors.NewConfigError("failed to resolve paths", err)
		}
		paths = p
	}
	return paths.WithMetricsFile(cfg.Telemetry.MetricsTextfile), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		return exitUsage
	}

	paths, err := resolvePaths(cfg)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		return exitUsage
	}

	cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = infrastructure.NewLogger(stderr, cfg.Logging.Level)
		infrastructure.WithError(logger, err).Warn("Failed to initialize logger, logging to stderr")
	}
	defer infrastructure.CloseLogFile()

	input, err := files.NewDiscovery("").ResolveDataset(cfg.Paths.InputFile)
	if err != nil {
		logger.Error("Failed to locate dataset",
			slog.String("input", cfg.Paths.InputFile),
			slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "moviescope: %v\n", err)
		return exitCode(err)
	}
	cfg.Paths.InputFile = input

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "Starting movie analysis",
		slog.String("version", config.AppVersion),
		slog.String("input_file", cfg.Paths.InputFile),
		slog.String("output_dir", paths.ReportsDir),
		slog.String("parse_error_policy", cfg.Cleaning.ParseErrorPolicy))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitUsage
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create tracer", slog.String("error", err.Error()))
		return exitFailure
	}

	manager, err := operations.NewPipeline(operations.PipelineOptions{
		Config: cfg,
		Paths:  paths,
		Out:    stdout,
		Tracer: tracer,
		Logger: logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build pipeline", slog.String("error", err.Error()))
		return exitFailure
	}
	logger.DebugContext(ctx, "Pipeline ready", slog.Any("steps", manager.GetRegistry().ListIDs()))

	resp, runErr := manager.Execute(ctx, operations.OperationRequest{InputFile: cfg.Paths.InputFile})

	if cfg.Telemetry.EnableMetrics {
		if err := providers.WriteMetricsTextfile(paths.MetricsFile); err != nil {
			logger.WarnContext(ctx, "Failed to write metrics textfile",
				slog.String("path", paths.MetricsFile),
				slog.String("error", err.Error()))
		}
	}

	if runErr != nil {
		logger.ErrorContext(ctx, "Movie analysis failed",
			slog.String("step", operations.FailedStep(runErr)),
			slog.String("error", runErr.Error()))
		fmt.Fprintf(stderr, "moviescope: %v\n", runErr)
		return exitCode(runErr)
	}

	logger.InfoContext(ctx, "Movie analysis complete",
		slog.String("operation_id", resp.ID),
		slog.String("span_trace_id", resp.SpanTraceID),
		slog.Duration("duration", resp.Duration),
		slog.Int("artifacts", len(resp.Artifacts)),
		slog.String("output_dir", paths.ReportsDir))
	return exitOK
}

// exitCode maps a pipeline error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case operations.GetErrorType(err) == operations.ErrorTypeCancellation:
		return exitCancelled
	case apperrors.IsType(err, apperrors.ErrTypeLoad), apperrors.IsType(err, apperrors.ErrTypeParsing):
		return exitInput
	case apperrors.IsType(err, apperrors.ErrTypeInvariant):
		return exitInvariant
	case apperrors.IsType(err, apperrors.ErrTypeStorage):
		return exitStorage
	case apperrors.IsType(err, apperrors.ErrTypeNotFound):
		return exitNotFound
	case apperrors.IsType(err, apperrors.ErrTypeConfig):
		return exitUsage
	default:
		return exitFailure
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/modelpull/internal/catalog"
	"github.com/ligustah/modelpull/internal/config"
	mphttp "github.com/ligustah/modelpull/internal/http"
	"github.com/ligustah/modelpull/internal/logger"
	"github.com/ligustah/modelpull/internal/orchestrator"
	"github.com/ligustah/modelpull/internal/progress"
	"github.com/ligustah/modelpull/internal/transfer"
	"github.com/ligustah/modelpull/pkg/report"
)

// runFetch downloads every asset in the catalog through the download
// service and reports a per-asset outcome plus an aggregate summary.
func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML configuration file")
	catalogPath := fs.String("catalog", "", "Catalog file (required unless set in config or MODELPULL_CATALOG)")
	endpoint := fs.String("endpoint", "", "Download service websocket URL")
	concurrency := fs.Int("concurrency", 0, "Maximum simultaneous transfers (default 2)")
	progressStep := fs.Int("progress-step", 0, "Report progress every N percentage points (default 20)")
	timeout := fs.Duration("timeout", 0, "Per-asset connection timeout (default 30m)")
	exitPolicy := fs.String("exit-policy", "", "strict: non-zero exit if any asset fails; lenient: always exit 0")
	statusInterval := fs.Duration("status-interval", 0, "Log a status line at this interval (0 disables)")
	probe := fs.Bool("probe", false, "Wait for the download service before starting")
	probeTimeout := fs.Duration("probe-timeout", 0, "How long to wait for the download service (default 1m)")
	reportBucket := fs.String("report-bucket", "", "Bucket URL for run reports (e.g. file:///var/lib/modelpull)")
	reportPrefix := fs.String("report-prefix", "", "Key prefix for run reports (default runs/)")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "", "Log format: console or json")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: modelpull fetch [options]

Ask the model download service to fetch every asset in a catalog, at most
-concurrency at a time. CIVITAI_TOKEN and SESSION_ID must be set.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configPath, config.Config{
		Endpoint:        *endpoint,
		Catalog:         *catalogPath,
		Concurrency:     *concurrency,
		ProgressStep:    *progressStep,
		TransferTimeout: *timeout,
		ExitPolicy:      *exitPolicy,
		StatusInterval:  *statusInterval,
		Probe:           *probe,
		ProbeTimeout:    *probeTimeout,
		Report: config.ReportConfig{
			Bucket: *reportBucket,
			Prefix: *reportPrefix,
		},
		Log: config.LogConfig{
			Level:  *logLevel,
			Format: *logFormat,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	if cfg.Catalog == "" {
		fmt.Fprintln(os.Stderr, "Error: -catalog is required")
		fs.Usage()
		return ExitInvalidArgs
	}
	cat, err := catalog.LoadFile(cfg.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitConfigError
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("received interrupt, canceling remaining transfers")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.Probe {
		if err := probeService(ctx, cfg, log); err != nil {
			log.Error().Err(err).Str("endpoint", cfg.Endpoint).Msg("download service unavailable")
			return ExitServiceUnavailable
		}
	}

	reporter := progress.NewReporter(progress.Options{
		TotalAssets:    len(cat),
		Workers:        cfg.Concurrency,
		Endpoint:       cfg.Endpoint,
		Logger:         logger.Named(log, "progress"),
		UpdateInterval: cfg.StatusInterval,
	})

	worker := transfer.NewWorker(transfer.Options{
		Endpoint:       cfg.Endpoint,
		SourceTemplate: cfg.SourceTemplate,
		Token:          cfg.Token,
		SessionID:      cfg.SessionID,
		ProgressStep:   cfg.ProgressStep,
		Timeout:        cfg.TransferTimeout,
		Observer:       reporter,
		Logger:         logger.Named(log, "transfer"),
	})

	reporter.Start()
	summary := orchestrator.Run(ctx, cat, orchestrator.Options{
		Concurrency: cfg.Concurrency,
		Worker:      worker,
		Reporter:    reporter,
		Logger:      log,
	})
	reporter.Stop()

	if cfg.Report.Bucket != "" {
		key, err := saveReport(ctx, cfg, summary)
		if err != nil {
			log.Error().Err(err).Str("bucket", cfg.Report.Bucket).Msg("write run report")
			return ExitStorageError
		}
		log.Info().Str("bucket", cfg.Report.Bucket).Str("key", key).Msg("run report written")
	}

	return exitCode(cfg, summary)
}

// loadConfig layers defaults, the optional config file, the environment and
// flag overrides, then validates the result.
func loadConfig(path string, flags config.Config) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	cfg = cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingToken) || errors.Is(err, config.ErrMissingSession) {
			return config.Config{}, fmt.Errorf("%w (refusing to start)", err)
		}
		return config.Config{}, err
	}
	return cfg, nil
}

func probeService(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
	defer cancel()

	opts := mphttp.DefaultOptions()
	opts.RetryAttempts = 10
	info, err := mphttp.NewClient(opts).Probe(ctx, cfg.Endpoint)
	if err != nil {
		return err
	}
	log.Info().
		Str("url", info.URL).
		Int("status", info.StatusCode).
		Int("attempts", info.Attempts).
		Msg("download service reachable")
	return nil
}

func saveReport(ctx context.Context, cfg config.Config, s orchestrator.Summary) (string, error) {
	// Persist the report even if the run was interrupted.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()

	bkt, err := blob.OpenBucket(ctx, cfg.Report.Bucket)
	if err != nil {
		return "", fmt.Errorf("open bucket: %w", err)
	}
	defer bkt.Close()

	return report.Write(ctx, bkt, cfg.Report.Prefix, buildReport(cfg, s))
}

func buildReport(cfg config.Config, s orchestrator.Summary) *report.Report {
	r := &report.Report{
		RunID:       s.RunID,
		SessionID:   cfg.SessionID,
		Endpoint:    cfg.Endpoint,
		Concurrency: cfg.Concurrency,
		Total:       s.Total,
		Succeeded:   s.Succeeded,
		Failed:      s.Failed,
		StartedAt:   s.StartedAt.UTC(),
		CompletedAt: s.FinishedAt.UTC(),
		Outcomes:    make([]report.Entry, len(s.Outcomes)),
	}
	for i, o := range s.Outcomes {
		r.Outcomes[i] = report.Entry{
			AssetID:    o.AssetID,
			Name:       o.Name,
			Category:   o.Category.String(),
			Status:     string(o.Status),
			Detail:     o.Detail,
			Percent:    o.Percent,
			DurationMS: o.Duration.Milliseconds(),
		}
	}
	return r
}

// exitCode applies the configured exit policy to a finished run.
func exitCode(cfg config.Config, s orchestrator.Summary) int {
	if s.AllSucceeded() || !cfg.Strict() {
		return ExitSuccess
	}
	return ExitTransferFailed
}

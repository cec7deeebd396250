package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocloud.dev/blob"

	"github.com/ligustah/modelpull/pkg/report"
)

// runReport prints a stored run report. Without -run the most recent
// report under the prefix is shown.
func runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ExitOnError)

	bucket := fs.String("bucket", os.Getenv("MODELPULL_REPORT_BUCKET"), "Bucket URL (required)")
	prefix := fs.String("prefix", "runs/", "Key prefix for run reports")
	runID := fs.String("run", "", "Run ID (default: latest)")
	asJSON := fs.Bool("json", false, "Print the raw JSON report")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: modelpull report [options]

Show a run report written by 'modelpull fetch -report-bucket ...'.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *bucket == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	bkt, err := blob.OpenBucket(ctx, *bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer bkt.Close()

	var (
		r   *report.Report
		key string
	)
	if *runID != "" {
		key = report.Key(*prefix, *runID)
		r, err = report.Read(ctx, bkt, key)
	} else {
		r, key, err = report.Latest(ctx, bkt, *prefix)
	}
	if errors.Is(err, report.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no report found under %s%s\n", *bucket, *prefix)
		return ExitNotFound
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
		return ExitSuccess
	}

	printReport(os.Stdout, key, r)
	return ExitSuccess
}

func printReport(w io.Writer, key string, r *report.Report) {
	fmt.Fprintf(w, "Report: %s\n", key)
	fmt.Fprintf(w, "Run: %s\n", r.RunID)
	fmt.Fprintf(w, "Endpoint: %s\n", r.Endpoint)
	fmt.Fprintf(w, "Started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", r.CompletedAt.Sub(r.StartedAt).Round(time.Second))
	fmt.Fprintln(w)
	for _, e := range r.Outcomes {
		line := fmt.Sprintf("  %-9s %s (%s)", e.Status, e.Name, e.AssetID)
		if e.Detail != "" {
			line += ": " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Complete: %d/%d\n", r.Succeeded, r.Total)
}

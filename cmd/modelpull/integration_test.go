//go:build integration

package main

import (
	"context"
	"testing"
	"time"

	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/modelpull/internal/testutils"
	"github.com/ligustah/modelpull/pkg/report"
)

func TestFetchReportToS3(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	t.Log("Starting Minio container...")
	minio := testutils.StartMinio(t, ctx, "modelpull-reports")

	setCredentials(t)
	svc := testutils.StartService(t, failEmbedding)

	code := runFetch([]string{
		"-catalog", writeCatalog(t),
		"-endpoint", svc.URL,
		"-concurrency", "3",
		"-report-bucket", minio.BucketURL,
		"-log-level", "error",
	})
	if code != ExitTransferFailed {
		t.Fatalf("exit code = %d, want %d", code, ExitTransferFailed)
	}

	bkt, err := minio.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bkt.Close()

	r, key, err := report.Latest(ctx, bkt, "runs/")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if key != report.Key("runs/", r.RunID) {
		t.Errorf("key = %q, want %q", key, report.Key("runs/", r.RunID))
	}
	if r.Succeeded != 2 || r.Total != 3 {
		t.Errorf("report = %d/%d, want 2/3", r.Succeeded, r.Total)
	}
	if r.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", r.Concurrency)
	}

	if code := runReport([]string{"-bucket", minio.BucketURL, "-json"}); code != ExitSuccess {
		t.Errorf("report exit code = %d, want %d", code, ExitSuccess)
	}
}

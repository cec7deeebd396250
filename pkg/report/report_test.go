package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

func sampleReport(runID string) *Report {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return &Report{
		RunID:       runID,
		SessionID:   "session",
		Endpoint:    "ws://localhost:7801/API/DoModelDownloadWS",
		Concurrency: 2,
		Total:       2,
		Succeeded:   1,
		Failed:      1,
		StartedAt:   now,
		CompletedAt: now.Add(time.Minute),
		Outcomes: []Entry{
			{AssetID: "1", Name: "a.safetensors", Category: "model-weights", Status: "success", Percent: 100, DurationMS: 1200},
			{AssetID: "2", Name: "b.safetensors", Category: "adapter", Status: "failed", Detail: "disk full", Percent: 40},
		},
	}
}

func openMem(t *testing.T) *blob.Bucket {
	t.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	t.Cleanup(func() { bucket.Close() })
	return bucket
}

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	bucket := openMem(t)

	key, err := Write(ctx, bucket, "runs/", sampleReport("run-1"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "runs/run-1.report.json" {
		t.Errorf("unexpected key %s", key)
	}

	r, err := Read(ctx, bucket, key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.RunID != "run-1" || r.Total != 2 || r.Succeeded != 1 {
		t.Errorf("unexpected report %+v", r)
	}
	if len(r.Outcomes) != 2 || r.Outcomes[1].Detail != "disk full" {
		t.Errorf("unexpected outcomes %+v", r.Outcomes)
	}
	if !r.CompletedAt.Equal(r.StartedAt.Add(time.Minute)) {
		t.Errorf("timestamps not preserved: %v %v", r.StartedAt, r.CompletedAt)
	}
}

func TestWriteRequiresRunID(t *testing.T) {
	if _, err := Write(context.Background(), openMem(t), "", &Report{}); err == nil {
		t.Error("expected error for empty run id")
	}
}

func TestReadNotFound(t *testing.T) {
	_, err := Read(context.Background(), openMem(t), "runs/missing.report.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	bucket := openMem(t)

	if _, _, err := Latest(ctx, bucket, "runs/"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty bucket, got %v", err)
	}

	if _, err := Write(ctx, bucket, "runs/", sampleReport("older")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := Write(ctx, bucket, "runs/", sampleReport("newer")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := bucket.WriteAll(ctx, "runs/notes.txt", []byte("ignored"), nil); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	r, key, err := Latest(ctx, bucket, "runs/")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if r.RunID != "newer" || key != "runs/newer.report.json" {
		t.Errorf("expected newer report, got %s at %s", r.RunID, key)
	}
}

func TestFileBucket(t *testing.T) {
	ctx := context.Background()
	bucket, err := blob.OpenBucket(ctx, "file://"+t.TempDir())
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	key, err := Write(ctx, bucket, "", sampleReport("on-disk"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	r, err := Read(ctx, bucket, key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.RunID != "on-disk" {
		t.Errorf("expected on-disk, got %s", r.RunID)
	}
}

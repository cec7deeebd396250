package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Suffix is appended to the run id to form a report key.
const Suffix = ".report.json"

// ErrNotFound is returned when no report exists at a key or prefix.
var ErrNotFound = errors.New("report: not found")

// Report describes a completed run.
type Report struct {
	RunID       string    `json:"run_id"`
	SessionID   string    `json:"session_id,omitempty"`
	Endpoint    string    `json:"endpoint,omitempty"`
	Concurrency int       `json:"concurrency"`
	Total       int       `json:"total"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Outcomes    []Entry   `json:"outcomes"`
}

// Entry is one asset's outcome.
type Entry struct {
	AssetID    string `json:"asset_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Status     string `json:"status"`
	Detail     string `json:"detail,omitempty"`
	Percent    int    `json:"percent"`
	DurationMS int64  `json:"duration_ms"`
}

// Key returns the object key for a run id under prefix.
func Key(prefix, runID string) string {
	return prefix + runID + Suffix
}

// Write stores r under prefix and returns the key it was written to.
func Write(ctx context.Context, bucket *blob.Bucket, prefix string, r *Report) (string, error) {
	if r.RunID == "" {
		return "", errors.New("report: run id is required")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	key := Key(prefix, r.RunID)
	err = bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("write report %s: %w", key, err)
	}
	return key, nil
}

// Read loads the report stored at key.
func Read(ctx context.Context, bucket *blob.Bucket, key string) (*Report, error) {
	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("read report %s: %w", key, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", key, err)
	}
	return &r, nil
}

// Latest loads the most recently modified report under prefix.
func Latest(ctx context.Context, bucket *blob.Bucket, prefix string) (*Report, string, error) {
	var (
		latestKey string
		latestMod time.Time
	)

	iter := bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("list reports: %w", err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, Suffix) {
			continue
		}
		if latestKey == "" || obj.ModTime.After(latestMod) {
			latestKey = obj.Key
			latestMod = obj.ModTime
		}
	}

	if latestKey == "" {
		return nil, "", fmt.Errorf("%w: no reports under %q", ErrNotFound, prefix)
	}

	r, err := Read(ctx, bucket, latestKey)
	if err != nil {
		return nil, "", err
	}
	return r, latestKey, nil
}

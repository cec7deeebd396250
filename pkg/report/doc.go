// Package report stores run reports in cloud storage.
//
// A report records the outcome of every asset in one run. Reports are plain
// JSON objects written through gocloud.dev/blob, so any bucket URL gocloud
// understands works (file://, mem://, s3://, gs://).
//
// # Storage Layout
//
//	{bucket}/{prefix}{run_id}.report.json
//
// # Report Format
//
//	{
//	  "run_id": "6f1c...",
//	  "session_id": "abc",
//	  "endpoint": "ws://localhost:7801/API/DoModelDownloadWS",
//	  "concurrency": 2,
//	  "total": 5,
//	  "succeeded": 4,
//	  "failed": 1,
//	  "started_at": "2025-01-15T10:00:00Z",
//	  "completed_at": "2025-01-15T10:30:00Z",
//	  "outcomes": [
//	    {"asset_id": "128713", "name": "dreamshaper_8.safetensors", "category": "model-weights",
//	     "status": "success", "percent": 100, "duration_ms": 81234},
//	    ...
//	  ]
//	}
//
// Access tokens are never part of a report.
package report

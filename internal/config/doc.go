// Package config defines configuration for the modelpull CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (CIVITAI_TOKEN, SESSION_ID and the MODELPULL_ prefix)
//   - YAML configuration file
//
// Later sources override earlier ones: defaults, file, environment, flags.
//
// # File Format
//
//	endpoint: ws://localhost:7801/API/DoModelDownloadWS
//	catalog: catalog.yaml
//	concurrency: 2
//	progress_step: 20
//	transfer_timeout: 30m
//	exit_policy: strict
//	status_interval: 30s
//	probe: true
//	probe_timeout: 1m
//	report:
//	  bucket: file:///var/lib/modelpull/reports
//	  prefix: runs/
//	log:
//	  level: info
//	  format: console
//
// The access token and session id are usually supplied through
// CIVITAI_TOKEN and SESSION_ID. Both are required; a run never starts
// without them.
package config

// Package http checks that the download service is reachable before a run.
//
// The service speaks websocket on a single route; its HTTP root answers
// plain requests. [Client.Probe] polls that root with exponential backoff
// and jitter, retrying connection errors and 5xx responses.
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions())
//	info, err := client.Probe(ctx, "ws://localhost:7801/API/DoModelDownloadWS")
//	// info.URL, info.StatusCode, info.Attempts
package http

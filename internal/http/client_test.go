package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func fastOptions() Options {
	return Options{
		Timeout:         time.Second,
		RetryAttempts:   3,
		RetryBackoff:    time.Millisecond,
		RetryMaxBackoff: 5 * time.Millisecond,
	}
}

func TestProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			t.Errorf("expected probe of /, got %s", r.URL.Path)
		}
		w.Header().Set("Server", "swarm")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	endpoint := "ws" + strings.TrimPrefix(server.URL, "http") + "/API/DoModelDownloadWS"
	info, err := NewClient(fastOptions()).Probe(context.Background(), endpoint)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", info.StatusCode)
	}
	if info.Server != "swarm" {
		t.Errorf("expected server swarm, got %s", info.Server)
	}
	if info.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", info.Attempts)
	}
}

func TestProbeAcceptsClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	info, err := NewClient(fastOptions()).Probe(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", info.StatusCode)
	}
}

func TestProbeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	info, err := NewClient(fastOptions()).Probe(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", info.Attempts)
	}
}

func TestProbeGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(fastOptions()).Probe(context.Background(), server.URL)
	if !errors.Is(err, ErrServerError) {
		t.Errorf("expected ErrServerError, got %v", err)
	}
}

func TestProbeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastOptions()
	opts.RetryBackoff = time.Hour
	opts.RetryMaxBackoff = time.Hour
	_, err := NewClient(opts).Probe(ctx, "ws://127.0.0.1:1/")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRootURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"ws://localhost:7801/API/DoModelDownloadWS", "http://localhost:7801/", false},
		{"wss://swarm.example.com/API/DoModelDownloadWS", "https://swarm.example.com/", false},
		{"http://localhost:7801", "http://localhost:7801/", false},
		{"ftp://localhost/", "", true},
		{"ws:///nohost", "", true},
	}

	for _, tt := range tests {
		got, err := RootURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("RootURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.expected {
			t.Errorf("RootURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

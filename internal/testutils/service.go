// Package testutils provides shared test infrastructure.
package testutils

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// ServiceRequest is the initiation message as received by the fake service.
type ServiceRequest struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	Name      string `json:"name"`
}

// Script describes how the fake service answers one request.
type Script struct {
	// Messages are sent verbatim as text frames, in order.
	Messages []string

	// Delay is slept before each message.
	Delay time.Duration

	// Drop closes the connection right after Messages. Otherwise the
	// connection stays open until the client hangs up.
	Drop bool
}

// Progress returns progress frames for the given fractions.
func Progress(fractions ...float64) []string {
	msgs := make([]string, len(fractions))
	for i, f := range fractions {
		msgs[i] = `{"progress": ` + strconv.FormatFloat(f, 'f', -1, 64) + `}`
	}
	return msgs
}

// Success is the success frame.
const Success = `{"success": true}`

// Failure returns an error frame with detail.
func Failure(detail string) string {
	return `{"error": "` + detail + `"}`
}

// Service is a scripted stand-in for the model download service.
type Service struct {
	Server *httptest.Server
	// URL is the websocket endpoint.
	URL string

	script func(ServiceRequest) Script

	mu       sync.Mutex
	requests []ServiceRequest
}

// StartService starts a fake download service. script is called once per
// connection with the request the client sent. Plain GET requests are
// answered with 200 so readiness probes succeed.
func StartService(t *testing.T, script func(ServiceRequest) Script) *Service {
	t.Helper()

	s := &Service{script: script}
	upgrader := websocket.Upgrader{}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !websocket.IsWebSocketUpgrade(r) {
			w.WriteHeader(http.StatusOK)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var req ServiceRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		s.record(req)

		sc := s.script(req)
		for _, m := range sc.Messages {
			if sc.Delay > 0 {
				time.Sleep(sc.Delay)
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		if sc.Drop {
			return
		}

		// Wait for the client to hang up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(s.Server.Close)

	s.URL = "ws" + strings.TrimPrefix(s.Server.URL, "http") + "/API/DoModelDownloadWS"
	return s
}

func (s *Service) record(req ServiceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
}

// Requests returns every request received so far.
func (s *Service) Requests() []ServiceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ServiceRequest(nil), s.requests...)
}

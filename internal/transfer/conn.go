package transfer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultEndpoint is the download service's websocket route on a local
// SwarmUI-style instance.
const DefaultEndpoint = "ws://localhost:7801/API/DoModelDownloadWS"

// maxMessageSize bounds a single service message.
const maxMessageSize = 64 * 1024

// Conn is the subset of *websocket.Conn a transfer uses.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens one connection to the download service.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// WebsocketDialer dials the service with gorilla/websocket.
type WebsocketDialer struct {
	// Dialer defaults to a dialer with a 30s handshake timeout.
	Dialer *websocket.Dialer

	// Header is sent with the upgrade request.
	Header http.Header
}

// Dial opens a websocket to endpoint.
func (d WebsocketDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 30 * time.Second,
		}
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint, d.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", endpoint, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	conn.SetReadLimit(maxMessageSize)
	return conn, nil
}

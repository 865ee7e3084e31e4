package logs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GreedyKomodoDragon/Kontroler/internal/client"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const closeGrace = time.Second

// ErrNoPod is returned when a stream is requested without a pod UID
var ErrNoPod = errors.New("pod UID is required")

// Streamer follows the logs of task pods over the backend's websocket
type Streamer struct {
	wsURL  string
	dialer *websocket.Dialer
	logger *logrus.Logger
}

// NewStreamer creates a Streamer for the websocket root wsURL
// (for example ws://localhost:8082).
func NewStreamer(wsURL string, logger *logrus.Logger) (*Streamer, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL %s: %w", wsURL, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid websocket URL %s: scheme must be ws or wss", wsURL)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Streamer{
		wsURL:  strings.TrimSuffix(wsURL, "/"),
		dialer: websocket.DefaultDialer,
		logger: logger,
	}, nil
}

// Stream delivers each log line of the pod to onLine until the backend
// closes the socket or ctx is done. A normal close returns nil.
func (s *Streamer) Stream(ctx context.Context, podUID string, onLine func(line string)) error {
	if podUID == "" {
		return ErrNoPod
	}

	target := s.wsURL + "/ws/logs?" + url.Values{"pod": {podUID}}.Encode()
	header := http.Header{}
	if token, ok := client.TokenFrom(ctx); ok {
		header.Add("Cookie", (&http.Cookie{Name: client.CookieName, Value: token}).String())
	}

	conn, _, err := s.dialer.DialContext(ctx, target, header)
	if err != nil {
		return fmt.Errorf("failed to connect to log stream: %w", err)
	}
	defer conn.Close()

	entry := s.logger.WithField("pod", podUID)
	entry.Debug("log stream connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline(ctx))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				entry.Debug("log stream cancelled")
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				entry.Debug("log stream closed")
				return nil
			}
			return fmt.Errorf("log stream failed: %w", err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		onLine(string(data))
	}
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok && time.Until(d) > 0 {
		return d
	}
	return time.Now().Add(closeGrace)
}

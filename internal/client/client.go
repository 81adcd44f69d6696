// Package client is the producer side of the OSD pipe: it serializes
// messages to the wire format and delivers them with bounded retries
// against a presenter that has not opened the read end yet.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jmylchreest/wayosd/internal/frame"
	"github.com/jmylchreest/wayosd/internal/protocol"
)

const (
	maxAttempts = 5
	retryDelay  = 50 * time.Millisecond

	// settleDelay keeps a burst of producers from saturating the pipe
	// faster than the 10ms poll loop drains it.
	settleDelay = 5 * time.Millisecond
)

// DeliveryError reports a message that could not be handed to the
// presenter within the retry budget. The CLI surfaces it as a non-zero
// exit.
type DeliveryError struct {
	Path     string
	Attempts int
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver message to %s after %d attempts: %v", e.Path, e.Attempts, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Client sends OSD messages to the presenter's pipe. It is synchronous and
// safe to use from any goroutine; each Send is independent.
type Client struct {
	path   string
	logger *slog.Logger
}

// New creates a Client targeting the pipe at path.
func New(path string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{path: path, logger: logger}
}

// Send serializes the message and delivers it as one delimited frame.
func (c *Client) Send(msg *protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return c.deliver(data)
}

// SendRaw delivers a caller-supplied JSON payload unchanged. The payload is
// schema-checked only as far as being a JSON object; the presenter decides
// whether it knows the message kind.
func (c *Client) SendRaw(raw string) error {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return fmt.Errorf("invalid JSON message: %w", err)
	}
	return c.deliver([]byte(raw))
}

func (c *Client) deliver(payload []byte) error {
	if len(payload) >= frame.MaxMessageSize {
		return fmt.Errorf("message of %d bytes exceeds frame limit %d", len(payload), frame.MaxMessageSize)
	}

	// One buffer holding payload plus delimiter: a single write call keeps
	// the frame intact when concurrent producers share the pipe.
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, payload...)
	buf = append(buf, frame.Delimiter)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		fd, err := unix.Open(c.path, unix.O_WRONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			// ENXIO: pipe exists but no reader yet. ENOENT: presenter has
			// not created the pipe. Both are transient while the presenter
			// starts up.
			if errors.Is(err, unix.ENXIO) || errors.Is(err, unix.ENOENT) {
				lastErr = err
				c.logger.Debug("presenter not ready, retrying", "path", c.path, "attempt", attempt)
				if attempt < maxAttempts {
					time.Sleep(retryDelay)
				}
				continue
			}
			return &DeliveryError{Path: c.path, Attempts: attempt, Err: err}
		}

		n, werr := unix.Write(fd, buf)
		if cerr := unix.Close(fd); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return &DeliveryError{Path: c.path, Attempts: attempt, Err: werr}
		}
		if n != len(buf) {
			return &DeliveryError{Path: c.path, Attempts: attempt,
				Err: fmt.Errorf("short write: %d of %d bytes", n, len(buf))}
		}

		time.Sleep(settleDelay)
		return nil
	}

	return &DeliveryError{Path: c.path, Attempts: maxAttempts, Err: lastErr}
}

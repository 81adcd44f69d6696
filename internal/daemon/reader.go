package daemon

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jmylchreest/wayosd/internal/frame"
	"github.com/jmylchreest/wayosd/internal/protocol"
	"github.com/jmylchreest/wayosd/internal/transport"
)

// PollInterval is how often the main loop polls the pipe for new bytes.
const PollInterval = 10 * time.Millisecond

// maxReadsPerPoll bounds how long one tick can monopolize the main loop
// when a producer floods the pipe.
const maxReadsPerPoll = 32

// ByteSource is the non-blocking read side of the transport.
type ByteSource interface {
	ReadAvailable() ([]byte, error)
}

// Reader drives the consumer pipeline: one Poll drains available bytes,
// completes frames and applies the decoded messages in completion order.
// All decode failures are local; the loop never stops for them.
type Reader struct {
	src    ByteSource
	dec    *frame.Decoder
	sm     *StateMachine
	logger *slog.Logger
}

// NewReader creates a Reader over src feeding sm.
func NewReader(src ByteSource, sm *StateMachine, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		src:    src,
		dec:    frame.NewDecoder(),
		sm:     sm,
		logger: logger,
	}
}

// Poll performs one cooperative pass over the pipe. It never blocks and
// always returns true so it can be installed directly as a recurring GLib
// timeout source.
func (r *Reader) Poll() bool {
	for i := 0; i < maxReadsPerPoll; i++ {
		chunk, err := r.src.ReadAvailable()
		if err != nil {
			if !errors.Is(err, transport.ErrWouldBlock) {
				r.logger.Warn("pipe read failed", "error", err)
			}
			return true
		}

		frames, dropped := r.dec.Feed(chunk)
		if dropped > 0 {
			r.logger.Warn("discarded oversized frames",
				"count", dropped,
				"limit", frame.MaxMessageSize,
				"total_dropped", r.dec.Dropped(),
			)
		}

		for _, f := range frames {
			msg, err := protocol.Decode(f)
			if err != nil {
				r.logger.Warn("discarded malformed frame", "error", err, "bytes", len(f))
				continue
			}
			r.sm.Apply(msg)
		}
	}
	return true
}

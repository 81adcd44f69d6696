// Package transport owns the named pipe the presenter reads OSD messages
// from. The pipe is created at startup with write permission for other
// users' producer processes and is read with a raw non-blocking descriptor
// so the GTK main loop can poll it without ever stalling.
package transport

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultPath is the well-known pipe location producers write to.
const DefaultPath = "/tmp/wayland-osd.pipe"

// pipeMode grants the owner read/write and everyone else write-only, so any
// local process can deliver messages but only the presenter reads them.
const pipeMode = 0o622

const readBufSize = 4096

// ErrWouldBlock is returned by ReadAvailable when no bytes are ready. It is
// the integration point with the cooperative poll loop: the caller yields
// back to the scheduler instead of waiting.
var ErrWouldBlock = errors.New("transport: no data available")

// SetupError reports a failure to create or open the pipe artifact. It is
// fatal to presenter startup.
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("failed to set up pipe %s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Pipe is the presenter-side read end of the OSD named pipe.
//
// End-of-stream policy: a FIFO opened non-blocking with no writer reads as
// zero bytes. The pipe keeps polling the same descriptor across writer
// opens and closes rather than reopening, so sequential producers share one
// stream and frame boundaries stay delimiter-based.
type Pipe struct {
	path   string
	fd     int
	buf    []byte
	logger *slog.Logger
}

// Open unlinks any stale artifact at path, creates a fresh FIFO with
// explicit permissions and opens it for non-blocking reads. The artifact is
// intentionally left behind at shutdown; only the next startup removes it.
func Open(path string, logger *slog.Logger) (*Pipe, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &SetupError{Path: path, Err: fmt.Errorf("failed to remove stale pipe: %w", err)}
	}

	if err := unix.Mkfifo(path, pipeMode); err != nil {
		return nil, &SetupError{Path: path, Err: fmt.Errorf("mkfifo failed: %w", err)}
	}

	// mkfifo is subject to the umask; force the intended mode so producers
	// running as other users can open the write end.
	if err := os.Chmod(path, pipeMode); err != nil {
		return nil, &SetupError{Path: path, Err: fmt.Errorf("chmod failed: %w", err)}
	}

	// A raw descriptor keeps the read path out of the Go runtime poller:
	// reads must return immediately, never park the GTK main loop.
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, &SetupError{Path: path, Err: fmt.Errorf("failed to open pipe for reading: %w", err)}
	}

	logger.Info("pipe ready", "path", path)

	return &Pipe{
		path:   path,
		fd:     fd,
		buf:    make([]byte, readBufSize),
		logger: logger,
	}, nil
}

// ReadAvailable performs one non-blocking read. It returns the bytes read,
// or ErrWouldBlock when nothing is ready. A zero-byte read means no writer
// currently holds the pipe open; that is transient and also maps to
// ErrWouldBlock. The returned slice is valid until the next call.
func (p *Pipe) ReadAvailable() ([]byte, error) {
	n, err := unix.Read(p.fd, p.buf)
	switch {
	case n > 0:
		return p.buf[:n], nil
	case err == nil || errors.Is(err, unix.EAGAIN):
		return nil, ErrWouldBlock
	default:
		return nil, fmt.Errorf("pipe read failed: %w", err)
	}
}

// Path returns the pipe's filesystem path.
func (p *Pipe) Path() string {
	return p.path
}

// Close releases the read descriptor. The filesystem artifact stays in
// place so producers can detect a presenter restart rather than a missing
// install.
func (p *Pipe) Close() error {
	if p.fd < 0 {
		return nil
	}
	err := unix.Close(p.fd)
	p.fd = -1
	if err != nil {
		return fmt.Errorf("failed to close pipe: %w", err)
	}
	return nil
}

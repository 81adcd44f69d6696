package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/wayosd/internal/daemon"
)

// GLibScheduler implements daemon.Scheduler on top of GLib timeout
// sources. Like the state machine it serves, it must only be used from
// the GTK main loop, so no locking is needed.
type GLibScheduler struct {
	active map[daemon.TimerToken]glib.SourceHandle
}

// NewGLibScheduler creates a scheduler backed by the default main context.
func NewGLibScheduler() *GLibScheduler {
	return &GLibScheduler{
		active: make(map[daemon.TimerToken]glib.SourceHandle),
	}
}

// Schedule registers fn as a one-shot timeout source.
func (s *GLibScheduler) Schedule(d time.Duration, fn func()) daemon.TimerToken {
	var token daemon.TimerToken
	handle := glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		delete(s.active, token)
		fn()
		return false
	})
	token = daemon.TimerToken(handle)
	s.active[token] = handle
	return token
}

// Cancel removes a pending timeout source. Tokens whose source already
// fired are ignored; removing them again would be undefined behaviour in
// GLib.
func (s *GLibScheduler) Cancel(token daemon.TimerToken) bool {
	handle, ok := s.active[token]
	if !ok {
		return false
	}
	delete(s.active, token)
	glib.SourceRemove(handle)
	return true
}

package daemon

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/wayosd/internal/protocol"
)

// HideTimeout is the inactivity window after the last message before the
// surface hides.
const HideTimeout = 3 * time.Second

// TimerToken identifies a scheduled hide timer. It is an opaque handle
// from the Scheduler, never a pointer into the windowing object graph.
type TimerToken uint64

// Scheduler registers one-shot callbacks on the main loop. The production
// implementation wraps GLib timeout sources; tests substitute a fake with
// manual time.
type Scheduler interface {
	// Schedule runs fn once after d on the main loop and returns a token
	// for cancellation.
	Schedule(d time.Duration, fn func()) TimerToken
	// Cancel drops a scheduled callback. Cancelling a timer that already
	// fired returns false and is harmless.
	Cancel(token TimerToken) bool
}

// Surface is the render collaborator. Implementations update the visible
// OSD; they must not block.
type Surface interface {
	ShowProgress(kind protocol.Kind, value, maxValue int, muted bool, deviceName string)
	ShowText(text string)
	Hide()
}

// State is the presentation state of the OSD surface.
type State int

const (
	// StateIdle means nothing is shown and no timer is pending.
	StateIdle State = iota
	// StateVisible means the surface is shown with a hide timer armed.
	StateVisible
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// StateMachine applies decoded messages to the surface and debounces the
// hide timer: every message re-arms a fresh timer, so a burst of events
// produces one visible period ending a fixed window after the last one.
//
// At most one timer is pending at any instant. A generation counter makes
// a timer that was superseded but managed to fire a no-op, so stale timers
// can never hide newer content.
//
// Not safe for concurrent use: all calls must come from the main loop.
type StateMachine struct {
	surface   Surface
	sched     Scheduler
	logger    *slog.Logger
	hideAfter time.Duration

	state      State
	kind       protocol.Kind
	timer      TimerToken
	timerArmed bool
	generation uint64
}

// NewStateMachine creates a StateMachine in the idle state.
func NewStateMachine(surface Surface, sched Scheduler, hideAfter time.Duration, logger *slog.Logger) *StateMachine {
	if logger == nil {
		logger = slog.Default()
	}
	if hideAfter <= 0 {
		hideAfter = HideTimeout
	}
	return &StateMachine{
		surface:   surface,
		sched:     sched,
		logger:    logger,
		hideAfter: hideAfter,
		state:     StateIdle,
	}
}

// Apply renders one message and re-arms the hide timer. Messages of an
// unknown kind leave the state unchanged and are reported to logs only.
func (m *StateMachine) Apply(msg *protocol.Message) {
	switch msg.Type {
	case protocol.KindVolume, protocol.KindBrightness:
		value, maxValue := msg.Progress()
		m.surface.ShowProgress(msg.Type, value, maxValue, msg.Muted, msg.DeviceName)
	case protocol.KindText:
		m.surface.ShowText(msg.Text)
	default:
		m.logger.Warn("ignoring message of unknown kind", "kind", string(msg.Type))
		return
	}

	if m.timerArmed {
		// Cancel returning false means the timer already fired; the
		// generation check below keeps that fire from doing anything.
		m.sched.Cancel(m.timer)
	}

	m.generation++
	gen := m.generation
	m.timer = m.sched.Schedule(m.hideAfter, func() { m.onTimeout(gen) })
	m.timerArmed = true
	m.state = StateVisible
	m.kind = msg.Type

	m.logger.Debug("message applied", "kind", string(msg.Type), "hide_after", m.hideAfter)
}

// onTimeout hides the surface unless the timer was superseded by a newer
// message between scheduling and firing.
func (m *StateMachine) onTimeout(gen uint64) {
	if gen != m.generation {
		return
	}
	m.timerArmed = false
	m.state = StateIdle
	m.kind = ""
	m.surface.Hide()
	m.logger.Debug("surface hidden after inactivity")
}

// State returns the current presentation state.
func (m *StateMachine) State() State {
	return m.state
}

// VisibleKind returns the kind currently rendered, or empty when idle.
func (m *StateMachine) VisibleKind() protocol.Kind {
	return m.kind
}

// SetHideAfter changes the inactivity window for subsequently applied
// messages. Used by config hot-reload; the currently armed timer is left
// alone.
func (m *StateMachine) SetHideAfter(d time.Duration) {
	if d > 0 {
		m.hideAfter = d
	}
}

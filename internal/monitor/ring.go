package monitor

// DefaultRingSize bounds the self-filter ring. Monitors emit at most a
// handful of events per user gesture, so a small window is plenty.
const DefaultRingSize = 32

// EventRing remembers the last N event ids a producer emitted, so the
// producer can recognize and skip change notifications it caused itself.
// Constructed once per producer and threaded through explicitly.
//
// Not safe for concurrent use.
type EventRing struct {
	ids  []string
	next int
	full bool
}

// NewEventRing creates a ring holding up to size ids. Sizes below one
// fall back to DefaultRingSize.
func NewEventRing(size int) *EventRing {
	if size < 1 {
		size = DefaultRingSize
	}
	return &EventRing{ids: make([]string, size)}
}

// Push records an event id, evicting the oldest once the ring is full.
func (r *EventRing) Push(id string) {
	r.ids[r.next] = id
	r.next++
	if r.next == len(r.ids) {
		r.next = 0
		r.full = true
	}
}

// Contains reports whether id is still within the remembered window.
func (r *EventRing) Contains(id string) bool {
	if id == "" {
		return false
	}
	for _, v := range r.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of ids currently remembered.
func (r *EventRing) Len() int {
	if r.full {
		return len(r.ids)
	}
	return r.next
}

// Package frame turns the unstructured byte stream read from the OSD pipe
// into discrete, size-bounded message frames.
package frame

import "bytes"

const (
	// MaxMessageSize is the largest undelimited frame the decoder will
	// buffer. Longer runs are discarded wholesale.
	MaxMessageSize = 8192

	// Delimiter terminates each frame on the wire. It cannot appear inside
	// a well-formed JSON payload.
	Delimiter byte = 0x00
)

// Decoder is an incremental frame scanner. Feed it chunks of any size and
// it emits one frame per delimiter seen, carrying partial frames across
// calls in a single pending buffer. It is not safe for concurrent use; the
// read loop owns it.
type Decoder struct {
	pending    []byte
	discarding bool
	dropped    uint64
}

// NewDecoder creates a Decoder with an empty pending buffer.
func NewDecoder() *Decoder {
	return &Decoder{pending: make([]byte, 0, 256)}
}

// Feed scans one chunk and returns every frame completed by it, in stream
// order, plus the number of oversized frames discarded during the scan.
// Bytes after the last delimiter are held for the next call. A frame whose
// undelimited run exceeds MaxMessageSize is dropped and the decoder
// resynchronizes at the next delimiter; the following frame decodes
// normally.
func (d *Decoder) Feed(chunk []byte) (frames [][]byte, dropped int) {
	for len(chunk) > 0 {
		i := bytes.IndexByte(chunk, Delimiter)
		if i < 0 {
			if d.discarding {
				return frames, dropped
			}
			if len(d.pending)+len(chunk) > MaxMessageSize {
				d.pending = d.pending[:0]
				d.discarding = true
				d.dropped++
				dropped++
				return frames, dropped
			}
			d.pending = append(d.pending, chunk...)
			return frames, dropped
		}

		if d.discarding {
			// End of an oversized run; resume cleanly after it.
			d.discarding = false
			chunk = chunk[i+1:]
			continue
		}

		if len(d.pending)+i > MaxMessageSize {
			d.pending = d.pending[:0]
			d.dropped++
			dropped++
			chunk = chunk[i+1:]
			continue
		}

		if len(d.pending)+i > 0 {
			f := make([]byte, 0, len(d.pending)+i)
			f = append(f, d.pending...)
			f = append(f, chunk[:i]...)
			frames = append(frames, f)
			d.pending = d.pending[:0]
		}
		chunk = chunk[i+1:]
	}
	return frames, dropped
}

// PendingLen returns the number of buffered bytes awaiting a delimiter.
func (d *Decoder) PendingLen() int {
	return len(d.pending)
}

// Dropped returns the total number of oversized frames discarded over the
// decoder's lifetime.
func (d *Decoder) Dropped() uint64 {
	return d.dropped
}

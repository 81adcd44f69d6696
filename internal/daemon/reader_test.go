package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wayosd/internal/frame"
	"github.com/jmylchreest/wayosd/internal/protocol"
	"github.com/jmylchreest/wayosd/internal/transport"
)

// scriptedSource replays a fixed sequence of chunks, then would-blocks
// forever.
type scriptedSource struct {
	chunks [][]byte
}

func (s *scriptedSource) ReadAvailable() ([]byte, error) {
	if len(s.chunks) == 0 {
		return nil, transport.ErrWouldBlock
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

// orderSurface records the order ShowText payloads arrive in.
type orderSurface struct {
	fakeSurface
	texts []string
}

func (s *orderSurface) ShowText(text string) {
	s.fakeSurface.ShowText(text)
	s.texts = append(s.texts, text)
}

func newTestReader(src ByteSource) (*Reader, *orderSurface, *fakeScheduler) {
	surface := &orderSurface{}
	sched := newFakeScheduler()
	sm := NewStateMachine(surface, sched, HideTimeout, nil)
	return NewReader(src, sm, nil), surface, sched
}

func encodeFrame(t *testing.T, msg *protocol.Message) []byte {
	t.Helper()
	data, err := protocol.Encode(msg)
	require.NoError(t, err)
	return append(data, frame.Delimiter)
}

func TestPoll_AppliesDecodedMessages(t *testing.T) {
	src := &scriptedSource{chunks: [][]byte{
		encodeFrame(t, protocol.NewVolume(45, 100, false, "")),
	}}
	r, surface, _ := newTestReader(src)

	assert.True(t, r.Poll())
	assert.Equal(t, protocol.KindVolume, surface.kind)
	assert.Equal(t, 45, surface.value)
	assert.Equal(t, StateVisible, r.sm.State())
}

func TestPoll_OrderPreservedAcrossChunkBoundaries(t *testing.T) {
	// Three messages split at arbitrary read boundaries arrive in order.
	var stream []byte
	for _, text := range []string{"m1", "m2", "m3"} {
		stream = append(stream, encodeFrame(t, protocol.NewText(text))...)
	}
	src := &scriptedSource{chunks: [][]byte{
		stream[:7], stream[7:20], stream[20:21], stream[21:],
	}}
	r, surface, _ := newTestReader(src)

	r.Poll()
	assert.Equal(t, []string{"m1", "m2", "m3"}, surface.texts)
}

func TestPoll_MalformedFrameBetweenValidOnes(t *testing.T) {
	var stream []byte
	stream = append(stream, encodeFrame(t, protocol.NewText("before"))...)
	stream = append(stream, []byte("this is not json\x00")...)
	stream = append(stream, encodeFrame(t, protocol.NewText("after"))...)
	src := &scriptedSource{chunks: [][]byte{stream}}
	r, surface, _ := newTestReader(src)

	r.Poll()
	assert.Equal(t, []string{"before", "after"}, surface.texts)
}

func TestPoll_WouldBlockYields(t *testing.T) {
	r, surface, _ := newTestReader(&scriptedSource{})
	assert.True(t, r.Poll())
	assert.Zero(t, surface.showCalls)
}

func TestPoll_PartialFrameWaitsForDelimiter(t *testing.T) {
	full := encodeFrame(t, protocol.NewText("split"))
	src := &scriptedSource{chunks: [][]byte{full[:5]}}
	r, surface, _ := newTestReader(src)

	r.Poll()
	assert.Zero(t, surface.showCalls)

	src.chunks = [][]byte{full[5:]}
	r.Poll()
	assert.Equal(t, []string{"split"}, surface.texts)
}

func TestPoll_BoundedPerTick(t *testing.T) {
	// More chunks than the per-tick budget: one Poll must not drain them
	// all, the next Poll picks up where it left off.
	var chunks [][]byte
	for i := 0; i < maxReadsPerPoll+5; i++ {
		chunks = append(chunks, encodeFrame(t, protocol.NewText("x")))
	}
	src := &scriptedSource{chunks: chunks}
	r, surface, _ := newTestReader(src)

	r.Poll()
	assert.Equal(t, maxReadsPerPoll, surface.showCalls)

	r.Poll()
	assert.Equal(t, maxReadsPerPoll+5, surface.showCalls)
}

func TestPoll_DebounceAcrossPolls(t *testing.T) {
	first := &scriptedSource{chunks: [][]byte{
		encodeFrame(t, protocol.NewVolume(45, 100, false, "")),
	}}
	r, surface, sched := newTestReader(first)

	r.Poll()
	sched.Advance(HideTimeout / 2)

	first.chunks = [][]byte{encodeFrame(t, protocol.NewText("Muted"))}
	r.Poll()

	sched.Advance(HideTimeout / 2)
	assert.Equal(t, StateVisible, r.sm.State(), "second message reset the window")

	sched.Advance(HideTimeout / 2)
	assert.Equal(t, StateIdle, r.sm.State())
	assert.False(t, surface.visible)
}

func TestPoll_OversizedFrameDoesNotCorruptStream(t *testing.T) {
	big := make([]byte, frame.MaxMessageSize+10)
	for i := range big {
		big[i] = 'x'
	}
	big = append(big, frame.Delimiter)

	var stream []byte
	stream = append(stream, big...)
	stream = append(stream, encodeFrame(t, protocol.NewText("survivor"))...)
	src := &scriptedSource{chunks: [][]byte{stream}}
	r, surface, _ := newTestReader(src)

	r.Poll()
	assert.Equal(t, []string{"survivor"}, surface.texts)
}

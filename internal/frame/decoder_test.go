package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delimited(payloads ...string) []byte {
	var buf bytes.Buffer
	for _, p := range payloads {
		buf.WriteString(p)
		buf.WriteByte(Delimiter)
	}
	return buf.Bytes()
}

func TestFeed_SingleFrame(t *testing.T) {
	d := NewDecoder()

	frames, dropped := d.Feed(delimited(`{"type":"text","text":"hi"}`))
	require.Len(t, frames, 1)
	assert.Equal(t, `{"type":"text","text":"hi"}`, string(frames[0]))
	assert.Zero(t, dropped)
	assert.Zero(t, d.PendingLen())
}

func TestFeed_MultipleFramesInOneChunk(t *testing.T) {
	d := NewDecoder()

	frames, dropped := d.Feed(delimited("one", "two", "three"))
	require.Len(t, frames, 3)
	assert.Equal(t, "one", string(frames[0]))
	assert.Equal(t, "two", string(frames[1]))
	assert.Equal(t, "three", string(frames[2]))
	assert.Zero(t, dropped)
}

func TestFeed_PartialFrameAcrossChunks(t *testing.T) {
	d := NewDecoder()

	frames, _ := d.Feed([]byte(`{"type":"te`))
	assert.Empty(t, frames)
	assert.Equal(t, 11, d.PendingLen())

	frames, _ = d.Feed([]byte(`xt","text":"hi"}` + string(Delimiter)))
	require.Len(t, frames, 1)
	assert.Equal(t, `{"type":"text","text":"hi"}`, string(frames[0]))
	assert.Zero(t, d.PendingLen())
}

func TestFeed_AnyChunking(t *testing.T) {
	// A frame must survive every possible read chunking of its bytes.
	payloads := []string{
		`{"type":"volume","value":45,"max_value":100}`,
		`{"type":"text","text":"Muted"}`,
		`{"type":"brightness","value":3,"max_value":10}`,
	}
	stream := delimited(payloads...)

	for size := 1; size <= len(stream); size++ {
		d := NewDecoder()
		var got []string
		for start := 0; start < len(stream); start += size {
			end := start + size
			if end > len(stream) {
				end = len(stream)
			}
			frames, dropped := d.Feed(stream[start:end])
			assert.Zero(t, dropped)
			for _, f := range frames {
				got = append(got, string(f))
			}
		}
		require.Equal(t, payloads, got, "chunk size %d", size)
	}
}

func TestFeed_EmptyFramesSkipped(t *testing.T) {
	d := NewDecoder()

	frames, dropped := d.Feed([]byte{Delimiter, Delimiter, 'a', Delimiter, Delimiter})
	require.Len(t, frames, 1)
	assert.Equal(t, "a", string(frames[0]))
	assert.Zero(t, dropped)
}

func TestFeed_OversizedFrameDropped(t *testing.T) {
	d := NewDecoder()

	big := bytes.Repeat([]byte{'x'}, MaxMessageSize+1)
	frames, dropped := d.Feed(big)
	assert.Empty(t, frames)
	assert.Equal(t, 1, dropped)
	assert.Zero(t, d.PendingLen())

	// The stream resumes cleanly on the next delimiter.
	frames, dropped = d.Feed(delimited("", "next"))
	require.Len(t, frames, 1)
	assert.Equal(t, "next", string(frames[0]))
	assert.Zero(t, dropped)
	assert.Equal(t, uint64(1), d.Dropped())
}

func TestFeed_OversizedDetectedAtDelimiter(t *testing.T) {
	d := NewDecoder()

	// Buffer exactly MaxMessageSize bytes without a delimiter, then add
	// more payload before the delimiter arrives.
	d.Feed(bytes.Repeat([]byte{'x'}, MaxMessageSize))
	assert.Equal(t, MaxMessageSize, d.PendingLen())

	frames, dropped := d.Feed(delimited("y", "ok"))
	require.Len(t, frames, 1)
	assert.Equal(t, "ok", string(frames[0]))
	assert.Equal(t, 1, dropped)
}

func TestFeed_ExactMaxSizeAccepted(t *testing.T) {
	d := NewDecoder()

	payload := bytes.Repeat([]byte{'x'}, MaxMessageSize)
	frames, dropped := d.Feed(append(payload, Delimiter))
	require.Len(t, frames, 1)
	assert.Len(t, frames[0], MaxMessageSize)
	assert.Zero(t, dropped)
}

func TestFeed_OversizedRunSpanningManyChunks(t *testing.T) {
	d := NewDecoder()

	// The oversized run arrives in several chunks; it is counted once.
	var totalDropped int
	for i := 0; i < 5; i++ {
		_, dropped := d.Feed(bytes.Repeat([]byte{'x'}, MaxMessageSize/2+1))
		totalDropped += dropped
	}
	assert.Equal(t, 1, totalDropped)

	frames, dropped := d.Feed(delimited("", "after"))
	require.Len(t, frames, 1)
	assert.Equal(t, "after", string(frames[0]))
	assert.Zero(t, dropped)
}

func TestFeed_OrderPreserved(t *testing.T) {
	d := NewDecoder()
	stream := delimited("m1", "m2", "m3")

	// Split awkwardly across two feeds.
	var got []string
	for _, chunk := range [][]byte{stream[:4], stream[4:]} {
		frames, _ := d.Feed(chunk)
		for _, f := range frames {
			got = append(got, string(f))
		}
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, got)
}

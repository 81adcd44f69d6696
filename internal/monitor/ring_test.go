package monitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventRing_PushAndContains(t *testing.T) {
	r := NewEventRing(4)

	assert.False(t, r.Contains("a"))
	r.Push("a")
	r.Push("b")
	assert.True(t, r.Contains("a"))
	assert.True(t, r.Contains("b"))
	assert.False(t, r.Contains("c"))
	assert.Equal(t, 2, r.Len())
}

func TestEventRing_EvictsOldest(t *testing.T) {
	r := NewEventRing(3)

	for _, id := range []string{"a", "b", "c", "d"} {
		r.Push(id)
	}

	assert.False(t, r.Contains("a"), "oldest id should be evicted")
	assert.True(t, r.Contains("b"))
	assert.True(t, r.Contains("d"))
	assert.Equal(t, 3, r.Len())
}

func TestEventRing_EmptyIDNeverMatches(t *testing.T) {
	r := NewEventRing(4)
	assert.False(t, r.Contains(""))
}

func TestEventRing_DefaultSize(t *testing.T) {
	r := NewEventRing(0)

	for i := 0; i < DefaultRingSize; i++ {
		r.Push(fmt.Sprintf("id-%d", i))
	}
	assert.Equal(t, DefaultRingSize, r.Len())
	assert.True(t, r.Contains("id-0"))

	r.Push("one-more")
	assert.False(t, r.Contains("id-0"))
}

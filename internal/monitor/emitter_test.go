package monitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wayosd/internal/protocol"
)

type captureSender struct {
	sent []*protocol.Message
	err  error
}

func (c *captureSender) Send(msg *protocol.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestEmitVolume(t *testing.T) {
	sender := &captureSender{}
	e := NewEmitter(sender, nil, nil)

	id, err := e.EmitVolume(45, 100, false, "alsa_output.pci")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, protocol.KindVolume, msg.Type)
	assert.Equal(t, "alsa_output.pci", msg.DeviceName)

	value, maxValue := msg.Progress()
	assert.Equal(t, 45, value)
	assert.Equal(t, 100, maxValue)
}

func TestEmitVolume_MapsDeviceName(t *testing.T) {
	sender := &captureSender{}
	devices := &DeviceMap{Mappings: []DeviceMapping{
		{Pattern: "alsa_output.pci", Name: "Built-in Audio"},
	}}
	e := NewEmitter(sender, devices, nil)

	_, err := e.EmitVolume(80, 100, true, "alsa_output.pci-0000.analog-stereo")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Built-in Audio", sender.sent[0].DeviceName)
	assert.True(t, sender.sent[0].Muted)
}

func TestEmitBrightness(t *testing.T) {
	sender := &captureSender{}
	e := NewEmitter(sender, nil, nil)

	_, err := e.EmitBrightness(7, 10)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, protocol.KindBrightness, sender.sent[0].Type)
}

func TestOwns(t *testing.T) {
	sender := &captureSender{}
	e := NewEmitter(sender, nil, nil)

	id, err := e.EmitText("hello")
	require.NoError(t, err)

	assert.True(t, e.Owns(id))
	assert.False(t, e.Owns("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.False(t, e.Owns(""))
}

func TestEmit_SendFailureNotRemembered(t *testing.T) {
	sender := &captureSender{err: errors.New("no reader")}
	e := NewEmitter(sender, nil, nil)

	id, err := e.EmitText("hello")
	assert.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, e.ring.Len())
}

func TestEmit_IDsAreUnique(t *testing.T) {
	sender := &captureSender{}
	e := NewEmitter(sender, nil, nil)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, err := e.EmitBrightness(i, 10)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate event id %s", id)
		seen[id] = true
	}
}

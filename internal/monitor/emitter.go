package monitor

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/wayosd/internal/protocol"
)

// Sender delivers one message to the OSD. Satisfied by client.Client.
type Sender interface {
	Send(msg *protocol.Message) error
}

// Emitter sends OSD messages on behalf of a system monitor, tagging each
// with a ULID and remembering recent ids so the monitor can tell its own
// state changes apart from external ones.
type Emitter struct {
	sender  Sender
	ring    *EventRing
	devices *DeviceMap
	logger  *slog.Logger
}

// NewEmitter creates an Emitter. devices may be nil when no mapping file
// was given.
func NewEmitter(sender Sender, devices *DeviceMap, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		sender:  sender,
		ring:    NewEventRing(DefaultRingSize),
		devices: devices,
		logger:  logger,
	}
}

// EmitVolume sends a volume message and returns its event id. The device
// name goes through the mapping table first.
func (e *Emitter) EmitVolume(value, maxValue int, muted bool, deviceName string) (string, error) {
	return e.emit(protocol.NewVolume(value, maxValue, muted, e.devices.Resolve(deviceName)))
}

// EmitBrightness sends a brightness message and returns its event id.
func (e *Emitter) EmitBrightness(value, maxValue int) (string, error) {
	return e.emit(protocol.NewBrightness(value, maxValue))
}

// EmitText sends a text message and returns its event id.
func (e *Emitter) EmitText(text string) (string, error) {
	return e.emit(protocol.NewText(text))
}

func (e *Emitter) emit(msg *protocol.Message) (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}

	if err := e.sender.Send(msg); err != nil {
		return "", err
	}

	e.ring.Push(id.String())
	e.logger.Debug("event emitted", "id", id.String(), "kind", string(msg.Type))
	return id.String(), nil
}

// Owns reports whether id belongs to an event this emitter sent recently.
// Monitors call this from their change-notification path to skip echoes
// of their own writes.
func (e *Emitter) Owns(id string) bool {
	return e.ring.Contains(id)
}

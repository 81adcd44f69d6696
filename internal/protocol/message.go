// Package protocol defines the OSD wire message schema shared by the
// producer CLI, the pipe transport and the D-Bus ingress.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind is the message type tag on the wire.
type Kind string

const (
	// KindVolume is an audio volume change.
	KindVolume Kind = "volume"
	// KindBrightness is a display brightness change.
	KindBrightness Kind = "brightness"
	// KindText is a plain text message.
	KindText Kind = "text"
)

// Known returns true if the kind is one the presenter can render.
func (k Kind) Known() bool {
	switch k {
	case KindVolume, KindBrightness, KindText:
		return true
	}
	return false
}

// Message is one OSD event. Exactly one kind is active; Value and MaxValue
// are pointers so that absence is distinguishable from zero, since the
// volume and brightness kinds require both to be present together.
type Message struct {
	Type       Kind   `json:"type"`
	Value      *int   `json:"value,omitempty"`
	MaxValue   *int   `json:"max_value,omitempty"`
	Muted      bool   `json:"muted,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
	Text       string `json:"text,omitempty"`
}

// NewVolume creates a volume message. An empty device name omits the field
// on the wire.
func NewVolume(value, maxValue int, muted bool, deviceName string) *Message {
	return &Message{
		Type:       KindVolume,
		Value:      &value,
		MaxValue:   &maxValue,
		Muted:      muted,
		DeviceName: deviceName,
	}
}

// NewBrightness creates a brightness message.
func NewBrightness(value, maxValue int) *Message {
	return &Message{
		Type:     KindBrightness,
		Value:    &value,
		MaxValue: &maxValue,
	}
}

// NewText creates a text message.
func NewText(text string) *Message {
	return &Message{
		Type: KindText,
		Text: text,
	}
}

// Progress returns the value/max pair for progress kinds. Only meaningful
// after Validate has passed for a volume or brightness message.
func (m *Message) Progress() (value, maxValue int) {
	if m.Value != nil {
		value = *m.Value
	}
	if m.MaxValue != nil {
		maxValue = *m.MaxValue
	}
	return value, maxValue
}

// Validate checks the schema rules for the message. A missing type tag is
// an error; an unknown tag is not, so the presenter can report it instead
// of silently dropping the frame.
func (m *Message) Validate() error {
	if m.Type == "" {
		return fmt.Errorf("message has no type tag")
	}

	switch m.Type {
	case KindVolume, KindBrightness:
		if m.Value == nil || m.MaxValue == nil {
			return fmt.Errorf("%s message requires both value and max_value", m.Type)
		}
		if *m.MaxValue <= 0 {
			return fmt.Errorf("%s message max_value must be positive, got %d", m.Type, *m.MaxValue)
		}
	case KindText:
		if m.Text == "" {
			return fmt.Errorf("text message requires a non-empty text field")
		}
	}

	return nil
}

// Encode serializes the message to its wire form, without the frame
// delimiter.
func Encode(m *Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

// Decode parses one frame's bytes into a Message and validates it.
func Decode(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	return &m, nil
}

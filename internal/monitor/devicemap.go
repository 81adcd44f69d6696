package monitor

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeviceMapping rewrites one device name: any node name containing
// Pattern as a substring displays as Name.
type DeviceMapping struct {
	Pattern string `yaml:"pattern"`
	Name    string `yaml:"name"`
}

// DeviceMap translates raw audio node names into human-readable display
// names. A nil map is valid and resolves every name to itself.
type DeviceMap struct {
	Mappings []DeviceMapping `yaml:"mappings"`
}

// LoadDeviceMap reads a YAML mapping file:
//
//	mappings:
//	  - pattern: "alsa_output.pci"
//	    name: "Built-in Audio"
func LoadDeviceMap(path string) (*DeviceMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device map: %w", err)
	}

	var m DeviceMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse device map: %w", err)
	}

	for i, mapping := range m.Mappings {
		if mapping.Pattern == "" || mapping.Name == "" {
			return nil, fmt.Errorf("device map entry %d: pattern and name must both be set", i)
		}
	}
	return &m, nil
}

// Resolve returns the display name for a raw device name. The first
// mapping whose pattern is a substring of the name wins; unmatched names
// pass through unchanged.
func (m *DeviceMap) Resolve(deviceName string) string {
	if m == nil {
		return deviceName
	}
	for _, mapping := range m.Mappings {
		if strings.Contains(deviceName, mapping.Pattern) {
			return mapping.Name
		}
	}
	return deviceName
}

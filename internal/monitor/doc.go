// Package monitor holds the producer-side helpers shared by system
// monitors that feed the OSD: device-name mapping, event identifiers and
// the self-filter ring that keeps a producer from reacting to changes it
// caused itself.
package monitor

// Package dbus implements the org.wayland.Osd session-bus service, the
// message-oriented alternative to the raw pipe. Both ingresses carry the
// same JSON message schema.
package dbus

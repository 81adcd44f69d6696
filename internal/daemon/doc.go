// Package daemon contains the presenter-side message pipeline: the poll
// loop that drains the pipe without blocking the GTK main loop, and the
// debounced show/auto-hide state machine that owns the visible surface.
//
// Everything in this package runs on the GTK main loop. The only way in
// from another OS thread is glib.IdleAdd, which the D-Bus ingress uses.
package daemon

package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// osdCSS styles the overlay surface. Widget classes mirror the widget
// hierarchy in Surface: osd-overlay is the outer box, osd-device and
// osd-text are the labels.
const osdCSS = `
window.osd-window {
    background-color: rgba(0, 0, 0, 0.8);
    border-radius: 12px;
}

.osd-overlay {
    margin: 20px;
    padding: 10px;
}

.osd-overlay progressbar {
    min-height: 10px;
}

.osd-overlay progressbar trough {
    min-height: 10px;
    background-color: rgba(100, 100, 100, 0.7);
    border-radius: 5px;
}

.osd-overlay progressbar progress {
    min-height: 10px;
    background-color: #729fcf;
    border-radius: 5px;
}

.osd-overlay progressbar.muted progress {
    background-color: rgba(160, 160, 160, 0.9);
}

.osd-overlay label {
    color: white;
    font-size: 16px;
}

.osd-overlay label.osd-device {
    font-size: 12px;
    color: rgba(255, 255, 255, 0.7);
}
`

// applyCSS installs the OSD stylesheet on the default display. It must be
// called after GTK is initialized, before the first surface renders.
func applyCSS(logger *slog.Logger) {
	display := gdk.DisplayGetDefault()
	if display == nil {
		logger.Warn("no display available, cannot apply stylesheet")
		return
	}

	provider := gtk.NewCSSProvider()
	provider.LoadFromString(osdCSS)
	gtk.StyleContextAddProviderForDisplay(
		display,
		provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
}

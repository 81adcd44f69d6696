// Package display renders the OSD as a GTK4 layer-shell surface.
package display

import (
	"log/slog"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/wayosd/internal/config"
	"github.com/jmylchreest/wayosd/internal/protocol"
)

// Surface is the on-screen OSD window: a layer-shell overlay holding a
// progress bar for volume and brightness and a label for text messages.
// It implements the daemon's Surface interface.
//
// All methods must be called from the GTK main loop.
type Surface struct {
	window *gtk.Window
	config config.DisplayConfig
	logger *slog.Logger

	box         *gtk.Box
	progressBar *gtk.ProgressBar
	textLbl     *gtk.Label
	deviceLbl   *gtk.Label

	muted bool
}

// NewSurface creates the OSD window. The window stays hidden until the
// first message arrives.
func NewSurface(app *gtk.Application, cfg config.DisplayConfig, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Surface{
		config: cfg,
		logger: logger,
	}

	s.window = gtk.NewWindow()
	s.window.SetApplication(app)
	s.window.SetDecorated(false)
	s.window.SetResizable(false)
	s.window.AddCSSClass("osd-window")
	s.window.SetDefaultSize(cfg.Width, -1)

	layershell.InitForWindow(s.window)
	layershell.SetLayer(s.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(s.window, 0)
	layershell.SetKeyboardMode(s.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(s.window, "wayosd")

	s.buildUI()
	s.updateAnchorPosition()
	applyCSS(logger)

	s.window.SetVisible(false)
	return s
}

func (s *Surface) buildUI() {
	s.box = gtk.NewBox(gtk.OrientationVertical, 10)
	s.box.AddCSSClass("osd-overlay")

	s.progressBar = gtk.NewProgressBar()
	s.progressBar.SetVisible(false)

	s.textLbl = gtk.NewLabel("")
	s.textLbl.AddCSSClass("osd-text")
	s.textLbl.SetWrap(true)
	s.textLbl.SetVisible(false)

	s.deviceLbl = gtk.NewLabel("")
	s.deviceLbl.AddCSSClass("osd-device")
	s.deviceLbl.SetEllipsize(3) // PANGO_ELLIPSIZE_END
	s.deviceLbl.SetVisible(false)

	s.box.Append(s.progressBar)
	s.box.Append(s.textLbl)
	s.box.Append(s.deviceLbl)
	s.window.SetChild(s.box)
}

// ShowProgress renders a volume or brightness level and presents the
// window.
func (s *Surface) ShowProgress(kind protocol.Kind, value, maxValue int, muted bool, deviceName string) {
	fraction := 0.0
	if maxValue > 0 {
		fraction = float64(value) / float64(maxValue)
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s.progressBar.SetFraction(fraction)

	if muted != s.muted {
		if muted {
			s.progressBar.AddCSSClass("muted")
		} else {
			s.progressBar.RemoveCSSClass("muted")
		}
		s.muted = muted
	}

	switch {
	case deviceName != "" && muted:
		s.deviceLbl.SetText(deviceName + " (muted)")
		s.deviceLbl.SetVisible(true)
	case deviceName != "":
		s.deviceLbl.SetText(deviceName)
		s.deviceLbl.SetVisible(true)
	case muted && kind == protocol.KindVolume:
		s.deviceLbl.SetText("Muted")
		s.deviceLbl.SetVisible(true)
	default:
		s.deviceLbl.SetVisible(false)
	}

	s.progressBar.SetVisible(true)
	s.textLbl.SetVisible(false)
	s.window.SetVisible(true)
}

// ShowText renders a plain text message and presents the window.
func (s *Surface) ShowText(text string) {
	s.textLbl.SetText(text)
	s.textLbl.SetVisible(true)
	s.progressBar.SetVisible(false)
	s.deviceLbl.SetVisible(false)
	s.window.SetVisible(true)
}

// Hide withdraws the window. Widget contents are left as-is; the next
// Show call overwrites them.
func (s *Surface) Hide() {
	s.window.SetVisible(false)
}

// UpdateConfig applies a new display configuration, used by config
// hot-reload. Takes effect immediately, including for a visible surface.
func (s *Surface) UpdateConfig(cfg config.DisplayConfig) {
	s.config = cfg
	s.window.SetDefaultSize(cfg.Width, -1)
	s.updateAnchorPosition()
	s.logger.Debug("display config applied",
		"position", string(cfg.Position), "width", cfg.Width, "margin", cfg.Margin)
}

// updateAnchorPosition sets the layer-shell anchors and margins from the
// configured position. Center anchors no edge, which the compositor
// renders centered on both axes.
func (s *Surface) updateAnchorPosition() {
	margin := s.config.Margin

	layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(s.window, layershell.LayerShellEdgeRight, false)

	switch s.config.Position {
	case config.PositionTop:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, margin)

	case config.PositionBottom:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, margin)

	case config.PositionTopLeft:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, margin)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeLeft, margin)

	case config.PositionTopRight:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeTop, margin)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeRight, margin)

	case config.PositionBottomLeft:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, margin)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeLeft, margin)

	case config.PositionBottomRight:
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(s.window, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeBottom, margin)
		layershell.SetMargin(s.window, layershell.LayerShellEdgeRight, margin)

	case config.PositionCenter:
		// No anchors: centered on both axes.
	}
}

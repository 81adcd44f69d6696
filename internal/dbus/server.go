package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/wayosd/internal/protocol"
)

const (
	// Interface is the OSD service interface name.
	Interface = "org.wayland.Osd"
	// Path is the OSD object path.
	Path = "/org/wayland/Osd"
	// BusName is the well-known bus name to claim.
	BusName = "org.wayland.Osd"
)

// MessageHandler receives each valid message arriving over the bus. It is
// called on a godbus dispatch goroutine; implementations must hand the
// message to the GTK main loop themselves.
type MessageHandler func(*protocol.Message)

// Server exposes ShowMessage on the session bus.
type Server struct {
	conn   *dbus.Conn
	logger *slog.Logger

	handler MessageHandler

	mu      sync.Mutex
	running bool
}

// NewServer creates a Server. Call SetMessageHandler before Start.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger}
}

// SetMessageHandler sets the handler for incoming messages.
func (s *Server) SetMessageHandler(handler MessageHandler) {
	s.handler = handler
}

// Start connects to the session bus, exports the OSD object and claims the
// well-known name.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name: Interface,
				Methods: []introspect.Method{
					{
						Name: "ShowMessage",
						Args: []introspect.Arg{
							{Name: "message", Type: "s", Direction: "in"},
						},
					},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.running = true
	s.logger.Info("D-Bus OSD service started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus OSD service stopped")
	return nil
}

// ShowMessage accepts one JSON-serialized OSD message.
// D-Bus method: ShowMessage(s) -> nothing
func (s *Server) ShowMessage(message string) *dbus.Error {
	msg, err := protocol.Decode([]byte(message))
	if err != nil {
		s.logger.Debug("rejected ShowMessage payload", "error", err)
		return dbus.MakeFailedError(fmt.Errorf("invalid message: %w", err))
	}

	s.logger.Debug("ShowMessage called", "kind", string(msg.Type))

	if s.handler != nil {
		s.handler(msg)
	}
	return nil
}

// NameHasOwner reports whether the OSD service currently owns its bus
// name, using the caller's session bus connection. Used by the CLI status
// probe.
func NameHasOwner() (bool, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var owned bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&owned)
	if err != nil {
		return false, fmt.Errorf("failed to query bus name owner: %w", err)
	}
	return owned, nil
}

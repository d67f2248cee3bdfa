package control

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"relicpanel/internal/app"
)

// statusMessage is the only frame type sent on /panel/events.
type statusMessage struct {
	Type   string     `json:"type"`
	Status app.Status `json:"status"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// local demo tool, any origin may watch
		return true
	},
}

// events streams the panel status. A frame is sent on connect and after
// every change; bursts of changes collapse into one frame carrying the
// latest state.
func (s *Server) events(c echo.Context) error {
	conn, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("ws upgrade failed")
		return nil
	}
	defer func() { _ = conn.Close() }()

	dirty := make(chan struct{}, 1)
	unsubscribe := s.panel.Subscribe(func(app.Status) {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	// the client never sends anything we act on; reading keeps control
	// frames flowing and tells us when it goes away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := s.writeStatus(conn); err != nil {
		return nil
	}
	for {
		select {
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		case <-dirty:
			if err := s.writeStatus(conn); err != nil {
				s.log.Debug().Err(err).Msg("ws write failed")
				return nil
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) writeStatus(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(statusMessage{Type: "status", Status: s.panel.Status()})
}

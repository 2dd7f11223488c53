package poulailler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"poulailler/internal/stats"
)

// applyCommand runs one websocket text command against the view.
func (s *Server) applyCommand(cmd string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(cmd), ":")
	switch name {
	case "get_view":
		s.BroadcastView()
	case "granularity":
		g, err := stats.ParseGranularity(arg)
		if err != nil {
			return err
		}
		s.View.SelectGranularity(g)
	case "year":
		return s.View.SelectYear(arg)
	case "toggle_cumulative":
		s.View.ToggleCumulative()
	case "toggle_chart":
		s.View.ToggleChartType()
	case "refresh":
		s.View.Refresh()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// @Summary WebSocket connection endpoint
// @Description Pushes the view on every change. Accepts get_view, granularity:<g>, year:<yyyy>, toggle_cumulative, toggle_chart and refresh
// @Tags websocket
// @Accept json
// @Produce json
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {string} string "Bad Request"
// @Router /connect [get]
func (s *Server) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("Client connected", "addr", r.RemoteAddr)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err)
		return
	}

	s.View.AddClient(conn)

	defer func() {
		conn.Close()
		s.View.RemoveClient(conn)
	}()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Info("Client disconnected", "addr", r.RemoteAddr, "err", err)
			return
		}
		log.Debug("Received command", "cmd", string(p))
		if err := s.applyCommand(string(p)); err != nil {
			log.Warn("Command rejected", "cmd", string(p), "err", err)
		}
	}
}

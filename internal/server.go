package poulailler

import (
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"poulailler/internal/config"
	"poulailler/internal/statsapi"
)

// Server encapsulates all the state and handlers for the dashboard
type Server struct {
	View *View
	// StaticFS holds the page assets, e.g. the loading image
	StaticFS fs.FS
	upgrader websocket.Upgrader
}

// NewServer creates a server backed by the stats endpoint from cfg
func NewServer(cfg *config.Config) (*Server, error) {
	client, err := statsapi.NewClient(cfg.StatsURL, cfg.FetchTimeout)
	if err != nil {
		return nil, err
	}
	log.Info("Using stats endpoint", "url", cfg.StatsURL)

	view := NewView(client, cfg.DefaultGranularity, cfg.FetchTimeout, cfg.DisplayLocation)
	return NewServerWithView(view, os.DirFS(cfg.StaticDir)), nil
}

// NewServerWithView wires a server around an existing view and starts it
func NewServerWithView(view *View, staticFS fs.FS) *Server {
	server := &Server{
		View:     view,
		StaticFS: staticFS,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	view.AddHook(func(v *View) {
		server.BroadcastView()
	})
	view.Start()

	return server
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes configures all HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/api/view", s.ViewHandler)
	mux.HandleFunc("/api/view/granularity", s.GranularityHandler)
	mux.HandleFunc("/api/view/year", s.YearHandler)
	mux.HandleFunc("/api/view/cumulative", s.CumulativeHandler)
	mux.HandleFunc("/api/view/chart-type", s.ChartTypeHandler)
	mux.HandleFunc("/api/view/refresh", s.RefreshHandler)
	mux.HandleFunc("/chart", s.ChartHandler)
	mux.HandleFunc("/connect", s.WebsocketHandler)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(s.StaticFS)))
	mux.HandleFunc("/{$}", s.DashboardHandler)

	return corsMiddleware(mux)
}

type viewMessage struct {
	Event string   `json:"event"`
	View  Snapshot `json:"view"`
}

// BroadcastView sends the current view to all connected clients. The
// snapshot is taken inside the broadcast so a slower caller cannot overwrite
// a newer view with an older one.
func (s *Server) BroadcastView() {
	s.View.BroadcastFunc(func() any {
		return viewMessage{
			Event: "view",
			View:  s.View.Snapshot(),
		}
	})
}

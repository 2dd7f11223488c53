package poulailler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"poulailler/internal/stats"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error encoding response", "err", err)
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// controlStatus maps a rejected control to an HTTP status
func controlStatus(err error) int {
	switch {
	case errors.Is(err, stats.ErrUnknownGranularity):
		return http.StatusBadRequest
	case errors.Is(err, ErrLoading), errors.Is(err, ErrYearFilterDisabled), errors.Is(err, ErrUnknownYear):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce plain
// @Success 200 {string} string "Healthy"
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// @Summary Get the dashboard view
// @Description Current toggles, loading state, available years and the aggregated chart
// @Tags view
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 405 {string} string "Method not allowed"
// @Router /api/view [get]
func (s *Server) ViewHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, s.View.Snapshot())
}

// @Summary Select the time granularity
// @Description Switching granularity refetches the stats; choosing year also clears the year filter
// @Tags view
// @Accept x-www-form-urlencoded
// @Produce json
// @Param granularity formData string true "day, week, month or year"
// @Success 200 {object} Snapshot
// @Failure 400 {string} string "Bad request"
// @Failure 405 {string} string "Method not allowed"
// @Router /api/view/granularity [post]
func (s *Server) GranularityHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	g, err := stats.ParseGranularity(r.FormValue("granularity"))
	if err != nil {
		http.Error(w, err.Error(), controlStatus(err))
		return
	}
	log.Info("Select granularity", "granularity", g)

	s.View.SelectGranularity(g)
	writeJSON(w, s.View.Snapshot())
}

// @Summary Filter on one year
// @Description An empty year shows all years. Only available below yearly granularity, once stats are loaded
// @Tags view
// @Accept x-www-form-urlencoded
// @Produce json
// @Param year formData string false "Year to show, e.g. 2023"
// @Success 200 {object} Snapshot
// @Failure 400 {string} string "Bad request"
// @Failure 405 {string} string "Method not allowed"
// @Failure 409 {string} string "Year filter not available"
// @Router /api/view/year [post]
func (s *Server) YearHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	year := r.FormValue("year")
	if err := s.View.SelectYear(year); err != nil {
		log.Warn("Year filter rejected", "year", year, "err", err)
		http.Error(w, err.Error(), controlStatus(err))
		return
	}
	writeJSON(w, s.View.Snapshot())
}

// @Summary Toggle the cumulative view
// @Tags view
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 405 {string} string "Method not allowed"
// @Router /api/view/cumulative [post]
func (s *Server) CumulativeHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s.View.ToggleCumulative()
	writeJSON(w, s.View.Snapshot())
}

// @Summary Toggle between bar and line chart
// @Tags view
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 405 {string} string "Method not allowed"
// @Router /api/view/chart-type [post]
func (s *Server) ChartTypeHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s.View.ToggleChartType()
	writeJSON(w, s.View.Snapshot())
}

// @Summary Refetch the stats
// @Description Refetches the current granularity, e.g. after a failed fetch
// @Tags view
// @Produce json
// @Success 200 {object} Snapshot
// @Failure 405 {string} string "Method not allowed"
// @Router /api/view/refresh [post]
func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	s.View.Refresh()
	writeJSON(w, s.View.Snapshot())
}

// @Summary Render the chart
// @Description Standalone HTML page with the bar or line chart for the current view
// @Tags chart
// @Produce html
// @Success 200 {string} string "Chart page"
// @Failure 503 {string} string "Stats still loading"
// @Router /chart [get]
func (s *Server) ChartHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	snap := s.View.Snapshot()
	if snap.Chart == nil {
		http.Error(w, ErrLoading.Error(), http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := RenderChart(&buf, *snap.Chart, snap.ViewState); err != nil {
		log.Error("Failed to render chart", "err", err)
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

package poulailler

import (
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"

	"poulailler/internal/stats"
)

type granularityButton struct {
	Granularity stats.Granularity
	Label       string
}

var granularityButtons = []granularityButton{
	{stats.Day, "Jours"},
	{stats.Week, "Semaines"},
	{stats.Month, "Mois"},
	{stats.Year, "Années"},
}

// served from the static dir
const loadingImage = "tenor.gif"

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Le Poulailler</title>
<style>button.active { font-weight: bold; }</style>
</head>
<body>
{{if .Snap.Loading}}
<div>Chargement . . . </div>
<img src="/static/{{.LoadingImage}}" alt="GIF de poulet sur une broche" style="max-width: 5em;">
{{with .Snap.Error}}<div class="error">{{.}}</div>
<button onclick="send('/api/view/refresh')">Réessayer</button>{{end}}
{{else}}
<h4>Le Poulailler</h4>
{{with .Snap.Year}}<h4>{{.}}</h4>{{end}}
<div>
<button onclick="send('/api/view/chart-type')">{{if .Snap.Line}}Barres{{else}}Courbe{{end}}</button>
<button onclick="send('/api/view/cumulative')">{{if .Snap.Cumulative}}Stats{{else}}Cumul{{end}}</button>
</div>
<iframe src="/chart" style="width: 100%; height: 540px; border: 0;"></iframe>
<div>
{{range .Granularities}}<button class="{{if eq $.Snap.Granularity .Granularity}}active{{end}}" onclick="send('/api/view/granularity', 'granularity={{.Granularity}}')">{{.Label}}</button>
{{end}}
</div>
<div>
{{if .Snap.YearControls}}
{{range .Snap.Years}}<button class="{{if eq $.Snap.Year .}}active{{end}}" onclick="send('/api/view/year', 'year={{.}}')">{{.}}</button>
{{end}}
<button class="{{if not .Snap.Year}}active{{end}}" onclick="send('/api/view/year', 'year=')">Tout</button>
{{end}}
</div>
{{end}}
<script>
function send(path, body) {
  fetch(path, {method: 'POST', headers: {'Content-Type': 'application/x-www-form-urlencoded'}, body: body || ''});
}
const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/connect');
ws.onmessage = () => location.reload();
</script>
</body>
</html>
`))

// DashboardHandler serves the dashboard page. It reloads itself whenever the
// view changes.
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	data := struct {
		Snap          Snapshot
		Granularities []granularityButton
		LoadingImage  string
	}{
		Snap:          s.View.Snapshot(),
		Granularities: granularityButtons,
		LoadingImage:  loadingImage,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, data); err != nil {
		log.Error("Failed to render dashboard", "err", err)
	}
}

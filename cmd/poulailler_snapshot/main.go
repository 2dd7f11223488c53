package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	plot "github.com/chriskim06/drawille-go"

	"poulailler/internal/config"
	"poulailler/internal/stats"
	"poulailler/internal/statsapi"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E44644"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7A60B"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E44644"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func main() {
	granularity := flag.String("granularity", "", "day, week, month or year (default from DEFAULT_GRANULARITY)")
	year := flag.String("year", "", "Only show this year (ignored for yearly granularity)")
	cumulative := flag.Bool("cumulative", false, "Show the running total of new coworkers")
	width := flag.Int("width", 80, "Chart width in cells")
	height := flag.Int("height", 20, "Chart height in cells")
	envFile := flag.String("env", config.EnvFile, "Path to the .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	log.SetLevel(cfg.LogLevel)

	g := cfg.DefaultGranularity
	if *granularity != "" {
		g, err = stats.ParseGranularity(*granularity)
		if err != nil {
			log.Fatal("Invalid granularity", "error", err)
		}
	}
	if g == stats.Year {
		*year = ""
	}

	client, err := statsapi.NewClient(cfg.StatsURL, cfg.FetchTimeout)
	if err != nil {
		log.Fatal("Failed to create stats client", "error", err)
	}

	points, err := client.Fetch(context.Background(), g)
	if err != nil {
		log.Fatal("Failed to fetch stats", "granularity", g, "error", err)
	}

	points = stats.Localize(points, cfg.DisplayLocation)
	chart := stats.Aggregate(points, *year, g, *cumulative)
	fmt.Println(render(chart, *year, *width, *height))
}

func seriesValues(ds stats.Dataset) []float64 {
	values := make([]float64, len(ds.Data))
	for i, v := range ds.Data {
		if v != nil {
			values[i] = float64(*v)
		}
	}
	return values
}

func render(chart stats.Chart, year string, width, height int) string {
	var b strings.Builder

	title := "Le Poulailler"
	if year != "" {
		title += " " + year
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(chart.Labels) == 0 {
		b.WriteString(mutedStyle.Render("Pas de données"))
		return b.String()
	}

	canvas := plot.NewCanvas(width, height)
	canvas.NumDataPoints = len(chart.Labels)
	canvas.ShowAxis = false
	canvas.LineColors = []plot.Color{plot.Red, plot.LightGray}
	canvas.Fill([][]float64{seriesValues(chart.Raw()), seriesValues(chart.Count())})
	b.WriteString(borderStyle.Render(canvas.String()))
	b.WriteString("\n")

	first, last := chart.Labels[0], chart.Labels[len(chart.Labels)-1]
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s → %s", first, last)))
	b.WriteString("\n")

	raw, count := chart.Raw(), chart.Count()
	b.WriteString(newStyle.Render(fmt.Sprintf("■ %s: %s", raw.Label, lastValue(raw))))
	b.WriteString("\n")
	b.WriteString(countStyle.Render(fmt.Sprintf("■ %s: %s", count.Label, lastValue(count))))
	return b.String()
}

func lastValue(ds stats.Dataset) string {
	if len(ds.Data) == 0 || ds.Data[len(ds.Data)-1] == nil {
		return "-"
	}
	return fmt.Sprint(*ds.Data[len(ds.Data)-1])
}

package poulailler

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"poulailler/internal/stats"
)

const dashboardTitle = "Le Poulailler"

// echarts skips "-" entries, which is how gaps are drawn.
const gapValue = "-"

func chartValue(v *int) interface{} {
	if v == nil {
		return gapValue
	}
	return *v
}

func barData(ds stats.Dataset) []opts.BarData {
	items := make([]opts.BarData, 0, len(ds.Data))
	for _, v := range ds.Data {
		items = append(items, opts.BarData{Value: chartValue(v)})
	}
	return items
}

func lineData(ds stats.Dataset) []opts.LineData {
	items := make([]opts.LineData, 0, len(ds.Data))
	for _, v := range ds.Data {
		items = append(items, opts.LineData{Value: chartValue(v)})
	}
	return items
}

func titleOpts(year string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:    dashboardTitle,
		Subtitle: year,
	})
}

// RenderChart writes a standalone HTML page with the chart for the given state.
// The value axis starts at zero, which is the echarts default.
func RenderChart(w io.Writer, chart stats.Chart, state ViewState) error {
	if state.Line {
		line := charts.NewLine()
		line.SetGlobalOptions(titleOpts(state.Year))
		line.SetXAxis(chart.Labels)
		for _, ds := range chart.Datasets {
			line.AddSeries(ds.Label, lineData(ds),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BackgroundColor}))
		}
		return line.Render(w)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(titleOpts(state.Year))
	bar.SetXAxis(chart.Labels)
	for _, ds := range chart.Datasets {
		bar.AddSeries(ds.Label, barData(ds),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BackgroundColor}))
	}
	return bar.Render(w)
}

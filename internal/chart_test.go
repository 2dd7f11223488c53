package poulailler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poulailler/internal/stats"
)

func TestRenderChart(t *testing.T) {
	chart := stats.Aggregate(monthlyPoints, "", stats.Month, false)

	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, chart, ViewState{Granularity: stats.Month}))
	page := buf.String()
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, `"type":"bar"`)
	assert.Contains(t, page, "01/2023")
	assert.Contains(t, page, dashboardTitle)

	buf.Reset()
	require.NoError(t, RenderChart(&buf, chart, ViewState{Granularity: stats.Month, Line: true}))
	assert.Contains(t, buf.String(), `"type":"line"`)
}

func TestChartValue(t *testing.T) {
	assert.Equal(t, gapValue, chartValue(nil))
	n := 4
	assert.Equal(t, 4, chartValue(&n))
}

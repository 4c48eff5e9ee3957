package outwriter_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/outwriter"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, output schema.OutputMode, file string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Geometry:     schema.DefaultGeometry,
		Interval:     5 * time.Second,
		Precision:    2,
		Output:       output,
		OutputFile:   file,
		Width:        160,
		Series:       schema.BothSeries,
		Format:       schema.SVGFormat,
		CacheBackend: schema.NoneBackend,
		Registry:     core.DefaultRegistry(),
	}
}

func allCharts(t *testing.T) []schema.Chart {
	t.Helper()
	reg := core.DefaultRegistry()
	var charts []schema.Chart
	for _, id := range reg.ListIDs() {
		c, err := core.ChartFor(reg, id, schema.DefaultGeometry)
		require.NoError(t, err)
		charts = append(charts, c)
	}
	return charts
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrintMetricsTable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "metrics.txt")
	cfg := testConfig(t, schema.TextOut, file)

	require.NoError(t, outwriter.PrintMetrics(core.BuiltinDatasets(), "accuracy", cfg))

	out := readFile(t, file)
	assert.Contains(t, out, "* accuracy")
	assert.Contains(t, out, "Hours Saved Per Week")
	assert.Contains(t, out, "97.00")
	assert.Contains(t, out, "Showing 3 metrics. Cycle interval: 5s. Cache backend: none")
}

func TestPrintMetricsCSV(t *testing.T) {
	file := filepath.Join(t.TempDir(), "metrics.csv")
	cfg := testConfig(t, schema.CSVOut, file)

	require.NoError(t, outwriter.PrintMetrics(core.BuiltinDatasets(), "", cfg))

	records, err := csv.NewReader(strings.NewReader(readFile(t, file))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"order", "id", "title", "subtitle", "unit", "points", "final_baseline", "final_current", "trend"}, records[0])
	assert.Equal(t, []string{"1", "time", "Hours Saved Per Week", "Before vs After Implementation", "hrs", "6", "2.00", "15.00", "Up"}, records[1])
}

func TestPrintMetricsJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "metrics.json")
	cfg := testConfig(t, schema.JSONOut, file)

	require.NoError(t, outwriter.PrintMetrics(core.BuiltinDatasets(), "", cfg))

	var summaries []schema.MetricSummary
	require.NoError(t, json.Unmarshal([]byte(readFile(t, file)), &summaries))
	require.Len(t, summaries, 3)
	assert.Contains(t, readFile(t, file), `"order": 3`)
	assert.NotContains(t, readFile(t, file), "rank")
	assert.Equal(t, "adoption", summaries[2].ID)
	assert.Equal(t, 58.0, summaries[2].FinalCurrent)
}

func TestPrintMetricsParquet(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut, filepath.Join(t.TempDir(), "metrics.parquet"))
	assert.Error(t, outwriter.PrintMetrics(core.BuiltinDatasets(), "", cfg))
}

func TestPrintPathsText(t *testing.T) {
	file := filepath.Join(t.TempDir(), "paths.txt")
	cfg := testConfig(t, schema.TextOut, file)
	charts := allCharts(t)

	require.NoError(t, outwriter.PrintPaths(charts[:1], cfg))

	out := readFile(t, file)
	assert.Contains(t, out, "📈 Paths for 500x280 viewport (padding 40)")
	assert.Contains(t, out, "time / baseline (Manual Process)")
	assert.Contains(t, out, "time / current (With AI System)")
	assert.Contains(t, out, `d="`+charts[0].CurrentPath+`"`)
	assert.Contains(t, out, `d="`+charts[0].BaselinePath+`"`)
}

func TestPrintPathsCSV(t *testing.T) {
	tests := []struct {
		name   string
		series schema.Series
		rows   int
	}{
		{"both", schema.BothSeries, 6},
		{"baseline", schema.BaselineSeries, 3},
		{"current", schema.CurrentSeries, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "paths.csv")
			cfg := testConfig(t, schema.CSVOut, file)
			cfg.Series = tt.series

			require.NoError(t, outwriter.PrintPaths(allCharts(t), cfg))

			records, err := csv.NewReader(strings.NewReader(readFile(t, file))).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, tt.rows+1)
			assert.Equal(t, []string{"metric_id", "series", "label", "path"}, records[0])
			for _, rec := range records[1:] {
				if tt.series != schema.BothSeries {
					assert.Equal(t, string(tt.series), rec[1])
				}
				assert.True(t, strings.HasPrefix(rec[3], "M "))
			}
		})
	}
}

func TestPrintPathsJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "paths.json")
	cfg := testConfig(t, schema.JSONOut, file)
	cfg.Series = schema.CurrentSeries
	charts := allCharts(t)

	require.NoError(t, outwriter.PrintPaths(charts, cfg))

	var doc struct {
		Geometry schema.Geometry `json:"geometry"`
		Paths    []struct {
			MetricID string                  `json:"metric_id"`
			Series   string                  `json:"series"`
			Path     string                  `json:"path"`
			Points   []schema.ProjectedPoint `json:"points"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, file)), &doc))
	assert.Equal(t, schema.DefaultGeometry, doc.Geometry)
	require.Len(t, doc.Paths, 3)
	assert.Equal(t, "accuracy", doc.Paths[1].MetricID)
	assert.Equal(t, charts[1].CurrentPath, doc.Paths[1].Path)
	assert.Len(t, doc.Paths[1].Points, 6)
}

func TestPrintPathsParquet(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut, "")
	assert.Error(t, outwriter.PrintPaths(allCharts(t), cfg), "parquet needs an output file")

	file := filepath.Join(t.TempDir(), "paths.parquet")
	cfg.OutputFile = file
	require.NoError(t, outwriter.PrintPaths(allCharts(t), cfg))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteChart(t *testing.T) {
	charts := allCharts(t)
	w := outwriter.NewOutWriter()

	svgFile := filepath.Join(t.TempDir(), "chart.svg")
	cfg := testConfig(t, schema.TextOut, svgFile)
	require.NoError(t, w.WriteChart(charts[0], cfg))
	assert.Contains(t, readFile(t, svgFile), `d="`+charts[0].CurrentPath+`"`)

	pngFile := filepath.Join(t.TempDir(), "chart.png")
	cfg = testConfig(t, schema.TextOut, pngFile)
	cfg.Format = schema.PNGFormat
	require.NoError(t, w.WriteChart(charts[0], cfg))
	assert.True(t, bytes.HasPrefix([]byte(readFile(t, pngFile)), []byte("\x89PNG")))
}

func TestTableWidths(t *testing.T) {
	cfg := &contract.Config{Width: 200}
	assert.Equal(t, 200, outwriter.GetTerminalWidth(cfg))
	assert.Equal(t, 160, outwriter.GetMaxTablePathWidth(cfg))
	assert.Equal(t, 60, outwriter.GetMaxTableTextWidth(cfg))

	cfg.Width = 50
	assert.Equal(t, 20, outwriter.GetMaxTablePathWidth(cfg))
	assert.Equal(t, 15, outwriter.GetMaxTableTextWidth(cfg))
}

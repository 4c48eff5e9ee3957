//go:build basic

package integration

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDatasets = `datasets:
  - id: time
    title: Hours Saved Per Week
    unit: hrs
    points:
      - {index: 1, baseline: 2, current: 2}
      - {index: 2, baseline: 2, current: 5}
      - {index: 3, baseline: 2, current: 8}
  - id: flat
    title: Nothing Yet
    unit: users
    points:
      - {index: 1, baseline: 0, current: 0}
      - {index: 2, baseline: 0, current: 0}
`

type pathsOutput struct {
	Geometry struct {
		Width   float64 `json:"width"`
		Height  float64 `json:"height"`
		Padding float64 `json:"padding"`
	} `json:"geometry"`
	Paths []struct {
		MetricID string `json:"metric_id"`
		Series   string `json:"series"`
		Path     string `json:"path"`
		Points   []struct {
			Index int     `json:"index"`
			X     float64 `json:"x"`
			Y     float64 `json:"y"`
			Value float64 `json:"value"`
		} `json:"points"`
	} `json:"paths"`
}

// isolate points the binary at a throwaway home with caching disabled.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("METRICSGRAPH_CACHE_BACKEND", "none")
	return dir
}

func readPaths(t *testing.T, file string) pathsOutput {
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var out pathsOutput
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

// TestPathsVerification checks the generated paths against hand-computed coordinates.
func TestPathsVerification(t *testing.T) {
	dir := isolate(t)
	datasets := filepath.Join(dir, "datasets.yaml")
	require.NoError(t, os.WriteFile(datasets, []byte(scenarioDatasets), 0o644))
	outFile := filepath.Join(dir, "paths.json")

	_, err := runCommand(t, "paths", "--datasets", datasets, "--output", "json", "--output-file", outFile)
	require.NoError(t, err)

	out := readPaths(t, outFile)
	assert.Equal(t, 500.0, out.Geometry.Width)
	assert.Equal(t, 280.0, out.Geometry.Height)

	got := make(map[string]string)
	for _, p := range out.Paths {
		got[p.MetricID+"/"+p.Series] = p.Path
	}
	assert.Equal(t, map[string]string{
		"time/baseline": "M 40 190 L 250 190 L 460 190",
		"time/current":  "M 40 190 L 250 115 L 460 40",
		"flat/baseline": "M 40 240 L 460 240",
		"flat/current":  "M 40 240 L 460 240",
	}, got)
}

// TestPathsProjection recomputes every built-in point from the projection formula.
func TestPathsProjection(t *testing.T) {
	dir := isolate(t)
	outFile := filepath.Join(dir, "paths.json")

	_, err := runCommand(t, "paths", "--width", "640", "--height", "320", "--padding", "20",
		"--output", "json", "--output-file", outFile)
	require.NoError(t, err)

	out := readPaths(t, outFile)
	require.Len(t, out.Paths, 6)

	maxByMetric := make(map[string]float64)
	for _, p := range out.Paths {
		for _, pt := range p.Points {
			maxByMetric[p.MetricID] = max(maxByMetric[p.MetricID], pt.Value)
		}
	}

	graphWidth, graphHeight := 640.0-2*20, 320.0-2*20
	for _, p := range out.Paths {
		t.Run(p.MetricID+"/"+p.Series, func(t *testing.T) {
			maxValue := maxByMetric[p.MetricID]
			last := float64(len(p.Points) - 1)
			for i, pt := range p.Points {
				assert.InDelta(t, 20+float64(i)/last*graphWidth, pt.X, 1e-9)
				wantY := 20 + graphHeight
				if maxValue != 0 {
					wantY -= pt.Value / maxValue * graphHeight
				}
				assert.InDelta(t, wantY, pt.Y, 1e-9)
			}
			assert.True(t, strings.HasPrefix(p.Path, "M 20 "))
			assert.Equal(t, len(p.Points)-1, strings.Count(p.Path, " L "))
		})
	}
}

func TestRenderVerification(t *testing.T) {
	dir := isolate(t)

	t.Run("svg", func(t *testing.T) {
		outFile := filepath.Join(dir, "time.svg")
		_, err := runCommand(t, "render", "time", "--output-file", outFile)
		require.NoError(t, err)

		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		var doc struct {
			XMLName xml.Name
			ViewBox string `xml:"viewBox,attr"`
		}
		require.NoError(t, xml.Unmarshal(data, &doc))
		assert.Equal(t, "svg", doc.XMLName.Local)
		assert.Equal(t, "0 0 500 280", doc.ViewBox)
		assert.Contains(t, string(data), "Hours Saved Per Week")
	})

	t.Run("png", func(t *testing.T) {
		outFile := filepath.Join(dir, "accuracy.png")
		_, err := runCommand(t, "render", "accuracy", "--format", "png", "--output-file", outFile)
		require.NoError(t, err)

		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Positive(t, cfg.Width)
		assert.Positive(t, cfg.Height)
	})

	t.Run("unknown metric", func(t *testing.T) {
		out, err := runCommand(t, "render", "revenue")
		require.Error(t, err)
		assert.Contains(t, out, "revenue")
	})
}

func TestMetricsVerification(t *testing.T) {
	dir := isolate(t)
	outFile := filepath.Join(dir, "metrics.csv")

	_, err := runCommand(t, "metrics", "--output", "csv", "--output-file", outFile)
	require.NoError(t, err)

	f, err := os.Open(outFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, "id", records[0][1])
	assert.Equal(t, []string{"time", "accuracy", "adoption"}, []string{records[1][1], records[2][1], records[3][1]})
}

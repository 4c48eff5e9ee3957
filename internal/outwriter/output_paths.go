package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/parquet"
	"github.com/huangsam/metricsgraph/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// seriesPath is one generated path of one dataset.
type seriesPath struct {
	MetricID string                  `json:"metric_id"`
	Series   schema.Series           `json:"series"`
	Label    string                  `json:"label"`
	Path     string                  `json:"path"`
	Points   []schema.ProjectedPoint `json:"points"`
}

// pathsDocument is the JSON layout of the paths command.
type pathsDocument struct {
	Geometry schema.Geometry `json:"geometry"`
	Paths    []seriesPath    `json:"paths"`
}

// selectPaths flattens charts into the requested series, baseline first.
func selectPaths(charts []schema.Chart, series schema.Series) []seriesPath {
	var out []seriesPath
	for _, c := range charts {
		if series == schema.BothSeries || series == schema.BaselineSeries || series == "" {
			out = append(out, seriesPath{c.MetricID, schema.BaselineSeries, c.BaselineLabel, c.BaselinePath, c.BaselinePoints})
		}
		if series == schema.BothSeries || series == schema.CurrentSeries || series == "" {
			out = append(out, seriesPath{c.MetricID, schema.CurrentSeries, c.CurrentLabel, c.CurrentPath, c.CurrentPoints})
		}
	}
	return out
}

// PrintPaths writes the generated path strings of charts, dispatching based on the output format configured.
func PrintPaths(charts []schema.Chart, cfg *contract.Config) error {
	paths := selectPaths(charts, cfg.Series)
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, pathsDocument{Geometry: cfg.Geometry, Paths: paths})
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePathsCSV(w, paths)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePathsParquet(w, charts, cfg.Series)
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePathsText(w, paths, cfg, fmtFloat)
		}, "Wrote text")
	}
}

// writePathsText prints a point table per path followed by the exact path string.
func writePathsText(w io.Writer, paths []seriesPath, cfg *contract.Config, fmtFloat func(float64) string) error {
	g := cfg.Geometry
	if _, err := fmt.Fprintf(w, "📈 Paths for %sx%s viewport (padding %s)\n\n",
		schema.FormatCoord(g.Width), schema.FormatCoord(g.Height), schema.FormatCoord(g.Padding)); err != nil {
		return err
	}

	for _, p := range paths {
		if _, err := fmt.Fprintf(w, "%s / %s (%s)\n", p.MetricID, p.Series, p.Label); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Label", "X", "Y", "Value"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for _, pt := range p.Points {
			data = append(data, []string{schema.IndexLabel(pt.Index), fmtFloat(pt.X), fmtFloat(pt.Y), fmtFloat(pt.Value)})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, "d=\"%s\"\n\n", p.Path); err != nil {
			return err
		}
	}
	return nil
}

// writePathsCSV writes one row per path with the exact path string.
func writePathsCSV(w io.Writer, paths []seriesPath) error {
	return writeCSVWithHeader(w, []string{"metric_id", "series", "label", "path"}, func(cw *csv.Writer) error {
		for _, p := range paths {
			if err := cw.Write([]string{p.MetricID, string(p.Series), p.Label, p.Path}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writePathsParquet writes one row per projected point.
func writePathsParquet(w io.Writer, charts []schema.Chart, series schema.Series) error {
	var rows []parquet.PathPoint
	for _, c := range charts {
		for _, row := range parquet.ConvertChart(c) {
			if series == schema.BothSeries || series == "" || row.Series == string(series) {
				rows = append(rows, row)
			}
		}
	}
	return parquet.WritePathPoints(w, rows)
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/plot"
	"github.com/huangsam/metricsgraph/internal/svg"
	"github.com/huangsam/metricsgraph/schema"
	"go.uber.org/zap"
)

// errorResponse is the JSON body of every failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

// metricsResponse is the body of GET /api/metrics.
type metricsResponse struct {
	Interval string                 `json:"interval"`
	Initial  string                 `json:"initial"`
	Metrics  []schema.MetricSummary `json:"metrics"`
}

// pathsResponse is the body of GET /api/metrics/{id}/paths.
type pathsResponse struct {
	MetricID     string          `json:"metric_id"`
	Geometry     schema.Geometry `json:"geometry"`
	MaxValue     float64         `json:"max_value"`
	BaselinePath string          `json:"baseline_path,omitempty"`
	CurrentPath  string          `json:"current_path,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var unknown *schema.UnknownMetricError
	var geometry *schema.InvalidGeometryError
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &geometry):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("Cannot encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// geometryFromQuery overrides the configured viewport with the width, height
// and padding query parameters. Only malformed numbers fail here.
func (s *Server) geometryFromQuery(r *http.Request) (schema.Geometry, error) {
	g := s.cfg.Geometry
	q := r.URL.Query()
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"width", &g.Width},
		{"height", &g.Height},
		{"padding", &g.Padding},
	} {
		raw := q.Get(field.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return g, fmt.Errorf("invalid %s %q", field.name, raw)
		}
		*field.dst = v
	}
	return g, nil
}

func (s *Server) handleListMetrics(w http.ResponseWriter, _ *http.Request) {
	initial := s.cfg.InitialMetric
	if ids := s.cfg.Registry.ListIDs(); initial == "" && len(ids) > 0 {
		initial = ids[0]
	}
	s.writeJSON(w, http.StatusOK, metricsResponse{
		Interval: s.cfg.Interval.String(),
		Initial:  initial,
		Metrics:  schema.SummarizeDatasets(s.cfg.Registry.Datasets()),
	})
}

func (s *Server) handleGetMetric(w http.ResponseWriter, r *http.Request) {
	d, err := s.cfg.Registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleGetPaths(w http.ResponseWriter, r *http.Request) {
	g, err := s.geometryFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	series := schema.BothSeries
	if raw := r.URL.Query().Get("series"); raw != "" {
		parsed, ok := schema.ParseSeries(raw)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid series %q", raw))
			return
		}
		series = parsed
	}

	chart, err := core.CachedBuildChart(s.mgr, s.cfg.Registry, r.PathValue("id"), g)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	resp := pathsResponse{MetricID: chart.MetricID, Geometry: chart.Geometry, MaxValue: chart.MaxValue}
	if series != schema.CurrentSeries {
		resp.BaselinePath = chart.BaselinePath
	}
	if series != schema.BaselineSeries {
		resp.CurrentPath = chart.CurrentPath
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleChart serves /charts/{id}.svg and /charts/{id}.png.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	id := strings.TrimSuffix(file, ext)

	var format schema.ChartFormat
	switch ext {
	case ".svg":
		format = schema.SVGFormat
	case ".png":
		format = schema.PNGFormat
	default:
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unsupported chart format %q", ext))
		return
	}

	g, err := s.geometryFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	chart, err := core.CachedBuildChart(s.mgr, s.cfg.Registry, id, g)
	if err != nil {
		status := statusFor(err)
		if format == schema.SVGFormat && status == http.StatusBadRequest {
			s.writePlaceholder(w, g, err)
			return
		}
		s.writeError(w, status, err)
		return
	}

	var buf bytes.Buffer
	if format == schema.PNGFormat {
		err = plot.RenderPNG(&buf, chart)
		w.Header().Set("Content-Type", "image/png")
	} else {
		err = svg.Render(&buf, chart, svg.Options{Animation: s.cfg.Animation})
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	if err != nil {
		w.Header().Del("Content-Type")
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.renders.WithLabelValues(string(format)).Inc()
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// writePlaceholder answers an unplottable SVG request with a neutral image
// so an <img> tag still has something to show.
func (s *Server) writePlaceholder(w http.ResponseWriter, g schema.Geometry, cause error) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusBadRequest)
	if err := svg.Placeholder(w, g.Width, g.Height, "Chart unavailable"); err != nil {
		s.logger.Warn("Cannot render placeholder", zap.Error(err))
	}
	s.logger.Debug("Served placeholder", zap.Error(cause))
}

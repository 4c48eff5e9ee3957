package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/svg"
	"github.com/huangsam/metricsgraph/schema"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Chart.Title }}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #1f2328; }
nav a { margin-right: 1rem; text-decoration: none; color: #57606a; }
nav a.active { color: #0969da; font-weight: bold; border-bottom: 2px solid #0969da; }
figure { margin: 1rem 0; }
</style>
</head>
<body>
<h1 id="title">{{ .Chart.Title }}</h1>
<p id="subtitle">{{ .Chart.Subtitle }}</p>
<nav>{{ range .IDs }}<a href="/?metric={{ . }}" data-metric="{{ . }}"{{ if eq . $.Chart.MetricID }} class="active"{{ end }}>{{ . }}</a>{{ end }}</nav>
<figure id="chart">{{ .SVG }}</figure>
<script>
const source = new EventSource("/api/stream?metric=" + encodeURIComponent({{ .Chart.MetricID }}));
let session = "";
let shown = 0;
for (const a of document.querySelectorAll("nav a")) {
  a.addEventListener("click", (e) => {
    if (!session) return;
    e.preventDefault();
    fetch("/api/stream/" + encodeURIComponent(session) + "/select?metric=" + encodeURIComponent(a.dataset.metric), { method: "POST" });
  });
}
source.addEventListener("transition", async (e) => {
  const t = JSON.parse(e.data);
  if (t.session !== session) {
    session = t.session;
    shown = 0;
  }
  if (t.seq < shown) return;
  shown = t.seq;
  const resp = await fetch("/charts/" + encodeURIComponent(t.to) + ".svg");
  if (!resp.ok) return;
  document.getElementById("chart").innerHTML = await resp.text();
  document.getElementById("title").textContent = t.title;
  document.getElementById("subtitle").textContent = t.subtitle;
  for (const a of document.querySelectorAll("nav a")) {
    a.classList.toggle("active", a.dataset.metric === t.to);
  }
});
</script>
</body>
</html>
`))

type pageView struct {
	Chart schema.Chart
	IDs   []string
	SVG   template.HTML
}

// handleIndex serves the chart page of ?metric, defaulting to the initial metric.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ids := s.cfg.Registry.ListIDs()
	id := r.URL.Query().Get("metric")
	if id == "" {
		id = s.cfg.InitialMetric
	}
	if id == "" && len(ids) > 0 {
		id = ids[0]
	}

	chart, err := core.CachedBuildChart(s.mgr, s.cfg.Registry, id, s.cfg.Geometry)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	inline, err := svg.RenderString(chart, svg.Options{Animation: s.cfg.Animation})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageView{Chart: chart, IDs: ids, SVG: inline}); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.renders.WithLabelValues(string(schema.SVGFormat)).Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

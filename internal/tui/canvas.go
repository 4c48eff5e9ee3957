package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/metricsgraph/schema"
)

// layer decides which style a cell is drawn with. Higher layers win.
type layer uint8

const (
	emptyLayer layer = iota
	gridLayer
	baselineLayer
	currentLayer
	pointLayer
)

const (
	gridRune     = '┄'
	baselineRune = '·'
	currentRune  = '•'
	pointRune    = '●'
)

var layerStyles = map[layer]lipgloss.Style{
	gridLayer:     lipgloss.NewStyle().Foreground(lipgloss.Color("#57606a")),
	baselineLayer: lipgloss.NewStyle().Foreground(lipgloss.Color("#8c959f")),
	currentLayer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0969da")),
	pointLayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0969da")).Bold(true),
}

// canvas is a grid of terminal cells that viewport coordinates are mapped onto.
type canvas struct {
	cols, rows int
	geometry   schema.Geometry
	runes      [][]rune
	layers     [][]layer
}

func newCanvas(cols, rows int, g schema.Geometry) *canvas {
	cols, rows = max(cols, 2), max(rows, 1)
	c := &canvas{cols: cols, rows: rows, geometry: g}
	c.runes = make([][]rune, rows)
	c.layers = make([][]layer, rows)
	for r := range rows {
		c.runes[r] = []rune(strings.Repeat(" ", cols))
		c.layers[r] = make([]layer, cols)
	}
	return c
}

// cell maps a viewport coordinate onto the grid.
func (c *canvas) cell(x, y float64) (int, int) {
	col := int(math.Round(x / c.geometry.Width * float64(c.cols-1)))
	row := int(math.Round(y / c.geometry.Height * float64(c.rows-1)))
	return min(max(col, 0), c.cols-1), min(max(row, 0), c.rows-1)
}

func (c *canvas) set(col, row int, r rune, l layer) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	if l >= c.layers[row][col] {
		c.runes[row][col] = r
		c.layers[row][col] = l
	}
}

// at returns the rune and layer of one cell.
func (c *canvas) at(col, row int) (rune, layer) {
	return c.runes[row][col], c.layers[row][col]
}

// line draws a straight segment between two cells.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, l layer) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.set(x0, y0, r, l)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// gridLines draws a dashed row at every grid line position.
func (c *canvas) gridLines(ys []float64) {
	left, _ := c.cell(c.geometry.Padding, 0)
	right, _ := c.cell(c.geometry.Width-c.geometry.Padding, 0)
	for _, y := range ys {
		_, row := c.cell(0, y)
		for col := left; col <= right; col++ {
			c.set(col, row, gridRune, gridLayer)
		}
	}
}

// path draws the leading fraction of a polyline, measured along its length in
// viewport units. A fraction of 0 draws nothing.
func (c *canvas) path(points []schema.ProjectedPoint, fraction float64, r rune, l layer) {
	if len(points) < 2 || fraction <= 0 {
		return
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
	}
	remaining := math.Min(fraction, 1) * total

	for i := 1; i < len(points) && remaining > 0; i++ {
		a, b := points[i-1], points[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		endX, endY := b.X, b.Y
		if seg > remaining {
			t := remaining / seg
			endX = a.X + (b.X-a.X)*t
			endY = a.Y + (b.Y-a.Y)*t
		}
		x0, y0 := c.cell(a.X, a.Y)
		x1, y1 := c.cell(endX, endY)
		c.line(x0, y0, x1, y1, r, l)
		remaining -= seg
	}
}

// points marks every projected point.
func (c *canvas) points(points []schema.ProjectedPoint) {
	for _, p := range points {
		col, row := c.cell(p.X, p.Y)
		c.set(col, row, pointRune, pointLayer)
	}
}

// String renders the grid with one style per layer.
func (c *canvas) String() string {
	var sb strings.Builder
	for row := range c.rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range c.cols {
			r, l := c.at(col, row)
			if l == emptyLayer {
				sb.WriteRune(r)
				continue
			}
			sb.WriteString(layerStyles[l].Render(string(r)))
		}
	}
	return sb.String()
}

// labelRow places the index labels under their columns.
func labelRow(chart schema.Chart, cols int) string {
	c := newCanvas(cols, 1, chart.Geometry)
	for _, label := range chart.Labels {
		col, _ := c.cell(label.X, 0)
		start := col - len(label.Text)/2
		for i, r := range label.Text {
			c.set(start+i, 0, r, gridLayer)
		}
	}
	return c.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

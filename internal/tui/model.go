package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/metricsgraph/core"
	"github.com/huangsam/metricsgraph/internal/contract"
	"github.com/huangsam/metricsgraph/internal/outwriter"
	"github.com/huangsam/metricsgraph/schema"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	frameInterval = time.Second / 30

	// chromeLines is everything around the canvas: title, tabs, labels, legend, path and help.
	chromeLines = 8
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtitleStyle  = lipgloss.NewStyle().Faint(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = tabStyle.Foreground(lipgloss.Color("#0969da")).Bold(true).Underline(true)
	calloutStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0969da")).Bold(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
)

// transitionMsg carries a transition applied by the controller.
type transitionMsg schema.Transition

// frameMsg advances the entry animation.
type frameMsg time.Time

// Model is the bubbletea model of the watch view. It mounts one controller and
// redraws the active chart on every transition.
type Model struct {
	ctrl   *core.Controller
	cfg    *contract.Config
	mgr    contract.CacheManager
	events <-chan schema.Transition

	chart     schema.Chart
	chartErr  error
	seq       uint64
	animStart time.Time
	ticking   bool
	now       func() time.Time

	width, height int
	showPaths     bool
	help          help.Model
}

// NewModel returns a model showing the active metric of ctrl.
// Transitions arriving on events are picked up while the program runs.
func NewModel(ctrl *core.Controller, cfg *contract.Config, mgr contract.CacheManager, events <-chan schema.Transition) *Model {
	m := &Model{
		ctrl:   ctrl,
		cfg:    cfg,
		mgr:    mgr,
		events: events,
		now:    time.Now,
		width:  defaultWidth,
		height: defaultHeight,
		help:   help.New(),
	}
	m.load(ctrl.Last())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForTransition(m.events), m.frame())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case transitionMsg:
		t := schema.Transition(msg)
		if t.Seq > m.seq {
			m.load(t)
		}
		return m, tea.Batch(waitForTransition(m.events), m.frame())
	case frameMsg:
		m.ticking = false
		return m, m.frame()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	ids := m.ctrl.IDs()
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Paths):
		m.showPaths = !m.showPaths
	case key.Matches(msg, keys.Next):
		return m.selectIndex((m.activeIndex(ids) + 1) % len(ids))
	case key.Matches(msg, keys.Prev):
		return m.selectIndex((m.activeIndex(ids) + len(ids) - 1) % len(ids))
	case key.Matches(msg, keys.Select):
		n, err := strconv.Atoi(msg.String())
		if err == nil && n >= 1 && n <= len(ids) {
			return m.selectIndex(n - 1)
		}
	}
	return nil
}

func (m *Model) activeIndex(ids []string) int {
	active := m.ctrl.Active()
	for i, id := range ids {
		if id == active {
			return i
		}
	}
	return 0
}

// selectIndex applies a manual selection and redraws right away.
func (m *Model) selectIndex(i int) tea.Cmd {
	t, err := m.ctrl.Select(m.ctrl.IDs()[i])
	if err != nil {
		m.chartErr = err
		return nil
	}
	if t.Seq > m.seq {
		m.load(t)
	}
	return m.frame()
}

// load rebuilds the chart for the transition target and restarts the animation.
func (m *Model) load(t schema.Transition) {
	m.seq = t.Seq
	m.animStart = m.now()
	m.chart, m.chartErr = core.CachedBuildChart(m.mgr, m.cfg.Registry, t.To, m.cfg.Geometry)
}

// animations returns the entry timing of both series.
func (m *Model) animations() (baseline, current schema.Animation) {
	current = schema.CurrentAnimation
	current.Duration = m.cfg.Animation
	return schema.BaselineAnimation, current
}

// progress returns how much of each series is drawn.
func (m *Model) progress() (baseline, current float64) {
	if m.cfg.Animation <= 0 {
		return 1, 1
	}
	elapsed := m.now().Sub(m.animStart)
	b, c := m.animations()
	return b.Progress(elapsed), c.Progress(elapsed)
}

// frame schedules the next animation frame while any series is still drawing.
// At most one frame is pending at a time.
func (m *Model) frame() tea.Cmd {
	b, c := m.progress()
	if m.ticking || (b >= 1 && c >= 1) {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(m.chart.Title)+"  "+subtitleStyle.Render(m.chart.Subtitle))
	sections = append(sections, m.tabs())

	cols := max(m.width-2, 20)
	rows := max(m.height-chromeLines, 6)
	if m.chartErr != nil {
		sections = append(sections, errStyle.Render("Chart unavailable: "+m.chartErr.Error()))
	} else {
		sections = append(sections, m.plot(cols, rows), labelRow(m.chart, cols), m.legend())
		if m.showPaths {
			sections = append(sections, m.paths())
		}
	}

	sections = append(sections, m.help.View(keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) tabs() string {
	active := m.ctrl.Active()
	var tabs []string
	for i, id := range m.ctrl.IDs() {
		label := fmt.Sprintf("%d %s", i+1, id)
		if id == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// plot draws the chart onto a character canvas of the given size.
func (m *Model) plot(cols, rows int) string {
	baseline, current := m.progress()
	c := newCanvas(cols, rows, m.chart.Geometry)
	c.gridLines(m.chart.GridLines)
	c.path(m.chart.BaselinePoints, baseline, baselineRune, baselineLayer)
	c.path(m.chart.CurrentPoints, current, currentRune, currentLayer)
	if current >= 1 {
		c.points(m.chart.CurrentPoints)
	}
	return c.String()
}

func (m *Model) legend() string {
	parts := []string{
		layerStyles[baselineLayer].Render(strings.Repeat(string(baselineRune), 3)) + " " + m.chart.BaselineLabel,
		layerStyles[currentLayer].Render(strings.Repeat(string(currentRune), 3)) + " " + m.chart.CurrentLabel,
	}
	if _, current := m.progress(); current >= 1 {
		callout := m.chart.Callout.Text
		if m.chart.Unit != "" && m.chart.Unit != "%" {
			callout += " " + m.chart.Unit
		}
		parts = append(parts, calloutStyle.Render(callout))
	}
	return strings.Join(parts, "   ")
}

func (m *Model) paths() string {
	width := outwriter.GetMaxTablePathWidth(m.cfg)
	return strings.Join([]string{
		"baseline d=" + contract.TruncateText(m.chart.BaselinePath, width),
		"current  d=" + contract.TruncateText(m.chart.CurrentPath, width),
	}, "\n")
}

// waitForTransition delivers the next transition as a message.
func waitForTransition(events <-chan schema.Transition) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-events
		if !ok {
			return nil
		}
		return transitionMsg(t)
	}
}

type keyMap struct {
	Select key.Binding
	Prev   key.Binding
	Next   key.Binding
	Paths  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Prev, k.Next, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Prev, k.Next},
		{k.Paths, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Select: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "select"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	Paths: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paths"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}

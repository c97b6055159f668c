package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/metrics"
	"github.com/san-kum/mnv/internal/sampler"
)

const (
	canvasWidth     = 48
	canvasHeight    = 20
	historyCapacity = 600
	pointCapacity   = 4000
	ellipseSegments = 72
	maxBatch        = 20000
	viewSigmas      = 4
	frameInterval   = time.Second / 30
)

type TickMsg time.Time

// Reseeder is implemented by sources whose stream can be restarted.
type Reseeder interface {
	Reseed(seed uint64)
}

type WatchConfig[T linalg.Float] struct {
	Name       string
	Source     sampler.Source[T]
	Seed       uint64
	Covariance linalg.Matrix[T]
	Mean       linalg.Vector[T]
	// Limit stops drawing after this many vectors; 0 draws until quit.
	Limit int
	// Batch is the number of draws per frame.
	Batch int
	// Coverage is the probability mass of the reference ellipsoid.
	Coverage float64
	Theme    string
}

// Watch is a bubbletea model that draws continuously from a source and
// shows the running estimates converging to the target distribution.
type Watch[T linalg.Float] struct {
	cfg WatchConfig[T]

	meanErr  *metrics.MeanError[T]
	covErr   *metrics.CovarianceError[T]
	coverage *metrics.Coverage[T]

	count    int
	frame    int
	batch    int
	running  bool
	showHelp bool
	theme    Theme

	axes    [2]int
	points  [][2]float64
	history []float64
	canvas  *Canvas
}

func NewWatch[T linalg.Float](cfg WatchConfig[T]) Watch[T] {
	if cfg.Batch <= 0 {
		cfg.Batch = 100
	}
	if cfg.Coverage <= 0 || cfg.Coverage >= 1 {
		cfg.Coverage = 0.95
	}
	w := Watch[T]{
		cfg:      cfg,
		meanErr:  metrics.NewMeanError(cfg.Mean),
		covErr:   metrics.NewCovarianceError(cfg.Covariance),
		coverage: metrics.NewCoverage(linalg.Cholesky(cfg.Covariance), cfg.Mean, cfg.Coverage),
		batch:    cfg.Batch,
		running:  true,
		theme:    GetTheme(cfg.Theme),
		axes:     [2]int{0, 1},
		points:   make([][2]float64, 0, pointCapacity),
		history:  make([]float64, 0, historyCapacity),
		canvas:   NewCanvas(canvasWidth, canvasHeight),
	}
	if len(cfg.Mean) < 2 {
		w.axes = [2]int{0, 0}
	}
	return w
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (w Watch[T]) Init() tea.Cmd {
	return tick()
}

func (w Watch[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return w, tea.Quit
		case " ":
			w.running = !w.running
		case "r":
			w.reset()
		case "tab":
			w.nextAxes()
		case "+", "=":
			w.batch = min(w.batch*2, maxBatch)
		case "-", "_":
			w.batch = max(w.batch/2, 1)
		case "t":
			w.theme = NextTheme(w.theme)
		case "?":
			w.showHelp = !w.showHelp
		}
	case TickMsg:
		w.frame++
		if w.running && !w.done() {
			w.step()
		}
		return w, tick()
	}
	return w, nil
}

func (w *Watch[T]) done() bool {
	return w.cfg.Limit > 0 && w.count >= w.cfg.Limit
}

// step draws one batch, clipped to the limit.
func (w *Watch[T]) step() {
	n := w.batch
	if w.cfg.Limit > 0 {
		n = min(n, w.cfg.Limit-w.count)
	}
	for i := 0; i < n; i++ {
		x := w.cfg.Source.Draw()
		w.meanErr.Observe(x)
		w.covErr.Observe(x)
		w.coverage.Observe(x)
		w.points = append(w.points, [2]float64{float64(x[w.axes[0]]), float64(x[w.axes[1]])})
	}
	w.count += n
	if over := len(w.points) - pointCapacity; over > 0 {
		w.points = append(w.points[:0], w.points[over:]...)
	}

	w.history = append(w.history, w.covErr.Value())
	if len(w.history) > historyCapacity {
		w.history = w.history[1:]
	}
}

// reset restarts the stream from the configured seed and clears estimates.
func (w *Watch[T]) reset() {
	if r, ok := w.cfg.Source.(Reseeder); ok {
		r.Reseed(w.cfg.Seed)
	}
	w.meanErr.Reset()
	w.covErr.Reset()
	w.coverage.Reset()
	w.count = 0
	w.points = w.points[:0]
	w.history = w.history[:0]
	w.running = true
}

// nextAxes cycles through the coordinate pairs (i, j) with i < j. Points
// already plotted belong to the old pair and are dropped.
func (w *Watch[T]) nextAxes() {
	dim := len(w.cfg.Mean)
	if dim < 2 {
		return
	}
	i, j := w.axes[0], w.axes[1]+1
	if j >= dim {
		i++
		j = i + 1
	}
	if j >= dim {
		i, j = 0, 1
	}
	w.axes = [2]int{i, j}
	w.points = w.points[:0]
}

func (w *Watch[T]) draw() {
	w.canvas.Clear()
	i, j := w.axes[0], w.axes[1]
	cov := w.cfg.Covariance
	mx, my := float64(w.cfg.Mean[i]), float64(w.cfg.Mean[j])
	sx, sy := math.Sqrt(float64(cov[i][i])), math.Sqrt(float64(cov[j][j]))
	view := FitViewport(mx, sx, my, sy, viewSigmas)

	for _, p := range w.points {
		w.canvas.Plot(view, p[0], p[1])
	}
	if i == j {
		return
	}

	// The marginal of (x_i, x_j) is normal with the 2x2 sub-block as its
	// covariance.
	edge := CoverageEllipse(mx, my, SubCovariance(cov, i, j), w.cfg.Coverage, ellipseSegments)
	for k := 1; k < len(edge); k++ {
		w.canvas.PlotLine(view, edge[k-1].X, edge[k-1].Y, edge[k].X, edge[k].Y)
	}
}

func (w Watch[T]) status() string {
	switch {
	case w.done():
		return StatusDone.Render("DONE")
	case !w.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render(AnimatedSpinner(w.frame) + " SAMPLING")
	}
}

func (w Watch[T]) View() string {
	w.draw()

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(w.cfg.Name)) + "  " + w.status() + "\n\n")

	plotStyle := lipgloss.NewStyle().Foreground(w.theme.Points)
	axisStyle := lipgloss.NewStyle().Foreground(w.theme.Accent)
	left := plotStyle.Render(w.canvas.String()) + "\n" +
		axisStyle.Render(fmt.Sprintf("x%d →  x%d ↑  (±%d σ)", w.axes[0], w.axes[1], viewSigmas))

	var stats strings.Builder
	samples := fmt.Sprintf("%d", w.count)
	if w.cfg.Limit > 0 {
		samples = fmt.Sprintf("%d / %d", w.count, w.cfg.Limit)
	}
	stats.WriteString(Metric("samples", samples) + "\n")
	if w.cfg.Limit > 0 {
		stats.WriteString(ProgressBar(float64(w.count)/float64(w.cfg.Limit), 30) + "\n")
	}
	stats.WriteString(Metric("batch", fmt.Sprintf("%d", w.batch)) + "\n")
	stats.WriteString(Metric("seed", fmt.Sprintf("%d", w.cfg.Seed)) + "\n")
	stats.WriteString(Separator(30) + "\n")
	stats.WriteString(Metric("mean error", fmt.Sprintf("%.5f", w.meanErr.Value())) + "\n")
	stats.WriteString(Metric("covariance error", fmt.Sprintf("%.5f", w.covErr.Value())) + "\n")
	stats.WriteString(Metric(fmt.Sprintf("coverage @%.2f", w.cfg.Coverage), fmt.Sprintf("%.4f", w.coverage.Value())) + "\n")
	stats.WriteString(Sparkline(w.history, 30) + "\n")
	if len(w.history) > 1 {
		stats.WriteString("\n" + asciigraph.Plot(w.history,
			asciigraph.Height(6),
			asciigraph.Width(30),
			asciigraph.Caption("covariance error"),
		) + "\n")
	}

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(left), Panel.Render(stats.String())))
	s.WriteString("\n")

	if w.showHelp {
		s.WriteString(KeyHint.Render("space pause · r restart from seed · tab next axis pair · +/- batch size · t theme · q quit") + "\n")
	} else {
		s.WriteString(KeyHint.Render("? help · q quit") + "\n")
	}
	return s.String()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/mnv/internal/config"
	"github.com/san-kum/mnv/internal/export"
	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/metrics"
	"github.com/san-kum/mnv/internal/mnv"
	"github.com/san-kum/mnv/internal/report"
	"github.com/san-kum/mnv/internal/sampler"
	"github.com/san-kum/mnv/internal/stats"
	"github.com/san-kum/mnv/internal/storage"
	"github.com/san-kum/mnv/internal/viz"
)

// ellipseMass is the probability of the coverage ellipsoid reported by sample.
const ellipseMass = 0.95

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Precision == config.PrecisionFloat32 {
		return sampleRuns[float32](cmd.Context(), cfg)
	}
	return sampleRuns[float64](cmd.Context(), cfg)
}

func sampleRuns[T linalg.Float](ctx context.Context, cfg *config.Config) error {
	d := newDistribution[T](cfg)

	ens := sampler.NewEnsemble(d.build, cfg.Runs, cfg.Seed).WithMetrics(func() []sampler.Metric[T] {
		return []sampler.Metric[T]{
			metrics.NewMeanError(d.mean),
			metrics.NewCovarianceError(d.cov),
			metrics.NewCoverage(linalg.Cholesky(d.cov), d.mean, ellipseMass),
		}
	})

	logger.Info("sampling", "name", cfg.Name, "dim", len(d.mean), "samples", cfg.Samples,
		"runs", cfg.Runs, "seed", cfg.Seed, "precision", cfg.Precision)
	start := time.Now()

	results, err := ens.Run(ctx, cfg.Samples)
	if err != nil {
		if errors.Is(err, mnv.ErrNotSymmetric) || errors.Is(err, mnv.ErrNotPositiveDefinite) {
			return fmt.Errorf("%w\nrun `mnv check` with the same flags for a diagnosis", err)
		}
		return err
	}
	logger.Info("sampling finished", "elapsed", time.Since(start))

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d run(s) × %d draws, dim %d, %s",
		cfg.Name, cfg.Runs, cfg.Samples, len(d.mean), cfg.Precision)))

	for _, res := range results {
		fmt.Println()
		fmt.Println(viz.Metric("seed", fmt.Sprintf("%d", res.Seed)))
		for _, name := range []string{"mean_error", "covariance_error", "coverage"} {
			fmt.Println(viz.Metric(strings.ReplaceAll(name, "_", " "), fmt.Sprintf("%.5f", res.Metrics[name])))
		}

		if len(res.Draws) >= 2 {
			v, err := report.Verify(d.cov, d.mean, res.Draws)
			if err != nil {
				return err
			}
			printComparison(os.Stdout, d.cov, v.Covariance)
			logger.Debug("verified", "seed", res.Seed, "gonum_deviation", v.GonumDeviation)
		}

		if st == nil {
			continue
		}
		id, err := st.Save(storage.RunMetadata{
			Name:       cfg.Name,
			Seed:       res.Seed,
			Precision:  cfg.Precision,
			Covariance: storage.Rows([]linalg.Vector[T](d.cov)),
			Mean:       storage.Rows([]linalg.Vector[T]{d.mean})[0],
			Metrics:    res.Metrics,
		}, storage.Rows(res.Draws))
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Println(viz.Subtle.Render("saved run " + id))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Precision == config.PrecisionFloat32 {
		return checkDistribution[float32](cfg)
	}
	return checkDistribution[float64](cfg)
}

func checkDistribution[T linalg.Float](cfg *config.Config) error {
	d := newDistribution[T](cfg)
	r, err := report.Analyze(d.cov, cfg.SymmetryTolerance)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s (%s)", cfg.Name, cfg.Precision)))
	if cfg.FromObservations() {
		fmt.Println(viz.Metric("estimated from", fmt.Sprintf("%d observations", len(cfg.Observations))))
	}
	printReport(os.Stdout, r)

	if _, err := d.build(cfg.Seed); err != nil {
		fmt.Println(viz.Bad.Render(err.Error()))
		return errors.New("covariance rejected")
	}
	fmt.Println(viz.Good.Render("covariance accepted"))
	return nil
}

func runEstimate(cmd *cobra.Command, args []string) error {
	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	rows, err := storage.ReadCSV(r)
	if err != nil {
		return fmt.Errorf("read observations: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("no observations in %s", args[0])
	}

	cfg := config.DefaultConfig()
	cfg.Name = estName
	cfg.Observations = rows
	if err := cfg.Validate(); err != nil {
		return err
	}

	obs := config.ObservationVectors[float64](cfg)
	mean, cov := stats.Mean(obs), stats.Covariance(obs)

	fmt.Println(viz.Title.Render(fmt.Sprintf("%d observations, dim %d", len(obs), len(mean))))
	fmt.Println("mean:")
	printMatrix(os.Stdout, linalg.Matrix[float64]{mean})
	fmt.Println("covariance:")
	printMatrix(os.Stdout, cov)
	fmt.Println("correlation:")
	printMatrix(os.Stdout, stats.Correlation(cov))

	rep, err := report.Analyze(cov, 0)
	if err != nil {
		return err
	}
	if rep.Accepted() {
		fmt.Println(viz.Good.Render("estimate can be sampled"))
	} else {
		fmt.Println(viz.Bad.Render(fmt.Sprintf("estimate is %s and cannot be sampled; it needs more independent observations than dimensions", rep.Definition)))
	}

	if saveConfig == "" {
		return nil
	}
	out := config.DefaultConfig()
	out.Name = estName
	out.Covariance = storage.Rows([]linalg.Vector[float64](cov))
	out.Mean = []float64(mean)
	if err := config.Save(saveConfig, out); err != nil {
		return err
	}
	fmt.Println(viz.Subtle.Render("wrote " + saveConfig))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Precision == config.PrecisionFloat32 {
		return watchDistribution[float32](cmd.Context(), cfg)
	}
	return watchDistribution[float64](cmd.Context(), cfg)
}

func watchDistribution[T linalg.Float](ctx context.Context, cfg *config.Config) error {
	d := newDistribution[T](cfg)
	gen, err := d.build(cfg.Seed)
	if err != nil {
		return err
	}

	m := viz.NewWatch(viz.WatchConfig[T]{
		Name:       cfg.Name,
		Source:     gen,
		Seed:       cfg.Seed,
		Covariance: d.cov,
		Mean:       d.mean,
		Limit:      limit,
		Batch:      batch,
		Coverage:   coverage,
		Theme:      theme,
	})

	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSEED\tSAMPLES\tDIM\tPRECISION\tCOV ERR")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%.5f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Samples,
			run.Dim(),
			run.Precision,
			run.Metrics["covariance_error"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	draws, err := st.LoadDraws(runID)
	if err != nil {
		return err
	}

	if len(draws) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if meta.Dim() == 0 || len(meta.Covariance) != meta.Dim() {
		return fmt.Errorf("run %s has no target distribution", runID)
	}
	if plotBins <= 0 {
		return fmt.Errorf("bins must be positive, got %d", plotBins)
	}

	dims := make([]int, 0)
	switch {
	case plotDim >= meta.Dim():
		return fmt.Errorf("dim %d out of range, run has %d", plotDim, meta.Dim())
	case plotDim >= 0:
		dims = append(dims, plotDim)
	default:
		for i := 0; i < min(meta.Dim(), 6); i++ {
			dims = append(dims, i)
		}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("distribution: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(draws))

	for _, i := range dims {
		values := make([]float64, len(draws))
		for k := range draws {
			values[k] = draws[k][i]
		}

		mu := meta.Mean[i]
		sigma := math.Sqrt(meta.Covariance[i][i])
		lo, hi := mu-4*sigma, mu+4*sigma

		graph := asciigraph.PlotMany(
			[][]float64{
				report.Histogram(values, lo, hi, plotBins),
				report.NormalDensity(mu, sigma, lo, hi, plotBins),
			},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Red),
			asciigraph.Caption(fmt.Sprintf("x%d on [%.3g, %.3g]: sample density (cyan) vs N(%.4g, %.4g) (red)",
				i, lo, hi, mu, sigma*sigma)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func scatterRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	draws, err := st.LoadDraws(runID)
	if err != nil {
		return err
	}

	dim := meta.Dim()
	if scatterX < 0 || scatterX >= dim || scatterY < 0 || scatterY >= dim || scatterX == scatterY {
		return fmt.Errorf("need two distinct coordinates in [0, %d), got %d and %d", dim, scatterX, scatterY)
	}
	if coverage <= 0 || coverage >= 1 {
		return fmt.Errorf("coverage must be in (0, 1), got %g", coverage)
	}

	points := make([]viz.Point, 0, len(draws))
	for _, row := range draws {
		points = append(points, viz.Point{X: row[scatterX], Y: row[scatterY]})
	}

	var outline []viz.Point
	if len(meta.Covariance) == dim {
		sub := linalg.Matrix[float64]{
			{meta.Covariance[scatterX][scatterX], meta.Covariance[scatterX][scatterY]},
			{meta.Covariance[scatterY][scatterX], meta.Covariance[scatterY][scatterY]},
		}
		outline = viz.CoverageEllipse(meta.Mean[scatterX], meta.Mean[scatterY], sub, coverage, 120)
	}

	t := viz.GetTheme(theme)
	s := export.Scatter{
		Width:        640,
		Height:       640,
		Points:       points,
		Outline:      outline,
		PointColor:   string(t.Points),
		OutlineColor: string(t.Accent),
		Caption:      fmt.Sprintf("%s: x%d vs x%d, %d draws, %.0f%% ellipse", meta.ID, scatterX, scatterY, len(draws), coverage*100),
	}

	path := svgOut
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).Export(args[0], os.Stdout)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tSOURCE\tSAMPLES\tPRECISION")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		source := "covariance"
		if cfg.FromObservations() {
			source = fmt.Sprintf("%d observations", len(cfg.Observations))
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n", name, cfg.Dim(), source, cfg.Samples, cfg.Precision)
	}

	return w.Flush()
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/mnv/internal/config"
	"github.com/san-kum/mnv/internal/logging"
	"github.com/san-kum/mnv/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool
	logger   *slog.Logger

	// Distribution selection
	configFile string
	preset     string

	// Overrides for the selected distribution
	seed      uint64
	samples   int
	runs      int
	precision string
	tolerance float64

	noSave     bool
	plotDim    int
	plotBins   int
	saveConfig string
	estName    string

	// Scatter export
	scatterX int
	scatterY int
	svgOut   string

	// Watch view
	batch    int
	limit    int
	coverage float64
	theme    string
)

var themeUsage = "color theme (" + strings.Join(viz.ThemeNames(), ", ") + ")"

// main registers the commands and executes the root command. Interrupts
// cancel the command's context so long sampling runs stop cleanly.
func main() {
	rootCmd := &cobra.Command{
		Use:           "mnv",
		Short:         "multivariate normal sampling lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logging.Config{Level: logLevel, JSON: logJSON})
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mnv", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as json")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "draw vectors from a distribution and save the run",
		RunE:  runSample,
	}
	addDistributionFlags(sampleCmd)
	sampleCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "vectors to draw per run")
	sampleCmd.Flags().IntVar(&runs, "runs", config.DefaultRuns, "independent runs, seeded seed, seed+1, ...")
	sampleCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "explain whether a covariance matrix can be sampled",
		RunE:  runCheck,
	}
	addDistributionFlags(checkCmd)

	estimateCmd := &cobra.Command{
		Use:   "estimate [csv]",
		Short: "estimate mean and covariance from observations (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runEstimate,
	}
	estimateCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the estimate as a distribution config (yaml)")
	estimateCmd.Flags().StringVar(&estName, "name", "estimated", "name for the saved config")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "sample live and watch the estimates converge",
		RunE:  runWatch,
	}
	addDistributionFlags(watchCmd)
	watchCmd.Flags().IntVar(&batch, "batch", 100, "draws per frame")
	watchCmd.Flags().IntVar(&limit, "limit", 0, "stop after this many draws (0 = never)")
	watchCmd.Flags().Float64Var(&coverage, "coverage", 0.95, "probability mass of the reference ellipse")
	watchCmd.Flags().StringVar(&theme, "theme", "cyberpunk", themeUsage)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot marginal densities of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotDim, "dim", -1, "coordinate to plot (default: up to the first 6)")
	plotCmd.Flags().IntVar(&plotBins, "bins", 60, "histogram bins")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and draws as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	scatterCmd := &cobra.Command{
		Use:   "scatter [run_id]",
		Short: "export two coordinates of a run as an svg scatter",
		Args:  cobra.ExactArgs(1),
		RunE:  scatterRun,
	}
	scatterCmd.Flags().IntVar(&scatterX, "x", 0, "horizontal coordinate")
	scatterCmd.Flags().IntVar(&scatterY, "y", 1, "vertical coordinate")
	scatterCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default: <run_id>.svg)")
	scatterCmd.Flags().Float64Var(&coverage, "coverage", 0.95, "probability mass of the outlined ellipse")
	scatterCmd.Flags().StringVar(&theme, "theme", "cyberpunk", themeUsage)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in distributions",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(sampleCmd, checkCmd, estimateCmd, watchCmd, listCmd, plotCmd, scatterCmd, exportCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addDistributionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "distribution config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in distribution")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&precision, "precision", config.DefaultPrecision, "float32 or float64")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "accept covariance asymmetry up to this absolute difference")
}

// resolveConfig picks the preset, then the config file, then applies any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("runs") {
		cfg.Runs = runs
	}
	if flags.Changed("precision") {
		cfg.Precision = precision
	}
	if flags.Changed("tolerance") {
		cfg.SymmetryTolerance = tolerance
	}

	if err := cfg.Validate(); err != nil {
		if preset == "" && configFile == "" {
			return nil, fmt.Errorf("%w (use --preset or --config)", err)
		}
		return nil, err
	}
	return cfg, nil
}

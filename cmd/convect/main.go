package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/geodyn/convect/internal/analysis"
	"github.com/geodyn/convect/internal/config"
	"github.com/geodyn/convect/internal/diag"
	"github.com/geodyn/convect/internal/render"
	"github.com/geodyn/convect/internal/scenario"
	"github.com/geodyn/convect/internal/sim"
	"github.com/geodyn/convect/internal/store"
	"github.com/geodyn/convect/internal/viz"
)

var (
	dataDir    string
	configFile string
	quiet      bool

	flagNx          int
	flagNy          int
	flagRayleigh    float64
	flagInitialDt   float64
	flagMaxDt       float64
	flagCFL         float64
	flagGrowth      float64
	flagAdaptFirst  bool
	flagTolerance   float64
	flagBudget      int
	flagOutputEvery int

	plotColumn string
	plotHeight int
	plotLog    bool

	renderOut     string
	renderColumns string
	renderLog     bool

	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	benchIters int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "convect",
		Short: "Adaptive-timestep convection runs in a heated box",
		Long: `convect drives a small buoyancy driven convection model with an
adaptive coupling timestep and a steady-state convergence monitor.
Runs are stored on disk and can be listed, plotted, exported and
analysed afterwards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", config.DefaultDataDir, "directory for run storage")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "Run a scenario until steady state or budget exhaustion",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addConfigFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "Run a scenario with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "Run one scenario across a range of Rayleigh numbers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1e3, "smallest Rayleigh number")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1e5, "largest Rayleigh number")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 3, "number of sweep points")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "Time fixed iteration counts across grid sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchIters, "iters", 200, "iterations per grid size")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot <run-id>",
		Short: "Plot a series column in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotColumn, "column", "metric", "series column to plot")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "graph height in rows")
	plotCmd.Flags().BoolVar(&plotLog, "log", false, "plot log10 of the column")

	renderCmd := &cobra.Command{
		Use:   "render <run-id>",
		Short: "Render series columns to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output path (default <run-id>.png)")
	renderCmd.Flags().StringVar(&renderColumns, "columns", "metric", "comma separated series columns")
	renderCmd.Flags().BoolVar(&renderLog, "log", false, "logarithmic y axis")

	exportCmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a run as JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <run-id>",
		Short: "Fit the convergence history of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List built-in scenarios",
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "Write the default configuration to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "convect.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, benchCmd, listCmd,
		plotCmd, renderCmd, exportCmd, analyzeCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// addConfigFlags registers the scenario override flags shared by every
// command that builds a run.
func addConfigFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&configFile, "config", "", "YAML config file overriding the preset")
	fl.IntVar(&flagNx, "nx", config.DefaultNx, "grid nodes in x")
	fl.IntVar(&flagNy, "ny", config.DefaultNy, "grid nodes in y")
	fl.Float64Var(&flagRayleigh, "rayleigh", config.DefaultRayleigh, "Rayleigh number")
	fl.Float64Var(&flagInitialDt, "initial-dt", config.DefaultInitialDt, "seed timestep")
	fl.Float64Var(&flagMaxDt, "max-dt", config.DefaultMaxDt, "timestep ceiling")
	fl.Float64Var(&flagCFL, "cfl", config.DefaultTargetCFL, "target Courant number")
	fl.Float64Var(&flagGrowth, "growth", config.DefaultIncrease, "max per-step timestep growth factor")
	fl.BoolVar(&flagAdaptFirst, "adapt-first", false, "apply the stability bounds to the first step too")
	fl.Float64Var(&flagTolerance, "tolerance", config.DefaultTolerance, "steady-state tolerance")
	fl.IntVar(&flagBudget, "budget", config.DefaultBudget, "iteration budget")
	fl.IntVar(&flagOutputEvery, "output-every", config.DefaultOutputEvery, "snapshot cadence in iterations")
	fl.BoolVar(&quiet, "quiet", false, "log warnings only")
}

// resolveConfig builds the effective configuration: preset, then config
// file, then explicitly set flags, each layer overriding the last.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := "base"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown scenario %q (available: %s)", name, strings.Join(scenario.Names(), ", "))
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if cfg.Scenario == "" {
			cfg.Scenario = name
		}
	}

	fl := cmd.Flags()
	if fl.Changed("nx") {
		cfg.Grid.Nx = flagNx
	}
	if fl.Changed("ny") {
		cfg.Grid.Ny = flagNy
	}
	if fl.Changed("rayleigh") {
		cfg.Physics.Rayleigh = flagRayleigh
	}
	if fl.Changed("initial-dt") {
		cfg.Control.InitialDt = flagInitialDt
	}
	if fl.Changed("max-dt") {
		cfg.Control.MaxDt = flagMaxDt
	}
	if fl.Changed("cfl") {
		cfg.Control.TargetCFL = flagCFL
	}
	if fl.Changed("growth") {
		cfg.Control.IncreaseTolerance = flagGrowth
	}
	if fl.Changed("adapt-first") {
		cfg.Control.AdaptFirstStep = flagAdaptFirst
	}
	if fl.Changed("tolerance") {
		cfg.Control.Tolerance = flagTolerance
	}
	if fl.Changed("budget") {
		cfg.Control.Budget = flagBudget
	}
	if fl.Changed("output-every") {
		cfg.Control.OutputEvery = flagOutputEvery
	}
	if fl.Changed("quiet") {
		cfg.Output.Quiet = quiet
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func storeDir(cmd *cobra.Command, cfg *config.Config) string {
	if f := cmd.Flags().Lookup("data-dir"); f != nil && f.Changed {
		return dataDir
	}
	if cfg != nil && cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return dataDir
}

func newLogger(quietMode bool) *slog.Logger {
	level := slog.LevelInfo
	if quietMode {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Output.Quiet)

	st := store.New(storeDir(cmd, cfg))
	if err := st.Init(); err != nil {
		return err
	}

	setup, err := scenario.Build(cfg)
	if err != nil {
		return err
	}
	run, err := st.Begin(cfg.Scenario)
	if err != nil {
		return err
	}
	rows, err := diag.NewLog(run.SeriesPath(), setup.Temp, setup.Vel)
	if err != nil {
		return err
	}
	loop, err := setup.NewLoop(run.Snapshots(setup.Temp), rows, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, runErr := loop.Run(ctx)
	elapsed := time.Since(start)

	status := res.Status.String()
	switch {
	case errors.Is(runErr, context.Canceled):
		status = "cancelled"
	case runErr != nil:
		status = "failed"
	}
	meta := store.RunMeta{
		Scenario:   cfg.Scenario,
		Status:     status,
		Iterations: res.Iterations,
		SimTime:    res.Time,
		FinalDt:    res.FinalDt,
		Metric:     res.Metric,
		Tolerance:  cfg.Control.Tolerance,
		Nx:         cfg.Grid.Nx,
		Ny:         cfg.Grid.Ny,
		Rayleigh:   cfg.Physics.Rayleigh,
		Budget:     cfg.Control.Budget,
	}
	if err := run.Finish(meta); err != nil {
		logger.Warn("saving metadata failed", "err", err)
	}

	if errors.Is(runErr, context.Canceled) {
		fmt.Printf("\nRun cancelled at iteration %d (t=%.6g)\n", res.Iterations, res.Time)
		fmt.Printf("  id: %s\n", run.ID())
		return nil
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("\nRun complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  id:          %s\n", run.ID())
	fmt.Printf("  status:      %s\n", res.Status)
	fmt.Printf("  iterations:  %d\n", res.Iterations)
	fmt.Printf("  sim time:    %.6g\n", res.Time)
	fmt.Printf("  final dt:    %.3e\n", res.FinalDt)
	fmt.Printf("  metric:      %.3e\n", res.Metric)
	fmt.Printf("  nu_top:      %.4f\n", diag.NusseltTop(setup.Temp))
	fmt.Printf("  nu_base:     %.4f\n", diag.NusseltBottom(setup.Temp))
	fmt.Printf("  avg_t:       %.4f\n", diag.AvgTemperature(setup.Temp))
	fmt.Printf("  u_rms:       %.4f\n", diag.RMSVelocity(setup.Vel))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	setup, err := scenario.Build(cfg)
	if err != nil {
		return err
	}
	loop, err := setup.NewLoop(nil, nil, nil)
	if err != nil {
		return err
	}

	m := viz.NewModel(loop, setup.Temp, setup.Vel, cfg.Scenario)
	_, err = tea.NewProgram(m).Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	values := scenario.GeometricRange(sweepMin, sweepMax, sweepSteps)
	sw := scenario.Sweep{Base: cfg, Values: values}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %d Rayleigh numbers from %.3g to %.3g\n\n", len(values), values[0], values[len(values)-1])
	start := time.Now()
	rows := sw.Run(ctx)
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RAYLEIGH\tSTATUS\tITERS\tSIM TIME\tNU_TOP\tMETRIC")
	for _, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(w, "%.3g\tfailed\t-\t-\t-\t%v\n", row.Rayleigh, row.Err)
			continue
		}
		fmt.Fprintf(w, "%.3g\t%s\t%d\t%.5g\t%.4f\t%.3e\n",
			row.Rayleigh, row.Status, row.Iterations, row.Time, row.NusseltTop, row.Metric)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nSweep finished in %s\n", elapsed.Round(time.Millisecond))
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sizes := []int{24, 32, 48, 64}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tITERS\tELAPSED\tITERS/SEC")
	for _, n := range sizes {
		c := *cfg
		c.Grid.Nx, c.Grid.Ny = n, n
		c.Control.Budget = benchIters
		c.Control.Tolerance = 1e-300 // run the full budget
		c.Control.OutputEvery = 0

		setup, err := scenario.Build(&c)
		if err != nil {
			return err
		}
		loop, err := setup.NewLoop(nil, nil, nil)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := loop.Run(context.Background()); err != nil {
			return err
		}
		elapsed := time.Since(start)
		fmt.Fprintf(w, "%dx%d\t%d\t%s\t%.0f\n",
			n, n, benchIters, elapsed.Round(time.Millisecond),
			float64(benchIters)/elapsed.Seconds())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTARTED\tSTATUS\tITERS\tSIM TIME\tMETRIC")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.5g\t%.3e\n",
			r.ID, r.Scenario, r.Started.Format("2006-01-02 15:04:05"),
			r.Status, r.Iterations, r.SimTime, r.Metric)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	col := series.Column(plotColumn)
	if col == nil {
		return fmt.Errorf("series has no column %q (available: %s)", plotColumn, strings.Join(series.Columns, ", "))
	}

	data := col
	caption := plotColumn
	if plotLog {
		data = log10Positive(col)
		caption = "log10 " + plotColumn
	}
	if len(data) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(80),
		asciigraph.Caption(caption)))
	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := store.New(dataDir)
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	iters := series.Column("iter")

	names := strings.Split(renderColumns, ",")
	lines := make([]render.Line, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		col := series.Column(name)
		if col == nil {
			return fmt.Errorf("series has no column %q (available: %s)", name, strings.Join(series.Columns, ", "))
		}
		lines = append(lines, render.Line{Name: name, Xs: iters, Ys: col})
	}

	yLabel := "value"
	if len(lines) == 1 {
		yLabel = lines[0].Name
	}
	out := renderOut
	if out == "" {
		out = runID + ".png"
	}
	if err := render.Lines(out, runID, "iteration", yLabel, renderLog, lines...); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, series)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	metric := series.Column("metric")
	if metric == nil {
		return fmt.Errorf("series has no metric column")
	}

	fit, err := analysis.FitDecay(metric)
	if err != nil {
		return err
	}

	fmt.Printf("Convergence analysis for %s\n\n", meta.ID)
	fmt.Printf("  status:        %s\n", meta.Status)
	fmt.Printf("  iterations:    %d\n", meta.Iterations)
	fmt.Printf("  final metric:  %.3e\n", meta.Metric)
	fmt.Printf("  decay rate:    %.4g per iteration\n", fit.Rate)
	fmt.Printf("  halving every: %.1f iterations\n", fit.Halving())
	fmt.Printf("  fit quality:   R2 = %.3f over %d samples\n", fit.R2, fit.Samples)

	if meta.Status == sim.StatusBudgetExhausted.String() && meta.Tolerance > 0 {
		if n, ok := fit.IterationsTo(meta.Metric, meta.Tolerance); ok {
			fmt.Printf("  projection:    about %d more iterations to reach %.1e\n", n, meta.Tolerance)
		} else {
			fmt.Printf("  projection:    not converging at the fitted rate\n")
		}
	}

	if data := log10Positive(metric); len(data) >= 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(72),
			asciigraph.Caption("log10 metric")))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tRAYLEIGH\tTOLERANCE\tBUDGET")
	for _, name := range scenario.Names() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%.3g\t%.1e\t%d\n",
			name, cfg.Grid.Nx, cfg.Grid.Ny,
			cfg.Physics.Rayleigh, cfg.Control.Tolerance, cfg.Control.Budget)
	}
	return w.Flush()
}

func log10Positive(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if v > 0 {
			out = append(out, math.Log10(v))
		}
	}
	return out
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rigidscene/internal/analysis"
	"github.com/san-kum/rigidscene/internal/automation"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/export"
	"github.com/san-kum/rigidscene/internal/gui"
	"github.com/san-kum/rigidscene/internal/metrics"
	"github.com/san-kum/rigidscene/internal/optim"
	"github.com/san-kum/rigidscene/internal/scene"
	"github.com/san-kum/rigidscene/internal/sim"
	"github.com/san-kum/rigidscene/internal/storage"
	"github.com/san-kum/rigidscene/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	duration   float64
	frameRate  int
	forceAt    []float64
	watch      bool
	verbose    bool

	// sweep, montecarlo and tune
	param      string
	paramMin   float64
	paramMax   float64
	steps      int
	trials     int
	perturb    float64
	seed       int64
	metricName string
	grid       []string

	// snapshot
	snapAt  float64
	svgOut  string
	svgSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rigidscene",
		Short: "sphere and cube rigid body scene",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigidscene", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	addSceneFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the scene in a window",
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "open the scene in the terminal",
		RunE:  runTUI,
	}
	addSceneFlags(tuiCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and record it",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "default", "use preset configuration")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	runCmd.Flags().Float64SliceVar(&forceAt, "force-at", nil, "times at which the sphere is pushed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
		},
	}

	metaCmd := &cobra.Command{
		Use:   "meta [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  printMetadata,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset1] [preset2] ...",
		Short: "run presets side by side",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	compareCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the default scene",
		RunE:  benchScene,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "sphere height against vertical velocity",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory [run_id]",
		Short: "write the sphere's path in the x-y plane as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  trajectorySVG,
	}
	trajectoryCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")
	trajectoryCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the scene at a time to SVG",
		RunE:  snapshotSVG,
	}
	snapshotCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	snapshotCmd.Flags().StringVar(&preset, "preset", "default", "use preset configuration")
	snapshotCmd.Flags().Float64Var(&snapAt, "at", 1, "simulated time to render")
	snapshotCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and record every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a preset across values of one parameter",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "default", "preset to sweep")
	sweepCmd.Flags().StringVar(&param, "param", "restitution", "parameter name")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 0.9, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 5, "number of values")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run randomly perturbed drops and count stable outcomes",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&preset, "preset", "default", "preset to perturb")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.5, "largest start offset per axis")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	monteCarloCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest metric value",
		RunE:  runTune,
	}
	tuneCmd.Flags().StringVar(&preset, "preset", "default", "preset to tune")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "rest_time", "metric to minimise")
	tuneCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, metaCmd, presetsCmd, compareCmd, benchCmd,
		analyzeCmd, phaseCmd, trajectoryCmd, snapshotCmd, scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "default", "use preset configuration")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the config file when it changes")
}

func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

// loadConfig resolves --preset and --config; the file wins over the preset.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, nil
}

// openScene builds the controller and, with --watch, a reload channel
// that lives until ctx is done.
func openScene(ctx context.Context, logger *log.Logger) (*scene.Controller, <-chan config.Update, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := scene.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if !watch {
		return ctrl, nil, nil
	}
	if configFile == "" {
		return nil, nil, fmt.Errorf("--watch needs --config")
	}
	updates, err := config.Watch(ctx, configFile)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, updates, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := newLogger()
	ctrl, updates, err := openScene(ctx, logger)
	if err != nil {
		return err
	}
	gui.Run(ctrl, updates, logger)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := newLogger()
	if !cmd.Flags().Changed("preset") && configFile == "" {
		return viz.RunInteractive(logger, nil)
	}
	ctrl, updates, err := openScene(ctx, logger)
	if err != nil {
		return err
	}
	return viz.Run(ctrl, updates)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if configFile != "" {
		if !cmd.Flags().Changed("time") && cfg.Duration > 0 {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("fps") && cfg.Loop.FPS > 0 {
			frameRate = cfg.Loop.FPS
		}
	} else if !cmd.Flags().Changed("time") {
		duration = cfg.Duration
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctrl, err := scene.New(cfg, newLogger())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simCfg := sim.Config{FPS: frameRate, Duration: duration, ForceAt: forceAt, ValidateState: true}
	simulator := sim.New()
	for _, m := range metrics.Default() {
		simulator.AddMetric(m)
	}

	fmt.Printf("running %s scene...\n", cfg.Name)
	start := time.Now()

	result, err := simulator.Run(ctx, ctrl, simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	if result.ForcesUsed > 0 {
		fmt.Printf("forces: %d\n", result.ForcesUsed)
	}
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	printMetrics(os.Stdout, result.Metrics)
	return nil
}

func printMetrics(out io.Writer, m map[string]float64) {
	fmt.Fprintln(out, "\nmetrics:")
	for _, metric := range metrics.Default() {
		if v, ok := m[metric.Name()]; ok {
			fmt.Fprintf(out, "  %s: %.6f\n", metric.Name(), v)
		}
	}
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tFPS\tFRAMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FPS,
			run.Frames,
		)
	}

	return w.Flush()
}

var plotSeries = []struct {
	caption string
	value   func(dynamo.Snapshot) float64
}{
	{"sphere height", func(s dynamo.Snapshot) float64 { return s.Sphere.Position.Y() }},
	{"cube height", func(s dynamo.Snapshot) float64 { return s.Cube.Position.Y() }},
	{"sphere speed", func(s dynamo.Snapshot) float64 { return s.SphereSpeed }},
	{"mechanical energy", func(s dynamo.Snapshot) float64 { return s.Energy }},
	{"contacts", func(s dynamo.Snapshot) float64 { return float64(s.Contacts) }},
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	for _, series := range plotSeries {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = series.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func printMetadata(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func comparePresets(cmd *cobra.Command, args []string) error {
	cfgs := make([]*config.Config, len(args))
	for i, name := range args {
		cfgs[i] = config.GetPreset(name)
		if cfgs[i] == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	ensemble := sim.NewEnsemble(metrics.Default)
	results, err := ensemble.Run(context.Background(), cfgs, sim.Config{FPS: frameRate, Duration: duration})
	if err != nil {
		return err
	}

	fmt.Printf("comparing %d presets over %.1fs\n\n", len(args), duration)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tFRAMES\tENERGY DRIFT\tMAX PENETRATION\tREST TIME\tFINAL Y")
	heights := make([][]float64, len(results))
	for i, r := range results {
		last := r.Frames[len(r.Frames)-1]
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.2e\t%.2fs\t%.3f\n",
			args[i],
			r.FramesRun,
			r.Metrics["energy_drift"],
			r.Metrics["max_penetration"],
			r.Metrics["rest_time"],
			last.Sphere.Position.Y(),
		)
		heights[i] = r.Series(func(s dynamo.Snapshot) float64 { return s.Sphere.Position.Y() })
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.PlotMany(heights,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("sphere height"),
	))
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	rates := []int{30, 60, 120, 240}
	seconds := []float64{5, 20}

	fmt.Println("benchmarking default scene")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tFPS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, dur := range seconds {
		for _, fps := range rates {
			ctrl, err := scene.New(nil, nil)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := sim.New().Run(context.Background(), ctrl, sim.Config{FPS: fps, Duration: dur})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%d\t%d\t%v\t%.0f\n",
				dur, fps, result.FramesRun, elapsed, float64(result.FramesRun)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Snapshot, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) < 2 {
		return nil, nil, fmt.Errorf("run %s has too few frames to analyze", runID)
	}
	return meta, frames, nil
}

func series(frames []dynamo.Snapshot, fn func(dynamo.Snapshot) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = fn(f)
	}
	return out
}

func sphereHeight(s dynamo.Snapshot) float64 { return s.Sphere.Position.Y() }

func frameTime(s dynamo.Snapshot) float64 { return s.Time }

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	cfg := meta.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	heights := series(frames, sphereHeight)
	times := series(frames, frameTime)
	rest := cfg.Ground.Height + cfg.Sphere.Radius

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Preset)

	apexes := analysis.Apexes(heights, times, 0.01)
	fmt.Printf("bounces: %d\n", len(apexes))
	for i, a := range apexes {
		fmt.Printf("  %2d  t=%.3fs  h=%.4f\n", i+1, a.Time, a.Height-rest)
	}
	if e, ok := analysis.RestitutionEstimate(apexes, rest); ok {
		fmt.Printf("effective restitution: %.3f (configured %.3f sphere, %.3f ground)\n",
			e, cfg.Sphere.Restitution, cfg.Ground.Restitution)
	}

	if meta.FPS > 0 {
		f := analysis.DominantFrequency(heights, float64(meta.FPS))
		fmt.Printf("dominant frequency: %.3f Hz\n", f)
	}
	crossings := analysis.Crossings(heights, times, rest+0.01)
	fmt.Printf("ground approaches: %d\n", len(crossings))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	heights := series(frames, sphereHeight)
	velocity := analysis.Derivative(heights, series(frames, frameTime))
	portrait := analysis.NewPhasePortrait(heights, velocity, "height", "vertical velocity")

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Preset)
	fmt.Println(portrait.ASCII(80, 30))
	return nil
}

func writeOutput(svg string) error {
	if svgOut == "" {
		_, err := io.WriteString(os.Stdout, svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", svgOut)
	return nil
}

func trajectorySVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	points := make([]analysis.Point, len(frames))
	for i, f := range frames {
		points[i] = analysis.Point{X: f.Sphere.Position.X(), Y: f.Sphere.Position.Y()}
	}
	return writeOutput(export.TrajectoryToSVG(points, svgSize, svgSize, "#4fc3f7"))
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := scene.New(cfg, newLogger())
	if err != nil {
		return err
	}
	if snapAt > 0 {
		simCfg := sim.Config{FPS: cfg.Loop.FPS, Duration: snapAt}
		if _, err := sim.New().Run(cmd.Context(), ctrl, simCfg); err != nil {
			return err
		}
	}

	canvas := viz.NewCanvas(100, 40)
	viz.DrawScene(canvas, nil, ctrl, scene.DefaultLighting)
	return writeOutput(export.CanvasToSVG(canvas, 4, viz.ThemeFor(ctrl.Mode())))
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, newLogger())
	if err != nil {
		return err
	}

	for i, r := range results {
		runID, err := st.Save(r.Config, r.Sim, r.Result)
		if err != nil {
			return err
		}
		label := scenario.Steps[i].SaveAs
		if label == "" {
			label = r.Config.Name
		}
		fmt.Printf("\n[%d] %s -> %s\n", i+1, label, runID)
		printMetrics(os.Stdout, r.Result.Metrics)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Preset:   preset,
		Param:    param,
		Min:      paramMin,
		Max:      paramMax,
		NumSteps: steps,
		Duration: duration,
	}

	results, err := automation.RunSweep(cmd.Context(), sweep)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s on %s\n\n", param, preset)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL Y\tMAX ENERGY\tREST TIME\tMAX PENETRATION\n", strings.ToUpper(param))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.3f\t%.2fs\t%.2e\n",
			r.ParamValue,
			r.Final.Sphere.Position.Y(),
			r.MaxEnergy,
			r.Metrics["rest_time"],
			r.Metrics["max_penetration"],
		)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	mc := &automation.MonteCarloConfig{
		Preset:       preset,
		Perturbation: perturb,
		NumTrials:    trials,
		Duration:     duration,
		Seed:         seed,
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), mc)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		worst = max(worst, r.MaxPenetration)
	}

	fmt.Printf("monte carlo: %s, %d trials, perturbation %.2f, seed %d\n", preset, trials, perturb, seed)
	fmt.Printf("stable: %d  unstable: %d\n", stable, unstable)
	fmt.Printf("worst penetration: %.4f\n", worst)
	for _, r := range results {
		if !r.Stable {
			fmt.Printf("  trial %d from %.3f,%.3f,%.3f ended at y=%.3f\n",
				r.TrialID, r.Start.X(), r.Start.Y(), r.Start.Z(), r.Final.Sphere.Position.Y())
		}
	}
	return nil
}

// parseGrid reads name=v1,v2,... flags.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, entry := range entries {
		name, list, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("grid %q: want name=v1,v2,...", entry)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", entry, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(preset)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if len(grid) == 0 {
		return fmt.Errorf("at least one --grid is required (parameters: %v)", automation.ParamNames())
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}

	simCfg := sim.Config{FPS: base.Loop.FPS, Duration: duration}
	search := optim.NewGridSearch(names, ranges)
	best, score, err := search.Search(cmd.Context(), automation.Runner(base, simCfg), metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", metricName, score)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

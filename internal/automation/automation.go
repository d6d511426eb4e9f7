// Package automation runs scripted and batched scenes: yaml scenarios,
// parameter sweeps and Monte Carlo trials of perturbed drops.
package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/metrics"
	"github.com/san-kum/rigidscene/internal/scene"
	"github.com/san-kum/rigidscene/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. The scene comes from Config when set, else from
// Preset; Params are applied on top.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Params   map[string]float64 `yaml:"params"`
	Duration float64            `yaml:"duration"`
	FPS      int                `yaml:"fps"`
	ForceAt  []float64          `yaml:"force_at"`
	SaveAs   string             `yaml:"save_as"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Config *config.Config
	Sim    sim.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// Build resolves the step's scene config and frame loop settings.
func (s ScenarioStep) Build() (*config.Config, sim.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, sim.Config{}, err
		}
		cfg = c
	default:
		name := s.Preset
		if name == "" {
			name = "default"
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, sim.Config{}, fmt.Errorf("unknown preset %q: %w", name, dynamo.ErrInvalidInput)
		}
	}
	for name, v := range s.Params {
		if err := SetParam(cfg, name, v); err != nil {
			return nil, sim.Config{}, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}

	simCfg := sim.Config{FPS: s.FPS, Duration: s.Duration, ForceAt: s.ForceAt, ValidateState: true}
	if simCfg.FPS == 0 {
		simCfg.FPS = cfg.Loop.FPS
	}
	if simCfg.Duration == 0 {
		simCfg.Duration = cfg.Duration
	}
	return cfg, simCfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, simCfg, err := step.Build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Printf("[automation] step %d/%d: %s", i+1, len(scenario.Steps), cfg.Name)

		ctrl, err := scene.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		simulator := sim.New()
		for _, m := range metrics.Default() {
			simulator.AddMetric(m)
		}
		result, err := simulator.Run(ctx, ctrl, simCfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Config: cfg, Sim: simCfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs one preset across evenly spaced values of a single
// parameter.
type ParameterSweep struct {
	Preset   string
	Param    string
	Min, Max float64
	NumSteps int
	Duration float64
	FPS      int
}

// SweepResult holds results from a parameter sweep.
type SweepResult struct {
	ParamValue float64
	Final      dynamo.Snapshot
	MaxEnergy  float64
	MinEnergy  float64
	Metrics    map[string]float64
}

// Values returns the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// RunSweep executes a parameter sweep, all values concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset %q: %w", sweep.Preset, dynamo.ErrInvalidInput)
	}

	values := sweep.Values()
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfgs[i] = base.Clone()
		if err := SetParam(cfgs[i], sweep.Param, v); err != nil {
			return nil, err
		}
	}

	simCfg := sim.Config{FPS: sweep.FPS, Duration: sweep.Duration}
	if simCfg.FPS == 0 {
		simCfg.FPS = base.Loop.FPS
	}
	if simCfg.Duration == 0 {
		simCfg.Duration = base.Duration
	}

	runs, err := sim.NewEnsemble(metrics.Default).Run(ctx, cfgs, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		minE, maxE := math.Inf(1), math.Inf(-1)
		for _, f := range r.Frames {
			minE, maxE = math.Min(minE, f.Energy), math.Max(maxE, f.Energy)
		}
		results[i] = SweepResult{
			ParamValue: values[i],
			Final:      r.Frames[len(r.Frames)-1],
			MaxEnergy:  maxE,
			MinEnergy:  minE,
			Metrics:    r.Metrics,
		}
	}
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters. Each trial
// moves the sphere's start position by up to Perturbation along every
// axis, never below its resting height.
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64
	NumTrials    int
	Duration     float64
	FPS          int
	Seed         int64
	// Tolerance is how far below its resting height the sphere may end
	// and still count as stable.
	Tolerance float64
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID        int
	Start          mgl64.Vec3
	Final          dynamo.Snapshot
	MaxPenetration float64
	Stable         bool
}

// RunMonteCarlo executes NumTrials perturbed runs of a preset.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	base := config.GetPreset(cfg.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset %q: %w", cfg.Preset, dynamo.ErrInvalidInput)
	}
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d: %w", cfg.NumTrials, dynamo.ErrParameterBounds)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = 0.05
	}

	cfgs := make([]*config.Config, cfg.NumTrials)
	starts := make([]mgl64.Vec3, cfg.NumTrials)
	minY := base.Ground.Height + base.Sphere.Radius
	for trial := range cfgs {
		c := base.Clone()
		for axis := 0; axis < 3; axis++ {
			c.Sphere.Position[axis] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		}
		c.Sphere.Position[1] = math.Max(c.Sphere.Position[1], minY)
		cfgs[trial] = c
		starts[trial] = c.Sphere.Position.V()
	}

	simCfg := sim.Config{FPS: cfg.FPS, Duration: cfg.Duration, ValidateState: true}
	if simCfg.FPS == 0 {
		simCfg.FPS = base.Loop.FPS
	}
	if simCfg.Duration == 0 {
		simCfg.Duration = base.Duration
	}

	metricSet := func() []dynamo.Metric { return []dynamo.Metric{metrics.NewMaxPenetration()} }
	runs, err := sim.NewEnsemble(metricSet).Run(ctx, cfgs, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		final := r.Frames[len(r.Frames)-1]
		stable := len(r.Errors) == 0 && final.Sphere.Position.Len() < 1e3
		if base.Ground.Enabled {
			stable = stable && final.Sphere.Position.Y() >= minY-tol
		}
		results[i] = MonteCarloResult{
			TrialID:        i,
			Start:          starts[i],
			Final:          final,
			MaxPenetration: r.Metrics["max_penetration"],
			Stable:         stable,
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// Runner returns a function that runs base with named parameters applied,
// recording the default metrics. It fits optim.GridSearch.
func Runner(base *config.Config, simCfg sim.Config) func(context.Context, map[string]float64) (*sim.Result, error) {
	return func(ctx context.Context, values map[string]float64) (*sim.Result, error) {
		cfg := base.Clone()
		for name, v := range values {
			if err := SetParam(cfg, name, v); err != nil {
				return nil, err
			}
		}
		ctrl, err := scene.New(cfg, nil)
		if err != nil {
			return nil, err
		}
		simulator := sim.New()
		for _, m := range metrics.Default() {
			simulator.AddMetric(m)
		}
		return simulator.Run(ctx, ctrl, simCfg)
	}
}

package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/rigidscene/internal/config"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/scene"
)

// Ensemble runs one scene per config concurrently. Scenes share nothing;
// each run gets its own metric set from Metrics.
type Ensemble struct {
	Metrics func() []dynamo.Metric
}

func NewEnsemble(metrics func() []dynamo.Metric) *Ensemble {
	return &Ensemble{Metrics: metrics}
}

// Run returns results in the order of cfgs. The first error wins.
func (e *Ensemble) Run(ctx context.Context, cfgs []*config.Config, simCfg Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			ctrl, err := scene.New(cfgs[idx], nil)
			if err != nil {
				errs[idx] = fmt.Errorf("scene %d: %w", idx, err)
				return
			}

			sim := New()
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, ctrl, simCfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

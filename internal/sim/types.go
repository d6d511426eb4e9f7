package sim

import (
	"fmt"

	"github.com/san-kum/rigidscene/internal/dynamo"
)

// Config drives one headless run at a fixed frame rate.
type Config struct {
	FPS      int
	Duration float64
	// ForceAt lists simulated times at which the controller's force is
	// applied, as if the user had pressed the force key.
	ForceAt []float64
	// ValidateState stops the run at the first frame with a non-finite
	// transform.
	ValidateState bool
}

type Result struct {
	Frames     []dynamo.Snapshot
	Metrics    map[string]float64
	FramesRun  int
	ForcesUsed int
	Errors     []error
}

// Times returns the simulated time of every recorded frame.
func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.Time
	}
	return out
}

// Series extracts one value per recorded frame.
func (r *Result) Series(fn func(dynamo.Snapshot) float64) []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = fn(f)
	}
	return out
}

type SimError struct {
	Time    float64
	Frame   int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %s", e.Frame, e.Time, e.Message)
}

package metrics

import "github.com/san-kum/rigidscene/internal/dynamo"

// ContactRate is the mean number of contacts per frame.
type ContactRate struct {
	sum     int
	samples int
}

func NewContactRate() *ContactRate { return &ContactRate{} }

func (c *ContactRate) Name() string { return "contact_rate" }

func (c *ContactRate) OnFrame(s dynamo.Snapshot) {
	c.sum += s.Contacts
	c.samples++
}

func (c *ContactRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *ContactRate) Reset() {
	c.sum = 0
	c.samples = 0
}

// RestTime is the simulated time from which both bodies have stayed slower
// than threshold. It is -1 while either body is still moving.
type RestTime struct {
	threshold float64
	since     float64
	resting   bool
}

func NewRestTime(threshold float64) *RestTime {
	return &RestTime{threshold: threshold, since: -1}
}

func (r *RestTime) Name() string { return "rest_time" }

func (r *RestTime) OnFrame(s dynamo.Snapshot) {
	still := s.SphereSpeed < r.threshold && s.CubeSpeed < r.threshold
	switch {
	case still && !r.resting:
		r.resting = true
		r.since = s.Time
	case !still:
		r.resting = false
		r.since = -1
	}
}

func (r *RestTime) Value() float64 { return r.since }

func (r *RestTime) Reset() {
	r.resting = false
	r.since = -1
}

// Default returns the metric set recorded for headless runs.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewStability(0.05),
		NewMaxPenetration(),
		NewContactRate(),
		NewRestTime(1e-2),
	}
}

package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestFFTPadsToPowerOfTwo(t *testing.T) {
	if got := len(FFT([]float64{1, 2, 3})); got != 4 {
		t.Errorf("len = %d, want 4", got)
	}
	if got := len(FFT(nil)); got != 0 {
		t.Errorf("len(nil) = %d", got)
	}
	dc := FFT([]float64{1, 1, 1, 1})
	if math.Abs(real(dc[0])-4) > 1e-12 || math.Abs(real(dc[1])) > 1e-12 {
		t.Errorf("constant input spectrum = %v", dc)
	}
}

func TestDominantFrequency(t *testing.T) {
	const rate = 64.0
	data := make([]float64, 64)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*4*float64(i)/rate)
	}
	if got := DominantFrequency(data, rate); got != 4 {
		t.Errorf("DominantFrequency = %v, want 4", got)
	}
	if got := DominantFrequency(data[:2], rate); got != 0 {
		t.Errorf("short series = %v", got)
	}
}

func TestDerivative(t *testing.T) {
	times := make([]float64, 11)
	values := make([]float64, 11)
	for i := range times {
		times[i] = float64(i) * 0.1
		values[i] = times[i] * times[i]
	}
	d := Derivative(values, times)
	for i := 1; i < len(d)-1; i++ {
		if math.Abs(d[i]-2*times[i]) > 1e-9 {
			t.Errorf("d[%d] = %v, want %v", i, d[i], 2*times[i])
		}
	}
	if got := Derivative([]float64{1}, []float64{0}); len(got) != 1 || got[0] != 0 {
		t.Errorf("single sample = %v", got)
	}
}

func TestCrossings(t *testing.T) {
	var values, times []float64
	for i := 0; i <= 400; i++ {
		tm := float64(i) / 100
		times = append(times, tm)
		values = append(values, math.Sin(2*math.Pi*tm-0.1))
	}
	got := Crossings(values, times, 0)
	if len(got) != 4 {
		t.Fatalf("crossings = %d, want 4", len(got))
	}
	for i, c := range got {
		want := float64(i) + 0.1/(2*math.Pi)
		if math.Abs(c.X-want) > 1e-3 {
			t.Errorf("crossing %d at %v, want %v", i, c.X, want)
		}
	}
}

// dropBall samples a point mass dropped from h that bounces with
// restitution e on y = 0.
func dropBall(h, e, dt, duration float64) (heights, times []float64) {
	y, v := h, 0.0
	for tm := 0.0; tm <= duration; tm += dt {
		heights = append(heights, y)
		times = append(times, tm)
		v -= 9.8 * dt
		y += v * dt
		if y < 0 {
			y, v = 0, -e*v
		}
	}
	return heights, times
}

func TestRestitutionFromBounces(t *testing.T) {
	heights, times := dropBall(5, 0.5, 1.0/2000, 6)
	apexes := Apexes(heights, times, 0.1)
	if len(apexes) != 3 {
		t.Fatalf("apexes = %v, want 3", apexes)
	}
	if apexes[0].Time != 0 || apexes[0].Height != 5 {
		t.Errorf("first apex = %+v, want the release point", apexes[0])
	}
	e, ok := RestitutionEstimate(apexes, 0)
	if !ok || math.Abs(e-0.5) > 0.05 {
		t.Errorf("restitution = %v, %v; want about 0.5", e, ok)
	}
}

func TestRestitutionNeedsTwoApexes(t *testing.T) {
	if _, ok := RestitutionEstimate([]Bounce{{0, 1}}, 0); ok {
		t.Error("one apex should not give an estimate")
	}
	if got := Apexes([]float64{1}, []float64{0}, 0); got != nil {
		t.Errorf("single sample apexes = %v", got)
	}
}

func TestPhasePortraitASCII(t *testing.T) {
	xs := []float64{-1, 0, 1}
	ys := []float64{1, 0, -1, 5}
	p := NewPhasePortrait(xs, ys, "y", "vy")
	if len(p.Points) != 3 {
		t.Fatalf("points = %d", len(p.Points))
	}
	out := p.ASCII(20, 10)
	if lines := strings.Count(out, "\n"); lines != 10 {
		t.Errorf("lines = %d, want 10", lines)
	}
	if strings.Count(out, "•") != 3 {
		t.Errorf("plot has %d points:\n%s", strings.Count(out, "•"), out)
	}
	if (*PhasePortrait)(nil).ASCII(20, 10) != "" {
		t.Error("nil portrait should render empty")
	}
}

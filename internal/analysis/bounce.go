package analysis

import "math"

// Bounce is the top of one flight.
type Bounce struct {
	Time   float64
	Height float64
}

// Apexes finds the local maxima of a height series. A series that starts
// by falling counts its first sample as the release height. Apexes less
// than minRise above the lowest sample are dropped.
func Apexes(heights, times []float64, minRise float64) []Bounce {
	n := min(len(heights), len(times))
	if n < 2 {
		return nil
	}
	floor := heights[0]
	for _, h := range heights[:n] {
		floor = math.Min(floor, h)
	}

	var out []Bounce
	add := func(i int) {
		if heights[i]-floor >= minRise {
			out = append(out, Bounce{Time: times[i], Height: heights[i]})
		}
	}
	if heights[1] < heights[0] {
		add(0)
	}
	for i := 1; i < n-1; i++ {
		if heights[i] > heights[i-1] && heights[i] >= heights[i+1] {
			add(i)
		}
	}
	return out
}

// RestitutionEstimate averages sqrt(h[i+1]/h[i]) over consecutive apexes,
// with heights measured from rest, the height of the body's centre when
// it touches the ground. ok is false with fewer than two apexes.
func RestitutionEstimate(apexes []Bounce, rest float64) (e float64, ok bool) {
	if len(apexes) < 2 {
		return 0, false
	}
	sum, count := 0.0, 0
	for i := 1; i < len(apexes); i++ {
		prev := apexes[i-1].Height - rest
		curr := apexes[i].Height - rest
		if prev <= 0 || curr < 0 {
			continue
		}
		sum += math.Sqrt(curr / prev)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

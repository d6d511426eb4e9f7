package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT is a radix-2 transform. Input whose length is not a power of two is
// zero padded.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n > 1 && n&(n-1) != 0 {
		padded := make([]float64, 1<<bits.Len(uint(n)))
		copy(padded, data)
		data, n = padded, len(padded)
	}
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of a series sampled at sampleRate. It is 0 for series too
// short to hold one period.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	if len(data) < 4 || sampleRate <= 0 {
		return 0
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for i := 1; i < len(ps); i++ {
		if best == 0 || ps[i] > ps[best] {
			best = i
		}
	}
	n := 2 * len(ps)
	return float64(best) * sampleRate / float64(n)
}

package speech_to_text

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

const lowPassTaps = 63

// downmix averages interleaved channels into one.
func downmix(data []float32, channels int) []float32 {
	if channels <= 1 {
		return data
	}

	mono := make([]float32, len(data)/channels)
	for i := range mono {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}

	return mono
}

// resample converts samples from one rate to another. Downsampling runs a
// Hamming-windowed sinc low-pass at the target Nyquist frequency first.
func resample(samples []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		return samples
	}

	filtered := samples
	if to < from {
		filtered = lowPass(samples, float64(to)/float64(from)/2)
	}

	ratio := float64(from) / float64(to)
	out := make([]float32, int(float64(len(samples))/ratio))

	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))

		next := idx + 1
		if next >= len(filtered) {
			next = len(filtered) - 1
		}

		out[i] = filtered[idx]*(1-frac) + filtered[next]*frac
	}

	return out
}

// lowPass applies a FIR filter with the given cutoff as a fraction of the
// sample rate.
func lowPass(samples []float32, cutoff float64) []float32 {
	taps := lowPassKernel(cutoff)
	half := len(taps) / 2
	out := make([]float32, len(samples))

	for i := range samples {
		var acc float64
		for k, tap := range taps {
			j := i + k - half
			if j < 0 || j >= len(samples) {
				continue
			}
			acc += tap * float64(samples[j])
		}
		out[i] = float32(acc)
	}

	return out
}

func lowPassKernel(cutoff float64) []float64 {
	w := window.Hamming(lowPassTaps)
	taps := make([]float64, lowPassTaps)
	mid := float64(lowPassTaps-1) / 2

	var sum float64
	for n := range taps {
		x := float64(n) - mid
		if x == 0 {
			taps[n] = 2 * cutoff
		} else {
			taps[n] = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		taps[n] *= w[n]
		sum += taps[n]
	}

	for n := range taps {
		taps[n] /= sum
	}

	return taps
}

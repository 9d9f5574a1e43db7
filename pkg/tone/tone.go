// Package tone implements the sync/marker engine of spec component
// C8: the start and end-of-frame tones and a Goertzel-filter detector
// for them.
//
// Grounded the same way as pkg/ofdm on gonum-adjacent DSP technique
// from the pack (madpsy-ka9q_ubersdr's spectrum_analyzer.go builds a
// Goertzel-style single-bin detector for Morse tone decoding); this
// package follows the same single-bin-power technique for the fixed
// start/end tone frequencies.
package tone

import "math"

// StartFreq, EndFreq are the fixed tone frequencies spec §4.8 names.
const (
	StartFreq = 17000.0
	EndFreq   = 17500.0
)

// StartDuration, EndDuration are the fixed tone lengths, in seconds.
const (
	StartDuration = 0.200
	EndDuration   = 0.150
)

// FadeDuration is the raised-cosine fade in/out applied to both tones,
// in seconds.
const FadeDuration = 0.010

// Generate synthesizes durationSec of a freqHz sinusoid at sampleRate,
// with a FadeDuration raised-cosine fade in and out.
func Generate(freqHz float64, durationSec float64, sampleRate int) []float64 {
	n := int(durationSec * float64(sampleRate))
	fadeSamples := int(FadeDuration * float64(sampleRate))
	out := make([]float64, n)
	omega := 2 * math.Pi * freqHz / float64(sampleRate)
	for i := 0; i < n; i++ {
		v := math.Sin(omega * float64(i))
		v *= fadeGain(i, n, fadeSamples)
		out[i] = v
	}
	return out
}

// fadeGain applies a raised-cosine ramp over the first and last
// fadeSamples of an n-sample block, 1.0 in the steady middle.
func fadeGain(i, n, fadeSamples int) float64 {
	if fadeSamples <= 0 {
		return 1
	}
	if i < fadeSamples {
		return 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(fadeSamples)))
	}
	if i >= n-fadeSamples {
		j := n - 1 - i
		return 0.5 * (1 - math.Cos(math.Pi*float64(j)/float64(fadeSamples)))
	}
	return 1
}

// StartTone synthesizes the 200ms 17kHz start tone.
func StartTone(sampleRate int) []float64 {
	return Generate(StartFreq, StartDuration, sampleRate)
}

// EndTone synthesizes the 150ms 17.5kHz end-of-frame tone.
func EndTone(sampleRate int) []float64 {
	return Generate(EndFreq, EndDuration, sampleRate)
}

// Detector is a Goertzel-filter single-tone energy detector. The
// receiver uses it to look for the end-of-frame tone; preamble search
// (codec.DecodeStream and codec.Detect) is not gated by it.
type Detector struct {
	coeff      float64
	sampleRate int
	windowLen  int
}

// NewDetector builds a Goertzel detector for freqHz at sampleRate,
// evaluated over windowLen samples at a time.
func NewDetector(freqHz float64, sampleRate, windowLen int) *Detector {
	k := math.Round(float64(windowLen) * freqHz / float64(sampleRate))
	omega := 2 * math.Pi * k / float64(windowLen)
	return &Detector{coeff: 2 * math.Cos(omega), sampleRate: sampleRate, windowLen: windowLen}
}

// Power returns the Goertzel power estimate for freqHz over window,
// which must have length d.windowLen.
func (d *Detector) Power(window []float64) float64 {
	var s0, s1, s2 float64
	for _, x := range window {
		s0 = x + d.coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	return s1*s1 + s2*s2 - d.coeff*s1*s2
}

// Detect reports whether the tone's Goertzel power in window is at
// least threshold times the window's total energy times its length, a
// normalized test that is robust to input gain (a pure on-bin tone
// scores 0.5).
func (d *Detector) Detect(window []float64, threshold float64) bool {
	tonePower := d.Power(window)
	var total float64
	for _, x := range window {
		total += x * x
	}
	if total == 0 {
		return false
	}
	norm := tonePower / (total * float64(len(window)))
	return norm >= threshold
}

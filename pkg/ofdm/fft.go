package ofdm

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// transform wraps gonum's complex-to-complex FFT, shared (immutable,
// reusable) across frames per spec §5.
type transform struct {
	t *fourier.CmplxFFT
}

func newTransform(n int) *transform {
	return &transform{t: fourier.NewCmplxFFT(n)}
}

// forward computes the unnormalized DFT of bins.
func (tr *transform) forward(bins []complex128) []complex128 {
	return tr.t.Coefficients(nil, bins)
}

// inverse computes the normalized IDFT of coeffs (gonum's Sequence
// already divides by N, giving Sequence(Coefficients(x)) == x).
func (tr *transform) inverse(coeffs []complex128) []complex128 {
	return tr.t.Sequence(nil, coeffs)
}

// inverseScaled computes the normalized IDFT and applies the extra
// 1/sqrt(numActiveBins) scaling spec §4.6 prescribes on top of it, so
// the time-domain signal has approximately unit RMS regardless of how
// many of the N bins actually carry energy.
func (tr *transform) inverseScaled(coeffs []complex128, numActiveBins int) []complex128 {
	out := tr.inverse(coeffs)
	if numActiveBins <= 0 {
		return out
	}
	s := complex(1/math.Sqrt(float64(numActiveBins)), 0)
	for i := range out {
		out[i] *= s
	}
	return out
}

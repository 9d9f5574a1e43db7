package ofdm

import (
	"math"
	"math/cmplx"

	"soniclink/pkg/qam"
)

// PilotValue is the fixed BPSK pilot constant shared by every symbol
// (including the training symbol), per spec invariant (iii).
var PilotValue = complex(1/math.Sqrt2, 0)

// Preamble holds the two fixed OFDM symbols (CP included) spec §3
// defines: a Schmidl-Cox-style symbol for coarse timing/CFO, and a
// pseudo-random training symbol for channel estimation. Both are pure
// functions of the layout and the fixed LCG seed, precomputed once and
// shared across frames.
type Preamble struct {
	Symbol1 []float64 // real-valued time samples, length SymbolLen
	Symbol2 []float64

	// TrainingFreq holds the known frequency-domain values Symbol2
	// carries on every data and pilot bin, keyed by bin index, for
	// channel estimation at the receiver.
	TrainingFreq map[int]complex128
}

// BuildPreamble derives the two preamble symbols for lay from the
// fixed seed.
func BuildPreamble(lay Layout) Preamble {
	tr := newTransform(N)
	g := newLCG()

	// Symbol 1: energy on even bins only (DC and Nyquist excluded),
	// which makes the N-point IFFT periodic with period N/2 — its
	// second half equals its first half by construction. Conjugate
	// mirrors are filled so the IFFT output is real, as required for a
	// waveform carried on a single real audio channel; since N is
	// even, every mirror bin is even too, so the periodicity argument
	// still holds.
	bins1 := make([]complex128, N)
	activeBins1 := 0
	for k := 2; k < N/2; k += 2 {
		re := g.nextSign() / math.Sqrt2
		im := g.nextSign() / math.Sqrt2
		v := complex(re, im)
		bins1[k] = v
		bins1[N-k] = cmplx.Conj(v)
		activeBins1 += 2
	}
	time1 := tr.inverseScaled(bins1, activeBins1)
	sym1 := addCyclicPrefix(time1)

	// Symbol 2: known pseudo-random QAM training values on every data
	// bin, the fixed pilot constant on every pilot bin, mirrored onto
	// the conjugate bins for the same real-output reason.
	bins2 := make([]complex128, N)
	training := make(map[int]complex128, lay.K()+len(lay.PilotBins))
	for _, bin := range lay.DataBins {
		v := qam.Map(g.nextBits6())
		bins2[bin] = v
		bins2[N-bin] = cmplx.Conj(v)
		training[bin] = v
	}
	for _, bin := range lay.PilotBins {
		bins2[bin] = PilotValue
		bins2[N-bin] = cmplx.Conj(PilotValue)
		training[bin] = PilotValue
	}
	time2 := tr.inverseScaled(bins2, lay.K())
	sym2 := addCyclicPrefix(time2)

	return Preamble{Symbol1: sym1, Symbol2: sym2, TrainingFreq: training}
}

// addCyclicPrefix prepends the last L samples of a complex IFFT
// output as the cyclic prefix, returning the real parts as the
// transmitted waveform.
func addCyclicPrefix(c []complex128) []float64 {
	out := make([]float64, SymbolLen)
	for i := 0; i < L; i++ {
		out[i] = real(c[N-L+i])
	}
	for i := 0; i < N; i++ {
		out[L+i] = real(c[i])
	}
	return out
}

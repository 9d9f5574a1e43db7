package ofdm

import (
	"errors"
	"math"
	"math/cmplx"

	"soniclink/pkg/qam"
)

// ErrNoPreamble names the "no preamble candidate found" condition.
// Nothing in this package returns it: DetectPreamble reports a miss
// as found == false.
var ErrNoPreamble = errors.New("ofdm: no preamble detected")

// ErrSyncLost is returned when the pilot-derived residual phase
// exceeds pi/4 across a symbol.
var ErrSyncLost = errors.New("ofdm: synchronization lost")

// coarseThreshold is the Schmidl-Cox power-ratio detection threshold.
const coarseThreshold = 0.75

// residualPhaseLimit is the pilot-derived phase drift beyond which a
// symbol is considered desynchronized.
const residualPhaseLimit = math.Pi / 4

// Demodulator recovers data symbols from a captured waveform. It is
// built once per layout and is safe to reuse across frames.
type Demodulator struct {
	layout   Layout
	preamble Preamble
	tr       *transform
}

// NewDemodulator precomputes the preamble/training tables for lay.
func NewDemodulator(lay Layout) *Demodulator {
	return &Demodulator{
		layout:   lay,
		preamble: BuildPreamble(lay),
		tr:       newTransform(N),
	}
}

// DetectPreamble slides the Schmidl-Cox coarse detector over buf,
// looking for a power-ratio peak above coarseThreshold sustained for
// at least N/4 samples. It returns the sample offset of the rising
// edge and true on success.
func (d *Demodulator) DetectPreamble(buf []float64) (start int, found bool) {
	half := N / 2
	sustain := N / 4
	run := 0
	for off := 0; off+2*half <= len(buf); off++ {
		p := coarsePowerRatio(buf, off, half)
		if p >= coarseThreshold {
			if run == 0 {
				start = off
			}
			run++
			if run >= sustain {
				return start, true
			}
		} else {
			run = 0
		}
	}
	return 0, false
}

// coarsePowerRatio computes P(d) = |sum r[d+k]*conj(r[d+k+half])| /
// sum |r[d+k+half]|^2 over a window of size half, per spec §4.7 stage 1.
// Samples are real-valued (the transmitted waveform), so conj is a
// no-op; the formula is retained in complex form for fidelity to the
// Schmidl-Cox statistic.
func coarsePowerRatio(buf []float64, d, half int) float64 {
	var num complex128
	var den float64
	for k := 0; k < half; k++ {
		a := complex(buf[d+k], 0)
		b := complex(buf[d+k+half], 0)
		num += a * cmplx.Conj(b)
		den += real(b) * real(b)
	}
	if den == 0 {
		return 0
	}
	return cmplx.Abs(num) / den
}

// FineTiming cross-correlates the N+L samples following coarseStart
// against the known second preamble symbol, returning the sample
// offset (relative to coarseStart) of the argmax correlation, accurate
// to +/-1 sample.
func (d *Demodulator) FineTiming(buf []float64, coarseStart int) int {
	ref := d.preamble.Symbol2
	bestOff := 0
	bestCorr := math.Inf(-1)
	searchRange := L // search within one CP length of slack
	for off := -searchRange; off <= searchRange; off++ {
		start := coarseStart + off
		if start < 0 || start+SymbolLen > len(buf) {
			continue
		}
		var corr float64
		for i := 0; i < SymbolLen; i++ {
			corr += buf[start+i] * ref[i]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestOff = off
		}
	}
	return bestOff
}

// EstimateCFO returns the fractional carrier-frequency offset (in
// radians/sample) from the angle of the first preamble symbol's
// autocorrelation at lag N/2.
func (d *Demodulator) EstimateCFO(sym1Samples []float64) float64 {
	half := N / 2
	// sym1Samples includes the CP; skip it to compare the two
	// IFFT-period halves directly.
	body := sym1Samples[L:]
	var acc complex128
	for k := 0; k < half; k++ {
		a := complex(body[k], 0)
		b := complex(body[k+half], 0)
		acc += a * cmplx.Conj(b)
	}
	return cmplx.Phase(acc) / float64(half)
}

// derotate removes the cumulative CFO phase from samples, where
// startIndex is the sample's absolute position in the corrected
// frame (used so phase accumulates consistently across symbols).
func derotate(samples []float64, cfo float64, startIndex int) []complex128 {
	out := make([]complex128, len(samples))
	for i, s := range samples {
		phase := -cfo * float64(startIndex+i)
		out[i] = complex(s, 0) * cmplx.Exp(complex(0, phase))
	}
	return out
}

// EstimateChannel FFTs the (CFO-corrected) second preamble symbol and
// divides by the known training values on data+pilot bins to recover
// per-bin complex channel gains H[k]. Null bins remain null (zero).
func (d *Demodulator) EstimateChannel(sym2Samples []float64, cfo float64) map[int]complex128 {
	corrected := derotate(sym2Samples[L:], cfo, 0)
	freq := d.tr.forward(corrected)

	h := make(map[int]complex128, len(d.preamble.TrainingFreq))
	for bin, known := range d.preamble.TrainingFreq {
		if known == 0 {
			continue
		}
		h[bin] = freq[bin] / known
	}
	return h
}

// DecodeSymbol strips the cyclic prefix from one data symbol, applies
// CFO derotation and channel equalization, removes residual phase
// estimated from the pilots via least squares, and demaps each data
// bin to a 6-bit group (returned low-order 6 bits of each byte).
// absoluteSampleStart is the symbol's position in the CFO-derotation
// timeline (see derotate).
func (d *Demodulator) DecodeSymbol(symSamples []float64, h map[int]complex128, cfo float64, absoluteSampleStart int) ([]byte, error) {
	corrected := derotate(symSamples[L:], cfo, absoluteSampleStart)
	freq := d.tr.forward(corrected)

	equalized := make(map[int]complex128, len(d.layout.DataBins)+len(d.layout.PilotBins))
	for _, bin := range d.layout.DataBins {
		equalized[bin] = freq[bin] / h[bin]
	}
	for _, bin := range d.layout.PilotBins {
		equalized[bin] = freq[bin] / h[bin]
	}

	phase := estimateResidualPhase(equalized, d.layout.PilotBins)
	if math.Abs(phase) > residualPhaseLimit {
		return nil, ErrSyncLost
	}
	correction := cmplx.Exp(complex(0, -phase))

	out := make([]byte, len(d.layout.DataBins))
	for i, bin := range d.layout.DataBins {
		out[i] = qam.Demap(equalized[bin] * correction)
	}
	return out, nil
}

// estimateResidualPhase performs a least-squares fit of the residual
// phase rotation across the pilot bins (whose true value, PilotValue,
// is real and positive, so the phase of the observed value is the
// residual rotation).
func estimateResidualPhase(equalized map[int]complex128, pilotBins []int) float64 {
	if len(pilotBins) == 0 {
		return 0
	}
	var sumSin, sumCos float64
	for _, bin := range pilotBins {
		angle := cmplx.Phase(equalized[bin])
		sumSin += math.Sin(angle)
		sumCos += math.Cos(angle)
	}
	return math.Atan2(sumSin, sumCos)
}

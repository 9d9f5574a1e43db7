package ofdm

import "math/cmplx"

// Modulator builds the OFDM waveform: preamble, one symbol per
// constellation-point group, per spec §4.6.
type Modulator struct {
	layout   Layout
	preamble Preamble
	tr       *transform
}

// NewModulator precomputes the preamble and FFT plan for lay.
func NewModulator(lay Layout) *Modulator {
	return &Modulator{
		layout:   lay,
		preamble: BuildPreamble(lay),
		tr:       newTransform(N),
	}
}

// Preamble returns the precomputed preamble symbols.
func (m *Modulator) Preamble() Preamble { return m.preamble }

// ModulateSymbol places dataPoints (len == layout.K()) on the data
// bins in ascending frequency order, the fixed pilot constant on the
// pilot bins, mirrors both onto their conjugate bins so the IFFT
// output is real, and IFFTs the result into one CP-prefixed OFDM
// symbol with the spec's 1/sqrt(K) scaling.
func (m *Modulator) ModulateSymbol(dataPoints []complex128) []float64 {
	bins := make([]complex128, N)
	for i, bin := range m.layout.DataBins {
		bins[bin] = dataPoints[i]
		bins[N-bin] = cmplx.Conj(dataPoints[i])
	}
	for _, bin := range m.layout.PilotBins {
		bins[bin] = PilotValue
		bins[N-bin] = cmplx.Conj(PilotValue)
	}
	time := m.tr.inverseScaled(bins, m.layout.K())
	return addCyclicPrefix(time)
}

// Modulate produces the full data-symbol waveform (preamble excluded)
// for a sequence of per-symbol data point groups.
func (m *Modulator) Modulate(symbols [][]complex128) []float64 {
	out := make([]float64, 0, len(symbols)*SymbolLen)
	for _, s := range symbols {
		out = append(out, m.ModulateSymbol(s)...)
	}
	return out
}

// ModulatePreamble returns preamble1 ‖ preamble2 concatenated.
func (m *Modulator) ModulatePreamble() []float64 {
	out := make([]float64, 0, 2*SymbolLen)
	out = append(out, m.preamble.Symbol1...)
	out = append(out, m.preamble.Symbol2...)
	return out
}

// Package ofdm implements the OFDM modulator and demodulator of spec
// components C6 and C7: subcarrier layout, preamble, IFFT/FFT-based
// symbol modulation, and synchronized demodulation with channel
// equalization.
//
// The teacher repository has no OFDM or FFT code of its own (its
// pkg/modem is a BFSK/8B10B scheme); the FFT primitive is grounded on
// gonum's dsp/fourier package, the one FFT library the retrieved
// pack actually imports (madpsy-ka9q_ubersdr's audio_extensions use
// gonum's real-input fourier.FFT; this package uses the complex
// variant, fourier.CmplxFFT, for the same library's complex OFDM
// bins). See DESIGN.md.
package ofdm

import "errors"

// N is the FFT size, fixed at spec's default.
const N = 256

// CPRatio is the cyclic-prefix-to-symbol-length ratio.
const CPRatio = 0.25

// L is the cyclic prefix length, N/4.
const L = N / 4

// SymbolLen is the total samples per OFDM symbol including CP.
const SymbolLen = N + L

// DefaultPilotSpacing places one pilot every 8 data bins.
const DefaultPilotSpacing = 8

// MinCarrierHz and MaxCarrierHz bound the band spec §3 invariant (i)
// mandates: every data and pilot bin must sit strictly inside this
// window, regardless of what band the caller requests.
const (
	MinCarrierHz = 18000.0
	MaxCarrierHz = 22000.0
)

// ErrInvalidConfig is returned when a layout's bin assignment cannot
// satisfy the band or byte-alignment constraints.
var ErrInvalidConfig = errors.New("ofdm: invalid subcarrier layout configuration")

// Layout is the fixed, immutable assignment of FFT bins to data,
// pilot, and null roles. It is a pure function of
// (sample_rate, N, band), per spec §3 invariant (iv), and is safe to
// share across frames and goroutines once built.
type Layout struct {
	SampleRate   int
	BandLow      float64
	BandHigh     float64
	PilotSpacing int

	DataBins  []int // ascending frequency order
	PilotBins []int // ascending frequency order
}

// NewLayout builds the subcarrier layout for sampleRate Hz, restricting
// data+pilot bins to [bandLow, bandHigh] Hz, with a pilot inserted
// every pilotSpacing data bins. Data bins are trimmed from the
// high-frequency end until bytesPerSymbol = K*6/8 is an integer. It
// fails ErrInvalidConfig if the requested band reaches outside
// [MinCarrierHz, MaxCarrierHz], or if no data bins remain.
func NewLayout(sampleRate int, bandLow, bandHigh float64, pilotSpacing int) (Layout, error) {
	if pilotSpacing <= 0 {
		pilotSpacing = DefaultPilotSpacing
	}
	if bandLow < MinCarrierHz || bandHigh > MaxCarrierHz {
		return Layout{}, ErrInvalidConfig
	}
	binHz := float64(sampleRate) / float64(N)

	var candidates []int
	for k := 1; k < N/2; k++ { // skip DC (0) and Nyquist mirror (>=N/2)
		freq := float64(k) * binHz
		if freq >= bandLow && freq <= bandHigh && freq >= MinCarrierHz && freq <= MaxCarrierHz {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return Layout{}, ErrInvalidConfig
	}

	var data, pilots []int
	for i, bin := range candidates {
		if (i+1)%(pilotSpacing+1) == 0 {
			pilots = append(pilots, bin)
		} else {
			data = append(data, bin)
		}
	}

	if len(data) == 0 || (len(data)*6)%8 != 0 {
		// Trim from the high-frequency end until K*6 is byte-aligned;
		// this keeps the band strictly inside [bandLow, bandHigh].
		for len(data) > 0 && (len(data)*6)%8 != 0 {
			data = data[:len(data)-1]
		}
	}
	if len(data) == 0 {
		return Layout{}, ErrInvalidConfig
	}

	return Layout{
		SampleRate:   sampleRate,
		BandLow:      bandLow,
		BandHigh:     bandHigh,
		PilotSpacing: pilotSpacing,
		DataBins:     data,
		PilotBins:    pilots,
	}, nil
}

// K is the number of data-carrying bins.
func (lay Layout) K() int { return len(lay.DataBins) }

// BytesPerSymbol is (K*6)/8, guaranteed integral by NewLayout.
func (lay Layout) BytesPerSymbol() int { return lay.K() * 6 / 8 }

// BitRate is the raw payload bit rate in bits/second this layout
// achieves, per spec §9's open-question formula.
func (lay Layout) BitRate() float64 {
	return float64(lay.K()*6*lay.SampleRate) / float64(SymbolLen)
}

package ofdm

import (
	"testing"

	"soniclink/pkg/qam"
)

func TestModulateDemodulateRoundTripNoiseless(t *testing.T) {
	lay, err := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	mod := NewModulator(lay)
	demod := NewDemodulator(lay)

	groups := make([]byte, lay.K())
	points := make([]complex128, lay.K())
	for i := range groups {
		groups[i] = byte(i % 64)
		points[i] = qam.Map(groups[i])
	}

	symSamples := mod.ModulateSymbol(points)
	if len(symSamples) != SymbolLen {
		t.Fatalf("expected %d samples, got %d", SymbolLen, len(symSamples))
	}

	h := demod.EstimateChannel(mod.Preamble().Symbol2, 0)
	decoded, err := demod.DecodeSymbol(symSamples, h, 0, 0)
	if err != nil {
		t.Fatalf("DecodeSymbol: %v", err)
	}
	if len(decoded) != len(groups) {
		t.Fatalf("expected %d groups, got %d", len(groups), len(decoded))
	}
	for i := range groups {
		if decoded[i] != groups[i] {
			t.Fatalf("group %d: got %d want %d", i, decoded[i], groups[i])
		}
	}
}

func TestModulatePreambleLength(t *testing.T) {
	lay, _ := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	mod := NewModulator(lay)
	wave := mod.ModulatePreamble()
	if len(wave) != 2*SymbolLen {
		t.Fatalf("expected %d samples, got %d", 2*SymbolLen, len(wave))
	}
}

func TestFineTimingFindsExactBoundary(t *testing.T) {
	lay, _ := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	demod := NewDemodulator(lay)

	buf := make([]float64, 100)
	buf = append(buf, demod.preamble.Symbol2...)
	buf = append(buf, make([]float64, 50)...)

	off := demod.FineTiming(buf, 100)
	if off != 0 {
		t.Fatalf("expected exact boundary (offset 0), got %d", off)
	}
}

func TestEstimateCFOZeroForCleanSignal(t *testing.T) {
	lay, _ := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	demod := NewDemodulator(lay)
	cfo := demod.EstimateCFO(demod.preamble.Symbol1)
	if cfo < -1e-9 || cfo > 1e-9 {
		t.Fatalf("expected ~zero CFO on a clean signal, got %v", cfo)
	}
}

package ofdm

import "testing"

func TestPreambleSymbol1Autocorrelation(t *testing.T) {
	lay, err := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	p := BuildPreamble(lay)
	if len(p.Symbol1) != SymbolLen {
		t.Fatalf("expected %d samples, got %d", SymbolLen, len(p.Symbol1))
	}

	ratio := coarsePowerRatio(p.Symbol1, L, N/2)
	if ratio < 0.9 {
		t.Fatalf("expected autocorrelation peak > 0.9 at the body boundary, got %v", ratio)
	}
}

func TestPreambleDeterministic(t *testing.T) {
	lay, _ := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	a := BuildPreamble(lay)
	b := BuildPreamble(lay)
	for i := range a.Symbol1 {
		if a.Symbol1[i] != b.Symbol1[i] {
			t.Fatalf("preamble symbol1 not deterministic at index %d", i)
		}
	}
	for i := range a.Symbol2 {
		if a.Symbol2[i] != b.Symbol2[i] {
			t.Fatalf("preamble symbol2 not deterministic at index %d", i)
		}
	}
}

func TestPreambleSymbol2TrainingCoversAllBins(t *testing.T) {
	lay, _ := NewLayout(48000, 18000, 22000, DefaultPilotSpacing)
	p := BuildPreamble(lay)
	for _, bin := range lay.DataBins {
		if _, ok := p.TrainingFreq[bin]; !ok {
			t.Fatalf("missing training value for data bin %d", bin)
		}
	}
	for _, bin := range lay.PilotBins {
		if v, ok := p.TrainingFreq[bin]; !ok || v != PilotValue {
			t.Fatalf("missing or wrong pilot training value for bin %d", bin)
		}
	}
}

package tone

import (
	"math"
	"testing"
)

func TestGenerateDurationAndAmplitude(t *testing.T) {
	const sampleRate = 48000
	samples := StartTone(sampleRate)
	expectedN := int(StartDuration * sampleRate)
	if len(samples) != expectedN {
		t.Fatalf("expected %d samples, got %d", expectedN, len(samples))
	}
	for _, s := range samples {
		if s < -1.0001 || s > 1.0001 {
			t.Fatalf("sample out of [-1,1]: %v", s)
		}
	}
}

func TestGenerateFadesToZeroAtEdges(t *testing.T) {
	samples := EndTone(48000)
	if math.Abs(samples[0]) > 1e-9 {
		t.Fatalf("expected zero amplitude at t=0, got %v", samples[0])
	}
	last := samples[len(samples)-1]
	if math.Abs(last) > 1e-2 {
		t.Fatalf("expected near-zero amplitude at the final sample, got %v", last)
	}
}

func TestDetectorFindsMatchingTone(t *testing.T) {
	const sampleRate = 48000
	const windowLen = 1024
	det := NewDetector(StartFreq, sampleRate, windowLen)

	window := make([]float64, windowLen)
	omega := 2 * math.Pi * StartFreq / sampleRate
	for i := range window {
		window[i] = math.Sin(omega * float64(i))
	}
	if !det.Detect(window, 0.1) {
		t.Fatalf("expected detector to find its own tone")
	}
}

func TestDetectorRejectsOffFrequencyTone(t *testing.T) {
	const sampleRate = 48000
	const windowLen = 1024
	det := NewDetector(StartFreq, sampleRate, windowLen)

	window := make([]float64, windowLen)
	omega := 2 * math.Pi * 8000.0 / sampleRate
	for i := range window {
		window[i] = math.Sin(omega * float64(i))
	}
	if det.Detect(window, 0.3) {
		t.Fatalf("expected detector to reject an 8kHz tone at a 0.3 threshold")
	}
}

func TestDetectorRejectsSilence(t *testing.T) {
	det := NewDetector(EndFreq, 48000, 1024)
	window := make([]float64, 1024)
	if det.Detect(window, 0.1) {
		t.Fatalf("expected detector to reject silence")
	}
}

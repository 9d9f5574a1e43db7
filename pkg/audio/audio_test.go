package audio

import (
	"context"
	"testing"

	"golang.org/x/exp/rand"
)

func TestRecorderPlayerRoundTrip(t *testing.T) {
	rec := &Recorder{}
	samples := []Sample{0.1, -0.2, 0.3, -0.4}
	if err := rec.Push(samples); err != nil {
		t.Fatalf("Push: %v", err)
	}
	player := &Player{Track: rec.Samples()}
	ctx := context.Background()
	got, err := player.Pull(ctx, 2)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(got) != 2 || got[0] != samples[0] || got[1] != samples[1] {
		t.Fatalf("unexpected first chunk: %v", got)
	}
	got, err = player.Pull(ctx, 10)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected remaining 2 samples, got %d", len(got))
	}
	if _, err := player.Pull(ctx, 1); err != ErrExhausted {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestLoopbackPushPull(t *testing.T) {
	lb := NewLoopback(16)
	samples := []Sample{1, 2, 3, 4}
	go func() {
		lb.Push(samples)
	}()
	got, err := lb.Pull(context.Background(), 4)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got[i], samples[i])
		}
	}
}

func TestLoopbackCancellation(t *testing.T) {
	lb := NewLoopback(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lb.Pull(ctx, 1); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestAddAWGNPreservesLength(t *testing.T) {
	samples := make([]Sample, 100)
	for i := range samples {
		samples[i] = 0.5
	}
	rng := rand.New(rand.NewSource(42))
	noisy := AddAWGN(samples, 20, rng)
	if len(noisy) != len(samples) {
		t.Fatalf("expected same length, got %d", len(noisy))
	}
	same := true
	for i := range samples {
		if noisy[i] != samples[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("expected noise to perturb samples")
	}
}

package audio

import (
	"context"
	"errors"
)

// ErrLoopbackClosed is returned by Pull once the loopback has been
// closed and fully drained.
var ErrLoopbackClosed = errors.New("audio: loopback closed")

// Loopback is an in-process fake audio channel: whatever is Push'd to
// it becomes Pull'able, adapting the teacher's device.Loopback (a fake
// full-duplex device looping output back to input) to this package's
// push/pull contract. Used for testing the codec without real
// hardware, and to simulate the acoustic channel end to end.
type Loopback struct {
	ch chan Sample
}

// NewLoopback creates a Loopback with the given internal buffer
// capacity (in samples).
func NewLoopback(capacity int) *Loopback {
	return &Loopback{ch: make(chan Sample, capacity)}
}

// Push writes samples into the channel, blocking if the internal
// buffer is full.
func (l *Loopback) Push(samples []Sample) error {
	for _, s := range samples {
		l.ch <- s
	}
	return nil
}

// Pull reads exactly n samples, blocking until they arrive or ctx is
// cancelled.
func (l *Loopback) Pull(ctx context.Context, n int) ([]Sample, error) {
	out := make([]Sample, n)
	for i := 0; i < n; i++ {
		select {
		case s, ok := <-l.ch:
			if !ok {
				return nil, ErrLoopbackClosed
			}
			out[i] = s
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

// Close closes the underlying channel: a Push after Close panics, and
// once the buffered samples are drained Pull returns ErrLoopbackClosed,
// which the codec reports as IOExhausted.
func (l *Loopback) Close() {
	close(l.ch)
}

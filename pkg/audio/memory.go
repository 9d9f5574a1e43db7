package audio

import (
	"context"
	"errors"
	"sync"
)

// ErrExhausted is returned by Player.Pull once its track is consumed.
var ErrExhausted = errors.New("audio: track exhausted")

// Recorder is an in-memory AudioSink, adapted from the teacher's
// internel/callbacks.Recorder, which appended captured PCM into a
// growable slice from an ASIO callback; here Push plays that role
// directly.
type Recorder struct {
	mu    sync.Mutex
	Track []Sample
}

func (r *Recorder) Push(samples []Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Track = append(r.Track, samples...)
	return nil
}

// Samples returns a copy of everything pushed so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.Track))
	copy(out, r.Track)
	return out
}

// Player is an in-memory AudioSource over a fixed track, adapted from
// the teacher's internel/callbacks.Player (which served a fixed int32
// track to an ASIO output callback, zero-filling past the end); here
// Pull returns ErrExhausted past the end instead, since a demodulator
// must distinguish "no more samples" from "silence".
type Player struct {
	Track []Sample
	idx   int
}

func (p *Player) Pull(ctx context.Context, n int) ([]Sample, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if p.idx >= len(p.Track) {
		return nil, ErrExhausted
	}
	end := p.idx + n
	if end > len(p.Track) {
		end = len(p.Track)
	}
	out := p.Track[p.idx:end]
	p.idx = end
	return out, nil
}

// Reset rewinds playback to the start of the track.
func (p *Player) Reset() {
	p.idx = 0
}

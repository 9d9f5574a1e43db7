// Package audio defines the PCM I/O and key-material collaborators
// the codec core treats as external per spec §1/§9: a blocking
// AudioSink/AudioSource pair and a KeyProvider, plus concrete adapters
// over the teacher's ASIO and loopback devices and a couple of
// in-memory implementations for tests and offline use.
package audio

import (
	"context"
	"crypto/rsa"
)

// Sample is a single PCM sample in [-1.0, 1.0], spec §3.
type Sample = float32

// AudioSink accepts a complete waveform. The codec core never streams
// partial waveforms to a sink; Push is called once per encoded frame.
type AudioSink interface {
	Push(samples []Sample) error
}

// AudioSource delivers samples in fixed-size chunks via a blocking
// pull, observing ctx for cancellation at each chunk boundary per
// spec §5.
type AudioSource interface {
	Pull(ctx context.Context, n int) ([]Sample, error)
}

// KeyProvider supplies the RSA key material the crypto envelope (C2)
// needs; the symmetric session key is not supplied here but drawn
// fresh per frame by envelope.NewSessionKey. A nil return for either key means that
// role (sender or recipient) isn't configured; callers should treat
// that as ErrInvalidConfig for operations requiring it.
type KeyProvider interface {
	PublicKey() (*rsa.PublicKey, error)
	PrivateKey() (*rsa.PrivateKey, error)
}

package audio

import (
	"context"
	"math"
	"sync"

	"github.com/xsjk/go-asio"
)

// int32Scale converts between the 32-bit float samples this package's
// interfaces use and the int32 PCM frames an ASIO device callback
// deals in, matching the teacher's pkg/device.ASIOMono.
const int32Scale = math.MaxInt32

func floatToInt32(s Sample) int32 {
	v := float64(s) * int32Scale
	if v > int32Scale {
		v = int32Scale
	}
	if v < -int32Scale-1 {
		v = -int32Scale - 1
	}
	return int32(v)
}

func int32ToFloat(v int32) Sample {
	return Sample(float64(v) / int32Scale)
}

// ASIOSink plays a complete waveform through an ASIO device's output
// channel, blocking until playback finishes.
type ASIOSink struct {
	DeviceName string
	SampleRate float64
	OutChannel int

	mu   sync.Mutex
	buf  []int32
	idx  int
	done chan struct{}
}

// Push blocks until every sample in samples has been played.
func (s *ASIOSink) Push(samples []Sample) error {
	s.mu.Lock()
	s.buf = make([]int32, len(samples))
	for i, v := range samples {
		s.buf[i] = floatToInt32(v)
	}
	s.idx = 0
	s.done = make(chan struct{})
	s.mu.Unlock()

	var device asio.Device
	device.Load(s.DeviceName)
	device.SetSampleRate(s.SampleRate)
	device.Open()
	device.Start(func(in, out [][]int32) {
		s.fill(out[s.OutChannel])
	})
	<-s.done
	device.Stop()
	device.Close()
	device.Unload()
	return nil
}

func (s *ASIOSink) fill(out []int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx >= len(s.buf) {
		for i := range out {
			out[i] = 0
		}
		s.signalDone()
		return
	}
	n := copy(out, s.buf[s.idx:])
	s.idx += n
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	if s.idx >= len(s.buf) {
		s.signalDone()
	}
}

func (s *ASIOSink) signalDone() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// ASIOSource captures PCM samples from an ASIO device's input
// channel, delivering them in fixed-size chunks via a blocking pull.
type ASIOSource struct {
	DeviceName string
	SampleRate float64
	InChannel  int

	once   sync.Once
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []int32
	device asio.Device
}

func (s *ASIOSource) ensureStarted() {
	s.once.Do(func() {
		s.cond = sync.NewCond(&s.mu)
		s.device.Load(s.DeviceName)
		s.device.SetSampleRate(s.SampleRate)
		s.device.Open()
		s.device.Start(func(in, out [][]int32) {
			s.mu.Lock()
			s.buf = append(s.buf, in[s.InChannel]...)
			s.cond.Broadcast()
			s.mu.Unlock()
		})
	})
}

// Pull blocks until n samples are available or ctx is cancelled.
func (s *ASIOSource) Pull(ctx context.Context, n int) ([]Sample, error) {
	s.ensureStarted()

	watcherDone := make(chan struct{})
	cancelled := false
	go func() {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			cancelled = true
			s.cond.Broadcast()
			s.mu.Unlock()
		case <-watcherDone:
		}
	}()

	s.mu.Lock()
	for len(s.buf) < n && !cancelled {
		s.cond.Wait()
	}
	wasCancelled := cancelled
	var out []Sample
	if !wasCancelled {
		out = make([]Sample, n)
		for i := 0; i < n; i++ {
			out[i] = int32ToFloat(s.buf[i])
		}
		s.buf = s.buf[n:]
	}
	s.mu.Unlock()
	close(watcherDone)

	if wasCancelled {
		return nil, ctx.Err()
	}
	return out, nil
}

// Stop releases the underlying ASIO device.
func (s *ASIOSource) Stop() {
	s.device.Stop()
	s.device.Close()
	s.device.Unload()
}

package audio

import (
	"math"

	"golang.org/x/exp/rand"
)

// AddAWGN returns a copy of samples with additive white Gaussian
// noise at the given SNR (dB) mixed in, for the channel-noise
// property tests spec §8 property 8 calls for. Grounded on the
// teacher's pkg/device/utils.go, which draws its synthetic PCM from
// golang.org/x/exp/rand rather than the standard library's math/rand.
func AddAWGN(samples []Sample, snrDB float64, rng *rand.Rand) []Sample {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	var signalPower float64
	for _, s := range samples {
		signalPower += float64(s) * float64(s)
	}
	if len(samples) > 0 {
		signalPower /= float64(len(samples))
	}

	snrLinear := math.Pow(10, snrDB/10)
	noisePower := signalPower / snrLinear
	sigma := math.Sqrt(noisePower)

	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = s + Sample(sigma*rng.NormFloat64())
	}
	return out
}

// Package qam implements the 64-QAM constellation mapper of spec
// component C5: 6-bit groups to Gray-coded complex constellation
// points and back.
//
// No retrieved example repo carries a QAM mapper (the closest, the
// teacher's pkg/modem, is BFSK/8B10B over audio); this package follows
// the generic Gray-coded square-QAM construction described in spec
// §4.5 directly, using complex128 the way the pack's DSP code
// (madpsy-ka9q_ubersdr's FFT helpers, gonum-based) represents
// frequency-domain samples.
package qam

import "math"

// BitsPerSymbol is the number of bits one constellation point carries.
const BitsPerSymbol = 6

// levels are the per-axis amplitude levels in ascending order:
// levels[k] is the level for amplitude index k, and a 3-bit Gray label
// g selects levels[grayToBinary[g]].
var levels = [8]float64{-7, -5, -3, -1, 1, 3, 5, 7}

// binaryToGray[k] is the Gray code of amplitude index k; grayToBinary
// is its inverse, recovering the amplitude index for a bit label.
// Adjacent amplitude levels (k, k+1) get labels differing in one bit
// because Gray codes guarantee that by construction.
var grayToBinary [8]int
var binaryToGray [8]int

func init() {
	for k := 0; k < 8; k++ {
		g := k ^ (k >> 1)
		binaryToGray[k] = g
		grayToBinary[g] = k
	}
}

// scale normalizes the 8x8 grid (levels in {-7,...,7} on each axis) to
// unit average energy: E[|I|^2+|Q|^2] = 2 * mean(levels^2) = 2*21 = 42.
const scale = 1.0 / 42.0

var sqrtScale = math.Sqrt(scale)

// Map converts a 6-bit group (bits 5..0, group < 64) into a unit
// energy constellation point. The high 3 bits select the in-phase
// axis label, the low 3 bits the quadrature axis label.
func Map(group byte) complex128 {
	iLabel := int((group >> 3) & 0x7)
	qLabel := int(group & 0x7)
	re := levels[grayToBinary[iLabel]] * sqrtScale
	im := levels[grayToBinary[qLabel]] * sqrtScale
	return complex(re, im)
}

// Demap returns the nearest-neighbor 6-bit group for a (possibly
// noisy) equalized constellation value, breaking ties toward the
// lower bit label.
func Demap(point complex128) byte {
	i := nearestAxis(real(point))
	q := nearestAxis(imag(point))
	return byte(i<<3) | byte(q)
}

// nearestAxis finds the bit label (0..7) whose scaled level is
// closest to v, the lower label winning ties.
func nearestAxis(v float64) int {
	bestLabel := 0
	bestDist := math.Inf(1)
	for label := 0; label < 8; label++ {
		k := grayToBinary[label]
		level := levels[k] * sqrtScale
		dist := (v - level) * (v - level)
		if dist < bestDist {
			bestDist = dist
			bestLabel = label
		}
	}
	return bestLabel
}

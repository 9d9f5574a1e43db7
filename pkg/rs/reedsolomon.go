package rs

import "errors"

const (
	// DataSize is the number of data bytes per RS(255,223) codeword.
	DataSize = 223
	// ParitySize is the number of parity bytes per codeword.
	ParitySize = 32
	// BlockSize is DataSize+ParitySize.
	BlockSize = DataSize + ParitySize
	// MaxCorrectableErrors is the per-block error budget spec §4.3 names.
	MaxCorrectableErrors = ParitySize / 2
)

// ErrUncorrectableFEC is returned when a 255-byte block carries more
// byte errors than the code can correct.
var ErrUncorrectableFEC = errors.New("rs: uncorrectable FEC block")

// Codec encodes and decodes RS(255,223) blocks. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	generator []byte
}

// NewCodec builds a Reed-Solomon(255,223) codec.
func NewCodec() *Codec {
	return &Codec{generator: generatorPoly(ParitySize)}
}

// EncodeBlock appends ParitySize parity bytes to a DataSize-byte block.
func (c *Codec) EncodeBlock(data []byte) ([]byte, error) {
	if len(data) != DataSize {
		return nil, errors.New("rs: EncodeBlock requires exactly 223 bytes")
	}
	msg := make([]byte, BlockSize)
	copy(msg, data)
	for i := 0; i < DataSize; i++ {
		coef := msg[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(c.generator); j++ {
			msg[i+j] ^= gfMul(c.generator[j], coef)
		}
	}
	copy(msg, data)
	return msg, nil
}

// DecodeBlock corrects up to MaxCorrectableErrors byte errors in a
// 255-byte codeword and returns the 223-byte data portion.
func (c *Codec) DecodeBlock(codeword []byte) ([]byte, error) {
	if len(codeword) != BlockSize {
		return nil, errors.New("rs: DecodeBlock requires exactly 255 bytes")
	}

	synd := computeSyndromes(codeword, ParitySize)
	if allZero(synd) {
		out := make([]byte, DataSize)
		copy(out, codeword[:DataSize])
		return out, nil
	}

	lambda, ok := berlekampMassey(synd)
	if !ok {
		return nil, ErrUncorrectableFEC
	}

	errs := len(lambda) - 1
	errPos := chienSearch(lambda, BlockSize)
	if len(errPos) != errs {
		return nil, ErrUncorrectableFEC
	}

	corrected := make([]byte, BlockSize)
	copy(corrected, codeword)

	omega := mulAscending(lambda, synd)
	if len(omega) > ParitySize {
		omega = omega[:ParitySize]
	}
	lambdaDeriv := formalDerivative(lambda)

	for _, p := range errPos {
		degree := BlockSize - 1 - p
		xInv := alphaPow(-degree)
		num := gfMul(alphaPow(degree), evalAscending(omega, xInv))
		den := evalAscending(lambdaDeriv, xInv)
		if den == 0 {
			return nil, ErrUncorrectableFEC
		}
		corrected[p] ^= gfDiv(num, den)
	}

	if !allZero(computeSyndromes(corrected, ParitySize)) {
		return nil, ErrUncorrectableFEC
	}

	out := make([]byte, DataSize)
	copy(out, corrected[:DataSize])
	return out, nil
}

// EncodeStream zero-pads data to a multiple of DataSize and encodes
// each block, returning the concatenated codewords.
func (c *Codec) EncodeStream(data []byte) []byte {
	padded := padToMultiple(data, DataSize)
	out := make([]byte, 0, len(padded)/DataSize*BlockSize)
	for i := 0; i < len(padded); i += DataSize {
		block, _ := c.EncodeBlock(padded[i : i+DataSize])
		out = append(out, block...)
	}
	return out
}

// DecodeStream decodes a concatenation of BlockSize codewords, returning
// the concatenated (still zero-padded) data portions. The caller is
// responsible for trimming to the real pre-padding length, which it
// knows from the frame header.
func (c *Codec) DecodeStream(codewords []byte) ([]byte, error) {
	if len(codewords)%BlockSize != 0 {
		return nil, errors.New("rs: stream length is not a multiple of 255")
	}
	out := make([]byte, 0, len(codewords)/BlockSize*DataSize)
	for i := 0; i < len(codewords); i += BlockSize {
		data, err := c.DecodeBlock(codewords[i : i+BlockSize])
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

func padToMultiple(data []byte, block int) []byte {
	rem := len(data) % block
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+(block-rem))
	copy(padded, data)
	return padded
}

func computeSyndromes(codeword []byte, nsym int) []byte {
	synd := make([]byte, nsym)
	for i := 0; i < nsym; i++ {
		synd[i] = evalBigEndian(codeword, alphaPow(i))
	}
	return synd
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// berlekampMassey finds the ascending-order error locator polynomial
// Lambda (Lambda[0] == 1 always) from the syndrome sequence. ok is
// false when the number of errors implied exceeds what ParitySize can
// correct.
func berlekampMassey(synd []byte) (lambda []byte, ok bool) {
	C := []byte{1}
	B := []byte{1}
	L := 0
	m := 1
	b := byte(1)

	nsym := len(synd)
	for n := 0; n < nsym; n++ {
		delta := synd[n]
		for i := 1; i <= L && i < len(C); i++ {
			delta ^= gfMul(C[i], synd[n-i])
		}
		if delta == 0 {
			m++
			continue
		}
		if 2*L <= n {
			T := append([]byte(nil), C...)
			scale := gfDiv(delta, b)
			C = subShift(C, B, scale, m)
			L = n + 1 - L
			B = T
			b = delta
			m = 1
		} else {
			scale := gfDiv(delta, b)
			C = subShift(C, B, scale, m)
			m++
		}
	}

	if 2*L > nsym {
		return nil, false
	}
	if L+1 > len(C) {
		// pad (can happen if the final update extended C further)
		padded := make([]byte, L+1)
		copy(padded, C)
		C = padded
	}
	return C[:L+1], true
}

// chienSearch returns the byte positions (0-indexed from the start of
// a BlockSize-byte codeword) where errors occurred, by exhaustively
// testing every nonzero field element against Lambda.
func chienSearch(lambda []byte, blockSize int) []int {
	var positions []int
	for degree := 0; degree < blockSize; degree++ {
		xInv := alphaPow(-degree)
		if evalAscending(lambda, xInv) == 0 {
			positions = append(positions, blockSize-1-degree)
		}
	}
	return positions
}

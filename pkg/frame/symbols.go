package frame

import "encoding/binary"

// symbolCountFieldSize is the width of the "frame length in symbols"
// field prepended to the framed stream, per spec §4.4.
const symbolCountFieldSize = 2

// PadByte fills the unused tail of the final OFDM symbol's payload.
const PadByte = 0x55

// Pack prepends a 2-byte big-endian symbol count to data, pads the
// result to a multiple of bytesPerSymbol with PadByte, and splits it
// into bytesPerSymbol-sized chunks, one per OFDM symbol payload.
func Pack(data []byte, bytesPerSymbol int) [][]byte {
	total := symbolCountFieldSize + len(data)
	numSymbols := (total + bytesPerSymbol - 1) / bytesPerSymbol
	if numSymbols == 0 {
		numSymbols = 1
	}

	padded := make([]byte, numSymbols*bytesPerSymbol)
	binary.BigEndian.PutUint16(padded[:symbolCountFieldSize], uint16(numSymbols))
	copy(padded[symbolCountFieldSize:], data)
	for i := total; i < len(padded); i++ {
		padded[i] = PadByte
	}

	symbols := make([][]byte, numSymbols)
	for i := 0; i < numSymbols; i++ {
		symbols[i] = padded[i*bytesPerSymbol : (i+1)*bytesPerSymbol]
	}
	return symbols
}

// Unpacker reassembles a Pack'd stream from OFDM symbol payloads fed
// one at a time, as they are demodulated, tracking the declared
// symbol count per spec §4.7 stage 6.
type Unpacker struct {
	bytesPerSymbol int
	buf            []byte
	count          int // -1 until the count field has arrived
}

// NewUnpacker creates an Unpacker for a framer that used bytesPerSymbol.
func NewUnpacker(bytesPerSymbol int) *Unpacker {
	return &Unpacker{bytesPerSymbol: bytesPerSymbol, count: -1}
}

// Feed appends one decoded OFDM symbol's payload bytes.
func (u *Unpacker) Feed(symbol []byte) {
	u.buf = append(u.buf, symbol...)
	if u.count < 0 && len(u.buf) >= symbolCountFieldSize {
		u.count = int(binary.BigEndian.Uint16(u.buf[:symbolCountFieldSize]))
	}
}

// SymbolCount returns the declared symbol count and whether it has
// been observed yet (it arrives embedded in the first symbol).
func (u *Unpacker) SymbolCount() (int, bool) {
	return u.count, u.count >= 0
}

// Done reports whether every declared symbol has been fed.
func (u *Unpacker) Done() bool {
	return u.count >= 0 && len(u.buf) >= u.count*u.bytesPerSymbol
}

// Stream returns the reassembled byte stream (count field stripped,
// trailing padding beyond the declared symbol count excluded). It
// still contains the deterministic PadByte tail within the last
// symbol; callers trim to the real content length using the header's
// declared body length.
func (u *Unpacker) Stream() []byte {
	if u.count < 0 {
		return nil
	}
	end := u.count * u.bytesPerSymbol
	if end > len(u.buf) {
		end = len(u.buf)
	}
	return u.buf[symbolCountFieldSize:end]
}

package huffman

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTripEmpty(t *testing.T) {
	out := Compress(nil)
	got, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

func TestRoundTripSingleDistinctByte(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 100)
	out := Compress(data)
	got, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %v want %v", got, data)
	}
}

func TestRoundTripTwoSymbols(t *testing.T) {
	data := bytes.Repeat([]byte{0x00, 0x01}, 50)
	out := Compress(data)
	got, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripAllByteValues(t *testing.T) {
	data := make([]byte, 256*4)
	for i := range data {
		data[i] = byte(i % 256)
	}
	out := Compress(data)
	got, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch for full byte range")
	}
}

func TestRoundTripSkewedDistribution(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	data := make([]byte, 20000)
	for i := range data {
		switch {
		case r.Float64() < 0.7:
			data[i] = 'a'
		case r.Float64() < 0.9:
			data[i] = 'b'
		default:
			data[i] = byte(r.Intn(256))
		}
	}
	out := Compress(data)
	if len(out) >= len(data) {
		t.Fatalf("expected skewed data to compress, got %d >= %d", len(out), len(data))
	}
	got, err := Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch on skewed distribution")
	}
}

func TestDecompressTruncatedHeader(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3})
	if err != ErrCorruptCompression {
		t.Fatalf("expected ErrCorruptCompression, got %v", err)
	}
}

func TestDecompressInconsistentLengths(t *testing.T) {
	out := Compress([]byte("hello world"))
	// Corrupt the length table: mark an absent symbol as length 1,
	// which makes two symbols both claim the single-bit code.
	corrupted := append([]byte(nil), out...)
	for i := 0; i < lengthTableSize; i++ {
		if corrupted[i] == 0 {
			corrupted[i] = 1
			break
		}
	}
	_, err := Decompress(corrupted)
	if err == nil {
		t.Fatalf("expected an error decoding an inconsistent length table")
	}
}

func TestDecompressTruncatedBody(t *testing.T) {
	out := Compress(bytes.Repeat([]byte("soniclink"), 50))
	truncated := out[:headerSize+2]
	_, err := Decompress(truncated)
	if err != ErrCorruptCompression {
		t.Fatalf("expected ErrCorruptCompression, got %v", err)
	}
}

func TestAssignCanonicalCodesOrdering(t *testing.T) {
	var lengths [lengthTableSize]byte
	lengths[0] = 2
	lengths[1] = 2
	lengths[2] = 1
	codes, maxLen := assignCanonicalCodes(lengths)
	if maxLen != 2 {
		t.Fatalf("expected maxLen 2, got %d", maxLen)
	}
	if codes[2] != 0 {
		t.Fatalf("shortest code should be assigned first: got %d", codes[2])
	}
	if codes[0] == codes[1] {
		t.Fatalf("equal-length codes must differ")
	}
}

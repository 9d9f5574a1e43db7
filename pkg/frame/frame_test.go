package frame

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTripUnencrypted(t *testing.T) {
	h := Header{Flags: FlagCompressed, BodyLen: 17}
	data := h.Marshal()
	if len(data) != fixedHeaderSize {
		t.Fatalf("expected %d bytes, got %d", fixedHeaderSize, len(data))
	}
	got, n, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if n != len(data) {
		t.Fatalf("expected to consume %d bytes, got %d", len(data), n)
	}
	if got.Flags != h.Flags || got.BodyLen != h.BodyLen {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
	if got.Encrypted() {
		t.Fatalf("expected Encrypted() false")
	}
}

func TestHeaderRoundTripEncrypted(t *testing.T) {
	wrapped := bytes.Repeat([]byte{0xAB}, WrappedKeySize)
	nonce := bytes.Repeat([]byte{0xCD}, NonceSize)
	h := Header{Flags: FlagEncrypted, BodyLen: 1024, WrappedKey: wrapped, Nonce: nonce}
	data := h.Marshal()
	if len(data) != fixedHeaderSize+WrappedKeySize+NonceSize {
		t.Fatalf("unexpected encrypted header size %d", len(data))
	}
	got, n, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if n != len(data) {
		t.Fatalf("expected full consumption")
	}
	if !bytes.Equal(got.WrappedKey, wrapped) || !bytes.Equal(got.Nonce, nonce) {
		t.Fatalf("wrapped key / nonce mismatch")
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	h := Header{BodyLen: 1}
	data := h.Marshal()
	data[0] ^= 0xFF
	if _, _, err := ParseHeader(data); err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestParseHeaderTruncated(t *testing.T) {
	if _, _, err := ParseHeader([]byte{0x53, 0x4E}); err != ErrTruncatedHeader {
		t.Fatalf("expected ErrTruncatedHeader, got %v", err)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 40)
	const bytesPerSymbol = 24

	symbols := Pack(data, bytesPerSymbol)
	u := NewUnpacker(bytesPerSymbol)
	for _, s := range symbols {
		if len(s) != bytesPerSymbol {
			t.Fatalf("expected symbol of %d bytes, got %d", bytesPerSymbol, len(s))
		}
		u.Feed(s)
	}
	if !u.Done() {
		t.Fatalf("expected Unpacker to be done after feeding all declared symbols")
	}
	count, ok := u.SymbolCount()
	if !ok || count != len(symbols) {
		t.Fatalf("expected symbol count %d, got %d (ok=%v)", len(symbols), count, ok)
	}
	stream := u.Stream()
	if !bytes.Equal(stream[:len(data)], data) {
		t.Fatalf("reassembled stream mismatch")
	}
	for _, b := range stream[len(data):] {
		if b != PadByte {
			t.Fatalf("expected trailing pad byte 0x55, got %#x", b)
		}
	}
}

func TestPackBoundaryExactMultiple(t *testing.T) {
	const bytesPerSymbol = 24
	data := make([]byte, bytesPerSymbol-symbolCountFieldSize)
	symbols := Pack(data, bytesPerSymbol)
	if len(symbols) != 1 {
		t.Fatalf("expected exactly one symbol, got %d", len(symbols))
	}
}

func TestPackEmptyData(t *testing.T) {
	symbols := Pack(nil, 24)
	if len(symbols) != 1 {
		t.Fatalf("expected one symbol for empty data, got %d", len(symbols))
	}
}

func TestCRC32Deterministic(t *testing.T) {
	h := Header{BodyLen: 3}
	header := h.Marshal()
	body := []byte("abc")
	a := CRC32(header, body)
	b := CRC32(header, body)
	if a != b {
		t.Fatalf("CRC32 not deterministic")
	}
	if a != CRC32(header, []byte("abc")) {
		t.Fatalf("CRC32 mismatch on identical input")
	}
}

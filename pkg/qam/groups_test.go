package qam

import (
	"bytes"
	"testing"
)

func TestBytesGroupsRoundTrip(t *testing.T) {
	const bytesPerSymbol = 24
	const numGroups = bytesPerSymbol * 8 / 6 // 32
	data := make([]byte, bytesPerSymbol)
	for i := range data {
		data[i] = byte(i*37 + 11)
	}
	groups := BytesToGroups(data, numGroups)
	for _, g := range groups {
		if g > 0x3F {
			t.Fatalf("group value out of 6-bit range: %d", g)
		}
	}
	back := GroupsToBytes(groups, bytesPerSymbol)
	if !bytes.Equal(back, data) {
		t.Fatalf("round trip mismatch: got %v want %v", back, data)
	}
}

func TestBytesGroupsRoundTripZero(t *testing.T) {
	const bytesPerSymbol = 3
	const numGroups = 4
	data := make([]byte, bytesPerSymbol)
	groups := BytesToGroups(data, numGroups)
	back := GroupsToBytes(groups, bytesPerSymbol)
	if !bytes.Equal(back, data) {
		t.Fatalf("zero round trip mismatch")
	}
}

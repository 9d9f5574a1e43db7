// Package huffman implements the two-pass canonical byte-level Huffman
// codec of spec component C1.
//
// The encoder computes byte frequencies, builds a canonical code table
// (lengths sorted, lexicographic among equal lengths), and emits a
// 256-entry length table (1 byte each, 0 meaning absent) followed by a
// 4-byte big-endian symbol count and the bit-packed code. The symbol
// count is not named explicitly in spec §4.1's field list but is
// required to know where the bit-packed stream ends without treating
// trailing pad bits as spurious extra symbols.
package huffman

import (
	"container/heap"
	"encoding/binary"
	"errors"
)

// ErrCorruptCompression is returned when the length table is
// inconsistent or the packed stream ends mid-symbol.
var ErrCorruptCompression = errors.New("huffman: corrupt compressed stream")

const lengthTableSize = 256
const countFieldSize = 4
const headerSize = lengthTableSize + countFieldSize

type node struct {
	sym         int // -1 for internal nodes
	left, right *node
}

type pqItem struct {
	freq int
	seq  int
	n    *node
}

type itemHeap []*pqItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x interface{}) { *h = append(*h, x.(*pqItem)) }
func (h *itemHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func buildTree(freqs [lengthTableSize]int) *node {
	pq := &itemHeap{}
	heap.Init(pq)
	seq := 0
	for sym, f := range freqs {
		if f == 0 {
			continue
		}
		heap.Push(pq, &pqItem{freq: f, seq: seq, n: &node{sym: sym}})
		seq++
	}
	if pq.Len() == 0 {
		return nil
	}
	if pq.Len() == 1 {
		only := heap.Pop(pq).(*pqItem)
		return &node{sym: -1, left: only.n}
	}
	for pq.Len() > 1 {
		a := heap.Pop(pq).(*pqItem)
		b := heap.Pop(pq).(*pqItem)
		parent := &node{sym: -1, left: a.n, right: b.n}
		heap.Push(pq, &pqItem{freq: a.freq + b.freq, seq: seq, n: parent})
		seq++
	}
	return heap.Pop(pq).(*pqItem).n
}

func computeLengths(root *node) [lengthTableSize]byte {
	var lengths [lengthTableSize]byte
	if root == nil {
		return lengths
	}
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		if n.sym >= 0 {
			l := depth
			if l == 0 {
				l = 1
			}
			lengths[n.sym] = byte(l)
			return
		}
		if n.left != nil {
			walk(n.left, depth+1)
		}
		if n.right != nil {
			walk(n.right, depth+1)
		}
	}
	walk(root, 0)
	return lengths
}

// assignCanonicalCodes assigns codes in ascending (length, symbol)
// order, the canonical form spec §4.1 requires.
func assignCanonicalCodes(lengths [lengthTableSize]byte) (codes [lengthTableSize]uint32, maxLen int) {
	var count [lengthTableSize + 1]int
	for _, l := range lengths {
		if l > 0 {
			count[l]++
			if int(l) > maxLen {
				maxLen = int(l)
			}
		}
	}
	var nextCode [lengthTableSize + 1]uint32
	var code uint32
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + uint32(count[bits-1])) << 1
		nextCode[bits] = code
	}
	for sym := 0; sym < lengthTableSize; sym++ {
		l := lengths[sym]
		if l == 0 {
			continue
		}
		codes[sym] = nextCode[l]
		nextCode[l]++
	}
	return codes, maxLen
}

// Compress encodes data with two-pass canonical Huffman coding.
func Compress(data []byte) []byte {
	var freqs [lengthTableSize]int
	for _, b := range data {
		freqs[b]++
	}
	root := buildTree(freqs)
	lengths := computeLengths(root)
	codes, _ := assignCanonicalCodes(lengths)

	out := make([]byte, headerSize)
	copy(out, lengths[:])
	binary.BigEndian.PutUint32(out[lengthTableSize:], uint32(len(data)))

	bw := newBitWriter()
	for _, b := range data {
		bw.writeBits(codes[b], int(lengths[b]))
	}
	return append(out, bw.flush()...)
}

// Decompress reverses Compress, returning ErrCorruptCompression if the
// length table or packed stream is inconsistent.
func Decompress(compressed []byte) ([]byte, error) {
	if len(compressed) < headerSize {
		return nil, ErrCorruptCompression
	}
	var lengths [lengthTableSize]byte
	copy(lengths[:], compressed[:lengthTableSize])
	count := binary.BigEndian.Uint32(compressed[lengthTableSize:headerSize])

	if count == 0 {
		return []byte{}, nil
	}

	dec, err := newDecodeTable(lengths)
	if err != nil {
		return nil, err
	}

	br := newBitReader(compressed[headerSize:])
	out := make([]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		sym, err := dec.decodeOne(br)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		out = append(out, byte(sym))
	}
	return out, nil
}

// Package river maintains the per-edge waterway state of hex cells: which
// edges carry an outgoing river connection and which perimeter segments
// draw the river line around a cell between its connections.
package river

import "github.com/hexworld/hexcore/internal/hex"

// MaxSize is the largest river width class a 3-bit field can hold.
const MaxSize = 7

// Edge is the waterway state of one hex edge, indexed by hex.Direction.
// Segment is the perimeter piece running from this edge to the next one
// clockwise; Size is the outgoing connection across this edge. Both are
// width classes where 0 means absent.
type Edge struct {
	Segment uint8
	Size    uint8
}

// Waterways holds the six edges of a cell. Algorithms work on this form;
// the packed layout exists only in Pack/Unpack.
type Waterways [hex.DirectionCount]Edge

// PackedBytes is the byte width of the packed container.
const PackedBytes = 5

const (
	fieldBits  = 3
	fieldMask  = 1<<fieldBits - 1
	sizeOffset = hex.DirectionCount * fieldBits
)

// Pack encodes six 3-bit segment fields (bits 0-17) followed by six 3-bit
// sizes (bits 18-35). Bits 36-39 of the 40-bit container stay zero.
func (w Waterways) Pack() uint64 {
	var v uint64
	for d, e := range w {
		v |= uint64(min(e.Segment, MaxSize)&fieldMask) << (d * fieldBits)
		v |= uint64(min(e.Size, MaxSize)&fieldMask) << (sizeOffset + d*fieldBits)
	}
	return v
}

// Unpack is the inverse of Pack. Reserved bits are ignored.
func Unpack(v uint64) Waterways {
	var w Waterways
	for d := range w {
		w[d].Segment = uint8(v >> (d * fieldBits) & fieldMask)
		w[d].Size = uint8(v >> (sizeOffset + d*fieldBits) & fieldMask)
	}
	return w
}

// Bytes returns the packed form little-endian in five bytes.
func (w Waterways) Bytes() [PackedBytes]byte {
	v := w.Pack()
	var b [PackedBytes]byte
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// FromBytes decodes the five-byte packed form.
func FromBytes(b [PackedBytes]byte) Waterways {
	var v uint64
	for i := range b {
		v |= uint64(b[i]) << (8 * i)
	}
	return Unpack(v)
}

// Empty reports whether no edge carries a segment or connection.
func (w Waterways) Empty() bool {
	return w == Waterways{}
}

func clampSize(size uint8) uint8 {
	if size == 0 {
		return 1
	}
	return min(size, MaxSize)
}

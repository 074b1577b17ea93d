package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

/*
	H256 is a 256 bit value that doubles as a key and a digest in the sparse merkle tree.
	When treated as a path, bit 255 (the most significant bit of the first byte) is the branch
	taken just below the root and bit 0 (the least significant bit of the last byte) is the
	branch taken just above the leaf. Height h in the tree corresponds to bit h.
*/

const (
	H256Size   = 32             // size of an H256 in bytes
	TreeHeight = H256Size * 8   // number of levels in the tree, 256 is 'above the root'
	maxIndex   = H256Size - 1   // index of the last byte
	byteSize   = 8              // bits in a byte
	maxBit     = TreeHeight - 1 // the highest addressable bit
)

// H256 is a 32 byte big-endian bit-addressable value
type H256 [H256Size]byte

// ZeroH256() returns the canonical 'zero' sentinel
func ZeroH256() H256 { return H256{} }

// NewH256FromBytes() copies exactly 32 bytes into an H256
func NewH256FromBytes(b []byte) (h H256, err error) {
	if len(b) != H256Size {
		return h, fmt.Errorf("invalid h256 length: expected %d got %d", H256Size, len(b))
	}
	copy(h[:], b)
	return
}

// NewH256FromString() decodes a hex string into an H256
func NewH256FromString(s string) (h H256, err error) {
	bz, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	return NewH256FromBytes(bz)
}

// IsZero() returns true if every bit is clear
func (h H256) IsZero() bool { return h == H256{} }

// Equals() compares two H256 values
func (h H256) Equals(o H256) bool { return h == o }

// Compare() orders two H256 values byte-wise
func (h H256) Compare(o H256) int { return bytes.Compare(h[:], o[:]) }

// Bytes() returns a copy of the underlying bytes
func (h H256) Bytes() []byte {
	b := make([]byte, H256Size)
	copy(b, h[:])
	return b
}

// String() returns the hex representation
func (h H256) String() string { return hex.EncodeToString(h[:]) }

// MarshalJSON() encodes the H256 as a hex string
func (h H256) MarshalJSON() ([]byte, error) { return json.Marshal(h.String()) }

// UnmarshalJSON() decodes a hex string into the H256
func (h *H256) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	decoded, err := NewH256FromString(s)
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// GetBit() reads bit i
func (h H256) GetBit(i uint8) bool {
	bytePos, bitPos := bitPosition(i)
	return (h[bytePos]>>bitPos)&1 != 0
}

// SetBit() sets bit i
func (h *H256) SetBit(i uint8) {
	bytePos, bitPos := bitPosition(i)
	h[bytePos] |= 1 << bitPos
}

// ClearBit() clears bit i
func (h *H256) ClearBit(i uint8) {
	bytePos, bitPos := bitPosition(i)
	h[bytePos] &^= 1 << bitPos
}

// ForkHeight() returns the highest bit position where the two paths differ
// NOTE: identical paths also return 0, callers that care must check Equals()
func (h H256) ForkHeight(o H256) uint8 {
	for i := maxBit; i >= 0; i-- {
		if h.GetBit(uint8(i)) != o.GetBit(uint8(i)) {
			return uint8(i)
		}
	}
	return 0
}

// ParentPath() keeps only the bits strictly above height
func (h H256) ParentPath(height uint8) H256 {
	// the parent of the top level is above the root
	if height == maxBit {
		return ZeroH256()
	}
	return h.CopyBits(RangeFrom(uint16(height) + 1))
}

// CopyBits() copies the bits in range r into a zeroed H256
// CONTRACT: an excluded start or an end below start is a caller bug and panics
func (h H256) CopyBits(r BitRange) (target H256) {
	start, end := r.bounds()
	if start >= TreeHeight {
		return
	}
	if end > TreeHeight {
		end = TreeHeight
	}
	if end < start {
		panic(fmt.Sprintf("end can't be less than start: start %d end %d", start, end))
	}
	// whole bytes covered by the range
	endByte := H256Size - start/byteSize
	if start%byteSize != 0 {
		endByte--
	}
	startByte := H256Size - end/byteSize
	if startByte < H256Size && startByte <= endByte {
		copy(target[startByte:endByte], h[startByte:endByte])
	}
	// fractional bytes at the low end of the range
	for i := start; i < min((H256Size-endByte)*byteSize, end); i++ {
		if h.GetBit(uint8(i)) {
			target.SetBit(uint8(i))
		}
	}
	// fractional bytes at the high end of the range
	for i := max((H256Size-startByte)*byteSize, start); i < end; i++ {
		if h.GetBit(uint8(i)) {
			target.SetBit(uint8(i))
		}
	}
	return
}

// bitPosition() maps a bit index to its byte and in-byte offset
func bitPosition(i uint8) (bytePos, bitPos uint8) {
	return maxIndex - i/byteSize, i % byteSize
}

// BoundKind describes one end of a BitRange
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one end of a BitRange
type Bound struct {
	Kind  BoundKind
	Index uint16
}

// BitRange selects bit indices for CopyBits
type BitRange struct {
	Start Bound
	End   Bound
}

// Range() is the half-open range [start, end)
func Range(start, end uint16) BitRange {
	return BitRange{Start: Bound{Included, start}, End: Bound{Excluded, end}}
}

// RangeInclusive() is the closed range [start, end]
func RangeInclusive(start, end uint16) BitRange {
	return BitRange{Start: Bound{Included, start}, End: Bound{Included, end}}
}

// RangeFrom() is [start, 256)
func RangeFrom(start uint16) BitRange {
	return BitRange{Start: Bound{Included, start}, End: Bound{Kind: Unbounded}}
}

// RangeTo() is [0, end)
func RangeTo(end uint16) BitRange {
	return BitRange{Start: Bound{Kind: Unbounded}, End: Bound{Excluded, end}}
}

// RangeFull() is every bit
func RangeFull() BitRange { return BitRange{} }

// bounds() resolves the range into a half-open [start, end) pair
func (r BitRange) bounds() (start, end int) {
	switch r.Start.Kind {
	case Included:
		start = int(r.Start.Index)
	case Excluded:
		panic(fmt.Sprintf("excluded start is not allowed: %d", r.Start.Index))
	}
	switch r.End.Kind {
	case Included:
		end = int(r.End.Index) + 1
	case Excluded:
		end = int(r.End.Index)
	default:
		end = TreeHeight
	}
	return
}

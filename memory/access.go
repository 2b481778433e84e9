package memory

import (
	"fmt"
	"math/bits"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// WidthKind is the shape of an access.
type WidthKind uint8

const (
	WidthByte WidthKind = iota
	WidthHalfWord
	WidthWord
	WidthDoubleWord
	WidthQuadWord
	WidthVector
)

// AccessWidth fixes the byte size of an access. Lanes is only meaningful for
// vector accesses, where it is also the size in bytes.
type AccessWidth struct {
	Kind  WidthKind
	Lanes uint8
}

var (
	Byte       = AccessWidth{Kind: WidthByte}
	HalfWord   = AccessWidth{Kind: WidthHalfWord}
	Word       = AccessWidth{Kind: WidthWord}
	DoubleWord = AccessWidth{Kind: WidthDoubleWord}
	QuadWord   = AccessWidth{Kind: WidthQuadWord}
)

// Vector returns a vector access width of the given lane count.
func Vector(lanes uint8) AccessWidth {
	return AccessWidth{Kind: WidthVector, Lanes: lanes}
}

// WidthForSize returns the scalar width of size bytes.
func WidthForSize(size int) (AccessWidth, bool) {
	switch size {
	case 1:
		return Byte, true
	case 2:
		return HalfWord, true
	case 4:
		return Word, true
	case 8:
		return DoubleWord, true
	case 16:
		return QuadWord, true
	}
	return AccessWidth{}, false
}

// Size returns the access size in bytes.
func (w AccessWidth) Size() int {
	switch w.Kind {
	case WidthByte:
		return 1
	case WidthHalfWord:
		return 2
	case WidthWord:
		return 4
	case WidthDoubleWord:
		return 8
	case WidthQuadWord:
		return 16
	default:
		return int(w.Lanes)
	}
}

// IsVector reports whether w is a vector width.
func (w AccessWidth) IsVector() bool { return w.Kind == WidthVector }

func (w AccessWidth) String() string {
	switch w.Kind {
	case WidthByte:
		return "Byte"
	case WidthHalfWord:
		return "HalfWord"
	case WidthWord:
		return "Word"
	case WidthDoubleWord:
		return "DoubleWord"
	case WidthQuadWord:
		return "QuadWord"
	default:
		return fmt.Sprintf("Vector(%d)", w.Lanes)
	}
}

// Alignment is the alignment requirement of an access.
type Alignment uint8

const (
	Natural Alignment = iota
	Unaligned
	Aligned1
	Aligned2
	Aligned4
	Aligned8
	Aligned16
	Aligned32
	Aligned64
	Strict
)

func (a Alignment) String() string {
	switch a {
	case Natural:
		return "Natural"
	case Unaligned:
		return "Unaligned"
	case Strict:
		return "Strict"
	case Aligned1, Aligned2, Aligned4, Aligned8, Aligned16, Aligned32, Aligned64:
		return fmt.Sprintf("Aligned%d", a.bytes())
	default:
		return "Alignment(?)"
	}
}

// bytes returns N for AlignedN and 0 otherwise.
func (a Alignment) bytes() uint64 {
	if a < Aligned1 || a > Aligned64 {
		return 0
	}
	return 1 << (a - Aligned1)
}

// AccessType is what an access does to memory.
type AccessType uint8

const (
	Read AccessType = iota
	Write
	ReadWrite
	Execute
	AtomicRead
	AtomicWrite
	AtomicReadWrite
)

// IsAtomic reports whether t is one of the atomic access types.
func (t AccessType) IsAtomic() bool {
	return t == AtomicRead || t == AtomicWrite || t == AtomicReadWrite
}

func (t AccessType) String() string {
	switch t {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case ReadWrite:
		return "ReadWrite"
	case Execute:
		return "Execute"
	case AtomicRead:
		return "AtomicRead"
	case AtomicWrite:
		return "AtomicWrite"
	case AtomicReadWrite:
		return "AtomicReadWrite"
	default:
		return "AccessType(?)"
	}
}

// Flags qualify an access.
type Flags struct {
	Volatile    bool
	Atomic      bool
	Acquire     bool
	Release     bool
	Locked      bool
	Cacheable   bool
	Privileged  bool
	EndianAware bool
}

// DefaultFlags returns flags for a plain cacheable access.
func DefaultFlags() Flags {
	return Flags{Cacheable: true}
}

// AccessPattern describes one memory access relative to a base register.
// RepeatCount 0 means the access is not known to repeat.
type AccessPattern struct {
	BaseReg     arch.RegID
	Offset      int64
	Width       AccessWidth
	Alignment   Alignment
	Access      AccessType
	Flags       Flags
	RepeatCount uint32
}

// NewAccessPattern returns a naturally aligned read with default flags.
func NewAccessPattern(base arch.RegID, offset int64, width AccessWidth) AccessPattern {
	return AccessPattern{
		BaseReg:   base,
		Offset:    offset,
		Width:     width,
		Alignment: Natural,
		Access:    Read,
		Flags:     DefaultFlags(),
	}
}

func (p AccessPattern) WithAlignment(a Alignment) AccessPattern {
	p.Alignment = a
	return p
}

func (p AccessPattern) WithAccessType(t AccessType) AccessPattern {
	p.Access = t
	return p
}

func (p AccessPattern) WithFlags(f Flags) AccessPattern {
	p.Flags = f
	return p
}

func (p AccessPattern) WithRepeat(count uint32) AccessPattern {
	p.RepeatCount = count
	return p
}

// Size returns the access size in bytes.
func (p AccessPattern) Size() int { return p.Width.Size() }

// Address returns the offset reinterpreted as an absolute address.
func (p AccessPattern) Address() uint64 { return uint64(p.Offset) }

// IsAtomic reports whether the access is atomic by flag or by type.
func (p AccessPattern) IsAtomic() bool {
	return p.Flags.Atomic || p.Access.IsAtomic()
}

// RequiredAlignment returns the alignment in bytes the access must satisfy.
func (p AccessPattern) RequiredAlignment() uint64 {
	switch p.Alignment {
	case Natural, Strict:
		return uint64(p.Size())
	case Unaligned:
		return 1
	default:
		return p.Alignment.bytes()
	}
}

func (p AccessPattern) String() string {
	return fmt.Sprintf("%s %s [%s%+d] %s", p.Access, p.Width, p.BaseReg, p.Offset, p.Alignment)
}

// ActualAlignment returns the largest power of two dividing addr.
// Address 0 is aligned to every boundary and reports 1<<63.
func ActualAlignment(addr uint64) uint64 {
	if addr == 0 {
		return 1 << 63
	}
	return 1 << bits.TrailingZeros64(addr)
}

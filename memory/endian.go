package memory

import (
	"fmt"
	"slices"
	"unsafe"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// ConversionStrategy selects how an EndiannessConverter swaps bytes.
type ConversionStrategy uint8

const (
	// Direct reverses the whole buffer.
	Direct ConversionStrategy = iota
	// Optimized uses paired swaps for 2, 4, 8 and 16 byte buffers and
	// reverses anything else.
	Optimized
	// Lazy is a stub: it leaves the buffer unchanged. Deferred conversion
	// needs a consumer that tracks converted regions, which does not exist.
	Lazy
	// Precomputed is a stub: it behaves like Direct. No lookup tables are
	// built.
	Precomputed
)

func (s ConversionStrategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case Optimized:
		return "optimized"
	case Lazy:
		return "lazy"
	case Precomputed:
		return "precomputed"
	default:
		return "unknown"
	}
}

// EndiannessConverter converts byte order between a source and a target.
// It is stateless and safe for concurrent use.
type EndiannessConverter struct {
	Source   arch.Endianness
	Target   arch.Endianness
	Strategy ConversionStrategy
}

// NewEndiannessConverter creates a converter.
func NewEndiannessConverter(source, target arch.Endianness, strategy ConversionStrategy) EndiannessConverter {
	return EndiannessConverter{Source: source, Target: target, Strategy: strategy}
}

// NeedsConversion reports whether source and target byte orders differ.
func (c EndiannessConverter) NeedsConversion() bool { return c.Source != c.Target }

// Convert converts buf in place as a single value.
func (c EndiannessConverter) Convert(buf []byte) error {
	if !c.NeedsConversion() {
		return nil
	}
	switch c.Strategy {
	case Direct, Precomputed:
		slices.Reverse(buf)
	case Optimized:
		swapOptimized(buf)
	case Lazy:
	default:
		return &Error{Code: CodeEndiannessError, Size: len(buf),
			Detail: fmt.Sprintf("unknown conversion strategy %d", c.Strategy)}
	}
	return nil
}

// ConvertWords converts buf in place as consecutive values of wordSize bytes.
func (c EndiannessConverter) ConvertWords(buf []byte, wordSize int) error {
	switch wordSize {
	case 1, 2, 4, 8, 16:
	default:
		return &Error{Code: CodeInvalidSize, Size: wordSize}
	}
	if len(buf)%wordSize != 0 {
		return &Error{
			Code:   CodeEndiannessError,
			Size:   len(buf),
			Detail: fmt.Sprintf("buffer of %d bytes is not a multiple of %d-byte words", len(buf), wordSize),
		}
	}
	if !c.NeedsConversion() || wordSize == 1 {
		return nil
	}
	for off := 0; off < len(buf); off += wordSize {
		if err := c.Convert(buf[off : off+wordSize]); err != nil {
			return err
		}
	}
	return nil
}

// ConvertValue converts the in-memory representation of *v in place.
// T must not contain pointers.
func ConvertValue[T any](c EndiannessConverter, v *T) error {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
	return c.Convert(buf)
}

func swapOptimized(b []byte) {
	switch len(b) {
	case 2:
		b[0], b[1] = b[1], b[0]
	case 4:
		b[0], b[3] = b[3], b[0]
		b[1], b[2] = b[2], b[1]
	case 8:
		b[0], b[7] = b[7], b[0]
		b[1], b[6] = b[6], b[1]
		b[2], b[5] = b[5], b[2]
		b[3], b[4] = b[4], b[3]
	case 16:
		for i := 0; i < 8; i++ {
			b[i], b[15-i] = b[15-i], b[i]
		}
	default:
		slices.Reverse(b)
	}
}

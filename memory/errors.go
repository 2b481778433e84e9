package memory

import (
	"fmt"

	"github.com/RunningShrimp/vm-sub002/errors"
)

// Code identifies one of the closed set of memory errors.
type Code uint8

const (
	CodeAlignmentViolation Code = iota + 1
	CodeOutOfBounds // reserved, not produced by this package
	CodeInvalidSize
	CodeProtectionViolation
	CodePageFault // reserved, not produced by this package
	CodeAtomicViolation
	CodeEndiannessError
)

func (c Code) String() string {
	switch c {
	case CodeAlignmentViolation:
		return "alignment_violation"
	case CodeOutOfBounds:
		return "out_of_bounds"
	case CodeInvalidSize:
		return "invalid_size"
	case CodeProtectionViolation:
		return "protection_violation"
	case CodePageFault:
		return "page_fault"
	case CodeAtomicViolation:
		return "atomic_violation"
	case CodeEndiannessError:
		return "endianness_error"
	default:
		return "unknown"
	}
}

// Error is a memory access failure. Required holds the alignment for
// alignment violations.
type Error struct {
	Detail   string
	Address  uint64
	Required uint64
	Size     int
	Code     Code
}

// Sentinels for errors.Is; matching compares Code only.
var (
	ErrAlignmentViolation  = &Error{Code: CodeAlignmentViolation}
	ErrOutOfBounds         = &Error{Code: CodeOutOfBounds}
	ErrInvalidSize         = &Error{Code: CodeInvalidSize}
	ErrProtectionViolation = &Error{Code: CodeProtectionViolation}
	ErrPageFault           = &Error{Code: CodePageFault}
	ErrAtomicViolation     = &Error{Code: CodeAtomicViolation}
	ErrEndiannessError     = &Error{Code: CodeEndiannessError}
)

func (e *Error) Error() string {
	switch e.Code {
	case CodeAlignmentViolation:
		return fmt.Sprintf("memory access alignment violation: address %#x not aligned to %d bytes", e.Address, e.Required)
	case CodeOutOfBounds:
		return fmt.Sprintf("memory access out of bounds: address %#x, size %d", e.Address, e.Size)
	case CodeInvalidSize:
		return fmt.Sprintf("invalid memory access size: %d", e.Size)
	case CodeProtectionViolation:
		return "memory protection violation: " + e.Detail
	case CodePageFault:
		return fmt.Sprintf("page fault at address %#x: %s", e.Address, e.Detail)
	case CodeAtomicViolation:
		return "atomic operation violation: " + e.Detail
	case CodeEndiannessError:
		return "endianness conversion error: " + e.Detail
	default:
		return "memory error"
	}
}

// Is reports whether target is a memory error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// VMError converts e into the unified VM error. e is kept as the cause.
func (e *Error) VMError() *errors.Error {
	const phase = errors.PhaseMemory
	switch e.Code {
	case CodeAlignmentViolation:
		return errors.AccessViolation(phase, e.Address,
			fmt.Sprintf("not aligned to %d bytes", e.Required), e)
	case CodeOutOfBounds:
		return errors.AccessViolation(phase, e.Address,
			fmt.Sprintf("%d bytes out of bounds", e.Size), e)
	case CodeInvalidSize:
		return errors.InvalidParameter(phase, "size", e.Size, "invalid memory access size", e)
	case CodeProtectionViolation:
		return errors.AccessViolation(phase, e.Address, e.Detail, e)
	case CodePageFault:
		return errors.PageFault(phase, fmt.Sprintf("%#x: %s", e.Address, e.Detail), e)
	case CodeAtomicViolation:
		return errors.AccessViolation(phase, e.Address, "atomic: "+e.Detail, e)
	case CodeEndiannessError:
		return errors.Wrap(phase, errors.KindInvalidData, e, e.Detail)
	default:
		return errors.Internal(phase, e.Error(), e)
	}
}

package pattern

import (
	"fmt"

	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/errors"
)

// Code identifies one of the closed set of pattern errors.
type Code uint8

const (
	CodeInvalidPattern Code = iota + 1
	CodePatternNotFound
	CodeIncompatibleOperands
	CodeUnsupportedArchitecture
	CodeMatchingFailed
)

func (c Code) String() string {
	switch c {
	case CodeInvalidPattern:
		return "invalid_pattern"
	case CodePatternNotFound:
		return "pattern_not_found"
	case CodeIncompatibleOperands:
		return "incompatible_operands"
	case CodeUnsupportedArchitecture:
		return "unsupported_architecture"
	case CodeMatchingFailed:
		return "matching_failed"
	default:
		return "unknown"
	}
}

// Error is a pattern matching failure. Op is the operation or pattern
// involved.
type Error struct {
	Op     string
	Detail string
	Code   Code
	Arch   arch.Architecture
}

// Sentinels for errors.Is; matching compares Code only.
var (
	ErrInvalidPattern          = &Error{Code: CodeInvalidPattern}
	ErrPatternNotFound         = &Error{Code: CodePatternNotFound}
	ErrIncompatibleOperands    = &Error{Code: CodeIncompatibleOperands}
	ErrUnsupportedArchitecture = &Error{Code: CodeUnsupportedArchitecture}
	ErrMatchingFailed          = &Error{Code: CodeMatchingFailed}
)

func (e *Error) Error() string {
	switch e.Code {
	case CodeInvalidPattern:
		return fmt.Sprintf("invalid instruction pattern %q: %s", e.Op, e.Detail)
	case CodePatternNotFound:
		return fmt.Sprintf("pattern not found for operation %q", e.Op)
	case CodeIncompatibleOperands:
		return fmt.Sprintf("incompatible operands for pattern %q: %s", e.Op, e.Detail)
	case CodeUnsupportedArchitecture:
		return fmt.Sprintf("unsupported architecture for pattern: %s", e.Arch)
	case CodeMatchingFailed:
		return fmt.Sprintf("pattern matching failed for %q: %s", e.Op, e.Detail)
	default:
		return "pattern error"
	}
}

// Is reports whether target is a pattern error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// VMError converts e into the unified VM error. e is kept as the cause.
func (e *Error) VMError() *errors.Error {
	const phase = errors.PhasePattern
	switch e.Code {
	case CodeInvalidPattern:
		return errors.InvalidParameter(phase, "pattern", e.Op, e.Detail, e)
	case CodePatternNotFound:
		return errors.New(phase, errors.KindNotFound).
			Param("operation").Value(e.Op).Detail("no pattern").Cause(e).Build()
	case CodeIncompatibleOperands:
		return errors.InvalidParameter(phase, "operands", e.Op, e.Detail, e)
	case CodeUnsupportedArchitecture:
		return errors.NotSupported(phase, "architecture "+e.Arch.String(), e)
	default:
		return errors.Internal(phase, e.Error(), e)
	}
}

func errInvalid(op, detail string) error {
	return &Error{Code: CodeInvalidPattern, Op: op, Detail: detail}
}

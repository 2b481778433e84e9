package register

import (
	"fmt"

	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/errors"
)

// Code identifies one of the closed set of register errors.
type Code uint8

const (
	CodeInvalidRegister Code = iota + 1
	CodeRegisterNotFound
	CodeRegisterAlreadyAllocated
	CodeNoAvailableRegisters
	CodeInvalidMapping // reserved, not produced by this package
	CodeUnsupportedRegisterClass
	CodeRegisterConflict
)

func (c Code) String() string {
	switch c {
	case CodeInvalidRegister:
		return "invalid_register"
	case CodeRegisterNotFound:
		return "register_not_found"
	case CodeRegisterAlreadyAllocated:
		return "register_already_allocated"
	case CodeNoAvailableRegisters:
		return "no_available_registers"
	case CodeInvalidMapping:
		return "invalid_mapping"
	case CodeUnsupportedRegisterClass:
		return "unsupported_register_class"
	case CodeRegisterConflict:
		return "register_conflict"
	default:
		return "unknown"
	}
}

// Error is a register management failure.
type Error struct {
	Detail string
	Code   Code
	Reg    arch.RegID
	Target arch.RegID
	Class  Class
	Arch   arch.Architecture
}

// Sentinels for errors.Is; matching compares Code only.
var (
	ErrInvalidRegister          = &Error{Code: CodeInvalidRegister}
	ErrRegisterNotFound         = &Error{Code: CodeRegisterNotFound}
	ErrRegisterAlreadyAllocated = &Error{Code: CodeRegisterAlreadyAllocated}
	ErrNoAvailableRegisters     = &Error{Code: CodeNoAvailableRegisters}
	ErrInvalidMapping           = &Error{Code: CodeInvalidMapping}
	ErrUnsupportedRegisterClass = &Error{Code: CodeUnsupportedRegisterClass}
	ErrRegisterConflict         = &Error{Code: CodeRegisterConflict}
)

func (e *Error) Error() string {
	switch e.Code {
	case CodeInvalidRegister:
		return fmt.Sprintf("invalid register ID: %d", e.Reg)
	case CodeRegisterNotFound:
		return fmt.Sprintf("register %d not found in register set", e.Reg)
	case CodeRegisterAlreadyAllocated:
		return fmt.Sprintf("register %d is already allocated", e.Reg)
	case CodeNoAvailableRegisters:
		return fmt.Sprintf("no available registers for class %s", e.Class)
	case CodeInvalidMapping:
		return fmt.Sprintf("invalid register mapping from %d to %d", e.Reg, e.Target)
	case CodeUnsupportedRegisterClass:
		return fmt.Sprintf("register class %s not supported by architecture %s", e.Class, e.Arch)
	case CodeRegisterConflict:
		return "register conflict: " + e.Detail
	default:
		return "register error"
	}
}

// Is reports whether target is a register error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// VMError converts e into the unified VM error. e is kept as the cause.
func (e *Error) VMError() *errors.Error {
	const phase = errors.PhaseRegister
	switch e.Code {
	case CodeInvalidRegister:
		return errors.InvalidParameter(phase, "register_id", uint16(e.Reg), "invalid register ID", e)
	case CodeRegisterNotFound:
		return errors.InvalidParameter(phase, "register_id", uint16(e.Reg), "register not found in register set", e)
	case CodeRegisterAlreadyAllocated:
		return errors.InvalidState(phase, "allocated", "free", e)
	case CodeNoAvailableRegisters:
		return errors.ResourceExhausted(phase, "registers in class "+e.Class.String(), e)
	case CodeInvalidMapping:
		return errors.InvalidParameter(phase, "register_mapping",
			fmt.Sprintf("%d -> %d", e.Reg, e.Target), "invalid register mapping", e)
	case CodeUnsupportedRegisterClass:
		return errors.NotSupported(phase,
			fmt.Sprintf("register class %s for architecture %s", e.Class, e.Arch), e)
	default:
		return errors.Internal(phase, e.Error(), e)
	}
}

func errInvalidRegister(id arch.RegID) error {
	return &Error{Code: CodeInvalidRegister, Reg: id}
}

func errNotFound(id arch.RegID) error {
	return &Error{Code: CodeRegisterNotFound, Reg: id}
}

func errAlreadyAllocated(id arch.RegID) error {
	return &Error{Code: CodeRegisterAlreadyAllocated, Reg: id}
}

func errNoAvailable(class Class) error {
	return &Error{Code: CodeNoAvailableRegisters, Class: class}
}

func errUnsupportedClass(class Class, a arch.Architecture) error {
	return &Error{Code: CodeUnsupportedRegisterClass, Class: class, Arch: a}
}

func errConflict(format string, args ...any) error {
	return &Error{Code: CodeRegisterConflict, Detail: fmt.Sprintf(format, args...)}
}

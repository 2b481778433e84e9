package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which translation component raised the error
type Phase string

const (
	PhaseArch     Phase = "arch"     // architecture selection and configuration
	PhaseRegister Phase = "register" // register mapping and allocation
	PhaseMemory   Phase = "memory"   // memory access analysis and conversion
	PhasePattern  Phase = "pattern"  // instruction pattern matching
	PhaseABI      Phase = "abi"      // signature lowering
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidParameter  Kind = "invalid_parameter"
	KindInvalidState      Kind = "invalid_state"
	KindResourceExhausted Kind = "resource_exhausted"
	KindNotSupported      Kind = "not_supported"
	KindInternal          Kind = "internal"
	KindAccessViolation   Kind = "access_violation"
	KindPageFault         Kind = "page_fault"
	KindNotFound          Kind = "not_found"
	KindInvalidData       Kind = "invalid_data"
)

// Error is the unified VM error type. Component errors are carried in Cause,
// so errors.As can always recover the original component error.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Param  string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Param != "" {
		b.WriteByte(' ')
		b.WriteString(e.Param)
		if e.Value != nil {
			b.WriteByte('=')
			b.WriteString(fmt.Sprint(e.Value))
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Param sets the name of the offending parameter
func (b *Builder) Param(name string) *Builder {
	b.err.Param = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidParameter creates an invalid parameter error
func InvalidParameter(phase Phase, name string, value any, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidParameter,
		Param:  name,
		Value:  value,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidState creates an error for an operation attempted in the wrong state
func InvalidState(phase Phase, current, expected string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidState,
		Detail: fmt.Sprintf("state %s, expected %s", current, expected),
		Cause:  cause,
	}
}

// ResourceExhausted creates an error for an exhausted resource pool
func ResourceExhausted(phase Phase, resource string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindResourceExhausted,
		Detail: fmt.Sprintf("%s exhausted", resource),
		Cause:  cause,
	}
}

// NotSupported creates an error for a feature the module does not provide
func NotSupported(phase Phase, feature string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotSupported,
		Detail: feature,
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error without a cause
func Unsupported(phase Phase, what string) *Error {
	return NotSupported(phase, what, nil)
}

// Internal creates an internal consistency error
func Internal(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
		Cause:  cause,
	}
}

// AccessViolation creates a memory access violation error
func AccessViolation(phase Phase, addr uint64, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAccessViolation,
		Param:  "address",
		Value:  fmt.Sprintf("%#x", addr),
		Detail: detail,
		Cause:  cause,
	}
}

// PageFault creates a page table error
func PageFault(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPageFault,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Converter is implemented by component errors that have a unified form.
type Converter interface {
	error
	VMError() *Error
}

// From converts any error into the unified form. Component errors use their
// own mapping, unified errors pass through, anything else becomes internal.
func From(phase Phase, err error) *Error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *Error:
		return e
	case Converter:
		return e.VMError()
	}
	return Internal(phase, err.Error(), err)
}

// IsKind reports whether err, or any error in its Unwrap chain, is a
// unified error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Package errors provides the unified VM error type for the translation layer.
//
// Errors are categorized by Phase (which component raised them) and Kind
// (error category). Each component package (register, memory, pattern) keeps
// its own closed error type and converts it losslessly into *Error: the
// component error is stored as Cause, so errors.As recovers it.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegister, errors.KindInvalidParameter).
//		Param("register_id").
//		Value(42).
//		Detail("register not found in register set").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotSupported(errors.PhaseArch, "architecture sparc64", nil)
//	err := errors.AccessViolation(errors.PhaseMemory, 0x1001, "not aligned to 4 bytes", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseRegister,
				Kind:   KindInvalidParameter,
				Param:  "register_id",
				Value:  7,
				Detail: "register not found",
			},
			contains: []string{"[register]", "invalid_parameter", "register_id=7", "register not found"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseMemory,
				Kind:  KindAccessViolation,
			},
			contains: []string{"[memory]", "access_violation"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhasePattern,
				Kind:   KindNotFound,
				Detail: "no pattern",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[pattern]", "not_found", "no pattern", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseMemory,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseRegister,
		Kind:  KindResourceExhausted,
		Param: "class",
	}

	if !err.Is(&Error{Phase: PhaseRegister, Kind: KindResourceExhausted}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseMemory, Kind: KindResourceExhausted}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseRegister, Kind: KindInternal}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseRegister, Kind: KindResourceExhausted}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseRegister, KindInvalidParameter).
		Param("register_mapping").
		Value("1 -> 2").
		Cause(cause).
		Detail("mapping %d to %d", 1, 2).
		Build()

	if err.Phase != PhaseRegister {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseRegister)
	}
	if err.Kind != KindInvalidParameter {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidParameter)
	}
	if err.Param != "register_mapping" {
		t.Errorf("Param = %v, want register_mapping", err.Param)
	}
	if err.Value != "1 -> 2" {
		t.Errorf("Value = %v, want '1 -> 2'", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "mapping 1 to 2" {
		t.Errorf("Detail = %v, want 'mapping 1 to 2'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"InvalidParameter", InvalidParameter(PhaseRegister, "id", 1, "bad", cause), KindInvalidParameter},
		{"InvalidState", InvalidState(PhaseRegister, "allocated", "free", cause), KindInvalidState},
		{"ResourceExhausted", ResourceExhausted(PhaseRegister, "registers", cause), KindResourceExhausted},
		{"NotSupported", NotSupported(PhaseArch, "sparc", cause), KindNotSupported},
		{"Unsupported", Unsupported(PhaseArch, "sparc"), KindNotSupported},
		{"Internal", Internal(PhasePattern, "broken", cause), KindInternal},
		{"AccessViolation", AccessViolation(PhaseMemory, 0x10, "misaligned", cause), KindAccessViolation},
		{"PageFault", PageFault(PhaseMemory, "unmapped", cause), KindPageFault},
		{"NotFound", NotFound(PhasePattern, "pattern", "mul"), KindNotFound},
		{"InvalidData", InvalidData(PhaseConfig, "bad"), KindInvalidData},
		{"Wrap", Wrap(PhaseABI, KindInvalidData, cause, "compile"), KindInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
		})
	}

	t.Run("AccessViolation formats address", func(t *testing.T) {
		err := AccessViolation(PhaseMemory, 0x1001, "misaligned", nil)
		if !strings.Contains(err.Error(), "0x1001") {
			t.Errorf("Error() = %q, should contain address", err.Error())
		}
	})

	t.Run("NotFound detail", func(t *testing.T) {
		err := NotFound(PhasePattern, "pattern", "mul")
		if !strings.Contains(err.Detail, `"mul"`) {
			t.Errorf("Detail = %q, should quote name", err.Detail)
		}
	})
}

type convertible struct{}

func (convertible) Error() string { return "component failure" }

func (c convertible) VMError() *Error {
	return Internal(PhaseRegister, "converted", c)
}

func TestFrom(t *testing.T) {
	if From(PhaseRegister, nil) != nil {
		t.Error("From(nil) should be nil")
	}

	unified := NotFound(PhasePattern, "pattern", "x")
	if got := From(PhaseRegister, unified); got != unified {
		t.Error("From should pass unified errors through")
	}

	got := From(PhaseMemory, convertible{})
	if got.Detail != "converted" {
		t.Errorf("Detail = %q, want converted", got.Detail)
	}
	var c convertible
	if !errors.As(got, &c) {
		t.Error("errors.As should recover the component error")
	}

	plain := errors.New("plain")
	got = From(PhaseMemory, plain)
	if got.Kind != KindInternal || got.Phase != PhaseMemory {
		t.Errorf("From(plain) = %v, want internal memory error", got)
	}
	if !errors.Is(got, plain) {
		t.Error("From(plain) should wrap the cause")
	}
}

func TestIsKind(t *testing.T) {
	inner := NotSupported(PhaseABI, "v128", nil)
	wrapped := fmt.Errorf("lower: %w", inner)

	if !IsKind(wrapped, KindNotSupported) {
		t.Error("IsKind should look through wrapping")
	}
	if IsKind(wrapped, KindInternal) {
		t.Error("IsKind(internal) = true, want false")
	}
	if IsKind(errors.New("plain"), KindInternal) || IsKind(nil, KindInternal) {
		t.Error("IsKind should be false for non-unified errors")
	}
}

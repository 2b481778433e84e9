package memory

import (
	"errors"
	"testing"

	vmerrors "github.com/RunningShrimp/vm-sub002/errors"
)

func TestError_VMError(t *testing.T) {
	tests := []struct {
		err  *Error
		kind vmerrors.Kind
	}{
		{&Error{Code: CodeAlignmentViolation, Address: 0x1001, Required: 4}, vmerrors.KindAccessViolation},
		{&Error{Code: CodeOutOfBounds, Address: 0x1000, Size: 8}, vmerrors.KindAccessViolation},
		{&Error{Code: CodeInvalidSize}, vmerrors.KindInvalidParameter},
		{&Error{Code: CodeProtectionViolation, Detail: "kernel page"}, vmerrors.KindAccessViolation},
		{&Error{Code: CodePageFault, Address: 0x2000, Detail: "not present"}, vmerrors.KindPageFault},
		{&Error{Code: CodeAtomicViolation, Detail: "misaligned"}, vmerrors.KindAccessViolation},
		{&Error{Code: CodeEndiannessError, Detail: "ragged"}, vmerrors.KindInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code.String(), func(t *testing.T) {
			vm := tt.err.VMError()
			if vm.Kind != tt.kind || vm.Phase != vmerrors.PhaseMemory {
				t.Errorf("VMError() = %v/%v, want %v/memory", vm.Phase, vm.Kind, tt.kind)
			}
			if !errors.Is(vm, &Error{Code: tt.err.Code}) {
				t.Error("cause lost")
			}
		})
	}
}

func TestError_FromConverts(t *testing.T) {
	var err error = &Error{Code: CodeInvalidSize, Size: 3}
	vm := vmerrors.From(vmerrors.PhaseMemory, err)
	if vm.Kind != vmerrors.KindInvalidParameter {
		t.Errorf("From() kind = %v, want invalid_parameter", vm.Kind)
	}
	if got := err.Error(); got != "invalid memory access size: 3" {
		t.Errorf("Error() = %q", got)
	}
}

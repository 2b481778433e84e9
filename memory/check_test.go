package memory

import (
	"errors"
	"testing"
)

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name       string
		pattern    AccessPattern
		privileged bool
		want       error
	}{
		{"plain read", NewAccessPattern(0, 0x1000, Word), false, nil},
		{"empty vector", NewAccessPattern(0, 0x1000, Vector(0)), false, ErrInvalidSize},
		{
			"privileged from user",
			NewAccessPattern(0, 0x1000, DoubleWord).WithFlags(Flags{Privileged: true}),
			false, ErrProtectionViolation,
		},
		{
			"privileged from kernel",
			NewAccessPattern(0, 0x1000, DoubleWord).WithFlags(Flags{Privileged: true}),
			true, nil,
		},
		{
			"atomic execute",
			NewAccessPattern(0, 0x1000, Word).WithAccessType(Execute).WithFlags(Flags{Atomic: true}),
			false, ErrProtectionViolation,
		},
		{
			"wide atomic",
			NewAccessPattern(0, 0x1000, Vector(32)).WithAccessType(AtomicRead),
			false, ErrAtomicViolation,
		},
		{
			"misaligned atomic",
			NewAccessPattern(0, 0x1004, DoubleWord).WithAccessType(AtomicReadWrite),
			false, ErrAtomicViolation,
		},
		{
			"aligned atomic quad",
			NewAccessPattern(0, 0x1010, QuadWord).WithAccessType(AtomicWrite),
			false, nil,
		},
		{
			"strict misaligned",
			NewAccessPattern(0, 0x1002, Word).WithAlignment(Strict),
			false, ErrAlignmentViolation,
		},
		{
			"natural misaligned is allowed",
			NewAccessPattern(0, 0x1002, Word),
			false, nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccess(tt.pattern, tt.privileged)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("CheckAccess() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckAccess() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckAccess_AlignmentDetail(t *testing.T) {
	err := CheckAccess(NewAccessPattern(0, 0x1002, Word).WithAlignment(Strict), false)
	var memErr *Error
	if !errors.As(err, &memErr) {
		t.Fatalf("error %v is not a memory error", err)
	}
	if memErr.Address != 0x1002 || memErr.Required != 4 {
		t.Errorf("error = %+v, want address 0x1002 required 4", memErr)
	}
	want := "memory access alignment violation: address 0x1002 not aligned to 4 bytes"
	if memErr.Error() != want {
		t.Errorf("Error() = %q, want %q", memErr.Error(), want)
	}
}

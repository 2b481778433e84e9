package pattern

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOp(t *testing.T) {
	tests := []struct {
		in   string
		want IROp
	}{
		{"nop", IROp{Opcode: "nop"}},
		{"ADD r0, r1, r2", NewIROp("add", Reg(0), Reg(1), Reg(2))},
		{"mov r3, #42", NewIROp("mov", Reg(3), Imm(42))},
		{"mov r3, 0x10", NewIROp("mov", Reg(3), Imm(16))},
		{"addi r1, r1, -8", NewIROp("addi", Reg(1), Reg(1), Imm(-8))},
		{"load r0, [r1+8]", NewIROp("load", Reg(0), SimpleMemory(1, 8, 8))},
		{"load r0, [r1]", NewIROp("load", Reg(0), SimpleMemory(1, 0, 8))},
		{"store [r1 + r2*4 - 16], r3", NewIROp("store", IndexedMemory(1, 2, 4, -16, 8), Reg(3))},
		{"load r0, [r1+r2]", NewIROp("load", Reg(0), IndexedMemory(1, 2, 1, 0, 8))},
		{"load r0, [0x1000]", NewIROp("load", Reg(0), Mem{Displacement: 0x1000, Scale: 1, Size: 8})},
		{"push {r4,r5,r6}", NewIROp("push", RegList{4, 5, 6})},
		{"ldp r0:r1, [r2]", NewIROp("ldp", RegPair{First: 0, Second: 1}, SimpleMemory(2, 0, 8))},
		{"vadd <r0,r1>, <r2,r3>", NewIROp("vadd", Vec{Reg(0), Reg(1)}, Vec{Reg(2), Reg(3)})},
		{"jump loop_head", NewIROp("jump", Label("loop_head"))},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOp(tt.in)
			if err != nil {
				t.Fatalf("ParseOp(%q): %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseOp(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseOp_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"add r0,, r1",
		"load r0, [r1",
		"load r0, r1]",
		"load r0, []",
		"load r0, [r1*3]",
		"load r0, [r1+r2+r3]",
		"load r0, [-r1]",
		"push {r1, x}",
		"mov r0, 1abc",
		"ldp r0:x, [r2]",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseOp(in)
			if !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("ParseOp(%q) error = %v, want InvalidPattern", in, err)
			}
		})
	}
}

func TestIROp_String(t *testing.T) {
	tests := []struct {
		op   IROp
		want string
	}{
		{NewIROp("ret"), "ret"},
		{NewIROp("add", Reg(0), Reg(1), Imm(-3)), "add r0, r1, -3"},
		{NewIROp("load", Reg(0), SimpleMemory(1, 8, 8)), "load r0, [r1+8]"},
		{NewIROp("store", IndexedMemory(1, 2, 4, -16, 8), Reg(3)), "store [r1+r2*4-16], r3"},
		{NewIROp("push", RegList{4, 5}), "push {r4,r5}"},
		{NewIROp("ldp", RegPair{First: 0, Second: 1}), "ldp r0:r1"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseOp_RoundTrip(t *testing.T) {
	for _, in := range []string{
		"add r0, r1, r2",
		"load r0, [r1+8]",
		"store [r1+r2*4-16], r3",
		"push {r4,r5,r6}",
		"jump loop_head",
	} {
		op := MustParseOp(in)
		if got := op.String(); got != in {
			t.Errorf("String(ParseOp(%q)) = %q", in, got)
		}
	}
}

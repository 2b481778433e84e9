package memory

import (
	"testing"
)

func TestAccessWidth_Size(t *testing.T) {
	tests := []struct {
		width AccessWidth
		want  int
	}{
		{Byte, 1},
		{HalfWord, 2},
		{Word, 4},
		{DoubleWord, 8},
		{QuadWord, 16},
		{Vector(32), 32},
		{Vector(0), 0},
	}
	for _, tt := range tests {
		if got := tt.width.Size(); got != tt.want {
			t.Errorf("%v.Size() = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestAccessPattern_RequiredAlignment(t *testing.T) {
	tests := []struct {
		name  string
		width AccessWidth
		align Alignment
		want  uint64
	}{
		{"natural word", Word, Natural, 4},
		{"strict quad", QuadWord, Strict, 16},
		{"unaligned", DoubleWord, Unaligned, 1},
		{"aligned1", Word, Aligned1, 1},
		{"aligned4", Byte, Aligned4, 4},
		{"aligned64", Word, Aligned64, 64},
		{"natural vector", Vector(32), Natural, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAccessPattern(0, 0x1000, tt.width).WithAlignment(tt.align)
			if got := p.RequiredAlignment(); got != tt.want {
				t.Errorf("RequiredAlignment() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewAccessPattern_Defaults(t *testing.T) {
	p := NewAccessPattern(3, -8, Word)
	if p.Alignment != Natural || p.Access != Read || p.RepeatCount != 0 {
		t.Errorf("defaults = %+v", p)
	}
	if !p.Flags.Cacheable || p.Flags.Atomic {
		t.Errorf("flags = %+v, want cacheable only", p.Flags)
	}
	if got := p.WithRepeat(4).RepeatCount; got != 4 {
		t.Errorf("WithRepeat(4).RepeatCount = %d", got)
	}
	if !p.WithAccessType(AtomicReadWrite).IsAtomic() {
		t.Error("atomic access type should make the pattern atomic")
	}
}

func TestActualAlignment(t *testing.T) {
	tests := []struct {
		addr uint64
		want uint64
	}{
		{0x1000, 0x1000},
		{0x1001, 1},
		{0x1002, 2},
		{0x1008, 8},
		{0, 1 << 63},
	}
	for _, tt := range tests {
		if got := ActualAlignment(tt.addr); got != tt.want {
			t.Errorf("ActualAlignment(%#x) = %#x, want %#x", tt.addr, got, tt.want)
		}
	}
}

func TestAlignment_String(t *testing.T) {
	if got := Aligned16.String(); got != "Aligned16" {
		t.Errorf("Aligned16.String() = %q", got)
	}
	if got := Vector(8).String(); got != "Vector(8)" {
		t.Errorf("Vector(8).String() = %q", got)
	}
}

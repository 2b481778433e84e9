package memory

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RunningShrimp/vm-sub002/arch"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestDetectAlignmentIssues(t *testing.T) {
	opt := NewOptimizer(arch.MustConfig(arch.X86_64))

	tests := []struct {
		name     string
		pattern  AccessPattern
		wantN    int
		severity Severity
		required uint64
		actual   uint64
	}{
		{
			name:     "misaligned word",
			pattern:  NewAccessPattern(0, 0x1001, Word).WithAlignment(Aligned4),
			wantN:    1,
			severity: SeverityWarning,
			required: 4,
			actual:   1,
		},
		{
			name:    "aligned word",
			pattern: NewAccessPattern(0, 0x1004, Word),
			wantN:   0,
		},
		{
			name:     "misaligned quad",
			pattern:  NewAccessPattern(0, 0x1008, QuadWord),
			wantN:    1,
			severity: SeverityError,
			required: 16,
			actual:   8,
		},
		{
			name:     "misaligned atomic",
			pattern:  NewAccessPattern(0, 0x1002, DoubleWord).WithFlags(Flags{Atomic: true}),
			wantN:    1,
			severity: SeverityCritical,
			required: 8,
			actual:   2,
		},
		{
			name:     "misaligned atomic access type",
			pattern:  NewAccessPattern(0, 0x1004, DoubleWord).WithAccessType(AtomicRead),
			wantN:    1,
			severity: SeverityCritical,
			required: 8,
			actual:   4,
		},
		{
			name:    "unaligned never reports",
			pattern: NewAccessPattern(0, 0x1001, QuadWord).WithAlignment(Unaligned),
			wantN:   0,
		},
		{
			name:    "zero address",
			pattern: NewAccessPattern(0, 0, QuadWord).WithAlignment(Aligned64),
			wantN:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := opt.DetectAlignmentIssues(tt.pattern)
			if len(issues) != tt.wantN {
				t.Fatalf("got %d issues, want %d", len(issues), tt.wantN)
			}
			if tt.wantN == 0 {
				return
			}
			got := issues[0]
			if got.Severity != tt.severity || got.Required != tt.required || got.Actual != tt.actual {
				t.Errorf("issue = %+v, want severity %v required %d actual %d",
					got, tt.severity, tt.required, tt.actual)
			}
			if got.Address != tt.pattern.Address() {
				t.Errorf("Address = %#x, want %#x", got.Address, tt.pattern.Address())
			}
		})
	}
}

func TestSuggestFixes(t *testing.T) {
	opt := NewOptimizer(arch.MustConfig(arch.ARM64))
	issues := []AlignmentIssue{
		{Severity: SeverityCritical},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
	}
	fixes := opt.SuggestFixes(issues)

	type fix struct {
		Type FixType
		Cost FixCost
	}
	var got []fix
	for _, f := range fixes {
		got = append(got, fix{f.Type, f.Cost})
	}
	want := []fix{
		{FixAlignAddress, CostMedium},
		{FixChangeAccessWidth, CostLow},
		{FixUseUnalignedAccess, CostLow},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SuggestFixes mismatch (-want +got):\n%s", diff)
	}
	if len(opt.SuggestFixes(nil)) != 0 {
		t.Error("no issues should produce no fixes")
	}
}

func TestOptimizeAccessPattern(t *testing.T) {
	tests := []struct {
		name       string
		arch       arch.Architecture
		pattern    AccessPattern
		wantKinds  []OptimizationKind
		wantGain   float32
		wantOffset int64
		wantWidth  AccessWidth
	}{
		{
			name:       "nothing to do",
			arch:       arch.X86_64,
			pattern:    NewAccessPattern(0, 0x1000, Word),
			wantOffset: 0x1000,
			wantWidth:  Word,
		},
		{
			name:       "unaligned off line",
			arch:       arch.X86_64,
			pattern:    NewAccessPattern(0, 0x1001, Word).WithAlignment(Unaligned),
			wantKinds:  []OptimizationKind{AlignedAccess, CacheLineOptimized},
			wantGain:   0.3,
			wantOffset: 0x1040,
			wantWidth:  Word,
		},
		{
			name:       "repeated access vectorized on arm64",
			arch:       arch.ARM64,
			pattern:    NewAccessPattern(0, 0x2000, DoubleWord).WithRepeat(4),
			wantKinds:  []OptimizationKind{VectorizedAccess},
			wantGain:   0.44,
			wantOffset: 0x2000,
			wantWidth:  Vector(32),
		},
		{
			name:       "all three on riscv64",
			arch:       arch.RISCV64,
			pattern:    NewAccessPattern(0, 0x10, Byte).WithAlignment(Unaligned).WithRepeat(2),
			wantKinds:  []OptimizationKind{AlignedAccess, VectorizedAccess, CacheLineOptimized},
			wantGain:   0.7 * 1.05,
			wantOffset: 0x40,
			wantWidth:  Vector(32),
		},
		{
			name:       "single repeat is not vectorized",
			arch:       arch.X86_64,
			pattern:    NewAccessPattern(0, 0x40, Word).WithRepeat(1),
			wantOffset: 0x40,
			wantWidth:  Word,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := NewOptimizer(arch.MustConfig(tt.arch))
			res := opt.OptimizeAccessPattern(tt.pattern)

			var kinds []OptimizationKind
			var sum float32
			for _, o := range res.Applied {
				kinds = append(kinds, o.Kind)
				sum += o.Gain
			}
			if diff := cmp.Diff(tt.wantKinds, kinds); diff != "" {
				t.Errorf("applied mismatch (-want +got):\n%s", diff)
			}
			if !approx(res.Gain, tt.wantGain) || !approx(res.Gain, sum) {
				t.Errorf("Gain = %v (sum %v), want %v", res.Gain, sum, tt.wantGain)
			}
			if res.Optimized.Offset != tt.wantOffset {
				t.Errorf("Offset = %#x, want %#x", res.Optimized.Offset, tt.wantOffset)
			}
			if res.Optimized.Width != tt.wantWidth {
				t.Errorf("Width = %v, want %v", res.Optimized.Width, tt.wantWidth)
			}
			if res.Original != tt.pattern {
				t.Error("Original should be the input pattern")
			}
		})
	}
}

func TestOptimizedPattern_Last(t *testing.T) {
	if got := (OptimizedPattern{}).Last(); got != NoOptimization {
		t.Errorf("Last() = %v, want none", got)
	}
	opt := NewOptimizer(arch.MustConfig(arch.X86_64))
	res := opt.OptimizeAccessPattern(NewAccessPattern(0, 0x1001, Word).WithAlignment(Unaligned))
	if res.Last() != CacheLineOptimized {
		t.Errorf("Last() = %v, want cache-line-optimized", res.Last())
	}
}

package memory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyzer_Empty(t *testing.T) {
	res := NewAnalyzer().Analyze()
	if res.Total != 0 || res.UnalignedPercentage != 0 || res.AtomicPercentage != 0 || res.VectorPercentage != 0 {
		t.Errorf("empty analysis = %+v, want zeros", res)
	}
	if res.HasMostCommonSize {
		t.Error("empty analysis should have no most common size")
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer()
	a.AddPattern(NewAccessPattern(0, 0x1000, Word))
	a.AddPattern(NewAccessPattern(1, 0x1004, DoubleWord))
	a.AddPattern(NewAccessPattern(2, 0x1008, Word).WithAlignment(Unaligned))
	a.AddPattern(NewAccessPattern(3, 0x1010, Vector(16)).WithFlags(Flags{Atomic: true}))

	res := a.Analyze()
	if res.Total != 4 || res.Unaligned != 1 || res.Atomic != 1 || res.Vector != 1 {
		t.Errorf("counts = %+v", res)
	}
	if res.UnalignedPercentage != 25 || res.AtomicPercentage != 25 || res.VectorPercentage != 25 {
		t.Errorf("percentages = %v/%v/%v, want 25 each",
			res.UnalignedPercentage, res.AtomicPercentage, res.VectorPercentage)
	}
	if !res.HasMostCommonSize || res.MostCommonSize != 4 {
		t.Errorf("MostCommonSize = %d (%v), want 4", res.MostCommonSize, res.HasMostCommonSize)
	}
	want := map[int]uint64{4: 2, 8: 1, 16: 1}
	if diff := cmp.Diff(want, res.SizeDistribution); diff != "" {
		t.Errorf("SizeDistribution mismatch (-want +got):\n%s", diff)
	}

	b := NewAnalyzer()
	b.AddPattern(NewAccessPattern(0, 0x2000, DoubleWord).WithAccessType(AtomicReadWrite))
	if got := b.Analyze().Atomic; got != 1 {
		t.Errorf("Atomic = %d for an atomic access type, want 1", got)
	}
}

func TestAnalyzer_ModeTieSmallest(t *testing.T) {
	a := NewAnalyzer()
	a.AddPattern(NewAccessPattern(0, 0, DoubleWord))
	a.AddPattern(NewAccessPattern(0, 0, Byte))
	a.AddPattern(NewAccessPattern(0, 0, QuadWord))
	a.AddPattern(NewAccessPattern(0, 0, Byte))
	a.AddPattern(NewAccessPattern(0, 0, DoubleWord))

	if got := a.Analyze().MostCommonSize; got != 1 {
		t.Errorf("MostCommonSize = %d, want 1", got)
	}
}

func TestAnalyzer_StatisticsAndReset(t *testing.T) {
	a := NewAnalyzer()
	a.AddPattern(NewAccessPattern(0, 0, Word))
	a.AddPattern(NewAccessPattern(0, 4, Word))
	a.AddPattern(NewAccessPattern(0, 8, Byte).WithAccessType(Write))

	want := map[string]uint64{"Word_Read": 2, "Byte_Write": 1}
	if diff := cmp.Diff(want, a.Statistics()); diff != "" {
		t.Errorf("Statistics mismatch (-want +got):\n%s", diff)
	}
	if len(a.Patterns()) != 3 {
		t.Errorf("Patterns() = %d, want 3", len(a.Patterns()))
	}

	a.Reset()
	if a.Len() != 0 || len(a.Statistics()) != 0 {
		t.Errorf("after Reset: Len = %d, stats = %v", a.Len(), a.Statistics())
	}
}

package memory

import (
	"maps"
	"slices"
)

// AnalysisResult summarizes the accesses recorded by an Analyzer.
// Percentages are 0 when nothing was recorded.
type AnalysisResult struct {
	SizeDistribution    map[int]uint64
	Total               uint64
	Unaligned           uint64
	Atomic              uint64
	Vector              uint64
	UnalignedPercentage float64
	AtomicPercentage    float64
	VectorPercentage    float64
	MostCommonSize      int
	HasMostCommonSize   bool
}

// Analyzer accumulates the memory accesses of one compilation unit.
type Analyzer struct {
	patterns   []AccessPattern
	statistics map[string]uint64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{statistics: make(map[string]uint64)}
}

// AddPattern records p.
func (a *Analyzer) AddPattern(p AccessPattern) {
	a.patterns = append(a.patterns, p)
	a.statistics[statisticsKey(p)]++
}

func statisticsKey(p AccessPattern) string {
	return p.Width.String() + "_" + p.Access.String()
}

// Patterns returns the recorded accesses in insertion order.
func (a *Analyzer) Patterns() []AccessPattern {
	return slices.Clone(a.patterns)
}

// Statistics returns access counts keyed by "<width>_<access type>",
// for example "Word_Read".
func (a *Analyzer) Statistics() map[string]uint64 {
	return maps.Clone(a.statistics)
}

// Len returns the number of recorded accesses.
func (a *Analyzer) Len() int { return len(a.patterns) }

// Reset forgets every recorded access.
func (a *Analyzer) Reset() {
	a.patterns = a.patterns[:0]
	clear(a.statistics)
}

// Analyze summarizes the recorded accesses. When several sizes are equally
// common, MostCommonSize is the smallest of them.
func (a *Analyzer) Analyze() AnalysisResult {
	res := AnalysisResult{SizeDistribution: make(map[int]uint64)}

	for _, p := range a.patterns {
		res.Total++
		if p.Alignment == Unaligned {
			res.Unaligned++
		}
		if p.IsAtomic() {
			res.Atomic++
		}
		if p.Width.IsVector() {
			res.Vector++
		}
		res.SizeDistribution[p.Size()]++
	}

	if res.Total > 0 {
		total := float64(res.Total)
		res.UnalignedPercentage = float64(res.Unaligned) / total * 100
		res.AtomicPercentage = float64(res.Atomic) / total * 100
		res.VectorPercentage = float64(res.Vector) / total * 100
	}

	var best uint64
	for _, size := range slices.Sorted(maps.Keys(res.SizeDistribution)) {
		if n := res.SizeDistribution[size]; n > best {
			best = n
			res.MostCommonSize = size
			res.HasMostCommonSize = true
		}
	}
	return res
}

package memory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// Severity ranks an alignment issue.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// AlignmentIssue reports an access that is less aligned than it requires.
type AlignmentIssue struct {
	Description string
	Address     uint64
	Required    uint64
	Actual      uint64
	Severity    Severity
}

// FixType is a remediation for an alignment issue.
type FixType uint8

const (
	FixAlignAddress FixType = iota
	FixAdjustOffset
	FixChangeAccessWidth
	FixInsertPadding
	FixUseUnalignedAccess
	FixRestructureAccess
)

func (f FixType) String() string {
	switch f {
	case FixAlignAddress:
		return "align-address"
	case FixAdjustOffset:
		return "adjust-offset"
	case FixChangeAccessWidth:
		return "change-access-width"
	case FixInsertPadding:
		return "insert-padding"
	case FixUseUnalignedAccess:
		return "use-unaligned-access"
	case FixRestructureAccess:
		return "restructure-access"
	default:
		return "unknown"
	}
}

// FixCost estimates the cost of applying a fix.
type FixCost uint8

const (
	CostNone FixCost = iota
	CostLow
	CostMedium
	CostHigh
	CostUnknown
)

func (c FixCost) String() string {
	switch c {
	case CostNone:
		return "none"
	case CostLow:
		return "low"
	case CostMedium:
		return "medium"
	case CostHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Fix is a suggested remediation.
type Fix struct {
	Description string
	Type        FixType
	Cost        FixCost
}

// OptimizationKind names a memory access rewrite.
type OptimizationKind uint8

const (
	NoOptimization OptimizationKind = iota
	AlignedAccess
	CombinedAccess
	VectorizedAccess
	Prefetch
	CacheLineOptimized
	BurstAccess
)

func (k OptimizationKind) String() string {
	switch k {
	case NoOptimization:
		return "none"
	case AlignedAccess:
		return "aligned-access"
	case CombinedAccess:
		return "combined-access"
	case VectorizedAccess:
		return "vectorized-access"
	case Prefetch:
		return "prefetch"
	case CacheLineOptimized:
		return "cache-line-optimized"
	case BurstAccess:
		return "burst-access"
	default:
		return "unknown"
	}
}

// Optimization is one applied rewrite and its estimated gain.
type Optimization struct {
	Kind OptimizationKind
	Gain float32
}

// OptimizedPattern is the result of optimizing an access. Gain is the sum of
// the gains in Applied.
type OptimizedPattern struct {
	Original  AccessPattern
	Optimized AccessPattern
	Applied   []Optimization
	Gain      float32
}

// Last returns the kind of the last applied rewrite, or NoOptimization.
func (o OptimizedPattern) Last() OptimizationKind {
	if len(o.Applied) == 0 {
		return NoOptimization
	}
	return o.Applied[len(o.Applied)-1].Kind
}

// Optimizer analyzes and rewrites memory accesses for a target.
type Optimizer interface {
	OptimizeAccessPattern(p AccessPattern) OptimizedPattern
	DetectAlignmentIssues(p AccessPattern) []AlignmentIssue
	SuggestFixes(issues []AlignmentIssue) []Fix
	Name() string
}

// Base gains before the architecture factor.
const (
	alignGain     = 0.2
	vectorGain    = 0.4
	cacheLineGain = 0.1
)

// DefaultOptimizer applies fixed heuristics scaled by the target's
// optimization factor.
type DefaultOptimizer struct {
	cfg *arch.Config
}

var _ Optimizer = (*DefaultOptimizer)(nil)

// NewOptimizer creates an optimizer for the target described by cfg.
func NewOptimizer(cfg *arch.Config) *DefaultOptimizer {
	return &DefaultOptimizer{cfg: cfg}
}

// Name returns the optimizer name.
func (o *DefaultOptimizer) Name() string { return "DefaultMemoryAccessOptimizer" }

// Config returns the target configuration.
func (o *DefaultOptimizer) Config() *arch.Config { return o.cfg }

// OptimizeAccessPattern applies every heuristic that fits p:
// unaligned accesses become naturally aligned, repeated accesses that fit
// the vector width are widened to it, and offsets off a cache line are
// rounded up to the next line.
func (o *DefaultOptimizer) OptimizeAccessPattern(p AccessPattern) OptimizedPattern {
	res := OptimizedPattern{Original: p, Optimized: p}
	factor := o.cfg.OptimizationFactor

	apply := func(kind OptimizationKind, base float32) {
		gain := base * factor
		res.Applied = append(res.Applied, Optimization{Kind: kind, Gain: gain})
		res.Gain += gain
	}

	if p.Alignment == Unaligned {
		res.Optimized.Alignment = Natural
		apply(AlignedAccess, alignGain)
	}

	if p.RepeatCount > 1 && p.Size() <= int(o.cfg.VectorWidth) {
		res.Optimized.Width = Vector(o.cfg.VectorWidth)
		apply(VectorizedAccess, vectorGain)
	}

	line := o.cfg.CacheLineSize
	if addr := p.Address(); line > 0 && addr%line != 0 {
		res.Optimized.Offset = int64((addr + line - 1) &^ (line - 1))
		apply(CacheLineOptimized, cacheLineGain)
	}

	if len(res.Applied) > 0 {
		Logger().Debug("optimized access pattern",
			zap.Stringer("pattern", p),
			zap.Stringer("last", res.Last()),
			zap.Float32("gain", res.Gain))
	}
	return res
}

// DetectAlignmentIssues reports at most one issue: the offset, taken as an
// absolute address, is less aligned than the access requires.
func (o *DefaultOptimizer) DetectAlignmentIssues(p AccessPattern) []AlignmentIssue {
	addr := p.Address()
	required := p.RequiredAlignment()
	actual := ActualAlignment(addr)
	if actual >= required {
		return nil
	}

	severity := SeverityWarning
	switch {
	case p.IsAtomic():
		severity = SeverityCritical
	case p.Width == QuadWord:
		severity = SeverityError
	}

	return []AlignmentIssue{{
		Address:  addr,
		Required: required,
		Actual:   actual,
		Severity: severity,
		Description: fmt.Sprintf("memory access at %#x requires %d-byte alignment but is only %d-byte aligned",
			addr, required, actual),
	}}
}

// SuggestFixes returns one fix per issue, chosen by severity.
func (o *DefaultOptimizer) SuggestFixes(issues []AlignmentIssue) []Fix {
	fixes := make([]Fix, 0, len(issues))
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			fixes = append(fixes, Fix{
				Type:        FixAlignAddress,
				Description: "align the address to the required boundary",
				Cost:        CostMedium,
			})
		case SeverityError:
			fixes = append(fixes, Fix{
				Type:        FixChangeAccessWidth,
				Description: "use a smaller access width or an aligned access",
				Cost:        CostLow,
			})
		default:
			fixes = append(fixes, Fix{
				Type:        FixUseUnalignedAccess,
				Description: "use an unaligned access if supported",
				Cost:        CostLow,
			})
		}
	}
	return fixes
}

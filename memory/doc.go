// Package memory models single memory accesses of translated code and
// reasons about their alignment, atomicity and byte order on a target
// architecture.
//
// An AccessPattern describes one access: base register, signed offset,
// width, alignment requirement, access type and flags. The DefaultOptimizer
// reports alignment issues with suggested fixes and proposes a rewritten
// pattern (aligned, vectorized, cache-line aligned) with an estimated gain.
// CheckAccess validates an access before it is emitted.
//
//	cfg := arch.MustConfig(arch.ARM64)
//	opt := memory.NewOptimizer(cfg)
//	p := memory.NewAccessPattern(0, 0x1001, memory.Word).WithAlignment(memory.Aligned4)
//	issues := opt.DetectAlignmentIssues(p) // one Warning: 4 required, 1 actual
//
// EndiannessConverter swaps byte order between guest and host. The Analyzer
// accumulates the accesses of one compilation unit and summarizes them.
//
// Analyzers are not safe for concurrent use; optimizers and converters are
// stateless.
package memory

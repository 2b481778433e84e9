// Package pattern classifies instructions and matches IR operations to
// instruction patterns.
//
// A Pattern records an instruction's category, operand shape, behavior
// flags and cost, and the architectures it can be emitted on. A Catalog
// stores patterns once and indexes them by opcode, category and
// architecture:
//
//	c := pattern.NewCommonCatalog()
//	op := pattern.MustParseOp("add r0, r1, r2")
//	p, ok := c.MatchPattern(op)
//
// Matching is structural: an operation matches a pattern when it has the
// same number of operands and the same operand kind at each position.
// The first registered pattern that matches wins.
package pattern

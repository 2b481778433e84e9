package pattern

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// Matcher finds instruction patterns for IR operations.
type Matcher interface {
	MatchPattern(op IROp) (*Pattern, bool)
	EquivalentPatterns(p *Pattern, target arch.Architecture) []*Pattern
	PatternsByCategory(c Category) []*Pattern
	Name() string
}

// Handle is a stable index of a pattern in its catalog.
type Handle uint32

// Catalog owns a set of instruction patterns and indexes them by opcode,
// category and architecture. The indexes hold handles into a single arena,
// so every pattern is stored once.
//
// A catalog is populated once and read thereafter. Lookups are safe for
// concurrent use once population is complete; patterns returned by lookups
// are shared and must not be modified.
type Catalog struct {
	patterns   []*Pattern
	byOp       map[string][]Handle
	byCategory map[Category][]Handle
	byArch     map[arch.Architecture][]Handle
	universal  []Handle
}

var _ Matcher = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byOp:       make(map[string][]Handle),
		byCategory: make(map[Category][]Handle),
		byArch:     make(map[arch.Architecture][]Handle),
	}
}

// Name returns the matcher name.
func (c *Catalog) Name() string { return "DefaultPatternMatcher" }

// Len returns the number of patterns.
func (c *Catalog) Len() int { return len(c.patterns) }

// AddPattern stores p and indexes it under its operation (or its ID when
// the operation is empty), its category and each listed architecture.
func (c *Catalog) AddPattern(p Pattern) (Handle, error) {
	if p.ID == "" && p.Semantics.Operation == "" {
		return 0, errInvalid("", "pattern has neither an id nor an operation")
	}
	if slices.Contains(p.Operands, nil) {
		return 0, errInvalid(p.ID, "nil operand")
	}

	h := Handle(len(c.patterns))
	stored := p
	c.patterns = append(c.patterns, &stored)

	key := stored.key()
	c.byOp[key] = append(c.byOp[key], h)
	c.byCategory[stored.Category] = append(c.byCategory[stored.Category], h)
	if stored.IsUniversal() {
		c.universal = append(c.universal, h)
	}
	for _, a := range stored.Architectures {
		c.byArch[a] = append(c.byArch[a], h)
	}

	Logger().Debug("added pattern",
		zap.String("id", stored.ID),
		zap.String("operation", key),
		zap.Stringer("category", stored.Category),
		zap.Uint32("handle", uint32(h)))
	return h, nil
}

// Pattern returns the pattern stored under h.
func (c *Catalog) Pattern(h Handle) (*Pattern, bool) {
	if int(h) >= len(c.patterns) {
		return nil, false
	}
	return c.patterns[h], true
}

func (c *Catalog) resolve(handles []Handle) []*Pattern {
	if len(handles) == 0 {
		return nil
	}
	out := make([]*Pattern, len(handles))
	for i, h := range handles {
		out[i] = c.patterns[h]
	}
	return out
}

// MatchPattern returns the first pattern registered under op's opcode whose
// operand shape matches op.
func (c *Catalog) MatchPattern(op IROp) (*Pattern, bool) {
	for _, h := range c.byOp[op.Opcode] {
		if p := c.patterns[h]; p.HasOperandTypes(op.Operands) {
			return p, true
		}
	}
	return nil, false
}

// EquivalentPatterns returns the patterns that share p's category, can be
// emitted for target and have p's operand shape, in registration order.
func (c *Catalog) EquivalentPatterns(p *Pattern, target arch.Architecture) []*Pattern {
	var out []*Pattern
	for _, h := range c.byCategory[p.Category] {
		candidate := c.patterns[h]
		if candidate.IsCompatibleWith(target) && candidate.HasOperandTypes(p.Operands) {
			out = append(out, candidate)
		}
	}
	return out
}

// PatternsByCategory returns every pattern of category cat in registration
// order.
func (c *Catalog) PatternsByCategory(cat Category) []*Pattern {
	return c.resolve(c.byCategory[cat])
}

// PatternsByArchitecture returns the patterns that list a together with
// the universal ones, in registration order.
func (c *Catalog) PatternsByArchitecture(a arch.Architecture) []*Pattern {
	handles := append(slices.Clone(c.byArch[a]), c.universal...)
	slices.Sort(handles)
	return c.resolve(handles)
}

// Missing returns the opcodes, in input order and without duplicates, that
// have no pattern at all.
func (c *Catalog) Missing(opcodes []string) []string {
	var missing []string
	for _, op := range opcodes {
		if _, ok := c.byOp[op]; !ok && !slices.Contains(missing, op) {
			missing = append(missing, op)
		}
	}
	return missing
}

// Select picks the pattern to emit op with on target: the matched pattern
// itself when it is valid on target, otherwise the cheapest equivalent.
// Equivalents of equal cost are taken in registration order.
func (c *Catalog) Select(op IROp, target arch.Architecture) (*Pattern, error) {
	if !target.Valid() {
		return nil, &Error{Code: CodeUnsupportedArchitecture, Op: op.Opcode, Arch: target}
	}
	if _, ok := c.byOp[op.Opcode]; !ok {
		return nil, &Error{Code: CodePatternNotFound, Op: op.Opcode}
	}

	matched, ok := c.MatchPattern(op)
	if !ok {
		return nil, &Error{
			Code:   CodeIncompatibleOperands,
			Op:     op.Opcode,
			Detail: "no pattern accepts " + op.String(),
		}
	}
	if matched.IsCompatibleWith(target) {
		return matched, nil
	}

	var best *Pattern
	for _, p := range c.EquivalentPatterns(matched, target) {
		if best == nil || p.Cost < best.Cost {
			best = p
		}
	}
	if best == nil {
		return nil, &Error{
			Code:   CodeMatchingFailed,
			Op:     op.Opcode,
			Arch:   target,
			Detail: "no equivalent pattern for " + target.String(),
		}
	}
	return best, nil
}

// Digest returns a BLAKE2b-256 hash of the catalog contents in registration
// order. Catalogs built by the same sequence of AddPattern calls have the
// same digest.
func (c *Catalog) Digest() [32]byte {
	var buf bytes.Buffer
	writeString := func(s string) {
		buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(s))))
		buf.WriteString(s)
	}
	writeUint := func(v uint32) {
		buf.Write(binary.LittleEndian.AppendUint32(nil, v))
	}

	for _, p := range c.patterns {
		writeString(p.ID)
		writeString(p.key())
		writeString(p.Category.String())
		writeUint(uint32(len(p.Operands)))
		for _, op := range p.Operands {
			buf.WriteByte(byte(op.Kind()))
		}
		buf.WriteByte(flagBits(p.Flags))
		writeUint(uint32(len(p.Architectures)))
		for _, a := range p.Architectures {
			buf.WriteByte(byte(a))
		}
		writeUint(p.Cost)
		writeUint(p.Latency)
		writeUint(math.Float32bits(p.Throughput))
	}
	return blake2b.Sum256(buf.Bytes())
}

func flagBits(f Flags) byte {
	var b byte
	for i, set := range []bool{
		f.SetsFlags, f.ReadsFlags, f.Conditional, f.Predicated,
		f.Atomic, f.Volatile, f.Privileged, f.Terminal,
	} {
		if set {
			b |= 1 << i
		}
	}
	return b
}

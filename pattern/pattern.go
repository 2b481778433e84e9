package pattern

import (
	"slices"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// Flags describe instruction behavior relevant to translation.
type Flags struct {
	SetsFlags   bool
	ReadsFlags  bool
	Conditional bool
	Predicated  bool
	Atomic      bool
	Volatile    bool
	Privileged  bool
	Terminal    bool
}

// Semantics is a human-readable description of what an instruction does.
// Operation is the IR opcode the pattern implements.
type Semantics struct {
	Operation      string
	Preconditions  []string
	Postconditions []string
	SideEffects    []string
	Reads          []arch.RegID
	Writes         []arch.RegID
}

// Pattern describes an instruction shape and where and how cheaply it can
// be emitted. An empty Architectures list means the pattern is valid on
// every architecture.
type Pattern struct {
	ID            string
	Category      Category
	Operands      []Operand
	Flags         Flags
	Semantics     Semantics
	Architectures []arch.Architecture
	Cost          uint32
	Latency       uint32
	Throughput    float32
}

// NewPattern returns a pattern with unit cost, latency and throughput.
func NewPattern(id string, category Category) Pattern {
	return Pattern{
		ID:         id,
		Category:   category,
		Cost:       1,
		Latency:    1,
		Throughput: 1.0,
	}
}

func (p Pattern) WithOperand(op Operand) Pattern {
	p.Operands = append(slices.Clip(p.Operands), op)
	return p
}

func (p Pattern) WithOperands(ops ...Operand) Pattern {
	p.Operands = slices.Clone(ops)
	return p
}

func (p Pattern) WithFlags(f Flags) Pattern {
	p.Flags = f
	return p
}

func (p Pattern) WithSemantics(s Semantics) Pattern {
	p.Semantics = s
	return p
}

// WithArchitecture adds a to the architectures the pattern is valid on.
func (p Pattern) WithArchitecture(a arch.Architecture) Pattern {
	if !slices.Contains(p.Architectures, a) {
		p.Architectures = append(slices.Clip(p.Architectures), a)
	}
	return p
}

func (p Pattern) WithCost(cost uint32) Pattern {
	p.Cost = cost
	return p
}

func (p Pattern) WithLatency(latency uint32) Pattern {
	p.Latency = latency
	return p
}

func (p Pattern) WithThroughput(throughput float32) Pattern {
	p.Throughput = throughput
	return p
}

// IsUniversal reports whether the pattern is valid on every architecture.
func (p Pattern) IsUniversal() bool { return len(p.Architectures) == 0 }

// IsCompatibleWith reports whether the pattern can be emitted for a.
func (p Pattern) IsCompatibleWith(a arch.Architecture) bool {
	return p.IsUniversal() || slices.Contains(p.Architectures, a)
}

// OperandCount returns the number of operands.
func (p Pattern) OperandCount() int { return len(p.Operands) }

// HasOperandTypes reports whether ops has the same arity as the pattern and
// the same operand kind at every position. Concrete registers, values and
// labels are ignored.
func (p Pattern) HasOperandTypes(ops []Operand) bool {
	return sameShape(p.Operands, ops)
}

// key is the opcode the pattern is indexed under.
func (p Pattern) key() string {
	if p.Semantics.Operation != "" {
		return p.Semantics.Operation
	}
	return p.ID
}

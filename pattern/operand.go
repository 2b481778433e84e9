package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// OperandKind is the shape of an operand. Pattern matching compares kinds
// only, never concrete registers or values.
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandMemory
	OperandLabel
	OperandRegisterPair
	OperandRegisterList
	OperandVector
	OperandComplex
)

func (k OperandKind) String() string {
	switch k {
	case OperandRegister:
		return "reg"
	case OperandImmediate:
		return "imm"
	case OperandMemory:
		return "mem"
	case OperandLabel:
		return "label"
	case OperandRegisterPair:
		return "pair"
	case OperandRegisterList:
		return "list"
	case OperandVector:
		return "vec"
	case OperandComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Operand is one instruction operand.
type Operand interface {
	Kind() OperandKind
	String() string
}

// Reg is a register operand.
type Reg arch.RegID

func (Reg) Kind() OperandKind { return OperandRegister }
func (r Reg) String() string  { return "r" + strconv.Itoa(int(r)) }

// Imm is an immediate operand.
type Imm int64

func (Imm) Kind() OperandKind { return OperandImmediate }
func (i Imm) String() string  { return strconv.FormatInt(int64(i), 10) }

// Label is a symbolic branch target.
type Label string

func (Label) Kind() OperandKind { return OperandLabel }
func (l Label) String() string  { return string(l) }

// RegPair is a pair of registers used together (r1:r2).
type RegPair struct {
	First  arch.RegID
	Second arch.RegID
}

func (RegPair) Kind() OperandKind { return OperandRegisterPair }
func (p RegPair) String() string {
	return fmt.Sprintf("r%d:r%d", p.First, p.Second)
}

// RegList is a register list ({r1,r2,...}).
type RegList []arch.RegID

func (RegList) Kind() OperandKind { return OperandRegisterList }
func (l RegList) String() string {
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = "r" + strconv.Itoa(int(r))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Vec is a vector of nested operands.
type Vec []Operand

func (Vec) Kind() OperandKind { return OperandVector }
func (v Vec) String() string {
	parts := make([]string, len(v))
	for i, op := range v {
		parts[i] = op.String()
	}
	return "<" + strings.Join(parts, ",") + ">"
}

// Complex is an opaque operand that fits no other shape.
type Complex string

func (Complex) Kind() OperandKind { return OperandComplex }
func (c Complex) String() string  { return string(c) }

// Mem is a memory operand: [base + index*scale + displacement]. Size is the
// access size in bytes.
type Mem struct {
	Displacement int64
	Base         arch.RegID
	Index        arch.RegID
	HasBase      bool
	HasIndex     bool
	Scale        uint8
	Size         uint8
}

// SimpleMemory returns [base + displacement].
func SimpleMemory(base arch.RegID, displacement int64, size uint8) Mem {
	return Mem{Base: base, HasBase: true, Scale: 1, Displacement: displacement, Size: size}
}

// IndexedMemory returns [base + index*scale + displacement].
func IndexedMemory(base, index arch.RegID, scale uint8, displacement int64, size uint8) Mem {
	return Mem{
		Base:         base,
		HasBase:      true,
		Index:        index,
		HasIndex:     true,
		Scale:        scale,
		Displacement: displacement,
		Size:         size,
	}
}

func (Mem) Kind() OperandKind { return OperandMemory }

func (m Mem) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if m.HasBase {
		fmt.Fprintf(&b, "r%d", m.Base)
	}
	if m.HasIndex {
		if m.HasBase {
			b.WriteByte('+')
		}
		fmt.Fprintf(&b, "r%d*%d", m.Index, m.Scale)
	}
	switch {
	case m.Displacement != 0 && (m.HasBase || m.HasIndex):
		fmt.Fprintf(&b, "%+d", m.Displacement)
	case !m.HasBase && !m.HasIndex:
		fmt.Fprintf(&b, "%d", m.Displacement)
	}
	b.WriteByte(']')
	return b.String()
}

// sameShape reports whether a and b have the same operand kinds position by
// position. A nil operand matches nothing.
func sameShape(a, b []Operand) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil || a[i].Kind() != b[i].Kind() {
			return false
		}
	}
	return true
}

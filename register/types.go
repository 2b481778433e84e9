package register

import (
	"fmt"
	"slices"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// Class groups mutually substitutable registers. Registers of different
// classes are never interchangeable.
type Class uint8

const (
	ClassGeneralPurpose Class = iota
	ClassFloatingPoint
	ClassVector
	ClassSpecial
	ClassControl
	ClassStatus
	ClassSystem
	ClassPredicate
	ClassApplication

	numClasses
)

// Classes returns every register class in declaration order.
func Classes() []Class {
	out := make([]Class, numClasses)
	for i := range out {
		out[i] = Class(i)
	}
	return out
}

func (c Class) String() string {
	switch c {
	case ClassGeneralPurpose:
		return "general-purpose"
	case ClassFloatingPoint:
		return "floating-point"
	case ClassVector:
		return "vector"
	case ClassSpecial:
		return "special"
	case ClassControl:
		return "control"
	case ClassStatus:
		return "status"
	case ClassSystem:
		return "system"
	case ClassPredicate:
		return "predicate"
	case ClassApplication:
		return "application"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

func (c Class) valid() bool { return c < numClasses }

// TypeKind is the value domain a register holds.
type TypeKind uint8

const (
	TypeInteger TypeKind = iota
	TypeFloat
	TypeVector
	TypeSpecial
)

// Type describes the values a register holds. Width is in bits.
type Type struct {
	Kind  TypeKind
	Width uint16
	Lanes uint8
}

// Integer returns an integer register type of the given bit width.
func Integer(width uint16) Type { return Type{Kind: TypeInteger, Width: width} }

// Float returns a floating-point register type of the given bit width.
func Float(width uint16) Type { return Type{Kind: TypeFloat, Width: width} }

// Vector returns a vector register type.
func Vector(width uint16, lanes uint8) Type {
	return Type{Kind: TypeVector, Width: width, Lanes: lanes}
}

// Special returns the type of registers with no value domain (pc, flags).
func Special() Type { return Type{Kind: TypeSpecial} }

// DefaultType is a 64-bit integer.
func DefaultType() Type { return Integer(64) }

// CompatibleWith reports whether a register of type t can hold every value
// of a register of type source: same kind, and width (and lanes) at least
// as large.
func (t Type) CompatibleWith(source Type) bool {
	if t.Kind != source.Kind {
		return false
	}
	switch t.Kind {
	case TypeVector:
		return t.Width >= source.Width && t.Lanes >= source.Lanes
	case TypeSpecial:
		return true
	default:
		return t.Width >= source.Width
	}
}

func (t Type) String() string {
	switch t.Kind {
	case TypeInteger:
		return fmt.Sprintf("i%d", t.Width)
	case TypeFloat:
		return fmt.Sprintf("f%d", t.Width)
	case TypeVector:
		return fmt.Sprintf("v%dx%d", t.Width, t.Lanes)
	default:
		return "special"
	}
}

// Info describes one register. Aliases and Overlapping hold ids of other
// registers in the same set; they are references, not ownership.
type Info struct {
	Name        string
	Aliases     []arch.RegID
	Overlapping []arch.RegID
	Type        Type
	ID          arch.RegID
	Class       Class
	CallerSaved bool
	CalleeSaved bool
	Volatile    bool
	Reserved    bool
}

// NewInfo creates register info with no flags set.
func NewInfo(id arch.RegID, name string, class Class, typ Type) Info {
	return Info{ID: id, Name: name, Class: class, Type: typ}
}

func (i Info) WithCallerSaved() Info {
	i.CallerSaved = true
	return i
}

func (i Info) WithCalleeSaved() Info {
	i.CalleeSaved = true
	return i
}

func (i Info) WithVolatile() Info {
	i.Volatile = true
	return i
}

func (i Info) WithReserved() Info {
	i.Reserved = true
	return i
}

func (i Info) WithAlias(id arch.RegID) Info {
	i.Aliases = append(slices.Clip(i.Aliases), id)
	return i
}

func (i Info) WithOverlapping(id arch.RegID) Info {
	i.Overlapping = append(slices.Clip(i.Overlapping), id)
	return i
}

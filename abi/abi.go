package abi

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/errors"
	"github.com/RunningShrimp/vm-sub002/register"
)

// valueTypeV128 is the SIMD value type. wazero's api package does not
// export it.
const valueTypeV128 api.ValueType = 0x7b

// stackSlotSize is the stack slot size of a scalar parameter.
const stackSlotSize = 8

// ClassFor returns the register class and type a Wasm value of type t
// occupies.
func ClassFor(t api.ValueType) (register.Class, register.Type, error) {
	switch t {
	case api.ValueTypeI32:
		return register.ClassGeneralPurpose, register.Integer(32), nil
	case api.ValueTypeI64:
		return register.ClassGeneralPurpose, register.Integer(64), nil
	case api.ValueTypeF32:
		return register.ClassFloatingPoint, register.Float(32), nil
	case api.ValueTypeF64:
		return register.ClassFloatingPoint, register.Float(64), nil
	case valueTypeV128:
		return register.ClassVector, register.Vector(128, 4), nil
	case api.ValueTypeExternref:
		return register.ClassGeneralPurpose, register.Integer(64), nil
	default:
		return 0, register.Type{}, errors.Unsupported(errors.PhaseABI,
			fmt.Sprintf("value type %#x", byte(t)))
	}
}

// Slot is where one parameter lives on entry. Reg is only meaningful when
// OnStack is false, StackOffset only when it is true.
type Slot struct {
	Type        register.Type
	StackOffset uint32
	Index       int
	Reg         arch.RegID
	Class       register.Class
	OnStack     bool
}

func (s Slot) String() string {
	if s.OnStack {
		return fmt.Sprintf("#%d %s stack+%d", s.Index, s.Type, s.StackOffset)
	}
	return fmt.Sprintf("#%d %s r%d", s.Index, s.Type, s.Reg)
}

// LowerParams assigns each parameter, in order, a register of its class
// from alloc. A parameter whose class has no free register goes on the
// stack; nothing already assigned is spilled. Stack slots are 8 bytes, or
// 16 for vectors.
func LowerParams(alloc *register.Allocator, params []api.ValueType) ([]Slot, error) {
	slots := make([]Slot, 0, len(params))
	var offset uint32
	for i, p := range params {
		class, typ, err := ClassFor(p)
		if err != nil {
			return nil, err
		}
		slot := Slot{Index: i, Type: typ, Class: class}

		if alloc.Available(class) > 0 {
			reg, err := alloc.Allocate(class)
			if err != nil {
				return nil, errors.From(errors.PhaseABI, err)
			}
			slot.Reg = reg
		} else {
			size := uint32(stackSlotSize)
			if class == register.ClassVector {
				size = 16
			}
			offset = (offset + size - 1) &^ (size - 1)
			slot.OnStack, slot.StackOffset = true, offset
			offset += size
		}
		slots = append(slots, slot)
	}
	Logger().Debug("lowered parameters",
		zap.Stringer("arch", alloc.Architecture()),
		zap.Int("params", len(params)),
		zap.Uint32("stack_bytes", offset))
	return slots, nil
}

// Signature is an exported function type.
type Signature struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

func (s Signature) String() string {
	names := func(ts []api.ValueType) string {
		out := make([]string, len(ts))
		for i, t := range ts {
			out[i] = api.ValueTypeName(t)
		}
		return strings.Join(out, ", ")
	}
	return fmt.Sprintf("%s(%s) -> (%s)", s.Name, names(s.Params), names(s.Results))
}

// LoadSignatures compiles a core Wasm module and returns the signatures of
// its exported functions sorted by name. The module is never instantiated.
func LoadSignatures(ctx context.Context, wasm []byte) ([]Signature, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseABI, errors.KindInvalidData, err, "compile module")
	}
	defer compiled.Close(ctx)

	defs := compiled.ExportedFunctions()
	sigs := make([]Signature, 0, len(defs))
	for name, def := range defs {
		sigs = append(sigs, Signature{
			Name:    name,
			Params:  slices.Clone(def.ParamTypes()),
			Results: slices.Clone(def.ResultTypes()),
		})
	}
	slices.SortFunc(sigs, func(a, b Signature) int { return strings.Compare(a.Name, b.Name) })
	return sigs, nil
}

package crossarch

import (
	"sync"

	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/memory"
	"github.com/RunningShrimp/vm-sub002/pattern"
	"github.com/RunningShrimp/vm-sub002/register"
)

// commonCatalog is shared by every unit; catalogs are read-only once built.
var commonCatalog = sync.OnceValue(pattern.NewCommonCatalog)

// Unit holds the translation state of one compilation unit going from a
// source architecture to a target architecture.
//
// A Unit is not safe for concurrent use. Translate units in parallel by
// giving each its own Unit.
type Unit struct {
	Source    *register.Set
	Target    *register.Set
	Mapper    *register.Mapper
	Allocator *register.Allocator
	Analyzer  *memory.Analyzer
	Optimizer *memory.DefaultOptimizer
	Converter memory.EndiannessConverter
	Patterns  *pattern.Catalog
	Config    *arch.Config
}

// NewUnit creates a unit with direct register mapping and the common
// pattern catalog. The target configuration honors the XARCH_*
// environment overrides.
func NewUnit(source, target arch.Architecture) (*Unit, error) {
	src, err := register.ForArchitecture(source)
	if err != nil {
		return nil, err
	}
	dst, err := register.ForArchitecture(target)
	if err != nil {
		return nil, err
	}
	srcCfg, err := arch.ConfigFor(source)
	if err != nil {
		return nil, err
	}
	cfg, err := arch.ConfigFromEnv(target)
	if err != nil {
		return nil, err
	}

	return &Unit{
		Source:    src,
		Target:    dst,
		Mapper:    register.NewMapper(src, dst, register.StrategyDirect),
		Allocator: register.NewAllocator(dst),
		Analyzer:  memory.NewAnalyzer(),
		Optimizer: memory.NewOptimizer(cfg),
		Converter: memory.NewEndiannessConverter(srcCfg.Endianness, cfg.Endianness, memory.Optimized),
		Patterns:  commonCatalog(),
		Config:    cfg,
	}, nil
}

// Reset drops every mapping, allocation and recorded access so the unit
// can be reused. Reservations made on the mapper are kept.
func (u *Unit) Reset() {
	u.Mapper.FreeAll()
	u.Allocator.FreeAll()
	u.Analyzer.Reset()
}

// Lowered is a source operation rewritten for the target.
type Lowered struct {
	Pattern  *pattern.Pattern
	Op       pattern.IROp
	Accesses []memory.AccessPattern
}

// Lower selects the target pattern for op, rewrites its source registers
// to mapped target registers and records its memory operands with the
// analyzer. On error the mapper and analyzer are left as they were.
func (u *Unit) Lower(op pattern.IROp) (Lowered, error) {
	p, err := u.Patterns.Select(op, u.Target.Architecture())
	if err != nil {
		return Lowered{}, err
	}

	out := Lowered{Pattern: p, Op: pattern.IROp{Opcode: op.Opcode, Flags: op.Flags}}
	access := memory.Read
	if p.Category == pattern.Memory(pattern.MemStore) {
		access = memory.Write
	}

	var fresh []arch.RegID
	for _, operand := range op.Operands {
		mapped, err := u.mapOperand(operand, &fresh)
		if err != nil {
			for _, dst := range fresh {
				_ = u.Mapper.FreeRegister(dst)
			}
			return Lowered{}, err
		}
		if m, ok := mapped.(pattern.Mem); ok && m.HasBase {
			if width, ok := memory.WidthForSize(int(m.Size)); ok {
				ap := memory.NewAccessPattern(m.Base, m.Displacement, width).WithAccessType(access)
				out.Accesses = append(out.Accesses, ap)
			}
		}
		out.Op.Operands = append(out.Op.Operands, mapped)
	}

	for _, ap := range out.Accesses {
		u.Analyzer.AddPattern(ap)
	}
	return out, nil
}

// mapReg maps src and appends the target to fresh when the mapping is new.
func (u *Unit) mapReg(src arch.RegID, fresh *[]arch.RegID) (arch.RegID, error) {
	before := u.Mapper.Stats().TotalMappings
	dst, err := u.Mapper.MapRegister(src)
	if err == nil && u.Mapper.Stats().TotalMappings > before {
		*fresh = append(*fresh, dst)
	}
	return dst, err
}

func (u *Unit) mapOperand(op pattern.Operand, fresh *[]arch.RegID) (pattern.Operand, error) {
	switch v := op.(type) {
	case pattern.Reg:
		dst, err := u.mapReg(arch.RegID(v), fresh)
		return pattern.Reg(dst), err
	case pattern.RegPair:
		first, err := u.mapReg(v.First, fresh)
		if err != nil {
			return nil, err
		}
		second, err := u.mapReg(v.Second, fresh)
		return pattern.RegPair{First: first, Second: second}, err
	case pattern.RegList:
		out := make(pattern.RegList, len(v))
		for i, r := range v {
			dst, err := u.mapReg(r, fresh)
			if err != nil {
				return nil, err
			}
			out[i] = dst
		}
		return out, nil
	case pattern.Mem:
		var err error
		if v.HasBase {
			if v.Base, err = u.mapReg(v.Base, fresh); err != nil {
				return nil, err
			}
		}
		if v.HasIndex {
			if v.Index, err = u.mapReg(v.Index, fresh); err != nil {
				return nil, err
			}
		}
		return v, nil
	case pattern.Vec:
		out := make(pattern.Vec, len(v))
		for i, elem := range v {
			mapped, err := u.mapOperand(elem, fresh)
			if err != nil {
				return nil, err
			}
			out[i] = mapped
		}
		return out, nil
	default:
		return op, nil
	}
}

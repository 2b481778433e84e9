package register

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// StrategyKind names a register mapping strategy.
type StrategyKind uint8

const (
	StrategyKindDirect StrategyKind = iota
	StrategyKindWindowed
	StrategyKindStackBased
	StrategyKindOptimized
	StrategyKindVirtual
	StrategyKindCustom
)

// MappingStrategy selects how a Mapper assigns target registers. Every
// strategy currently uses first-fit assignment; the parameters are carried
// for reporting.
type MappingStrategy struct {
	Kind        StrategyKind
	WindowSize  uint8
	WindowCount uint8
	StackSize   uint8
}

var (
	StrategyDirect    = MappingStrategy{Kind: StrategyKindDirect}
	StrategyOptimized = MappingStrategy{Kind: StrategyKindOptimized}
	StrategyVirtual   = MappingStrategy{Kind: StrategyKindVirtual}
	StrategyCustom    = MappingStrategy{Kind: StrategyKindCustom}
)

// Windowed returns a register-window strategy (SPARC style).
func Windowed(size, count uint8) MappingStrategy {
	return MappingStrategy{Kind: StrategyKindWindowed, WindowSize: size, WindowCount: count}
}

// StackBased returns a strategy for register stacks of the given depth.
func StackBased(size uint8) MappingStrategy {
	return MappingStrategy{Kind: StrategyKindStackBased, StackSize: size}
}

func (s MappingStrategy) String() string {
	switch s.Kind {
	case StrategyKindDirect:
		return "direct"
	case StrategyKindWindowed:
		return fmt.Sprintf("windowed(size=%d,count=%d)", s.WindowSize, s.WindowCount)
	case StrategyKindStackBased:
		return fmt.Sprintf("stack(size=%d)", s.StackSize)
	case StrategyKindOptimized:
		return "optimized"
	case StrategyKindVirtual:
		return "virtual"
	case StrategyKindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Mapping is one source-to-target register assignment.
type Mapping struct {
	Source arch.RegID
	Target arch.RegID
}

// MappingStats summarizes the state of a Mapper.
type MappingStats struct {
	Strategy           MappingStrategy
	TotalMappings      int
	AllocatedRegisters int
	ReservedRegisters  int
}

// Mapper assigns source registers to target registers of the same class.
// A mapping, once made, is stable until its target register is freed.
//
// Invariants: every target in the forward map is allocated; reverse is the
// exact inverse of forward; no target is both allocated and reserved.
type Mapper struct {
	source    *Set
	target    *Set
	forward   map[arch.RegID]arch.RegID
	reverse   map[arch.RegID]arch.RegID
	allocated map[arch.RegID]struct{}
	reserved  map[arch.RegID]struct{}
	strategy  MappingStrategy
}

// NewMapper creates a mapper from source registers to target registers.
func NewMapper(source, target *Set, strategy MappingStrategy) *Mapper {
	return &Mapper{
		source:    source,
		target:    target,
		strategy:  strategy,
		forward:   make(map[arch.RegID]arch.RegID),
		reverse:   make(map[arch.RegID]arch.RegID),
		allocated: make(map[arch.RegID]struct{}),
		reserved:  make(map[arch.RegID]struct{}),
	}
}

// Strategy returns the mapping strategy.
func (m *Mapper) Strategy() MappingStrategy { return m.strategy }

// MapRegister returns the target register for src. On first use it assigns
// the first free, non-reserved target register of the same class whose type
// can hold the source's values, or failing that the first free one.
func (m *Mapper) MapRegister(src arch.RegID) (arch.RegID, error) {
	if dst, ok := m.forward[src]; ok {
		return dst, nil
	}

	info, ok := m.source.Register(src)
	if !ok {
		return 0, errNotFound(src)
	}

	var (
		chosen arch.RegID
		found  bool
	)
	candidates := m.target.AvailableRegisters(info.Class)
	for _, c := range candidates {
		if m.free(c.ID) && c.Type.CompatibleWith(info.Type) {
			chosen, found = c.ID, true
			break
		}
	}
	if !found {
		for _, c := range candidates {
			if m.free(c.ID) {
				chosen, found = c.ID, true
				break
			}
		}
	}
	if !found {
		Logger().Debug("no target register for mapping",
			zap.Uint16("source", uint16(src)),
			zap.Stringer("class", info.Class),
			zap.Stringer("target_arch", m.target.Architecture()))
		return 0, errNoAvailable(info.Class)
	}
	if _, taken := m.allocated[chosen]; taken {
		return 0, errAlreadyAllocated(chosen)
	}

	m.forward[src] = chosen
	m.reverse[chosen] = src
	m.allocated[chosen] = struct{}{}
	return chosen, nil
}

func (m *Mapper) free(dst arch.RegID) bool {
	if _, busy := m.allocated[dst]; busy {
		return false
	}
	_, held := m.reserved[dst]
	return !held
}

// ReverseMap returns the source register mapped onto dst.
func (m *Mapper) ReverseMap(dst arch.RegID) (arch.RegID, bool) {
	src, ok := m.reverse[dst]
	return src, ok
}

// IsAllocated reports whether dst is the target of a mapping.
func (m *Mapper) IsAllocated(dst arch.RegID) bool {
	_, ok := m.allocated[dst]
	return ok
}

// IsReserved reports whether dst has been reserved.
func (m *Mapper) IsReserved(dst arch.RegID) bool {
	_, ok := m.reserved[dst]
	return ok
}

// ReserveRegister excludes dst from future mappings.
func (m *Mapper) ReserveRegister(dst arch.RegID) error {
	if _, ok := m.allocated[dst]; ok {
		return errAlreadyAllocated(dst)
	}
	m.reserved[dst] = struct{}{}
	return nil
}

// ReleaseReservation makes dst available to mapping again. Releasing a
// register that is not reserved is a no-op.
func (m *Mapper) ReleaseReservation(dst arch.RegID) {
	delete(m.reserved, dst)
}

// FreeRegister removes the mapping whose target is dst.
func (m *Mapper) FreeRegister(dst arch.RegID) error {
	if _, ok := m.allocated[dst]; !ok {
		return errInvalidRegister(dst)
	}
	if src, ok := m.reverse[dst]; ok {
		delete(m.forward, src)
	}
	delete(m.reverse, dst)
	delete(m.allocated, dst)
	return nil
}

// FreeAll removes every mapping. Reservations are kept.
func (m *Mapper) FreeAll() {
	clear(m.forward)
	clear(m.reverse)
	clear(m.allocated)
}

// Stats returns a snapshot of the mapper's counters.
func (m *Mapper) Stats() MappingStats {
	return MappingStats{
		Strategy:           m.strategy,
		TotalMappings:      len(m.forward),
		AllocatedRegisters: len(m.allocated),
		ReservedRegisters:  len(m.reserved),
	}
}

// Mappings returns every current mapping ordered by source register.
func (m *Mapper) Mappings() []Mapping {
	out := make([]Mapping, 0, len(m.forward))
	for src, dst := range m.forward {
		out = append(out, Mapping{Source: src, Target: dst})
	}
	slices.SortFunc(out, func(a, b Mapping) int { return int(a.Source) - int(b.Source) })
	return out
}

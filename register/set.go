package register

import (
	"fmt"
	"math"
	"slices"

	"github.com/RunningShrimp/vm-sub002/arch"
)

type location struct {
	class Class
	index int
}

// Set is the register inventory of one architecture.
//
// Registers are kept per class in registration order, which is the order
// first-fit mapping and allocation hand them out. Special registers are keyed
// by name: adding a special register whose name is already present replaces
// the earlier entry in place.
type Set struct {
	byClass  [numClasses][]Info
	byID     map[arch.RegID]location
	specials map[string]int
	arch     arch.Architecture
}

// NewSet creates an empty register set for a.
func NewSet(a arch.Architecture) *Set {
	return &Set{
		arch:     a,
		byID:     make(map[arch.RegID]location),
		specials: make(map[string]int),
	}
}

// MaxVirtualRegisters is the size of the register id space.
const MaxVirtualRegisters = math.MaxUint16 + 1

// NewVirtualSet creates a set of n general-purpose 64-bit registers named
// v0..v(n-1) with ids 0..n-1. n is clamped to MaxVirtualRegisters.
func NewVirtualSet(a arch.Architecture, n int) *Set {
	n = min(n, MaxVirtualRegisters)
	s := NewSet(a)
	for i := 0; i < n; i++ {
		// ids are dense and unique; AddRegister cannot fail.
		_ = s.AddRegister(NewInfo(arch.RegID(i), fmt.Sprintf("v%d", i), ClassGeneralPurpose, DefaultType()))
	}
	return s
}

// Architecture returns the architecture the set describes.
func (s *Set) Architecture() arch.Architecture { return s.arch }

// AddRegister adds info to the set. Registering an id twice is a
// RegisterConflict, except for a special register replacing an earlier
// special register of the same name.
func (s *Set) AddRegister(info Info) error {
	if !info.Class.valid() {
		return errUnsupportedClass(info.Class, s.arch)
	}

	if info.Class == ClassSpecial {
		if idx, ok := s.specials[info.Name]; ok {
			old := s.byClass[ClassSpecial][idx]
			if old.ID != info.ID {
				if _, taken := s.byID[info.ID]; taken {
					return errConflict("register id %d already registered", info.ID)
				}
				delete(s.byID, old.ID)
			}
			s.byClass[ClassSpecial][idx] = info
			s.byID[info.ID] = location{class: ClassSpecial, index: idx}
			return nil
		}
	}

	if existing, ok := s.byID[info.ID]; ok {
		prev := s.byClass[existing.class][existing.index]
		return errConflict("register id %d already registered as %q", info.ID, prev.Name)
	}

	idx := len(s.byClass[info.Class])
	s.byClass[info.Class] = append(s.byClass[info.Class], info)
	s.byID[info.ID] = location{class: info.Class, index: idx}
	if info.Class == ClassSpecial {
		s.specials[info.Name] = idx
	}
	return nil
}

// Register looks a register up by id.
func (s *Set) Register(id arch.RegID) (Info, bool) {
	loc, ok := s.byID[id]
	if !ok {
		return Info{}, false
	}
	return s.byClass[loc.class][loc.index], true
}

// RegisterByName looks a register up by its name. Lookup is linear.
func (s *Set) RegisterByName(name string) (Info, bool) {
	if idx, ok := s.specials[name]; ok {
		return s.byClass[ClassSpecial][idx], true
	}
	for c := range s.byClass {
		for _, info := range s.byClass[c] {
			if info.Name == name {
				return info, true
			}
		}
	}
	return Info{}, false
}

// RegistersByClass returns the registers of class in registration order.
func (s *Set) RegistersByClass(class Class) []Info {
	if !class.valid() {
		return nil
	}
	return slices.Clone(s.byClass[class])
}

// AvailableRegisters returns the non-reserved registers of class in
// registration order.
func (s *Set) AvailableRegisters(class Class) []Info {
	if !class.valid() {
		return nil
	}
	var out []Info
	for _, info := range s.byClass[class] {
		if !info.Reserved {
			out = append(out, info)
		}
	}
	return out
}

// Len returns the number of registers in the set.
func (s *Set) Len() int { return len(s.byID) }

// All returns every register, grouped by class in class order.
func (s *Set) All() []Info {
	out := make([]Info, 0, len(s.byID))
	for c := range s.byClass {
		out = append(out, s.byClass[c]...)
	}
	return out
}

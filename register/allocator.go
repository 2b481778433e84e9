package register

import (
	"go.uber.org/zap"

	"github.com/RunningShrimp/vm-sub002/arch"
)

// SpillEvent describes a register evicted to satisfy an allocation.
type SpillEvent struct {
	Reg       arch.RegID
	Class     Class
	SpillCost float32
	LastUsed  uint64
}

// SpillObserver receives notifications about spilled registers.
type SpillObserver interface {
	OnSpill(SpillEvent)
}

type allocation struct {
	lastUsed  uint64
	spillCost float32
	class     Class
}

// Allocator hands out registers of one set by class and spills the
// cheapest allocated register when a class is exhausted.
//
// Free lists are stacks: the first registered register of a class is handed
// out first, and a freed register is the next one handed out. Every
// non-reserved register of an allocatable class is either on its free list
// or in the allocated map, never both.
type Allocator struct {
	set       *Set
	free      map[Class][]arch.RegID
	allocated map[arch.RegID]*allocation
	observers []SpillObserver
	spills    uint64
}

// NewAllocator creates an allocator over the non-reserved registers of set.
// Every class except Special gets a free list, possibly empty.
func NewAllocator(set *Set) *Allocator {
	a := &Allocator{
		set:       set,
		free:      make(map[Class][]arch.RegID),
		allocated: make(map[arch.RegID]*allocation),
	}
	a.fill()
	return a
}

func (a *Allocator) fill() {
	for _, class := range Classes() {
		if class == ClassSpecial {
			continue
		}
		regs := a.set.AvailableRegisters(class)
		list := make([]arch.RegID, len(regs))
		for i, info := range regs {
			list[len(regs)-1-i] = info.ID
		}
		a.free[class] = list
	}
}

// Architecture returns the architecture of the underlying set.
func (a *Allocator) Architecture() arch.Architecture { return a.set.Architecture() }

// Allocate returns a free register of class, spilling one if necessary.
func (a *Allocator) Allocate(class Class) (arch.RegID, error) {
	list, ok := a.free[class]
	if !ok {
		return 0, errUnsupportedClass(class, a.set.Architecture())
	}
	if len(list) == 0 {
		if err := a.spill(class); err != nil {
			return 0, err
		}
		list = a.free[class]
	}

	id := list[len(list)-1]
	a.free[class] = list[:len(list)-1]
	a.allocated[id] = &allocation{class: class}
	return id, nil
}

// spill evicts the allocated register of class with the lowest spill cost.
// Ties go to the lowest id.
func (a *Allocator) spill(class Class) error {
	var (
		victim arch.RegID
		state  *allocation
	)
	for id, st := range a.allocated {
		if st.class != class {
			continue
		}
		if state == nil || st.spillCost < state.spillCost ||
			(st.spillCost == state.spillCost && id < victim) {
			victim, state = id, st
		}
	}
	if state == nil {
		return errNoAvailable(class)
	}

	delete(a.allocated, victim)
	a.free[class] = append(a.free[class], victim)
	a.spills++

	Logger().Debug("spilled register",
		zap.Uint16("reg", uint16(victim)),
		zap.Stringer("class", class),
		zap.Float32("spill_cost", state.spillCost),
		zap.Uint64("last_used", state.lastUsed))

	event := SpillEvent{Reg: victim, Class: class, SpillCost: state.spillCost, LastUsed: state.lastUsed}
	for _, o := range a.observers {
		o.OnSpill(event)
	}
	return nil
}

// Free returns id to its class free list.
func (a *Allocator) Free(id arch.RegID) error {
	st, ok := a.allocated[id]
	if !ok {
		return errInvalidRegister(id)
	}
	delete(a.allocated, id)
	a.free[st.class] = append(a.free[st.class], id)
	return nil
}

// MarkUsed records the last-use timestamp of an allocated register.
// It does nothing if id is not allocated.
func (a *Allocator) MarkUsed(id arch.RegID, timestamp uint64) {
	if st, ok := a.allocated[id]; ok {
		st.lastUsed = timestamp
	}
}

// SetSpillCost records the spill cost of an allocated register.
// It does nothing if id is not allocated.
func (a *Allocator) SetSpillCost(id arch.RegID, cost float32) {
	if st, ok := a.allocated[id]; ok {
		st.spillCost = cost
	}
}

// IsAllocated reports whether id is currently allocated.
func (a *Allocator) IsAllocated(id arch.RegID) bool {
	_, ok := a.allocated[id]
	return ok
}

// Available returns the number of free registers of class.
func (a *Allocator) Available(class Class) int {
	return len(a.free[class])
}

// Allocated returns the number of outstanding allocations.
func (a *Allocator) Allocated() int { return len(a.allocated) }

// Spills returns how many registers have been spilled.
func (a *Allocator) Spills() uint64 { return a.spills }

// FreeAll releases every allocation and restores the initial free lists.
func (a *Allocator) FreeAll() {
	clear(a.allocated)
	a.fill()
}

// Subscribe adds an observer for spill events.
func (a *Allocator) Subscribe(o SpillObserver) {
	a.observers = append(a.observers, o)
}

// Unsubscribe removes an observer.
func (a *Allocator) Unsubscribe(o SpillObserver) {
	for i, obs := range a.observers {
		if obs == o {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

package register

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/RunningShrimp/vm-sub002/arch"
)

type spillRecorder struct {
	events []SpillEvent
}

func (r *spillRecorder) OnSpill(e SpillEvent) {
	r.events = append(r.events, e)
}

func TestAllocator_Order(t *testing.T) {
	a := NewAllocator(NewVirtualSet(arch.X86_64, 3))

	var got []arch.RegID
	for i := 0; i < 3; i++ {
		id, err := a.Allocate(ClassGeneralPurpose)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		got = append(got, id)
	}
	if diff := cmp.Diff([]arch.RegID{0, 1, 2}, got); diff != "" {
		t.Errorf("allocation order mismatch (-want +got):\n%s", diff)
	}
	if a.Available(ClassGeneralPurpose) != 0 || a.Allocated() != 3 {
		t.Errorf("Available = %d, Allocated = %d", a.Available(ClassGeneralPurpose), a.Allocated())
	}

	if err := a.Free(1); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if id, _ := a.Allocate(ClassGeneralPurpose); id != 1 {
		t.Errorf("Allocate after Free(1) = %d, want 1", id)
	}
}

func TestAllocator_SingleRegisterSpill(t *testing.T) {
	a := NewAllocator(NewVirtualSet(arch.ARM64, 1))
	rec := &spillRecorder{}
	a.Subscribe(rec)

	first, err := a.Allocate(ClassGeneralPurpose)
	if err != nil {
		t.Fatal(err)
	}
	a.MarkUsed(first, 42)
	second, err := a.Allocate(ClassGeneralPurpose)
	if err != nil {
		t.Fatalf("Allocate with spill: %v", err)
	}
	if second != first {
		t.Errorf("spilled allocation = %d, want %d", second, first)
	}
	if a.Spills() != 1 {
		t.Errorf("Spills() = %d, want 1", a.Spills())
	}
	want := []SpillEvent{{Reg: first, Class: ClassGeneralPurpose, LastUsed: 42}}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("spill events mismatch (-want +got):\n%s", diff)
	}
}

func TestAllocator_SpillVictim(t *testing.T) {
	tests := []struct {
		name  string
		costs map[arch.RegID]float32
		want  arch.RegID
	}{
		{"lowest cost", map[arch.RegID]float32{0: 5, 1: 1, 2: 3}, 1},
		{"tie lowest id", map[arch.RegID]float32{0: 2, 1: 2, 2: 2}, 0},
		{"tie among cheapest", map[arch.RegID]float32{0: 9, 1: 0.5, 2: 0.5}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(NewVirtualSet(arch.RISCV64, 3))
			for i := 0; i < 3; i++ {
				_, _ = a.Allocate(ClassGeneralPurpose)
			}
			for id, cost := range tt.costs {
				a.SetSpillCost(id, cost)
			}
			got, err := a.Allocate(ClassGeneralPurpose)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("spill victim = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAllocator_Errors(t *testing.T) {
	a := NewAllocator(NewVirtualSet(arch.X86_64, 2))

	if _, err := a.Allocate(ClassSpecial); !errors.Is(err, ErrUnsupportedRegisterClass) {
		t.Errorf("Allocate(special) error = %v, want UnsupportedRegisterClass", err)
	}
	if _, err := a.Allocate(ClassVector); !errors.Is(err, ErrNoAvailableRegisters) {
		t.Errorf("Allocate(vector) error = %v, want NoAvailableRegisters", err)
	}
	if err := a.Free(0); !errors.Is(err, ErrInvalidRegister) {
		t.Errorf("Free(unallocated) error = %v, want InvalidRegister", err)
	}

	a.MarkUsed(7, 1)
	a.SetSpillCost(7, 1)
	if a.IsAllocated(7) {
		t.Error("bookkeeping on unallocated id should be a no-op")
	}
}

func TestAllocator_Conservation(t *testing.T) {
	set := X86_64()
	a := NewAllocator(set)
	n := len(set.AvailableRegisters(ClassGeneralPurpose))

	seen := make(map[arch.RegID]bool)
	for i := 0; i < n; i++ {
		id, err := a.Allocate(ClassGeneralPurpose)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("register %d handed out twice", id)
		}
		seen[id] = true
	}
	if a.Allocated() != n || a.Spills() != 0 {
		t.Errorf("Allocated = %d, Spills = %d; want %d, 0", a.Allocated(), a.Spills(), n)
	}
	if seen[X86RSP] {
		t.Error("reserved rsp was allocated")
	}

	a.FreeAll()
	if a.Available(ClassGeneralPurpose) != n || a.Allocated() != 0 {
		t.Errorf("after FreeAll: Available = %d, Allocated = %d", a.Available(ClassGeneralPurpose), a.Allocated())
	}
	if id, _ := a.Allocate(ClassGeneralPurpose); id != X86RAX {
		t.Errorf("first allocation after FreeAll = %d, want rax", id)
	}
}

func TestAllocator_Unsubscribe(t *testing.T) {
	a := NewAllocator(NewVirtualSet(arch.X86_64, 1))
	rec := &spillRecorder{}
	a.Subscribe(rec)
	a.Unsubscribe(rec)

	_, _ = a.Allocate(ClassGeneralPurpose)
	_, _ = a.Allocate(ClassGeneralPurpose)
	if len(rec.events) != 0 {
		t.Errorf("unsubscribed observer got %d events", len(rec.events))
	}
}

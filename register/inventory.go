package register

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/RunningShrimp/vm-sub002/arch"
	"github.com/RunningShrimp/vm-sub002/errors"
)

// role is the calling-convention treatment of a register.
type role uint8

const (
	caller role = 1 << iota
	callee
	volatile
	reserved
)

func (r role) apply(info Info) Info {
	if r&caller != 0 {
		info = info.WithCallerSaved()
	}
	if r&callee != 0 {
		info = info.WithCalleeSaved()
	}
	if r&volatile != 0 {
		info = info.WithVolatile()
	}
	if r&reserved != 0 {
		info = info.WithReserved()
	}
	return info
}

// builder accumulates the first AddRegister failure so that inventory
// tables read as flat lists.
type builder struct {
	set *Set
	err error
}

func newBuilder(a arch.Architecture) *builder {
	return &builder{set: NewSet(a)}
}

func (b *builder) add(info Info) {
	if b.err != nil {
		return
	}
	b.err = b.set.AddRegister(info)
}

func (b *builder) reg(id arch.RegID, name string, class Class, typ Type, r role) {
	b.add(r.apply(NewInfo(id, name, class, typ)))
}

func (b *builder) done() (*Set, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.set, nil
}

// ForArchitecture builds the register inventory of a. Calling-convention
// flags follow System V AMD64, AAPCS64 and the RISC-V LP64D ABI.
func ForArchitecture(a arch.Architecture) (*Set, error) {
	var s *Set
	var err error
	switch a {
	case arch.X86_64:
		s, err = x86_64Registers()
	case arch.ARM64:
		s, err = arm64Registers()
	case arch.RISCV64:
		s, err = riscv64Registers()
	default:
		return nil, errors.NotSupported(errors.PhaseRegister, "register set for architecture "+a.String(), nil)
	}
	if err != nil {
		return nil, err
	}
	Logger().Debug("built register set",
		zap.Stringer("arch", a),
		zap.Int("registers", s.Len()))
	return s, nil
}

// MustForArchitecture is like ForArchitecture but panics on error.
func MustForArchitecture(a arch.Architecture) *Set {
	s, err := ForArchitecture(a)
	if err != nil {
		panic(err)
	}
	return s
}

// X86_64 returns the x86-64 register inventory.
func X86_64() *Set { return MustForArchitecture(arch.X86_64) }

// ARM64 returns the ARM64 register inventory.
func ARM64() *Set { return MustForArchitecture(arch.ARM64) }

// RISCV64 returns the RISC-V 64 register inventory.
func RISCV64() *Set { return MustForArchitecture(arch.RISCV64) }

// x86-64 register ids.
const (
	X86RAX arch.RegID = iota
	X86RCX
	X86RDX
	X86RBX
	X86RSP
	X86RBP
	X86RSI
	X86RDI
	X86R8
	X86R9
	X86R10
	X86R11
	X86R12
	X86R13
	X86R14
	X86R15
	X86XMM0 // xmm0..xmm15
)

const (
	X86YMM0   arch.RegID = 32 // ymm0..ymm15
	X86K0     arch.RegID = 48 // k0..k7
	X86RIP    arch.RegID = 56
	X86RFLAGS arch.RegID = 57
	X86CR0    arch.RegID = 58
	X86CR2    arch.RegID = 59
	X86CR3    arch.RegID = 60
	X86CR4    arch.RegID = 61
	X86MXCSR  arch.RegID = 62
	X86FSBase arch.RegID = 63
	X86GSBase arch.RegID = 64
	X86GDTR   arch.RegID = 65
	X86IDTR   arch.RegID = 66
)

func x86_64Registers() (*Set, error) {
	b := newBuilder(arch.X86_64)

	gprs := []struct {
		name string
		role role
	}{
		{"rax", caller}, {"rcx", caller}, {"rdx", caller}, {"rbx", callee},
		{"rsp", reserved}, {"rbp", callee}, {"rsi", caller}, {"rdi", caller},
		{"r8", caller}, {"r9", caller}, {"r10", caller}, {"r11", caller | volatile},
		{"r12", callee}, {"r13", callee}, {"r14", callee}, {"r15", callee},
	}
	for i, g := range gprs {
		b.reg(X86RAX+arch.RegID(i), g.name, ClassGeneralPurpose, Integer(64), g.role)
	}

	for i := arch.RegID(0); i < 16; i++ {
		xmm := caller.apply(NewInfo(X86XMM0+i, fmt.Sprintf("xmm%d", i), ClassFloatingPoint, Float(64)))
		b.add(xmm.WithOverlapping(X86YMM0 + i))
	}
	for i := arch.RegID(0); i < 16; i++ {
		ymm := caller.apply(NewInfo(X86YMM0+i, fmt.Sprintf("ymm%d", i), ClassVector, Vector(256, 8)))
		b.add(ymm.WithOverlapping(X86XMM0 + i))
	}
	for i := arch.RegID(0); i < 8; i++ {
		r := caller
		if i == 0 {
			r = reserved
		}
		b.reg(X86K0+i, fmt.Sprintf("k%d", i), ClassPredicate, Integer(64), r)
	}

	b.reg(X86RIP, "rip", ClassSpecial, Special(), reserved)
	b.reg(X86RFLAGS, "rflags", ClassStatus, Integer(64), reserved|volatile)
	b.reg(X86CR0, "cr0", ClassControl, Integer(64), reserved)
	b.reg(X86CR2, "cr2", ClassControl, Integer(64), reserved)
	b.reg(X86CR3, "cr3", ClassControl, Integer(64), reserved)
	b.reg(X86CR4, "cr4", ClassControl, Integer(64), reserved)
	b.reg(X86MXCSR, "mxcsr", ClassControl, Integer(32), reserved)
	b.reg(X86FSBase, "fs_base", ClassApplication, Integer(64), reserved)
	b.reg(X86GSBase, "gs_base", ClassApplication, Integer(64), reserved)
	b.reg(X86GDTR, "gdtr", ClassSystem, Integer(64), reserved)
	b.reg(X86IDTR, "idtr", ClassSystem, Integer(64), reserved)

	return b.done()
}

// ARM64 register ids.
const (
	ARM64X0    arch.RegID = 0 // x0..x30
	ARM64SP    arch.RegID = 31
	ARM64PC    arch.RegID = 32
	ARM64XZR   arch.RegID = 33
	ARM64D0    arch.RegID = 34 // d0..d31
	ARM64V0    arch.RegID = 66 // v0..v31
	ARM64P0    arch.RegID = 98 // p0..p15
	ARM64NZCV  arch.RegID = 114
	ARM64FPSR  arch.RegID = 115
	ARM64FPCR  arch.RegID = 116
	ARM64SCTLR arch.RegID = 117
	ARM64TTBR0 arch.RegID = 118
	ARM64VBAR  arch.RegID = 119
	ARM64TPIDR arch.RegID = 120
)

func arm64Registers() (*Set, error) {
	b := newBuilder(arch.ARM64)

	for i := arch.RegID(0); i <= 30; i++ {
		var r role
		switch {
		case i == 16 || i == 17:
			r = caller | volatile
		case i == 18:
			r = reserved
		case i >= 19 && i <= 28:
			r = callee
		case i == 29:
			r = callee | reserved
		case i == 30:
			r = caller | volatile
		default:
			r = caller
		}
		b.reg(ARM64X0+i, fmt.Sprintf("x%d", i), ClassGeneralPurpose, Integer(64), r)
	}

	b.reg(ARM64SP, "sp", ClassSpecial, Special(), reserved)
	b.reg(ARM64PC, "pc", ClassSpecial, Special(), reserved)
	b.reg(ARM64XZR, "xzr", ClassSpecial, Special(), reserved)

	for i := arch.RegID(0); i < 32; i++ {
		r := caller
		if i >= 8 && i <= 15 {
			r = callee
		}
		d := r.apply(NewInfo(ARM64D0+i, fmt.Sprintf("d%d", i), ClassFloatingPoint, Float(64)))
		b.add(d.WithOverlapping(ARM64V0 + i))
	}
	for i := arch.RegID(0); i < 32; i++ {
		v := caller.apply(NewInfo(ARM64V0+i, fmt.Sprintf("v%d", i), ClassVector, Vector(128, 4)))
		b.add(v.WithOverlapping(ARM64D0 + i))
	}
	for i := arch.RegID(0); i < 16; i++ {
		b.reg(ARM64P0+i, fmt.Sprintf("p%d", i), ClassPredicate, Integer(32), caller)
	}

	b.reg(ARM64NZCV, "nzcv", ClassStatus, Integer(32), reserved|volatile)
	b.reg(ARM64FPSR, "fpsr", ClassStatus, Integer(32), reserved|volatile)
	b.reg(ARM64FPCR, "fpcr", ClassControl, Integer(32), reserved)
	b.reg(ARM64SCTLR, "sctlr_el1", ClassSystem, Integer(64), reserved)
	b.reg(ARM64TTBR0, "ttbr0_el1", ClassSystem, Integer(64), reserved)
	b.reg(ARM64VBAR, "vbar_el1", ClassSystem, Integer(64), reserved)
	b.reg(ARM64TPIDR, "tpidr_el0", ClassApplication, Integer(64), reserved)

	return b.done()
}

// RISC-V 64 register ids.
const (
	RISCVX0      arch.RegID = 0  // x0..x31 by ABI name
	RISCVF0      arch.RegID = 32 // f0..f31
	RISCVV0      arch.RegID = 64 // v0..v31
	RISCVPC      arch.RegID = 96
	RISCVFCSR    arch.RegID = 97
	RISCVVType   arch.RegID = 98
	RISCVVL      arch.RegID = 99
	RISCVSATP    arch.RegID = 100
	RISCVMStatus arch.RegID = 101
	RISCVMTVec   arch.RegID = 102
)

var riscvGPRNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

var riscvFPRNames = [32]string{
	"ft0", "ft1", "ft2", "ft3", "ft4", "ft5", "ft6", "ft7",
	"fs0", "fs1", "fa0", "fa1", "fa2", "fa3", "fa4", "fa5",
	"fa6", "fa7", "fs2", "fs3", "fs4", "fs5", "fs6", "fs7",
	"fs8", "fs9", "fs10", "fs11", "ft8", "ft9", "ft10", "ft11",
}

func riscv64Registers() (*Set, error) {
	b := newBuilder(arch.RISCV64)

	for i, name := range riscvGPRNames {
		var r role
		switch {
		case i == 0 || i == 2 || i == 3 || i == 4:
			r = reserved
		case i == 8 || i == 9 || (i >= 18 && i <= 27):
			r = callee
		default:
			r = caller
		}
		b.reg(RISCVX0+arch.RegID(i), name, ClassGeneralPurpose, Integer(64), r)
	}
	for i, name := range riscvFPRNames {
		r := caller
		if name[1] == 's' {
			r = callee
		}
		b.reg(RISCVF0+arch.RegID(i), name, ClassFloatingPoint, Float(64), r)
	}
	for i := arch.RegID(0); i < 32; i++ {
		b.reg(RISCVV0+i, fmt.Sprintf("v%d", i), ClassVector, Vector(128, 4), caller)
	}

	b.reg(RISCVPC, "pc", ClassSpecial, Special(), reserved)
	b.reg(RISCVFCSR, "fcsr", ClassStatus, Integer(32), reserved|volatile)
	b.reg(RISCVVType, "vtype", ClassControl, Integer(64), reserved)
	b.reg(RISCVVL, "vl", ClassControl, Integer(64), reserved)
	b.reg(RISCVSATP, "satp", ClassSystem, Integer(64), reserved)
	b.reg(RISCVMStatus, "mstatus", ClassSystem, Integer(64), reserved)
	b.reg(RISCVMTVec, "mtvec", ClassSystem, Integer(64), reserved)

	return b.done()
}

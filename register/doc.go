// Package register models per-architecture register files and translates
// register usage between them.
//
// A Set is the static inventory of one architecture's registers, grouped by
// Class. Inventories for x86-64, ARM64 and RISC-V 64 are built by
// ForArchitecture; NewVirtualSet builds an unbounded-style virtual file.
//
// A Mapper assigns each source register a target register of the same class
// on first use and keeps that assignment until it is freed. An Allocator
// hands out target registers per class and spills the cheapest allocated
// register when a class runs dry:
//
//	source, _ := register.ForArchitecture(arch.X86_64)
//	target, _ := register.ForArchitecture(arch.ARM64)
//	m := register.NewMapper(source, target, register.StrategyDirect)
//	dst, err := m.MapRegister(0) // rax -> x0
//
// Mappers and allocators are not safe for concurrent use. Sets are
// read-only once built and may be shared.
package register

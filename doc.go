// Package crossarch provides the translation-support layer of a
// cross-architecture virtual machine: it models register files, maps and
// allocates registers between architectures, analyzes memory accesses and
// matches IR operations to instruction patterns.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	crossarch/           Root package with the per-unit translation state
//	├── arch/            Architecture identifiers and per-target constants
//	├── register/        Register inventories, mapping and allocation
//	├── memory/          Access analysis, alignment, endianness conversion
//	├── pattern/         Instruction categories and the pattern catalog
//	├── abi/             Wasm signature lowering onto register files
//	├── errors/          Unified error type shared by every component
//	└── cmd/xarch/       Command line inspector
//
// # Quick Start
//
// Translate one operation from x86-64 to ARM64:
//
//	u, err := crossarch.NewUnit(arch.X86_64, arch.ARM64)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	l, err := u.Lower(pattern.MustParseOp("load r0, [r4+8]"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(l.Pattern.ID, l.Op) // load_reg_mem load r0, [r1+8]
//
// # Errors
//
// Each component returns its own closed error type (register.Error,
// memory.Error, pattern.Error). All of them convert to the unified
// errors.Error through errors.From, which keeps the component error as the
// cause so errors.Is and errors.As still see it.
//
// # Thread Safety
//
// Register sets, pattern catalogs and architecture configs are read-only
// once built and may be shared. Mappers, allocators, analyzers and Units
// hold unlocked state and must be owned by the goroutine translating one
// unit.
//
// # Logging
//
// Every package logs through zap and is silent by default. Call the
// package's SetLogger before use to see debug events such as spills and
// pattern registration.
package crossarch

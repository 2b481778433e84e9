// Package abi lowers WebAssembly function signatures onto a target
// register file.
//
// ClassFor maps Wasm value types to register classes, LowerParams assigns
// parameters to registers from a register.Allocator, and LoadSignatures
// reads exported function types from a compiled module.
package abi

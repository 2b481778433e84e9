// Package arch holds the vocabulary shared by the translation components:
// the Architecture selector, register identifiers, byte order, and the
// per-architecture Config table.
//
// Config replaces scattered architecture switches. It is built once per
// architecture and passed by reference:
//
//	cfg, err := arch.ConfigFor(arch.ARM64)
//	opt := memory.NewOptimizer(cfg)
//
// ConfigFromEnv applies XARCH_CACHE_LINE_SIZE and XARCH_VECTOR_WIDTH
// overrides, and HostConfig applies what DetectHost finds on the running CPU.
package arch

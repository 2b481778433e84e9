package arch

import (
	"github.com/xyproto/env/v2"

	"github.com/RunningShrimp/vm-sub002/errors"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvCacheLineSize = "XARCH_CACHE_LINE_SIZE"
	EnvVectorWidth   = "XARCH_VECTOR_WIDTH"
)

// Config holds the architecture-keyed constants used by the analyzers.
// Entries returned by ConfigFor are shared and must not be modified.
type Config struct {
	Arch Architecture

	// CacheLineSize is the data cache line size in bytes.
	CacheLineSize uint64

	// VectorWidth is the widest vector register in bytes that access
	// widening may target.
	VectorWidth uint8

	// OptimizationFactor scales estimated gains of memory access rewrites.
	OptimizationFactor float32

	Endianness    Endianness
	AddressBits   uint8
	RegisterWidth uint8
}

var configs = map[Architecture]*Config{
	X86_64: {
		Arch:               X86_64,
		CacheLineSize:      64,
		VectorWidth:        32,
		OptimizationFactor: 1.0,
		Endianness:         Little,
		AddressBits:        64,
		RegisterWidth:      64,
	},
	ARM64: {
		Arch:               ARM64,
		CacheLineSize:      64,
		VectorWidth:        32,
		OptimizationFactor: 1.1,
		Endianness:         Little,
		AddressBits:        64,
		RegisterWidth:      64,
	},
	RISCV64: {
		Arch:               RISCV64,
		CacheLineSize:      64,
		VectorWidth:        32,
		OptimizationFactor: 1.05,
		Endianness:         Little,
		AddressBits:        64,
		RegisterWidth:      64,
	},
}

// ConfigFor returns the shared configuration of a supported architecture.
func ConfigFor(a Architecture) (*Config, error) {
	cfg, ok := configs[a]
	if !ok {
		return nil, errors.NotSupported(errors.PhaseArch, "architecture "+a.String(), nil)
	}
	return cfg, nil
}

// MustConfig is like ConfigFor but panics for unsupported architectures.
// Intended for package-level initialization with constant arguments.
func MustConfig(a Architecture) *Config {
	cfg, err := ConfigFor(a)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ConfigFromEnv returns a private copy of the architecture's configuration
// with XARCH_CACHE_LINE_SIZE and XARCH_VECTOR_WIDTH applied. Values that are
// not positive powers of two are ignored.
func ConfigFromEnv(a Architecture) (*Config, error) {
	base, err := ConfigFor(a)
	if err != nil {
		return nil, err
	}
	cfg := *base

	if env.Has(EnvCacheLineSize) {
		if n := env.Int(EnvCacheLineSize, 0); isPowerOfTwo(n) {
			cfg.CacheLineSize = uint64(n)
		}
	}
	if env.Has(EnvVectorWidth) {
		if n := env.Int(EnvVectorWidth, 0); isPowerOfTwo(n) && n <= 255 {
			cfg.VectorWidth = uint8(n)
		}
	}
	return &cfg, nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

package arch

import (
	"fmt"
	"strings"

	"github.com/RunningShrimp/vm-sub002/errors"
)

// Architecture selects a guest or host instruction set.
type Architecture uint8

const (
	Unknown Architecture = iota
	X86_64
	ARM64
	RISCV64
)

func (a Architecture) String() string {
	switch a {
	case X86_64:
		return "x86_64"
	case ARM64:
		return "aarch64"
	case RISCV64:
		return "riscv64"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the supported architectures.
func (a Architecture) Valid() bool {
	return a == X86_64 || a == ARM64 || a == RISCV64
}

// All returns the supported architectures in a fixed order.
func All() []Architecture {
	return []Architecture{X86_64, ARM64, RISCV64}
}

// Parse parses an architecture string (GOARCH values and common aliases).
func Parse(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86_64", "amd64", "x86-64", "x64":
		return X86_64, nil
	case "aarch64", "arm64":
		return ARM64, nil
	case "riscv64", "riscv", "rv64":
		return RISCV64, nil
	default:
		return Unknown, errors.InvalidParameter(errors.PhaseArch, "architecture", s,
			"supported: amd64, arm64, riscv64", nil)
	}
}

// RegID identifies a register. IDs are unique within one architecture only.
type RegID uint16

func (r RegID) String() string {
	return fmt.Sprintf("r%d", uint16(r))
}

// Endianness is the byte order used for multi-byte values in memory.
type Endianness uint8

const (
	Little Endianness = iota
	Big
)

func (e Endianness) String() string {
	if e == Big {
		return "big"
	}
	return "little"
}

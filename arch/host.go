package arch

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// HostInfo describes the machine the translator itself runs on.
type HostInfo struct {
	Arch          Architecture
	CacheLineSize uint64
	VectorWidth   uint8
	Features      []string
}

// DetectHost inspects the running CPU. Arch is Unknown when GOARCH is not
// one of the supported architectures.
func DetectHost() HostInfo {
	info := HostInfo{
		CacheLineSize: uint64(unsafe.Sizeof(cpu.CacheLinePad{})),
	}

	switch runtime.GOARCH {
	case "amd64":
		info.Arch = X86_64
		switch {
		case cpu.X86.HasAVX512F:
			info.VectorWidth = 64
		case cpu.X86.HasAVX2:
			info.VectorWidth = 32
		case cpu.X86.HasSSE2:
			info.VectorWidth = 16
		}
		info.Features = appendIf(info.Features, cpu.X86.HasSSE2, "sse2")
		info.Features = appendIf(info.Features, cpu.X86.HasAVX2, "avx2")
		info.Features = appendIf(info.Features, cpu.X86.HasAVX512F, "avx512f")
		info.Features = appendIf(info.Features, cpu.X86.HasBMI2, "bmi2")
	case "arm64":
		info.Arch = ARM64
		switch {
		case cpu.ARM64.HasSVE:
			info.VectorWidth = 32
		case cpu.ARM64.HasASIMD:
			info.VectorWidth = 16
		}
		info.Features = appendIf(info.Features, cpu.ARM64.HasASIMD, "asimd")
		info.Features = appendIf(info.Features, cpu.ARM64.HasSVE, "sve")
		info.Features = appendIf(info.Features, cpu.ARM64.HasATOMICS, "lse")
	case "riscv64":
		info.Arch = RISCV64
		if cpu.RISCV64.HasV {
			info.VectorWidth = 32
		}
		info.Features = appendIf(info.Features, cpu.RISCV64.HasV, "v")
		info.Features = appendIf(info.Features, cpu.RISCV64.HasZbb, "zbb")
	}

	return info
}

// HostConfig returns a private copy of the host architecture's configuration
// with the detected cache line size and vector width applied.
func HostConfig() (*Config, error) {
	host := DetectHost()
	base, err := ConfigFor(host.Arch)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if host.CacheLineSize > 0 {
		cfg.CacheLineSize = host.CacheLineSize
	}
	if host.VectorWidth > 0 {
		cfg.VectorWidth = host.VectorWidth
	}
	return &cfg, nil
}

func appendIf(list []string, ok bool, name string) []string {
	if ok {
		return append(list, name)
	}
	return list
}

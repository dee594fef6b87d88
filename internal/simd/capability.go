package simd

import (
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// ISA represents a SIMD instruction set architecture.
type ISA uint8

const (
	// Generic represents the scalar entry-by-entry fallback.
	Generic ISA = iota
	// NEON represents ARM64 NEON (128-bit SIMD, ASIMD).
	NEON
	// SVE2 represents ARM64 SVE2 (scalable vectors, 128-2048 bit).
	SVE2
	// AVX2 represents x86-64 AVX2 (256-bit SIMD with FMA).
	AVX2
	// AVX512 represents x86-64 AVX-512 (512-bit SIMD).
	AVX512
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic", "scalar":
		return Generic, true
	case "neon":
		return NEON, true
	case "sve2":
		return SVE2, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	default:
		return Generic, false
	}
}

// Config is read from the environment with the KDGO_ prefix.
type Config struct {
	// SIMD forces an instruction set (KDGO_SIMD). Unavailable or unknown
	// values fall back to auto-detection.
	SIMD string `envconfig:"SIMD"`
}

var (
	activeISA   ISA
	hasOverride bool

	cpuFeatures features
)

// features holds the CPU flags the kernels care about. Platform init
// functions fill it before calling initCapabilities.
type features struct {
	asimd    bool
	sve2     bool
	avx2     bool
	avx512f  bool
	avx512bw bool
}

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	var cfg Config
	if err := envconfig.Process("kdgo", &cfg); err == nil && cfg.SIMD != "" {
		if isa, ok := ParseISA(cfg.SIMD); ok {
			hasOverride = true
			if isISAAvailable(isa) {
				activeISA = isa
				return
			}
		}
	}

	activeISA = selectBestISA()
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return cpuFeatures.asimd
	case SVE2:
		return cpuFeatures.sve2
	case AVX2:
		return cpuFeatures.avx2
	case AVX512:
		return cpuFeatures.avx512f && cpuFeatures.avx512bw
	default:
		return false
	}
}

func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "arm64":
		if cpuFeatures.sve2 && runtime.GOOS != "darwin" {
			return SVE2
		}
		if cpuFeatures.asimd {
			return NEON
		}
	case "amd64":
		if cpuFeatures.avx512f && cpuFeatures.avx512bw {
			return AVX512
		}
		if cpuFeatures.avx2 {
			return AVX2
		}
	}

	return Generic
}

// ActiveISA returns the currently active ISA. Wide targets (AVX512, SVE2)
// make the bucket kernels process two blocks per step.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden returns true if KDGO_SIMD was set.
func IsOverridden() bool {
	return hasOverride
}

package simd

import (
	"fmt"
	"os"
	"runtime"
	"testing"
)

// TestMain prints which kernel family is active so CI logs show it.
func TestMain(m *testing.M) {
	fmt.Printf("=== SIMD ISA Diagnostics ===\n")
	fmt.Printf("GOOS=%s GOARCH=%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("KDGO_SIMD=%q\n", os.Getenv("KDGO_SIMD"))
	fmt.Printf("Active ISA: %s\n", ActiveISA())
	fmt.Printf("Override: %v\n", IsOverridden())
	fmt.Printf("============================\n\n")

	os.Exit(m.Run())
}

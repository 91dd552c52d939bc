// Package probe provides the platform, environmental and hardware
// counter probes named in spec §6. These satisfy bench's EnvProbe,
// PlatformProbe and HWCounterProbe interfaces structurally; bench never
// imports probe, so there is no cycle.
package probe

import (
	"fmt"
	"runtime"
	"time"

	"github.com/mushkilali/certifiable-bench/bench"
)

// Platform is the pure-Go PlatformProbe implementation: it reports
// runtime.GOARCH mapped onto the canonical platform tags named in §6,
// and leaves CPU model empty (reading it portably requires parsing
// /proc/cpuinfo or a syscall this core has no grounded third-party
// dependency for).
type Platform struct{}

var archNames = map[string]string{
	"amd64":   "x86_64",
	"386":     "i386",
	"arm64":   "aarch64",
	"arm":     "arm",
	"riscv64": "riscv64",
}

// PlatformName implements bench.PlatformProbe.
func (Platform) PlatformName() string {
	if name, ok := archNames[runtime.GOARCH]; ok {
		return name
	}
	return "unknown"
}

// CPUModel implements bench.PlatformProbe. No portable, dependency-free
// way exists to read the CPU model string; an empty string with a nil
// error is the documented "left empty, no fault" case of §4.4.
func (Platform) CPUModel() (string, error) {
	return "", nil
}

// Env is the portable EnvProbe implementation. It can supply a real
// monotonic timestamp but has no portable access to CPU frequency,
// temperature or throttle events, so it reports those fields as
// unavailable (all-zero) rather than guessing — §6's explicit tolerance
// for all-zero environmental data.
type Env struct{}

// envEpoch anchors Env's timestamps: its wall-clock Unix time plus the
// monotonic time elapsed since it was read.
var envEpoch = time.Now()

// Snapshot implements bench.EnvProbe.
func (Env) Snapshot() (bench.EnvSnapshot, error) {
	return bench.EnvSnapshot{
		TimestampNs: uint64(envEpoch.UnixNano()) + uint64(time.Since(envEpoch)),
	}, nil
}

// HWCounters is the stub HWCounterProbe: hardware performance counters
// are platform-conditional and explicitly outside the invariant contract
// (§9 Open Questions), so this probe always reports unavailable rather
// than reading any platform-specific counter interface.
type HWCounters struct{}

// Snapshot implements bench.HWCounterProbe.
func (HWCounters) Snapshot() (bench.HWCounterSnapshot, error) {
	return bench.HWCounterSnapshot{Available: false}, nil
}

// Describe returns a short human-readable platform summary: the platform
// tag followed by the CPU model in parentheses.
func Describe() string {
	p := Platform{}
	model, _ := p.CPUModel()
	if model == "" {
		model = "unknown model"
	}
	return fmt.Sprintf("%s (%s)", p.PlatformName(), model)
}

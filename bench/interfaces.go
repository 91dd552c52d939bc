package bench

// InferenceFunc is the external, caller-supplied inference routine
// (§6). It must write exactly len(output) bytes to output on every call
// and must be free of side effects that would invalidate determinism
// between iterations — that is the caller's responsibility, not the
// runner's. ctx is an opaque first-class user context (§9: "pass the
// callback as a first-class value with an explicit user context", not an
// ambient global). A non-nil error marks the call as a verification
// failure; the runner sets FaultVerifyFail and continues (§4.4).
type InferenceFunc func(ctx any, input, output []byte) error

// EnvProbe is the external environmental probe of §6: monotonic
// timestamp, CPU frequency (0 if unavailable), CPU temperature in
// millidegrees Celsius, and cumulative throttle count. bench/probe
// provides a concrete implementation; a probe failure is never a fault
// (§7's hwcounters/env_read row) — it only zeroes the fields.
type EnvProbe interface {
	Snapshot() (EnvSnapshot, error)
}

// PlatformProbe is the external platform probe of §6.
type PlatformProbe interface {
	PlatformName() string
	CPUModel() (string, error)
}

// HWCounterProbe is the optional hardware performance counter probe
// named in §6; its absence must never invalidate a result (§9).
type HWCounterProbe interface {
	Snapshot() (HWCounterSnapshot, error)
}

// noopEnvProbe is the runner's internal fallback when the caller passes
// a nil EnvProbe: every field reads as "unavailable", matching §6's
// explicit tolerance for all-zero environmental data.
type noopEnvProbe struct{}

func (noopEnvProbe) Snapshot() (EnvSnapshot, error) { return EnvSnapshot{}, nil }

type noopPlatformProbe struct{}

func (noopPlatformProbe) PlatformName() string         { return "unknown" }
func (noopPlatformProbe) CPUModel() (string, error)    { return "", nil }

type noopHWCounterProbe struct{}

func (noopHWCounterProbe) Snapshot() (HWCounterSnapshot, error) { return HWCounterSnapshot{}, nil }

package bench

import "errors"

// The error taxonomy of spec §7. These are sentinel errors wrapped with
// fmt.Errorf("...: %w", ...) at each call site, matching the chain style
// sim/bundle.go and sim/latency/config.go use throughout the teacher
// codebase — callers can still errors.Is against the sentinel.
var (
	// ErrNullPtr: a required argument was missing.
	ErrNullPtr = errors.New("bench: required argument is nil")
	// ErrInvalidConfig: measure_iterations out of range, negative
	// warmup_iterations, batch_size <= 0, or a bad histogram range. A
	// too-small sample buffer is ErrOutOfMemory; an update on a finalised
	// hasher is hash.ErrFinalised.
	ErrInvalidConfig = errors.New("bench: invalid configuration")
	// ErrTimerInit: the underlying clock is unavailable at Init.
	ErrTimerInit = errors.New("bench: timer initialisation failed")
	// ErrGoldenLoad: a golden reference file is malformed or missing.
	ErrGoldenLoad = errors.New("bench: golden reference load failed")
	// ErrIO: a read/write failure outside of golden-load specifically.
	ErrIO = errors.New("bench: i/o failure")
	// ErrOutOfMemory: the caller-supplied buffer is smaller than required.
	ErrOutOfMemory = errors.New("bench: buffer smaller than required capacity")
	// ErrWrongState: a runner operation was called out of sequence for
	// its typestate (§9's "Runner as a typestate machine").
	ErrWrongState = errors.New("bench: runner operation invalid in current state")
)

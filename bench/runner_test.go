package bench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushkilali/certifiable-bench/bench/hash"
)

// Package bench's own tests cannot import bench/compare (it imports
// bench, which would be an import cycle), so they register a stand-in
// binding digest over the output hash instead.
func init() {
	ResultBindingDigestFunc = func(r *Result, configHash uint64) [32]byte {
		return [32]byte(hash.Hash(r.OutputHash[:]))
	}
}

func countingInference(counter *int) InferenceFunc {
	return func(ctx any, input, output []byte) error {
		*counter++
		copy(output, input)
		return nil
	}
}

func failingAfter(n int) InferenceFunc {
	calls := 0
	return func(ctx any, input, output []byte) error {
		calls++
		if calls > n {
			return errors.New("injected failure")
		}
		copy(output, input)
		return nil
	}
}

func testConfig() Config {
	cfg := ConfigDefault()
	cfg.WarmupIterations = 3
	cfg.MeasureIterations = 10
	cfg.MonitorEnvironment = false
	return cfg
}

func TestRunnerInit_RejectsUndersizedBuffer(t *testing.T) {
	cfg := testConfig()
	_, err := RunnerInit(cfg, make([]int64, 2), 2, RunnerOptions{})
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestRunnerInit_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MeasureIterations = 0
	_, err := RunnerInit(cfg, make([]int64, 10), 10, RunnerOptions{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunner_WarmupRequiresInitialisedState(t *testing.T) {
	cfg := testConfig()
	r, err := RunnerInit(cfg, make([]int64, cfg.MeasureIterations), cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	var calls int
	fn := countingInference(&calls)
	require.NoError(t, r.Warmup(fn, nil, []byte("in"), make([]byte, 2)))
	require.Equal(t, 3, calls)

	err = r.Warmup(fn, nil, []byte("in"), make([]byte, 2))
	require.ErrorIs(t, err, ErrWrongState)
}

func TestRunner_WarmupFailurePropagatesUnchanged(t *testing.T) {
	cfg := testConfig()
	r, err := RunnerInit(cfg, make([]int64, cfg.MeasureIterations), cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	sentinel := errors.New("boom")
	err = r.Warmup(func(ctx any, input, output []byte) error { return sentinel }, nil, nil, nil)
	require.ErrorIs(t, err, sentinel)
}

func TestRunner_ExecuteAutoWarmsThenGetResult(t *testing.T) {
	cfg := testConfig()
	samples := make([]int64, cfg.MeasureIterations)
	r, err := RunnerInit(cfg, samples, cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	var calls int
	fn := countingInference(&calls)
	input := []byte("hello world")
	output := make([]byte, len(input))

	require.NoError(t, r.Execute(fn, nil, input, output))
	assert.Equal(t, cfg.WarmupIterations+cfg.MeasureIterations, calls)

	res, err := r.GetResult(nil, int64(len(output)))
	require.NoError(t, err)
	assert.Equal(t, cfg.MeasureIterations, res.Latency.SampleCount)
	assert.True(t, res.Latency.MaxNs >= res.Latency.MinNs)
	assert.NotZero(t, res.ResultHash)
}

func TestRunner_VerifyFailSetsFaultAndContinues(t *testing.T) {
	cfg := testConfig()
	samples := make([]int64, cfg.MeasureIterations)
	r, err := RunnerInit(cfg, samples, cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	fn := failingAfter(5)
	input := []byte("x")
	output := make([]byte, 1)

	require.NoError(t, r.Execute(fn, nil, input, output))
	res, err := r.GetResult(nil, 1)
	require.NoError(t, err)

	assert.True(t, res.Faults.Has(FaultVerifyFail))
	assert.False(t, res.IsValid())
	assert.Equal(t, cfg.MeasureIterations, res.Latency.SampleCount, "loop must continue past failures")
}

func TestRunner_GetResultRequiresExecutedState(t *testing.T) {
	cfg := testConfig()
	r, err := RunnerInit(cfg, make([]int64, cfg.MeasureIterations), cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	_, err = r.GetResult(nil, 0)
	require.ErrorIs(t, err, ErrWrongState)
}

func TestRunFull_ConvenienceWrapper(t *testing.T) {
	cfg := testConfig()
	samples := make([]int64, cfg.MeasureIterations)
	var calls int

	res, err := RunFull(cfg, samples, cfg.MeasureIterations, RunnerOptions{},
		countingInference(&calls), nil, []byte("abc"), make([]byte, 3), nil, 3)
	require.NoError(t, err)
	assert.Equal(t, cfg.WarmupIterations+cfg.MeasureIterations, calls)
	assert.NotZero(t, res.Latency.SampleCount)
}

// TestRunner_GetResult_MADOutlierCount_S4 drives spec scenario S4 through
// GetResult's real stats-assembly path: samples [100,110,120,130,1000]
// must report exactly one MAD-based outlier, distinct from (and not a
// substitute for) LatencyStats.OutlierCount's cheap mean+3*stddev count
// (§4.3/§9).
func TestRunner_GetResult_MADOutlierCount_S4(t *testing.T) {
	cfg := ConfigDefault()
	cfg.WarmupIterations = 0
	cfg.MeasureIterations = 5
	cfg.MonitorEnvironment = false
	cfg.VerifyOutputs = false

	r, err := RunnerInit(cfg, make([]int64, cfg.MeasureIterations), cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	// Bypass the timed loop to feed the exact S4 sample vector.
	r.samples = []int64{100, 110, 120, 130, 1000}
	r.state = stateExecuted

	res, err := r.GetResult(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Latency.MADOutlierCount, "S4: exactly one MAD outlier expected")
}

// TestRunner_GetResult_BenchmarkEndBeforeStartSetsUnderflowFault covers
// the one underflow condition this core can actually observe: the timer
// having gone backwards between benchmark_start_ns and get_result's own
// now_ns read, which would otherwise underflow the unsigned duration
// subtraction (§3's fault bitset; §7's "overflow"/"underflow" row).
func TestRunner_GetResult_BenchmarkEndBeforeStartSetsUnderflowFault(t *testing.T) {
	cfg := testConfig()
	samples := make([]int64, cfg.MeasureIterations)
	r, err := RunnerInit(cfg, samples, cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	var calls int
	fn := countingInference(&calls)
	input := []byte("x")
	output := make([]byte, 1)
	require.NoError(t, r.Execute(fn, nil, input, output))

	// Force the "timer went backwards" branch deterministically: no real
	// now_ns read will ever exceed math.MaxUint64.
	r.startNs = ^uint64(0)

	res, err := r.GetResult(nil, 1)
	require.NoError(t, err)

	assert.True(t, res.Faults.Has(FaultUnderflow))
	assert.False(t, res.IsValid())
	assert.Zero(t, res.BenchmarkDurationNs)
}

func TestRunner_GoldenMismatchSetsVerifyFail(t *testing.T) {
	cfg := testConfig()
	samples := make([]int64, cfg.MeasureIterations)
	r, err := RunnerInit(cfg, samples, cfg.MeasureIterations, RunnerOptions{})
	require.NoError(t, err)

	var calls int
	fn := countingInference(&calls)
	input := []byte("deterministic")
	output := make([]byte, len(input))
	require.NoError(t, r.Execute(fn, nil, input, output))

	var wrongGolden [32]byte
	wrongGolden[0] = 0xFF
	res, err := r.GetResult(&wrongGolden, int64(len(output)))
	require.NoError(t, err)

	assert.True(t, res.Faults.Has(FaultVerifyFail))
	assert.False(t, res.DeterminismVerified)
	assert.Equal(t, 1, res.VerificationFailures)
}

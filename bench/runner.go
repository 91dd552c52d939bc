package bench

import (
	"fmt"

	"github.com/mushkilali/certifiable-bench/bench/hash"
	"github.com/mushkilali/certifiable-bench/bench/stats"
	"github.com/mushkilali/certifiable-bench/bench/timer"
)

// runnerState is the typestate of §9's "Runner as a typestate machine":
// Uninit -> Initialised -> Warmed -> Executed -> Reported. Encoded as a
// tagged enum field rather than boolean flags, per that design note.
type runnerState int

const (
	stateUninit runnerState = iota
	stateInitialised
	stateWarmed
	stateExecuted
	stateReported
)

// Runner is the choreographer of spec component C4. It borrows the
// caller's sample buffer for the duration of a run (§3 "Ownership and
// lifecycle") and owns no heap storage of its own beyond what Init
// allocates once, up front — nothing allocates between Init and
// GetResult.
type Runner struct {
	state runnerState

	cfg      Config
	samples  []int64 // borrowed from the caller; len == cfg.MeasureIterations after a run
	capacity int

	tm     *timer.Timer
	hasher hash.Context

	envProbe      EnvProbe
	platformProbe PlatformProbe
	hwProbe       HWCounterProbe

	faults Fault

	envStart EnvSnapshot
	startNs  uint64

	verificationFailures int

	// Outlier-detection scratch, sized once to MeasureIterations so the
	// critical loop and result assembly never allocate (§5: "the core
	// reserves them as fixed-size ... arrays dimensioned to the maximum
	// sample count").
	sortedScratch []int64
	devScratch    []int64
	outlierFlags  []bool

	// histBins is preallocated to cfg.HistogramBins when cfg.CollectHistogram
	// is set, so BuildHistogram allocates nothing; GetResult then copies the
	// bins into the returned Histogram.
	histBins []int64
}

// RunnerOptions carries the optional collaborators Init wires in; a nil
// field uses the no-op fallback described in interfaces.go.
type RunnerOptions struct {
	EnvProbe      EnvProbe
	PlatformProbe PlatformProbe
	HWProbe       HWCounterProbe
}

// RunnerInit validates cfg, binds the borrowed sample buffer, and
// initialises the timer and (if cfg.VerifyOutputs) the hasher. capacity
// must be >= cfg.MeasureIterations.
func RunnerInit(cfg Config, sampleBuffer []int64, capacity int, opts RunnerOptions) (*Runner, error) {
	if err := ConfigValidate(cfg); err != nil {
		return nil, err
	}
	if capacity < cfg.MeasureIterations {
		return nil, fmt.Errorf("sample buffer capacity %d < measure_iterations %d: %w", capacity, cfg.MeasureIterations, ErrOutOfMemory)
	}
	if sampleBuffer == nil {
		return nil, ErrNullPtr
	}

	tm, err := timer.Init(cfg.TimerSource)
	if err != nil {
		return nil, fmt.Errorf("timer init: %w: %v", ErrTimerInit, err)
	}

	r := &Runner{
		state:         stateInitialised,
		cfg:           cfg,
		samples:       sampleBuffer[:0],
		capacity:      capacity,
		tm:            tm,
		envProbe:      opts.EnvProbe,
		platformProbe: opts.PlatformProbe,
		hwProbe:       opts.HWProbe,
		sortedScratch: make([]int64, cfg.MeasureIterations),
		devScratch:    make([]int64, cfg.MeasureIterations),
		outlierFlags:  make([]bool, cfg.MeasureIterations),
	}
	if r.envProbe == nil {
		r.envProbe = noopEnvProbe{}
	}
	if r.platformProbe == nil {
		r.platformProbe = noopPlatformProbe{}
	}
	if r.hwProbe == nil {
		r.hwProbe = noopHWCounterProbe{}
	}
	if cfg.VerifyOutputs {
		r.hasher.Init()
	}
	if cfg.CollectHistogram {
		r.histBins = make([]int64, cfg.HistogramBins)
	}
	return r, nil
}

// Warmup runs exactly cfg.WarmupIterations calls to fn with the same
// input/output arguments the measurement loop will use. No latency is
// recorded. If fn returns an error, warmup aborts and the error is
// surfaced unchanged (§4.4). On successful completion the environmental
// start snapshot and benchmark_start_ns are recorded.
func (r *Runner) Warmup(fn InferenceFunc, ctx any, input, output []byte) error {
	if r.state != stateInitialised {
		return fmt.Errorf("warmup requires Initialised state: %w", ErrWrongState)
	}
	for i := 0; i < r.cfg.WarmupIterations; i++ {
		if err := fn(ctx, input, output); err != nil {
			return err
		}
	}
	snap, err := r.envProbe.Snapshot()
	if err == nil {
		r.envStart = snap
	}
	r.startNs = r.tm.NowNs()
	r.state = stateWarmed
	return nil
}

// Execute runs the critical measurement loop (§4.4). If the runner is
// still Initialised, Warmup (cfg.WarmupIterations calls) is run
// automatically first, matching the design note "execute requires Warmed
// or auto-warms".
func (r *Runner) Execute(fn InferenceFunc, ctx any, input, output []byte) error {
	if r.state == stateInitialised {
		if err := r.Warmup(fn, ctx, input, output); err != nil {
			return err
		}
	}
	if r.state != stateWarmed {
		return fmt.Errorf("execute requires Warmed state: %w", ErrWrongState)
	}

	n := r.cfg.MeasureIterations
	r.samples = r.samples[:0]
	for i := 0; i < n; i++ {
		tStart := r.tm.NowNs()
		rc := fn(ctx, input, output)
		tEnd := r.tm.NowNs()

		var delta int64
		if tEnd >= tStart {
			delta = int64(tEnd - tStart)
		} else {
			// Detected wrap/non-monotonicity: sticky fault, loop continues (§4.1/§4.4).
			r.faults = r.faults.Set(FaultTimerError)
			delta = 0
		}
		r.samples = append(r.samples, delta)

		if r.cfg.VerifyOutputs {
			_ = r.hasher.Update(output)
		}
		if rc != nil {
			r.faults = r.faults.Set(FaultVerifyFail)
			r.verificationFailures++
		}
	}

	r.state = stateExecuted
	return nil
}

// GetResult assembles the populated Result record (§4.4): platform/CPU
// fields from the probes, echoed config, Statistics over the collected
// samples, throughput, the environmental end snapshot and stability
// verdict, the finalised-copy output hash, and the result-binding
// digest. GetResult requires the Executed state.
func (r *Runner) GetResult(goldenOutputHash *[32]byte, outputSize int64) (*Result, error) {
	if r.state != stateExecuted {
		return nil, fmt.Errorf("get_result requires Executed state: %w", ErrWrongState)
	}

	res := &Result{Config: r.cfg}
	res.Platform = r.platformProbe.PlatformName()
	if model, err := r.platformProbe.CPUModel(); err == nil {
		res.CPUModel = model
	}

	summary, madCount, statsErr := computeStatsInto(r.samples, r.sortedScratch, r.devScratch, r.outlierFlags)
	if statsErr != nil {
		r.faults = r.faults.Set(FaultDivZero)
	} else {
		res.Latency = LatencyStats{
			MinNs:           summary.Min,
			MaxNs:           summary.Max,
			MeanNs:          summary.Mean,
			MedianNs:        summary.Median,
			P95Ns:           summary.P95,
			P99Ns:           summary.P99,
			VarianceNs2:     summary.Variance,
			MADOutlierCount: madCount,
			StddevNs:        summary.Stddev,
			WCETObservedNs:  summary.WCETObserved,
			WCETBoundNs:     summary.WCETBound,
			SampleCount:     summary.SampleCount,
			OutlierCount:    summary.OutlierCount,
		}
		if summary.MeanOverflowed || summary.WCETOverflowed {
			r.faults = r.faults.Set(FaultOverflow)
		}
	}

	var sumLatency int64
	for _, v := range r.samples {
		sumLatency += v
	}
	if sumLatency > 0 {
		// §4.4: inferences_per_sec = (n * 1e9) / sum(samples), integer.
		// Throughput is derived from the measured per-iteration latencies
		// themselves (not wall-clock gaps outside the loop), so it agrees
		// with wall-clock throughput on the single-threaded serial runs
		// this core targets (§9 Open Questions).
		res.Throughput.InferencesPerSec = int64(len(r.samples)) * 1_000_000_000 / sumLatency
		res.Throughput.SamplesPerSec = res.Throughput.InferencesPerSec * int64(r.cfg.BatchSize)
	}
	res.Throughput.BytesPerSec = res.Throughput.SamplesPerSec * outputSize
	res.Throughput.BatchSize = r.cfg.BatchSize

	if r.cfg.CollectHistogram {
		underflow, overflow, histErr := stats.BuildHistogram(r.samples, r.cfg.HistogramMinNs, r.cfg.HistogramMaxNs, r.histBins)
		if histErr == nil {
			binWidth := (r.cfg.HistogramMaxNs - r.cfg.HistogramMinNs) / int64(len(r.histBins))
			res.Histogram = &Histogram{
				MinNs:          r.cfg.HistogramMinNs,
				MaxNs:          r.cfg.HistogramMaxNs,
				BinWidthNs:     binWidth,
				Bins:           append([]int64(nil), r.histBins...),
				UnderflowCount: underflow,
				OverflowCount:  overflow,
			}
		}
	}

	if hwSnap, err := r.hwProbe.Snapshot(); err == nil {
		res.HWCounters = hwSnap
	}

	envEnd, _ := r.envProbe.Snapshot()
	stability := EnvStability{Start: r.envStart, End: envEnd}
	stability.Stable = stability.evaluate()
	res.Env = stability
	if !stability.Stable {
		r.faults = r.faults.Set(FaultThermalDrift)
	}

	res.BenchmarkStartNs = r.startNs
	res.BenchmarkEndNs = r.tm.NowNs()
	if res.BenchmarkEndNs >= res.BenchmarkStartNs {
		res.BenchmarkDurationNs = res.BenchmarkEndNs - res.BenchmarkStartNs
	} else {
		// The timer went backwards between benchmark_start_ns and
		// get_result's read: subtracting would underflow the unsigned
		// duration, so it is left at 0 and the sticky underflow fault is
		// set instead of silently reporting a bogus duration (§3's fault
		// bitset; the only other caller-visible subtraction of two
		// timer reads, the critical loop's per-iteration delta, has its
		// own non-monotonicity case already covered by FaultTimerError).
		r.faults = r.faults.Set(FaultUnderflow)
	}
	res.WallClockUnixSec = int64(res.BenchmarkEndNs / 1_000_000_000)

	if r.cfg.VerifyOutputs {
		finalCopy := r.hasher.Clone()
		res.OutputHash = [32]byte(finalCopy.Final())
		if goldenOutputHash != nil {
			if !hash.Equal(hash.Digest(res.OutputHash), hash.Digest(*goldenOutputHash)) {
				r.verificationFailures++
				r.faults = r.faults.Set(FaultVerifyFail)
			} else {
				res.DeterminismVerified = true
			}
		}
	}
	res.VerificationFailures = r.verificationFailures

	configHash := r.configHash()
	res.ResultHash = mustResultBindingDigest(res, configHash)

	res.Faults = r.faults
	r.state = stateReported
	return res, nil
}

// configHash folds the echoed config into a single uint64 for the
// result-binding digest (§4.5's LE64(config_hash)). It is a plain
// non-cryptographic fold: the binding digest's integrity comes from
// SHA-256 over the whole byte sequence, not from this fold being
// collision-resistant on its own.
func (r *Runner) configHash() uint64 {
	h := uint64(1469598103934665603) // FNV-1a 64-bit offset basis
	fold := func(v uint64) {
		h ^= v
		h *= 1099511628211 // FNV-1a 64-bit prime
	}
	fold(uint64(r.cfg.WarmupIterations))
	fold(uint64(r.cfg.MeasureIterations))
	fold(uint64(r.cfg.BatchSize))
	if r.cfg.VerifyOutputs {
		fold(1)
	}
	if r.cfg.MonitorEnvironment {
		fold(1)
	}
	return h
}

// computeStatsInto runs the full MAD outlier detector into the runner's
// preallocated scratch arrays and then stats.ComputeStats (which sorts
// samples in place), returning both outlier notions named by §4.3/§9:
// the MAD-based modified-Z count (madCount, also left flagged
// index-for-index in flags) and ComputeStats's own cheap mean+3*stddev
// count on the returned Summary. Neither is a silent substitute for the
// other — both are surfaced to the caller.
func computeStatsInto(samples, sortedScratch, devScratch []int64, flags []bool) (summary stats.Summary, madCount int, err error) {
	// DetectOutliersMAD needs the samples in their original issue order
	// to flag by index, so it must run before ComputeStats sorts samples
	// in place.
	if len(samples) > 0 {
		madCount, err = stats.DetectOutliersMAD(samples, sortedScratch[:len(samples)], devScratch[:len(samples)], flags[:len(samples)])
		if err != nil {
			return stats.Summary{}, 0, err
		}
	}
	summary, err = stats.ComputeStats(samples)
	return summary, madCount, err
}

// RunFull is the convenience wrapper of §4.4: it sequences Warmup,
// Execute and GetResult for a caller that does not need fine-grained
// control over the three phases.
func RunFull(cfg Config, sampleBuffer []int64, capacity int, opts RunnerOptions, fn InferenceFunc, ctx any, input, output []byte, goldenOutputHash *[32]byte, outputSize int64) (*Result, error) {
	r, err := RunnerInit(cfg, sampleBuffer, capacity, opts)
	if err != nil {
		return nil, err
	}
	if err := r.Warmup(fn, ctx, input, output); err != nil {
		return nil, err
	}
	if err := r.Execute(fn, ctx, input, output); err != nil {
		return nil, err
	}
	return r.GetResult(goldenOutputHash, outputSize)
}

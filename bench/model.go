package bench

// LatencyStats mirrors spec §3's "Latency stats" field list exactly,
// always nanoseconds except SampleCount, OutlierCount and
// MADOutlierCount.
//
// §4.3/§9 name two distinct outlier notions and say an implementer
// "should choose one or expose both but should not silently substitute":
// OutlierCount is ComputeStats's cheap inline mean+3*stddev count (the
// field spec §3 lists); MADOutlierCount is the stricter median/MAD
// modified-Z test (§4.3's worked formula, scenario S4). Both are
// populated by every run so neither silently stands in for the other.
type LatencyStats struct {
	MinNs           int64
	MaxNs           int64
	MeanNs          int64
	MedianNs        int64
	P95Ns           int64
	P99Ns           int64
	VarianceNs2     int64
	StddevNs        int64
	WCETObservedNs  int64 // == MaxNs
	WCETBoundNs     int64
	SampleCount     int
	OutlierCount    int
	MADOutlierCount int
}

// Throughput mirrors spec §3's "Throughput" field list.
type Throughput struct {
	InferencesPerSec int64
	SamplesPerSec    int64
	BytesPerSec      int64
	BatchSize        int
}

// Histogram mirrors spec §3: half-open bins plus the two sentinels. The
// Bins slice is caller-owned; Histogram only describes its shape and the
// sentinel counts BuildHistogram produced.
type Histogram struct {
	MinNs          int64
	MaxNs          int64
	BinWidthNs     int64
	Bins           []int64
	UnderflowCount int64
	OverflowCount  int64
}

// HWCounterSnapshot is the optional hardware performance counter reading
// named by §6's Environmental/hardware probes. Absence of data is never a
// fault (§9 Open Questions); all-zero is "unavailable".
type HWCounterSnapshot struct {
	Available           bool
	InstructionsRetired uint64
	CacheMisses         uint64
	BranchMisses        uint64
}

// EnvSnapshot is the environmental probe reading of §6: a monotonic
// timestamp, CPU frequency, temperature and cumulative throttle count.
// All-zero fields mean "unavailable" and are tolerated, never faulted.
type EnvSnapshot struct {
	TimestampNs    uint64
	FrequencyHz    uint64
	TemperatureMc  int64 // millidegrees Celsius
	ThrottleEvents uint64
}

// EnvStability is the start/end environmental pair plus the stability
// verdict computed by the integer predicate of §4.4.
type EnvStability struct {
	Start  EnvSnapshot
	End    EnvSnapshot
	Stable bool
}

// evaluate computes §4.4's stability predicate: end_freq*100 >= start_freq*95
// and total_throttle_events == 0. If start_freq == 0 (no data), stability
// is assumed by graceful degradation.
func (e EnvStability) evaluate() bool {
	if e.Start.FrequencyHz == 0 {
		return true
	}
	return e.End.FrequencyHz*100 >= e.Start.FrequencyHz*95 && e.End.ThrottleEvents == 0
}

// Result is spec §3's "Result record": a fully populated, self-contained
// description of one benchmark run. The caller owns it throughout (§3
// "Ownership and lifecycle").
type Result struct {
	Platform    string
	CPUModel    string
	Config      Config
	Latency     LatencyStats
	Throughput  Throughput
	HWCounters  HWCounterSnapshot
	Env         EnvStability
	Histogram   *Histogram // nil unless Config.CollectHistogram

	DeterminismVerified  bool
	VerificationFailures int
	OutputHash           [32]byte
	ResultHash           [32]byte

	BenchmarkStartNs    uint64
	BenchmarkEndNs      uint64
	BenchmarkDurationNs uint64
	WallClockUnixSec    int64

	Faults Fault
}

// IsValid implements §7's predicate: a result is valid iff no hard fault
// is set and VerificationFailures == 0.
func (r *Result) IsValid() bool {
	return !r.Faults.HasHardFault() && r.VerificationFailures == 0
}

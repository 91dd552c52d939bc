// Package report serialises a bench.Result to JSON with a fixed field
// order and hex-encoded hash fields, grounded on the teacher's file
// writing pattern in sim.Metrics.SavetoFile (bufio.Writer over an
// os.OpenFile, explicit error wrapping rather than logrus.Fatal since
// this is a library, not a terminal CLI command).
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mushkilali/certifiable-bench/bench"
	"github.com/mushkilali/certifiable-bench/bench/hash"
)

// Document is the JSON-serialisable projection of a bench.Result.
// Field order here is the field order emitted in the JSON object;
// invariant #12 ("re-serialising the same result record yields
// byte-identical bytes") depends on encoding/json's stable struct-field
// traversal order, which never varies across runs for a fixed type.
type Document struct {
	Platform string       `json:"platform"`
	CPUModel string       `json:"cpu_model"`
	Config   bench.Config `json:"config"`

	Latency    bench.LatencyStats `json:"latency"`
	Throughput bench.Throughput   `json:"throughput"`

	HWCounters bench.HWCounterSnapshot `json:"hw_counters"`
	Env        bench.EnvStability     `json:"env"`
	Histogram  *bench.Histogram       `json:"histogram,omitempty"`

	DeterminismVerified  bool   `json:"determinism_verified"`
	VerificationFailures int    `json:"verification_failures"`
	OutputHash            string `json:"output_hash"`
	ResultHash            string `json:"result_hash"`

	BenchmarkStartNs    uint64 `json:"benchmark_start_ns"`
	BenchmarkEndNs      uint64 `json:"benchmark_end_ns"`
	BenchmarkDurationNs uint64 `json:"benchmark_duration_ns"`
	WallClockUnixSec    int64  `json:"wall_clock_unix_sec"`

	Faults string `json:"faults"`
	Valid  bool   `json:"valid"`
}

// FromResult projects a bench.Result into its serialisable Document,
// hex-encoding the two digest fields (§4.2's to_hex contract) and
// rendering the fault set through Fault.String rather than a raw bitmask
// so the JSON stays human-readable.
func FromResult(r *bench.Result) Document {
	return Document{
		Platform:              r.Platform,
		CPUModel:              r.CPUModel,
		Config:                r.Config,
		Latency:               r.Latency,
		Throughput:            r.Throughput,
		HWCounters:            r.HWCounters,
		Env:                   r.Env,
		Histogram:             r.Histogram,
		DeterminismVerified:   r.DeterminismVerified,
		VerificationFailures:  r.VerificationFailures,
		OutputHash:            hash.ToHex(hash.Digest(r.OutputHash)),
		ResultHash:            hash.ToHex(hash.Digest(r.ResultHash)),
		BenchmarkStartNs:      r.BenchmarkStartNs,
		BenchmarkEndNs:        r.BenchmarkEndNs,
		BenchmarkDurationNs:   r.BenchmarkDurationNs,
		WallClockUnixSec:      r.WallClockUnixSec,
		Faults:                r.Faults.String(),
		Valid:                 r.IsValid(),
	}
}

// Marshal renders a Document as indented, deterministic JSON.
func Marshal(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// SaveResult writes r to path as JSON, overwriting any existing file.
func SaveResult(r *bench.Result, path string) error {
	data, err := Marshal(FromResult(r))
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating report %q: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing report %q: %w", path, err)
	}
	return nil
}

// LoadDocument reads a previously-saved report back into a Document, for
// the CLI's compare command.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading report %q: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing report %q: %w", path, err)
	}
	return doc, nil
}

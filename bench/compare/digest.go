// Package compare implements the Comparator (spec component C5): the
// output-digest equality gate, Q16.16 ratio/delta arithmetic, and the
// result-binding digest. It imports bench for *bench.Result and
// registers itself into bench's indirection hook on init, breaking the
// cycle bench would otherwise have if it imported compare directly.
package compare

import (
	"encoding/binary"

	"github.com/mushkilali/certifiable-bench/bench"
	"github.com/mushkilali/certifiable-bench/bench/hash"
)

func init() {
	bench.ResultBindingDigestFunc = ResultBindingDigest
}

const (
	resultBindingMagic   = "CB:RESULT:v1"
	platformFieldWidth   = 32
)

// ResultBindingDigest computes spec §4.5's result binding digest: a
// single SHA-256 over a fixed byte layout binding the run's output hash,
// platform, config and key latency statistics together so that a result
// record cannot be edited post hoc without invalidating the digest.
//
//	"CB:RESULT:v1" (12B) || output_hash (32B) || platform padded to 32B
//	|| LE64(config_hash) || LE64(min_ns) || LE64(max_ns) || LE64(mean_ns)
//	|| LE64(p99_ns) || LE64(timestamp_unix)
func ResultBindingDigest(r *bench.Result, configHash uint64) [32]byte {
	var platform [platformFieldWidth]byte
	copy(platform[:], r.Platform) // truncates names longer than 32 bytes, by construction of the fixed layout

	var ctx hash.Context
	ctx.Init()
	_ = ctx.Update([]byte(resultBindingMagic))
	_ = ctx.Update(r.OutputHash[:])
	_ = ctx.Update(platform[:])
	_ = ctx.Update(le64(configHash))
	_ = ctx.Update(le64(uint64(r.Latency.MinNs)))
	_ = ctx.Update(le64(uint64(r.Latency.MaxNs)))
	_ = ctx.Update(le64(uint64(r.Latency.MeanNs)))
	_ = ctx.Update(le64(uint64(r.Latency.P99Ns)))
	_ = ctx.Update(le64(uint64(r.WallClockUnixSec)))
	return [32]byte(ctx.Final())
}

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

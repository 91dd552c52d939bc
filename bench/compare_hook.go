package bench

// ResultBindingDigestFunc is registered by bench/compare's init() to
// compute a run's result-binding digest (spec §4.5). This breaks the
// import cycle between bench (which defines Result) and bench/compare
// (which needs Result's fields to build the digest) — the same
// indirection the teacher codebase uses for its latency model:
// sim.NewLatencyModelFunc, registered by sim/latency's init().
//
// Production callers of Runner must blank-import bench/compare to
// register this hook:
//
//	import _ "github.com/mushkilali/certifiable-bench/bench/compare"
var ResultBindingDigestFunc func(r *Result, configHash uint64) [32]byte

// mustResultBindingDigest panics with an actionable message if
// bench/compare was never imported. Only GetResult calls this, and only
// once per run, so the panic (rather than a returned error) surfaces a
// wiring mistake immediately instead of silently zeroing ResultHash.
func mustResultBindingDigest(r *Result, configHash uint64) [32]byte {
	if ResultBindingDigestFunc == nil {
		panic("bench: ResultBindingDigestFunc not registered: import bench/compare to register it " +
			"(add: import _ \"github.com/mushkilali/certifiable-bench/bench/compare\")")
	}
	return ResultBindingDigestFunc(r, configHash)
}

// Package perf benchmarks matcher configurations and exports comparable
// measurements.
//
// The Analyzer is the single entry point:
//
//	▸ Measure — one matcher × one matrix, averaged over N iterations with
//	  cold-cache solves, wall-clock timing and an allocation estimate.
//	▸ CompareMatchers — several configurations against the same matrix.
//	▸ RunScalabilityTest — one configuration across growing sizes.
//
// Results accumulate on the analyzer and export as indented JSON, as CSV
// with a fixed header, or as an aligned text table. Summarize reduces the
// execution times to min/max/avg/median.
//
// Every analyzer carries a UUID session id, stamped into log output so
// artifacts from interleaved runs stay attributable.
//
// Caveats: memory figures come from runtime.MemStats.TotalAlloc deltas and
// include transient garbage, so treat them as upper bounds; run on an
// otherwise idle process for stable numbers.
package perf

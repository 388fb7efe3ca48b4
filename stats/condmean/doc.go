// Package condmean accumulates per-class running means and variances over
// batches of labeled rows, the workhorse reduction behind leakage detection:
// every (target, class) group gets its own Welford accumulator per sample
// position, updated in one vectorized pass per row.
//
// Accumulation is strictly online: rows stream in, nothing is buffered, and
// the accumulator can be frozen at any point into normalized mean/variance
// tables, a class-merged global estimate, or a signal-to-noise snapshot.
// For large sample counts the sample axis can be split across parallel
// workers; the split is exact, since workers own disjoint column ranges and
// merging is pure reassembly rather than arithmetic combination.
package condmean

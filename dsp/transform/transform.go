// Package transform defines the row-transform contract shared by every
// per-trace algorithm in this module, together with a batch runner that
// drives a transform over a 2-D batch of rows sequentially or in parallel.
//
// A transform converts one input row (any supported numeric sample kind)
// into one output row of floating-point values. Transform state may hold
// mutable scratch buffers, so a single instance must only be used by one
// goroutine at a time; the runner clones the transform for each parallel
// worker.
package transform

// Sample is the set of numeric kinds accepted as transform input.
type Sample interface {
	~int8 | ~int16 | ~float32 | ~float64
}

// Float is the set of floating-point kinds produced as transform output.
type Float interface {
	~float32 | ~float64
}

// Transform is a reusable per-row transform.
//
// Apply computes the transform of src into dst, reading internal state as
// needed. It mutates only dst and the transform's own scratch buffers, never
// src. Shape violations (src longer than the configured capacity, dst shorter
// than OutputLen(len(src))) are programmer errors and panic.
type Transform[D Float, S Sample] interface {
	Apply(dst []D, src []S)

	// OutputLen returns the number of output samples produced for an input
	// of inputLen samples. Most transforms preserve the length.
	OutputLen(inputLen int) int

	// Clone returns an independent copy whose scratch state may be used
	// concurrently with the receiver's.
	Clone() Transform[D, S]
}

// SameLen is the identity output-length policy shared by transforms that
// preserve the row length.
func SameLen(inputLen int) int { return inputLen }

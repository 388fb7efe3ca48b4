// Package fftfilter provides FFT-based row transforms: linear filtering by
// frequency-domain multiplication, zero-phase two-pass filtering, phase-only
// correlation, and real-FFT magnitude spectra.
//
// All transforms share one layout: a plan cache holding precomputed FFT plans
// for a fixed transform length, plus per-instance scratch buffers sized for
// that length. Building the plans is the expensive step and happens once per
// configuration; applying them is cheap and repeatable. Scratch buffers are
// reused across calls and are never safe to share between goroutines — the
// Clone method of each transform produces an independent state for a parallel
// worker.
//
// The FFT length is chosen by the caller. Convolution here is circular over
// that length, so callers wanting linear convolution must size the FFT to at
// least inputLen + kernelLen - 1 to avoid wrap-around aliasing.
package fftfilter

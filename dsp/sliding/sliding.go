package sliding

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-trace/dsp/transform"
)

// StatKind selects the statistic computed by an [Executor].
type StatKind int

const (
	// Mean is the windowed arithmetic mean.
	Mean StatKind = iota

	// Variance is the Bessel-corrected (n-1) sample variance of the window.
	Variance

	// StdDev is the square root of the sample variance.
	StdDev

	// Skewness is the unbiased sample skewness. Requires window size >= 3.
	Skewness

	// Kurtosis is the unbiased excess kurtosis. Requires window size >= 4.
	Kurtosis
)

// String returns the statistic name.
func (k StatKind) String() string {
	switch k {
	case Mean:
		return "mean"
	case Variance:
		return "variance"
	case StdDev:
		return "stddev"
	case Skewness:
		return "skewness"
	case Kurtosis:
		return "kurtosis"
	default:
		return fmt.Sprintf("StatKind(%d)", int(k))
	}
}

// Executor computes one sliding-window statistic over rows.
//
// It maintains a compensated running cumulative sum and a circular buffer of
// the last windowSize cumulative values; the windowed mean at position i is
// the scaled difference of the cumulative values at the window boundaries.
// Higher moments are recomputed over the raw window using that mean.
//
// The circular buffer carries no information between calls: each Apply
// restarts accumulation from index 0 and overwrites the buffer during the
// first windowSize-1 positions (only the slot read by the first complete
// window needs explicit resetting).
type Executor[D transform.Float, S transform.Sample] struct {
	kind       StatKind
	windowSize int
	padding    D

	cache []D // cumulative values, indexed position mod windowSize

	// Bias-correction coefficients for skewness/kurtosis, fixed per window
	// size at construction.
	coef D
	subs D
}

// NewExecutor creates a sliding-statistic executor. The first windowSize-1
// output positions of every row are filled with padding. windowSize must be
// at least 2, at least 3 for Skewness, and at least 4 for Kurtosis.
func NewExecutor[D transform.Float, S transform.Sample](kind StatKind, windowSize int, padding D) (*Executor[D, S], error) {
	if windowSize < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, windowSize)
	}

	var coef, subs float64
	switch kind {
	case Mean, Variance, StdDev:
	case Skewness:
		if windowSize < 3 {
			return nil, fmt.Errorf("%w: %s needs window >= 3, got %d", ErrWindowTooSmall, kind, windowSize)
		}
		w := float64(windowSize)
		coef = w * w / ((w - 1) * (w - 2))
	case Kurtosis:
		if windowSize < 4 {
			return nil, fmt.Errorf("%w: %s needs window >= 4, got %d", ErrWindowTooSmall, kind, windowSize)
		}
		w := float64(windowSize)
		coef = (w + 1) * w / ((w - 1) * (w - 2) * (w - 3))
		subs = 3 * (w - 1) * (w - 1) / ((w - 2) * (w - 3))
	default:
		return nil, fmt.Errorf("sliding: unknown statistic kind %d", kind)
	}

	return &Executor[D, S]{
		kind:       kind,
		windowSize: windowSize,
		padding:    padding,
		cache:      make([]D, windowSize),
		coef:       D(coef),
		subs:       D(subs),
	}, nil
}

// Kind returns the configured statistic.
func (e *Executor[D, S]) Kind() StatKind { return e.kind }

// WindowSize returns the configured window size.
func (e *Executor[D, S]) WindowSize() int { return e.windowSize }

// Apply writes the sliding statistic of src into dst. len(dst) must equal
// len(src) and src must contain at least one full window.
func (e *Executor[D, S]) Apply(dst []D, src []S) {
	w := e.windowSize
	if len(src) == 0 {
		panic("sliding: empty input")
	}
	if len(src) < w {
		panic(fmt.Sprintf("sliding: input length %d shorter than window %d", len(src), w))
	}
	if len(dst) != len(src) {
		panic(fmt.Sprintf("sliding: output length %d, want %d", len(dst), len(src)))
	}

	for i := 0; i < w-1; i++ {
		dst[i] = e.padding
	}

	oW := D(w)
	var sum, comp D

	// Slot w-1 is the cell read by the first complete window; the other
	// slots are rewritten below before their first read.
	e.cache[w-1] = 0

	for i, v := range src {
		x := D(v)
		t := sum + x
		if abs(sum) >= abs(x) {
			comp += (sum - t) + x
		} else {
			comp += (x - t) + sum
		}
		sum = t
		cum := sum + comp

		if i >= w-1 {
			mean := (cum - e.cache[i%w]) / oW
			dst[i] = e.windowStat(src[i-w+1:i+1], mean)
		}

		e.cache[i%w] = cum
	}
}

// windowStat computes the configured statistic over one raw window given its
// mean.
func (e *Executor[D, S]) windowStat(window []S, mean D) D {
	oW := D(e.windowSize)

	switch e.kind {
	case Mean:
		return mean

	case Variance, StdDev:
		var m2 D
		for _, v := range window {
			d := D(v) - mean
			m2 += d * d
		}
		variance := m2 / (oW - 1)
		if e.kind == Variance {
			return variance
		}
		return D(math.Sqrt(float64(variance)))

	case Skewness:
		var m2, m3 D
		for _, v := range window {
			d := D(v) - mean
			m2 += d * d
			m3 += d * d * d
		}
		upper := m3 / oW
		lower := m2 / (oW - 1)
		return D(float64(upper)/math.Pow(float64(lower), 1.5)) * e.coef

	case Kurtosis:
		var m2, m4 D
		for _, v := range window {
			d := D(v) - mean
			dd := d * d
			m2 += dd
			m4 += dd * dd
		}
		lower := m2 / (oW - 1)
		return e.coef*(m4/(lower*lower)) - e.subs

	default:
		panic(fmt.Sprintf("sliding: unknown statistic kind %d", int(e.kind)))
	}
}

// OutputLen reports the identity length contract.
func (e *Executor[D, S]) OutputLen(inputLen int) int { return transform.SameLen(inputLen) }

// Clone returns an independent executor with its own circular buffer.
func (e *Executor[D, S]) Clone() transform.Transform[D, S] {
	clone := *e
	clone.cache = make([]D, e.windowSize)
	return &clone
}

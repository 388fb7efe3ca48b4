package match

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-trace/dsp/fftfilter"
	"github.com/cwbudde/algo-trace/dsp/sliding"
	"github.com/cwbudde/algo-trace/dsp/transform"
)

// Correlation computes the sliding normalized cross-correlation between a
// fixed pattern and every fully-overlapping alignment of the input:
//
//	(x corr p - sum(x)*mean(p)) / (std(x) * std(p))
//
// where std(x) is the sample standard deviation of the input window and
// std(p) the population standard deviation of the pattern. The correlation
// term comes from FFT convolution with the reversed pattern, the remaining
// terms from the moving sum and the sliding standard deviation.
type Correlation[D transform.Float, S transform.Sample] struct {
	patLen int
	seqLen int
	pMean  D
	pStd   D

	state *fftfilter.FilterState[D, S]
	msum  *sliding.MovingSum[D, S]
	sstd  *sliding.Executor[D, S]

	ms   []D // windowed sums of the input
	std  []D // sliding standard deviation of the input
	conv []D // correlation via convolution, fftLen samples
}

// NewCorrelation creates a matcher for a pattern against rows of up to
// seqLen samples. The pattern needs at least two samples (a single-sample
// pattern has zero spread, so the coefficient is undefined) and must be no
// longer than seqLen.
func NewCorrelation[D transform.Float, S transform.Sample](pattern []float64, seqLen int) (*Correlation[D, S], error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	if len(pattern) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples", ErrPatternTooShort)
	}
	if len(pattern) > seqLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrPatternTooLong, len(pattern), seqLen)
	}

	patLen := float64(len(pattern))
	pMean := vecmath.Sum(pattern) / patLen
	pStd := math.Sqrt(vecmath.DotProduct(pattern, pattern)/patLen - pMean*pMean)

	fftLen := seqLen + len(pattern) - 1
	state, err := fftfilter.NewFilterState[D, S](fftLen)
	if err != nil {
		return nil, err
	}
	if err := state.LoadKernel(reversed(pattern)); err != nil {
		return nil, err
	}

	msum, err := sliding.NewMovingSum[D, S](len(pattern), 1)
	if err != nil {
		return nil, err
	}
	// Padding value 1 keeps the leading positions finite; they are never
	// read because output starts at the first complete window.
	sstd, err := sliding.NewExecutor[D, S](sliding.StdDev, len(pattern), 1)
	if err != nil {
		return nil, err
	}

	return &Correlation[D, S]{
		patLen: len(pattern),
		seqLen: seqLen,
		pMean:  D(pMean),
		pStd:   D(pStd),
		state:  state,
		msum:   msum,
		sstd:   sstd,
		ms:     make([]D, seqLen),
		std:    make([]D, seqLen),
		conv:   make([]D, fftLen),
	}, nil
}

// Apply writes the correlation coefficient at every alignment into
// dst[:OutputLen(len(src))].
func (m *Correlation[D, S]) Apply(dst []D, src []S) {
	checkShapes(m.patLen, m.seqLen, len(dst), len(src))

	m.state.FilterSinglePass(m.conv, src)
	m.msum.Apply(m.ms[:len(src)], src)
	m.sstd.Apply(m.std[:len(src)], src)

	n := m.OutputLen(len(src))
	xp := m.conv[m.patLen-1:]
	xStd := m.std[m.patLen-1:]
	for j := 0; j < n; j++ {
		dst[j] = (xp[j] - m.ms[j]*m.pMean) / (xStd[j] * m.pStd)
	}
}

// OutputLen reports one output per fully-overlapping alignment.
func (m *Correlation[D, S]) OutputLen(inputLen int) int {
	return inputLen - (m.patLen - 1)
}

// Clone returns an independent matcher sharing only the immutable kernel
// spectrum.
func (m *Correlation[D, S]) Clone() transform.Transform[D, S] {
	ms := *m.msum
	return &Correlation[D, S]{
		patLen: m.patLen,
		seqLen: m.seqLen,
		pMean:  m.pMean,
		pStd:   m.pStd,
		state:  m.state.Clone(),
		msum:   &ms,
		sstd:   m.sstd.Clone().(*sliding.Executor[D, S]),
		ms:     make([]D, m.seqLen),
		std:    make([]D, m.seqLen),
		conv:   make([]D, len(m.conv)),
	}
}

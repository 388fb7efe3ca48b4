package match

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-trace/dsp/core"
	"github.com/cwbudde/algo-trace/dsp/fftfilter"
	"github.com/cwbudde/algo-trace/dsp/sliding"
	"github.com/cwbudde/algo-trace/dsp/transform"
)

// Errors returned by match constructors.
var (
	ErrEmptyPattern    = errors.New("match: empty pattern")
	ErrPatternTooShort = errors.New("match: pattern too short")
	ErrPatternTooLong  = errors.New("match: pattern longer than sequence")
)

// Euclidean computes the sliding squared Euclidean distance between a fixed
// pattern and every fully-overlapping alignment of the input, using the
// identity ||x-p||^2 = sum(x^2) - 2*(x corr p) + sum(p^2). The windowed
// sum(x^2) term comes from a moving sum of squared samples and the
// correlation term from FFT convolution with the reversed pattern.
type Euclidean[D transform.Float, S transform.Sample] struct {
	patLen  int
	seqLen  int
	pSquare D

	state *fftfilter.FilterState[D, S]
	msum  *sliding.MovingSum[D, D]

	sq    []D // squared input samples
	winSq []D // windowed sums of squares
	conv  []D // correlation via convolution, fftLen samples
}

// NewEuclidean creates a matcher for a pattern against rows of up to seqLen
// samples. The pattern must be non-empty and no longer than seqLen.
func NewEuclidean[D transform.Float, S transform.Sample](pattern []float64, seqLen int) (*Euclidean[D, S], error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	if len(pattern) > seqLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrPatternTooLong, len(pattern), seqLen)
	}

	fftLen := seqLen + len(pattern) - 1
	state, err := fftfilter.NewFilterState[D, S](fftLen)
	if err != nil {
		return nil, err
	}
	if err := state.LoadKernel(reversed(pattern)); err != nil {
		return nil, err
	}

	msum, err := sliding.NewMovingSum[D, D](len(pattern), 1)
	if err != nil {
		return nil, err
	}

	return &Euclidean[D, S]{
		patLen:  len(pattern),
		seqLen:  seqLen,
		pSquare: D(vecmath.DotProduct(pattern, pattern)),
		state:   state,
		msum:    msum,
		sq:      make([]D, seqLen),
		winSq:   make([]D, seqLen),
		conv:    make([]D, fftLen),
	}, nil
}

// Apply writes the squared distance at every alignment into
// dst[:OutputLen(len(src))].
func (m *Euclidean[D, S]) Apply(dst []D, src []S) {
	checkShapes(m.patLen, m.seqLen, len(dst), len(src))

	for i, v := range src {
		x := D(v)
		m.sq[i] = x * x
	}
	m.msum.Apply(m.winSq[:len(src)], m.sq[:len(src)])

	m.state.FilterSinglePass(m.conv, src)

	n := m.OutputLen(len(src))
	xp := m.conv[m.patLen-1:]
	for j := 0; j < n; j++ {
		dst[j] = m.winSq[j] - 2*xp[j] + m.pSquare
	}
}

// OutputLen reports one output per fully-overlapping alignment.
func (m *Euclidean[D, S]) OutputLen(inputLen int) int {
	return inputLen - (m.patLen - 1)
}

// Clone returns an independent matcher sharing only the immutable kernel
// spectrum.
func (m *Euclidean[D, S]) Clone() transform.Transform[D, S] {
	ms := *m.msum
	return &Euclidean[D, S]{
		patLen:  m.patLen,
		seqLen:  m.seqLen,
		pSquare: m.pSquare,
		state:   m.state.Clone(),
		msum:    &ms,
		sq:      make([]D, m.seqLen),
		winSq:   make([]D, m.seqLen),
		conv:    make([]D, len(m.conv)),
	}
}

func reversed(pattern []float64) []float64 {
	out := make([]float64, len(pattern))
	copy(out, pattern)
	core.Reverse(out)
	return out
}

func checkShapes(patLen, seqLen, dstLen, srcLen int) {
	if srcLen < patLen {
		panic(fmt.Sprintf("match: input length %d shorter than pattern %d", srcLen, patLen))
	}
	if srcLen > seqLen {
		panic(fmt.Sprintf("match: input length %d exceeds capacity %d", srcLen, seqLen))
	}
	if want := srcLen - (patLen - 1); dstLen < want {
		panic(fmt.Sprintf("match: output length %d, want at least %d", dstLen, want))
	}
}

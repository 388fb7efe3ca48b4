package fftfilter

import "github.com/cwbudde/algo-trace/dsp/transform"

// SinglePass adapts FilterState.FilterSinglePass to the row-transform
// contract.
type SinglePass[D transform.Float, S transform.Sample] struct {
	state *FilterState[D, S]
}

// NewSinglePass creates a single-pass filter transform with the given kernel
// over rows of fftLen samples.
func NewSinglePass[D transform.Float, S transform.Sample](fftLen int, kernel []float64) (*SinglePass[D, S], error) {
	state, err := NewFilterState[D, S](fftLen)
	if err != nil {
		return nil, err
	}
	if err := state.LoadKernel(kernel); err != nil {
		return nil, err
	}
	return &SinglePass[D, S]{state: state}, nil
}

// Apply filters one row.
func (t *SinglePass[D, S]) Apply(dst []D, src []S) {
	t.state.FilterSinglePass(dst, src)
}

// OutputLen reports the identity length contract.
func (t *SinglePass[D, S]) OutputLen(inputLen int) int { return transform.SameLen(inputLen) }

// Clone returns an independent copy for one parallel worker.
func (t *SinglePass[D, S]) Clone() transform.Transform[D, S] {
	return &SinglePass[D, S]{state: t.state.Clone()}
}

// TwoPass adapts FilterState.FilterTwoPass to the row-transform contract.
type TwoPass[D transform.Float, S transform.Sample] struct {
	state *FilterState[D, S]
}

// NewTwoPass creates a forward-backward (zero-phase) filter transform.
func NewTwoPass[D transform.Float, S transform.Sample](fftLen int, kernel []float64) (*TwoPass[D, S], error) {
	state, err := NewFilterState[D, S](fftLen)
	if err != nil {
		return nil, err
	}
	if err := state.LoadKernel(kernel); err != nil {
		return nil, err
	}
	return &TwoPass[D, S]{state: state}, nil
}

// Apply filters one row forward and backward.
func (t *TwoPass[D, S]) Apply(dst []D, src []S) {
	t.state.FilterTwoPass(dst, src)
}

// OutputLen reports the identity length contract.
func (t *TwoPass[D, S]) OutputLen(inputLen int) int { return transform.SameLen(inputLen) }

// Clone returns an independent copy for one parallel worker.
func (t *TwoPass[D, S]) Clone() transform.Transform[D, S] {
	return &TwoPass[D, S]{state: t.state.Clone()}
}

// PhaseCorrelator adapts FilterState.PhaseCorrelation to the row-transform
// contract.
type PhaseCorrelator[D transform.Float, S transform.Sample] struct {
	state *FilterState[D, S]
}

// NewPhaseCorrelator creates a phase-only correlation transform against the
// given reference kernel.
func NewPhaseCorrelator[D transform.Float, S transform.Sample](fftLen int, kernel []float64) (*PhaseCorrelator[D, S], error) {
	state, err := NewFilterState[D, S](fftLen)
	if err != nil {
		return nil, err
	}
	if err := state.LoadKernel(kernel); err != nil {
		return nil, err
	}
	return &PhaseCorrelator[D, S]{state: state}, nil
}

// Apply correlates one row against the reference kernel.
func (t *PhaseCorrelator[D, S]) Apply(dst []D, src []S) {
	t.state.PhaseCorrelation(dst, src)
}

// OutputLen reports the identity length contract.
func (t *PhaseCorrelator[D, S]) OutputLen(inputLen int) int { return transform.SameLen(inputLen) }

// Clone returns an independent copy for one parallel worker.
func (t *PhaseCorrelator[D, S]) Clone() transform.Transform[D, S] {
	return &PhaseCorrelator[D, S]{state: t.state.Clone()}
}

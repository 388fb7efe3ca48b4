package fftfilter

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-trace/dsp/transform"
)

// SpectrumState computes magnitude spectra of rows of a fixed FFT length.
// Like FilterState it owns its scratch exclusively; one worker per instance.
type SpectrumState[D transform.Float, S transform.Sample] struct {
	cache *PlanCache
	buf   []complex128
	spec  []complex128
	re    []float64
	im    []float64
	mag   []float64
}

// NewSpectrumState creates a spectrum state for rows of at most fftLen
// samples.
func NewSpectrumState[D transform.Float, S transform.Sample](fftLen int) (*SpectrumState[D, S], error) {
	cache, err := NewPlanCache(fftLen)
	if err != nil {
		return nil, err
	}

	rfftLen := cache.SpectrumLen()
	return &SpectrumState[D, S]{
		cache: cache,
		buf:   make([]complex128, fftLen),
		spec:  make([]complex128, fftLen),
		re:    make([]float64, rfftLen),
		im:    make([]float64, rfftLen),
		mag:   make([]float64, rfftLen),
	}, nil
}

// FFTLen returns the configured transform length.
func (s *SpectrumState[D, S]) FFTLen() int { return s.cache.FFTLen() }

// SpectrumLen returns the number of non-redundant frequency bins.
func (s *SpectrumState[D, S]) SpectrumLen() int { return s.cache.SpectrumLen() }

// Clone returns an independent state with fresh plans and scratch.
func (s *SpectrumState[D, S]) Clone() *SpectrumState[D, S] {
	clone, err := NewSpectrumState[D, S](s.FFTLen())
	if err != nil {
		panic(fmt.Sprintf("fftfilter: spectrum state rebuild failed: %v", err))
	}
	return clone
}

// RFFTMag writes |X[k]| for each of the fftLen/2+1 non-redundant bins of the
// forward FFT of src into dst. src is zero-padded to the FFT length.
func (s *SpectrumState[D, S]) RFFTMag(dst []D, src []S) {
	fftLen := s.FFTLen()
	rfftLen := s.SpectrumLen()
	if len(src) > fftLen {
		panic(fmt.Sprintf("fftfilter: input length %d exceeds FFT length %d", len(src), fftLen))
	}
	if len(dst) < rfftLen {
		panic(fmt.Sprintf("fftfilter: output length %d shorter than spectrum length %d", len(dst), rfftLen))
	}

	for i := range s.buf {
		if i < len(src) {
			s.buf[i] = complex(float64(src[i]), 0)
		} else {
			s.buf[i] = 0
		}
	}

	s.cache.forward(s.spec, s.buf)

	for i := 0; i < rfftLen; i++ {
		s.re[i] = real(s.spec[i])
		s.im[i] = imag(s.spec[i])
	}
	vecmath.Magnitude(s.mag, s.re, s.im)

	for i := 0; i < rfftLen; i++ {
		dst[i] = D(s.mag[i])
	}
}

// RFFTMag adapts SpectrumState.RFFTMag to the row-transform contract. Its
// output length is fixed at fftLen/2+1 regardless of the input length.
type RFFTMag[D transform.Float, S transform.Sample] struct {
	state *SpectrumState[D, S]
}

// NewRFFTMag creates a magnitude-spectrum transform for rows of fftLen
// samples.
func NewRFFTMag[D transform.Float, S transform.Sample](fftLen int) (*RFFTMag[D, S], error) {
	state, err := NewSpectrumState[D, S](fftLen)
	if err != nil {
		return nil, err
	}
	return &RFFTMag[D, S]{state: state}, nil
}

// Apply writes the magnitude spectrum of one row.
func (t *RFFTMag[D, S]) Apply(dst []D, src []S) {
	t.state.RFFTMag(dst, src)
}

// OutputLen is fixed at fftLen/2+1, overriding the identity contract.
func (t *RFFTMag[D, S]) OutputLen(int) int { return t.state.SpectrumLen() }

// Clone returns an independent copy for one parallel worker.
func (t *RFFTMag[D, S]) Clone() transform.Transform[D, S] {
	return &RFFTMag[D, S]{state: t.state.Clone()}
}

package fftfilter

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-trace/dsp/transform"
)

// FilterState holds everything needed to filter rows of a fixed FFT length:
// the plan cache, time- and frequency-domain scratch, and the kernel
// spectrum once a kernel has been loaded.
//
// A state is exclusively owned by one logical worker; scratch buffers are
// reused across calls and make concurrent invocation unsafe.
type FilterState[D transform.Float, S transform.Sample] struct {
	cache  *PlanCache
	buf    []complex128 // time-domain scratch
	spec   []complex128 // frequency-domain scratch
	kernel []complex128 // kernel spectrum, nil until LoadKernel
}

// NewFilterState creates a filter state for rows of at most fftLen samples.
func NewFilterState[D transform.Float, S transform.Sample](fftLen int) (*FilterState[D, S], error) {
	cache, err := NewPlanCache(fftLen)
	if err != nil {
		return nil, err
	}

	return &FilterState[D, S]{
		cache: cache,
		buf:   make([]complex128, fftLen),
		spec:  make([]complex128, fftLen),
	}, nil
}

// FFTLen returns the configured transform length.
func (f *FilterState[D, S]) FFTLen() int { return f.cache.FFTLen() }

// Clone returns an independent state sharing the (immutable) kernel spectrum
// but owning fresh plans and scratch buffers.
func (f *FilterState[D, S]) Clone() *FilterState[D, S] {
	fftLen := f.FFTLen()
	return &FilterState[D, S]{
		cache:  mustPlanCache(fftLen),
		buf:    make([]complex128, fftLen),
		spec:   make([]complex128, fftLen),
		kernel: f.kernel,
	}
}

// LoadKernel zero-pads coeffs to the FFT length, transforms them to the
// frequency domain, and stores the result as the kernel spectrum.
func (f *FilterState[D, S]) LoadKernel(coeffs []float64) error {
	fftLen := f.FFTLen()
	if len(coeffs) == 0 {
		return ErrEmptyKernel
	}
	if len(coeffs) > fftLen {
		return fmt.Errorf("%w: %d > %d", ErrKernelTooLong, len(coeffs), fftLen)
	}

	for i := range f.buf {
		if i < len(coeffs) {
			f.buf[i] = complex(coeffs[i], 0)
		} else {
			f.buf[i] = 0
		}
	}

	kernel := make([]complex128, fftLen)
	f.cache.forward(kernel, f.buf)
	f.kernel = kernel
	return nil
}

// loadInput converts src into the time-domain scratch, zero-padding the tail.
func (f *FilterState[D, S]) loadInput(src []S) {
	fftLen := f.FFTLen()
	if len(src) > fftLen {
		panic(fmt.Sprintf("fftfilter: input length %d exceeds FFT length %d", len(src), fftLen))
	}

	for i := range f.buf {
		if i < len(src) {
			f.buf[i] = complex(float64(src[i]), 0)
		} else {
			f.buf[i] = 0
		}
	}
}

func (f *FilterState[D, S]) checkFilterShapes(dst []D, src []S) {
	if f.kernel == nil {
		panic(ErrNoKernel.Error())
	}
	if len(dst) < len(src) {
		panic(fmt.Sprintf("fftfilter: output length %d shorter than input %d", len(dst), len(src)))
	}
	if len(dst) < f.FFTLen() {
		panic(fmt.Sprintf("fftfilter: output length %d shorter than FFT length %d", len(dst), f.FFTLen()))
	}
}

// filterLoaded multiplies the loaded time-domain scratch by the kernel
// spectrum and writes the inverse transform into dst[:fftLen].
func (f *FilterState[D, S]) filterLoaded(dst []D) {
	f.cache.forward(f.spec, f.buf)

	for i, k := range f.kernel {
		f.spec[i] *= k
	}

	f.cache.inverse(f.buf, f.spec)
	for i := 0; i < f.FFTLen(); i++ {
		dst[i] = D(real(f.buf[i]))
	}
}

// FilterSinglePass computes the circular convolution of src with the loaded
// kernel over the FFT length, writing fftLen samples into dst.
//
// With the FFT length chosen as inputLen + kernelLen - 1 this is exact
// linear convolution; shorter lengths alias the tail back onto the head.
func (f *FilterState[D, S]) FilterSinglePass(dst []D, src []S) {
	f.checkFilterShapes(dst, src)
	f.loadInput(src)
	f.filterLoaded(dst)
}

// FilterTwoPass applies the filter forward and backward: filter, reverse,
// filter, reverse. The second pass cancels the phase shift of the first, so
// a symmetric response comes out with zero phase distortion.
func (f *FilterState[D, S]) FilterTwoPass(dst []D, src []S) {
	f.FilterSinglePass(dst, src)

	fftLen := f.FFTLen()
	for i := 0; i < fftLen; i++ {
		f.buf[i] = complex(float64(dst[fftLen-1-i]), 0)
	}
	f.filterLoaded(dst)

	for i, j := 0, fftLen-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
}

// PhaseCorrelation computes the phase-only correlation of src against the
// loaded kernel: cross-power spectrum normalized by its magnitude per bin,
// then transformed back to the time domain. The peak of the output marks the
// best alignment.
//
// Bins with exactly zero squared magnitude are left unnormalized rather than
// zeroed; for near-zero bins this trades a little accuracy for continuity
// with the surrounding spectrum.
func (f *FilterState[D, S]) PhaseCorrelation(dst []D, src []S) {
	f.checkFilterShapes(dst, src)
	f.loadInput(src)

	f.cache.forward(f.spec, f.buf)
	for i, k := range f.kernel {
		x := f.spec[i] * cmplx.Conj(k)
		if normSq := real(x)*real(x) + imag(x)*imag(x); normSq > 0 {
			x /= complex(math.Sqrt(normSq), 0)
		}
		f.spec[i] = x
	}

	f.cache.inverse(f.buf, f.spec)
	for i := 0; i < f.FFTLen(); i++ {
		dst[i] = D(real(f.buf[i]))
	}
}

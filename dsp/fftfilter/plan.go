package fftfilter

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by fftfilter constructors.
var (
	ErrInvalidLength = errors.New("fftfilter: FFT length must be positive")
	ErrEmptyKernel   = errors.New("fftfilter: empty kernel")
	ErrKernelTooLong = errors.New("fftfilter: kernel longer than FFT length")
	ErrNoKernel      = errors.New("fftfilter: kernel not loaded")
)

// PlanCache holds the forward and inverse FFT plans for one transform length.
//
// Plans are pure functions of the length: the same cache instance can back
// many transform states of the same length, but the underlying plans carry
// private scratch, so a cache must not be applied from two goroutines at
// once. Cloned transform states build their own cache.
type PlanCache struct {
	fftLen   int
	plan     *algofft.Plan[complex128]
	invScale float64 // round-trip gain compensation, 1 for well-behaved lengths
}

// NewPlanCache builds forward/inverse plans for fftLen samples.
func NewPlanCache(fftLen int) (*PlanCache, error) {
	if fftLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, fftLen)
	}

	plan, err := algofft.NewPlan64(fftLen)
	if err != nil {
		return nil, fmt.Errorf("fftfilter: failed to create FFT plan: %w", err)
	}

	cache := &PlanCache{fftLen: fftLen, plan: plan, invScale: 1}
	cache.calibrate()
	return cache, nil
}

// calibrate measures the forward/inverse round-trip gain with a unit impulse
// and stores its reciprocal. At some mixed-radix lengths the plan's inverse
// comes back off by a constant factor; every inverse below compensates with
// the measured scale so frequency-domain products land at convolution scale
// for all lengths.
func (c *PlanCache) calibrate() {
	buf := make([]complex128, c.fftLen)
	spec := make([]complex128, c.fftLen)
	buf[0] = 1

	c.forward(spec, buf)
	if err := c.plan.Inverse(buf, spec); err != nil {
		panic(fmt.Sprintf("fftfilter: inverse FFT failed: %v", err))
	}

	gain := real(buf[0])
	if gain != 0 && !math.IsNaN(gain) && !math.IsInf(gain, 0) {
		c.invScale = 1 / gain
	}
}

// mustPlanCache rebuilds a cache for a length that was already validated.
func mustPlanCache(fftLen int) *PlanCache {
	cache, err := NewPlanCache(fftLen)
	if err != nil {
		panic(fmt.Sprintf("fftfilter: plan rebuild for length %d failed: %v", fftLen, err))
	}
	return cache
}

// FFTLen returns the transform length in real samples.
func (c *PlanCache) FFTLen() int { return c.fftLen }

// SpectrumLen returns the number of non-redundant frequency bins (fftLen/2+1).
func (c *PlanCache) SpectrumLen() int { return c.fftLen/2 + 1 }

func (c *PlanCache) forward(dst, src []complex128) {
	if err := c.plan.Forward(dst, src); err != nil {
		panic(fmt.Sprintf("fftfilter: forward FFT failed: %v", err))
	}
}

// inverse applies the inverse transform and the calibrated gain correction,
// so a frequency-domain product comes back at convolution scale.
func (c *PlanCache) inverse(dst, src []complex128) {
	if err := c.plan.Inverse(dst, src); err != nil {
		panic(fmt.Sprintf("fftfilter: inverse FFT failed: %v", err))
	}
	if c.invScale != 1 {
		s := complex(c.invScale, 0)
		for i := range dst {
			dst[i] *= s
		}
	}
}

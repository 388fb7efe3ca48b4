package sliding

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-trace/dsp/transform"
)

// Errors returned by sliding constructors.
var (
	ErrInvalidWindow  = errors.New("sliding: invalid window size")
	ErrWindowTooSmall = errors.New("sliding: window too small for statistic")
)

// MovingSum computes, at every position j, the sum of the window
// input[j : j+windowSize] scaled by a constant factor. Windows reaching past
// the end of the row are truncated at the last sample, so the output has the
// same length as the input.
type MovingSum[D transform.Float, S transform.Sample] struct {
	windowSize int
	scale      D
}

// NewMovingSum creates a moving-sum transform. windowSize must be positive.
func NewMovingSum[D transform.Float, S transform.Sample](windowSize int, scale D) (*MovingSum[D, S], error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, windowSize)
	}
	return &MovingSum[D, S]{windowSize: windowSize, scale: scale}, nil
}

// Apply writes the scaled window sums of src into dst. len(dst) must equal
// len(src) and be at least the window size.
func (m *MovingSum[D, S]) Apply(dst []D, src []S) {
	w := m.windowSize
	if len(dst) != len(src) {
		panic(fmt.Sprintf("sliding: output length %d, want %d", len(dst), len(src)))
	}
	if w > len(dst) {
		panic(fmt.Sprintf("sliding: window %d exceeds row length %d", w, len(dst)))
	}

	// First pass: compensated cumulative sum into dst.
	var sum, comp D
	for j, v := range src {
		x := D(v)
		t := sum + x
		if abs(sum) >= abs(x) {
			comp += (sum - t) + x
		} else {
			comp += (x - t) + sum
		}
		sum = t
		dst[j] = t + comp
	}

	// Second pass: window sum as the difference of the cumulative values at
	// the window boundaries. dst[j+w-1] is still a cumulative value when
	// read because positions are rewritten in ascending order.
	var sPrev D
	jLast := len(dst) - 1
	jEnd := len(dst) - w
	for j := range dst {
		sCurr := dst[j]

		var sEnd D
		if j <= jEnd {
			sEnd = dst[j+w-1]
		} else {
			sEnd = dst[jLast]
		}

		tmp := sEnd - sPrev
		if m.scale != 1 {
			tmp *= m.scale
		}
		dst[j] = tmp
		sPrev = sCurr
	}
}

// OutputLen reports the identity length contract.
func (m *MovingSum[D, S]) OutputLen(inputLen int) int { return transform.SameLen(inputLen) }

// Clone returns an independent copy; the moving sum keeps no scratch.
func (m *MovingSum[D, S]) Clone() transform.Transform[D, S] {
	clone := *m
	return &clone
}

func abs[D transform.Float](x D) D {
	if x < 0 {
		return -x
	}
	return x
}

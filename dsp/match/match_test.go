package match

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-trace/dsp/core"
	"github.com/cwbudde/algo-trace/dsp/transform"
	"github.com/cwbudde/algo-trace/internal/pcg"
	"github.com/cwbudde/algo-trace/internal/testutil"
)

func randomRow(rng *pcg.Pcg32, n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = rng.Float64()*10 - 5
	}
	return row
}

func naiveEuclidean(src, pattern []float64) []float64 {
	out := make([]float64, len(src)-len(pattern)+1)
	for j := range out {
		var s float64
		for k, p := range pattern {
			d := src[j+k] - p
			s += d * d
		}
		out[j] = s
	}
	return out
}

func naiveCorrelation(src, pattern []float64) []float64 {
	w := len(pattern)
	pMean := stat.Mean(pattern, nil)

	var pSq float64
	for _, p := range pattern {
		pSq += p * p
	}
	pStd := math.Sqrt(pSq/float64(w) - pMean*pMean)

	out := make([]float64, len(src)-w+1)
	for j := range out {
		window := src[j : j+w]
		var xp, xs float64
		for k, p := range pattern {
			xp += window[k] * p
			xs += window[k]
		}
		out[j] = (xp - xs*pMean) / (stat.StdDev(window, nil) * pStd)
	}
	return out
}

func TestEuclideanMatchesNaive(t *testing.T) {
	rng := pcg.New(101, 7)
	src := randomRow(rng, 40)

	for _, patLen := range []int{1, 3, 7} {
		pattern := randomRow(rng, patLen)

		m, err := NewEuclidean[float64, float64](pattern, len(src))
		if err != nil {
			t.Fatal(err)
		}

		dst := make([]float64, m.OutputLen(len(src)))
		m.Apply(dst, src)
		testutil.RequireSliceCloseRel(t, dst, naiveEuclidean(src, pattern), 1e-8)
	}
}

func TestEuclideanExactMatchIsZero(t *testing.T) {
	rng := pcg.New(13, 1)
	pattern := randomRow(rng, 5)

	src := randomRow(rng, 30)
	const at = 12
	copy(src[at:], pattern)

	m, err := NewEuclidean[float64, float64](pattern, len(src))
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]float64, m.OutputLen(len(src)))
	m.Apply(dst, src)

	if math.Abs(dst[at]) > 1e-8 {
		t.Fatalf("distance at embedding = %v, want ~0", dst[at])
	}
	for j, v := range dst {
		if v < -1e-8 {
			t.Fatalf("dst[%d] = %v, squared distance must be non-negative", j, v)
		}
		if j != at && v < dst[at] {
			t.Fatalf("dst[%d] = %v below exact-match distance %v", j, v, dst[at])
		}
	}
}

func TestEuclideanInt16Input(t *testing.T) {
	pattern := []float64{2, -1, 4}
	src := []int16{5, 2, -1, 4, 9, -3, 7, 0, 2, -1, 4, 1}
	asFloat := make([]float64, len(src))
	for i, v := range src {
		asFloat[i] = float64(v)
	}

	m, err := NewEuclidean[float64, int16](pattern, len(src))
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]float64, m.OutputLen(len(src)))
	m.Apply(dst, src)

	testutil.RequireSliceCloseRel(t, dst, naiveEuclidean(asFloat, pattern), 1e-8)
}

func TestCorrelationMatchesNaive(t *testing.T) {
	rng := pcg.New(202, 9)
	src := randomRow(rng, 45)

	for _, patLen := range []int{2, 4, 9} {
		pattern := randomRow(rng, patLen)

		m, err := NewCorrelation[float64, float64](pattern, len(src))
		if err != nil {
			t.Fatal(err)
		}

		dst := make([]float64, m.OutputLen(len(src)))
		m.Apply(dst, src)
		testutil.RequireSliceCloseRel(t, dst, naiveCorrelation(src, pattern), 1e-8)
	}
}

func TestCorrelationPeakAtEmbedding(t *testing.T) {
	rng := pcg.New(303, 4)
	pattern := randomRow(rng, 6)

	// Affine copy of the pattern stands out against background noise.
	src := randomRow(rng, 40)
	const at = 21
	for k, p := range pattern {
		src[at+k] = 3*p + 10
	}

	m, err := NewCorrelation[float64, float64](pattern, len(src))
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]float64, m.OutputLen(len(src)))
	m.Apply(dst, src)

	best := 0
	for j, v := range dst {
		if v > dst[best] {
			best = j
		}
	}
	if best != at {
		t.Fatalf("peak at %d, want %d", best, at)
	}

	// A perfect affine match scores sqrt(w*(w-1)) under this normalization.
	w := float64(len(pattern))
	want := math.Sqrt(w * (w - 1))
	if math.Abs(dst[at]-want) > 1e-6 {
		t.Fatalf("peak value = %v, want %v", dst[at], want)
	}
}

func TestConstructorValidation(t *testing.T) {
	if _, err := NewEuclidean[float64, float64](nil, 10); !errors.Is(err, ErrEmptyPattern) {
		t.Fatalf("empty pattern: err = %v", err)
	}
	if _, err := NewEuclidean[float64, float64](make([]float64, 11), 10); !errors.Is(err, ErrPatternTooLong) {
		t.Fatalf("long pattern: err = %v", err)
	}
	if _, err := NewCorrelation[float64, float64](nil, 10); !errors.Is(err, ErrEmptyPattern) {
		t.Fatalf("empty pattern: err = %v", err)
	}
	if _, err := NewCorrelation[float64, float64]([]float64{1}, 10); !errors.Is(err, ErrPatternTooShort) {
		t.Fatalf("one-sample pattern: err = %v", err)
	}
	if _, err := NewCorrelation[float64, float64](make([]float64, 11), 10); !errors.Is(err, ErrPatternTooLong) {
		t.Fatalf("long pattern: err = %v", err)
	}
}

func TestOutputLen(t *testing.T) {
	m, err := NewEuclidean[float64, float64]([]float64{1, 2, 3}, 20)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.OutputLen(20); got != 18 {
		t.Fatalf("OutputLen(20) = %d, want 18", got)
	}

	c, err := NewCorrelation[float64, float64]([]float64{1, 2, 3, 4}, 20)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.OutputLen(20); got != 17 {
		t.Fatalf("OutputLen(20) = %d, want 17", got)
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	rng := pcg.New(404, 6)
	const rows, cols = 8, 48
	pattern := randomRow(rng, 5)

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.Float64()*6 - 3
	}
	batch := core.WrapMatrix(data, rows, cols)

	eu, err := NewEuclidean[float64, float64](pattern, cols)
	if err != nil {
		t.Fatal(err)
	}
	co, err := NewCorrelation[float64, float64](pattern, cols)
	if err != nil {
		t.Fatal(err)
	}

	for _, tr := range []transform.Transform[float64, float64]{eu, co} {
		seq := transform.Apply2D[float64, float64](tr, batch)
		par := transform.Apply2DParallel[float64, float64](tr, batch, 3)
		for i := range seq.Data {
			if seq.Data[i] != par.Data[i] {
				t.Fatalf("element %d differs: %v vs %v", i, seq.Data[i], par.Data[i])
			}
		}
	}
}

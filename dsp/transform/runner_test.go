package transform

import (
	"testing"

	"github.com/cwbudde/algo-trace/dsp/core"
)

// offsetSum writes, at each output position, the running sum of the input row
// scaled by a constant. It carries scratch state so clone isolation matters.
type offsetSum struct {
	scale   float64
	scratch []float64
}

func (o *offsetSum) Apply(dst []float64, src []int16) {
	if len(o.scratch) < len(src) {
		o.scratch = make([]float64, len(src))
	}

	sum := 0.0
	for i, v := range src {
		sum += float64(v)
		o.scratch[i] = sum
	}

	for i := range dst {
		dst[i] = o.scratch[i] * o.scale
	}
}

func (o *offsetSum) OutputLen(inputLen int) int { return inputLen }

func (o *offsetSum) Clone() Transform[float64, int16] {
	return &offsetSum{scale: o.scale}
}

// headTrim drops the last two input samples, exercising OutputLen overrides.
type headTrim struct{}

func (headTrim) Apply(dst []float64, src []int16) {
	for i := range dst {
		dst[i] = float64(src[i])
	}
}

func (headTrim) OutputLen(inputLen int) int { return inputLen - 2 }

func (h headTrim) Clone() Transform[float64, int16] { return h }

func makeInput(rows, cols int) core.Matrix[int16] {
	in := core.NewMatrix[int16](rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			in.Set(i, j, int16(i*31+j*7-40))
		}
	}
	return in
}

func TestApply2DSequential(t *testing.T) {
	in := makeInput(4, 6)
	tr := &offsetSum{scale: 0.5}

	out := Apply2D[float64, int16](tr, in)
	if out.Rows != 4 || out.Cols != 6 {
		t.Fatalf("shape = %dx%d, want 4x6", out.Rows, out.Cols)
	}

	// Row 2: values 22, 29, 36, ... with running sums scaled by 0.5.
	sum := 0.0
	for j := 0; j < in.Cols; j++ {
		sum += float64(in.At(2, j))
		if got := out.At(2, j); got != sum*0.5 {
			t.Fatalf("out[2][%d] = %v, want %v", j, got, sum*0.5)
		}
	}
}

func TestApply2DParallelMatchesSequential(t *testing.T) {
	in := makeInput(17, 9)
	tr := &offsetSum{scale: 1.25}

	want := Apply2D[float64, int16](tr, in)

	for _, chunk := range []int{0, 1, 2, 5, 17, 100} {
		got := Apply2DParallel[float64, int16](tr, in, chunk)
		for i := range want.Data {
			if got.Data[i] != want.Data[i] {
				t.Fatalf("chunk %d: element %d = %v, want %v", chunk, i, got.Data[i], want.Data[i])
			}
		}
	}
}

func TestApply2DIntoWritesCallerBuffer(t *testing.T) {
	in := makeInput(3, 5)
	tr := &offsetSum{scale: 2}

	out := core.NewMatrix[float64](3, 5)
	Apply2DInto[float64, int16](tr, out, in)

	want := Apply2D[float64, int16](tr, in)
	for i := range want.Data {
		if out.Data[i] != want.Data[i] {
			t.Fatalf("element %d = %v, want %v", i, out.Data[i], want.Data[i])
		}
	}
}

func TestApply2DOutputLenOverride(t *testing.T) {
	in := makeInput(2, 8)

	out := Apply2D[float64, int16](headTrim{}, in)
	if out.Cols != 6 {
		t.Fatalf("cols = %d, want 6", out.Cols)
	}

	par := Apply2DParallel[float64, int16](headTrim{}, in, 1)
	for i := range out.Data {
		if out.Data[i] != par.Data[i] {
			t.Fatalf("element %d differs between modes", i)
		}
	}
}

func TestApply2DIntoShapeMismatchPanics(t *testing.T) {
	in := makeInput(2, 4)
	out := core.NewMatrix[float64](2, 3)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for short output rows")
		}
	}()

	Apply2DInto[float64, int16](&offsetSum{scale: 1}, out, in)
}

func TestApply2DEmptyBatch(t *testing.T) {
	in := core.NewMatrix[int16](0, 8)

	out := Apply2DParallel[float64, int16](&offsetSum{scale: 1}, in, 4)
	if out.Rows != 0 {
		t.Fatalf("rows = %d, want 0", out.Rows)
	}
}

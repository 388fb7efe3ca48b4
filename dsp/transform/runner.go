package transform

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-trace/dsp/core"
)

// Apply2D runs the transform over every row of input and returns a freshly
// allocated output batch. Row i of the result corresponds to row i of input.
func Apply2D[D Float, S Sample](tr Transform[D, S], input core.Matrix[S]) core.Matrix[D] {
	out := core.NewMatrix[D](input.Rows, tr.OutputLen(input.Cols))
	Apply2DInto(tr, out, input)
	return out
}

// Apply2DInto runs the transform over every row of input, writing row i of
// the result into row i of output. output must have input.Rows rows and at
// least OutputLen(input.Cols) columns.
func Apply2DInto[D Float, S Sample](tr Transform[D, S], output core.Matrix[D], input core.Matrix[S]) {
	checkBatchShape(tr, output, input)

	for i := 0; i < input.Rows; i++ {
		tr.Apply(output.Row(i), input.Row(i))
	}
}

// Apply2DParallel is the parallel variant of [Apply2D]. chunkSize rows are
// assigned to each worker; chunkSize <= 0 splits the batch evenly across
// GOMAXPROCS. Results are identical to the sequential variant row for row.
func Apply2DParallel[D Float, S Sample](tr Transform[D, S], input core.Matrix[S], chunkSize int) core.Matrix[D] {
	out := core.NewMatrix[D](input.Rows, tr.OutputLen(input.Cols))
	Apply2DParallelInto(tr, out, input, chunkSize)
	return out
}

// Apply2DParallelInto is the parallel variant of [Apply2DInto]. Each worker
// operates on a clone of tr and writes into a disjoint row range of output,
// so no synchronization is needed beyond the final join.
func Apply2DParallelInto[D Float, S Sample](tr Transform[D, S], output core.Matrix[D], input core.Matrix[S], chunkSize int) {
	checkBatchShape(tr, output, input)

	rows := input.Rows
	if rows == 0 {
		return
	}

	if chunkSize <= 0 {
		workers := runtime.GOMAXPROCS(0)
		chunkSize = (rows + workers - 1) / workers
	}

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunkSize {
		end := start + chunkSize
		if end > rows {
			end = rows
		}

		wg.Add(1)
		go func(tr Transform[D, S], start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				tr.Apply(output.Row(i), input.Row(i))
			}
		}(tr.Clone(), start, end)
	}

	wg.Wait()
}

func checkBatchShape[D Float, S Sample](tr Transform[D, S], output core.Matrix[D], input core.Matrix[S]) {
	if output.Rows != input.Rows {
		panic(fmt.Sprintf("transform: output rows %d, want %d", output.Rows, input.Rows))
	}
	if want := tr.OutputLen(input.Cols); output.Cols < want {
		panic(fmt.Sprintf("transform: output cols %d, want at least %d", output.Cols, want))
	}
}

package condmean

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-trace/dsp/core"
)

// CondMeanVarP runs several CondMeanVar workers over disjoint, contiguous
// ranges of the sample axis. Because every worker sees the same labels and
// owns its own columns, parallel processing is exact: merging back into one
// accumulator is pure reassembly.
type CondMeanVarP[D Float] struct {
	workers []*CondMeanVar[D]
	chunks  [][2]int // [start, end) sample ranges, aligned with workers

	targets int
	samples int
	classes int
}

// NewParallel creates an empty parallel accumulator whose sample axis is cut
// into chunks of at most chunkSize positions.
func NewParallel[D Float](chunkSize, targets, samples, classes int) (*CondMeanVarP[D], error) {
	acc, err := New[D](targets, samples, classes)
	if err != nil {
		return nil, err
	}
	return Split(acc, chunkSize)
}

// Split partitions acc's sample axis into contiguous chunks of at most
// chunkSize, producing one independent worker per chunk. Each worker copies
// its column range of the accumulator tables and the full counts, so acc
// remains usable and the split can happen mid-accumulation.
func Split[D Float](acc *CondMeanVar[D], chunkSize int) (*CondMeanVarP[D], error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidShape, chunkSize)
	}

	targets := acc.Targets()
	samples := acc.Samples()
	classes := acc.Classes()

	chunkCount := (samples + chunkSize - 1) / chunkSize
	workers := make([]*CondMeanVar[D], 0, chunkCount)
	chunks := make([][2]int, 0, chunkCount)

	for start := 0; start < samples; start += chunkSize {
		end := start + chunkSize
		if end > samples {
			end = samples
		}

		w := &CondMeanVar[D]{
			mean:   NewTable3[D](targets, classes, end-start),
			varAcc: NewTable3[D](targets, classes, end-start),
			counts: acc.counts.Clone(),
		}
		for t := 0; t < targets; t++ {
			for c := 0; c < classes; c++ {
				copy(w.mean.Row(t, c), acc.mean.Row(t, c)[start:end])
				copy(w.varAcc.Row(t, c), acc.varAcc.Row(t, c)[start:end])
			}
		}

		workers = append(workers, w)
		chunks = append(chunks, [2]int{start, end})
	}

	return &CondMeanVarP[D]{
		workers: workers,
		chunks:  chunks,
		targets: targets,
		samples: samples,
		classes: classes,
	}, nil
}

// Workers returns the number of sample-axis chunks.
func (p *CondMeanVarP[D]) Workers() int { return len(p.workers) }

// ProcessBlockParallel folds every row of data into the parallel
// accumulator, dispatching each worker's column range on its own goroutine.
// Workers touch disjoint memory; the only synchronization is the final join.
func ProcessBlockParallel[D Float, S Sample](p *CondMeanVarP[D], data core.Matrix[S], labels core.Matrix[Label]) {
	if data.Cols != p.samples {
		panic(fmt.Sprintf("condmean: %d data columns, want %d", data.Cols, p.samples))
	}
	if data.Rows != labels.Rows {
		panic(fmt.Sprintf("condmean: %d data rows, %d label rows", data.Rows, labels.Rows))
	}

	var wg sync.WaitGroup
	for i, w := range p.workers {
		start, end := p.chunks[i][0], p.chunks[i][1]

		wg.Add(1)
		go func(w *CondMeanVar[D], start, end int) {
			defer wg.Done()
			for r := 0; r < data.Rows; r++ {
				Process(w, data.Row(r)[start:end], labels.Row(r))
			}
		}(w, start, end)
	}
	wg.Wait()
}

// Merge reassembles the workers into one full-width accumulator by writing
// each worker's tables back into its column range. Counts depend only on the
// labels seen, so every worker holds the same counts and the first one is
// taken verbatim.
func (p *CondMeanVarP[D]) Merge() *CondMeanVar[D] {
	out := &CondMeanVar[D]{
		mean:   NewTable3[D](p.targets, p.classes, p.samples),
		varAcc: NewTable3[D](p.targets, p.classes, p.samples),
		counts: p.workers[0].counts.Clone(),
	}

	for i, w := range p.workers {
		start, end := p.chunks[i][0], p.chunks[i][1]
		for t := 0; t < p.targets; t++ {
			for c := 0; c < p.classes; c++ {
				copy(out.mean.Row(t, c)[start:end], w.mean.Row(t, c))
				copy(out.varAcc.Row(t, c)[start:end], w.varAcc.Row(t, c))
			}
		}
	}
	return out
}

package condmean

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-trace/internal/pcg"
)

func BenchmarkProcessBlock(b *testing.B) {
	const rows, classes = 256, 16
	sizes := []int{64, 256, 1024}

	for _, cols := range sizes {
		rng := pcg.New(11, 3)
		data := randomBatch(rng, rows, cols)
		labels := randomLabels(rng, rows, 1, classes)

		acc, err := New[float64](1, cols, classes)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("samples=%d", cols), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(rows * cols * 8))

			for range b.N {
				ProcessBlock(acc, data, labels)
			}
		})
	}
}

func BenchmarkProcessBlockParallel(b *testing.B) {
	const rows, cols, classes = 256, 1024, 16

	rng := pcg.New(11, 4)
	data := randomBatch(rng, rows, cols)
	labels := randomLabels(rng, rows, 1, classes)

	for _, chunk := range []int{32, 128, 512} {
		b.Run(fmt.Sprintf("chunk=%d", chunk), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(rows * cols * 8))

			for range b.N {
				acc, err := New[float64](1, cols, classes)
				if err != nil {
					b.Fatal(err)
				}
				par, err := Split(acc, chunk)
				if err != nil {
					b.Fatal(err)
				}
				ProcessBlockParallel(par, data, labels)
				par.Merge()
			}
		})
	}
}

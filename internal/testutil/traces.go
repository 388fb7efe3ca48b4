// Package testutil provides deterministic signal and trace generators plus
// tolerance helpers shared by package tests.
package testutil

import (
	"math"

	"github.com/cwbudde/algo-trace/dsp/core"
	"github.com/cwbudde/algo-trace/internal/pcg"
)

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// CosineBin generates a cosine that lands exactly on FFT bin k of an n-point
// transform.
func CosineBin(n, bin int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Cos(2*math.Pi*float64(bin)*float64(i)/float64(n))
	}
	return out
}

// Noise generates uniform white noise in [-amplitude, amplitude) with a
// fixed seed for reproducibility.
func Noise(seed uint64, amplitude float64, length int) []float64 {
	rng := pcg.New(seed, 1)
	out := make([]float64, length)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// LeakyTraces builds a batch of synthetic traces with a controlled leak: at
// every position in leakAt the signal is shifted by amplitude times the
// row's class, everywhere else all classes share the same noise
// distribution. Labels cycle through the classes row by row; the returned
// label matrix has one column (a single target). The same seed always
// yields the same batch.
func LeakyTraces(seed uint64, rows, cols, classes int, leakAt []int, amplitude float64) (core.Matrix[float64], core.Matrix[uint16]) {
	rng := pcg.New(seed, 2)

	data := core.NewMatrix[float64](rows, cols)
	labels := core.NewMatrix[uint16](rows, 1)
	for i := 0; i < rows; i++ {
		class := i % classes
		labels.Set(i, 0, uint16(class))

		row := data.Row(i)
		for j := range row {
			row[j] = rng.Float64()*2 - 1
		}
		for _, j := range leakAt {
			row[j] += amplitude * float64(class)
		}
	}
	return data, labels
}

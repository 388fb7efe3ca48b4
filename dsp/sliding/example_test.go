package sliding_test

import (
	"fmt"

	"github.com/cwbudde/algo-trace/dsp/sliding"
)

func ExampleMovingSum() {
	ms, _ := sliding.NewMovingSum[float64, float64](3, 1)

	src := []float64{1, 2, 3, 4, 5}
	dst := make([]float64, len(src))
	ms.Apply(dst, src)

	fmt.Printf("%.0f\n", dst)

	// Output:
	// [6 9 12 9 5]
}

func ExampleExecutor() {
	ex, _ := sliding.NewExecutor[float64, float64](sliding.Mean, 3, 0)

	src := []float64{1, 2, 3, 4, 5, 9}
	dst := make([]float64, len(src))
	ex.Apply(dst, src)

	fmt.Printf("%.1f\n", dst)

	// Output:
	// [0.0 0.0 2.0 3.0 4.0 6.0]
}

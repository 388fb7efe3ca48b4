package core

import "testing"

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestReverse(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	Reverse(buf)

	want := []float64{4, 3, 2, 1}
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	odd := []int{1, 2, 3}
	Reverse(odd)
	if odd[0] != 3 || odd[1] != 2 || odd[2] != 1 {
		t.Fatalf("unexpected odd reverse: %#v", odd)
	}
}

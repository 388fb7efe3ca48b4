package core

import "testing"

func TestNewMatrixShape(t *testing.T) {
	m := NewMatrix[float64](3, 4)

	if m.Rows != 3 || m.Cols != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", m.Rows, m.Cols)
	}

	if len(m.Data) != 12 {
		t.Fatalf("data length = %d, want 12", len(m.Data))
	}
}

func TestMatrixRowAliasesData(t *testing.T) {
	m := NewMatrix[float64](2, 3)
	row := m.Row(1)
	row[2] = 42

	if m.At(1, 2) != 42 {
		t.Fatalf("At(1,2) = %v, want 42", m.At(1, 2))
	}
}

func TestMatrixFromRows(t *testing.T) {
	m, err := MatrixFromRows([][]int16{
		{1, 2, 3},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.At(0, 0) != 1 || m.At(1, 2) != 6 {
		t.Fatalf("unexpected contents: %#v", m.Data)
	}
}

func TestMatrixFromRowsRagged(t *testing.T) {
	_, err := MatrixFromRows([][]float64{
		{1, 2},
		{3},
	})
	if err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestMatrixClone(t *testing.T) {
	m := NewMatrix[float64](2, 2)
	m.Set(0, 1, 7)

	c := m.Clone()
	c.Set(0, 1, 9)

	if m.At(0, 1) != 7 {
		t.Fatalf("clone mutated original: %v", m.At(0, 1))
	}
}

func TestWrapMatrixPanicsOnBadShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched shape")
		}
	}()

	WrapMatrix(make([]float64, 5), 2, 3)
}

package core

import "fmt"

// Matrix is a dense, row-major 2-D batch of values.
//
// Row i is the contiguous slice Data[i*Cols : (i+1)*Cols]. A batch of traces
// stores one trace per row; all rows share the same sample count.
type Matrix[T any] struct {
	Data []T
	Rows int
	Cols int
}

// NewMatrix allocates a zero-valued rows x cols matrix.
func NewMatrix[T any](rows, cols int) Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("core: invalid matrix shape %dx%d", rows, cols))
	}
	return Matrix[T]{
		Data: make([]T, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// MatrixFromRows builds a matrix by copying the given equal-length rows.
func MatrixFromRows[T any](rows [][]T) (Matrix[T], error) {
	if len(rows) == 0 {
		return Matrix[T]{}, fmt.Errorf("core: matrix requires at least one row")
	}

	cols := len(rows[0])
	m := NewMatrix[T](len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return Matrix[T]{}, fmt.Errorf("core: row %d has length %d, want %d", i, len(r), cols)
		}
		copy(m.Row(i), r)
	}

	return m, nil
}

// WrapMatrix wraps an existing flat slice as a rows x cols matrix without copying.
// len(data) must equal rows*cols.
func WrapMatrix[T any](data []T, rows, cols int) Matrix[T] {
	if len(data) != rows*cols {
		panic(fmt.Sprintf("core: data length %d does not match shape %dx%d", len(data), rows, cols))
	}
	return Matrix[T]{Data: data, Rows: rows, Cols: cols}
}

// Row returns the mutable slice backing row i.
func (m Matrix[T]) Row(i int) []T {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// At returns the element at row i, column j.
func (m Matrix[T]) At(i, j int) T {
	return m.Data[i*m.Cols+j]
}

// Set stores v at row i, column j.
func (m Matrix[T]) Set(i, j int, v T) {
	m.Data[i*m.Cols+j] = v
}

// IsZero reports whether the matrix is the zero value (no backing storage).
func (m Matrix[T]) IsZero() bool {
	return m.Data == nil && m.Rows == 0 && m.Cols == 0
}

// Clone returns a deep copy of the matrix.
func (m Matrix[T]) Clone() Matrix[T] {
	out := Matrix[T]{
		Data: make([]T, len(m.Data)),
		Rows: m.Rows,
		Cols: m.Cols,
	}
	copy(out.Data, m.Data)
	return out
}

package condmean

import "fmt"

// Table3 is a dense [targets][classes][samples] table of accumulator values.
// The samples axis is innermost, so one (target, class) group is a contiguous
// slice.
type Table3[D Float] struct {
	Data    []D
	Targets int
	Classes int
	Samples int
}

// NewTable3 allocates a zero-valued table.
func NewTable3[D Float](targets, classes, samples int) Table3[D] {
	return Table3[D]{
		Data:    make([]D, targets*classes*samples),
		Targets: targets,
		Classes: classes,
		Samples: samples,
	}
}

// Row returns the mutable samples slice of one (target, class) group.
func (t Table3[D]) Row(target, class int) []D {
	base := (target*t.Classes + class) * t.Samples
	return t.Data[base : base+t.Samples]
}

// At returns the element at (target, class, sample).
func (t Table3[D]) At(target, class, sample int) D {
	return t.Data[(target*t.Classes+class)*t.Samples+sample]
}

// Clone returns a deep copy of the table.
func (t Table3[D]) Clone() Table3[D] {
	out := t
	out.Data = make([]D, len(t.Data))
	copy(out.Data, t.Data)
	return out
}

func (t Table3[D]) sameShape(o Table3[D]) bool {
	return t.Targets == o.Targets && t.Classes == o.Classes && t.Samples == o.Samples
}

func (t Table3[D]) shape() string {
	return fmt.Sprintf("%dx%dx%d", t.Targets, t.Classes, t.Samples)
}

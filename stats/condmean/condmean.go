package condmean

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-trace/dsp/core"
	"github.com/cwbudde/algo-trace/dsp/transform"
)

// Numeric constraints, shared with the transform layer.
type (
	Float  = transform.Float
	Sample = transform.Sample
)

// Label is the class index of a row within one target.
type Label = uint16

// Errors returned by condmean constructors and state loading.
var (
	ErrInvalidShape  = errors.New("condmean: invalid accumulator shape")
	ErrShapeMismatch = errors.New("condmean: state shape mismatch")
)

// CondMeanVar accumulates running means and variances for every
// (target, class) group at every sample position, via Welford's online
// update. The variance table holds the unnormalized sum of squared
// deviations until frozen.
type CondMeanVar[D Float] struct {
	mean   Table3[D]
	varAcc Table3[D]
	counts core.Matrix[uint32] // observations per (target, class)
}

// New creates an accumulator for the given table shape. All dimensions must
// be positive.
func New[D Float](targets, samples, classes int) (*CondMeanVar[D], error) {
	if targets <= 0 || samples <= 0 || classes <= 0 {
		return nil, fmt.Errorf("%w: %d targets, %d samples, %d classes",
			ErrInvalidShape, targets, samples, classes)
	}

	return &CondMeanVar[D]{
		mean:   NewTable3[D](targets, classes, samples),
		varAcc: NewTable3[D](targets, classes, samples),
		counts: core.NewMatrix[uint32](targets, classes),
	}, nil
}

// Targets returns the number of accumulation targets.
func (a *CondMeanVar[D]) Targets() int { return a.mean.Targets }

// Classes returns the number of classes per target.
func (a *CondMeanVar[D]) Classes() int { return a.mean.Classes }

// Samples returns the number of sample positions per row.
func (a *CondMeanVar[D]) Samples() int { return a.mean.Samples }

// Clone returns a deep copy of the accumulator.
func (a *CondMeanVar[D]) Clone() *CondMeanVar[D] {
	return &CondMeanVar[D]{
		mean:   a.mean.Clone(),
		varAcc: a.varAcc.Clone(),
		counts: a.counts.Clone(),
	}
}

// Process folds one row into the accumulator. labels carries the row's class
// for each target; for every target the count of that class is incremented
// and each sample position's running mean/variance is updated incrementally.
func Process[D Float, S Sample](a *CondMeanVar[D], row []S, labels []Label) {
	if len(row) != a.mean.Samples {
		panic(fmt.Sprintf("condmean: row length %d, want %d", len(row), a.mean.Samples))
	}
	if len(labels) != a.mean.Targets {
		panic(fmt.Sprintf("condmean: %d labels, want %d", len(labels), a.mean.Targets))
	}

	for t, label := range labels {
		class := int(label)
		if class >= a.mean.Classes {
			panic(fmt.Sprintf("condmean: label %d out of range for %d classes", class, a.mean.Classes))
		}

		n := a.counts.At(t, class) + 1
		a.counts.Set(t, class, n)
		oN := D(n)

		mean := a.mean.Row(t, class)
		varAcc := a.varAcc.Row(t, class)
		for i, s := range row {
			x := D(s)
			delta := x - mean[i]
			newMean := mean[i] + delta/oN
			mean[i] = newMean
			varAcc[i] += delta * (x - newMean)
		}
	}
}

// ProcessBlock folds every row of data, paired with its label row, into the
// accumulator.
func ProcessBlock[D Float, S Sample](a *CondMeanVar[D], data core.Matrix[S], labels core.Matrix[Label]) {
	if data.Rows != labels.Rows {
		panic(fmt.Sprintf("condmean: %d data rows, %d label rows", data.Rows, labels.Rows))
	}

	for i := 0; i < data.Rows; i++ {
		Process(a, data.Row(i), labels.Row(i))
	}
}

// Freeze returns the running means as-is and the variance accumulator
// normalized by n-1 per (target, class) group. Groups with fewer than two
// observations get zero variance.
func (a *CondMeanVar[D]) Freeze() (mean, variance Table3[D]) {
	mean = NewTable3[D](a.mean.Targets, a.mean.Classes, a.mean.Samples)
	variance = NewTable3[D](a.mean.Targets, a.mean.Classes, a.mean.Samples)
	a.FreezeInto(mean, variance)
	return mean, variance
}

// FreezeInto is the buffer-reusing variant of [CondMeanVar.Freeze].
func (a *CondMeanVar[D]) FreezeInto(mean, variance Table3[D]) {
	if !mean.sameShape(a.mean) || !variance.sameShape(a.varAcc) {
		panic(fmt.Sprintf("condmean: freeze shapes %s/%s, want %s",
			mean.shape(), variance.shape(), a.mean.shape()))
	}

	copy(mean.Data, a.mean.Data)
	copy(variance.Data, a.varAcc.Data)
	a.normalizeVariance(variance)
}

func (a *CondMeanVar[D]) normalizeVariance(variance Table3[D]) {
	for t := 0; t < variance.Targets; t++ {
		for c := 0; c < variance.Classes; c++ {
			row := variance.Row(t, c)
			n := a.counts.At(t, c)
			if n < 2 {
				core.Zero(row)
				continue
			}
			inv := 1 / D(n-1)
			for i := range row {
				row[i] *= inv
			}
		}
	}
}

// FreezeGlobalMeanVar merges all classes of target 0 into one class-agnostic
// (mean, variance, count) estimate per sample position, using the pairwise
// mean/variance combination of Chan et al. The variance is normalized by
// n-1, or zeroed when fewer than two rows were seen.
func (a *CondMeanVar[D]) FreezeGlobalMeanVar() (mean, variance []D, count uint32) {
	samples := a.mean.Samples

	mean = make([]D, samples)
	variance = make([]D, samples)
	copy(mean, a.mean.Row(0, 0))
	copy(variance, a.varAcc.Row(0, 0))
	count = a.counts.At(0, 0)

	for c := 1; c < a.mean.Classes; c++ {
		n1 := count
		n2 := a.counts.At(0, c)
		n := n1 + n2
		if n == 0 {
			continue
		}

		m2Row := a.mean.Row(0, c)
		v2Row := a.varAcc.Row(0, c)
		for i := 0; i < samples; i++ {
			delta := m2Row[i] - mean[i]
			mean[i] += D(n2) * delta / D(n)
			variance[i] += v2Row[i] + D(n1)*D(n2)*delta*delta/D(n)
		}
		count += n2
	}

	if count > 1 {
		inv := 1 / D(count-1)
		for i := range variance {
			variance[i] *= inv
		}
	} else {
		core.Zero(variance)
	}
	return mean, variance, count
}

// FreezeSNR returns, per target and sample position, the across-class
// variance of the running means divided by the mean of the frozen
// within-class variances: an estimate of how strongly the class separates
// the signal at each instant. Requires at least two classes.
func (a *CondMeanVar[D]) FreezeSNR() core.Matrix[D] {
	targets := a.mean.Targets
	classes := a.mean.Classes
	samples := a.mean.Samples

	_, frozenVar := a.Freeze()
	snr := core.NewMatrix[D](targets, samples)
	oC := D(classes)

	for t := 0; t < targets; t++ {
		out := snr.Row(t)
		for i := 0; i < samples; i++ {
			var sum D
			for c := 0; c < classes; c++ {
				sum += a.mean.At(t, c, i)
			}
			classMean := sum / oC

			var across, within D
			for c := 0; c < classes; c++ {
				d := a.mean.At(t, c, i) - classMean
				across += d * d
				within += frozenVar.At(t, c, i)
			}
			out[i] = (across / (oC - 1)) / (within / oC)
		}
	}
	return snr
}

// SamplesPerClass returns a copy of the per-(target, class) observation
// counts.
func (a *CondMeanVar[D]) SamplesPerClass() core.Matrix[uint32] {
	return a.counts.Clone()
}

// DumpState returns deep copies of the three raw accumulator tables, for
// caller-side persistence.
func (a *CondMeanVar[D]) DumpState() (mean, varAcc Table3[D], counts core.Matrix[uint32]) {
	return a.mean.Clone(), a.varAcc.Clone(), a.counts.Clone()
}

// LoadState overwrites the accumulator with previously dumped tables.
func (a *CondMeanVar[D]) LoadState(mean, varAcc Table3[D], counts core.Matrix[uint32]) error {
	if !mean.sameShape(a.mean) || !varAcc.sameShape(a.varAcc) {
		return fmt.Errorf("%w: %s/%s, want %s", ErrShapeMismatch, mean.shape(), varAcc.shape(), a.mean.shape())
	}
	if counts.Rows != a.counts.Rows || counts.Cols != a.counts.Cols {
		return fmt.Errorf("%w: counts %dx%d, want %dx%d",
			ErrShapeMismatch, counts.Rows, counts.Cols, a.counts.Rows, a.counts.Cols)
	}

	copy(a.mean.Data, mean.Data)
	copy(a.varAcc.Data, varAcc.Data)
	copy(a.counts.Data, counts.Data)
	return nil
}

package stats

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Accumulator keeps running first and second moments. Two accumulators can be
// merged, so partial sums computed on separate goroutines reduce into one.
type Accumulator[T constraints.Float] struct {
	n     int64
	sum   T
	sumSq T
}

func (a *Accumulator[T]) Add(v T) {
	a.n++
	a.sum += v
	a.sumSq += v * v
}

func (a *Accumulator[T]) Merge(o Accumulator[T]) {
	a.n += o.n
	a.sum += o.sum
	a.sumSq += o.sumSq
}

func (a *Accumulator[T]) Count() int64 { return a.n }
func (a *Accumulator[T]) Sum() T       { return a.sum }

func (a *Accumulator[T]) Mean() T {
	if a.n == 0 {
		return 0
	}
	return a.sum / T(a.n)
}

// Variance is the population variance of the added samples.
func (a *Accumulator[T]) Variance() T {
	if a.n == 0 {
		return 0
	}
	mean := a.Mean()
	v := a.sumSq/T(a.n) - mean*mean
	if v < 0 {
		return 0
	}
	return v
}

// StdErr is the standard error of the mean.
func (a *Accumulator[T]) StdErr() T {
	if a.n == 0 {
		return 0
	}
	return T(math.Sqrt(float64(a.Variance()) / float64(a.n)))
}

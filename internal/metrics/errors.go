package metrics

import (
	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/stats"
)

// MeanError reports the largest absolute deviation of the running mean from
// a target mean.
type MeanError[T linalg.Float] struct {
	name    string
	target  linalg.Vector[float64]
	moments *RunningMoments[T]
}

func NewMeanError[T linalg.Float](target linalg.Vector[T]) *MeanError[T] {
	return &MeanError[T]{
		name:    "mean_error",
		target:  widen(target),
		moments: NewRunningMoments[T](len(target)),
	}
}

func (m *MeanError[T]) Name() string { return m.name }

func (m *MeanError[T]) Observe(x linalg.Vector[T]) { m.moments.Observe(x) }

func (m *MeanError[T]) Value() float64 {
	if m.moments.Count() == 0 {
		return 0
	}
	return stats.MaxAbsVecDiff(m.moments.Mean(), m.target)
}

func (m *MeanError[T]) Reset() { m.moments.Reset() }

// CovarianceError reports the largest absolute entry of the difference
// between the running covariance and a target covariance.
type CovarianceError[T linalg.Float] struct {
	name    string
	target  linalg.Matrix[float64]
	moments *RunningMoments[T]
}

func NewCovarianceError[T linalg.Float](target linalg.Matrix[T]) *CovarianceError[T] {
	wide := linalg.NewMatrix[float64](len(target))
	for i := range target {
		wide[i] = widen(target[i])
	}
	return &CovarianceError[T]{
		name:    "covariance_error",
		target:  wide,
		moments: NewRunningMoments[T](len(target)),
	}
}

func (c *CovarianceError[T]) Name() string { return c.name }

func (c *CovarianceError[T]) Observe(x linalg.Vector[T]) { c.moments.Observe(x) }

func (c *CovarianceError[T]) Value() float64 {
	if c.moments.Count() == 0 {
		return 0
	}
	return stats.MaxAbsDiff(c.moments.Covariance(), c.target)
}

func (c *CovarianceError[T]) Reset() { c.moments.Reset() }

// Moments exposes the running estimate behind the error.
func (c *CovarianceError[T]) Moments() *RunningMoments[T] { return c.moments }

func widen[T linalg.Float](v linalg.Vector[T]) linalg.Vector[float64] {
	out := make(linalg.Vector[float64], len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

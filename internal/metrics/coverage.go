package metrics

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/mnv/internal/linalg"
)

// Coverage counts the fraction of draws that fall inside the probability-p
// ellipsoid of N(mean, L·Lᵗ). The squared Mahalanobis distance of a normal
// draw is chi-squared with dim degrees of freedom, so Value converges to p.
type Coverage[T linalg.Float] struct {
	name      string
	factor    linalg.Matrix[T]
	mean      linalg.Vector[T]
	threshold float64
	inside    int
	samples   int
}

// NewCoverage takes the lower Cholesky factor of the covariance.
func NewCoverage[T linalg.Float](factor linalg.Matrix[T], mean linalg.Vector[T], p float64) *Coverage[T] {
	chi := distuv.ChiSquared{K: float64(len(mean))}
	return &Coverage[T]{
		name:      "coverage",
		factor:    factor.Clone(),
		mean:      mean.Clone(),
		threshold: chi.Quantile(p),
	}
}

func (c *Coverage[T]) Name() string { return c.name }

func (c *Coverage[T]) Observe(x linalg.Vector[T]) {
	if len(x) != len(c.mean) {
		return
	}
	centered := make(linalg.Vector[T], len(x))
	for i := range x {
		centered[i] = x[i] - c.mean[i]
	}
	y := linalg.SolveLower(c.factor, centered)

	c.samples++
	if float64(linalg.Dot(y, y)) <= c.threshold {
		c.inside++
	}
}

func (c *Coverage[T]) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.inside) / float64(c.samples)
}

func (c *Coverage[T]) Reset() {
	c.inside = 0
	c.samples = 0
}

// Package stats estimates the mean vector and covariance matrix of a sample
// of observation vectors.
package stats

import (
	"math"

	"github.com/san-kum/mnv/internal/linalg"
)

// Mean returns the element-wise average of the observations. The sample must
// be non-empty and every vector must share the first vector's length; an
// empty sample has no dimension and yields an empty vector.
func Mean[T linalg.Float](observations []linalg.Vector[T]) linalg.Vector[T] {
	var result linalg.Vector[T]
	if len(observations) > 0 {
		result = linalg.NewVector[T](len(observations[0]))
	}

	for _, obs := range observations {
		result = linalg.Add(result, obs)
	}

	count := T(len(observations))
	for i := range result {
		result[i] /= count
	}

	return result
}

// Covariance returns the population covariance of the observations: the sum
// of (x[i]-mean[i])*(x[j]-mean[j]) divided by the observation count, with no
// Bessel correction. The result is exactly symmetric.
func Covariance[T linalg.Float](observations []linalg.Vector[T]) linalg.Matrix[T] {
	mean := Mean(observations)
	n := len(mean)
	result := linalg.NewMatrix[T](n)
	count := T(len(observations))

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var sum T
			for _, obs := range observations {
				sum += (obs[i] - mean[i]) * (obs[j] - mean[j])
			}
			sum /= count
			result[i][j] = sum
			result[j][i] = sum
		}
	}

	return result
}

// Correlation scales a covariance matrix to unit diagonal. Entries with a
// zero variance on either side are NaN.
func Correlation[T linalg.Float](cov linalg.Matrix[T]) linalg.Matrix[T] {
	n := len(cov)
	result := linalg.NewMatrix[T](n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			denom := math.Sqrt(float64(cov[i][i]) * float64(cov[j][j]))
			if denom == 0 {
				result[i][j] = T(math.NaN())
				continue
			}
			result[i][j] = T(float64(cov[i][j]) / denom)
		}
	}
	return result
}

// MaxAbsDiff returns the largest |a[i][j]-b[i][j]|.
func MaxAbsDiff[T linalg.Float](a, b linalg.Matrix[T]) float64 {
	worst := 0.0
	for i := range a {
		for j := range a[i] {
			worst = math.Max(worst, math.Abs(float64(a[i][j])-float64(b[i][j])))
		}
	}
	return worst
}

// MaxAbsVecDiff returns the largest |a[i]-b[i]|.
func MaxAbsVecDiff[T linalg.Float](a, b linalg.Vector[T]) float64 {
	worst := 0.0
	for i := range a {
		worst = math.Max(worst, math.Abs(float64(a[i])-float64(b[i])))
	}
	return worst
}

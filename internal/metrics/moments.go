package metrics

import "github.com/san-kum/mnv/internal/linalg"

// RunningMoments tracks the mean and population covariance of a stream of
// vectors with Welford's update, so no draw has to be retained.
type RunningMoments[T linalg.Float] struct {
	count int
	mean  []float64
	m2    [][]float64
	delta []float64
}

func NewRunningMoments[T linalg.Float](dim int) *RunningMoments[T] {
	r := &RunningMoments[T]{}
	r.resize(dim)
	return r
}

func (r *RunningMoments[T]) resize(dim int) {
	r.count = 0
	r.mean = make([]float64, dim)
	r.delta = make([]float64, dim)
	r.m2 = make([][]float64, dim)
	for i := range r.m2 {
		r.m2[i] = make([]float64, dim)
	}
}

// Observe folds x into the estimate. Vectors of the wrong length are ignored.
func (r *RunningMoments[T]) Observe(x linalg.Vector[T]) {
	if len(x) != len(r.mean) {
		return
	}
	r.count++
	n := float64(r.count)

	for i, v := range x {
		r.delta[i] = float64(v) - r.mean[i]
		r.mean[i] += r.delta[i] / n
	}
	for i := range r.mean {
		for j := i; j < len(r.mean); j++ {
			r.m2[i][j] += r.delta[i] * (float64(x[j]) - r.mean[j])
		}
	}
}

func (r *RunningMoments[T]) Count() int { return r.count }

func (r *RunningMoments[T]) Mean() linalg.Vector[float64] {
	return linalg.Vector[float64](r.mean).Clone()
}

// Covariance returns the population covariance of everything observed so
// far. It is exactly symmetric and all zero before the first draw.
func (r *RunningMoments[T]) Covariance() linalg.Matrix[float64] {
	n := len(r.mean)
	cov := linalg.NewMatrix[float64](n)
	if r.count == 0 {
		return cov
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := r.m2[i][j] / float64(r.count)
			cov[i][j] = v
			cov[j][i] = v
		}
	}
	return cov
}

func (r *RunningMoments[T]) Reset() {
	r.resize(len(r.mean))
}

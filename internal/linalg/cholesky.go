package linalg

import "math"

// Cholesky returns the lower-triangular L with L·Lᵗ = m.
//
// m must already be known to be symmetric and positive-definite; nothing is
// re-checked here. Violating that yields NaN or Inf entries, not an error.
// There is no pivoting.
func Cholesky[T Float](m Matrix[T]) Matrix[T] {
	n := len(m)
	l := NewMatrix[T](n)
	if n == 0 {
		return l
	}

	l[0][0] = sqrt(m[0][0])
	for i := 1; i < n; i++ {
		l[i][0] = m[i][0] / l[0][0]
	}

	for j := 1; j < n; j++ {
		for i := j; i < n; i++ {
			if i == j {
				l[i][j] = sqrt(m[i][i] - PartialSumOfSquares(l[i], j))
			} else {
				l[i][j] = (m[i][j] - PartialSumOfProducts(l[i], l[j], j)) / l[j][j]
			}
		}
	}

	return l
}

func sqrt[T Float](x T) T {
	return T(math.Sqrt(float64(x)))
}

package linalg

// Dot returns the sum of a[i]*b[i] over all indices.
func Dot[T Number](a, b Vector[T]) T {
	var sum T
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Add returns the element-wise sum of a and b.
func Add[T Number](a, b Vector[T]) Vector[T] {
	result := make(Vector[T], len(a))
	for i := range a {
		result[i] = a[i] + b[i]
	}
	return result
}

// PartialSumOfProducts sums a[i]*b[i] for i in [0, k).
func PartialSumOfProducts[T Number](a, b Vector[T], k int) T {
	var sum T
	for i := 0; i < k; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// PartialSumOfSquares sums v[i]*v[i] for i in [0, k).
func PartialSumOfSquares[T Number](v Vector[T], k int) T {
	return PartialSumOfProducts(v, v, k)
}

// MulVec returns m·v, one dot product per row.
func MulVec[T Number](m Matrix[T], v Vector[T]) Vector[T] {
	result := make(Vector[T], len(m))
	for i := range m {
		result[i] = Dot(m[i], v)
	}
	return result
}

// MulTransposed returns l·lᵗ. For a Cholesky factor this reconstructs the
// decomposed matrix.
func MulTransposed[T Number](l Matrix[T]) Matrix[T] {
	n := len(l)
	result := NewMatrix[T](n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result[i][j] = Dot(l[i], l[j])
		}
	}
	return result
}

// SolveLower returns y with l·y = b by forward substitution. l must be lower
// triangular with a non-zero diagonal.
func SolveLower[T Float](l Matrix[T], b Vector[T]) Vector[T] {
	y := make(Vector[T], len(b))
	for i := range b {
		y[i] = (b[i] - PartialSumOfProducts(l[i], y, i)) / l[i][i]
	}
	return y
}

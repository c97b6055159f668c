package linalg

// Number is the scalar constraint for primitives and matrix analysis.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Float is the scalar constraint for operations that need a square root.
type Float interface {
	~float32 | ~float64
}

// Vector is an ordered sequence of scalars; index is the dimension.
type Vector[T Number] []T

// Matrix is a square grid stored as row vectors, m[row][col].
type Matrix[T Number] []Vector[T]

func NewVector[T Number](n int) Vector[T] {
	return make(Vector[T], n)
}

// NewMatrix returns a zero-initialized n×n matrix.
func NewMatrix[T Number](n int) Matrix[T] {
	m := make(Matrix[T], n)
	for i := range m {
		m[i] = make(Vector[T], n)
	}
	return m
}

func (v Vector[T]) Clone() Vector[T] {
	c := make(Vector[T], len(v))
	copy(c, v)
	return c
}

func (m Matrix[T]) Clone() Matrix[T] {
	c := make(Matrix[T], len(m))
	for i := range m {
		c[i] = m[i].Clone()
	}
	return c
}

// Dim returns the number of rows.
func (m Matrix[T]) Dim() int { return len(m) }

// IsSquare reports whether every row has len(m) columns.
func (m Matrix[T]) IsSquare() bool {
	for _, row := range m {
		if len(row) != len(m) {
			return false
		}
	}
	return true
}

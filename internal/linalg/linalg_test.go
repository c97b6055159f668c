package linalg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixBySix = Matrix[float64]{
	{5, 4, 3, 2, 4, 2},
	{4, 7, 4, 2, 1, 4},
	{3, 4, 3, 1, 1, 1},
	{2, 2, 1, 3, 1, 2},
	{4, 1, 1, 1, 6, 2},
	{2, 4, 1, 2, 2, 6},
}

var sixBySixFactor = Matrix[float64]{
	{2.236, 0, 0, 0, 0, 0},
	{1.789, 1.949, 0, 0, 0, 0},
	{1.342, 0.821, 0.725, 0, 0, 0},
	{0.894, 0.205, -0.508, 1.378, 0, 0},
	{1.789, -1.129, -0.653, -0.508, 0.918, 0},
	{0.894, 1.231, -1.669, 0.073, 0.803, 0.5},
}

func requireMatrixNear(t *testing.T, want, got Matrix[float64], tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i], len(want[i]))
		for j := range want[i] {
			assert.InDeltaf(t, want[i][j], got[i][j], tol, "entry (%d,%d)", i, j)
		}
	}
}

func TestDot(t *testing.T) {
	assert.Equal(t, 32, Dot(Vector[int]{1, 2, 3}, Vector[int]{4, 5, 6}))

	a := Vector[float64]{1.5, -2, 0.25}
	b := Vector[float64]{4, 0.5, 8}
	assert.Equal(t, Dot(a, b), Dot(b, a))
}

func TestAdd(t *testing.T) {
	assert.Equal(t, Vector[int]{5, 7, 9}, Add(Vector[int]{1, 2, 3}, Vector[int]{4, 5, 6}))

	a := Vector[float64]{0.1, 0.2, 0.3}
	b := Vector[float64]{3, -1, 7}
	assert.Equal(t, Add(a, b), Add(b, a))
}

func TestPartialSums(t *testing.T) {
	v := Vector[int]{4, 5, 6}

	assert.Equal(t, 41, PartialSumOfSquares(v, 2))
	assert.Equal(t, 14, PartialSumOfProducts(Vector[int]{1, 2, 3}, v, 2))
	assert.Equal(t, 0, PartialSumOfSquares(v, 0))
	assert.Equal(t, Dot(v, v), PartialSumOfSquares(v, len(v)))
}

func TestMulVec(t *testing.T) {
	m := Matrix[float64]{
		{-2, 2, 0},
		{2, -2, 0},
		{0, 0, -8},
	}
	assert.Equal(t, Vector[float64]{2, -2, -24}, MulVec(m, Vector[float64]{1, 2, 3}))
}

func TestSolveLower(t *testing.T) {
	l := Matrix[float64]{
		{2, 0, 0},
		{1, 3, 0},
		{-1, 2, 4},
	}
	y := Vector[float64]{1, -2, 0.5}
	b := MulVec(l, y)

	got := SolveLower(l, b)
	for i := range y {
		assert.InDelta(t, y[i], got[i], 1e-12)
	}
}

func TestIsSymmetric(t *testing.T) {
	assert.True(t, IsSymmetric(sixBySix))

	other := sixBySix.Clone()
	other[1][3] = 1
	assert.False(t, IsSymmetric(other))
	assert.True(t, IsSymmetric(sixBySix), "clone must not alias the original")

	assert.True(t, IsSymmetric(Matrix[int]{{7}}))
	assert.True(t, IsSymmetric(Matrix[int]{}))
}

func TestIsSymmetricWithin(t *testing.T) {
	m := Matrix[float64]{
		{1, 0.5},
		{0.5 + 1e-12, 1},
	}
	assert.False(t, IsSymmetric(m))
	assert.False(t, IsSymmetricWithin(m, 0))
	assert.True(t, IsSymmetricWithin(m, 1e-9))
	assert.False(t, IsSymmetricWithin(m, 1e-13))
}

func TestSymmetrize(t *testing.T) {
	m := Matrix[float64]{
		{1, 0.5},
		{0.7, 2},
	}
	got := Symmetrize(m)
	assert.True(t, IsSymmetric(got))
	assert.InDelta(t, 0.6, got[0][1], 1e-12)
	assert.Equal(t, 0.7, m[1][0], "input must not change")
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(sixBySix))
	assert.False(t, IsFinite(Matrix[float64]{{1, 0}, {0, math.NaN()}}))
	assert.False(t, IsFinite(Matrix[float32]{{float32(math.Inf(-1))}}))
	assert.True(t, Vector[float64]{1, -2}.IsFinite())
	assert.False(t, Vector[float64]{math.Inf(1)}.IsFinite())
}

func TestLeadingMinor(t *testing.T) {
	want := []float64{5, 19, 10, 19, 16, 4}
	for i, w := range want {
		assert.InDeltaf(t, w, LeadingMinor(sixBySix, i+1), 1e-9, "order %d", i+1)
	}
	assert.InDeltaSlice(t, want, LeadingMinors(sixBySix), 1e-9)
}

func TestLeadingMinor_Triangular(t *testing.T) {
	m := Matrix[int]{
		{2, 0, 0, 0},
		{7, 3, 0, 0},
		{1, 4, -1, 0},
		{5, 9, 2, 4},
	}
	assert.Equal(t, []int{2, 6, -6, -24}, LeadingMinors(m))
}

func TestLeadingMinor_OutOfRange(t *testing.T) {
	assert.Panics(t, func() { LeadingMinor(sixBySix, 0) })
	assert.Panics(t, func() { LeadingMinor(sixBySix, 7) })
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix[float64]
		want Definition
	}{
		{
			name: "positive definite",
			m:    Matrix[float64]{{2, -1, 2}, {-1, 1, -3}, {2, -3, 11}},
			want: PositiveDefinite,
		},
		{
			name: "negative definite",
			m:    Matrix[float64]{{-2, 1, 0}, {1, -2, 0}, {0, 0, -2}},
			want: NegativeDefinite,
		},
		{
			name: "zero minor",
			m:    Matrix[float64]{{-2, 2, 0}, {2, -2, 0}, {0, 0, -8}},
			want: Undefinite,
		},
		{
			name: "positive then negative",
			m:    Matrix[float64]{{1, 2}, {2, 1}},
			want: Undefinite,
		},
		{
			name: "alternation broken",
			m:    Matrix[float64]{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}},
			want: Undefinite,
		},
		{
			name: "six by six",
			m:    sixBySix,
			want: PositiveDefinite,
		},
		{
			name: "empty",
			m:    Matrix[float64]{},
			want: ZeroDefinite,
		},
		{
			name: "nan",
			m:    Matrix[float64]{{math.NaN()}},
			want: ZeroDefinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.m))
		})
	}
}

func TestDefinition_String(t *testing.T) {
	assert.Equal(t, "positive-definite", PositiveDefinite.String())
	assert.Equal(t, "unknown", Definition(42).String())
}

func TestCholesky(t *testing.T) {
	requireMatrixNear(t, sixBySixFactor, Cholesky(sixBySix), 1e-3)
}

func TestCholesky_Reproduces(t *testing.T) {
	l := Matrix[float64]{
		{1.5, 0, 0, 0},
		{-0.3, 2, 0, 0},
		{0.7, 0.1, 0.9, 0},
		{2.2, -1.4, 0.35, 1.1},
	}
	m := MulTransposed(l)
	require.True(t, IsSymmetric(m))
	require.Equal(t, PositiveDefinite, Classify(m))

	got := Cholesky(m)
	requireMatrixNear(t, l, got, 1e-9)
	requireMatrixNear(t, m, MulTransposed(got), 1e-9)
}

func TestCholesky_UpperTriangleZero(t *testing.T) {
	got := Cholesky(sixBySix)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			assert.Zerof(t, got[i][j], "entry (%d,%d)", i, j)
		}
	}
}

func TestCholesky_Float32(t *testing.T) {
	m := Matrix[float32]{{4, 2}, {2, 5}}
	got := Cholesky(m)
	assert.InDelta(t, 2, got[0][0], 1e-6)
	assert.InDelta(t, 1, got[1][0], 1e-6)
	assert.InDelta(t, 2, got[1][1], 1e-6)
}

func TestCholesky_NotPositiveDefinite(t *testing.T) {
	got := Cholesky(Matrix[float64]{{-1, 0}, {0, 1}})
	assert.True(t, math.IsNaN(got[0][0]))
}

func TestMatrix_IsSquare(t *testing.T) {
	assert.True(t, sixBySix.IsSquare())
	assert.False(t, Matrix[int]{{1, 2}, {3}}.IsSquare())
	assert.False(t, Matrix[int]{{1, 2}}.IsSquare())
}

func BenchmarkLeadingMinor6(b *testing.B) {
	for i := 0; i < b.N; i++ {
		LeadingMinor(sixBySix, 6)
	}
}

func BenchmarkCholesky6(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Cholesky(sixBySix)
	}
}

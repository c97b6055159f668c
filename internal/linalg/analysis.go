package linalg

import (
	"fmt"
	"math"
)

// Definition is the definiteness of a square matrix as read from the signs
// of its leading principal minors.
type Definition int

const (
	// ZeroDefinite is the starting state of the fold; it survives only when
	// no minor carried a sign (e.g. an empty matrix or NaN entries).
	ZeroDefinite Definition = iota
	PositiveDefinite
	NegativeDefinite
	Undefinite
)

func (d Definition) String() string {
	switch d {
	case ZeroDefinite:
		return "zero-definite"
	case PositiveDefinite:
		return "positive-definite"
	case NegativeDefinite:
		return "negative-definite"
	case Undefinite:
		return "undefinite"
	default:
		return "unknown"
	}
}

// IsSymmetric reports whether m[i][j] == m[j][i] for every off-diagonal pair.
// Comparison is exact.
func IsSymmetric[T Number](m Matrix[T]) bool {
	n := len(m)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m[i][j] != m[j][i] {
				return false
			}
		}
	}
	return true
}

// IsSymmetricWithin is IsSymmetric with an absolute tolerance. A tol of 0
// behaves exactly like IsSymmetric.
func IsSymmetricWithin[T Number](m Matrix[T], tol float64) bool {
	if tol <= 0 {
		return IsSymmetric(m)
	}
	n := len(m)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(float64(m[i][j])-float64(m[j][i])) > tol {
				return false
			}
		}
	}
	return true
}

// Symmetrize returns a copy of m with every mirrored pair replaced by its
// average.
func Symmetrize[T Float](m Matrix[T]) Matrix[T] {
	out := m.Clone()
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			avg := (m[i][j] + m[j][i]) / 2
			out[i][j] = avg
			out[j][i] = avg
		}
	}
	return out
}

// IsFinite reports whether no entry of m is NaN or infinite. Classify needs
// finite input; a NaN minor matches none of its cases.
func IsFinite[T Float](m Matrix[T]) bool {
	for _, row := range m {
		if !row.IsFinite() {
			return false
		}
	}
	return true
}

// IsFinite reports whether no component of v is NaN or infinite.
func (v Vector[T]) IsFinite() bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// minorScratch holds one reusable buffer per logical order so the cofactor
// recursion never allocates. buf[k] is only written by the level computing a
// minor of order k+1, so a parent's buffer is never clobbered by its children.
type minorScratch[T Number] struct {
	buf []Matrix[T]
}

func newMinorScratch[T Number](order int) *minorScratch[T] {
	s := &minorScratch[T]{buf: make([]Matrix[T], order)}
	for k := 2; k < order; k++ {
		s.buf[k] = NewMatrix[T](k)
	}
	return s
}

func (s *minorScratch[T]) minor(m Matrix[T], order int) T {
	if order == 1 {
		return m[0][0]
	}
	if order == 2 {
		return m[0][0]*m[1][1] - m[1][0]*m[0][1]
	}

	var sum T
	sub := s.buf[order-1]
	// Laplace expansion along column 0.
	for row := 0; row < order; row++ {
		for i := 0; i < order-1; i++ {
			src := i
			if i >= row {
				src++
			}
			for j := 0; j < order-1; j++ {
				sub[i][j] = m[src][j+1]
			}
		}
		term := m[row][0] * s.minor(sub, order-1)
		if row&1 == 1 {
			sum -= term
		} else {
			sum += term
		}
	}
	return sum
}

// LeadingMinor returns the determinant of the top-left order×order block of m.
// It panics when order is outside [1, len(m)].
func LeadingMinor[T Number](m Matrix[T], order int) T {
	if order < 1 || order > len(m) {
		panic(fmt.Sprintf("linalg: minor order %d out of range [1, %d]", order, len(m)))
	}
	return newMinorScratch[T](order).minor(m, order)
}

// LeadingMinors returns the leading principal minors of orders 1..len(m).
func LeadingMinors[T Number](m Matrix[T]) []T {
	n := len(m)
	minors := make([]T, n)
	if n == 0 {
		return minors
	}
	s := newMinorScratch[T](n)
	for order := 1; order <= n; order++ {
		minors[order-1] = s.minor(m, order)
	}
	return minors
}

// Classify applies Sylvester's criterion to the leading minors of m.
//
// All positive minors give PositiveDefinite, strictly alternating minors
// starting negative give NegativeDefinite. A zero minor or any other sign
// pattern gives Undefinite and stops the scan.
func Classify[T Number](m Matrix[T]) Definition {
	n := len(m)
	if n == 0 {
		return ZeroDefinite
	}

	s := newMinorScratch[T](n)
	result := ZeroDefinite
	lastNegative := false

	for order := 1; order <= n; order++ {
		minor := s.minor(m, order)

		switch {
		case minor > 0:
			switch result {
			case ZeroDefinite:
				result = PositiveDefinite
			case NegativeDefinite:
				if lastNegative {
					lastNegative = false
				} else {
					result = Undefinite
				}
			}
		case minor < 0:
			switch result {
			case ZeroDefinite:
				result = NegativeDefinite
				lastNegative = true
			case NegativeDefinite:
				if !lastNegative {
					lastNegative = true
				} else {
					result = Undefinite
				}
			case PositiveDefinite:
				result = Undefinite
			}
		case minor == 0:
			return Undefinite
		}

		if result == Undefinite {
			return Undefinite
		}
	}

	return result
}

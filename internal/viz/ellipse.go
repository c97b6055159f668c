package viz

import (
	"math"

	"github.com/san-kum/mnv/internal/linalg"
)

// Point is a position in data coordinates.
type Point struct{ X, Y float64 }

// CoverageEllipse traces the boundary of the region holding probability p
// of the bivariate normal with mean (mx, my) and 2x2 covariance sub. The
// squared Mahalanobis radius of that region is -2·ln(1-p). The returned
// polygon has segments+1 points; the first and last coincide.
func CoverageEllipse(mx, my float64, sub linalg.Matrix[float64], p float64, segments int) []Point {
	l := linalg.Cholesky(sub)
	r := math.Sqrt(-2 * math.Log(1-p))

	pts := make([]Point, 0, segments+1)
	for k := 0; k <= segments; k++ {
		theta := 2 * math.Pi * float64(k) / float64(segments)
		e := linalg.MulVec(l, linalg.Vector[float64]{r * math.Cos(theta), r * math.Sin(theta)})
		pts = append(pts, Point{X: mx + e[0], Y: my + e[1]})
	}
	return pts
}

// SubCovariance extracts the 2x2 covariance of coordinates i and j.
func SubCovariance[T linalg.Float](cov linalg.Matrix[T], i, j int) linalg.Matrix[float64] {
	return linalg.Matrix[float64]{
		{float64(cov[i][i]), float64(cov[i][j])},
		{float64(cov[j][i]), float64(cov[j][j])},
	}
}

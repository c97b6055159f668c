// Package report explains why a covariance matrix is or is not accepted by
// the generator, and checks a finished sample against its target.
//
// The generator's own classification is reproduced exactly; gonum supplies
// independent eigenvalues, condition number and Cholesky factor to compare
// against.
package report

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/stats"
)

var ErrNotSquare = errors.New("report: matrix must be non-empty and square")

type Report struct {
	Dim        int
	Finite     bool
	Symmetric  bool
	Minors     []float64
	Definition linalg.Definition

	// Eigenvalues are ascending. Nil when the matrix is not symmetric.
	Eigenvalues []float64
	Condition   float64

	// Factor and the residuals below are set only for accepted matrices.
	Factor         linalg.Matrix[float64]
	FactorResidual float64
	GonumAgreement float64
}

// Accepted reports whether the generator would build from this matrix.
func (r *Report) Accepted() bool {
	return r.Finite && r.Symmetric && r.Definition == linalg.PositiveDefinite
}

// Analyze runs the generator's checks on cov in its own precision and
// cross-checks the outcome with gonum. symmetryTol has the meaning of
// mnv.WithSymmetryTolerance: within it, cov is symmetrized before the
// remaining checks.
func Analyze[T linalg.Float](cov linalg.Matrix[T], symmetryTol float64) (*Report, error) {
	n := len(cov)
	if n == 0 || !cov.IsSquare() {
		return nil, ErrNotSquare
	}

	symmetric := linalg.IsSymmetricWithin(cov, symmetryTol)
	if symmetric && symmetryTol > 0 {
		cov = linalg.Symmetrize(cov)
	}

	r := &Report{
		Dim:            n,
		Finite:         linalg.IsFinite(cov),
		Symmetric:      symmetric,
		Definition:     linalg.Classify(cov),
		FactorResidual: math.NaN(),
		GonumAgreement: math.NaN(),
	}
	for _, m := range linalg.LeadingMinors(cov) {
		r.Minors = append(r.Minors, float64(m))
	}

	if !r.Finite {
		r.Condition = math.Inf(1)
		return r, nil
	}

	wide := widen(cov)
	r.Condition = mat.Cond(dense(wide), 2)

	if !r.Symmetric {
		return r, nil
	}

	sym := symDense(wide)
	var eig mat.EigenSym
	if eig.Factorize(sym, false) {
		r.Eigenvalues = eig.Values(nil)
	}

	if !r.Accepted() {
		return r, nil
	}

	r.Factor = widen(linalg.Cholesky(cov))
	r.FactorResidual = stats.MaxAbsDiff(linalg.MulTransposed(r.Factor), wide)

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		l := mat.NewTriDense(n, mat.Lower, nil)
		chol.LTo(l)
		worst := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				worst = math.Max(worst, math.Abs(l.At(i, j)-r.Factor[i][j]))
			}
		}
		r.GonumAgreement = worst
	}

	return r, nil
}

// Verification compares the statistics of a sample with the distribution it
// was drawn from. All deviations are max-abs over entries.
type Verification struct {
	Samples         int
	Mean            linalg.Vector[float64]
	Covariance      linalg.Matrix[float64]
	Correlation     linalg.Matrix[float64]
	MeanError       float64
	CovarianceError float64

	// GonumDeviation is the distance between our population covariance and
	// gonum's, rescaled from its unbiased estimate.
	GonumDeviation float64
}

func Verify[T linalg.Float](cov linalg.Matrix[T], mean linalg.Vector[T], draws []linalg.Vector[T]) (*Verification, error) {
	if len(draws) < 2 {
		return nil, fmt.Errorf("verify needs at least 2 draws, got %d", len(draws))
	}
	n := len(mean)
	if len(cov) != n {
		return nil, fmt.Errorf("covariance is %dx%d but mean has %d components", len(cov), len(cov), n)
	}
	rows := make([]linalg.Vector[float64], len(draws))
	for i, d := range draws {
		if len(d) != n {
			return nil, fmt.Errorf("draw %d has %d components, expected %d", i, len(d), n)
		}
		rows[i] = widenVec(d)
	}

	v := &Verification{
		Samples:    len(draws),
		Mean:       stats.Mean(rows),
		Covariance: stats.Covariance(rows),
	}
	v.Correlation = stats.Correlation(v.Covariance)
	v.MeanError = stats.MaxAbsVecDiff(v.Mean, widenVec(mean))
	v.CovarianceError = stats.MaxAbsDiff(v.Covariance, widen(cov))

	x := mat.NewDense(len(rows), n, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	var unbiased mat.SymDense
	stat.CovarianceMatrix(&unbiased, x, nil)
	unbiased.ScaleSym(float64(len(rows)-1)/float64(len(rows)), &unbiased)

	worst := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			worst = math.Max(worst, math.Abs(unbiased.At(i, j)-v.Covariance[i][j]))
		}
	}
	v.GonumDeviation = worst

	return v, nil
}

func widen[T linalg.Float](m linalg.Matrix[T]) linalg.Matrix[float64] {
	out := make(linalg.Matrix[float64], len(m))
	for i, row := range m {
		out[i] = widenVec(row)
	}
	return out
}

func widenVec[T linalg.Float](v linalg.Vector[T]) linalg.Vector[float64] {
	out := make(linalg.Vector[float64], len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func dense(m linalg.Matrix[float64]) *mat.Dense {
	d := mat.NewDense(len(m), len(m), nil)
	for i, row := range m {
		d.SetRow(i, row)
	}
	return d
}

// symDense reads the upper triangle only.
func symDense(m linalg.Matrix[float64]) *mat.SymDense {
	n := len(m)
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, m[i][j])
		}
	}
	return s
}

package mnv

import (
	"log/slog"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/stats"
)

// pcgStream is the fixed second PCG word; the user seed selects the state.
const pcgStream = 0x9e3779b97f4a7c15

// Generator draws correlated normal vectors. The factor and mean never change
// after Build; only the random stream advances.
type Generator[T linalg.Float] struct {
	factor linalg.Matrix[T]
	mean   linalg.Vector[T]
	seed   uint64

	src    *rand.PCG
	normal distuv.Normal
}

func newGenerator[T linalg.Float](factor linalg.Matrix[T], mean linalg.Vector[T], seed uint64) *Generator[T] {
	src := rand.NewPCG(seed, pcgStream)
	return &Generator[T]{
		factor: factor,
		mean:   mean,
		seed:   seed,
		src:    src,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Build validates covariance and returns a generator for N(mean, covariance).
//
// Every entry must be finite. The covariance must be square with len(mean) rows, symmetric (exactly,
// unless WithSymmetryTolerance is given) and positive-definite by Sylvester's
// criterion. Inputs are copied.
func Build[T linalg.Float](covariance linalg.Matrix[T], mean linalg.Vector[T], seed uint64, opts ...Option) (*Generator[T], error) {
	o := newOptions(opts)
	n := len(covariance)

	if n == 0 || !covariance.IsSquare() {
		return nil, o.fail(newBuildError(DimensionMismatch,
			"covariance must be a non-empty square matrix"))
	}
	if len(mean) != n {
		return nil, o.fail(newBuildError(DimensionMismatch,
			"mean has %d components, covariance is %dx%d", len(mean), n, n))
	}

	if !linalg.IsFinite(covariance) || !mean.IsFinite() {
		return nil, o.fail(newBuildError(CovarianceNotPositiveDefinite,
			"covariance and mean must not contain NaN or infinite entries"))
	}

	if !linalg.IsSymmetricWithin(covariance, o.symmetryTol) {
		return nil, o.fail(newBuildError(CovarianceNotSymmetric,
			"the supplied matrix cannot be a covariance matrix; provide a symmetric one"))
	}
	if o.symmetryTol > 0 {
		covariance = linalg.Symmetrize(covariance)
	}

	def := linalg.Classify(covariance)
	if def != linalg.PositiveDefinite {
		return nil, o.fail(newBuildError(CovarianceNotPositiveDefinite,
			"matrix is %s; it may be the wrong matrix or too few samples were used to estimate it", def))
	}

	gen := newGenerator(linalg.Cholesky(covariance), mean.Clone(), seed)
	o.logger.Debug("generator built", "dim", n, "seed", seed)
	return gen, nil
}

// BuildFromObservations estimates the mean and population covariance of the
// observations and delegates to Build. Too few or linearly dependent
// observations surface as ErrNotPositiveDefinite.
func BuildFromObservations[T linalg.Float](observations []linalg.Vector[T], seed uint64, opts ...Option) (*Generator[T], error) {
	if len(observations) == 0 {
		return nil, newOptions(opts).fail(newBuildError(EmptySample, "at least one observation is required"))
	}

	n := len(observations[0])
	for i, obs := range observations {
		if len(obs) != n {
			return nil, newOptions(opts).fail(newBuildError(DimensionMismatch,
				"observation %d has %d components, expected %d", i, len(obs), n))
		}
	}

	return Build(stats.Covariance(observations), stats.Mean(observations), seed, opts...)
}

// Draw returns one sample: factor·z + mean with z standard normal.
func (g *Generator[T]) Draw() linalg.Vector[T] {
	z := linalg.NewVector[T](len(g.mean))
	for i := range z {
		z[i] = T(g.normal.Rand())
	}
	return linalg.Add(linalg.MulVec(g.factor, z), g.mean)
}

// Reseed restarts the random stream from seed. The distribution is unchanged.
func (g *Generator[T]) Reseed(seed uint64) {
	g.seed = seed
	g.src.Seed(seed, pcgStream)
}

// Dim returns the dimension of the drawn vectors.
func (g *Generator[T]) Dim() int { return len(g.mean) }

// Seed returns the seed the current stream was started from.
func (g *Generator[T]) Seed() uint64 { return g.seed }

// Mean returns a copy of the mean vector.
func (g *Generator[T]) Mean() linalg.Vector[T] { return g.mean.Clone() }

// Factor returns a copy of the lower-triangular Cholesky factor.
func (g *Generator[T]) Factor() linalg.Matrix[T] { return g.factor.Clone() }

// Covariance reconstructs factor·factorᵗ.
func (g *Generator[T]) Covariance() linalg.Matrix[T] { return linalg.MulTransposed(g.factor) }

func (o *buildOptions) fail(err *BuildError) error {
	o.logger.Debug("generator build rejected", slog.String("kind", err.Kind.String()), slog.String("message", err.Message))
	return err
}

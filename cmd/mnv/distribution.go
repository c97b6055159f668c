package main

import (
	"github.com/san-kum/mnv/internal/config"
	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/mnv"
	"github.com/san-kum/mnv/internal/stats"
)

// distribution is a validated config converted to one precision. cov and
// mean are the sampling target; for observation configs they are the
// estimates every generator is built from.
type distribution[T linalg.Float] struct {
	cov  linalg.Matrix[T]
	mean linalg.Vector[T]
	obs  []linalg.Vector[T]
	opts []mnv.Option
}

func newDistribution[T linalg.Float](cfg *config.Config) distribution[T] {
	d := distribution[T]{
		opts: []mnv.Option{
			mnv.WithSymmetryTolerance(cfg.SymmetryTolerance),
			mnv.WithLogger(logger),
		},
	}
	if cfg.FromObservations() {
		d.obs = config.ObservationVectors[T](cfg)
		d.cov, d.mean = stats.Covariance(d.obs), stats.Mean(d.obs)
	} else {
		d.cov, d.mean = config.CovarianceMatrix[T](cfg), config.MeanVector[T](cfg)
	}
	return d
}

func (d distribution[T]) build(seed uint64) (*mnv.Generator[T], error) {
	if d.obs != nil {
		return mnv.BuildFromObservations(d.obs, seed, d.opts...)
	}
	return mnv.Build(d.cov, d.mean, seed, d.opts...)
}

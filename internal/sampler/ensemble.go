package sampler

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/mnv"
)

// BuildFunc constructs the generator for one ensemble member.
type BuildFunc[T linalg.Float] func(seed uint64) (*mnv.Generator[T], error)

// Ensemble runs independently seeded generators in parallel. Member i is
// seeded with seedStart+i and owned by a single goroutine.
type Ensemble[T linalg.Float] struct {
	build      BuildFunc[T]
	numRuns    int
	seedStart  uint64
	limit      int
	newMetrics func() []Metric[T]
}

func NewEnsemble[T linalg.Float](build BuildFunc[T], numRuns int, seedStart uint64) *Ensemble[T] {
	return &Ensemble[T]{build: build, numRuns: numRuns, seedStart: seedStart, limit: -1}
}

// WithMetrics gives every member its own metric set from fn.
func (e *Ensemble[T]) WithMetrics(fn func() []Metric[T]) *Ensemble[T] {
	e.newMetrics = fn
	return e
}

// SetLimit bounds the number of members drawing at once. n < 0 means no limit.
func (e *Ensemble[T]) SetLimit(n int) *Ensemble[T] {
	e.limit = n
	return e
}

// Run draws n vectors per member. The first failure cancels the others.
func (e *Ensemble[T]) Run(ctx context.Context, n int) ([]*Result[T], error) {
	if e.numRuns <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}

	results := make([]*Result[T], e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			seed := e.seedStart + uint64(i)
			gen, err := e.build(seed)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}

			s := New[T](gen)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, n)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i, seed, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

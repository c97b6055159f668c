package sampler

import (
	"context"
	"fmt"

	"github.com/san-kum/mnv/internal/linalg"
)

// Source is anything that yields vectors of a fixed dimension, typically a
// *mnv.Generator.
type Source[T linalg.Float] interface {
	Draw() linalg.Vector[T]
	Dim() int
}

// Sampler draws from one source and feeds every draw to its metrics and
// observers. It is not safe for concurrent use; the source isn't either.
type Sampler[T linalg.Float] struct {
	src       Source[T]
	metrics   []Metric[T]
	observers []Observer[T]
	discard   bool
}

type seeded interface {
	Seed() uint64
}

// New wraps src. When src reports its seed, results are tagged with it.
func New[T linalg.Float](src Source[T]) *Sampler[T] {
	return &Sampler[T]{
		src:       src,
		metrics:   make([]Metric[T], 0),
		observers: make([]Observer[T], 0),
	}
}

func (s *Sampler[T]) AddMetric(m Metric[T])     { s.metrics = append(s.metrics, m) }
func (s *Sampler[T]) AddObserver(o Observer[T]) { s.observers = append(s.observers, o) }

// Discard stops Run from retaining draws; metrics and observers still see them.
func (s *Sampler[T]) Discard() { s.discard = true }

// Run draws n vectors. On cancellation it returns the partial result along
// with ctx.Err().
func (s *Sampler[T]) Run(ctx context.Context, n int) (*Result[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", n)
	}

	result := &Result[T]{Metrics: make(map[string]float64)}
	if sd, ok := s.src.(seeded); ok {
		result.Seed = sd.Seed()
	}
	if !s.discard {
		result.Draws = make([]linalg.Vector[T], 0, n)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		x := s.src.Draw()
		for _, m := range s.metrics {
			m.Observe(x)
		}
		for _, obs := range s.observers {
			obs.OnDraw(i, x)
		}
		if !s.discard {
			result.Draws = append(result.Draws, x)
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Sampler[T]) collect(result *Result[T]) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Sample draws n vectors from src, notifying observers of each one.
func Sample[T linalg.Float](ctx context.Context, src Source[T], n int, observers ...Observer[T]) ([]linalg.Vector[T], error) {
	s := New(src)
	for _, o := range observers {
		s.AddObserver(o)
	}
	result, err := s.Run(ctx, n)
	if result == nil {
		return nil, err
	}
	return result.Draws, err
}

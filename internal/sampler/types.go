package sampler

import "github.com/san-kum/mnv/internal/linalg"

// Metric accumulates a scalar summary over the draws of one run.
type Metric[T linalg.Float] interface {
	Name() string
	Observe(x linalg.Vector[T])
	Value() float64
	Reset()
}

// Observer is notified of every draw in order. step counts from zero.
type Observer[T linalg.Float] interface {
	OnDraw(step int, x linalg.Vector[T])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[T linalg.Float] func(step int, x linalg.Vector[T])

func (f ObserverFunc[T]) OnDraw(step int, x linalg.Vector[T]) { f(step, x) }

type Result[T linalg.Float] struct {
	Seed    uint64
	Draws   []linalg.Vector[T]
	Metrics map[string]float64
}

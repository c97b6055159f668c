package mnv

import "log/slog"

type buildOptions struct {
	symmetryTol float64
	logger      *slog.Logger
}

// Option configures Build and BuildFromObservations.
type Option func(*buildOptions)

// WithSymmetryTolerance accepts |m[i][j]-m[j][i]| <= tol as symmetric and
// averages the mirrored pairs before factoring. The default, 0, requires
// exact equality.
func WithSymmetryTolerance(tol float64) Option {
	return func(o *buildOptions) {
		if tol > 0 {
			o.symmetryTol = tol
		}
	}
}

// WithLogger routes build diagnostics to l at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *buildOptions {
	o := &buildOptions{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

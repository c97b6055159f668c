// Package mnv generates pseudo-random vectors from a multivariate normal
// distribution.
//
// A [Generator] can only be obtained from [Build] or [BuildFromObservations],
// both of which validate the covariance matrix first:
//
//  1. the matrix must be symmetric,
//  2. its leading principal minors must all be positive,
//
// and only then factor it with Cholesky. Every live generator therefore holds
// a valid factor.
//
// # Example
//
//	gen, err := mnv.Build(cov, mean, 42)
//	if errors.Is(err, mnv.ErrNotPositiveDefinite) {
//		// supply a valid matrix or more samples
//	}
//	x := gen.Draw()
//
// # Thread Safety
//
// Generator instances are NOT safe for concurrent use: Draw and Reseed advance
// the internal random stream. Give each goroutine its own generator (see the
// sampler package) or guard a shared one with a mutex.
//
// # Error messages
//
// Build errors carry a human-readable message. Building with the
// mnv_nomessages tag drops the message text and leaves only the kind.
package mnv

// Package linalg provides the small-dimension linear algebra behind the
// multivariate normal generator.
//
// The package covers three concerns:
//
//   - primitives: [Dot], [Add], [PartialSumOfSquares], [PartialSumOfProducts], [MulVec]
//   - analysis: [IsSymmetric], [LeadingMinor], [Classify]
//   - factorization: [Cholesky]
//
// Vectors and matrices are plain slices. A [Matrix] is row-major and square;
// callers are expected to pass well-formed inputs, mismatched lengths are a
// programmer error and panic with an index error.
//
// # Complexity
//
// [LeadingMinor] uses recursive cofactor expansion and is exponential in the
// order. It is meant for dimensions in the single or low double digits.
package linalg

package mnv

import "fmt"

// BuildErrorKind tags why a generator could not be built.
type BuildErrorKind int

const (
	CovarianceNotSymmetric BuildErrorKind = iota + 1
	CovarianceNotPositiveDefinite
	// DimensionMismatch covers a non-square or empty covariance, a mean of
	// the wrong length and ragged observation vectors.
	DimensionMismatch
	// EmptySample is returned when no observations were supplied.
	EmptySample
)

func (k BuildErrorKind) String() string {
	switch k {
	case CovarianceNotSymmetric:
		return "covariance matrix is not symmetric"
	case CovarianceNotPositiveDefinite:
		return "covariance matrix is not positive-definite"
	case DimensionMismatch:
		return "dimension mismatch"
	case EmptySample:
		return "empty sample"
	default:
		return "unknown build error"
	}
}

// BuildError is returned by Build and BuildFromObservations. Match it with
// errors.Is against the sentinels below, or errors.As to read the Kind.
type BuildError struct {
	Kind    BuildErrorKind
	Message string
}

// Domain errors for generator construction. They compare by Kind only.
var (
	ErrNotSymmetric        = &BuildError{Kind: CovarianceNotSymmetric}
	ErrNotPositiveDefinite = &BuildError{Kind: CovarianceNotPositiveDefinite}
	ErrDimensionMismatch   = &BuildError{Kind: DimensionMismatch}
	ErrEmptySample         = &BuildError{Kind: EmptySample}
)

func (e *BuildError) Error() string {
	if e.Message == "" {
		return "mnv: " + e.Kind.String()
	}
	return fmt.Sprintf("mnv: %s: %s", e.Kind, e.Message)
}

func (e *BuildError) Is(target error) bool {
	t, ok := target.(*BuildError)
	return ok && t.Kind == e.Kind
}

func newBuildError(kind BuildErrorKind, format string, args ...any) *BuildError {
	err := &BuildError{Kind: kind}
	if includeMessages {
		err.Message = fmt.Sprintf(format, args...)
	}
	return err
}

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mnv/internal/linalg"
)

const (
	DefaultSamples   = 10000
	DefaultRuns      = 1
	DefaultPrecision = PrecisionFloat64

	PrecisionFloat32 = "float32"
	PrecisionFloat64 = "float64"
)

var (
	// ErrNoDistribution is returned when neither a covariance nor observations are given.
	ErrNoDistribution = errors.New("config: covariance or observations required")

	// ErrAmbiguousDistribution is returned when both a covariance and observations are given.
	ErrAmbiguousDistribution = errors.New("config: covariance and observations are mutually exclusive")
)

// Config describes a distribution and how to sample it. The distribution is
// either an explicit covariance (with an optional mean, zero by default) or a
// set of observation vectors to estimate both from.
type Config struct {
	Name              string      `yaml:"name"`
	Seed              uint64      `yaml:"seed"`
	Samples           int         `yaml:"samples"`
	Runs              int         `yaml:"runs"`
	Precision         string      `yaml:"precision"`
	SymmetryTolerance float64     `yaml:"symmetry_tolerance,omitempty"`
	Covariance        [][]float64 `yaml:"covariance,omitempty"`
	Mean              []float64   `yaml:"mean,omitempty"`
	Observations      [][]float64 `yaml:"observations,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:      "custom",
		Samples:   DefaultSamples,
		Runs:      DefaultRuns,
		Precision: DefaultPrecision,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that do not depend on the matrix contents.
// Symmetry and definiteness are left to the generator.
func (c *Config) Validate() error {
	if c.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", c.Samples)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	if c.Precision != PrecisionFloat32 && c.Precision != PrecisionFloat64 {
		return fmt.Errorf("precision must be %s or %s, got %q", PrecisionFloat32, PrecisionFloat64, c.Precision)
	}
	if c.SymmetryTolerance < 0 {
		return fmt.Errorf("symmetry_tolerance must not be negative, got %g", c.SymmetryTolerance)
	}

	hasCov, hasObs := len(c.Covariance) > 0, len(c.Observations) > 0
	switch {
	case hasCov && hasObs:
		return ErrAmbiguousDistribution
	case !hasCov && !hasObs:
		return ErrNoDistribution
	case hasObs && len(c.Mean) > 0:
		return fmt.Errorf("mean is estimated from observations and must not be set")
	}
	return c.validateShape()
}

// validateShape rejects ragged input early so estimation never sees it.
func (c *Config) validateShape() error {
	if c.FromObservations() {
		n := len(c.Observations[0])
		for i, obs := range c.Observations {
			if len(obs) != n || n == 0 {
				return fmt.Errorf("observation %d has %d values, expected %d", i, len(obs), n)
			}
		}
		return nil
	}

	n := len(c.Covariance)
	for i, row := range c.Covariance {
		if len(row) != n {
			return fmt.Errorf("covariance row %d has %d values, expected %d", i, len(row), n)
		}
	}
	if len(c.Mean) > 0 && len(c.Mean) != n {
		return fmt.Errorf("mean has %d values, covariance is %dx%d", len(c.Mean), n, n)
	}
	return nil
}

// FromObservations reports whether the distribution is estimated.
func (c *Config) FromObservations() bool { return len(c.Observations) > 0 }

// Dim is the dimension of the configured distribution.
func (c *Config) Dim() int {
	if c.FromObservations() {
		return len(c.Observations[0])
	}
	return len(c.Covariance)
}

// CovarianceMatrix converts the covariance to T.
func CovarianceMatrix[T linalg.Float](c *Config) linalg.Matrix[T] {
	m := make(linalg.Matrix[T], len(c.Covariance))
	for i, row := range c.Covariance {
		m[i] = vector[T](row)
	}
	return m
}

// MeanVector converts the mean to T; an unset mean is the zero vector.
func MeanVector[T linalg.Float](c *Config) linalg.Vector[T] {
	if len(c.Mean) == 0 {
		return linalg.NewVector[T](len(c.Covariance))
	}
	return vector[T](c.Mean)
}

func ObservationVectors[T linalg.Float](c *Config) []linalg.Vector[T] {
	out := make([]linalg.Vector[T], len(c.Observations))
	for i, obs := range c.Observations {
		out[i] = vector[T](obs)
	}
	return out
}

func vector[T linalg.Float](values []float64) linalg.Vector[T] {
	v := make(linalg.Vector[T], len(values))
	for i, x := range values {
		v[i] = T(x)
	}
	return v
}

package mnv_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/mnv"
	"github.com/san-kum/mnv/internal/stats"
)

var (
	posDef = linalg.Matrix[float64]{
		{2, -1, 2},
		{-1, 1, -3},
		{2, -3, 11},
	}
	negDef = linalg.Matrix[float64]{
		{-2, 1, 0},
		{1, -2, 0},
		{0, 0, -2},
	}
	undef = linalg.Matrix[float64]{
		{-2, 2, 0},
		{2, -2, 0},
		{0, 0, -8},
	}
	asymmetric = linalg.Matrix[float64]{
		{-2, 2, 1},
		{2, -2, 0},
		{0, 0, -8},
	}
	unitMean = linalg.Vector[float64]{1, 1, 1}

	observations = []linalg.Vector[float64]{
		{75, 10.5, 45},
		{65, 12.8, 65},
		{22, 7.3, 74},
		{15, 2.1, 76},
		{18, 9.2, 56},
	}
)

func drawN(gen *mnv.Generator[float64], n int) []linalg.Vector[float64] {
	out := make([]linalg.Vector[float64], n)
	for i := range out {
		out[i] = gen.Draw()
	}
	return out
}

var _ = Describe("Build", func() {
	DescribeTable("rejects invalid covariance matrices",
		func(cov linalg.Matrix[float64], want error) {
			gen, err := mnv.Build(cov, unitMean, 0)
			Expect(gen).To(BeNil())
			Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
		},
		Entry("negative-definite", negDef, mnv.ErrNotPositiveDefinite),
		Entry("zero leading minor", undef, mnv.ErrNotPositiveDefinite),
		Entry("asymmetric", asymmetric, mnv.ErrNotSymmetric),
		Entry("indefinite", linalg.Matrix[float64]{{1, 2, 0}, {2, 1, 0}, {0, 0, 1}}, mnv.ErrNotPositiveDefinite),
	)

	DescribeTable("rejects non-finite entries",
		func(cov linalg.Matrix[float64], mean linalg.Vector[float64]) {
			gen, err := mnv.Build(cov, mean, 1)
			Expect(gen).To(BeNil())
			Expect(err).To(MatchError(mnv.ErrNotPositiveDefinite))
		},
		Entry("NaN on a later diagonal entry", linalg.Matrix[float64]{{1, 0}, {0, math.NaN()}}, linalg.Vector[float64]{0, 0}),
		Entry("infinite variance", linalg.Matrix[float64]{{math.Inf(1), 0}, {0, 1}}, linalg.Vector[float64]{0, 0}),
		Entry("NaN off the diagonal", linalg.Matrix[float64]{{1, math.NaN()}, {math.NaN(), 1}}, linalg.Vector[float64]{0, 0}),
		Entry("NaN in the mean", posDef, linalg.Vector[float64]{1, math.NaN(), 1}),
	)

	It("returns a ready generator for a positive-definite matrix", func() {
		gen, err := mnv.Build(posDef, unitMean, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(gen).NotTo(BeNil())
		Expect(gen.Dim()).To(Equal(3))
		Expect(gen.Seed()).To(BeZero())
	})

	It("checks symmetry before definiteness", func() {
		_, err := mnv.Build(linalg.Matrix[float64]{{-1, 5}, {4, -1}}, linalg.Vector[float64]{0, 0}, 0)
		Expect(err).To(MatchError(mnv.ErrNotSymmetric))
	})

	It("reports the kind through errors.As", func() {
		_, err := mnv.Build(negDef, unitMean, 0)
		var buildErr *mnv.BuildError
		Expect(errors.As(err, &buildErr)).To(BeTrue())
		Expect(buildErr.Kind).To(Equal(mnv.CovarianceNotPositiveDefinite))
		Expect(err.Error()).To(HavePrefix("mnv: covariance matrix is not positive-definite"))
	})

	DescribeTable("rejects mismatched shapes",
		func(cov linalg.Matrix[float64], mean linalg.Vector[float64]) {
			_, err := mnv.Build(cov, mean, 0)
			Expect(err).To(MatchError(mnv.ErrDimensionMismatch))
		},
		Entry("empty covariance", linalg.Matrix[float64]{}, linalg.Vector[float64]{}),
		Entry("ragged covariance", linalg.Matrix[float64]{{1, 0}, {0}}, linalg.Vector[float64]{0, 0}),
		Entry("short mean", posDef, linalg.Vector[float64]{1, 1}),
	)

	It("copies its inputs", func() {
		mean := unitMean.Clone()
		cov := posDef.Clone()
		gen, err := mnv.Build(cov, mean, 7)
		Expect(err).NotTo(HaveOccurred())

		mean[0] = 100
		cov[0][0] = 100
		Expect(gen.Mean()).To(Equal(unitMean))
		Expect(stats.MaxAbsDiff(gen.Covariance(), posDef)).To(BeNumerically("<", 1e-9))

		factor := gen.Factor()
		factor[0][0] = -1
		Expect(gen.Factor()[0][0]).To(BeNumerically(">", 0))
	})

	Context("with a symmetry tolerance", func() {
		nearly := linalg.Matrix[float64]{
			{2, 0.5 + 1e-12},
			{0.5, 1},
		}

		It("rejects by default", func() {
			_, err := mnv.Build(nearly, linalg.Vector[float64]{0, 0}, 0)
			Expect(err).To(MatchError(mnv.ErrNotSymmetric))
		})

		It("accepts within tolerance", func() {
			gen, err := mnv.Build(nearly, linalg.Vector[float64]{0, 0}, 0, mnv.WithSymmetryTolerance(1e-9))
			Expect(err).NotTo(HaveOccurred())
			Expect(linalg.IsSymmetric(gen.Covariance())).To(BeTrue())
		})
	})

	It("logs rejections when given a logger", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := mnv.Build(asymmetric, unitMean, 0, mnv.WithLogger(logger))
		Expect(err).To(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("generator build rejected"))
	})
})

var _ = Describe("BuildFromObservations", func() {
	It("builds from a well-conditioned sample", func() {
		gen, err := mnv.BuildFromObservations(observations, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.MaxAbsVecDiff(gen.Mean(), stats.Mean(observations))).To(BeNumerically("<", 1e-12))
	})

	It("fails when there are fewer samples than dimensions", func() {
		_, err := mnv.BuildFromObservations(observations[:2], 0)
		Expect(err).To(MatchError(mnv.ErrNotPositiveDefinite))
	})

	It("fails on an empty sample", func() {
		_, err := mnv.BuildFromObservations[float64](nil, 0)
		Expect(err).To(MatchError(mnv.ErrEmptySample))
	})

	It("fails on ragged observations", func() {
		_, err := mnv.BuildFromObservations([]linalg.Vector[float64]{{1, 2}, {3}}, 0)
		Expect(err).To(MatchError(mnv.ErrDimensionMismatch))
	})
})

var _ = Describe("Generator", func() {
	var gen *mnv.Generator[float64]

	BeforeEach(func() {
		var err error
		gen, err = mnv.Build(posDef, unitMean, 42)
		Expect(err).NotTo(HaveOccurred())
	})

	It("draws vectors of the generator's dimension", func() {
		Expect(gen.Draw()).To(HaveLen(3))
	})

	It("advances its stream between draws", func() {
		Expect(gen.Draw()).NotTo(Equal(gen.Draw()))
	})

	It("is reproducible for equal seeds", func() {
		other, err := mnv.Build(posDef, unitMean, 42)
		Expect(err).NotTo(HaveOccurred())
		Expect(drawN(other, 5)).To(Equal(drawN(gen, 5)))
	})

	It("replays the stream after Reseed", func() {
		first := drawN(gen, 5)
		gen.Reseed(42)
		Expect(drawN(gen, 5)).To(Equal(first))

		gen.Reseed(43)
		Expect(gen.Seed()).To(Equal(uint64(43)))
		Expect(drawN(gen, 5)).NotTo(Equal(first))
	})

	It("keeps the distribution across Reseed", func() {
		factor := gen.Factor()
		gen.Reseed(1)
		Expect(gen.Factor()).To(Equal(factor))
		Expect(gen.Mean()).To(Equal(unitMean))
	})

	It("stays at the mean when the variance is tiny", func() {
		tiny, err := mnv.Build(linalg.Matrix[float64]{{1e-300}}, linalg.Vector[float64]{3}, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(tiny.Draw()[0]).To(BeNumerically("~", 3, 1e-100))
	})
})

var _ = Describe("Statistical convergence", func() {
	It("recovers a known covariance and mean", func() {
		cov := linalg.Matrix[float64]{
			{1, 0.5, 0.2},
			{0.5, 2, 0.3},
			{0.2, 0.3, 1.5},
		}
		mean := linalg.Vector[float64]{-1, 0, 4}

		gen, err := mnv.Build(cov, mean, 2023)
		Expect(err).NotTo(HaveOccurred())

		sample := drawN(gen, 100000)
		Expect(stats.MaxAbsDiff(stats.Covariance(sample), cov)).To(BeNumerically("<", 0.1))
		Expect(stats.MaxAbsVecDiff(stats.Mean(sample), mean)).To(BeNumerically("<", 0.1))
	})

	It("recovers the sample it was estimated from", func() {
		gen, err := mnv.BuildFromObservations(observations, 7)
		Expect(err).NotTo(HaveOccurred())

		target := stats.Covariance(observations)
		got := stats.Covariance(drawN(gen, 200000))
		for i := range target {
			for j := range target[i] {
				tol := 0.05 * max(1, target[i][i], target[j][j])
				Expect(got[i][j]).To(BeNumerically("~", target[i][j], tol), "entry (%d,%d)", i, j)
			}
		}
	})

	It("works in single precision", func() {
		cov := linalg.Matrix[float32]{{4, 1}, {1, 2}}
		gen, err := mnv.Build(cov, linalg.Vector[float32]{0, 10}, 5)
		Expect(err).NotTo(HaveOccurred())

		sample := make([]linalg.Vector[float32], 50000)
		for i := range sample {
			sample[i] = gen.Draw()
		}
		Expect(stats.MaxAbsDiff(stats.Covariance(sample), cov)).To(BeNumerically("<", 0.15))
		Expect(stats.MaxAbsVecDiff(stats.Mean(sample), linalg.Vector[float32]{0, 10})).To(BeNumerically("<", 0.1))
	})
})

package report

import "gonum.org/v1/gonum/stat/distuv"

// Histogram bins values over [lo, hi) and scales the counts to a density, so
// it can be drawn against a probability density function. Values outside
// the range still count towards the total.
func Histogram(values []float64, lo, hi float64, bins int) []float64 {
	density := make([]float64, bins)
	if bins <= 0 || hi <= lo || len(values) == 0 {
		return density
	}

	width := (hi - lo) / float64(bins)
	for _, v := range values {
		if v < lo || v >= hi {
			continue
		}
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		density[idx]++
	}

	scale := 1 / (float64(len(values)) * width)
	for i := range density {
		density[i] *= scale
	}
	return density
}

// NormalDensity evaluates the N(mu, sigma²) density at the centres of the
// bins Histogram would use for the same range.
func NormalDensity(mu, sigma, lo, hi float64, bins int) []float64 {
	pdf := make([]float64, bins)
	if bins <= 0 || hi <= lo {
		return pdf
	}
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	width := (hi - lo) / float64(bins)
	for i := range pdf {
		pdf[i] = dist.Prob(lo + (float64(i)+0.5)*width)
	}
	return pdf
}

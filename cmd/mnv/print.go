package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/mnv/internal/linalg"
	"github.com/san-kum/mnv/internal/report"
	"github.com/san-kum/mnv/internal/viz"
)

func printMatrix[T linalg.Float](out io.Writer, m linalg.Matrix[T]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range m {
		for _, v := range row {
			fmt.Fprintf(w, "%.4f\t", float64(v))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

// printComparison shows the target covariance next to the sample one.
func printComparison[T linalg.Float](out io.Writer, target linalg.Matrix[T], got linalg.Matrix[float64]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "target%s\t|\tsample%s\t\n", strings.Repeat("\t", len(target)-1), strings.Repeat("\t", len(target)-1))
	for i := range target {
		for _, v := range target[i] {
			fmt.Fprintf(w, "%.4f\t", float64(v))
		}
		fmt.Fprint(w, "|\t")
		for _, v := range got[i] {
			fmt.Fprintf(w, "%.4f\t", v)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func printReport(out io.Writer, r *report.Report) {
	fmt.Fprintln(out, viz.Metric("dimension", fmt.Sprintf("%d", r.Dim)))
	if !r.Finite {
		fmt.Fprintln(out, viz.MetricLabel.Render("finite")+viz.Bad.Render("no"))
	}
	fmt.Fprintln(out, viz.MetricLabel.Render("symmetric")+viz.Verdict(r.Symmetric, "yes", "no"))

	minors := make([]string, len(r.Minors))
	for i, m := range r.Minors {
		minors[i] = fmt.Sprintf("%.4g", m)
	}
	fmt.Fprintln(out, viz.Metric("leading minors", strings.Join(minors, "  ")))
	fmt.Fprintln(out, viz.MetricLabel.Render("definiteness")+
		viz.Verdict(r.Definition == linalg.PositiveDefinite, r.Definition.String(), r.Definition.String()))

	if r.Eigenvalues != nil {
		eig := make([]string, len(r.Eigenvalues))
		for i, e := range r.Eigenvalues {
			eig[i] = fmt.Sprintf("%.4g", e)
		}
		fmt.Fprintln(out, viz.Metric("eigenvalues", strings.Join(eig, "  ")))
	}
	if !math.IsInf(r.Condition, 0) {
		fmt.Fprintln(out, viz.Metric("condition", fmt.Sprintf("%.4g", r.Condition)))
	}

	if !r.Accepted() {
		return
	}
	fmt.Fprintln(out, viz.Subtle.Render("cholesky factor:"))
	printMatrix(out, r.Factor)
	fmt.Fprintln(out, viz.Metric("L·Lᵗ residual", fmt.Sprintf("%.3g", r.FactorResidual)))
	fmt.Fprintln(out, viz.Metric("gonum agreement", fmt.Sprintf("%.3g", r.GonumAgreement)))
}

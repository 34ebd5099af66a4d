package linear

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds the inferential statistics of an OLS fit.
type Summary struct {
	Names   []string
	Coef    []float64
	StdErr  []float64
	TValues []float64
	PValues []float64

	NObs        int
	DFModel     float64
	DFResid     float64
	RSquared    float64
	AdjRSquared float64
	FStatistic  float64
	FPValue     float64
}

// Summary computes coefficient standard errors, t statistics, two-sided p-values
// and the overall F test for a fitted model on the data it was fitted with.
//
// names labels the feature columns; the intercept, when fitted, is labelled "const"
// and listed first. Without an intercept R-squared is uncentered.
func (lr *LinearRegression) Summary(X, y mat.Matrix, names []string) (*Summary, error) {
	if err := lr.requireFitted("Summary"); err != nil {
		return nil, err
	}
	n, c := X.Dims()
	if ry, _ := y.Dims(); ry != n {
		return nil, errors.NewDimensionError("LinearRegression.Summary", n, ry, 0)
	}
	if len(names) != c {
		return nil, errors.NewDimensionError("LinearRegression.Summary", c, len(names), 1)
	}

	p := c
	if lr.FitIntercept {
		p++
	}
	dfResid := float64(n - p)
	if dfResid <= 0 {
		return nil, errors.NewValueError("LinearRegression.Summary", "no residual degrees of freedom")
	}

	coef := make([]float64, 0, p)
	labels := make([]string, 0, p)
	if lr.FitIntercept {
		coef = append(coef, lr.Intercept)
		labels = append(labels, "const")
	}
	coef = append(coef, lr.GetWeights()...)
	labels = append(labels, names...)

	yPred, err := lr.Predict(X)
	if err != nil {
		return nil, err
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(n)

	var rss, tss float64
	for i := 0; i < n; i++ {
		res := y.At(i, 0) - yPred.At(i, 0)
		rss += res * res
		if lr.FitIntercept {
			tss += (y.At(i, 0) - yMean) * (y.At(i, 0) - yMean)
		} else {
			tss += y.At(i, 0) * y.At(i, 0)
		}
	}

	// 中心化した Xc について (XcᵀXc)⁻¹ σ² が重みの共分散行列。
	// 切片の分散は σ² (1/n + x̄ᵀ (XcᵀXc)⁻¹ x̄)。
	Xc, xMean := centerColumns(X, lr.FitIntercept)
	var xtx, xtxInv mat.Dense
	xtx.Mul(Xc.T(), Xc)
	if err := xtxInv.Inverse(&xtx); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errors.NewModelError("LinearRegression.Summary", "singular matrix", errors.ErrSingularMatrix)
		}
	}
	sigma2 := rss / dfResid

	variances := make([]float64, 0, p)
	if lr.FitIntercept {
		m := mat.NewVecDense(c, xMean)
		var mx mat.VecDense
		mx.MulVec(&xtxInv, m)
		variances = append(variances, sigma2*(1/float64(n)+mat.Dot(m, &mx)))
	}
	for j := 0; j < c; j++ {
		variances = append(variances, sigma2*xtxInv.At(j, j))
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dfResid}
	s := &Summary{
		Names:   labels,
		Coef:    coef,
		StdErr:  make([]float64, p),
		TValues: make([]float64, p),
		PValues: make([]float64, p),
		NObs:    n,
		DFResid: dfResid,
	}
	for j := 0; j < p; j++ {
		se := math.Sqrt(variances[j])
		s.StdErr[j] = se
		s.TValues[j] = coef[j] / se
		s.PValues[j] = 2 * tDist.Survival(math.Abs(s.TValues[j]))
	}

	dfModel := float64(p)
	if lr.FitIntercept {
		dfModel = float64(p - 1)
	}
	s.DFModel = dfModel
	if tss > 0 {
		s.RSquared = 1 - rss/tss
	}
	dfTotal := float64(n)
	if lr.FitIntercept {
		dfTotal = float64(n - 1)
	}
	s.AdjRSquared = 1 - (1-s.RSquared)*dfTotal/dfResid

	if dfModel > 0 {
		s.FStatistic = ((tss - rss) / dfModel) / sigma2
		fDist := distuv.F{D1: dfModel, D2: dfResid}
		s.FPValue = fDist.Survival(s.FStatistic)
	}

	return s, nil
}

// String renders the summary as a plain-text table.
func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "No. Observations: %d\tDf Model: %g\tDf Residuals: %g\n", s.NObs, s.DFModel, s.DFResid)
	fmt.Fprintf(&sb, "R-squared: %.4f\tAdj. R-squared: %.4f\n", s.RSquared, s.AdjRSquared)
	fmt.Fprintf(&sb, "F-statistic: %.4g\tProb (F-statistic): %.4g\n\n", s.FStatistic, s.FPValue)

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tcoef\tstd err\tt\tP>|t|\t")
	for i, name := range s.Names {
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.3f\t%.3f\t\n", name, s.Coef[i], s.StdErr[i], s.TValues[i], s.PValues[i])
	}
	tw.Flush()
	return sb.String()
}

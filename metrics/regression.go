// Package metrics は回帰モデルの評価指標を提供します。
package metrics

import (
	"math"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// exactFitTolerance は残差平方和を「完全一致」とみなす相対許容誤差
const exactFitTolerance = 1e-12

// Scores は1つの当てはめに対する評価指標の組
type Scores struct {
	MSE      float64
	RMSE     float64
	MAE      float64
	RSquared float64
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += math.Abs(diff)
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrue の分散が0の場合、R² は数学的に定義できない。このときは
// 予測が完全に一致していれば 1.0、そうでなければ 0.0 を返し、
// UndefinedMetricWarning を errors.Warn で通知する。エラーにはしない。
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	// yTrueの平均を計算
	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss, scale float64
	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
		scale += yTrueVal * yTrueVal
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if tss == 0 {
		result := 0.0
		if rss <= exactFitTolerance*math.Max(1, scale) {
			result = 1.0
		}
		errors.Warn(errors.NewUndefinedMetricWarning("R2Score", "constant y_true", result))
		return result, nil
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// Evaluate は MSE / RMSE / MAE / R² をまとめて計算する
func Evaluate(yTrue, yPred *mat.VecDense) (Scores, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	return Scores{MSE: mse, RMSE: math.Sqrt(mse), MAE: mae, RSquared: r2}, nil
}

// ColumnVector は n×1 行列を VecDense に変換する。Predict の戻り値を指標に渡すときに使う。
func ColumnVector(m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if c != 1 {
		return nil, errors.NewValueError("ColumnVector", "must be a column vector (n×1 matrix)")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

// Package linear は最小二乗法による線形回帰モデルを提供します。
package linear

import (
	"github.com/scorpio-su/2023-IMDB/core/model"
	"github.com/scorpio-su/2023-IMDB/metrics"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const modelName = "LinearRegression"

// LinearRegression は線形回帰モデル
//
// 係数は中心化した計画行列の SVD で求める。同じ入力に対しては常にビット単位で同じ係数を返す。
// エクスポートされたフィールドは model.SaveModel で gob として保存される。
type LinearRegression struct {
	*model.StateManager

	FitIntercept bool          // 切片を推定するか
	Tol          float64       // ランク判定の相対許容誤差（最大特異値比）
	Weights      *mat.VecDense // 重み（係数）
	Intercept    float64       // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		StateManager: model.NewStateManager(),
		FitIntercept: true,
		Tol:          DefaultTol,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
//
// 切片を推定する場合は特徴量と目的変数を平均で中心化してから解くため、
// id のように大きなオフセットを持つ列でも条件数が悪化しない。
// 係数は中心化した計画行列の SVD による最小ノルム最小二乗解で、
// 特徴量が定数（あるいはサンプルが1件）のときは重み 0、切片は y の平均になる。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	// 入力の検証
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	if ry != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}

	if cy != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	Xc, xMean := centerColumns(X, lr.FitIntercept)
	yc, yMean := centerColumns(y, lr.FitIntercept)

	var svd mat.SVD
	if !svd.Factorize(Xc, mat.SVDThin) {
		return errors.NewModelError("LinearRegression.Fit", "svd did not converge", errors.ErrSingularMatrix)
	}

	tol := lr.Tol
	if tol <= 0 {
		tol = DefaultTol
	}
	lr.Weights = mat.NewVecDense(c, nil)
	// rank 0 は中心化後の特徴量がすべて 0 の場合
	if rank := svd.Rank(tol); rank > 0 {
		var coef mat.Dense
		svd.SolveTo(&coef, yc, rank)
		for j := 0; j < c; j++ {
			lr.Weights.SetVec(j, coef.At(j, 0))
		}
	}

	lr.Intercept = 0
	if lr.FitIntercept {
		lr.Intercept = yMean[0] - mat.Dot(mat.NewVecDense(c, xMean), lr.Weights)
	}

	if lr.StateManager == nil {
		lr.StateManager = model.NewStateManager()
	}
	lr.SetDimensions(c, r)
	lr.SetFitted()

	return nil
}

// centerColumns は各列から平均を引いた行列と列平均を返す。
// center が false のときは複製と 0 の平均を返す。
func centerColumns(m mat.Matrix, center bool) (*mat.Dense, []float64) {
	r, c := m.Dims()
	out := mat.DenseCopyOf(m)
	means := make([]float64, c)
	if !center {
		return out, means
	}
	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, out)
		means[j] = stat.Mean(col, nil)
		for i := 0; i < r; i++ {
			out.Set(i, j, col[i]-means[j])
		}
	}
	return out, means
}

func (lr *LinearRegression) requireFitted(method string) error {
	if lr.StateManager == nil {
		return errors.NewNotFittedError(modelName, method)
	}
	return lr.RequireFitted(modelName, method)
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.requireFitted("Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	nFeatures, _ := lr.GetDimensions()
	if c != nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", nFeatures, c, 1)
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	return predictions, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}

	weights := make([]float64, lr.Weights.Len())
	for i := 0; i < lr.Weights.Len(); i++ {
		weights[i] = lr.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if lr.requireFitted("GetIntercept") != nil {
		return 0
	}
	return lr.Intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrue, err := metrics.ColumnVector(y)
	if err != nil {
		return 0, err
	}
	pred, err := metrics.ColumnVector(yPred)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, pred)
}

// ExportWeights は学習済みの係数を ModelWeights として返す
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	if err := lr.requireFitted("ExportWeights"); err != nil {
		return nil, err
	}
	nFeatures, nSamples := lr.GetDimensions()
	return &model.ModelWeights{
		ModelType:    modelName,
		Version:      model.WeightsVersion,
		Coefficients: lr.GetWeights(),
		Intercept:    lr.Intercept,
		Hyperparameters: map[string]interface{}{
			"fit_intercept": lr.FitIntercept,
			"tol":           lr.Tol,
		},
		Metadata: map[string]interface{}{
			"n_features": nFeatures,
			"n_samples":  nSamples,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights は ModelWeights から学習済み状態を復元する
func (lr *LinearRegression) ImportWeights(mw *model.ModelWeights) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != modelName {
		return errors.NewValueError("LinearRegression.ImportWeights", "unexpected model type "+mw.ModelType)
	}
	if !mw.IsFitted {
		return errors.NewNotFittedError(modelName, "ImportWeights")
	}

	if v, ok := mw.Hyperparameters["fit_intercept"].(bool); ok {
		lr.FitIntercept = v
	}
	lr.Intercept = mw.Intercept
	lr.Weights = mat.NewVecDense(len(mw.Coefficients), append([]float64(nil), mw.Coefficients...))

	nSamples := 0
	if v, ok := mw.Metadata["n_samples"].(float64); ok {
		nSamples = int(v)
	} else if v, ok := mw.Metadata["n_samples"].(int); ok {
		nSamples = v
	}
	if lr.StateManager == nil {
		lr.StateManager = model.NewStateManager()
	}
	lr.SetDimensions(len(mw.Coefficients), nSamples)
	lr.SetFitted()
	return nil
}

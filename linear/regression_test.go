package linear

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/scorpio-su/2023-IMDB/core/model"
	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

var (
	_ model.LinearModel    = (*LinearRegression)(nil)
	_ model.WeightExporter = (*LinearRegression)(nil)
)

func TestLinearRegression_Basic(t *testing.T) {
	// Test basic linear regression y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()

	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if w := lr.GetWeights()[0]; math.Abs(w-2) > 1e-9 {
		t.Errorf("Expected coefficient ~2.0, got %f", w)
	}
	if b := lr.GetIntercept(); math.Abs(b-1) > 1e-9 {
		t.Errorf("Expected intercept ~1.0, got %f", b)
	}

	XTest := mat.NewDense(2, 1, []float64{5, 6})
	pred, err := lr.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	expected := []float64{11, 13}
	for i := 0; i < 2; i++ {
		if math.Abs(pred.At(i, 0)-expected[i]) > 1e-9 {
			t.Errorf("Expected prediction %f, got %f", expected[i], pred.At(i, 0))
		}
	}
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	// Test without intercept: y = 2x
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression(WithFitIntercept(false))

	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if w := lr.GetWeights()[0]; math.Abs(w-2) > 1e-9 {
		t.Errorf("Expected coefficient ~2.0, got %f", w)
	}
	if lr.GetIntercept() != 0 {
		t.Errorf("Expected intercept 0, got %f", lr.GetIntercept())
	}
}

func TestLinearRegression_MultipleFeatures(t *testing.T) {
	// Test with multiple features: y = 2*x1 + 3*x2 + 1
	X := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 1,
		3, 2,
		4, 2,
		5, 3,
	})
	y := mat.NewDense(5, 1, []float64{6, 8, 13, 15, 20})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	w := lr.GetWeights()
	assert.InDelta(t, 2.0, w[0], 1e-9)
	assert.InDelta(t, 3.0, w[1], 1e-9)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 1e-9)
}

func TestLinearRegression_Score(t *testing.T) {
	// Perfect fit case: the pipeline's id ~ y01 scenario
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)
}

func TestLinearRegression_Deterministic(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{0.3, -1.2, 0.8, 2.5, 1.1, 3.9})

	first := NewLinearRegression()
	second := NewLinearRegression()
	require.NoError(t, first.Fit(X, y))
	require.NoError(t, second.Fit(X, y))

	assert.Equal(t, first.GetWeights(), second.GetWeights())
	assert.Equal(t, first.GetIntercept(), second.GetIntercept())
}

func TestLinearRegression_Degenerate(t *testing.T) {
	tests := []struct {
		name          string
		X             *mat.Dense
		y             *mat.Dense
		wantWeight    float64
		wantIntercept float64
	}{
		{
			name:          "constant feature is collinear with the intercept",
			X:             mat.NewDense(3, 1, []float64{5, 5, 5}),
			y:             mat.NewDense(3, 1, []float64{2, 4, 6}),
			wantWeight:    0,
			wantIntercept: 4,
		},
		{
			name:          "single sample",
			X:             mat.NewDense(1, 1, []float64{1}),
			y:             mat.NewDense(1, 1, []float64{2}),
			wantWeight:    0,
			wantIntercept: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLinearRegression()
			require.NoError(t, lr.Fit(tt.X, tt.y))
			assert.InDelta(t, tt.wantWeight, lr.GetWeights()[0], 1e-12)
			assert.InDelta(t, tt.wantIntercept, lr.GetIntercept(), 1e-12)

			pred, err := lr.Predict(tt.X)
			require.NoError(t, err)
			r, _ := pred.Dims()
			for i := 0; i < r; i++ {
				assert.InDelta(t, tt.wantIntercept, pred.At(i, 0), 1e-12)
			}
		})
	}
}

func TestLinearRegression_LargeOffsetFeature(t *testing.T) {
	for _, offset := range []float64{1e9, 1.7e12, -3.5e8} {
		X := mat.NewDense(4, 1, []float64{offset, offset + 1, offset + 2, offset + 3})
		y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

		lr := NewLinearRegression()
		require.NoError(t, lr.Fit(X, y), "offset %g", offset)
		assert.InDelta(t, 2.0, lr.GetWeights()[0], 1e-9)
		assert.InEpsilon(t, 2-2*offset, lr.GetIntercept(), 1e-12)

		score, err := lr.Score(X, y)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-6, "offset %g", offset)
	}
}

func TestLinearRegression_CollinearFeatures(t *testing.T) {
	// x2 = 2*x1: the minimum-norm solution splits the slope as w1 + 2*w2 = 3, w2 = 2*w1
	X := mat.NewDense(4, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		4, 8,
	})
	y := mat.NewDense(4, 1, []float64{4, 7, 10, 13})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	w := lr.GetWeights()
	assert.InDelta(t, 0.6, w[0], 1e-9)
	assert.InDelta(t, 1.2, w[1], 1e-9)
	assert.InDelta(t, 1.0, lr.GetIntercept(), 1e-9)
}

func TestLinearRegression_InputValidation(t *testing.T) {
	lr := NewLinearRegression()

	err := lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	err = lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestLinearRegression_NotFitted(t *testing.T) {
	lr := NewLinearRegression()

	X := mat.NewDense(2, 1, []float64{1, 2})

	_, err := lr.Predict(X)
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "Predict", notFitted.Method)

	_, err = lr.ExportWeights()
	assert.Error(t, err)

	var zero LinearRegression
	_, err = zero.Predict(X)
	assert.Error(t, err, "zero value must not panic")
}

func TestLinearRegression_PredictDimension(t *testing.T) {
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{2, 4, 6})))

	_, err := lr.Predict(mat.NewDense(2, 2, nil))
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))
}

func TestLinearRegression_GobRoundTrip(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(lr, &buf))

	loaded := &LinearRegression{}
	require.NoError(t, model.LoadModelFromReader(loaded, &buf))
	assert.True(t, loaded.IsFitted())
	assert.Equal(t, lr.GetWeights(), loaded.GetWeights())
	assert.Equal(t, lr.GetIntercept(), loaded.GetIntercept())

	pred, err := loaded.Predict(mat.NewDense(1, 1, []float64{10}))
	require.NoError(t, err)
	assert.InDelta(t, 21.0, pred.At(0, 0), 1e-9)
}

func TestLinearRegression_Weights(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	mw, err := lr.ExportWeights()
	require.NoError(t, err)
	require.NoError(t, mw.Validate())
	assert.Equal(t, "LinearRegression", mw.ModelType)
	assert.Equal(t, true, mw.Hyperparameters["fit_intercept"])

	data, err := mw.ToJSON()
	require.NoError(t, err)
	decoded := &model.ModelWeights{}
	require.NoError(t, decoded.FromJSON(data))

	restored := NewLinearRegression()
	require.NoError(t, restored.ImportWeights(decoded))
	assert.InDeltaSlice(t, lr.GetWeights(), restored.GetWeights(), 1e-12)
	assert.InDelta(t, lr.GetIntercept(), restored.GetIntercept(), 1e-12)

	decoded.ModelType = "Ridge"
	assert.Error(t, NewLinearRegression().ImportWeights(decoded))
}

func TestLinearRegression_Summary(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewDense(5, 1, []float64{2.1, 3.9, 6.2, 7.8, 10.1})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	s, err := lr.Summary(X, y, []string{"id"})
	require.NoError(t, err)

	assert.Equal(t, []string{"const", "id"}, s.Names)
	assert.InDelta(t, 0.05, s.Coef[0], 1e-9)
	assert.InDelta(t, 1.99, s.Coef[1], 1e-9)
	assert.InDelta(t, 0.1980740602, s.StdErr[0], 1e-8)
	assert.InDelta(t, 0.0597215762, s.StdErr[1], 1e-8)
	assert.InDelta(t, 33.3212906595, s.TValues[1], 1e-6)
	assert.InDelta(t, 0.9973053289, s.RSquared, 1e-9)
	assert.InDelta(t, 0.9964071052, s.AdjRSquared, 1e-9)
	assert.InDelta(t, 1110.3084112, s.FStatistic, 1e-4)
	assert.Equal(t, 1.0, s.DFModel)
	assert.Equal(t, 3.0, s.DFResid)

	// With one regressor the F test and the slope t test coincide.
	assert.InDelta(t, s.TValues[1]*s.TValues[1], s.FStatistic, 1e-6)
	assert.InDelta(t, s.PValues[1], s.FPValue, 1e-9)
	assert.Less(t, s.PValues[1], 0.001)
	assert.Greater(t, s.PValues[0], 0.5)

	out := s.String()
	assert.Contains(t, out, "const")
	assert.Contains(t, out, "R-squared: 0.9973")

	_, err = lr.Summary(X, y, []string{"id", "extra"})
	assert.Error(t, err)
	_, err = lr.Summary(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{1, 2}), []string{"id"})
	assert.Error(t, err, "no residual degrees of freedom")
}

func TestLinearRegression_SummaryLargeOffset(t *testing.T) {
	const offset = 1e9
	X := mat.NewDense(5, 1, []float64{offset + 1, offset + 2, offset + 3, offset + 4, offset + 5})
	y := mat.NewDense(5, 1, []float64{2.1, 3.9, 6.2, 7.8, 10.1})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	s, err := lr.Summary(X, y, []string{"id"})
	require.NoError(t, err)
	assert.InDelta(t, 1.99, s.Coef[1], 1e-9)
	assert.InDelta(t, 0.0597215762, s.StdErr[1], 1e-6)
	assert.InDelta(t, 0.9973053289, s.RSquared, 1e-6)
}

func TestLinearRegression_SummaryConstantFeature(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{5, 5, 5, 5})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	_, err := lr.Summary(X, y, []string{"id"})
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
}

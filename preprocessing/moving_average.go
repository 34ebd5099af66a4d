package preprocessing

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/scorpio-su/2023-IMDB/pkg/errors"
)

// MovingAverage は末尾揃えの単純移動平均を計算する
//
// 出力は入力と同じ長さで、先頭 window-1 個は窓が揃わないため NaN になる。
// 窓の中に NaN があればその位置の平均も NaN になる。
//
// 使用例:
//
//	ma, err := preprocessing.MovingAverage(series, 50)
func MovingAverage(values []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, errors.NewValidationError("window", "must be at least 1", window)
	}

	out := make([]float64, len(values))
	for i := range values {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		mean, err := stats.Mean(stats.Float64Data(values[i+1-window : i+1]))
		if err != nil {
			return nil, errors.Wrapf(err, "moving average at index %d", i)
		}
		out[i] = mean
	}
	return out, nil
}

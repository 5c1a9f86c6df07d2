// Package preprocessing は推定器に渡す前のデータ変換を提供する
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/abkoesdw/esl/core/model"
	"github.com/abkoesdw/esl/core/parallel"
	"github.com/abkoesdw/esl/pkg/errors"
)

// minScale を下回る標準偏差は 1 に置き換える（定数列でゼロ除算しない）
const minScale = 1e-8

// parallelThreshold を超える行数の変換は行ごとに並列化する
const parallelThreshold = 1000

// StandardScaler はデータを平均0、標準偏差1に変換する
//
// 標準偏差は母集団標準偏差（n で割る）を使う。
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// NewStandardScalerFromParams は保存済みの平均と標準偏差から学習済みのスケーラーを復元する
func NewStandardScalerFromParams(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, errors.NewModelError("NewStandardScalerFromParams", "empty data", errors.ErrEmptyData)
	}
	if len(scale) != len(mean) {
		return nil, errors.NewDimensionError("NewStandardScalerFromParams", len(mean), len(scale), 1)
	}
	for j, s := range scale {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, errors.NewValidationError(fmt.Sprintf("scale[%d]", j), "must be positive and finite", s)
		}
	}

	s := NewStandardScalerDefault()
	s.Mean = append([]float64(nil), mean...)
	s.Scale = append([]float64(nil), scale...)
	s.state.SetFitted(len(mean), 0)
	return s, nil
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)

		if s.WithMean {
			s.Mean[j] = mean
		}

		s.Scale[j] = 1.0
		if s.WithStd && std >= minScale {
			s.Scale[j] = std
		}
	}

	s.state.SetFitted(c, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	_, c := X.Dims()
	if err := s.state.RequireFeatures("StandardScaler.Transform", c); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	s.applyRows(result, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	})
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}

	_, c := X.Dims()
	if err := s.state.RequireFeatures("StandardScaler.InverseTransform", c); err != nil {
		return nil, err
	}

	result := mat.DenseCopyOf(X)
	s.applyRows(result, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	})
	return result, nil
}

// applyRows は各行に fn を適用する。行数が閾値を超える場合は並列に処理する
func (s *StandardScaler) applyRows(m *mat.Dense, fn func(j int, v float64) float64) {
	r, _ := m.Dims()
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := m.RawRowView(i)
			for j, v := range row {
				row[j] = fn(j, v)
			}
		}
	})
}

// UnscaleCoef は標準化空間の係数を元のスケールの係数と切片の補正に変換する
//
// 標準化空間で y = yMean + Σ β_j (x_j - μ_j)/σ_j なので、元のスケールでは
// 係数 β_j/σ_j、切片 yMean - Σ μ_j β_j/σ_j になる。
func (s *StandardScaler) UnscaleCoef(beta []float64, yMean float64) (coef []float64, intercept float64, err error) {
	if err := s.state.RequireFitted("StandardScaler", "UnscaleCoef"); err != nil {
		return nil, 0, err
	}
	if err := s.state.RequireFeatures("StandardScaler.UnscaleCoef", len(beta)); err != nil {
		return nil, 0, err
	}

	coef = make([]float64, len(beta))
	floats.DivTo(coef, beta, s.Scale)
	return coef, yMean - floats.Dot(s.Mean, coef), nil
}

// IsFitted は学習済みかどうかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, nFeatures)
}

// CenterVector は y から平均を引いたコピーと、その平均を返す
//
// 空のベクトルに対しては (空のベクトル, 0) を返す。
func CenterVector(y mat.Vector) (*mat.VecDense, float64) {
	n := y.Len()
	if n == 0 {
		return &mat.VecDense{}, 0
	}

	data := make([]float64, n)
	for i := range data {
		data[i] = y.AtVec(i)
	}
	mean := stat.Mean(data, nil)
	floats.AddConst(-mean, data)
	return mat.NewVecDense(n, data), mean
}

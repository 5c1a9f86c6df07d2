package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う（n×1 の行列を返す）
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// ErrorEvaluator は学習済みモデルの二乗誤差を返すインターフェース
type ErrorEvaluator interface {
	// Error は残差平方和 (SSE) と平均二乗誤差 (MSE) を返す
	Error(X mat.Matrix, y mat.Vector) (sse, mse float64, err error)
}

// ComponentFitter fits a model with a given number of latent components.
// Model selection code depends only on this interface, so it never sees the
// internals of the estimator it is tuning.
type ComponentFitter interface {
	FitComponents(X mat.Matrix, y mat.Vector, nComponents int) (ErrorEvaluator, error)
}

// ComponentFitterFunc adapts a plain function to ComponentFitter.
type ComponentFitterFunc func(X mat.Matrix, y mat.Vector, nComponents int) (ErrorEvaluator, error)

// FitComponents calls f(X, y, nComponents).
func (f ComponentFitterFunc) FitComponents(X mat.Matrix, y mat.Vector, nComponents int) (ErrorEvaluator, error) {
	return f(X, y, nComponents)
}

package linear

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/core/model"
	"github.com/abkoesdw/esl/metrics"
	"github.com/abkoesdw/esl/pkg/errors"
)

// LinearRegression は最小二乗法による線形回帰モデル
//
// PLS の成分数が特徴量数に等しいときの比較対象としても使われる。
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool

	coef      *mat.VecDense // 重み（係数）
	intercept float64       // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
//
// 切片を学習する場合は X と y を中心化してから正規方程式
// (X^T X) w = X^T y を解き、切片を mean(y) - mean(X)·w で復元する。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
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

	yVec := mat.NewVecDense(r, mat.Col(nil, 0, y))
	design := mat.DenseCopyOf(X)

	xMean := make([]float64, c)
	var yMean float64
	if lr.fitIntercept {
		col := make([]float64, r)
		for j := 0; j < c; j++ {
			mat.Col(col, j, design)
			xMean[j] = floats.Sum(col) / float64(r)
			floats.AddConst(-xMean[j], col)
			design.SetCol(j, col)
		}
		yMean = floats.Sum(yVec.RawVector().Data) / float64(r)
		for i := 0; i < r; i++ {
			yVec.SetVec(i, yVec.AtVec(i)-yMean)
		}
	}

	coef, err := SolveNormalEquations(design, yVec)
	if err != nil {
		return err
	}

	lr.coef = coef
	lr.intercept = 0
	if lr.fitIntercept {
		lr.intercept = yMean - floats.Dot(xMean, coef.RawVector().Data)
	}

	// モデルを学習済み状態に設定
	lr.state.SetFitted(c, r)
	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", c); err != nil {
		return nil, err
	}

	// y = X * w + b
	pred := mat.NewVecDense(r, nil)
	pred.MulVec(X, lr.coef)
	for i := 0; i < r; i++ {
		pred.SetVec(i, pred.AtVec(i)+lr.intercept)
	}
	return pred, nil
}

// Coef は学習された重み（係数）のコピーを返す
func (lr *LinearRegression) Coef() []float64 {
	if lr.coef == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.coef)
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

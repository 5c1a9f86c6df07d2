// Package metrics は回帰モデルの評価指標を提供する
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/abkoesdw/esl/pkg/errors"
)

func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// squaredErrors は (yPred - yTrue)^2 を要素ごとに返す
func squaredErrors(yTrue, yPred mat.Vector, n int) []float64 {
	sq := make([]float64, n)
	for i := 0; i < n; i++ {
		d := yPred.AtVec(i) - yTrue.AtVec(i)
		sq[i] = d * d
	}
	return sq
}

// SSE は残差平方和（Sum of Squared Errors）を計算する
func SSE(yTrue, yPred mat.Vector) (float64, error) {
	if _, err := checkPair("SSE", yTrue, yPred); err != nil {
		return 0, err
	}

	var res mat.VecDense
	res.SubVec(yPred, yTrue)
	return mat.Dot(&res, &res), nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	sse, err := SSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return sse / float64(yTrue.Len()), nil
}

// MSEWithStdErr は平均二乗誤差とその標準誤差を返す
//
// 標準誤差は二乗誤差の標本標準偏差を sqrt(n) で割ったもの。n == 1 のときは 0。
func MSEWithStdErr(yTrue, yPred mat.Vector) (mse, stdErr float64, err error) {
	n, err := checkPair("MSEWithStdErr", yTrue, yPred)
	if err != nil {
		return 0, 0, err
	}
	sq := squaredErrors(yTrue, yPred, n)
	if n == 1 {
		return sq[0], 0, nil
	}
	mean, std := stat.MeanStdDev(sq, nil)
	return mean, stat.StdErr(std, float64(n)), nil
}

// MSEMatrix は n×1 行列形式の入力に対してMSEを計算する
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVectors("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return MSE(t, p)
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	yt := make([]float64, n)
	yp := make([]float64, n)
	for i := 0; i < n; i++ {
		yt[i] = yTrue.AtVec(i)
		yp[i] = yPred.AtVec(i)
	}

	// 全変動が0の場合（すべてのyTrueが同じ値）
	if n == 1 || stat.Variance(yt, nil) == 0 {
		return 0, errors.NewValueError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}

	return stat.RSquaredFrom(yp, yt, nil), nil
}

// R2ScoreMatrix は n×1 行列形式の入力に対してR²を計算する
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	t, p, err := columnVectors("R2ScoreMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return R2Score(t, p)
}

func columnVectors(op string, yTrue, yPred mat.Matrix) (mat.Vector, mat.Vector, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}
	if cTrue != 1 || cPred != 1 {
		return nil, nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}

	return mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)), mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)), nil
}

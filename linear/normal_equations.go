package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/pkg/errors"
)

// SolveNormalEquations は正規方程式 (X^T X) β = X^T y を解いて β を返す。
//
// X^T X は対称なのでコレスキー分解を使う。正定値でない場合、または条件数が
// 大きすぎて解が信頼できない場合は ErrSingularMatrix をラップした ModelError
// を返す。擬似逆行列へのフォールバックは行わない。
func SolveNormalEquations(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	const op = "linear.SolveNormalEquations"

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError(op, r, y.Len(), 0)
	}

	// X^T X (c×c)
	var xtx mat.SymDense
	xtx.SymOuterK(1, X.T())

	// X^T y
	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, errors.NewModelError(op, "singular normal equations", errors.ErrSingularMatrix)
	}

	beta := mat.NewVecDense(c, nil)
	if err := chol.SolveVecTo(beta, &xty); err != nil {
		// mat.Condition: 条件数が許容値を超えた
		return nil, errors.NewModelError(op, "singular normal equations: "+err.Error(), errors.ErrSingularMatrix)
	}

	return beta, nil
}

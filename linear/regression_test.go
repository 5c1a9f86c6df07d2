package linear

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/pkg/errors"
)

func TestLinearRegression_Basic(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.InDeltaSlice(t, []float64{2}, lr.Coef(), 1e-10)
	assert.InDelta(t, 1.0, lr.Intercept(), 1e-10)

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{11, 13}, mat.Col(nil, 0, pred), 1e-10)

	r2, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-10)
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	// y = 2*x1 + 3*x2
	X := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 1,
		3, 2,
		4, 2,
		5, 3,
	})
	y := mat.NewDense(5, 1, []float64{5, 7, 12, 14, 19})

	lr := NewLinearRegression(WithFitIntercept(false))
	require.NoError(t, lr.Fit(X, y))

	assert.InDeltaSlice(t, []float64{2, 3}, lr.Coef(), 1e-9)
	assert.Equal(t, 0.0, lr.Intercept())
}

func TestLinearRegression_Errors(t *testing.T) {
	lr := NewLinearRegression()

	_, err := lr.Predict(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	err = lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	err = lr.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 2, nil))
	var valueErr *errors.ValueError
	assert.True(t, errors.As(err, &valueErr))

	require.NoError(t, lr.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(3, 1, []float64{1, 2, 3})))
	_, err = lr.Predict(mat.NewDense(1, 2, []float64{1, 2}))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestSolveNormalEquations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	n, p := 30, 4
	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
	}
	want := []float64{1.5, -2, 0.25, 3}
	y := mat.NewVecDense(n, nil)
	y.MulVec(X, mat.NewVecDense(p, want))

	beta, err := SolveNormalEquations(X, y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, beta.RawVector().Data, 1e-9)
}

func TestSolveNormalEquations_Singular(t *testing.T) {
	// 2列目は1列目と同一なので X^T X は特異
	X := mat.NewDense(4, 2, []float64{
		1, 1,
		-1, -1,
		1, 1,
		-1, -1,
	})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	_, err := SolveNormalEquations(X, y)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
}

func TestSolveNormalEquations_ShapeErrors(t *testing.T) {
	_, err := SolveNormalEquations(mat.NewDense(3, 2, nil), mat.NewVecDense(2, nil))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	_, err = SolveNormalEquations(&mat.Dense{}, &mat.VecDense{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func BenchmarkSolveNormalEquations(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	n, p := 1000, 20
	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y.SetVec(i, rng.NormFloat64())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SolveNormalEquations(X, y); err != nil {
			b.Fatal(err)
		}
	}
}

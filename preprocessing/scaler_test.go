package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/pkg/errors"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{2.5, 25}, scaler.Mean, 1e-12)
	// 母集団標準偏差: sqrt(1.25)
	assert.InDeltaSlice(t, []float64{math.Sqrt(1.25), 10 * math.Sqrt(1.25)}, scaler.Scale, 1e-12)

	for j := 0; j < 2; j++ {
		col := mat.Col(nil, j, Xs)
		var sum, sumSq float64
		for _, v := range col {
			sum += v
			sumSq += v * v
		}
		assert.InDelta(t, 0.0, sum/4, 1e-12, "column %d mean", j)
		assert.InDelta(t, 1.0, sumSq/4, 1e-12, "column %d variance", j)
	}

	// 入力は変更されない
	assert.Equal(t, 1.0, X.At(0, 0))
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		5, 1,
		5, 2,
		5, 3,
	})

	scaler := NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, 1.0, scaler.Scale[0])
	assert.Equal(t, []float64{0, 0, 0}, mat.Col(nil, 0, Xs))
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, -2,
		4, 0,
		7, 9,
	})

	scaler := NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	back, err := scaler.InverseTransform(Xs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScaler_WithoutMeanOrStd(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})

	scaler := NewStandardScaler(false, false)
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	assert.Equal(t, []float64{0}, scaler.Mean)
	assert.Equal(t, []float64{1}, scaler.Scale)
	assert.True(t, mat.Equal(X, Xs))
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := NewStandardScalerDefault()

	_, err := scaler.Transform(mat.NewDense(1, 1, []float64{1}))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))

	err = scaler.Fit(&mat.Dense{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	_, err = scaler.Transform(mat.NewDense(1, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestStandardScaler_UnscaleCoef(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 0,
		2, 3,
		3, 1,
		4, 5,
	})
	scaler := NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	require.NoError(t, err)

	beta := []float64{0.7, -1.3}
	const yMean = 2.0
	coef, intercept, err := scaler.UnscaleCoef(beta, yMean)
	require.NoError(t, err)

	// 標準化空間と元の空間で同じ予測になる
	for i := 0; i < 4; i++ {
		scaled := yMean + beta[0]*Xs.At(i, 0) + beta[1]*Xs.At(i, 1)
		raw := intercept + coef[0]*X.At(i, 0) + coef[1]*X.At(i, 1)
		assert.InDelta(t, scaled, raw, 1e-12)
	}

	_, _, err = scaler.UnscaleCoef([]float64{1}, 0)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestNewStandardScalerFromParams(t *testing.T) {
	scaler, err := NewStandardScalerFromParams([]float64{1, 2}, []float64{2, 4})
	require.NoError(t, err)
	assert.True(t, scaler.IsFitted())

	Xs, err := scaler.Transform(mat.NewDense(1, 2, []float64{3, 10}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, mat.Row(nil, 0, Xs))

	_, err = NewStandardScalerFromParams([]float64{1}, []float64{0})
	var validation *errors.ValidationError
	assert.True(t, errors.As(err, &validation))

	_, err = NewStandardScalerFromParams([]float64{1, 2}, []float64{1})
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestCenterVector(t *testing.T) {
	y := mat.NewVecDense(4, []float64{1, 2, 3, 6})
	yc, mean := CenterVector(y)

	assert.Equal(t, 3.0, mean)
	assert.Equal(t, []float64{-2, -1, 0, 3}, yc.RawVector().Data)
	assert.Equal(t, 1.0, y.AtVec(0), "input must not be modified")

	empty, mean := CenterVector(&mat.VecDense{})
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0.0, mean)
}

func TestStandardScaler_LargeInput(t *testing.T) {
	n := parallelThreshold + 500
	X := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%7))
	}

	s := NewStandardScalerDefault()
	Xs, err := s.FitTransform(X)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		col := mat.Col(nil, j, Xs)
		var sum float64
		for _, v := range col {
			sum += v
		}
		assert.InDelta(t, 0, sum/float64(n), 1e-9)
	}

	back, err := s.InverseTransform(Xs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-9))
}

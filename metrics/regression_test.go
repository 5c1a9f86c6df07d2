package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/pkg/errors"
)

func TestSSEAndMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   *mat.VecDense
		yPred   *mat.VecDense
		wantSSE float64
		wantMSE float64
		wantErr error
	}{
		{
			name:    "perfect prediction",
			yTrue:   mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			yPred:   mat.NewVecDense(5, []float64{1, 2, 3, 4, 5}),
			wantSSE: 0,
			wantMSE: 0,
		},
		{
			name:    "simple case",
			yTrue:   mat.NewVecDense(4, []float64{1, 2, 3, 4}),
			yPred:   mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5}),
			wantSSE: 1.0,
			wantMSE: 0.25,
		},
		{
			name:    "larger errors",
			yTrue:   mat.NewVecDense(3, []float64{10, 20, 30}),
			yPred:   mat.NewVecDense(3, []float64{12, 18, 33}),
			wantSSE: 17,
			wantMSE: 17.0 / 3.0,
		},
		{
			name:    "dimension mismatch",
			yTrue:   mat.NewVecDense(3, []float64{1, 2, 3}),
			yPred:   mat.NewVecDense(2, []float64{1, 2}),
			wantErr: errors.ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sse, err := SSE(tt.yTrue, tt.yPred)
			mse, errMSE := MSE(tt.yTrue, tt.yPred)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(errMSE, tt.wantErr) {
					t.Fatalf("expected %v, got SSE err %v, MSE err %v", tt.wantErr, err, errMSE)
				}
				return
			}
			if err != nil || errMSE != nil {
				t.Fatalf("unexpected errors: %v, %v", err, errMSE)
			}
			if math.Abs(sse-tt.wantSSE) > 1e-10 {
				t.Errorf("SSE() = %v, want %v", sse, tt.wantSSE)
			}
			if math.Abs(mse-tt.wantMSE) > 1e-10 {
				t.Errorf("MSE() = %v, want %v", mse, tt.wantMSE)
			}
		})
	}
}

func TestSSE_EmptyVector(t *testing.T) {
	_, err := SSE(&mat.VecDense{}, &mat.VecDense{})
	var valueErr *errors.ValueError
	if !errors.As(err, &valueErr) {
		t.Errorf("expected ValueError, got %v", err)
	}
}

func TestMSEWithStdErr(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{0, 0, 0, 0})
	yPred := mat.NewVecDense(4, []float64{1, -1, 2, 0})

	// 二乗誤差 = [1, 1, 4, 0], 平均 1.5, 標本分散 3, 標準誤差 sqrt(3)/2
	mse, se, err := MSEWithStdErr(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mse-1.5) > 1e-12 {
		t.Errorf("mse = %v, want 1.5", mse)
	}
	if math.Abs(se-math.Sqrt(3)/2) > 1e-12 {
		t.Errorf("stderr = %v, want %v", se, math.Sqrt(3)/2)
	}

	mse, se, err = MSEWithStdErr(mat.NewVecDense(1, []float64{1}), mat.NewVecDense(1, []float64{3}))
	if err != nil || mse != 4 || se != 0 {
		t.Errorf("single sample: mse=%v se=%v err=%v", mse, se, err)
	}
}

func TestMSEMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	yPred := mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5})

	got, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.25) > 1e-10 {
		t.Errorf("MSEMatrix() = %v, want 0.25", got)
	}

	if _, err := MSEMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil)); err == nil {
		t.Error("multiple columns should error")
	}
	if _, err := MSEMatrix(yTrue, mat.NewDense(3, 1, nil)); !errors.Is(err, errors.ErrDimensionMismatch) {
		t.Errorf("row mismatch should be a dimension error, got %v", err)
	}
}

func TestRMSEAndMAE(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{10, 20, 30})
	yPred := mat.NewVecDense(3, []float64{12, 18, 33})

	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rmse-math.Sqrt(17.0/3.0)) > 1e-10 {
		t.Errorf("RMSE() = %v", rmse)
	}

	mae, err := MAE(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mae-7.0/3.0) > 1e-10 {
		t.Errorf("MAE() = %v", mae)
	}
}

func TestR2Score(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{name: "perfect", yTrue: []float64{1, 2, 3}, yPred: []float64{1, 2, 3}, want: 1},
		{name: "mean predictor", yTrue: []float64{1, 2, 3}, yPred: []float64{2, 2, 2}, want: 0},
		{name: "worse than mean", yTrue: []float64{1, 2, 3}, yPred: []float64{3, 2, 1}, want: -3},
		{name: "constant target", yTrue: []float64{2, 2, 2}, yPred: []float64{1, 2, 3}, wantErr: true},
		{name: "single sample", yTrue: []float64{2}, yPred: []float64{2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2Score(mat.NewVecDense(len(tt.yTrue), tt.yTrue), mat.NewVecDense(len(tt.yPred), tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Fatalf("R2Score() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("R2Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

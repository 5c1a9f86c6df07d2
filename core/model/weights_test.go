package model

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkoesdw/esl/pkg/errors"
)

func fittedWeights() *ModelWeights {
	return &ModelWeights{
		ModelType:       "PLSRegression",
		Version:         "1.0.0",
		Coefficients:    []float64{0.5, -0.25, 0.125},
		Intercept:       2.45,
		Features:        []string{"lcavol", "lweight", "age"},
		Hyperparameters: map[string]interface{}{"n_components": 2},
		Metadata:        map[string]interface{}{"status": "completed"},
		Scaling: &ScalingParams{
			Mean:  []float64{1, 2, 3},
			Scale: []float64{0.5, 1, 2},
		},
		IsFitted: true,
	}
}

func TestModelWeights_WriteRead(t *testing.T) {
	mw := fittedWeights()

	var buf bytes.Buffer
	_, err := mw.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"model_type": "PLSRegression"`)

	got, err := ReadModelWeights(&buf)
	require.NoError(t, err)
	assert.Equal(t, mw.Coefficients, got.Coefficients)
	assert.Equal(t, mw.Features, got.Features)
	assert.Equal(t, mw.Scaling, got.Scaling)
	assert.InDelta(t, 2.0, got.Hyperparameters["n_components"], 0)
}

func TestModelWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(mw *ModelWeights)
		wantErr error
	}{
		{name: "valid", mutate: func(*ModelWeights) {}},
		{name: "missing type", mutate: func(mw *ModelWeights) { mw.ModelType = "" }},
		{name: "missing version", mutate: func(mw *ModelWeights) { mw.Version = "" }},
		{name: "fitted without coefficients", mutate: func(mw *ModelWeights) { mw.Coefficients = nil; mw.Features = nil; mw.Scaling = nil }},
		{name: "unfitted with coefficients", mutate: func(mw *ModelWeights) { mw.IsFitted = false }},
		{
			name:    "feature names mismatch",
			mutate:  func(mw *ModelWeights) { mw.Features = mw.Features[:2] },
			wantErr: errors.ErrDimensionMismatch,
		},
		{
			name:    "scaling mismatch",
			mutate:  func(mw *ModelWeights) { mw.Scaling.Scale = []float64{1} },
			wantErr: errors.ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := fittedWeights()
			tt.mutate(mw)
			err := mw.Validate()
			if tt.name == "valid" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestModelWeights_FromJSONRejectsGarbage(t *testing.T) {
	var mw ModelWeights
	assert.Error(t, mw.FromJSON([]byte(`{"model_type":`)))
}

func TestModelWeights_Clone(t *testing.T) {
	mw := fittedWeights()
	clone := mw.Clone()

	clone.Coefficients[0] = 99
	clone.Scaling.Mean[0] = 99
	clone.Hyperparameters["n_components"] = 5

	assert.Equal(t, 0.5, mw.Coefficients[0])
	assert.Equal(t, 1.0, mw.Scaling.Mean[0])
	assert.Equal(t, 2, mw.Hyperparameters["n_components"])
}

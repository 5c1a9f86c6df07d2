package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abkoesdw/esl/model_selection"
	"github.com/abkoesdw/esl/pkg/errors"
)

func sampleResult() *model_selection.CVResult {
	return &model_selection.CVResult{
		Candidates: []int{0, 1, 2, 3},
		FoldMSE: [][]float64{
			{1.1, 0.6, 0.55, 0.5},
			{0.9, 0.5, 0.49, 0.5},
		},
		MeanMSE: []float64{1.0, 0.55, 0.52, 0.5},
		StdErr:  []float64{0.1, 0.05, 0.03, 0.0},
	}
}

func TestCVCurve(t *testing.T) {
	line := CVCurve(sampleResult(), 1, "PLS")
	require.NotNil(t, line)
	assert.Len(t, line.MultiSeries, 3)
	assert.Equal(t, "Mean", line.MultiSeries[0].Name)
}

func TestFoldCurves(t *testing.T) {
	line := FoldCurves(sampleResult(), "folds")
	assert.Len(t, line.MultiSeries, 2)
}

func TestRenderCVCurveHTML(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCVCurveHTML(&buf, sampleResult(), 1, "PLS components")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "PLS components")
	assert.Contains(t, out, "echarts")
}

func TestRenderCVCurveHTML_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCVCurveHTML(&buf, nil, 1, "x")
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	bad := sampleResult()
	bad.StdErr = bad.StdErr[:2]
	err = RenderCVCurveHTML(&buf, bad, 1, "x")
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
	assert.Zero(t, buf.Len())
}

func TestWriteCVCurvePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCVCurvePNG(&buf, sampleResult(), 1, "PLS"))
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])
}

func TestSaveCVCurvePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.png")
	require.NoError(t, SaveCVCurvePNG(path, sampleResult(), 2, "PLS"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = NewCVPlot(&model_selection.CVResult{}, 0, "empty")
	assert.Error(t, err)
}

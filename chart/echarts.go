// Package chart draws cross-validation error curves.
//
// The HTML charts use Apache ECharts through go-echarts; the static image uses
// gonum/plot.
package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/abkoesdw/esl/model_selection"
	"github.com/abkoesdw/esl/pkg/errors"
)

func checkResult(op string, res *model_selection.CVResult) error {
	if res == nil || len(res.MeanMSE) == 0 {
		return errors.NewModelError(op, "empty result", errors.ErrEmptyData)
	}
	if len(res.Candidates) != len(res.MeanMSE) || len(res.StdErr) != len(res.MeanMSE) {
		return errors.NewDimensionError(op, len(res.MeanMSE), len(res.StdErr), 0)
	}
	return nil
}

func candidateLabels(res *model_selection.CVResult) []string {
	labels := make([]string, len(res.Candidates))
	for i, m := range res.Candidates {
		labels[i] = strconv.Itoa(m)
	}
	return labels
}

// CVCurve generates an echart line chart of the mean CV error per candidate
// direction count with ±1 standard error bands and a marker at selected.
func CVCurve(res *model_selection.CVResult, selected int, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    title,
				Subtitle: fmt.Sprintf("selected M = %d", selected),
			},
		),
		charts.WithXAxisOpts(opts.XAxis{Name: "components"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "CV MSE"}),
	)

	lineDataMean := make([]opts.LineData, 0, len(res.MeanMSE))
	lineDataUpper := make([]opts.LineData, 0, len(res.MeanMSE))
	lineDataLower := make([]opts.LineData, 0, len(res.MeanMSE))
	for i := range res.MeanMSE {
		lineDataMean = append(lineDataMean, opts.LineData{Value: res.MeanMSE[i]})
		lineDataUpper = append(lineDataUpper, opts.LineData{Value: res.MeanMSE[i] + res.StdErr[i]})
		lineDataLower = append(lineDataLower, opts.LineData{Value: res.MeanMSE[i] - res.StdErr[i]})
	}

	line.SetXAxis(candidateLabels(res)).
		AddSeries("Mean", lineDataMean,
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  "selected",
				XAxis: strconv.Itoa(selected),
			}),
		).
		AddSeries("Upper", lineDataUpper).
		AddSeries("Lower", lineDataLower)
	return line
}

// FoldCurves generates an echart line chart with one series per fold.
func FoldCurves(res *model_selection.CVResult, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(opts.XAxis{Name: "components"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "fold MSE"}),
	)

	line.SetXAxis(candidateLabels(res))
	for k, fold := range res.FoldMSE {
		lineData := make([]opts.LineData, 0, len(fold))
		for _, v := range fold {
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line.AddSeries(fmt.Sprintf("Fold %d", k+1), lineData)
	}
	return line
}

// RenderCVCurveHTML writes an HTML page with the CV error curve and the
// per-fold curves to w.
func RenderCVCurveHTML(w io.Writer, res *model_selection.CVResult, selected int, title string) error {
	if err := checkResult("chart.RenderCVCurveHTML", res); err != nil {
		return err
	}

	return errors.SafeExecute("chart.RenderCVCurveHTML", func() error {
		page := components.NewPage()
		page.AddCharts(
			CVCurve(res, selected, title),
			FoldCurves(res, title+" (per fold)"),
		)
		if err := page.Render(w); err != nil {
			return errors.Wrap(err, "render CV curve")
		}
		return nil
	})
}

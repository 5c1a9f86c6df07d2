package chart

import (
	"image/color"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/abkoesdw/esl/model_selection"
	"github.com/abkoesdw/esl/pkg/errors"
)

const (
	pngWidth  = 6 * vg.Inch
	pngHeight = 4 * vg.Inch
)

// errorPoints implements plotter.XYer and plotter.YErrorer.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// NewCVPlot builds a gonum plot of the mean CV error with ±1 standard error
// bars and a dashed vertical line at selected.
func NewCVPlot(res *model_selection.CVResult, selected int, title string) (*plot.Plot, error) {
	if err := checkResult("chart.NewCVPlot", res); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "components"
	p.Y.Label.Text = "CV MSE"

	pts := errorPoints{
		XYs:     make(plotter.XYs, len(res.MeanMSE)),
		YErrors: make(plotter.YErrors, len(res.MeanMSE)),
	}
	for i := range res.MeanMSE {
		pts.XYs[i].X = float64(res.Candidates[i])
		pts.XYs[i].Y = res.MeanMSE[i]
		pts.YErrors[i].Low = res.StdErr[i]
		pts.YErrors[i].High = res.StdErr[i]
	}

	line, points, err := plotter.NewLinePoints(pts.XYs)
	if err != nil {
		return nil, errors.Wrap(err, "CV curve")
	}
	bars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, errors.Wrap(err, "CV error bars")
	}

	lo := make([]float64, len(res.MeanMSE))
	hi := make([]float64, len(res.MeanMSE))
	floats.SubTo(lo, res.MeanMSE, res.StdErr)
	floats.AddTo(hi, res.MeanMSE, res.StdErr)
	marker, err := plotter.NewLine(plotter.XYs{
		{X: float64(selected), Y: floats.Min(lo)},
		{X: float64(selected), Y: floats.Max(hi)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "selected marker")
	}
	marker.LineStyle.Color = color.RGBA{R: 200, A: 255}
	marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), line, points, bars, marker)
	p.Legend.Add("mean CV error", line, points)
	p.Legend.Add("selected", marker)
	p.Legend.Top = true
	return p, nil
}

// WriteCVCurvePNG renders the CV plot as PNG to w.
func WriteCVCurvePNG(w io.Writer, res *model_selection.CVResult, selected int, title string) error {
	p, err := NewCVPlot(res, selected, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return errors.Wrap(err, "png writer")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write png")
	}
	return nil
}

// SaveCVCurvePNG writes the CV plot as a PNG file at path.
func SaveCVCurvePNG(path string, res *model_selection.CVResult, selected int, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := WriteCVCurvePNG(f, res, selected, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Command plsfit fits a PLS1 regression on a delimited table, optionally
// choosing the number of directions by K-fold cross-validation with the
// one-standard-error rule, and compares it against least squares.
//
//	plsfit -data prostate.data -target lpsa -train-col train -index-col -components -1
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/profile"
	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/chart"
	"github.com/abkoesdw/esl/datasets"
	"github.com/abkoesdw/esl/linear"
	"github.com/abkoesdw/esl/metrics"
	"github.com/abkoesdw/esl/model_selection"
	"github.com/abkoesdw/esl/pkg/errors"
	"github.com/abkoesdw/esl/pkg/log"
	"github.com/abkoesdw/esl/pls"
)

type options struct {
	data       string
	target     string
	trainCol   string
	indexCol   bool
	whitespace bool
	sep        string

	components       int
	folds            int
	seed             uint64
	shuffle          bool
	sampleStd        bool
	failOnDegenerate bool

	logLevel  string
	logFormat string

	cvHTML   string
	cvPNG    string
	modelOut string
	profile  string
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	o := &options{}
	fs.StringVar(&o.data, "data", "", "Path to the delimited data file")
	fs.StringVar(&o.target, "target", "lpsa", "Name of the response column")
	fs.StringVar(&o.trainCol, "train-col", "", "Optional column of T/F flags marking training rows")
	fs.BoolVar(&o.indexCol, "index-col", false, "Drop the first column of every row")
	fs.BoolVar(&o.whitespace, "whitespace", false, "Split fields on runs of spaces and tabs")
	fs.StringVar(&o.sep, "sep", "\t", "Field separator")
	fs.IntVar(&o.components, "components", -1, "Number of PLS directions, -1 chooses by cross-validation")
	fs.IntVar(&o.folds, "folds", 10, "Number of cross-validation folds")
	fs.Uint64Var(&o.seed, "seed", 1, "Seed for fold shuffling")
	fs.BoolVar(&o.shuffle, "shuffle", true, "Shuffle rows before assigning folds")
	fs.BoolVar(&o.sampleStd, "sample-std", false, "Use the sample standard deviation for the CV standard error")
	fs.BoolVar(&o.failOnDegenerate, "fail-on-degenerate", false, "Fail instead of stopping early on a degenerate direction")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "json", "Log format: json or console")
	fs.StringVar(&o.cvHTML, "cv-html", "", "Write the CV curve as HTML to this path")
	fs.StringVar(&o.cvPNG, "cv-png", "", "Write the CV curve as PNG to this path")
	fs.StringVar(&o.modelOut, "model-out", "", "Write the fitted PLS model as JSON to this path")
	fs.StringVar(&o.profile, "profile", "", "Profile mode: cpu or mem")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.data == "" {
		return nil, errors.NewValidationError("data", "is required", o.data)
	}
	if len([]rune(o.sep)) != 1 {
		return nil, errors.NewValidationError("sep", "must be a single character", o.sep)
	}
	if o.components < -1 {
		return nil, errors.NewValidationError("components", "must be -1 or non-negative", o.components)
	}
	return o, nil
}

func setupLogging(o *options, w io.Writer) error {
	switch o.logFormat {
	case "json":
		return log.SetupLogger(w, o.logLevel)
	case "console":
		return log.SetupZerolog(w, o.logLevel, true)
	default:
		return errors.NewValidationError("log-format", "must be json or console", o.logFormat)
	}
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := setupLogging(o, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	switch o.profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	if err := run(o, os.Stdout); err != nil {
		log.GetLogger().Error("plsfit failed", err)
		return 1
	}
	return 0
}

func run(o *options, out io.Writer) error {
	logger := log.GetLogger().With(log.ComponentKey, "plsfit")

	ds, err := datasets.LoadFile(o.data, datasets.LoadConfig{
		Separator:   []rune(o.sep)[0],
		Whitespace:  o.whitespace,
		IndexColumn: o.indexCol,
		Target:      o.target,
		TrainColumn: o.trainCol,
	})
	if err != nil {
		return err
	}

	train, test := ds, (*datasets.Dataset)(nil)
	if ds.Train != nil {
		if train, test, err = ds.Split(); err != nil {
			return err
		}
	}
	_, p := train.X.Dims()
	logger.Info("data loaded",
		log.SamplesKey, train.Rows(),
		log.FeaturesKey, p,
		"test_samples", testRows(test),
	)

	plsOpts := []pls.Option{}
	if o.failOnDegenerate {
		plsOpts = append(plsOpts, pls.WithFailOnDegenerate())
	}

	components := o.components
	if components < 0 {
		components, err = chooseComponents(o, train, p, plsOpts, logger)
		if err != nil {
			return err
		}
	}

	reg := pls.NewPLSRegression(components, plsOpts...)
	reg.SetFeatureNames(train.FeatureNames)
	if err := reg.FitVec(train.X, train.Y); err != nil {
		return err
	}
	ols := linear.NewLinearRegression()
	if err := ols.Fit(train.X, train.Y); err != nil {
		return err
	}

	if err := writeCoefficients(out, train.FeatureNames, reg, ols); err != nil {
		return err
	}
	if test != nil {
		if err := writeTestErrors(out, test, reg, ols); err != nil {
			return err
		}
	}

	if o.modelOut != "" {
		f, err := os.Create(o.modelOut)
		if err != nil {
			return errors.Wrapf(err, "create %s", o.modelOut)
		}
		if err := reg.SaveJSON(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func testRows(d *datasets.Dataset) int {
	if d == nil {
		return 0
	}
	return d.Rows()
}

func chooseComponents(o *options, train *datasets.Dataset, p int, plsOpts []pls.Option, logger log.Logger) (int, error) {
	res, err := model_selection.CrossValidateComponents(
		pls.CVFitter{Options: plsOpts},
		train.X, train.Y,
		model_selection.Range(0, p),
		model_selection.NewKFold(o.folds, o.shuffle, o.seed),
		cvOptions(o)...,
	)
	if err != nil {
		return 0, err
	}
	selected, err := model_selection.OneStandardErrorRule(res)
	if err != nil {
		return 0, err
	}
	logger.Info("components selected", log.SelectedKey, selected, "folds", res.NFolds())

	title := fmt.Sprintf("PLS %d-fold CV error", res.NFolds())
	if o.cvHTML != "" {
		f, err := os.Create(o.cvHTML)
		if err != nil {
			return 0, errors.Wrapf(err, "create %s", o.cvHTML)
		}
		if err := chart.RenderCVCurveHTML(f, res, selected, title); err != nil {
			f.Close()
			return 0, err
		}
		if err := f.Close(); err != nil {
			return 0, err
		}
	}
	if o.cvPNG != "" {
		if err := chart.SaveCVCurvePNG(o.cvPNG, res, selected, title); err != nil {
			return 0, err
		}
	}
	return selected, nil
}

func cvOptions(o *options) []model_selection.CVOption {
	var opts []model_selection.CVOption
	if o.sampleStd {
		opts = append(opts, model_selection.WithSampleStd())
	}
	return opts
}

func writeCoefficients(out io.Writer, names []string, reg *pls.PLSRegression, ols *linear.LinearRegression) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "term\tPLS(M=%d)\tLS\t\n", reg.NComponents())
	fmt.Fprintf(w, "intercept\t%.3f\t%.3f\t\n", reg.Intercept(), ols.Intercept())
	plsCoef, olsCoef := reg.Coef(), ols.Coef()
	for j, name := range names {
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t\n", name, plsCoef[j], olsCoef[j])
	}
	fmt.Fprintf(w, "status\t%s\t\t\n", reg.Status())
	return w.Flush()
}

func writeTestErrors(out io.Writer, test *datasets.Dataset, reg *pls.PLSRegression, ols *linear.LinearRegression) error {
	plsPred, err := reg.PredictVec(test.X)
	if err != nil {
		return err
	}
	plsMSE, plsSE, err := metrics.MSEWithStdErr(test.Y, plsPred)
	if err != nil {
		return err
	}

	olsPredM, err := ols.Predict(test.X)
	if err != nil {
		return err
	}
	olsPred := mat.NewVecDense(test.Rows(), mat.Col(nil, 0, olsPredM))
	olsMSE, olsSE, err := metrics.MSEWithStdErr(test.Y, olsPred)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "\t\t\t\n")
	fmt.Fprintf(w, "test error\t%.3f\t%.3f\t\n", plsMSE, olsMSE)
	fmt.Fprintf(w, "std error\t%.3f\t%.3f\t\n", plsSE, olsSE)
	return w.Flush()
}

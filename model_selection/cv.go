package model_selection

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/abkoesdw/esl/core/model"
	"github.com/abkoesdw/esl/core/parallel"
	"github.com/abkoesdw/esl/pkg/errors"
	"github.com/abkoesdw/esl/pkg/log"
)

// CVResult holds held-out errors for every fold and candidate direction count.
type CVResult struct {
	// Candidates are the direction counts evaluated, in increasing order.
	Candidates []int
	// FoldMSE[k][i] is the test MSE of fold k for Candidates[i].
	FoldMSE [][]float64
	// MeanMSE[i] is the mean of FoldMSE[·][i] over folds.
	MeanMSE []float64
	// StdErr[i] is the standard deviation of FoldMSE[·][i] divided by the
	// square root of the number of folds.
	StdErr []float64
	// SampleStd reports whether StdErr uses the n-1 estimator.
	SampleStd bool
}

// NFolds returns the number of folds.
func (r *CVResult) NFolds() int {
	return len(r.FoldMSE)
}

// argmin returns the position of the smallest mean error. Ties go to the
// earlier candidate.
func (r *CVResult) argmin() int {
	return floats.MinIdx(r.MeanMSE)
}

// Best returns the candidate with the smallest mean CV error.
func (r *CVResult) Best() (int, error) {
	if r == nil || len(r.MeanMSE) == 0 {
		return 0, errors.NewModelError("CVResult.Best", "empty result", errors.ErrEmptyData)
	}
	return r.Candidates[r.argmin()], nil
}

// OneStandardErrorRule returns the smallest candidate whose mean CV error is
// at most the minimum mean error plus the standard error at the minimizer.
func OneStandardErrorRule(res *CVResult) (int, error) {
	if res == nil || len(res.MeanMSE) == 0 {
		return 0, errors.NewModelError("OneStandardErrorRule", "empty result", errors.ErrEmptyData)
	}
	if len(res.StdErr) != len(res.MeanMSE) || len(res.Candidates) != len(res.MeanMSE) {
		return 0, errors.NewDimensionError("OneStandardErrorRule", len(res.MeanMSE), len(res.StdErr), 0)
	}
	if !res.isFinite() {
		return 0, errors.NewValueError("OneStandardErrorRule", "mean CV errors must be finite")
	}

	best := res.argmin()
	threshold := res.MeanMSE[best] + res.StdErr[best]
	for i, mse := range res.MeanMSE {
		if mse <= threshold {
			return res.Candidates[i], nil
		}
	}
	return res.Candidates[best], nil
}

type cvConfig struct {
	sampleStd bool
	workers   int
	logger    log.Logger
}

// CVOption configures CrossValidateComponents.
type CVOption func(*cvConfig)

// WithSampleStd computes the standard error from the n-1 sample standard
// deviation of the fold errors instead of the population one.
func WithSampleStd() CVOption {
	return func(c *cvConfig) {
		c.sampleStd = true
	}
}

// WithWorkers limits the number of folds evaluated concurrently. Values below
// 1 mean one worker per CPU core.
func WithWorkers(n int) CVOption {
	return func(c *cvConfig) {
		c.workers = n
	}
}

// WithCVLogger sets the logger for per-fold records.
func WithCVLogger(l log.Logger) CVOption {
	return func(c *cvConfig) {
		c.logger = l
	}
}

// CrossValidateComponents fits fitter on the training rows of every fold for
// each candidate direction count and records the MSE on the held-out rows.
// Folds run concurrently; each fold works on its own row copies.
func CrossValidateComponents(fitter model.ComponentFitter, X mat.Matrix, y mat.Vector,
	candidates []int, splitter Splitter, opts ...CVOption) (*CVResult, error) {
	const op = "CrossValidateComponents"

	cfg := cvConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger().With(log.ComponentKey, "model_selection")
	}

	n, _ := X.Dims()
	if n == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError(op, n, y.Len(), 0)
	}
	if err := validateCandidates(candidates); err != nil {
		return nil, err
	}

	folds, err := splitter.Split(n)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	foldMSE := make([][]float64, len(folds))
	err = parallel.ForEach(len(folds), cfg.workers, func(k int) (err error) {
		defer errors.Recover(&err, fmt.Sprintf("%s fold %d", op, k))

		fold := folds[k]
		Xtr, ytr := TakeRows(X, fold.TrainIndices), TakeVec(y, fold.TrainIndices)
		Xte, yte := TakeRows(X, fold.TestIndices), TakeVec(y, fold.TestIndices)

		row := make([]float64, len(candidates))
		for i, m := range candidates {
			ev, err := fitter.FitComponents(Xtr, ytr, m)
			if err != nil {
				return errors.Wrapf(err, "fold %d, %d components", k, m)
			}
			_, mse, err := ev.Error(Xte, yte)
			if err != nil {
				return errors.Wrapf(err, "fold %d, %d components", k, m)
			}
			row[i] = mse
		}
		foldMSE[k] = row

		cfg.logger.Debug("fold evaluated",
			log.OperationKey, log.OperationCrossValidate,
			log.FoldKey, k,
			log.SamplesKey, len(fold.TrainIndices),
		)
		return nil
	})
	if err != nil {
		cfg.logger.Error("cross-validation failed", err, log.OperationKey, log.OperationCrossValidate)
		return nil, err
	}

	res := summarize(candidates, foldMSE, cfg.sampleStd)
	cfg.logger.Info("cross-validation completed",
		log.OperationKey, log.OperationCrossValidate,
		"folds", len(folds),
		"candidates", len(candidates),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// summarize computes the per-candidate mean and standard error over folds.
func summarize(candidates []int, foldMSE [][]float64, sampleStd bool) *CVResult {
	K := len(foldMSE)
	res := &CVResult{
		Candidates: append([]int(nil), candidates...),
		FoldMSE:    foldMSE,
		MeanMSE:    make([]float64, len(candidates)),
		StdErr:     make([]float64, len(candidates)),
		SampleStd:  sampleStd,
	}

	col := make([]float64, K)
	for i := range candidates {
		for k := 0; k < K; k++ {
			col[k] = foldMSE[k][i]
		}

		var mean, std float64
		switch {
		case sampleStd && K > 1:
			mean, std = stat.MeanStdDev(col, nil)
		case sampleStd:
			mean, std = col[0], 0
		default:
			mean, std = stat.PopMeanStdDev(col, nil)
		}
		res.MeanMSE[i] = mean
		res.StdErr[i] = stat.StdErr(std, float64(K))
	}
	return res
}

func validateCandidates(candidates []int) error {
	if len(candidates) == 0 {
		return errors.NewValidationError("candidates", "must not be empty", candidates)
	}
	for i, m := range candidates {
		if m < 0 {
			return errors.NewValidationError("candidates", "must be non-negative", m)
		}
		if i > 0 && m <= candidates[i-1] {
			return errors.NewValidationError("candidates", "must be strictly increasing", candidates)
		}
	}
	return nil
}

// Range returns the candidates lo, lo+1, ..., hi.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for m := lo; m <= hi; m++ {
		out = append(out, m)
	}
	return out
}

// isFinite reports whether every mean error is finite.
func (r *CVResult) isFinite() bool {
	for _, v := range r.MeanMSE {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

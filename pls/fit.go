// Package pls implements single-response partial least squares regression
// (PLS1).
//
// Fit expects a design matrix whose columns are already standardized and a
// centered response. It extracts latent directions one at a time, each
// maximizing covariance with the response over the residual of the design
// after deflation on all earlier directions. The coefficient vector is then
// recovered by projecting the accumulated fitted response onto the original
// design through the normal equations.
//
// PLSRegression wraps Fit with standardization and an intercept for callers
// working on raw data.
package pls

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/linear"
	"github.com/abkoesdw/esl/pkg/errors"
	"github.com/abkoesdw/esl/pkg/log"
)

// Fit extracts up to nComponents latent directions from X and y and returns
// the fitted model. X is n×p, standardized by the caller; y has length n and
// is centered by the caller. X is never modified.
//
// nComponents must lie in [0, p]. With nComponents == 0 the coefficients are
// all zero. If a direction is degenerate the model is built from the
// directions extracted before it and Status().Kind is DegenerateStop, unless
// WithFailOnDegenerate is given.
func Fit(X mat.Matrix, y mat.Vector, nComponents int, opts ...Option) (*Model, error) {
	cfg := newConfig(opts)
	return fit(X, y, nComponents, cfg)
}

// Fitter holds options so the same configuration can be reused across fits.
// The zero value is ready to use.
type Fitter struct {
	opts []Option
}

// NewFitter creates a Fitter applying opts on every call.
func NewFitter(opts ...Option) *Fitter {
	return &Fitter{opts: append([]Option(nil), opts...)}
}

// Fit calls Fit(X, y, nComponents) with the Fitter's options.
func (f *Fitter) Fit(X mat.Matrix, y mat.Vector, nComponents int) (*Model, error) {
	if f == nil {
		return Fit(X, y, nComponents)
	}
	return Fit(X, y, nComponents, f.opts...)
}

func fit(X mat.Matrix, y mat.Vector, nComponents int, cfg config) (*Model, error) {
	start := time.Now()

	res, err := extract(X, y, nComponents, cfg)
	if err != nil {
		return nil, err
	}

	// 係数は元の（デフレーション前の）X に対する最小二乗射影で求める
	beta, err := linear.SolveNormalEquations(X, res.yhat)
	if err != nil {
		cfg.logger.Error("coefficient recovery failed", err,
			log.OperationKey, log.OperationFit,
			log.ErrorCodeKey, log.ErrorSingularMatrix,
		)
		return nil, err
	}

	n, p := X.Dims()
	cfg.logger.Info("fit completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.ComponentsKey, nComponents,
		log.ReachedKey, res.status.Reached,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Model{coef: beta, status: res.status}, nil
}

// extraction is the state left after the direction loop.
type extraction struct {
	yhat       *mat.VecDense
	directions []*mat.VecDense
	status     Status
}

// extract validates the inputs and runs the deflation loop.
func extract(X mat.Matrix, y mat.Vector, nComponents int, cfg config) (*extraction, error) {
	const op = "pls.Fit"

	n, p := X.Dims()
	if n == 0 || p == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError(op, n, y.Len(), 0)
	}
	if nComponents < 0 || nComponents > p {
		return nil, errors.NewDirectionCountError(op, nComponents, p)
	}
	if err := errors.CheckMatrix(op, X, n, p, 0); err != nil {
		return nil, err
	}
	yv := mat.VecDenseCopyOf(y)
	if err := errors.CheckNumericalStability(op, yv.RawVector().Data, 0); err != nil {
		return nil, err
	}

	// 残差化された計画行列（呼び出し元の X とは共有しない）
	Xr := mat.DenseCopyOf(X)
	yhat := mat.NewVecDense(n, nil)

	res := &extraction{
		yhat:       yhat,
		directions: make([]*mat.VecDense, 0, nComponents),
		status:     Status{Kind: Completed, Requested: nComponents},
	}

	var (
		w   = mat.NewVecDense(p, nil)
		zx  = mat.NewVecDense(p, nil)
		zz1 float64
	)
	for m := 1; m <= nComponents; m++ {
		// w_j = <x_j, y>
		w.MulVec(Xr.T(), yv)

		// z = Σ_j w_j x_j
		z := mat.NewVecDense(n, nil)
		z.MulVec(Xr, w)

		zz := mat.Dot(z, z)
		if err := errors.CheckScalar(op, zz, m); err != nil {
			return nil, err
		}
		if m == 1 {
			zz1 = zz
		}
		if zz == 0 || (m > 1 && cfg.tolerance > 0 && zz <= cfg.tolerance*zz1) {
			res.status.Kind = DegenerateStop
			return res, degenerate(cfg, op, m, zz, nComponents)
		}

		theta := mat.Dot(z, yv) / zz
		yhat.AddScaledVec(yhat, theta, z)

		// x_j ← x_j - (<z, x_j>/<z, z>) z
		zx.MulVec(Xr.T(), z)
		Xr.RankOne(Xr, -1/zz, z, zx)

		res.directions = append(res.directions, z)
		res.status.Reached = m

		if cfg.logger.Enabled(context.Background(), log.LevelDebug) {
			cfg.logger.Debug("direction extracted",
				log.IterationKey, m,
				log.DirectionNormKey, zz,
				log.ThetaKey, theta,
			)
		}
	}

	return res, nil
}

// degenerate applies the degenerate-direction policy. It returns nil for the
// graceful early stop.
func degenerate(cfg config, op string, direction int, zz float64, requested int) error {
	reached := direction - 1
	if cfg.failOnDegenerate {
		err := errors.NewDegenerateDirectionError(op, direction, reached, zz)
		cfg.logger.Error("degenerate direction", err,
			log.ErrorCodeKey, log.ErrorDegenerateDirection,
			log.ReachedKey, reached,
		)
		return err
	}

	cfg.logger.Warn("stopping early on degenerate direction",
		log.ComponentsKey, requested,
		log.ReachedKey, reached,
		log.DirectionNormKey, zz,
	)
	errors.Warn(errors.NewConvergenceWarning("pls.Fit", reached,
		fmt.Sprintf("direction %d of %d is degenerate (squared norm %g)", direction, requested, zz)))
	return nil
}

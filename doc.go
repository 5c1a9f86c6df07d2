// Package esl provides partial least squares regression (PLS1) for Go,
// together with the tooling needed to choose the number of PLS directions
// by cross-validation and to compare the result against least squares.
//
// The fitter extracts directions by deflation: each direction is built from
// the covariance of the current residual design with the response, the fitted
// values are updated by regressing the response on it, and the design is
// orthogonalized against it before the next step. The final coefficient
// vector is recovered from the fitted values through the normal equations on
// the original design.
//
// # Features
//
//   - Deflation-based PLS1 with explicit early-stop status
//   - K-fold cross-validation with the one-standard-error rule
//   - Standardization and intercept handling for raw data
//   - JSON model persistence
//   - HTML and PNG cross-validation curves
//   - Structured logging with slog or zerolog backends
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/abkoesdw/esl/pls"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{1, 0, 0, 1, 1, 1, -1, -1})
//	    y := mat.NewVecDense(4, []float64{1, -1, 0.5, -0.5})
//
//	    m, err := pls.Fit(X, y, 2)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    sse, mse, err := m.Error(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(m.Coef(), sse, mse, m.Status())
//	}
//
// # Packages
//
//   - pls: PLS1 fitter, fitted model and the PLSRegression estimator
//   - model_selection: KFold, train/test split, component cross-validation
//   - linear: least squares baseline and the normal-equation solver
//   - preprocessing: StandardScaler and response centering
//   - metrics: SSE, MSE, RMSE, MAE, R²
//   - datasets: delimited table loader
//   - chart: cross-validation curves
//   - core/model: estimator interfaces, state and weight persistence
//   - core/parallel: fold-level parallel execution
//   - pkg/errors, pkg/log: error types and logging
//
// The plsfit command in cmd/plsfit wires these together for tables such as
// the prostate cancer data.
package esl

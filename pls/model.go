package pls

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/metrics"
	"github.com/abkoesdw/esl/pkg/errors"
)

// StopKind tells how direction extraction ended.
type StopKind int

const (
	// Completed means every requested direction was extracted.
	Completed StopKind = iota
	// DegenerateStop means extraction halted at a direction with zero
	// (or below tolerance) squared norm.
	DegenerateStop
)

func (k StopKind) String() string {
	switch k {
	case Completed:
		return "Completed"
	case DegenerateStop:
		return "DegenerateStop"
	default:
		return fmt.Sprintf("StopKind(%d)", int(k))
	}
}

// Status is the tagged outcome of a fit.
type Status struct {
	Kind StopKind
	// Reached is the number of directions that contributed to the fit.
	Reached int
	// Requested is the direction count passed to Fit.
	Requested int
}

func (s Status) String() string {
	return fmt.Sprintf("%s(%d/%d)", s.Kind, s.Reached, s.Requested)
}

// Model is a fitted PLS1 model: a dense coefficient vector over all p
// features of the training design. It stores no intercept; predictions are
// on the centered response scale.
//
// A Model is immutable and safe for concurrent use.
type Model struct {
	coef   *mat.VecDense
	status Status
}

// NewModel wraps an existing coefficient vector, e.g. one loaded from disk.
func NewModel(coef []float64) (*Model, error) {
	if len(coef) == 0 {
		return nil, errors.NewModelError("pls.NewModel", "empty coefficients", errors.ErrEmptyData)
	}
	if err := errors.CheckNumericalStability("pls.NewModel", coef, 0); err != nil {
		return nil, err
	}
	c := append([]float64(nil), coef...)
	return &Model{
		coef:   mat.NewVecDense(len(c), c),
		status: Status{Kind: Completed},
	}, nil
}

func (m *Model) requireFitted(method string) error {
	if m == nil || m.coef == nil {
		return errors.NewNotFittedError("pls.Model", method)
	}
	return nil
}

// Coef returns a copy of the coefficient vector.
func (m *Model) Coef() []float64 {
	if m == nil || m.coef == nil {
		return nil
	}
	return mat.Col(nil, 0, m.coef)
}

// NFeatures returns p, the length of the coefficient vector.
func (m *Model) NFeatures() int {
	if m == nil || m.coef == nil {
		return 0
	}
	return m.coef.Len()
}

// Status reports how the fit that produced m ended.
func (m *Model) Status() Status {
	if m == nil {
		return Status{}
	}
	return m.status
}

// Predict returns X·β. X must have as many columns as the model has
// coefficients.
func (m *Model) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := m.requireFitted("Predict"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != m.coef.Len() {
		return nil, errors.NewDimensionError("pls.Model.Predict", m.coef.Len(), c, 1)
	}
	if r == 0 {
		return &mat.VecDense{}, nil
	}

	pred := mat.NewVecDense(r, nil)
	pred.MulVec(X, m.coef)
	return pred, nil
}

// Error returns the sum of squared residuals of Predict(X) against y and the
// same sum divided by the number of rows.
func (m *Model) Error(X mat.Matrix, y mat.Vector) (sse, mse float64, err error) {
	if err := m.requireFitted("Error"); err != nil {
		return 0, 0, err
	}

	r, c := X.Dims()
	if c != m.coef.Len() {
		return 0, 0, errors.NewDimensionError("pls.Model.Error", m.coef.Len(), c, 1)
	}
	if y.Len() != r {
		return 0, 0, errors.NewDimensionError("pls.Model.Error", r, y.Len(), 0)
	}
	if r == 0 {
		return 0, 0, errors.NewModelError("pls.Model.Error", "empty data", errors.ErrEmptyData)
	}

	pred, err := m.Predict(X)
	if err != nil {
		return 0, 0, err
	}
	sse, err = metrics.SSE(y, pred)
	if err != nil {
		return 0, 0, err
	}
	return sse, sse / float64(r), nil
}

package pls

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/abkoesdw/esl/core/model"
	"github.com/abkoesdw/esl/metrics"
	"github.com/abkoesdw/esl/pkg/errors"
	"github.com/abkoesdw/esl/pkg/log"
	"github.com/abkoesdw/esl/preprocessing"
)

const (
	modelType    = "PLSRegression"
	modelVersion = "1.0.0"
)

// PLSRegression fits PLS1 on raw data. It standardizes X with the training
// column means and population standard deviations, centers y, and adds the
// training mean of y back to every prediction.
//
//	reg := pls.NewPLSRegression(3)
//	if err := reg.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := reg.Predict(Xtest)
type PLSRegression struct {
	state *model.StateManager
	cfg   config

	nComponents int

	scaler    *preprocessing.StandardScaler
	model     *Model
	intercept float64
	features  []string
}

// NewPLSRegression creates an unfitted PLSRegression extracting nComponents
// directions.
func NewPLSRegression(nComponents int, opts ...Option) *PLSRegression {
	return &PLSRegression{
		state:       model.NewStateManager(),
		cfg:         newConfig(opts),
		nComponents: nComponents,
	}
}

// Fit learns the scaling and the coefficients from X (n×p) and y (n×1).
func (r *PLSRegression) Fit(X, y mat.Matrix) error {
	ry, cy := y.Dims()
	if cy != 1 {
		return errors.NewValueError("PLSRegression.Fit", "y must be a column vector")
	}
	return r.FitVec(X, mat.NewVecDense(ry, mat.Col(nil, 0, y)))
}

// FitVec is Fit with the response given as a vector.
func (r *PLSRegression) FitVec(X mat.Matrix, y mat.Vector) error {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.NewModelError("PLSRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != n {
		return errors.NewDimensionError("PLSRegression.Fit", n, y.Len(), 0)
	}

	scaler := preprocessing.NewStandardScalerDefault()
	Xs, err := scaler.FitTransform(X)
	if err != nil {
		return err
	}
	yc, yMean := preprocessing.CenterVector(y)

	m, err := fit(Xs, yc, r.nComponents, r.cfg)
	if err != nil {
		return err
	}

	r.scaler = scaler
	r.model = m
	r.intercept = yMean
	r.state.SetFitted(p, n)

	r.cfg.logger.Debug("PLSRegression fitted",
		log.ModelNameKey, modelType,
		log.ComponentsKey, r.nComponents,
		log.ReachedKey, m.Status().Reached,
	)
	return nil
}

// PredictVec returns the predictions for X on the original response scale.
func (r *PLSRegression) PredictVec(X mat.Matrix) (*mat.VecDense, error) {
	if err := r.state.RequireFitted(modelType, "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := r.state.RequireFeatures("PLSRegression.Predict", c); err != nil {
		return nil, err
	}

	Xs, err := r.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	pred, err := r.model.Predict(Xs)
	if err != nil {
		return nil, err
	}
	for i := 0; i < pred.Len(); i++ {
		pred.SetVec(i, pred.AtVec(i)+r.intercept)
	}
	return pred, nil
}

// Predict returns the predictions for X as an n×1 matrix.
func (r *PLSRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	return r.PredictVec(X)
}

// Error returns the sum of squared residuals on the original response scale
// and the same sum divided by the number of rows.
func (r *PLSRegression) Error(X mat.Matrix, y mat.Vector) (sse, mse float64, err error) {
	if err := r.state.RequireFitted(modelType, "Error"); err != nil {
		return 0, 0, err
	}
	n, _ := X.Dims()
	if y.Len() != n {
		return 0, 0, errors.NewDimensionError("PLSRegression.Error", n, y.Len(), 0)
	}

	pred, err := r.PredictVec(X)
	if err != nil {
		return 0, 0, err
	}
	sse, err = metrics.SSE(y, pred)
	if err != nil {
		return 0, 0, err
	}
	return sse, sse / float64(n), nil
}

// Score returns the coefficient of determination R² of the predictions.
func (r *PLSRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// Model returns the underlying model on the standardized scale, or nil before
// Fit.
func (r *PLSRegression) Model() *Model {
	return r.model
}

// Coef returns the coefficients on the original feature scale.
func (r *PLSRegression) Coef() []float64 {
	if !r.state.IsFitted() {
		return nil
	}
	coef, _, err := r.scaler.UnscaleCoef(r.model.Coef(), r.intercept)
	if err != nil {
		return nil
	}
	return coef
}

// StandardizedCoef returns the coefficients on the standardized scale.
func (r *PLSRegression) StandardizedCoef() []float64 {
	return r.model.Coef()
}

// Intercept returns the intercept for the original feature scale.
func (r *PLSRegression) Intercept() float64 {
	if !r.state.IsFitted() {
		return 0
	}
	_, intercept, err := r.scaler.UnscaleCoef(r.model.Coef(), r.intercept)
	if err != nil {
		return 0
	}
	return intercept
}

// ResponseMean returns the training mean of y.
func (r *PLSRegression) ResponseMean() float64 {
	return r.intercept
}

// Status reports how the last fit ended.
func (r *PLSRegression) Status() Status {
	return r.model.Status()
}

// NComponents returns the requested direction count.
func (r *PLSRegression) NComponents() int {
	return r.nComponents
}

// SetFeatureNames attaches column names that are written with the weights.
func (r *PLSRegression) SetFeatureNames(names []string) {
	r.features = append([]string(nil), names...)
}

// ExportWeights returns the fitted state in serializable form.
func (r *PLSRegression) ExportWeights() (*model.ModelWeights, error) {
	if err := r.state.RequireFitted(modelType, "ExportWeights"); err != nil {
		return nil, err
	}

	status := r.model.Status()
	mw := &model.ModelWeights{
		ModelType:    modelType,
		Version:      modelVersion,
		Coefficients: r.model.Coef(),
		Intercept:    r.intercept,
		Features:     append([]string(nil), r.features...),
		Hyperparameters: map[string]interface{}{
			"n_components":         r.nComponents,
			"fail_on_degenerate":   r.cfg.failOnDegenerate,
			"degenerate_tolerance": r.cfg.tolerance,
		},
		Metadata: map[string]interface{}{
			"status":  status.Kind.String(),
			"reached": status.Reached,
		},
		Scaling: &model.ScalingParams{
			Mean:  append([]float64(nil), r.scaler.Mean...),
			Scale: append([]float64(nil), r.scaler.Scale...),
		},
		IsFitted: true,
	}
	return mw, mw.Validate()
}

// ImportWeights restores a model saved with ExportWeights. Coefficients are
// on the standardized scale and Intercept is the training mean of y.
func (r *PLSRegression) ImportWeights(mw *model.ModelWeights) error {
	if mw == nil {
		return errors.NewValueError("PLSRegression.ImportWeights", "weights cannot be nil")
	}
	if err := mw.Validate(); err != nil {
		return err
	}
	if mw.ModelType != modelType {
		return errors.NewValidationError("model_type", "must be "+modelType, mw.ModelType)
	}
	if !mw.IsFitted {
		return errors.NewValidationError("is_fitted", "weights are not fitted", mw.IsFitted)
	}
	if mw.Scaling == nil {
		return errors.NewValidationError("scaling", "is required", nil)
	}

	scaler, err := preprocessing.NewStandardScalerFromParams(mw.Scaling.Mean, mw.Scaling.Scale)
	if err != nil {
		return err
	}
	m, err := NewModel(mw.Coefficients)
	if err != nil {
		return err
	}
	if v, ok := intValue(mw.Hyperparameters["n_components"]); ok {
		r.nComponents = v
	}
	m.status.Requested = r.nComponents
	m.status.Reached = r.nComponents
	if v, ok := intValue(mw.Metadata["reached"]); ok {
		m.status.Reached = v
	}
	if v, ok := mw.Metadata["status"].(string); ok && v == DegenerateStop.String() {
		m.status.Kind = DegenerateStop
	}

	r.scaler = scaler
	r.model = m
	r.intercept = mw.Intercept
	r.features = append([]string(nil), mw.Features...)
	r.state.SetFitted(len(mw.Coefficients), 0)
	return nil
}

// intValue accepts both in-memory ints and JSON-decoded numbers.
func intValue(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

// SaveJSON writes the fitted weights as JSON to w.
func (r *PLSRegression) SaveJSON(w io.Writer) error {
	mw, err := r.ExportWeights()
	if err != nil {
		return err
	}
	_, err = mw.WriteTo(w)
	return err
}

// LoadJSON reads weights written by SaveJSON.
func (r *PLSRegression) LoadJSON(rd io.Reader) error {
	mw, err := model.ReadModelWeights(rd)
	if err != nil {
		return err
	}
	return r.ImportWeights(mw)
}

// CVFitter implements model.ComponentFitter with a fresh PLSRegression per
// call, so each cross-validation fold is standardized on its own rows.
type CVFitter struct {
	Options []Option
}

// FitComponents fits a PLSRegression with nComponents directions.
func (f CVFitter) FitComponents(X mat.Matrix, y mat.Vector, nComponents int) (model.ErrorEvaluator, error) {
	reg := NewPLSRegression(nComponents, f.Options...)
	if err := reg.FitVec(X, y); err != nil {
		return nil, err
	}
	return reg, nil
}

var (
	_ model.Regressor       = (*PLSRegression)(nil)
	_ model.ErrorEvaluator  = (*PLSRegression)(nil)
	_ model.ErrorEvaluator  = (*Model)(nil)
	_ model.ComponentFitter = CVFitter{}
)

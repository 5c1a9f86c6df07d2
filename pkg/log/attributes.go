// Package log defines standard attribute keys.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples") so
// that records from different estimators can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "PLSRegression".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "cross_validate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// FoldKey identifies a cross-validation fold.
	FoldKey = "data.fold"
)

// Performance and Training
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records a loss value such as a mean squared error.
	LossKey = "metrics.loss"

	// R2ScoreKey records the coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// IterationKey records the current iteration number.
	IterationKey = "training.iteration"
)

// PLS specific
const (
	// ComponentsKey records the requested number of latent directions.
	ComponentsKey = "pls.components"

	// ReachedKey records the number of directions actually extracted.
	ReachedKey = "pls.reached"

	// DirectionNormKey records the squared norm of a latent direction.
	DirectionNormKey = "pls.direction_norm"

	// ThetaKey records the regression coefficient of the response on a direction.
	ThetaKey = "pls.theta"

	// SelectedKey records the direction count chosen by model selection.
	SelectedKey = "selection.components"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit           = "fit"
	OperationPredict       = "predict"
	OperationScore         = "score"
	OperationCrossValidate = "cross_validate"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseTesting    = "testing"

	ErrorNotFitted           = "NOT_FITTED"
	ErrorDimensionMismatch   = "DIMENSION_MISMATCH"
	ErrorEmptyData           = "EMPTY_DATA"
	ErrorInvalidInput        = "INVALID_INPUT"
	ErrorDegenerateDirection = "DEGENERATE_DIRECTION"
	ErrorSingularMatrix      = "SINGULAR_MATRIX"
)

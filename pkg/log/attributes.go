// Package log defines standard attribute keys for tree induction and inference.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that records from the builder, the estimator wrapper and
// the CLI can be filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model, e.g. "DecisionTreeClassifier".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a specific estimator instance (a UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "predict_proba", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is logging, e.g. "tree.builder".
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey is the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns without the label).
	FeaturesKey = "data.features"

	// ClassesKey is the number of distinct class labels.
	ClassesKey = "data.classes"

	// SourceKey names where a dataset was loaded from (file path or table).
	SourceKey = "data.source"
)

// Tree Structure
const (
	// DepthKey is the depth of a node or the maximum depth of a tree.
	DepthKey = "tree.depth"

	// LeavesKey is the number of leaves of a fitted tree.
	LeavesKey = "tree.leaves"

	// FeatureIndexKey is the feature a decision node splits on.
	FeatureIndexKey = "tree.feature_index"

	// ThresholdKey is the threshold of a decision node.
	ThresholdKey = "tree.threshold"

	// GainKey is the information gain recorded by a decision node.
	GainKey = "tree.gain"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records model accuracy, range [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Hyperparameters and Configuration
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// CriterionKey is the impurity criterion in use ("gini" or "entropy").
	CriterionKey = "hyperparams.criterion"

	// MaxDepthKey is the configured max_depth.
	MaxDepthKey = "hyperparams.max_depth"

	// MinSamplesSplitKey is the configured min_samples_split.
	MinSamplesSplitKey = "hyperparams.min_samples_split"

	// ConfigPathKey is the configuration file in use.
	ConfigPathKey = "config.path"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationPredictProba = "predict_proba"
	OperationScore        = "score"

	PhaseTraining  = "training"
	PhaseTesting   = "testing"
	PhaseInference = "inference"
	PhaseLoading   = "loading"

	ErrorNotFitted      = "NOT_FITTED"
	ErrorInvalidDataset = "INVALID_DATASET"
	ErrorOutOfRange     = "OUT_OF_RANGE"
	ErrorInvalidInput   = "INVALID_INPUT"
)

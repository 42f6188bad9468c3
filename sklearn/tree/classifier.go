package tree

import (
	"math"
	"math/bits"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/YuminosukeSato/cart/core/model"
	"github.com/YuminosukeSato/cart/core/parallel"
	"github.com/YuminosukeSato/cart/metrics"
	"github.com/YuminosukeSato/cart/pkg/errors"
	"github.com/YuminosukeSato/cart/pkg/log"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

const modelName = "DecisionTreeClassifier"

// unlimitedDepth stands in for max_depth=-1. No tree trained in memory gets
// anywhere near it.
const unlimitedDepth = math.MaxInt32

// predictParallelThreshold is the batch size below which prediction stays on
// the calling goroutine.
const predictParallelThreshold = 512

// DecisionTreeClassifier is a CART classifier with a scikit-learn style API.
type DecisionTreeClassifier struct {
	state *model.StateManager // State management (composition)
	id    uuid.UUID

	// Hyperparameters
	criterion       string // "gini" or "entropy"
	maxDepth        int    // -1 means unlimited
	minSamplesSplit int    // Minimum rows required to split a node
	minSamplesLeaf  int    // Minimum rows on each side of a split
	nJobs           int    // Workers for build and batch prediction, -1 for all CPUs

	// Model parameters
	tree                *Tree
	classes_            []int     // Sorted unique class labels
	nClasses_           int       // Number of classes
	nFeatures_          int       // Number of features
	featureImportances_ []float64 // Normalized weighted impurity decrease

	logger log.Logger
	mu     sync.RWMutex
}

var (
	_ model.Classifier      = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter = (*DecisionTreeClassifier)(nil)
)

// Option is a functional option for DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates a new DecisionTreeClassifier.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		id:              uuid.New(),
		criterion:       CriterionGini,
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		nJobs:           1,
	}

	for _, opt := range opts {
		opt(dt)
	}

	if dt.logger == nil {
		dt.logger = log.GetLoggerWithName("tree.classifier")
	}
	dt.logger = dt.logger.With(
		log.ModelNameKey, modelName,
		log.EstimatorIDKey, dt.id.String(),
	)

	return dt
}

// WithCriterion sets the impurity criterion ("gini" or "entropy").
func WithCriterion(criterion string) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth sets the maximum depth. -1 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of rows required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of rows in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesLeaf = n
	}
}

// WithNJobs sets the number of workers. Zero or -1 uses every CPU.
func WithNJobs(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.nJobs = n
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.logger = l
	}
}

// Fit builds the tree from X (n_samples x n_features) and y (n_samples x 1).
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	ds, err := DatasetFromMatrix(X, y)
	if err != nil {
		return err
	}

	params := dt.snapshot()
	maxDepth := params.maxDepth
	if maxDepth < 0 {
		maxDepth = unlimitedDepth
	}

	tree, err := NewTree(params.minSamplesSplit, maxDepth,
		WithTreeCriterion(params.criterion),
		WithTreeMinSamplesLeaf(params.minSamplesLeaf),
		WithTreeParallelDepth(parallelDepthFor(params.workers())),
		WithTreeLogger(dt.logger),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	root, err := tree.Build(ds)
	if err != nil {
		return errors.Wrap(err, "DecisionTreeClassifier.Fit")
	}

	_, classCount := majority(ds.Labels())
	classes := sortedKeys(classCount)

	dt.mu.Lock()
	dt.tree = tree
	dt.classes_ = classes
	dt.nClasses_ = len(classes)
	dt.nFeatures_ = ds.NumFeatures()
	dt.featureImportances_ = featureImportances(root, ds.NumFeatures())
	dt.mu.Unlock()

	dt.state.SetFitted(ds.NumFeatures(), ds.NumSamples())

	if _, isLeaf := root.(*Leaf); isLeaf && len(classes) > 1 {
		errors.Warn(errors.NewDegenerateTreeWarning(len(classes), ds.NumSamples(), params.degenerateReason(ds.NumSamples())))
	}

	dt.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, ds.NumSamples(),
		log.FeaturesKey, ds.NumFeatures(),
		log.ClassesKey, len(classes),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (p hyperParams) degenerateReason(nSamples int) string {
	switch {
	case p.maxDepth == 0:
		return "max_depth is 0"
	case nSamples < p.minSamplesSplit:
		return "min_samples_split exceeds the number of samples"
	default:
		return "no split reduces impurity"
	}
}

// Predict returns the predicted class of each row of X as an n x 1 matrix.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	leaves, err := dt.applyAll(X, "Predict")
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(len(leaves), 1, nil)
	for i, leaf := range leaves {
		out.Set(i, 0, float64(leaf.Value))
	}
	return out, nil
}

// PredictProba returns, for each row of X, the class frequencies of the leaf
// it reaches. Columns follow Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	leaves, err := dt.applyAll(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	classes := dt.Classes()
	column := make(map[int]int, len(classes))
	for j, c := range classes {
		column[c] = j
	}

	out := mat.NewDense(len(leaves), len(classes), nil)
	for i, leaf := range leaves {
		for label, count := range leaf.Counts {
			out.Set(i, column[label], errors.SafeDivide(float64(count), float64(leaf.NSamples)))
		}
	}
	return out, nil
}

// Score returns the accuracy on X and y. It returns 0 if prediction fails.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) float64 {
	pred, err := dt.Predict(X)
	if err != nil {
		dt.logger.Warn("Score failed", err, log.OperationKey, log.OperationScore)
		return 0
	}
	acc, err := metrics.AccuracyMatrix(y, pred)
	if err != nil {
		dt.logger.Warn("Score failed", err, log.OperationKey, log.OperationScore)
		return 0
	}
	return acc
}

func (dt *DecisionTreeClassifier) applyAll(X mat.Matrix, op string) ([]*Leaf, error) {
	if err := dt.state.RequireFitted(modelName, op); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	dt.mu.RLock()
	tree, expected, nJobs := dt.tree, dt.nFeatures_, dt.nJobs
	dt.mu.RUnlock()
	if nFeatures != expected {
		return nil, errors.NewDimensionError(op, expected, nFeatures, 1)
	}

	leaves := make([]*Leaf, nSamples)
	var (
		errMu    sync.Mutex
		firstErr error
	)
	parallel.ParallelizeWithThreshold(nSamples, predictParallelThreshold, hyperParams{nJobs: nJobs}.workers(), func(start, end int) {
		row := make([]float64, nFeatures)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			err := errors.CheckNumericalStability(op, row, i)
			var leaf *Leaf
			if err == nil {
				leaf, err = tree.Apply(row)
			}
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			leaves[i] = leaf
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	logOp := log.OperationPredict
	if op == "PredictProba" {
		logOp = log.OperationPredictProba
	}
	dt.logger.Debug("Prediction completed",
		log.OperationKey, logOp,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, nSamples,
	)
	return leaves, nil
}

// hyperParams is a consistent copy of the estimator's hyperparameters.
type hyperParams struct {
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	nJobs           int
}

func (dt *DecisionTreeClassifier) snapshot() hyperParams {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	return hyperParams{
		criterion:       dt.criterion,
		maxDepth:        dt.maxDepth,
		minSamplesSplit: dt.minSamplesSplit,
		minSamplesLeaf:  dt.minSamplesLeaf,
		nJobs:           dt.nJobs,
	}
}

func (p hyperParams) workers() int {
	if p.nJobs <= 0 {
		return runtime.NumCPU()
	}
	return p.nJobs
}

// parallelDepthFor returns the depth above which subtrees are grown
// concurrently so that roughly workers goroutines are busy.
func parallelDepthFor(workers int) int {
	if workers <= 1 {
		return 0
	}
	return bits.Len(uint(workers - 1))
}

// featureImportances sums NSamples*Gain per feature over every decision node
// and normalizes the result to sum to 1. A single-leaf tree yields all zeros.
func featureImportances(root Node, nFeatures int) []float64 {
	imp := make([]float64, nFeatures)
	walk(root, 0, func(n Node, _ int) {
		if d, ok := n.(*Decision); ok {
			imp[d.FeatureIndex] += float64(d.NSamples) * d.Gain
		}
	})

	total := 0.0
	for _, v := range imp {
		total += v
	}
	for i := range imp {
		imp[i] = errors.SafeDivide(imp[i], total)
	}
	return imp
}

// Classes returns the sorted class labels seen during Fit.
func (dt *DecisionTreeClassifier) Classes() []int {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	out := make([]int, len(dt.classes_))
	copy(out, dt.classes_)
	return out
}

// GetFeatureImportances returns the normalized importance of each feature.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	out := make([]float64, len(dt.featureImportances_))
	copy(out, dt.featureImportances_)
	return out
}

// GetDepth returns the depth of the fitted tree, or 0 if not fitted.
func (dt *DecisionTreeClassifier) GetDepth() int {
	root := dt.Root()
	if root == nil {
		return 0
	}
	return Depth(root)
}

// GetNLeaves returns the number of leaves of the fitted tree.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	return NumLeaves(dt.Root())
}

// Root returns the root of the fitted tree, or nil if not fitted.
func (dt *DecisionTreeClassifier) Root() Node {
	dt.mu.RLock()
	defer dt.mu.RUnlock()
	if dt.tree == nil {
		return nil
	}
	return dt.tree.Root()
}

// ID returns the estimator's unique identifier.
func (dt *DecisionTreeClassifier) ID() uuid.UUID {
	return dt.id
}

// IsFitted reports whether Fit has completed.
func (dt *DecisionTreeClassifier) IsFitted() bool {
	return dt.state.IsFitted()
}

// GetParams returns the hyperparameters.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	p := dt.snapshot()
	return map[string]interface{}{
		"criterion":         p.criterion,
		"max_depth":         p.maxDepth,
		"min_samples_split": p.minSamplesSplit,
		"min_samples_leaf":  p.minSamplesLeaf,
		"n_jobs":            p.nJobs,
	}
}

// SetParams sets hyperparameters by name. It does not refit.
// Either every parameter is applied or, on error, none is.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := dt.snapshot()
	for _, key := range keys {
		value := params[key]
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			if _, err := CriterionByName(s); err != nil {
				return err
			}
			p.criterion = s
		case "max_depth", "min_samples_split", "min_samples_leaf", "n_jobs":
			n, ok := toInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			switch key {
			case "max_depth":
				p.maxDepth = n
			case "min_samples_split":
				p.minSamplesSplit = n
			case "min_samples_leaf":
				p.minSamplesLeaf = n
			case "n_jobs":
				p.nJobs = n
			}
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}

	dt.mu.Lock()
	dt.criterion = p.criterion
	dt.maxDepth = p.maxDepth
	dt.minSamplesSplit = p.minSamplesSplit
	dt.minSamplesLeaf = p.minSamplesLeaf
	dt.nJobs = p.nJobs
	dt.mu.Unlock()
	return nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

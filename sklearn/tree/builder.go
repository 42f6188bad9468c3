package tree

import (
	"context"
	"sync"
	"time"

	"github.com/YuminosukeSato/cart/pkg/errors"
	"github.com/YuminosukeSato/cart/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Tree grows a binary classification tree and predicts with it.
//
// Hyperparameters are fixed by NewTree. Build may be called repeatedly; each
// call replaces the root. A built tree is safe for concurrent prediction.
type Tree struct {
	minSamplesSplit int
	maxDepth        int
	minSamplesLeaf  int
	parallelDepth   int
	criterion       Criterion
	logger          log.Logger

	mu        sync.RWMutex
	root      Node
	nFeatures int
}

// TreeOption configures a Tree.
type TreeOption func(*treeSettings)

type treeSettings struct {
	criterion      string
	minSamplesLeaf int
	parallelDepth  int
	logger         log.Logger
}

// WithTreeCriterion selects the impurity criterion, "gini" (default) or "entropy".
func WithTreeCriterion(name string) TreeOption {
	return func(s *treeSettings) {
		s.criterion = name
	}
}

// WithTreeMinSamplesLeaf sets the minimum number of rows on each side of a split.
func WithTreeMinSamplesLeaf(n int) TreeOption {
	return func(s *treeSettings) {
		s.minSamplesLeaf = n
	}
}

// WithTreeParallelDepth grows the two subtrees of every node shallower than
// depth on separate goroutines. Zero builds sequentially.
func WithTreeParallelDepth(depth int) TreeOption {
	return func(s *treeSettings) {
		s.parallelDepth = depth
	}
}

// WithTreeLogger sets the logger used during Build.
func WithTreeLogger(l log.Logger) TreeOption {
	return func(s *treeSettings) {
		s.logger = l
	}
}

// NewTree returns an unbuilt Tree.
//
// A node with fewer than minSamplesSplit rows becomes a leaf, as does any node
// at depth maxDepth. Values 0 and 1 for minSamplesSplit behave like 2.
func NewTree(minSamplesSplit, maxDepth int, opts ...TreeOption) (*Tree, error) {
	s := treeSettings{
		criterion:      CriterionGini,
		minSamplesLeaf: 1,
	}
	for _, opt := range opts {
		opt(&s)
	}

	if minSamplesSplit < 0 {
		return nil, errors.NewValidationError("min_samples_split", "must be non-negative", minSamplesSplit)
	}
	if maxDepth < 0 {
		return nil, errors.NewValidationError("max_depth", "must be non-negative", maxDepth)
	}
	if s.minSamplesLeaf < 1 {
		return nil, errors.NewValidationError("min_samples_leaf", "must be at least 1", s.minSamplesLeaf)
	}
	if s.parallelDepth < 0 {
		return nil, errors.NewValidationError("parallel_depth", "must be non-negative", s.parallelDepth)
	}
	criterion, err := CriterionByName(s.criterion)
	if err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = log.GetLoggerWithName("tree.builder")
	}

	return &Tree{
		minSamplesSplit: minSamplesSplit,
		maxDepth:        maxDepth,
		minSamplesLeaf:  s.minSamplesLeaf,
		parallelDepth:   s.parallelDepth,
		criterion:       criterion,
		logger:          s.logger,
	}, nil
}

// MinSamplesSplit returns the configured min_samples_split.
func (t *Tree) MinSamplesSplit() int { return t.minSamplesSplit }

// MaxDepth returns the configured max_depth.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Criterion returns the impurity criterion in use.
func (t *Tree) Criterion() Criterion { return t.criterion }

// Root returns the root of the last successful Build, or nil.
func (t *Tree) Root() Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// BuildRows validates rows and builds from them.
func (t *Tree) BuildRows(rows [][]float64) (Node, error) {
	ds, err := NewDataset(rows)
	if err != nil {
		return nil, err
	}
	return t.Build(ds)
}

// Build grows the tree from ds, stores it as the root, and returns it.
func (t *Tree) Build(ds Dataset) (Node, error) {
	if ds.NumSamples() == 0 || ds.NumFeatures() == 0 {
		return nil, errors.NewInvalidDatasetError("Build", -1, "empty dataset")
	}

	start := time.Now()
	t.logger.Debug("Tree build started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, ds.NumSamples(),
		log.FeaturesKey, ds.NumFeatures(),
		log.CriterionKey, t.criterion.Name(),
		log.MaxDepthKey, t.maxDepth,
		log.MinSamplesSplitKey, t.minSamplesSplit,
	)

	root, err := t.grow(ds, 0)
	if err != nil {
		t.logger.Error("Tree build failed", err, log.OperationKey, log.OperationFit)
		return nil, err
	}

	t.mu.Lock()
	t.root = root
	t.nFeatures = ds.NumFeatures()
	t.mu.Unlock()

	t.logger.Info("Tree built",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, ds.NumSamples(),
		log.DepthKey, Depth(root),
		log.LeavesKey, NumLeaves(root),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return root, nil
}

func (t *Tree) grow(ds Dataset, depth int) (Node, error) {
	labels := ds.Labels()
	n := len(labels)

	if n < t.minSamplesSplit || depth >= t.maxDepth {
		return t.leaf(labels), nil
	}

	split, ok := FindBestSplit(ds, ds.NumFeatures(), t.criterion, t.minSamplesLeaf)
	if !ok || split.Gain <= 0 {
		return t.leaf(labels), nil
	}

	if t.logger.Enabled(context.Background(), log.LevelDebug) {
		t.logger.Debug("Split selected",
			log.DepthKey, depth,
			log.SamplesKey, n,
			log.FeatureIndexKey, split.FeatureIndex,
			log.ThresholdKey, split.Threshold,
			log.GainKey, split.Gain,
		)
	}

	var left, right Node
	if depth < t.parallelDepth {
		var g errgroup.Group
		g.Go(func() error {
			return errors.SafeExecute("build left subtree", func() (err error) {
				left, err = t.grow(split.Left, depth+1)
				return err
			})
		})
		g.Go(func() error {
			return errors.SafeExecute("build right subtree", func() (err error) {
				right, err = t.grow(split.Right, depth+1)
				return err
			})
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if left, err = t.grow(split.Left, depth+1); err != nil {
			return nil, err
		}
		if right, err = t.grow(split.Right, depth+1); err != nil {
			return nil, err
		}
	}

	return &Decision{
		FeatureIndex: split.FeatureIndex,
		Threshold:    split.Threshold,
		Gain:         split.Gain,
		Impurity:     t.criterion.Impurity(classCounts(labels), n),
		NSamples:     n,
		Left:         left,
		Right:        right,
	}, nil
}

func (t *Tree) leaf(labels []int) *Leaf {
	value, counts := majority(labels)
	return &Leaf{
		Value:    value,
		Impurity: t.criterion.Impurity(classCounts(labels), len(labels)),
		NSamples: len(labels),
		Counts:   counts,
	}
}

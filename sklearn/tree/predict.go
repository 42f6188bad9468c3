package tree

import (
	"github.com/YuminosukeSato/cart/pkg/errors"
)

// Predict walks from node to a leaf and returns its class.
//
// features must be long enough for every feature index visited on the way;
// otherwise an OutOfRangeError is returned. Vectors are never truncated or
// padded, and extra trailing values are ignored.
func Predict(node Node, features []float64) (int, error) {
	leaf, err := apply(node, features, "Predict")
	if err != nil {
		return 0, err
	}
	return leaf.Value, nil
}

func apply(node Node, features []float64, op string) (*Leaf, error) {
	for {
		switch n := node.(type) {
		case *Leaf:
			return n, nil
		case *Decision:
			if n.FeatureIndex >= len(features) {
				return nil, errors.NewOutOfRangeError(op, n.FeatureIndex, len(features))
			}
			if features[n.FeatureIndex] <= n.Threshold {
				node = n.Left
			} else {
				node = n.Right
			}
		default:
			return nil, errors.NewValueError(op, "nil node")
		}
	}
}

// Predict classifies features with the built tree.
//
// Unlike the package-level Predict, it requires exactly as many features as
// the tree was built on and returns an OutOfRangeError otherwise.
func (t *Tree) Predict(features []float64) (int, error) {
	leaf, err := t.Apply(features)
	if err != nil {
		return 0, err
	}
	return leaf.Value, nil
}

// Apply returns the leaf that features reaches. Its width is checked as in
// Predict.
func (t *Tree) Apply(features []float64) (*Leaf, error) {
	t.mu.RLock()
	root, nFeatures := t.root, t.nFeatures
	t.mu.RUnlock()

	if root == nil {
		return nil, errors.NewNotFittedError("Tree", "Predict")
	}
	if len(features) != nFeatures {
		return nil, errors.NewOutOfRangeError("Predict", nFeatures-1, len(features))
	}
	return apply(root, features, "Predict")
}

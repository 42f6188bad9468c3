package tree

// Node is a vertex of a trained tree: either a *Decision or a *Leaf.
// The set of variants is closed.
type Node interface {
	// Samples returns the number of training rows that reached the node.
	Samples() int
	node()
}

// Decision routes a feature vector left when features[FeatureIndex] <= Threshold
// and right otherwise. Both children are always present.
type Decision struct {
	FeatureIndex int
	Threshold    float64
	Gain         float64
	Impurity     float64
	NSamples     int
	Left         Node
	Right        Node
}

// Leaf carries the predicted class together with the class counts of the
// training rows that reached it.
type Leaf struct {
	Value    int
	Impurity float64
	NSamples int
	Counts   map[int]int
}

func (d *Decision) Samples() int { return d.NSamples }
func (l *Leaf) Samples() int     { return l.NSamples }

func (*Decision) node() {}
func (*Leaf) node()     {}

// Depth returns the number of Decision nodes on the longest root-to-leaf path.
// A lone leaf has depth 0.
func Depth(n Node) int {
	d, ok := n.(*Decision)
	if !ok {
		return 0
	}
	return 1 + max(Depth(d.Left), Depth(d.Right))
}

// NumLeaves returns the number of leaves under n.
func NumLeaves(n Node) int {
	switch v := n.(type) {
	case *Decision:
		return NumLeaves(v.Left) + NumLeaves(v.Right)
	case *Leaf:
		return 1
	default:
		return 0
	}
}

// walk visits n and its descendants in pre-order, passing each node's depth.
func walk(n Node, depth int, fn func(Node, int)) {
	if n == nil {
		return
	}
	fn(n, depth)
	if d, ok := n.(*Decision); ok {
		walk(d.Left, depth+1, fn)
		walk(d.Right, depth+1, fn)
	}
}

// majority returns the most frequent label with ties going to the smallest
// label, together with the counts it was chosen from.
func majority(labels []int) (int, map[int]int) {
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	best, bestCount := 0, -1
	for _, label := range sortedKeys(counts) {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best, counts
}

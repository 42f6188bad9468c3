package tree

import (
	"fmt"
	"strings"
)

// ExportText renders the tree under node as indented rules:
//
//	|--- petal_length <= 2.45
//	|   |--- class: 0
//	|--- petal_length >  2.45
//	|   |--- class: 1
//
// featureNames labels feature columns; missing names fall back to feature_N.
func ExportText(node Node, featureNames []string) string {
	var b strings.Builder
	exportNode(&b, node, featureNames, 0)
	return b.String()
}

func exportNode(b *strings.Builder, node Node, names []string, depth int) {
	indent := strings.Repeat("|   ", depth) + "|--- "

	switch n := node.(type) {
	case *Leaf:
		fmt.Fprintf(b, "%sclass: %d\n", indent, n.Value)
	case *Decision:
		name := featureName(names, n.FeatureIndex)
		fmt.Fprintf(b, "%s%s <= %.2f\n", indent, name, n.Threshold)
		exportNode(b, n.Left, names, depth+1)
		fmt.Fprintf(b, "%s%s >  %.2f\n", indent, name, n.Threshold)
		exportNode(b, n.Right, names, depth+1)
	}
}

func featureName(names []string, idx int) string {
	if idx < len(names) && names[idx] != "" {
		return names[idx]
	}
	return fmt.Sprintf("feature_%d", idx)
}

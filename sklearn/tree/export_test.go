package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExportText(t *testing.T) {
	root := &Decision{
		FeatureIndex: 0,
		Threshold:    2,
		Left:         &Leaf{Value: 0},
		Right: &Decision{
			FeatureIndex: 1,
			Threshold:    0.125,
			Left:         &Leaf{Value: 1},
			Right:        &Leaf{Value: 2},
		},
	}

	want := `|--- length <= 2.00
|   |--- class: 0
|--- length >  2.00
|   |--- feature_1 <= 0.12
|   |   |--- class: 1
|   |--- feature_1 >  0.12
|   |   |--- class: 2
`
	if diff := cmp.Diff(want, ExportText(root, []string{"length"})); diff != "" {
		t.Errorf("ExportText mismatch (-want +got):\n%s", diff)
	}
}

func TestExportText_Leaf(t *testing.T) {
	if got := ExportText(&Leaf{Value: 3}, nil); got != "|--- class: 3\n" {
		t.Errorf("ExportText(leaf) = %q", got)
	}
}

package tree

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDataset(t *testing.T, rows [][]float64) Dataset {
	t.Helper()
	ds, err := NewDataset(rows)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestFindBestSplit_SingleFeature(t *testing.T) {
	ds := mustDataset(t, [][]float64{{1, 0}, {2, 0}, {3, 1}, {4, 1}})

	split, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1)
	if !ok {
		t.Fatal("expected a split")
	}
	if split.FeatureIndex != 0 || split.Threshold != 2 {
		t.Errorf("split = (feature %d, threshold %v), want (0, 2)", split.FeatureIndex, split.Threshold)
	}
	if math.Abs(split.Gain-0.5) > 1e-12 {
		t.Errorf("gain = %v, want 0.5", split.Gain)
	}
	if diff := cmp.Diff([]int{0, 0}, split.Left.Labels()); diff != "" {
		t.Errorf("left labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 1}, split.Right.Labels()); diff != "" {
		t.Errorf("right labels mismatch (-want +got):\n%s", diff)
	}
}

func TestFindBestSplit_PartitionProperties(t *testing.T) {
	rows := [][]float64{
		{5.1, 3.5, 0}, {4.9, 3.0, 0}, {6.2, 2.9, 1}, {5.9, 3.0, 1},
		{6.3, 3.3, 2}, {5.8, 2.7, 2}, {5.0, 3.6, 0}, {6.7, 3.1, 1},
		{7.1, 3.0, 2}, {6.0, 2.2, 2}, {5.5, 2.4, 1}, {4.6, 3.4, 0},
	}
	ds := mustDataset(t, rows)

	for _, c := range []Criterion{GiniCriterion, EntropyCriterion} {
		t.Run(c.Name(), func(t *testing.T) {
			split, ok := FindBestSplit(ds, ds.NumFeatures(), c, 1)
			if !ok {
				t.Fatal("expected a split")
			}
			nl, nr := split.Left.NumSamples(), split.Right.NumSamples()
			if nl == 0 || nr == 0 {
				t.Fatalf("empty partition: left=%d right=%d", nl, nr)
			}
			if nl+nr != ds.NumSamples() {
				t.Fatalf("left+right = %d, want %d", nl+nr, ds.NumSamples())
			}
			for i := 0; i < nl; i++ {
				if split.Left.Row(i)[split.FeatureIndex] > split.Threshold {
					t.Errorf("left row %d above threshold", i)
				}
			}
			for i := 0; i < nr; i++ {
				if split.Right.Row(i)[split.FeatureIndex] <= split.Threshold {
					t.Errorf("right row %d at or below threshold", i)
				}
			}

			want := InformationGain(ds.Labels(), split.Left.Labels(), split.Right.Labels(), c)
			if split.Gain != want {
				t.Errorf("split gain %v differs from InformationGain %v", split.Gain, want)
			}
		})
	}
}

func TestFindBestSplit_MatchesExhaustiveSearch(t *testing.T) {
	rows := [][]float64{
		{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0},
		{2, 0, 0}, {2, 1, 1}, {3, 3, 1}, {0.5, 2, 0},
	}
	ds := mustDataset(t, rows)

	// Brute force: materialize every candidate partition.
	bestGain := math.Inf(-1)
	bestFeature, bestThreshold := -1, 0.0
	for f := 0; f < ds.NumFeatures(); f++ {
		thresholds := distinctSorted(ds.Column(f))
		for _, th := range thresholds {
			var left, right []int
			for i := 0; i < ds.NumSamples(); i++ {
				if ds.Row(i)[f] <= th {
					left = append(left, ds.Label(i))
				} else {
					right = append(right, ds.Label(i))
				}
			}
			if len(left) == 0 || len(right) == 0 {
				continue
			}
			g := InformationGain(ds.Labels(), left, right, GiniCriterion)
			if g > bestGain {
				bestGain, bestFeature, bestThreshold = g, f, th
			}
		}
	}

	split, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1)
	if !ok {
		t.Fatal("expected a split")
	}
	if split.FeatureIndex != bestFeature || split.Threshold != bestThreshold || split.Gain != bestGain {
		t.Errorf("got (%d, %v, %v), want (%d, %v, %v)",
			split.FeatureIndex, split.Threshold, split.Gain, bestFeature, bestThreshold, bestGain)
	}
}

func distinctSorted(values []float64) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func TestFindBestSplit_TieBreak(t *testing.T) {
	// Features 0 and 1 are identical, so every candidate ties across them.
	ds := mustDataset(t, [][]float64{{1, 1, 0}, {2, 2, 0}, {3, 3, 1}, {4, 4, 1}})

	for i := 0; i < 20; i++ {
		split, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1)
		if !ok {
			t.Fatal("expected a split")
		}
		if split.FeatureIndex != 0 || split.Threshold != 2 {
			t.Fatalf("run %d: split = (%d, %v), want (0, 2)", i, split.FeatureIndex, split.Threshold)
		}
	}

	// Thresholds 1 and 3 tie on gain; the lower one wins.
	ds = mustDataset(t, [][]float64{{1, 0}, {2, 1}, {3, 1}, {4, 0}})
	split, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1)
	if !ok {
		t.Fatal("expected a split")
	}
	if split.Threshold != 1 {
		t.Errorf("threshold = %v, want 1", split.Threshold)
	}
}

func TestFindBestSplit_NoCandidate(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"single row", [][]float64{{5, 1}}},
		{"constant feature", [][]float64{{2, 0}, {2, 1}, {2, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := mustDataset(t, tt.rows)
			if _, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1); ok {
				t.Error("expected no split")
			}
		})
	}
}

func TestFindBestSplit_MinSamplesLeaf(t *testing.T) {
	ds := mustDataset(t, [][]float64{{1, 1}, {2, 0}, {3, 0}, {4, 0}, {5, 0}})

	split, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1)
	if !ok || split.Threshold != 1 {
		t.Fatalf("unconstrained split = (%v, %v), want threshold 1", split.Threshold, ok)
	}

	split, ok = FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 2)
	if !ok {
		t.Fatal("expected a split with min_samples_leaf=2")
	}
	if split.Left.NumSamples() < 2 || split.Right.NumSamples() < 2 {
		t.Errorf("partition sizes %d/%d violate min_samples_leaf=2",
			split.Left.NumSamples(), split.Right.NumSamples())
	}

	if _, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 3); ok {
		t.Error("5 rows cannot satisfy min_samples_leaf=3 on both sides")
	}
}

func TestFindBestSplit_RestrictsFeatures(t *testing.T) {
	// Feature 1 separates perfectly, feature 0 only partly.
	ds := mustDataset(t, [][]float64{{1, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 1, 1}})

	split, ok := FindBestSplit(ds, 1, GiniCriterion, 1)
	if !ok {
		t.Fatal("expected a split on feature 0")
	}
	if split.FeatureIndex != 0 {
		t.Errorf("feature = %d, want 0", split.FeatureIndex)
	}

	split, _ = FindBestSplit(ds, 2, GiniCriterion, 1)
	if split.FeatureIndex != 1 {
		t.Errorf("feature = %d, want 1", split.FeatureIndex)
	}
}

func TestFindBestSplit_SkipsProportionalPartitions(t *testing.T) {
	// Parent 3:6 splits only into 1:2 and 2:4, which keeps its proportions.
	rows := [][]float64{
		{1, 0}, {1, 1}, {1, 1},
		{2, 0}, {2, 0}, {2, 1}, {2, 1}, {2, 1}, {2, 1},
	}
	ds := mustDataset(t, rows)

	for _, c := range []Criterion{GiniCriterion, EntropyCriterion} {
		if split, ok := FindBestSplit(ds, ds.NumFeatures(), c, 1); ok {
			t.Errorf("%s: got split at %v with gain %v, want none", c.Name(), split.Threshold, split.Gain)
		}
	}

	// A second, informative feature is still found.
	for i := range rows {
		rows[i] = []float64{rows[i][0], rows[i][1], rows[i][1]}
	}
	ds = mustDataset(t, rows)
	split, ok := FindBestSplit(ds, ds.NumFeatures(), GiniCriterion, 1)
	if !ok || split.FeatureIndex != 1 {
		t.Errorf("split = (%d, %v), want feature 1", split.FeatureIndex, ok)
	}
}

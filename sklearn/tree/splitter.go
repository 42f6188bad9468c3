package tree

import (
	"math"
	"sort"
)

// Split is a candidate partition of a Dataset on one feature.
// Left holds rows with value <= Threshold, Right holds rows with value > Threshold.
type Split struct {
	FeatureIndex int
	Threshold    float64
	Gain         float64
	Left         Dataset
	Right        Dataset
}

// FindBestSplit searches features [0, numFeatures) for the partition with the
// greatest information gain.
//
// Candidate thresholds for a feature are its distinct values in ascending
// order. Candidates leaving either side with fewer than minSamplesLeaf rows
// (and never fewer than one) are skipped, as are candidates whose sides keep
// the parent's class proportions. Ties keep the first candidate seen, which is
// the lowest feature index and then the lowest threshold.
//
// It reports false when no candidate exists. That is not an error: constant
// features or a single row simply cannot be split.
func FindBestSplit(ds Dataset, numFeatures int, c Criterion, minSamplesLeaf int) (Split, bool) {
	n := ds.NumSamples()
	if n < 2 {
		return Split{}, false
	}
	if minSamplesLeaf < 1 {
		minSamplesLeaf = 1
	}
	if numFeatures > ds.NumFeatures() {
		numFeatures = ds.NumFeatures()
	}

	classOf, nClasses := indexClasses(ds)
	total := make([]int, nClasses)
	for _, k := range classOf {
		total[k]++
	}
	parentImp := c.Impurity(total, n)

	var (
		found         bool
		bestGain      = math.Inf(-1)
		bestFeature   int
		bestThreshold float64
	)

	order := make([]int, n)
	left := make([]int, nClasses)
	right := make([]int, nClasses)

	for f := 0; f < numFeatures; f++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return ds.rows[order[a]][f] < ds.rows[order[b]][f]
		})
		for k := range left {
			left[k] = 0
		}
		copy(right, total)

		nl := 0
		for pos := 0; pos < n; {
			v := ds.rows[order[pos]][f]
			for pos < n && ds.rows[order[pos]][f] == v {
				k := classOf[order[pos]]
				left[k]++
				right[k]--
				nl++
				pos++
			}
			nr := n - nl
			if nr == 0 {
				break
			}
			if nl < minSamplesLeaf || nr < minSamplesLeaf {
				continue
			}
			// Same class mix as the parent: zero gain, however it rounds.
			if sameProportions(left, total, nl, n) {
				continue
			}

			g := gain(parentImp, c.Impurity(left, nl), c.Impurity(right, nr), n, nl, nr)
			if g > bestGain {
				found = true
				bestGain = g
				bestFeature = f
				bestThreshold = v
			}
		}
	}

	if !found {
		return Split{}, false
	}

	leftIdx := make([]int, 0, n)
	rightIdx := make([]int, 0, n)
	for i, row := range ds.rows {
		if row[bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return Split{
		FeatureIndex: bestFeature,
		Threshold:    bestThreshold,
		Gain:         bestGain,
		Left:         ds.subset(leftIdx),
		Right:        ds.subset(rightIdx),
	}, true
}

// sameProportions reports whether a side holding side[k] of the total[k] rows
// of each class, nSide rows in all, has the parent's class distribution.
// Then the other side has it too.
func sameProportions(side, total []int, nSide, n int) bool {
	for k := range total {
		if side[k]*n != total[k]*nSide {
			return false
		}
	}
	return true
}

// indexClasses maps each row to the rank of its label among the sorted
// distinct labels of ds.
func indexClasses(ds Dataset) ([]int, int) {
	seen := make(map[int]int)
	for i := range ds.rows {
		seen[ds.Label(i)]++
	}
	rank := make(map[int]int, len(seen))
	for r, label := range sortedKeys(seen) {
		rank[label] = r
	}

	classOf := make([]int, len(ds.rows))
	for i := range ds.rows {
		classOf[i] = rank[ds.Label(i)]
	}
	return classOf, len(rank)
}

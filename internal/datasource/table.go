// Package datasource loads rectangular numeric tables for tree induction from
// CSV streams and SQLite queries.
//
// Every loader returns rows with the class label moved to the last column,
// the layout sklearn/tree.NewDataset expects.
package datasource

import (
	"fmt"

	"github.com/YuminosukeSato/cart/pkg/errors"
	"github.com/YuminosukeSato/cart/pkg/log"
)

// LastColumn selects the last column of the source as the label.
const LastColumn = -1

// NoLabel marks a source that carries only feature columns, such as rows
// submitted for prediction.
const NoLabel = -2

// Table is a loaded numeric table.
type Table struct {
	// FeatureNames names the feature columns in order. Sources without a
	// header get col_N names.
	FeatureNames []string
	// LabelName names the label column, empty for NoLabel sources.
	LabelName string
	// Rows holds the features followed by the label, unless loaded with NoLabel.
	Rows [][]float64
}

// NumFeatures returns the number of feature columns.
func (t *Table) NumFeatures() int {
	return len(t.FeatureNames)
}

// moveLabel reorders names and every row so the column at labelColumn comes
// last. labelColumn must already be resolved to an index.
func moveLabel(names []string, rows [][]float64, labelColumn int) ([]string, string) {
	last := len(names) - 1
	if labelColumn == last {
		return names[:last], names[last]
	}

	features := make([]string, 0, last)
	features = append(features, names[:labelColumn]...)
	features = append(features, names[labelColumn+1:]...)

	for i, row := range rows {
		moved := make([]float64, 0, len(row))
		moved = append(moved, row[:labelColumn]...)
		moved = append(moved, row[labelColumn+1:]...)
		moved = append(moved, row[labelColumn])
		rows[i] = moved
	}
	return features, names[labelColumn]
}

// resolveLabel turns LastColumn into an index and checks the range.
func resolveLabel(labelColumn, width int) (int, error) {
	if labelColumn == LastColumn {
		return width - 1, nil
	}
	if labelColumn < 0 || labelColumn >= width {
		return 0, errors.Newf("label column %d out of range for %d columns", labelColumn, width)
	}
	return labelColumn, nil
}

func defaultNames(width int) []string {
	names := make([]string, width)
	for i := range names {
		names[i] = fmt.Sprintf("col_%d", i)
	}
	return names
}

func logLoaded(source string, t *Table) {
	log.GetLoggerWithName("datasource").Info("Dataset loaded",
		log.PhaseKey, log.PhaseLoading,
		log.SourceKey, source,
		log.SamplesKey, len(t.Rows),
		log.FeaturesKey, t.NumFeatures(),
	)
}

package tree

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/cart/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dataset is an ordered collection of rows. Each row holds the feature values
// followed by the integer class label in the last column.
//
// A Dataset is treated as read-only once constructed. Partitions produced by
// the splitter share the underlying row slices with their parent.
type Dataset struct {
	rows  [][]float64
	width int
}

// NewDataset validates rows and wraps them in a Dataset.
//
// The rows must be non-empty, share an identical width of at least 2 (one
// feature plus the label), hold only finite values, and carry an integral
// label. The input slices are not copied.
func NewDataset(rows [][]float64) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, errors.NewInvalidDatasetError("NewDataset", -1, "no rows")
	}

	width := len(rows[0])
	if width < 2 {
		return Dataset{}, errors.NewInvalidDatasetError("NewDataset", 0,
			fmt.Sprintf("row width %d, need at least one feature and a label", width))
	}

	for i, row := range rows {
		if len(row) != width {
			return Dataset{}, errors.NewInvalidDatasetError("NewDataset", i,
				fmt.Sprintf("row width %d differs from %d", len(row), width))
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Dataset{}, errors.NewInvalidDatasetError("NewDataset", i,
					fmt.Sprintf("non-finite value %v in column %d", v, j))
			}
		}
		label := row[width-1]
		if label != math.Trunc(label) || math.Abs(label) > math.MaxInt32 {
			return Dataset{}, errors.NewInvalidDatasetError("NewDataset", i,
				fmt.Sprintf("label %v is not an integer class", label))
		}
	}

	return Dataset{rows: rows, width: width}, nil
}

// DatasetFromMatrix builds a Dataset from a feature matrix X (n_samples x
// n_features) and a target column y (n_samples x 1).
func DatasetFromMatrix(X, y mat.Matrix) (Dataset, error) {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return Dataset{}, errors.NewDimensionError("DatasetFromMatrix", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return Dataset{}, errors.NewDimensionError("DatasetFromMatrix", 1, yCols, 1)
	}

	rows := make([][]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		row := make([]float64, nFeatures+1)
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		row[nFeatures] = y.At(i, 0)
		rows[i] = row
	}

	return NewDataset(rows)
}

// NumSamples returns the number of rows.
func (d Dataset) NumSamples() int {
	return len(d.rows)
}

// NumFeatures returns the number of feature columns (row width minus the label).
func (d Dataset) NumFeatures() int {
	if d.width == 0 {
		return 0
	}
	return d.width - 1
}

// Row returns row i including the label. Callers must not modify it.
func (d Dataset) Row(i int) []float64 {
	return d.rows[i]
}

// Features returns the feature part of row i.
func (d Dataset) Features(i int) []float64 {
	return d.rows[i][:d.width-1]
}

// Label returns the class label of row i.
func (d Dataset) Label(i int) int {
	return int(d.rows[i][d.width-1])
}

// Labels returns the class label of every row, in row order.
func (d Dataset) Labels() []int {
	labels := make([]int, len(d.rows))
	for i := range d.rows {
		labels[i] = d.Label(i)
	}
	return labels
}

// Column returns the values of feature j, in row order.
func (d Dataset) Column(j int) []float64 {
	col := make([]float64, len(d.rows))
	for i, row := range d.rows {
		col[i] = row[j]
	}
	return col
}

// subset returns a Dataset over the rows at the given indices.
func (d Dataset) subset(idx []int) Dataset {
	rows := make([][]float64, len(idx))
	for k, i := range idx {
		rows[k] = d.rows[i]
	}
	return Dataset{rows: rows, width: d.width}
}

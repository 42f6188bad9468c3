package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/cart/pkg/errors"
)

// CSVOptions controls how a CSV stream is interpreted.
type CSVOptions struct {
	// Header treats the first record as column names.
	Header bool
	// LabelColumn is the index of the label column, LastColumn or NoLabel.
	LabelColumn int
}

// ReadCSV parses a numeric CSV stream into a Table. Every record must have
// the same number of fields and every field must parse as a float.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var names []string
	line := 1
	if opts.Header {
		header, err := cr.Read()
		if err == io.EOF {
			return nil, errors.NewInvalidDatasetError("ReadCSV", -1, "no header")
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading header")
		}
		names = make([]string, len(header))
		for i, h := range header {
			names[i] = strings.TrimSpace(h)
		}
		line++
	}

	var rows [][]float64
	for ; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading line %d", line)
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.NewInvalidDatasetError("ReadCSV", line,
					fmt.Sprintf("column %d: %q is not a number", j, field))
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.NewInvalidDatasetError("ReadCSV", -1, "no data rows")
	}
	width := len(rows[0])
	if names == nil {
		names = defaultNames(width)
	}
	if len(names) != width {
		return nil, errors.NewInvalidDatasetError("ReadCSV", -1,
			fmt.Sprintf("header has %d columns, data has %d", len(names), width))
	}

	if opts.LabelColumn == NoLabel {
		return &Table{FeatureNames: names, Rows: rows}, nil
	}

	labelColumn, err := resolveLabel(opts.LabelColumn, width)
	if err != nil {
		return nil, errors.NewValidationError("label_column", err.Error(), opts.LabelColumn)
	}
	features, labelName := moveLabel(names, rows, labelColumn)
	return &Table{FeatureNames: features, LabelName: labelName, Rows: rows}, nil
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	logLoaded(path, t)
	return t, nil
}

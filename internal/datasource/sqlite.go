package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/YuminosukeSato/cart/pkg/errors"
	_ "modernc.org/sqlite"
)

// ReadSQLite runs query against the SQLite database at path and returns the
// result set as a Table. Column names come from the query. NULL and
// non-numeric values are rejected.
func ReadSQLite(ctx context.Context, path, query string, labelColumn int) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer db.Close()

	t, err := readQuery(ctx, db, query, labelColumn)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	logLoaded(path, t)
	return t, nil
}

func readQuery(ctx context.Context, db *sql.DB, query string, labelColumn int) (*Table, error) {
	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "running query")
	}
	defer rs.Close()

	names, err := rs.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "reading columns")
	}
	width := len(names)

	values := make([]any, width)
	ptrs := make([]any, width)
	for i := range values {
		ptrs[i] = &values[i]
	}

	var rows [][]float64
	for rs.Next() {
		if err := rs.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "scanning row %d", len(rows))
		}
		row := make([]float64, width)
		for j, v := range values {
			f, err := toFloat(v)
			if err != nil {
				return nil, errors.NewInvalidDatasetError("ReadSQLite", len(rows),
					fmt.Sprintf("column %s: %v", names[j], err))
			}
			row[j] = f
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating rows")
	}
	if len(rows) == 0 {
		return nil, errors.NewInvalidDatasetError("ReadSQLite", -1, "query returned no rows")
	}

	if labelColumn == NoLabel {
		return &Table{FeatureNames: names, Rows: rows}, nil
	}
	idx, err := resolveLabel(labelColumn, width)
	if err != nil {
		return nil, errors.NewValidationError("label_column", err.Error(), labelColumn)
	}
	features, labelName := moveLabel(names, rows, idx)
	return &Table{FeatureNames: features, LabelName: labelName, Rows: rows}, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	case nil:
		return 0, errors.New("NULL value")
	default:
		return 0, errors.Newf("unsupported type %T", v)
	}
}

package main

import (
	"context"

	"github.com/YuminosukeSato/cart/internal/config"
	"github.com/YuminosukeSato/cart/internal/datasource"
	"github.com/YuminosukeSato/cart/pkg/errors"
	"github.com/YuminosukeSato/cart/sklearn/tree"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

var errNoData = errors.New("no training data: pass --data, or --sqlite with --query")

// trainCmdConfig holds the flags shared by every command that grows a tree.
// Flags that were set explicitly override the configuration file.
type trainCmdConfig struct {
	*rootCmdConfig
	dataInput       string
	labelColumn     int
	header          bool
	sqlitePath      string
	sqliteQuery     string
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	nJobs           int
}

func (c *trainCmdConfig) bindFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&c.dataInput, "data", "d", "", "training CSV file")
	f.IntVar(&c.labelColumn, "label-column", defaults.Data.LabelColumn, "index of the label column, -1 for the last")
	f.BoolVar(&c.header, "header", defaults.Data.Header, "CSV files start with a header row")
	f.StringVar(&c.sqlitePath, "sqlite", "", "SQLite database to read training rows from")
	f.StringVar(&c.sqliteQuery, "query", "", "query selecting training rows from --sqlite")
	f.StringVar(&c.criterion, "criterion", defaults.Tree.Criterion, "impurity criterion: gini or entropy")
	f.IntVar(&c.maxDepth, "max-depth", defaults.Tree.MaxDepth, "maximum tree depth, -1 for unlimited")
	f.IntVar(&c.minSamplesSplit, "min-samples-split", defaults.Tree.MinSamplesSplit, "minimum rows required to split a node")
	f.IntVar(&c.minSamplesLeaf, "min-samples-leaf", defaults.Tree.MinSamplesLeaf, "minimum rows on each side of a split")
	f.IntVar(&c.nJobs, "n-jobs", defaults.Tree.NJobs, "workers for building and prediction, -1 for all CPUs")
}

// resolve merges the configuration file with explicitly set flags and
// validates the result.
func (c *trainCmdConfig) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Data.Path = c.dataInput
	}
	if f.Changed("label-column") {
		cfg.Data.LabelColumn = c.labelColumn
	}
	if f.Changed("header") {
		cfg.Data.Header = c.header
	}
	if f.Changed("sqlite") {
		cfg.Data.SQLite.Path = c.sqlitePath
	}
	if f.Changed("query") {
		cfg.Data.SQLite.Query = c.sqliteQuery
	}
	if f.Changed("criterion") {
		cfg.Tree.Criterion = c.criterion
	}
	if f.Changed("max-depth") {
		cfg.Tree.MaxDepth = c.maxDepth
	}
	if f.Changed("min-samples-split") {
		cfg.Tree.MinSamplesSplit = c.minSamplesSplit
	}
	if f.Changed("min-samples-leaf") {
		cfg.Tree.MinSamplesLeaf = c.minSamplesLeaf
	}
	if f.Changed("n-jobs") {
		cfg.Tree.NJobs = c.nJobs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTraining reads the training table from SQLite when configured, and from
// the CSV file otherwise.
func loadTraining(ctx context.Context, cfg *config.Config) (*datasource.Table, error) {
	if cfg.Data.SQLite.Path != "" {
		return datasource.ReadSQLite(ctx, cfg.Data.SQLite.Path, cfg.Data.SQLite.Query, cfg.Data.LabelColumn)
	}
	if cfg.Data.Path == "" {
		return nil, errNoData
	}
	return datasource.ReadCSVFile(cfg.Data.Path, datasource.CSVOptions{
		Header:      cfg.Data.Header,
		LabelColumn: cfg.Data.LabelColumn,
	})
}

// fitClassifier builds a classifier from table using the tree settings in cfg.
func fitClassifier(cfg *config.Config, table *datasource.Table) (*tree.DecisionTreeClassifier, error) {
	if table.NumFeatures() == 0 {
		return nil, errors.NewInvalidDatasetError("fit", -1, "no feature columns besides the label")
	}
	dt := tree.NewDecisionTreeClassifier(
		tree.WithCriterion(cfg.Tree.Criterion),
		tree.WithMaxDepth(cfg.Tree.MaxDepth),
		tree.WithMinSamplesSplit(cfg.Tree.MinSamplesSplit),
		tree.WithMinSamplesLeaf(cfg.Tree.MinSamplesLeaf),
		tree.WithNJobs(cfg.Tree.NJobs),
	)

	X, y := splitXY(table.Rows)
	if err := dt.Fit(X, y); err != nil {
		return nil, err
	}
	return dt, nil
}

// splitXY separates label-last rows into a feature matrix and target column.
func splitXY(rows [][]float64) (*mat.Dense, *mat.Dense) {
	nFeatures := len(rows[0]) - 1
	X := mat.NewDense(len(rows), nFeatures, nil)
	y := mat.NewDense(len(rows), 1, nil)
	for i, row := range rows {
		X.SetRow(i, row[:nFeatures])
		y.Set(i, 0, row[nFeatures])
	}
	return X, y
}

// featureMatrix packs feature-only rows into a matrix.
func featureMatrix(rows [][]float64) *mat.Dense {
	X := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		X.SetRow(i, row)
	}
	return X
}

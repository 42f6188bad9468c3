package main

import (
	"fmt"

	"github.com/YuminosukeSato/cart/internal/datasource"
	"github.com/YuminosukeSato/cart/internal/report"
	"github.com/YuminosukeSato/cart/pkg/errors"
	"github.com/YuminosukeSato/cart/pkg/log"
	"github.com/YuminosukeSato/cart/sklearn/tree"
	"github.com/spf13/cobra"
)

type fitCmdConfig struct {
	trainCmdConfig
	testInput string
	plotPath  string
}

func fitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &fitCmdConfig{trainCmdConfig: trainCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Grow a tree and report how well it fits",
		Long: `Grow a tree from training data, print its rules and training accuracy,
and optionally evaluate it on a held-out CSV and plot feature importances.`,
		Example: `  cart fit --data iris.csv --header --max-depth 3
  cart fit --sqlite train.db --query "SELECT x1, x2, label FROM samples" --plot imp.png`,
		Args: cobra.NoArgs,
		RunE: config.run,
	}
	config.bindFlags(cmd)
	cmd.Flags().StringVarP(&config.testInput, "test", "t", "", "held-out CSV to report test accuracy on")
	cmd.Flags().StringVar(&config.plotPath, "plot", "", "write a feature-importance chart to this file (.png, .svg, .pdf)")
	return cmd
}

func (c *fitCmdConfig) run(cmd *cobra.Command, args []string) error {
	cfg, err := c.resolve(cmd)
	if err != nil {
		return err
	}
	if c.testInput != "" {
		cfg.Data.TestPath = c.testInput
	}

	table, err := loadTraining(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	dt, err := fitClassifier(cfg, table)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tree.ExportText(dt.Root(), table.FeatureNames))
	fmt.Fprintf(out, "depth: %d  leaves: %d\n", dt.GetDepth(), dt.GetNLeaves())

	X, y := splitXY(table.Rows)
	trainAcc := dt.Score(X, y)
	fmt.Fprintf(out, "training accuracy: %.4f\n", trainAcc)

	logger := log.GetLoggerWithName("cli")
	logger.Info("Tree fitted",
		log.EstimatorIDKey, dt.ID().String(),
		log.PhaseKey, log.PhaseTraining,
		log.AccuracyKey, trainAcc,
	)

	if cfg.Data.TestPath != "" {
		test, err := datasource.ReadCSVFile(cfg.Data.TestPath, datasource.CSVOptions{
			Header:      cfg.Data.Header,
			LabelColumn: cfg.Data.LabelColumn,
		})
		if err != nil {
			return err
		}
		if test.NumFeatures() != table.NumFeatures() {
			return errors.NewDimensionError("fit --test", table.NumFeatures(), test.NumFeatures(), 1)
		}
		Xt, yt := splitXY(test.Rows)
		testAcc := dt.Score(Xt, yt)
		fmt.Fprintf(out, "test accuracy: %.4f\n", testAcc)
		logger.Info("Tree evaluated",
			log.EstimatorIDKey, dt.ID().String(),
			log.PhaseKey, log.PhaseTesting,
			log.AccuracyKey, testAcc,
		)
	}

	if c.plotPath != "" {
		if err := report.PlotImportances(dt.GetFeatureImportances(), table.FeatureNames, c.plotPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "feature importances written to %s\n", c.plotPath)
	}
	return nil
}

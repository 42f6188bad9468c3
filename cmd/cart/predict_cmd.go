package main

import (
	"fmt"

	"github.com/YuminosukeSato/cart/internal/datasource"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	trainCmdConfig
	input string
	proba bool
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{trainCmdConfig: trainCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Grow a tree and classify new rows with it",
		Long: `Grow a tree from training data and print the predicted class of every
row of the input CSV, one per line. Input rows hold feature values only, in
the training column order without the label.`,
		Example: `  cart predict --data iris.csv --header --input new.csv`,
		Args:    cobra.NoArgs,
		RunE:    config.run,
	}
	config.bindFlags(cmd)
	cmd.Flags().StringVarP(&config.input, "input", "i", "", "CSV of feature rows to classify")
	cmd.Flags().BoolVar(&config.proba, "proba", false, "also print the leaf class frequencies")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (c *predictCmdConfig) run(cmd *cobra.Command, args []string) error {
	cfg, err := c.resolve(cmd)
	if err != nil {
		return err
	}

	table, err := loadTraining(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	dt, err := fitClassifier(cfg, table)
	if err != nil {
		return err
	}

	input, err := datasource.ReadCSVFile(c.input, datasource.CSVOptions{
		Header:      cfg.Data.Header,
		LabelColumn: datasource.NoLabel,
	})
	if err != nil {
		return err
	}

	X := featureMatrix(input.Rows)
	pred, err := dt.Predict(X)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !c.proba {
		for i := range input.Rows {
			fmt.Fprintf(out, "%d\n", int(pred.At(i, 0)))
		}
		return nil
	}

	proba, err := dt.PredictProba(X)
	if err != nil {
		return err
	}
	classes := dt.Classes()
	fmt.Fprint(out, "prediction")
	for _, class := range classes {
		fmt.Fprintf(out, ",p_%d", class)
	}
	fmt.Fprintln(out)
	for i := range input.Rows {
		fmt.Fprintf(out, "%d", int(pred.At(i, 0)))
		for j := range classes {
			fmt.Fprintf(out, ",%.4f", proba.At(i, j))
		}
		fmt.Fprintln(out)
	}
	return nil
}

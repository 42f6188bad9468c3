// Package report renders fitted-tree summaries as charts.
package report

import (
	"fmt"

	"github.com/YuminosukeSato/cart/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// barWidth is the width of one bar in the importance chart.
const barWidth = vg.Length(20) // 20pt

// ImportancePlot builds a bar chart of feature importances. names labels the
// bars; missing names fall back to feature_N.
func ImportancePlot(importances []float64, names []string) (*plot.Plot, error) {
	if len(importances) == 0 {
		return nil, errors.NewValueError("ImportancePlot", "no feature importances to plot")
	}

	values := make(plotter.Values, len(importances))
	copy(values, importances)

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return nil, errors.Wrap(err, "building bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = "Feature importance"
	p.Y.Label.Text = "Weighted impurity decrease"
	p.Y.Min = 0
	p.Add(bars)
	p.NominalX(labels(len(importances), names)...)

	return p, nil
}

// PlotImportances writes the importance chart to path. The image format
// follows the file extension (.png, .svg, .pdf, ...).
func PlotImportances(importances []float64, names []string, path string) error {
	p, err := ImportancePlot(importances, names)
	if err != nil {
		return err
	}

	width := vg.Length(len(importances))*barWidth*2 + 2*vg.Inch
	if err := p.Save(width, 3*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving importance plot to %s", path)
	}
	return nil
}

func labels(n int, names []string) []string {
	out := make([]string, n)
	for i := range out {
		if i < len(names) && names[i] != "" {
			out[i] = names[i]
		} else {
			out[i] = fmt.Sprintf("feature_%d", i)
		}
	}
	return out
}

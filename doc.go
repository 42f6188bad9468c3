// Package cart grows binary classification trees with the CART algorithm
// (Classification And Regression Trees) for Go services and command-line use.
//
// A tree is induced from a numeric table whose last column is an integer class
// label. Every internal node tests "feature <= threshold" and every leaf
// predicts the majority class of the training rows that reached it. Candidate
// splits are scored by the information gain of Gini impurity or Shannon
// entropy, and the search is deterministic: ties go to the lowest feature
// index, then the lowest threshold.
//
// # Installation
//
//	go get github.com/YuminosukeSato/cart
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/cart/sklearn/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{2, 3, 10, 11})
//	    y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
//
//	    dt := tree.NewDecisionTreeClassifier(tree.WithMaxDepth(3))
//	    if err := dt.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := dt.Predict(mat.NewDense(1, 1, []float64{9}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(pred.At(0, 0)) // 1
//	    fmt.Print(tree.ExportText(dt.Root(), []string{"x"}))
//	}
//
// # Packages
//
//   - sklearn/tree: datasets, impurity criteria, the splitter, the tree
//     builder, prediction and the scikit-learn style DecisionTreeClassifier
//   - metrics: classification accuracy
//   - core/model: estimator interfaces and fitted-state management
//   - core/parallel: row-range parallelism for batch prediction
//   - pkg/errors: typed errors and warnings
//   - pkg/log: structured logging on zerolog
//   - cmd/cart: the cart command (fit, predict, version)
//
// # Concurrency
//
// A fitted tree is immutable and safe for concurrent prediction. The top
// levels of a tree can be grown in parallel with tree.WithNJobs; the result
// is identical to a sequential build.
package cart

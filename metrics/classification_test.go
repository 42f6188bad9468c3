package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestClassificationError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect classification",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  0.0,
		},
		{
			name:  "One error",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.2,
		},
		{
			name:  "All wrong",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  1.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassificationError(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("ClassificationError() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ClassificationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "Negative labels",
			yTrue: []float64{-1, -1, 1, 1},
			yPred: []float64{-1, 1, 1, 1},
			want:  0.75,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(vec(tt.yTrue), vec(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{0, 1, 1, 0})
	yPred := mat.NewDense(4, 1, []float64{0, 1, 0, 0})

	got, err := AccuracyMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("AccuracyMatrix() error = %v", err)
	}
	if got != 0.75 {
		t.Errorf("AccuracyMatrix() = %v, want 0.75", got)
	}

	if _, err := AccuracyMatrix(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil)); err == nil {
		t.Error("expected error for non column vectors")
	}
	if _, err := AccuracyMatrix(yTrue, mat.NewDense(3, 1, nil)); err == nil {
		t.Error("expected error for row count mismatch")
	}
}

func vec(values []float64) *mat.VecDense {
	if len(values) == 0 {
		return nil
	}
	return mat.NewVecDense(len(values), values)
}

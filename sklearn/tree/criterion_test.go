package tree

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/cart/pkg/errors"
)

func TestGini(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		want   float64
	}{
		{"pure", []int{3, 3, 3, 3}, 0},
		{"single", []int{7}, 0},
		{"two balanced", []int{0, 1, 0, 1}, 0.5},
		{"three balanced", []int{0, 1, 2, 0, 1, 2}, 1 - 1.0/3},
		{"four balanced", []int{0, 1, 2, 3}, 0.75},
		{"skewed", []int{0, 0, 0, 1}, 1 - (0.75*0.75 + 0.25*0.25)},
		{"negative labels", []int{-1, -1, 2, 2}, 0.5},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gini(tt.labels)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Gini(%v) = %v, want %v", tt.labels, got, tt.want)
			}
		})
	}
}

func TestGiniIsExactlyZeroForPureSets(t *testing.T) {
	for n := 1; n <= 50; n++ {
		labels := make([]int, n)
		if g := Gini(labels); g != 0 {
			t.Fatalf("Gini of %d identical labels = %v, want exactly 0", n, g)
		}
	}
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		want   float64
	}{
		{"pure", []int{1, 1, 1}, 0},
		{"two balanced", []int{0, 1}, 1},
		{"four balanced", []int{0, 1, 2, 3}, 2},
		{"skewed", []int{0, 0, 0, 1}, -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Entropy(tt.labels)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Entropy(%v) = %v, want %v", tt.labels, got, tt.want)
			}
		})
	}
}

func TestInformationGain(t *testing.T) {
	parent := []int{0, 0, 1, 1}

	perfect := InformationGain(parent, []int{0, 0}, []int{1, 1}, GiniCriterion)
	if math.Abs(perfect-0.5) > 1e-12 {
		t.Errorf("perfect split gain = %v, want 0.5", perfect)
	}

	useless := InformationGain(parent, []int{0, 1}, []int{0, 1}, GiniCriterion)
	if useless != 0 {
		t.Errorf("split preserving proportions should have zero gain, got %v", useless)
	}

	bits := InformationGain(parent, []int{0, 0}, []int{1, 1}, EntropyCriterion)
	if math.Abs(bits-1) > 1e-12 {
		t.Errorf("entropy gain = %v, want 1", bits)
	}

	if g := InformationGain(nil, nil, nil, GiniCriterion); g != 0 {
		t.Errorf("empty parent gain = %v, want 0", g)
	}
}

func TestCriterionByName(t *testing.T) {
	for _, name := range []string{CriterionGini, CriterionEntropy} {
		c, err := CriterionByName(name)
		if err != nil {
			t.Fatalf("CriterionByName(%q) returned error: %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Name() = %q, want %q", c.Name(), name)
		}
	}

	_, err := CriterionByName("mse")
	var valErr *errors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.ParamName != "criterion" {
		t.Errorf("ParamName = %q, want criterion", valErr.ParamName)
	}
}

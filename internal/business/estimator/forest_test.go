package estimator

import "testing"

func splitTree() Tree {
	// Root splits on feature 0 at 5.0; left leaf 10, right leaf 20.
	return Tree{
		Feature:    []int{0, -2, -2},
		Threshold:  []float64{5, 0, 0},
		LeftChild:  []int{1, leafNode, leafNode},
		RightChild: []int{2, leafNode, leafNode},
		Value:      []float64{0, 10, 20},
	}
}

func TestTreePredict(t *testing.T) {
	tree := splitTree()
	tests := []struct {
		x    float64
		want float64
	}{
		{4, 10},
		{5, 10}, // boundary goes left
		{6, 20},
	}
	for _, tt := range tests {
		got, err := tree.predict([]float64{tt.x})
		if err != nil {
			t.Fatalf("predict(%v): %v", tt.x, err)
		}
		if got != tt.want {
			t.Errorf("predict(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestForestAverages(t *testing.T) {
	leaf := func(v float64) Tree {
		return Tree{
			Feature:    []int{0},
			Threshold:  []float64{0},
			LeftChild:  []int{leafNode},
			RightChild: []int{leafNode},
			Value:      []float64{v},
		}
	}
	f := Forest{Trees: []Tree{leaf(100), leaf(200), leaf(300)}}

	got, err := f.Predict([]float64{0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 200 {
		t.Errorf("forest mean = %v, want 200", got)
	}
}

func TestTreeFeatureOutOfRange(t *testing.T) {
	tree := splitTree()
	if _, err := tree.predict(nil); err == nil {
		t.Fatal("expected error for empty feature vector")
	}
}

func TestForestEmpty(t *testing.T) {
	f := Forest{}
	if _, err := f.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for empty forest")
	}
}

func TestScalerTransform(t *testing.T) {
	s := Scaler{Mean: []float64{10, 0}, Scale: []float64{2, 1}}
	got, err := s.Transform([]float64{14, 3})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got[0] != 2 || got[1] != 3 {
		t.Errorf("Transform = %v, want [2 3]", got)
	}

	if _, err := s.Transform([]float64{1}); err == nil {
		t.Fatal("expected width mismatch error")
	}
}

func TestClusterAssignerNearest(t *testing.T) {
	c := ClusterAssigner{Centroids: [][2]float64{
		{19.43, -99.13},  // CDMX
		{25.67, -100.31}, // Monterrey
		{20.67, -103.35}, // Guadalajara
	}}
	tests := []struct {
		lat, lon float64
		want     int
	}{
		{19.40, -99.10, 0},
		{25.80, -100.20, 1},
		{20.60, -103.40, 2},
	}
	for _, tt := range tests {
		got, err := c.Assign(tt.lat, tt.lon)
		if err != nil {
			t.Fatalf("Assign(%v, %v): %v", tt.lat, tt.lon, err)
		}
		if got != tt.want {
			t.Errorf("Assign(%v, %v) = %d, want %d", tt.lat, tt.lon, got, tt.want)
		}
	}
}

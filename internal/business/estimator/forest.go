package estimator

import "fmt"

// Tree is a single regression tree in the exported sklearn layout: parallel
// node arrays where leftChild[i] == -1 marks a leaf holding value[i].
// Interior nodes route x[feature[i]] <= threshold[i] to the left child.
type Tree struct {
	Feature    []int     `json:"feature"`
	Threshold  []float64 `json:"threshold"`
	LeftChild  []int     `json:"leftChild"`
	RightChild []int     `json:"rightChild"`
	Value      []float64 `json:"value"`
}

const leafNode = -1

func (t *Tree) predict(x []float64) (float64, error) {
	node := 0
	for steps := 0; steps <= len(t.Feature); steps++ {
		if node < 0 || node >= len(t.Feature) {
			return 0, fmt.Errorf("tree walked to invalid node %d", node)
		}
		if t.LeftChild[node] == leafNode {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(x) {
			return 0, fmt.Errorf("tree references feature %d, input has %d", f, len(x))
		}
		if x[f] <= t.Threshold[node] {
			node = t.LeftChild[node]
		} else {
			node = t.RightChild[node]
		}
	}
	return 0, fmt.Errorf("tree traversal exceeded node count, cycle suspected")
}

func (t *Tree) validate() error {
	n := len(t.Feature)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.Threshold) != n || len(t.LeftChild) != n || len(t.RightChild) != n || len(t.Value) != n {
		return fmt.Errorf("tree node arrays have inconsistent lengths")
	}
	return nil
}

// Forest is the pretrained random-forest regressor: the prediction is the
// mean of its trees' outputs.
type Forest struct {
	Trees []Tree `json:"trees"`
}

// Predict runs the feature vector through every tree and averages.
func (f *Forest) Predict(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("forest has no trees")
	}
	var sum float64
	for i := range f.Trees {
		v, err := f.Trees[i].predict(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

func (f *Forest) validate() error {
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

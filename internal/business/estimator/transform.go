package estimator

import (
	"fmt"
	"math"
)

// Imputer substitutes precomputed fill values for missing (NaN) features.
type Imputer struct {
	FillValues []float64 `json:"fillValues"`
}

// Transform returns a copy of the vector with NaN slots replaced by the
// trained fill values.
func (im *Imputer) Transform(x []float64) ([]float64, error) {
	if len(x) != len(im.FillValues) {
		return nil, fmt.Errorf("imputer expects %d features, got %d", len(im.FillValues), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) {
			out[i] = im.FillValues[i]
		} else {
			out[i] = v
		}
	}
	return out, nil
}

// Scaler applies the standardization fitted during training:
// (x - mean) / scale per feature.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes the vector.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler mean/scale length mismatch: %d vs %d", len(s.Mean), len(s.Scale))
	}
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		if s.Scale[i] == 0 {
			return nil, fmt.Errorf("scaler feature %d has zero scale", i)
		}
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// ClusterAssigner maps (latitude, longitude) to the nearest trained k-means
// centroid. The resulting label is the model's location feature.
type ClusterAssigner struct {
	Centroids [][2]float64 `json:"centroids"`
}

// Assign returns the index of the nearest centroid by squared Euclidean
// distance.
func (c *ClusterAssigner) Assign(lat, lon float64) (int, error) {
	if len(c.Centroids) == 0 {
		return 0, fmt.Errorf("cluster assigner has no centroids")
	}
	best := 0
	bestDist := math.Inf(1)
	for i, centroid := range c.Centroids {
		dLat := lat - centroid[0]
		dLon := lon - centroid[1]
		dist := dLat*dLat + dLon*dLon
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best, nil
}

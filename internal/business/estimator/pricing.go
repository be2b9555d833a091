package estimator

import (
	"errors"
	"fmt"
	"math"

	"github.com/valora-mx/estimator-api/pkg/model"
)

var (
	// ErrPrediction signals a failed regressor call (e.g. shape mismatch).
	// Non-fatal to the session; the user may retry.
	ErrPrediction = errors.New("could not predict a price")
)

// Rounding granularity per property type: sale prices snap to thousands,
// monthly rents to hundreds.
const (
	houseGranularity     = 1000
	apartmentGranularity = 100
)

// EstimatePrice runs the regressor on a processed feature vector and derives
// the rounded point estimate plus its confidence band.
//
// dampening multiplies the raw prediction before rounding; 1.0 leaves the
// model output untouched, 0.63 reproduces the earlier pipeline variant.
func EstimatePrice(features []float64, bundle *ModelBundle, t model.PropertyType, dampening float64) (model.PriceEstimate, error) {
	raw, err := bundle.Regressor.Predict(features)
	if err != nil {
		return model.PriceEstimate{}, fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return model.PriceEstimate{}, fmt.Errorf("%w: regressor returned %v", ErrPrediction, raw)
	}

	adjusted := raw * dampening

	granularity := float64(houseGranularity)
	if t == model.PropertyApartment {
		granularity = apartmentGranularity
	}
	rounded := math.Floor(adjusted/granularity) * granularity
	if rounded < 0 {
		rounded = 0
	}

	// Asymmetric band: the low side is a fixed discount, the high side
	// narrows in relative terms as the price grows.
	lowFactor := math.Exp(-0.05)
	highFactor := math.Exp(0.01 * math.Log(rounded/1000+1))

	rangeMin := math.Floor(rounded*lowFactor/1000) * 1000
	if rangeMin < 0 {
		rangeMin = 0
	}
	rangeMax := math.Ceil(rounded*highFactor/1000) * 1000

	return model.PriceEstimate{
		PointEstimate: int64(rounded),
		RangeMin:      int64(rangeMin),
		RangeMax:      int64(rangeMax),
	}, nil
}

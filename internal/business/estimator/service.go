package estimator

import (
	"github.com/valora-mx/estimator-api/pkg/model"
)

// Service runs the full inference pipeline for one property: artifact
// lookup, feature assembly, prediction, post-processing.
type Service struct {
	loader    *Loader
	dampening float64
}

// NewService creates the pipeline facade. dampening multiplies the raw
// regressor output before rounding (1.0 = untouched).
func NewService(loader *Loader, dampening float64) *Service {
	if dampening <= 0 {
		dampening = 1.0
	}
	return &Service{loader: loader, dampening: dampening}
}

// Estimate produces a price estimate for the given property. Errors are the
// package sentinels: ErrArtifactMissing (fatal, incomplete bundle),
// ErrPreprocessing, ErrPrediction (both retryable).
func (s *Service) Estimate(geo *model.GeoLocation, in model.PropertyInput) (model.PriceEstimate, error) {
	bundle, err := s.loader.Load(in.PropertyType)
	if err != nil {
		return model.PriceEstimate{}, err
	}
	features, err := AssembleFeatures(geo, in, bundle)
	if err != nil {
		return model.PriceEstimate{}, err
	}
	return EstimatePrice(features, bundle, in.PropertyType, s.dampening)
}

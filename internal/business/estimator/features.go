package estimator

import (
	"errors"
	"fmt"
	"math"

	"github.com/valora-mx/estimator-api/pkg/model"
)

var (
	// ErrPreprocessing signals a failed imputation or scaling step. The
	// session survives; the user is told the data could not be processed.
	ErrPreprocessing = errors.New("could not preprocess input data")
)

// FeatureCount is the fixed width of the model input:
// [landArea, builtArea, bedrooms, bathrooms, locationCluster].
const FeatureCount = 5

// AssembleFeatures builds the scaled feature vector for the regressor. An
// unresolved location or a failed cluster assignment never aborts the
// pipeline: the cluster slot is left missing and the bundle's imputer fills
// it with the trained neutral value.
func AssembleFeatures(geo *model.GeoLocation, in model.PropertyInput, bundle *ModelBundle) ([]float64, error) {
	cluster := math.NaN()
	if geo != nil {
		if label, err := bundle.Clusters.Assign(geo.Latitude, geo.Longitude); err == nil {
			cluster = float64(label)
		}
	}

	raw := []float64{
		float64(in.LandAreaM2),
		float64(in.BuiltAreaM2),
		float64(in.Bedrooms),
		in.Bathrooms,
		cluster,
	}

	imputed, err := bundle.Imputer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreprocessing, err)
	}
	scaled, err := bundle.Scaler.Transform(imputed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreprocessing, err)
	}
	return scaled, nil
}

package estimator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/valora-mx/estimator-api/pkg/model"
)

var (
	// ErrArtifactMissing signals an incomplete model bundle on disk. It is
	// fatal for inference: no estimate may be produced without all four
	// artifacts.
	ErrArtifactMissing = errors.New("model artifact missing")
)

// Artifact file names per bundle. Apartment bundles carry the rental prefix.
const (
	regressorFile = "regressor.json"
	scalerFile    = "scaler.json"
	imputerFile   = "imputer.json"
	clustersFile  = "clusters.json"

	rentalPrefix = "rental_"
)

// ModelBundle holds the four pretrained artifacts for one property type.
type ModelBundle struct {
	Regressor *Forest
	Scaler    *Scaler
	Imputer   *Imputer
	Clusters  *ClusterAssigner
}

// Loader reads model bundles from a fixed directory and memoizes them per
// property type for the process lifetime. Safe for concurrent use; each type
// is loaded at most once.
type Loader struct {
	dir string

	mu      sync.Mutex
	bundles map[model.PropertyType]*ModelBundle
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:     dir,
		bundles: make(map[model.PropertyType]*ModelBundle),
	}
}

// Load returns the cached bundle for the property type, reading it from disk
// on first access. Repeated calls return the same bundle instance.
func (l *Loader) Load(t model.PropertyType) (*ModelBundle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.bundles[t]; ok {
		return b, nil
	}
	b, err := l.read(t)
	if err != nil {
		return nil, err
	}
	l.bundles[t] = b
	return b, nil
}

func (l *Loader) read(t model.PropertyType) (*ModelBundle, error) {
	prefix := ""
	if t == model.PropertyApartment {
		prefix = rentalPrefix
	}

	bundle := &ModelBundle{
		Regressor: &Forest{},
		Scaler:    &Scaler{},
		Imputer:   &Imputer{},
		Clusters:  &ClusterAssigner{},
	}
	files := map[string]any{
		regressorFile: bundle.Regressor,
		scalerFile:    bundle.Scaler,
		imputerFile:   bundle.Imputer,
		clustersFile:  bundle.Clusters,
	}
	for name, target := range files {
		path := filepath.Join(l.dir, prefix+name)
		if err := readJSON(path, target); err != nil {
			return nil, err
		}
	}
	if err := bundle.Regressor.validate(); err != nil {
		return nil, fmt.Errorf("regressor for %s: %w", t, err)
	}
	return bundle, nil
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return nil
}

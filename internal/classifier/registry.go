package classifier

import (
	"fmt"
	"path/filepath"

	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
)

// Artifacts is the trained model and its paired input scaler for one band
type Artifacts struct {
	Model  Model
	Scaler Scaler
}

// Registry maps every AgeBand to its artifacts. It is built once at
// startup and read concurrently afterwards.
type Registry struct {
	artifacts map[AgeBand]Artifacts
}

// NewRegistry builds a registry from already loaded artifacts
func NewRegistry(artifacts map[AgeBand]Artifacts) *Registry {
	copied := make(map[AgeBand]Artifacts, len(artifacts))
	for band, a := range artifacts {
		copied[band] = a
	}
	return &Registry{artifacts: copied}
}

// ModelPath returns the model artifact path for band under dir
func ModelPath(dir string, band AgeBand) string {
	return filepath.Join(dir, fmt.Sprintf("%s_model.json", band))
}

// ScalerPath returns the scaler artifact path for band under dir
func ScalerPath(dir string, band AgeBand) string {
	return filepath.Join(dir, fmt.Sprintf("%s_scaler.json", band))
}

// LoadRegistry loads the model and scaler of every band from dir. A
// missing or undecodable artifact fails the whole load.
func LoadRegistry(dir string) (*Registry, error) {
	artifacts := make(map[AgeBand]Artifacts, len(AllBands))
	for _, band := range AllBands {
		model, err := LoadModel(ModelPath(dir, band))
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", band, err)
		}
		scaler, err := LoadScaler(ScalerPath(dir, band))
		if err != nil {
			return nil, fmt.Errorf("band %s: %w", band, err)
		}
		artifacts[band] = Artifacts{Model: model, Scaler: scaler}
	}
	return &Registry{artifacts: artifacts}, nil
}

// Resolve classifies age and returns the band with its artifacts
func (r *Registry) Resolve(age int) (AgeBand, Artifacts, error) {
	band := Classify(age)
	a, ok := r.artifacts[band]
	if !ok || a.Model == nil || a.Scaler == nil {
		return band, Artifacts{}, apperrors.InternalError(
			fmt.Sprintf("no model registered for age group %s", band), nil,
		).WithOperation("Registry.Resolve")
	}
	return band, a, nil
}

// Bands returns the bands that have artifacts registered
func (r *Registry) Bands() []AgeBand {
	var bands []AgeBand
	for _, band := range AllBands {
		if _, ok := r.artifacts[band]; ok {
			bands = append(bands, band)
		}
	}
	return bands
}

// Package artifact persists fitted estimators and metrics records.
package artifact

import (
	"encoding/gob"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/EgorovM/itmo-mlops-2025/pkg/metrics"
	"github.com/EgorovM/itmo-mlops-2025/pkg/model"
)

// Bundle is a fitted estimator together with what is needed to use it.
type Bundle struct {
	RunID     uuid.UUID
	Dataset   string
	ModelName string
	Algorithm string
	Features  []string
	CreatedAt time.Time
	Model     model.Estimator
}

// create opens path for writing, creating parent directories first.
func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// SaveModel gob-encodes b to path.
func SaveModel(path string, b *Bundle) error {
	file, err := create(path)
	if err != nil {
		return errors.Wrap(err, "save model")
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(b); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return file.Close()
}

// LoadModel reads a bundle written by SaveModel.
func LoadModel(path string) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load model")
	}
	defer file.Close()

	var b Bundle
	if err := gob.NewDecoder(file).Decode(&b); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &b, nil
}

// SaveMetrics writes records as an indented JSON array.
func SaveMetrics[T metrics.Record](path string, records []T) error {
	file, err := create(path)
	if err != nil {
		return errors.Wrap(err, "save metrics")
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return file.Close()
}

func loadMetrics[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load metrics")
	}
	defer file.Close()

	var out []T
	if err := json.NewDecoder(file).Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return out, nil
}

// LoadClassification reads a classification metrics array.
func LoadClassification(path string) ([]metrics.Classification, error) {
	return loadMetrics[metrics.Classification](path)
}

// LoadRegression reads a regression metrics array.
func LoadRegression(path string) ([]metrics.Regression, error) {
	return loadMetrics[metrics.Regression](path)
}

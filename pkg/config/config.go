package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Dataset holds the file layout of one dataset.
type Dataset struct {
	Name      string `yaml:"name"`  // prefix for models and metrics, e.g. "titanic"
	Label     string `yaml:"label"` // target column
	RawTrain  string `yaml:"raw_train"`
	RawTest   string `yaml:"raw_test"`
	Train     string `yaml:"train"`
	Val       string `yaml:"val"`
	Test      string `yaml:"test"`
	Encoders  string `yaml:"encoders"`
	Metrics   string `yaml:"metrics"`
	Stratify  bool   `yaml:"stratify"`
	ModelsDir string `yaml:"models_dir"`
}

// ModelPath returns where the fitted estimator called name is written.
func (d Dataset) ModelPath(name string) string {
	return filepath.Join(d.ModelsDir, d.Name+"_"+name+".gob")
}

// Config is the full set of knobs of a pipeline run.
type Config struct {
	TestSize  float64 `yaml:"test_size"`
	Seed      int64   `yaml:"seed"`
	Titanic   Dataset `yaml:"titanic"`
	House     Dataset `yaml:"house"`
	ReportDir string  `yaml:"report_dir"`
}

// Default returns the layout used by the original scripts, relative to the
// working directory.
func Default() Config {
	raw := filepath.Join("data", "raw")
	processed := filepath.Join("data", "processed")
	models := filepath.Join("models", "trained")
	metrics := "metrics"
	return Config{
		TestSize: 0.2,
		Seed:     42,
		Titanic: Dataset{
			Name:      "titanic",
			Label:     "Survived",
			RawTrain:  filepath.Join(raw, "titanic_train.csv"),
			RawTest:   filepath.Join(raw, "titanic_test.csv"),
			Train:     filepath.Join(processed, "titanic_train.csv"),
			Val:       filepath.Join(processed, "titanic_val.csv"),
			Test:      filepath.Join(processed, "titanic_test_processed.csv"),
			Encoders:  filepath.Join(processed, "titanic_encoders.json"),
			Metrics:   filepath.Join(metrics, "titanic_metrics.json"),
			Stratify:  true,
			ModelsDir: models,
		},
		House: Dataset{
			Name:      "house",
			Label:     "SalePrice",
			RawTrain:  filepath.Join(raw, "house_train.csv"),
			RawTest:   filepath.Join(raw, "house_test.csv"),
			Train:     filepath.Join(processed, "house_train.csv"),
			Val:       filepath.Join(processed, "house_val.csv"),
			Test:      filepath.Join(processed, "house_test.csv"),
			Encoders:  filepath.Join(processed, "house_encoders.json"),
			Metrics:   filepath.Join(metrics, "house_metrics.json"),
			ModelsDir: models,
		},
		ReportDir: filepath.Join("docs", "model-comparison"),
	}
}

// Load overlays the YAML file at path onto Default. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config: open")
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: decode %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no pipeline can run with.
func (c Config) Validate() error {
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return errors.Errorf("config: test_size must be in (0, 1), got %v", c.TestSize)
	}
	for _, d := range []Dataset{c.Titanic, c.House} {
		if d.Name == "" || d.Label == "" {
			return errors.New("config: dataset name and label are required")
		}
	}
	return nil
}

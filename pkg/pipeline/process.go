package pipeline

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/EgorovM/itmo-mlops-2025/pkg/config"
	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/dataprep"
	"github.com/EgorovM/itmo-mlops-2025/pkg/loader"
)

// ProcessPassengers transforms the raw survival train and test files.
func ProcessPassengers(cfg config.Config, log zerolog.Logger) error {
	return process(cfg, cfg.Titanic, Passenger, log)
}

// ProcessHouses transforms the raw house-price train and test files.
func ProcessHouses(cfg config.Config, log zerolog.Logger) error {
	return process(cfg, cfg.House, House, log)
}

func process(cfg config.Config, ds config.Dataset, build func() *Pipeline, log zerolog.Logger) error {
	log = log.With().Str("dataset", ds.Name).Logger()

	if err := Transform(cfg, ds, ds.RawTrain, build(), log); err != nil {
		return err
	}
	if _, err := os.Stat(ds.RawTest); errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", ds.RawTest).Msg("no raw test file, skipping")
		return nil
	}
	return Transform(cfg, ds, ds.RawTest, build(), log)
}

// Transform loads the CSV at path, runs p over it and writes the result.
// A table carrying the label column is split into ds.Train and ds.Val,
// stratified when ds.Stratify is set; any other table is written to
// ds.Test.
func Transform(cfg config.Config, ds config.Dataset, path string, p *Pipeline, log zerolog.Logger) error {
	t, err := data.ReadCSV(path)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("rows", t.Len()).Int("columns", t.Width()).Msg("loaded")

	if err := p.Run(t, log); err != nil {
		return err
	}

	if !t.Has(ds.Label) {
		if err := t.WriteCSV(ds.Test); err != nil {
			return err
		}
		log.Info().Str("path", ds.Test).Int("rows", t.Len()).Msg("wrote test set")
		return writeEncoders(encodersPath(ds.Test), p.Encoders)
	}

	stratify := ""
	if ds.Stratify {
		stratify = ds.Label
	}
	train, val, err := loader.SplitTable(t, cfg.TestSize, cfg.Seed, stratify)
	if err != nil {
		return err
	}
	if err := train.WriteCSV(ds.Train); err != nil {
		return err
	}
	if err := val.WriteCSV(ds.Val); err != nil {
		return err
	}
	log.Info().
		Str("train", ds.Train).Int("train_rows", train.Len()).
		Str("val", ds.Val).Int("val_rows", val.Len()).
		Msg("wrote split")
	return writeEncoders(ds.Encoders, p.Encoders)
}

// encodersPath places the encoders of an unlabelled table next to it.
func encodersPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + "_encoders.json"
}

func writeEncoders(path string, enc dataprep.Encoders) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "write encoders")
	}
	raw, err := json.MarshalIndent(enc, "", "    ")
	if err != nil {
		return errors.Wrap(err, "write encoders")
	}
	return errors.Wrapf(os.WriteFile(path, raw, 0o644), "write %s", path)
}

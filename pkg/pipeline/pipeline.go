// Package pipeline turns raw tables into model-ready ones.
//
// A Pipeline is an ordered list of named steps applied in place to a
// data.Table. The first failing step aborts the run; nothing after it is
// applied, so callers must discard the table on error.
package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/EgorovM/itmo-mlops-2025/pkg/data"
	"github.com/EgorovM/itmo-mlops-2025/pkg/dataprep"
)

// Step is one named in-place transform.
type Step struct {
	Name  string
	Apply func(t *data.Table) error
}

// Pipeline chains steps. Encoders collects the label encoders fitted by the
// last Run.
type Pipeline struct {
	Name     string
	Steps    []Step
	Encoders dataprep.Encoders
}

// New builds a pipeline from steps.
func New(name string, steps ...Step) *Pipeline {
	return &Pipeline{Name: name, Steps: steps, Encoders: dataprep.Encoders{}}
}

// Add appends a step.
func (p *Pipeline) Add(name string, apply func(t *data.Table) error) {
	p.Steps = append(p.Steps, Step{Name: name, Apply: apply})
}

// Run applies every step to t in order.
func (p *Pipeline) Run(t *data.Table, log zerolog.Logger) error {
	p.Encoders = dataprep.Encoders{}
	for _, step := range p.Steps {
		start := time.Now()
		if err := step.Apply(t); err != nil {
			return errors.Wrapf(err, "%s: step %q", p.Name, step.Name)
		}
		log.Debug().
			Str("pipeline", p.Name).
			Str("step", step.Name).
			Int("columns", t.Width()).
			Dur("took", time.Since(start)).
			Msg("step done")
	}
	log.Info().Str("pipeline", p.Name).Int("rows", t.Len()).Int("columns", t.Width()).Msg("transformed")
	return nil
}

// each applies fn to every named column, failing if one is absent.
func each(t *data.Table, names []string, fn func(*data.Column) error) error {
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		if err := fn(col); err != nil {
			return err
		}
	}
	return nil
}

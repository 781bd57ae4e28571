// Command mlops runs the tabular pipeline stages: preprocessing, training
// and model comparison for the survival and house-price datasets.
//
//	$ mlops process-titanic
//	$ mlops train-house -config mlops.yaml
//	$ mlops all
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/rs/zerolog"

	"github.com/EgorovM/itmo-mlops-2025/pkg/config"
	"github.com/EgorovM/itmo-mlops-2025/pkg/logging"
	"github.com/EgorovM/itmo-mlops-2025/pkg/pipeline"
	"github.com/EgorovM/itmo-mlops-2025/pkg/report"
	"github.com/EgorovM/itmo-mlops-2025/pkg/train"
)

// stage is one pipeline step runnable from the command line.
type stage struct {
	name  string
	short string
	done  string
	run   func(cfg config.Config, log zerolog.Logger) error
}

var stages = []stage{
	{"process-titanic", "preprocess the passenger survival data", "Titanic data processed successfully!", pipeline.ProcessPassengers},
	{"process-house", "preprocess the house price data", "House price data processed successfully!", pipeline.ProcessHouses},
	{"train-titanic", "train and score the survival classifiers", "Titanic models trained successfully!", train.TrainPassengers},
	{"train-house", "train and score the house price regressors", "House price models trained successfully!", train.TrainHouses},
	{"compare", "render the model comparison report", "Report generated successfully!", report.Compare},
}

func newCommand(usage, short string, run func(cfg config.Config, log zerolog.Logger) error) *commander.Command {
	cmd := &commander.Command{
		UsageLine: usage + " [-config file.yaml]",
		Short:     short,
		Flag:      *flag.NewFlagSet(usage, flag.ExitOnError),
	}
	path := cmd.Flag.String("config", "", "YAML file overriding the default paths, split size and seed")
	cmd.Run = func(cmd *commander.Command, args []string) error {
		cfg, err := config.Load(*path)
		if err != nil {
			return err
		}
		return run(cfg, logging.Stderr(usage))
	}
	return cmd
}

func stageCmd(s stage) *commander.Command {
	return newCommand(s.name, s.short, func(cfg config.Config, log zerolog.Logger) error {
		if err := s.run(cfg, log); err != nil {
			return err
		}
		fmt.Println(s.done)
		return nil
	})
}

func allCmd() *commander.Command {
	return newCommand("all", "run every stage in order", func(cfg config.Config, log zerolog.Logger) error {
		for _, s := range stages {
			log.Info().Str("stage", s.name).Msg("starting")
			if err := s.run(cfg, log.With().Str("stage", s.name).Logger()); err != nil {
				return err
			}
			fmt.Println(s.done)
		}
		return nil
	})
}

func newRoot() *commander.Command {
	root := &commander.Command{
		UsageLine: "mlops <command> [options]",
		Short:     "tabular ML pipeline stages",
	}
	for _, s := range stages {
		root.Subcommands = append(root.Subcommands, stageCmd(s))
	}
	root.Subcommands = append(root.Subcommands, allCmd())
	return root
}

func main() {
	if err := newRoot().Dispatch(context.Background(), os.Args[1:]); err != nil {
		log := logging.Stderr("mlops")
		log.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

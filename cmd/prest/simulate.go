package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prestsoftware/prest/csvio"
	"github.com/prestsoftware/prest/simulation"
	"github.com/prestsoftware/prest/subject"
)

func simulateCmd() *cobra.Command {
	var name string
	var alternatives []string
	var menuGen string
	var sampleCount uint32
	var useDefaults bool
	var choiceGen string
	var forcedChoice bool
	var multipleChoice bool
	var preserveDeferrals bool
	var seed int64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate one synthetic subject and write it as CSV to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				simulation.Seed(seed)
			}

			gen, err := buildMenuGenerator(menuGen, sampleCount)
			if err != nil {
				return err
			}
			cgen, err := buildChoiceGenerator(choiceGen, forcedChoice, multipleChoice)
			if err != nil {
				return err
			}

			req := simulation.Request{
				Name:              name,
				Alternatives:      alternatives,
				GenMenus:          simulation.GenMenus{Generator: gen, Defaults: useDefaults},
				GenChoices:        cgen,
				PreserveDeferrals: preserveDeferrals,
			}
			s := simulation.Run(req)
			return csvio.WriteSubjects(os.Stdout, []subject.Subject{s})
		},
	}

	cmd.Flags().StringVar(&name, "name", "sim", "generated subject's name")
	cmd.Flags().StringSliceVar(&alternatives, "alternatives", nil, "alternative names, in order (required)")
	cmd.Flags().StringVar(&menuGen, "menu-generator", "exhaustive", "exhaustive, sample, or binary")
	cmd.Flags().Uint32Var(&sampleCount, "sample-count", 0, "menu count for --menu-generator=sample")
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "attach a default alternative to every menu")
	cmd.Flags().StringVar(&choiceGen, "choice-generator", "uniform", "uniform")
	cmd.Flags().BoolVar(&forcedChoice, "forced-choice", false, "never allow deferral")
	cmd.Flags().BoolVar(&multipleChoice, "multiple-choice", false, "allow more than one chosen alternative")
	cmd.Flags().BoolVar(&preserveDeferrals, "preserve-deferrals", false, "keep rows where nothing was chosen")
	cmd.Flags().Int64Var(&seed, "seed", 0, "reseed the shared simulation RNG stream")
	cmd.MarkFlagRequired("alternatives")
	return cmd
}

func buildMenuGenerator(kind string, sampleCount uint32) (simulation.MenuGenerator, error) {
	switch kind {
	case "exhaustive":
		return simulation.ExhaustiveMenuGenerator{}, nil
	case "sample":
		return simulation.SampleWithReplacementMenuGenerator{Count: sampleCount}, nil
	case "binary":
		return simulation.BinaryMenuGenerator{}, nil
	default:
		return nil, errUnknownGenerator(kind)
	}
}

func buildChoiceGenerator(kind string, forced, multi bool) (simulation.ChoiceGenerator, error) {
	switch kind {
	case "uniform":
		return simulation.UniformChoiceGenerator{ForcedChoice: forced, MultipleChoice: multi}, nil
	default:
		return nil, errUnknownGenerator(kind)
	}
}

func errUnknownGenerator(kind string) error {
	return fmt.Errorf("unknown generator %q", kind)
}

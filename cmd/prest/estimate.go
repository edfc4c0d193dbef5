package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prestsoftware/prest/csvio"
	"github.com/prestsoftware/prest/estimation"
	"github.com/prestsoftware/prest/preorder"
)

func estimateCmd() *cobra.Command {
	var input string
	var modelNames []string
	var distanceName string
	var disableParallelism bool
	var precomputedPath string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Score every subject in a CSV file against one or more choice models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if precomputedPath != "" {
				cfg.PrecomputedPreorders = precomputedPath
			}

			models, err := parseModels(modelNames)
			if err != nil {
				return err
			}
			ds, err := parseDistanceScore(distanceName)
			if err != nil {
				return err
			}

			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			subjects, err := csvio.ReadAll(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			var loader *preorder.FileLoader
			if cfg.PrecomputedPreorders != "" {
				loader = preorder.NewFileLoader(cfg.PrecomputedPreorders)
			}
			pc := preorder.NewPrecomputed(loader)

			var maxAlt uint32
			for _, s := range subjects {
				if n := s.AltCount(); n > maxAlt {
					maxAlt = n
				}
			}
			if estimation.NeedsPrecompute(models) {
				if err := pc.Precompute(maxAlt); err != nil {
					return err
				}
			}

			log := consoleLogger(cfg)
			results, err := estimation.Run(pc, subjects, models, ds, disableParallelism, log)
			if err != nil {
				return err
			}

			for _, res := range results {
				fmt.Printf("%s\tpenalty=[%s, %s]\tties=%d\n",
					res.SubjectName, res.Best.LowerBound.RatString(), res.Best.UpperBound.RatString(), len(res.Instances))
				for _, inst := range res.Instances {
					fmt.Printf("  %s\n", instanceKind(inst))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "CSV file of subject/menu/choice rows (required)")
	cmd.Flags().StringSliceVar(&modelNames, "model", nil, "model(s) to score against, e.g. preorder-maximization")
	cmd.Flags().StringVar(&distanceName, "distance", "houtman-maks", "distance score: houtman-maks or jaccard")
	cmd.Flags().BoolVar(&disableParallelism, "disable-parallelism", false, "force sequential scoring")
	cmd.Flags().StringVar(&precomputedPath, "precomputed-preorders", "", "path to the size-7 precomputed preorders file (overrides config)")
	cmd.MarkFlagRequired("input")
	return cmd
}

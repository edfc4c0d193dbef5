package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prestsoftware/prest/consistency"
	"github.com/prestsoftware/prest/csvio"
	"github.com/prestsoftware/prest/subject"
)

func consistencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check one subject's choice data for revealed-preference consistency",
	}
	cmd.AddCommand(consistencyDeterministicCmd(), consistencyStochasticCmd())
	return cmd
}

// readOneSubject loads input's CSV and requires it describe exactly one
// subject: the consistency analyzers operate on a single choice history.
func readOneSubject(input string) (subject.Subject, error) {
	f, err := os.Open(input)
	if err != nil {
		return subject.Subject{}, err
	}
	defer f.Close()

	subjects, err := csvio.ReadAll(f)
	if err != nil {
		return subject.Subject{}, fmt.Errorf("read %s: %w", input, err)
	}
	if len(subjects) != 1 {
		return subject.Subject{}, fmt.Errorf("expected exactly one subject in %s, got %d", input, len(subjects))
	}
	return subjects[0], nil
}

func consistencyDeterministicCmd() *cobra.Command {
	var input string
	var allowRepeatedMenus bool

	cmd := &cobra.Command{
		Use:   "deterministic",
		Short: "Run GARP/SARP/WARP/contraction-consistency and tuple-intransitivity checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readOneSubject(input)
			if err != nil {
				return err
			}

			v, err := consistency.Analyze(s.AltCount(), s.Choices, allowRepeatedMenus)
			if err != nil {
				return err
			}

			fmt.Printf("cycles:                %d\n", len(v.Cycles))
			fmt.Printf("WARP violations:       %s (%d pairs)\n", v.WARP.String(), v.WARPPairs)
			fmt.Printf("contraction:           %d pairs, %d violations\n", v.ContractionPairs, v.ContractionAll)
			fmt.Printf("binary intransitivities: %d\n", len(v.BinaryIntransitivities))
			fmt.Printf("tuple intransitivities:  %d\n", len(v.TupleIntransitivities))
			fmt.Printf("Houtman-Maks index:    [%d, %d]\n", v.HoutmanMaksLower, v.HoutmanMaksUpper)
			for _, row := range v.Rows {
				fmt.Printf("  cycle length %d: SARP=%s GARP=%s (%d cycle ids)\n",
					row.Length, row.SARP.String(), row.GARP.String(), len(row.CycleIDs))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV file of one subject's choice rows (required)")
	cmd.Flags().BoolVar(&allowRepeatedMenus, "allow-repeated-menus", false, "tolerate the same menu appearing more than once")
	cmd.MarkFlagRequired("input")
	return cmd
}

func consistencyStochasticCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "stochastic",
		Short: "Run stochastic-transitivity and regularity checks over repeated-menu choice frequencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readOneSubject(input)
			if err != nil {
				return err
			}

			f := consistency.ComputeFrequencies(s.Choices)
			stv := consistency.CheckStochasticTransitivity(f, s.AltCount())
			reg := consistency.CheckRegularity(f)

			fmt.Printf("stochastic transitivity violations: %d\n", len(stv))
			for _, v := range stv {
				fmt.Printf("  (%d,%d,%d) weak=%v moderate=%v strong=%v\n",
					v.A.Index(), v.B.Index(), v.C.Index(), v.Weak, v.Moderate, v.Strong)
			}
			fmt.Printf("regularity violations: %d\n", len(reg))
			for _, v := range reg {
				fmt.Printf("  alt %d: freq(small)=%s freq(big)=%s\n",
					v.Alt.Index(), v.FreqSmall.RatString(), v.FreqBig.RatString())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "CSV file of one subject's choice rows (required)")
	cmd.MarkFlagRequired("input")
	return cmd
}

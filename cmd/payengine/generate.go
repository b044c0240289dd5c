package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/payengine/internal/adapter/report"
	"github.com/iho/payengine/internal/adapter/source"
)

func generateCmd() *cobra.Command {
	var (
		count     int
		seed      uint64
		clients   int
		maxAmount string
		outFile   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a reproducible random stream of transaction records as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.GeneratorSeed
			}

			limit, err := parseMaxAmount(maxAmount)
			if err != nil {
				return err
			}

			src := source.NewGeneratorSource(source.GeneratorConfig{
				Count:     count,
				Seed:      seed,
				Clients:   clients,
				MaxAmount: limit,
			}, source.NewIDSequence(1))

			out := cmd.OutOrStdout()
			if outFile != "" {
				f, err := os.Create(outFile)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			n, err := report.NewRecordWriter(out).WriteRecords(cmd.Context(), src)
			if err != nil {
				return fmt.Errorf("failed to write records: %w", err)
			}

			a.logger.Info().Int("records", n).Uint64("seed", seed).Msg("synthetic records generated")
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1000, "Number of records to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed (overrides GENERATOR_SEED)")
	cmd.Flags().IntVar(&clients, "clients", 1000, "Number of distinct clients")
	cmd.Flags().StringVar(&maxAmount, "max-amount", "1000", "Largest deposit or withdrawal amount")
	cmd.Flags().StringVar(&outFile, "out-file", "", "Write records to this file instead of stdout")

	return cmd
}

func parseMaxAmount(raw string) (decimal.Decimal, error) {
	limit, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --max-amount: %w", err)
	}
	if limit.GreaterThan(source.MaxGeneratorAmount) {
		return decimal.Zero, fmt.Errorf("invalid --max-amount: must not exceed %s", source.MaxGeneratorAmount)
	}
	return limit, nil
}

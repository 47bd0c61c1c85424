package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payiter/internal/config"
	"github.com/cleared-dev/payiter/internal/model"
	"github.com/cleared-dev/payiter/internal/payment"
)

// samplePayments seeds the files written by init.
var samplePayments = []model.Payment{
	{Date: "2025-01-01", Amount: 100.0, Method: "credit", IsSuccessful: true},
	{Date: "2025-01-02", Amount: 50.0, Method: "debit", IsSuccessful: true},
	{Date: "2025-01-03", Amount: 75.0, Method: "credit", IsSuccessful: false},
}

const (
	sampleJSONFile = "payments.jsonl"
	sampleCSVFile  = "payments.csv"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a config file and sample payment records",
		Long:  "Write payiter.yaml plus sample records. --format picks which sample the config reads.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			f := model.FormatJSON
			if opts.format != "" {
				var ok bool
				if f, ok = model.ParseFormat(opts.format); !ok {
					return fmt.Errorf("unknown format %q", opts.format)
				}
			}

			if err := runInit(absDir, f, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized payiter project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config and sample files")

	return cmd
}

func runInit(dir string, format model.Format, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if !force {
		for _, name := range []string{config.FileName, sampleJSONFile, sampleCSVFile} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
	}

	// Write sample records in both encodings.
	var jsonLines, csvLines []string
	csvLines = append(csvLines, payment.Header)
	for _, p := range samplePayments {
		j, err := payment.EncodeJSON(p)
		if err != nil {
			return err
		}
		c, err := payment.EncodeCSV(p)
		if err != nil {
			return err
		}
		jsonLines = append(jsonLines, j)
		csvLines = append(csvLines, c)
	}
	if err := writeLines(filepath.Join(dir, sampleJSONFile), jsonLines); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(dir, sampleCSVFile), csvLines); err != nil {
		return err
	}

	// Write payiter.yaml.
	cfg := config.Default(sampleJSONFile)
	if format == model.FormatCSV {
		cfg.Source.Path = sampleCSVFile
		cfg.Source.Format = model.FormatCSV
		cfg.Source.SkipHeader = true
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("logs/\n*.parquet\n.env\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

func writeLines(path string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

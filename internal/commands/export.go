package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/payiter/internal/export"
	"github.com/cleared-dev/payiter/internal/lending"
	"github.com/cleared-dev/payiter/internal/model"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var out string
	var compression string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Decode all records and write them as Parquet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("compression") {
				s.cfg.Export.Compression = compression
			}
			return runExport(cmd, s, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output Parquet file (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&compression, "compression", "", "parquet compression: none, snappy, gzip, zstd")

	return cmd
}

func runExport(cmd *cobra.Command, s *session, out string) error {
	compression := s.cfg.Export.Compression
	if compression == "none" {
		compression = ""
	}

	store, err := s.loadStore(cmd.Context())
	if err != nil {
		return err
	}

	payments, err := lending.Collect(store, s.decoder.Decode)
	if err != nil {
		s.record(store, "failed: "+err.Error())
		return fmt.Errorf("decoding records: %w", err)
	}

	if err := writeParquetFile(cmd, out, payments, compression); err != nil {
		s.record(store, "failed: "+err.Error())
		return err
	}

	s.log.Debug("wrote parquet", zap.String("path", out), zap.Int("rows", len(payments)))
	fmt.Fprintf(s.out, "Exported %d payments to %s\n", len(payments), out)
	s.record(store, "out="+out)
	return nil
}

func writeParquetFile(cmd *cobra.Command, out string, payments []model.Payment, compression string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.WriteParquet(cmd.Context(), f, payments, compression); err != nil {
		f.Close()
		_ = os.Remove(out)
		return fmt.Errorf("exporting %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/payiter/internal/lending"
	"github.com/cleared-dev/payiter/internal/payment"
)

func newExtractCommand(opts *globalOptions) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Decode each record and print one field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			return runExtract(cmd, s, field)
		},
	}

	cmd.Flags().StringVar(&field, "field", "amount", "field to print: date, amount, method, is_successful")

	return cmd
}

func runExtract(cmd *cobra.Command, s *session, field string) error {
	pick, ok := payment.Field(s.decoder, field)
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}

	store, err := s.loadStore(cmd.Context())
	if err != nil {
		return err
	}

	for {
		v, ok, err := lending.ProcessErr(store, pick)
		if err != nil {
			s.record(store, "failed: "+err.Error())
			return fmt.Errorf("extracting %s: %w", field, err)
		}
		if !ok {
			break
		}
		fmt.Fprintln(s.out, v)
	}

	s.record(store, "field="+field)
	return nil
}

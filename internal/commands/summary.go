package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/payiter/internal/summary"
)

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print payment counts and exact totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			return runSummary(cmd, s)
		},
	}
}

func runSummary(cmd *cobra.Command, s *session) error {
	store, err := s.loadStore(cmd.Context())
	if err != nil {
		return err
	}

	sum, err := summary.Summarize(store, s.decoder)
	if err != nil {
		s.record(store, "failed: "+err.Error())
		return err
	}
	if err := sum.Write(s.out); err != nil {
		return err
	}

	s.record(store, "total "+sum.Total.StringFixed(2))
	return nil
}

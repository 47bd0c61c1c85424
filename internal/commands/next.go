package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNextCommand(opts *globalOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print raw records in order",
		Long: "Advance through the records, printing each one verbatim. " +
			"Prints <none> once the records are exhausted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative, got %d", count)
			}
			s, err := opts.newSession(cmd)
			if err != nil {
				return err
			}
			return runNext(cmd, s, count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of advances (0 = until exhausted)")

	return cmd
}

func runNext(cmd *cobra.Command, s *session, count int) error {
	store, err := s.loadStore(cmd.Context())
	if err != nil {
		return err
	}

	n := 0
	for rec := range store.All() {
		fmt.Fprintln(s.out, rec)
		n++
		if n == count {
			break
		}
	}
	if count == 0 || n < count {
		fmt.Fprintln(s.out, "<none>")
	}

	s.record(store, "")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewTimeCommand creates the time command
func NewTimeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time [expression]",
		Short: "Parse a time expression and show it in every calendar",
		Long: `Parse a time expression through the clock service and print the
resulting Unix timestamp with its Meaji, Imor and Junesgi renderings.
Without an expression the current time is used.

Examples:
  orbitnav time
  orbitnav time "2401.3.14 08:00"
  orbitnav time 1800000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			input := strings.Join(args, " ")

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			session, err := rt.newSession(nil)
			if err != nil {
				return err
			}

			ts, ok := session.ResolveTime(ctx, input)
			if !ok {
				return fmt.Errorf("could not understand time %q", input)
			}

			conv, err := rt.client.Convert(ctx, ts)
			if err != nil {
				return fmt.Errorf("failed to convert timestamp: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Unix:             %s\n", conv.Timestamp)
			fmt.Fprintf(out, "UTC:              %s\n", formatTimestamp(ts))
			fmt.Fprintf(out, "Meaji:            %s\n", conv.Meaji)
			fmt.Fprintf(out, "Imor:             %s\n", conv.Imor)
			fmt.Fprintf(out, "Junesgi:          %s\n", conv.Junesgi)
			return nil
		},
	}

	return cmd
}

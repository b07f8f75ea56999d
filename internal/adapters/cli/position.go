package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewPositionCommand creates the position command
func NewPositionCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "position <object>",
		Short: "Show where a body is at a given time",
		Long: `Show a body's position on the ecliptic plane, in AU, at a launch time.

Examples:
  orbitnav position Mars
  orbitnav position Ceres --at "2401.3.14 08:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			name := args[0]

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			session, err := rt.newSession(nil)
			if err != nil {
				return err
			}

			ts, ok := session.ResolveTime(ctx, at)
			if !ok && at != "" {
				return fmt.Errorf("could not understand time %q", at)
			}

			pos, ok := session.GetArrivalPosition(ctx, name, ts)
			if !ok {
				return fmt.Errorf("position of %s unavailable", name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Object:           %s\n", name)
			if obj, found := session.Object(name); found && obj.Type != "" {
				fmt.Fprintf(out, "Type:             %s\n", obj.Type)
			}
			fmt.Fprintf(out, "Time:             %s\n", formatTimestamp(ts))
			fmt.Fprintf(out, "Position:         (%.6f, %.6f) AU\n", pos.X, pos.Y)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time expression (default: now)")

	return cmd
}

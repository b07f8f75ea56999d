package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

// NewPresetsCommand creates the presets command
func NewPresetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List vessel presets",
		Long: `List the vessel presets served by the vessels service, with the
sustained acceleration each one can hold.

Example:
  orbitnav presets`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			session, err := rt.newSession(nil)
			if err != nil {
				return err
			}
			if err := session.UpdateVesselPresets(ctx); err != nil {
				return err
			}

			presets := session.Presets()
			if len(presets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets available")
				return nil
			}
			printPresets(cmd, presets)
			return nil
		},
	}

	return cmd
}

func printPresets(cmd *cobra.Command, presets vessel.Presets) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tΔV (km/s)\tMASS (t)\tTHRUST (kN)\tACCEL (g)")
	fmt.Fprintln(w, "----\t---------\t--------\t-----------\t---------")

	for _, name := range presets.Names() {
		p := presets[name]
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.1f\t%.3f\n",
			name, p.DeltaV/1000, p.MassT, p.ThrustN/1000, p.MaxAccelerationG())
	}
	w.Flush()
}

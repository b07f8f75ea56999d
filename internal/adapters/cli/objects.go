package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Sorano7/cise-sente-tool/internal/domain/objects"
)

// NewObjectsCommand creates the objects command
func NewObjectsCommand() *cobra.Command {
	var (
		at        string
		positions bool
	)

	cmd := &cobra.Command{
		Use:   "objects",
		Short: "List bodies known to the object service",
		Long: `List every body that can take part in a route.

With --positions the full catalog is fetched for the given time and each
body is printed with its type, ecliptic position and semi-major axis.

Examples:
  orbitnav objects
  orbitnav objects --positions
  orbitnav objects --positions --at "2401.3.14"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := cmd.OutOrStdout()

			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			if !positions {
				names, err := rt.client.ListObjects(ctx)
				if err != nil {
					return fmt.Errorf("failed to list objects: %w", err)
				}
				for _, name := range names {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			session, err := rt.newSession(nil)
			if err != nil {
				return err
			}
			ts, ok := session.ResolveTime(ctx, at)
			if !ok && at != "" {
				return fmt.Errorf("could not understand time %q", at)
			}
			// ResolveTime only logs a failed refresh; retry to surface the error
			catalog := session.Objects()
			if len(catalog) == 0 {
				if err := session.UpdateObjectPositions(ctx, ts); err != nil {
					return err
				}
				catalog = session.Objects()
			}

			fmt.Fprintf(out, "Positions at %s\n\n", formatTimestamp(ts))
			printCatalog(cmd, catalog)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time expression for --positions (default: now)")
	cmd.Flags().BoolVar(&positions, "positions", false, "Include positions and orbital data")

	return cmd
}

func printCatalog(cmd *cobra.Command, catalog objects.Catalog) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tX (AU)\tY (AU)\tA (AU)")
	fmt.Fprintln(w, "----\t----\t------\t------\t------")

	for _, name := range catalog.Names() {
		obj, _ := catalog.Get(name)
		semiMajor := "-"
		if obj.A != nil {
			semiMajor = fmt.Sprintf("%.4f", *obj.A)
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\n", name, obj.Type, obj.X, obj.Y, semiMajor)
	}
	w.Flush()
}

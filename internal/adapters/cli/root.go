package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	baseURL    string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orbitnav",
		Short: "orbitnav - plan trajectories against the navigation backend",
		Long: `orbitnav plans multi-stop trajectories through the solar system.
Routes are solved by the remote pathfinding service; body positions and
calendar parsing come from the objects and clock services.

Examples:
  orbitnav plan --from Earth --to Mars --via Ceres
  orbitnav plan --from Earth --to Jupiter --at "2401.3.14" --preset "H-B Fusion"
  orbitnav position Mars --at "2401.3.14"
  orbitnav objects --positions
  orbitnav presets
  orbitnav time "2401.3.14 08:00"
  orbitnav shell`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/orbitnav)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "",
		"Navigation backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewShellCommand())
	rootCmd.AddCommand(NewPositionCommand())
	rootCmd.AddCommand(NewObjectsCommand())
	rootCmd.AddCommand(NewPresetsCommand())
	rootCmd.AddCommand(NewTimeCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command. Cancelling ctx aborts in-flight requests.
func Execute(ctx context.Context) {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

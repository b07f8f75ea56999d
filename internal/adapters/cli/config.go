package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sorano7/cise-sente-tool/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect orbitnav configuration settings.

Configuration is loaded from multiple sources with priority:
1. Command-line flags (--base-url, --verbose)
2. Environment variables (ORBIT_* prefix, also read from .env)
3. Config file (config.yaml)
4. Default values

Examples:
  orbitnav config show
  orbitnav config show --config ./configs/staging.yaml`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.Default()
			}
			if baseURL != "" {
				cfg.API.BaseURL = baseURL
			}

			fmt.Fprintln(out, "orbitnav Configuration")
			fmt.Fprintln(out, "======================")

			fmt.Fprintln(out, "Navigation API:")
			fmt.Fprintf(out, "  Base URL:         %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "  Timeout:          %s\n", cfg.API.Timeout)
			fmt.Fprintf(out, "  Endpoints:        objects=%s pathfind=%s vessels=%s clock=%s\n",
				cfg.API.Endpoints.Objects, cfg.API.Endpoints.Pathfind,
				cfg.API.Endpoints.Vessels, cfg.API.Endpoints.Clock)
			fmt.Fprintf(out, "  Rate Limit:       %g req/s (burst: %d)\n",
				cfg.API.RateLimit.Requests, cfg.API.RateLimit.Burst)
			fmt.Fprintf(out, "  Circuit Breaker:  %d failures, %s cooldown\n",
				cfg.API.Breaker.MaxFailures, cfg.API.Breaker.Cooldown)

			fmt.Fprintln(out, "\nSession:")
			fmt.Fprintf(out, "  Vessel:           %s\n", cfg.Session.Vessel)
			p := cfg.Session.Policy
			fmt.Fprintf(out, "  Policy:           time=%g cost=%g comfort=%g coast=%t\n",
				p.TimeWeight, p.CostWeight, p.ComfortWeight, !p.DisableCoast)
			if cfg.Session.Preset != "" {
				fmt.Fprintf(out, "  Preset:           %s\n", cfg.Session.Preset)
			} else {
				fmt.Fprintf(out, "  Preset:           (not set)\n")
			}
			fmt.Fprintf(out, "  Load Presets:     %t\n", cfg.Session.LoadPresets)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Address:          %s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)

			return nil
		},
	}

	return cmd
}

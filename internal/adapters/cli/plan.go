package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
	"github.com/Sorano7/cise-sente-tool/internal/domain/pathfinding"
	"github.com/Sorano7/cise-sente-tool/internal/domain/route"
	"github.com/Sorano7/cise-sente-tool/internal/domain/shared"
)

// arrivalLookupLimit bounds concurrent position requests per plan
const arrivalLookupLimit = 4

type planOptions struct {
	from     string
	to       string
	via      []string
	at       string
	preset   string
	asJSON   bool
	noColor  bool
	noArrive bool

	deltaV  float64
	massT   float64
	thrustN float64

	timeWeight    float64
	costWeight    float64
	comfortWeight float64
	noCoast       bool
}

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Solve a route between two bodies",
		Long: `Solve a route from an origin to a destination, optionally through
mandatory stops, and print each leg with its burn and coast profile.

The launch time accepts anything the clock service understands. When it is
omitted the route launches now. Vessel parameters start from the configured
vessel, then the preset, then any explicit flags.

Examples:
  orbitnav plan --from Earth --to Mars
  orbitnav plan --from Earth --to Jupiter --via Ceres --via Vesta
  orbitnav plan --from Earth --to Mars --at "2401.3.14" --preset "H-B Fusion"
  orbitnav plan --from Earth --to Mars --time-weight 3 --no-coast --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Origin body (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Destination body (required)")
	cmd.Flags().StringSliceVar(&opts.via, "via", nil, "Mandatory stop, in order (repeatable)")
	cmd.Flags().StringVar(&opts.at, "at", "", "Launch time expression (default: now)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "Vessel preset to apply")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the solver result as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable ANSI colors")
	cmd.Flags().BoolVar(&opts.noArrive, "no-arrivals", false, "Skip arrival position lookups")
	addVesselFlags(cmd, opts)

	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func addVesselFlags(cmd *cobra.Command, opts *planOptions) {
	cmd.Flags().Float64Var(&opts.deltaV, "delta-v", 0, "Vessel Δv in m/s")
	cmd.Flags().Float64Var(&opts.massT, "mass", 0, "Vessel mass in tonnes")
	cmd.Flags().Float64Var(&opts.thrustN, "thrust", 0, "Vessel thrust in newtons")
	cmd.Flags().Float64Var(&opts.timeWeight, "time-weight", 0, "Weight of travel time")
	cmd.Flags().Float64Var(&opts.costWeight, "cost-weight", 0, "Weight of Δv cost")
	cmd.Flags().Float64Var(&opts.comfortWeight, "comfort-weight", 0, "Weight of passenger comfort")
	cmd.Flags().BoolVar(&opts.noCoast, "no-coast", false, "Burn continuously, never coast")
}

func runPlan(cmd *cobra.Command, opts *planOptions) error {
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

	session, err := rt.newSession(writerNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	unsubscribe := session.Subscribe(func(e navigation.Event) {
		rt.logger.Debug("session changed", "changes", e.Changes, "legs", len(routeLegs(e.View.Result)))
	})
	defer unsubscribe()

	if err := rt.loadPresets(ctx, session, opts.preset); err != nil {
		return err
	}
	if err := applyVesselFlags(cmd, session, opts); err != nil {
		return err
	}

	if _, ok := session.ResolveTime(ctx, opts.at); !ok && opts.at != "" {
		return fmt.Errorf("could not understand launch time %q", opts.at)
	}

	if err := buildRoute(session, opts.from, opts.to, opts.via); err != nil {
		return err
	}

	res, err := session.Calculate(ctx)
	if err != nil {
		if errors.Is(err, navigation.ErrNoPath) {
			fmt.Fprintf(out, "No path found from %s to %s\n", opts.from, opts.to)
			return nil
		}
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	arrivals := map[int]shared.Position{}
	if !opts.noArrive {
		arrivals = lookupArrivals(ctx, session, res)
	}

	printPlan(out, session, res, arrivals, !opts.noColor && colorEnabled(out))
	return nil
}

// applyVesselFlags overlays explicitly set vessel and policy flags
func applyVesselFlags(cmd *cobra.Command, session *navigation.Session, opts *planOptions) error {
	flags := cmd.Flags()

	v := session.Vessel()
	if flags.Changed("delta-v") {
		v.DeltaV = opts.deltaV
	}
	if flags.Changed("mass") {
		v.MassT = opts.massT
	}
	if flags.Changed("thrust") {
		v.ThrustN = opts.thrustN
	}
	if err := session.SetVessel(v); err != nil {
		return err
	}

	p := session.Policy()
	if flags.Changed("time-weight") {
		p.TimeWeight = opts.timeWeight
	}
	if flags.Changed("cost-weight") {
		p.CostWeight = opts.costWeight
	}
	if flags.Changed("comfort-weight") {
		p.ComfortWeight = opts.comfortWeight
	}
	if flags.Changed("no-coast") {
		p.DisableCoast = opts.noCoast
	}
	return session.SetPolicy(p)
}

// buildRoute assigns roles and reports any body the session refused
func buildRoute(session *navigation.Session, from, to string, via []string) error {
	session.AssignRole(from, route.RoleOrigin)
	session.AssignRole(to, route.RoleDestination)
	for _, stop := range via {
		session.AddWaypoint(stop)
	}

	def := session.Route()
	for _, id := range append([]string{from, to}, via...) {
		if !def.Has(id) {
			return fmt.Errorf("unknown object %q", id)
		}
	}
	return nil
}

// lookupArrivals fetches each leg destination's position at its arrival time
func lookupArrivals(ctx context.Context, session *navigation.Session, res *pathfinding.Result) map[int]shared.Position {
	times := res.ArrivalTimes()
	arrivals := make(map[int]shared.Position, len(times))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(arrivalLookupLimit)
	for i, leg := range res.Legs {
		name := leg.Destination()
		if name == "" {
			continue
		}
		g.Go(func() error {
			if pos, ok := session.GetArrivalPosition(gctx, name, times[i]); ok {
				mu.Lock()
				arrivals[i] = pos
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return arrivals
}

func printPlan(w io.Writer, session *navigation.Session, res *pathfinding.Result, arrivals map[int]shared.Position, colors bool) {
	formatter := NewPathFormatter(colors)

	def := session.Route()
	fmt.Fprintf(w, "Route:   %s\n", def.String())
	fmt.Fprintf(w, "Vessel:  %s\n", session.Vessel())
	fmt.Fprintln(w)
	fmt.Fprint(w, formatter.FormatPath(res, arrivals))
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatter.FormatSummary(res))
}

func routeLegs(res *pathfinding.Result) []pathfinding.Leg {
	if res == nil {
		return nil
	}
	return res.Legs
}

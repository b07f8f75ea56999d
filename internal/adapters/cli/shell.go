package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sorano7/cise-sente-tool/internal/application/navigation"
	"github.com/Sorano7/cise-sente-tool/internal/domain/route"
	"github.com/Sorano7/cise-sente-tool/internal/domain/vessel"
)

const shellHelp = `Commands:
  origin <body>               set the origin
  dest <body>                 set the destination
  via <body>                  append a mandatory stop
  remove <body>               take a body out of the route
  drop <index>                remove the stop at index (0-based)
  at [expression]             set the launch time (empty: now)
  vessel <Δv> <mass> <thrust> set vessel parameters (m/s, t, N)
  policy <time> <cost> <comfort> [nocoast]
  preset <name>               apply a vessel preset
  presets                     list vessel presets
  calc                        solve the route
  select <body> | clear       change the selected body
  show                        print the session state
  reset                       clear the route and solution
  help                        show this help
  quit                        leave the shell`

// NewShellCommand creates the interactive shell command
func NewShellCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Edit and solve routes interactively",
		Long: `Start an interactive session. Routes are edited one command at a time
and every change to the session is echoed as it happens. When metrics are
enabled they are served for the lifetime of the shell.

Example:
  orbitnav shell
  > origin Earth
  > dest Mars
  > via Ceres
  > calc`,
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
			rt.serveMetrics()

			out := cmd.OutOrStdout()
			session, err := rt.newSession(writerNotifier(out))
			if err != nil {
				return err
			}
			if err := rt.loadPresets(ctx, session, ""); err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
			}
			session.ResolveTime(ctx, "")

			sh := &shell{session: session, out: out, formatter: NewPathFormatter(colorEnabled(out))}
			if rt.collector != nil {
				sh.recorder = rt.collector
			}
			unsubscribe := session.Subscribe(sh.render)
			defer unsubscribe()

			return sh.run(ctx, cmd.InOrStdin())
		},
	}

	return cmd
}

type commandRecorder interface {
	RecordCommandExecution(command string, duration time.Duration, success bool)
}

type shell struct {
	session   *navigation.Session
	out       io.Writer
	formatter *PathFormatter
	recorder  commandRecorder
}

var errQuit = errors.New("quit")

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(sh.out, "orbitnav shell, session %s. Type 'help' for commands.\n", sh.session.ID())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		start := time.Now()
		err := sh.exec(ctx, fields[0], fields[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if sh.recorder != nil {
			sh.recorder.RecordCommandExecution(fields[0], time.Since(start), err == nil)
		}
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
	}
}

func (sh *shell) exec(ctx context.Context, name string, args []string) error {
	s := sh.session
	arg := strings.Join(args, " ")

	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "origin":
		return sh.assign(arg, route.RoleOrigin)
	case "dest":
		return sh.assign(arg, route.RoleDestination)
	case "via":
		return sh.assign(arg, route.RoleWaypoint)
	case "remove":
		s.RemoveFromRoute(arg)
	case "drop":
		index, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid index %q", arg)
		}
		s.RemoveWaypointAt(index)
	case "at":
		if _, ok := s.ResolveTime(ctx, arg); !ok {
			return fmt.Errorf("could not understand time %q", arg)
		}
	case "vessel":
		values, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		return s.SetVessel(vessel.Config{DeltaV: values[0], MassT: values[1], ThrustN: values[2]})
	case "policy":
		if len(args) < 3 {
			return errors.New("usage: policy <time> <cost> <comfort> [nocoast]")
		}
		values, err := parseFloats(args[:3], 3)
		if err != nil {
			return err
		}
		return s.SetPolicy(vessel.Policy{
			TimeWeight:    values[0],
			CostWeight:    values[1],
			ComfortWeight: values[2],
			DisableCoast:  len(args) > 3 && args[3] == "nocoast",
		})
	case "preset":
		if !s.ApplyVesselPreset(arg) {
			return fmt.Errorf("unknown vessel preset %q", arg)
		}
	case "presets":
		for _, preset := range s.Presets().Names() {
			fmt.Fprintln(sh.out, preset)
		}
	case "calc":
		if def := s.Route(); !def.Ready() {
			return errors.New("route needs an origin and a destination")
		}
		_, err := s.Calculate(ctx)
		if errors.Is(err, navigation.ErrNoPath) {
			fmt.Fprintln(sh.out, "No path found")
			return nil
		}
		return err
	case "select":
		s.Select(arg)
	case "clear":
		s.ClearSelection()
	case "show":
		sh.show()
	case "reset":
		s.Reset()
	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
	return nil
}

func (sh *shell) assign(id string, role route.Role) error {
	if id == "" {
		return fmt.Errorf("usage: %s <body>", role)
	}
	if role == route.RoleWaypoint {
		sh.session.AddWaypoint(id)
	} else {
		sh.session.AssignRole(id, role)
	}
	def := sh.session.Route()
	if !def.Has(id) {
		return fmt.Errorf("unknown object %q", id)
	}
	return nil
}

// render echoes session changes as they are published
func (sh *shell) render(e navigation.Event) {
	if e.Has(navigation.ChangeRoute) {
		fmt.Fprintf(sh.out, "  route: %s\n", e.View.Route.String())
	}
	if e.Has(navigation.ChangeVessel) {
		fmt.Fprintf(sh.out, "  vessel: %s\n", e.View.Vessel)
	}
	if e.Has(navigation.ChangeSelection) && e.View.Selected != "" {
		fmt.Fprintf(sh.out, "  selected: %s\n", e.View.Selected)
	}
	if e.Has(navigation.ChangeResult) && e.View.HasValidResult() {
		fmt.Fprint(sh.out, sh.formatter.FormatPath(e.View.Result, nil))
		fmt.Fprintln(sh.out, sh.formatter.FormatSummary(e.View.Result))
	}
}

func (sh *shell) show() {
	s := sh.session
	def := s.Route()
	p := s.Policy()

	fmt.Fprintf(sh.out, "Route:            %s\n", def.String())
	fmt.Fprintf(sh.out, "Launch:           %s\n", formatTimestamp(def.LaunchTime))
	fmt.Fprintf(sh.out, "Vessel:           %s\n", s.Vessel())
	fmt.Fprintf(sh.out, "Policy:           time=%g cost=%g comfort=%g coast=%t\n",
		p.TimeWeight, p.CostWeight, p.ComfortWeight, !p.DisableCoast)
	fmt.Fprintf(sh.out, "Objects:          %d\n", len(s.Objects()))
	fmt.Fprintf(sh.out, "Arrivals cached:  %d\n", len(s.ArrivalPositions()))
	if sel := s.Selected(); sel != "" {
		fmt.Fprintf(sh.out, "Selected:         %s\n", sel)
	}
	fmt.Fprintf(sh.out, "Result:           %s\n", sh.formatter.FormatSummary(s.Result()))
}

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	values := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		values[i] = v
	}
	return values, nil
}

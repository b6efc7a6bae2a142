// Command linkbudget evaluates downlink scenarios from a JSON catalogue and
// prints the link budget report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signalsfoundry/linkbudget/core"
	"github.com/signalsfoundry/linkbudget/internal/config"
	"github.com/signalsfoundry/linkbudget/internal/logging"
	"github.com/signalsfoundry/linkbudget/internal/observability"
	"github.com/signalsfoundry/linkbudget/internal/report"
	"github.com/signalsfoundry/linkbudget/model"
	"github.com/signalsfoundry/linkbudget/timectrl"
	"github.com/signalsfoundry/linkbudget/units"
)

const (
	exitOK        = 0
	exitNotClosed = 1
	exitInvalid   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath   string
	scenarioPath string
	name         string
	format       string
	list         bool
	strict       bool

	tle1, tle2 string
	lat, lon   float64
	alt        string
	at         string
	sweep      time.Duration
	step       time.Duration
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("linkbudget", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Optional config file (toml, yaml or json)")
	fs.StringVar(&o.scenarioPath, "scenarios", "", "Path to the JSON scenario catalogue (default from config)")
	fs.StringVar(&o.name, "name", "", "Scenario to evaluate; every scenario when empty")
	fs.StringVar(&o.format, "format", "plain", "Output format: plain, json or csv")
	fs.BoolVar(&o.list, "list", false, "List catalogue scenarios and exit")
	fs.BoolVar(&o.strict, "strict", false, "Exit 1 when a link does not close")
	fs.StringVar(&o.tle1, "tle1", "", "TLE line 1; with -tle2, overrides satellite altitude and elevation")
	fs.StringVar(&o.tle2, "tle2", "", "TLE line 2")
	fs.Float64Var(&o.lat, "lat", 0, "Ground station geodetic latitude in degrees")
	fs.Float64Var(&o.lon, "lon", 0, "Ground station longitude in degrees")
	fs.StringVar(&o.alt, "alt", "", "Ground station altitude, e.g. \"400 m\" (default from scenario)")
	fs.StringVar(&o.at, "at", "", "Pass instant in RFC 3339 (default now)")
	fs.DurationVar(&o.sweep, "sweep", 0, "With a TLE, evaluate every -step across this window from -at")
	fs.DurationVar(&o.step, "step", 30*time.Second, "Sweep step")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if (o.tle1 == "") != (o.tle2 == "") {
		return o, errors.New("-tle1 and -tle2 must be given together")
	}
	if o.sweep != 0 && o.tle1 == "" {
		return o, errors.New("-sweep needs -tle1 and -tle2")
	}
	if o.sweep < 0 || o.step <= 0 {
		return o, errors.New("-sweep must be non-negative and -step positive")
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return exitInvalid
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "linkbudget: %v\n", err)
		return exitInvalid
	}
	if o.scenarioPath == "" {
		o.scenarioPath = cfg.ScenarioPath
	}
	log := logging.NewWithWriter(stderr, cfg.Log)
	ctx := context.Background()

	catalogue, err := loadCatalogue(o.scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario catalogue", logging.String("path", o.scenarioPath), logging.Err(err))
		return exitInvalid
	}

	if o.list {
		for _, sc := range catalogue.Scenarios {
			fmt.Fprintf(stdout, "%s\t%s\n", sc.Name, sc.Description)
		}
		return exitOK
	}

	selected := catalogue.Scenarios
	if o.name != "" {
		sc := catalogue.Find(o.name)
		if sc == nil {
			log.Error(ctx, "scenario not found", logging.String("name", o.name))
			return exitInvalid
		}
		selected = []*model.Scenario{sc}
	}

	enc, err := report.NewEncoder(o.format, stdout)
	if err != nil {
		log.Error(ctx, "invalid output format", logging.Err(err))
		return exitInvalid
	}

	status := exitOK
	emit := func(label string, sc *model.Scenario, override func(*core.Engine) error) error {
		row, runErr := evaluate(ctx, log, sc, override)
		row.Scenario = label
		if err := enc.Encode(row); err != nil {
			return err
		}
		switch {
		case runErr != nil:
			log.Warn(ctx, "link budget rejected",
				logging.String("scenario", label),
				logging.Err(runErr),
			)
			status = exitInvalid
		case !row.Closes && o.strict && status == exitOK:
			status = exitNotClosed
		}
		return nil
	}

	if o.tle1 == "" {
		for _, sc := range selected {
			if err := emit(sc.Name, sc, nil); err != nil {
				log.Error(ctx, "failed to write report", logging.Err(err))
				return exitInvalid
			}
		}
		return status
	}

	if err := sweepPass(ctx, log, o, selected, emit); err != nil {
		log.Error(ctx, "pass evaluation failed", logging.Err(err))
		return exitInvalid
	}
	return status
}

func loadCatalogue(path string) (*model.ScenarioSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadScenarios(f)
}

// sweepPass evaluates the selected scenarios with geometry taken from the
// TLE at each instant of the window. A single instant is always
// evaluated; during a sweep, instants below the horizon are skipped.
// Without -alt the station altitude comes from the first selected scenario.
func sweepPass(ctx context.Context, log logging.Logger, o options, selected []*model.Scenario,
	emit func(string, *model.Scenario, func(*core.Engine) error) error,
) error {
	orbit, err := core.NewOrbitFromTLE(o.tle1, o.tle2)
	if err != nil {
		return err
	}

	at := time.Now().UTC()
	if o.at != "" {
		if at, err = time.Parse(time.RFC3339, o.at); err != nil {
			return fmt.Errorf("-at: %w", err)
		}
	}

	var alt units.Quantity
	switch {
	case o.alt != "":
		if alt, err = units.Parse(o.alt); err != nil {
			return fmt.Errorf("-alt: %w", err)
		}
	case len(selected) > 0:
		alt = selected[0].GroundStationAltitude
	default:
		alt = units.Q(0, units.Meter)
	}
	altM, err := alt.In(units.Meter)
	if err != nil {
		return fmt.Errorf("ground station altitude: %w", err)
	}
	gs := model.GroundStation{LatitudeDeg: o.lat, LongitudeDeg: o.lon, AltitudeM: altM}

	visible := 0
	clock := timectrl.NewTimeController(at, o.step, timectrl.Accelerated)
	clock.AddListener(func(now time.Time) error {
		pass, err := orbit.LookFrom(gs, now)
		if err != nil {
			return err
		}
		switch {
		case pass.Visible():
			visible++
		case o.sweep > 0:
			return nil
		default:
			log.Warn(ctx, "satellite is below the horizon", logging.Float64("elevation_deg", pass.ElevationDeg))
		}
		override := func(e *core.Engine) error {
			if o.alt != "" {
				if err := e.SetGroundStationAltitude(alt); err != nil {
					return err
				}
			}
			return pass.Apply(e)
		}
		for _, sc := range selected {
			label := sc.Name
			if o.sweep > 0 {
				label = fmt.Sprintf("%s @ %s", sc.Name, now.Format(time.RFC3339))
			}
			if err := emit(label, sc, override); err != nil {
				return err
			}
		}
		return nil
	})
	if err := clock.Run(ctx, o.sweep); err != nil {
		return err
	}
	if o.sweep > 0 && visible == 0 {
		log.Warn(ctx, "satellite never rose above the horizon",
			logging.String("from", at.Format(time.RFC3339)),
			logging.String("window", o.sweep.String()),
		)
	}
	return nil
}

// evaluate configures a fresh engine from sc, lets override adjust it and
// runs the budget.
func evaluate(ctx context.Context, log logging.Logger, sc *model.Scenario, override func(*core.Engine) error) (report.Row, error) {
	e := core.NewEngine()
	if err := core.ConfigureEngine(e, sc); err != nil {
		return report.NewRow(sc.Name, e, err), err
	}
	if override != nil {
		if err := override(e); err != nil {
			return report.NewRow(sc.Name, e, err), err
		}
	}
	err := e.Run(observability.LogObserver(ctx, log.With(logging.String("scenario", sc.Name))))
	return report.NewRow(sc.Name, e, err), err
}

package core

import (
	"errors"
	"math"
	"testing"

	"github.com/signalsfoundry/linkbudget/units"
)

func TestRun_RejectsPhysicallyInvalidInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(e *Engine)
		field  string
		rule   error
	}{
		{"zero frequency", func(e *Engine) { _ = e.SetDownlinkFrequency(units.MustParse("0 MHz")) }, "downlink_frequency", ErrInvalidFrequency},
		{"negative satellite altitude", func(e *Engine) { _ = e.SetSatelliteAltitude(units.MustParse("-860 km")) }, "satellite_altitude", ErrInvalidSatelliteAltitude},
		{"negative elevation", func(e *Engine) { _ = e.SetOrbitElevationAngle(units.MustParse("-10 deg")) }, "orbit_elevation_angle", ErrInvalidElevationAngle},
		{"zero elevation", func(e *Engine) { _ = e.SetOrbitElevationAngle(units.MustParse("0 deg")) }, "orbit_elevation_angle", ErrInvalidElevationAngle},
		{"negative noise figure", func(e *Engine) { e.SetSystemNoiseFigure(-5) }, "system_noise_figure", ErrNegativeNoiseFigure},
		{"positive atmospheric loss", func(e *Engine) { e.SetAtmosphericLoss(0.75) }, "atmospheric_loss", ErrPositiveAtmosphericLoss},
		{"positive implementation loss", func(e *Engine) { e.SetImplementationLoss(1) }, "implementation_loss", ErrPositiveImplementationLoss},
		{"positive polarization loss", func(e *Engine) { e.SetPolarizationLosses(3) }, "polarization_losses", ErrPositivePolarizationLoss},
		{"positive receive pointing loss", func(e *Engine) { e.SetReceivingPointingLoss(1) }, "receiving_pointing_loss", ErrPositiveReceivePointingLoss},
		{"positive transmit loss", func(e *Engine) { e.SetTransmitLosses(1) }, "transmit_losses", ErrPositiveTransmitLoss},
		{"positive transmit pointing loss", func(e *Engine) { e.SetTransmitPointingLoss(3) }, "transmit_pointing_loss", ErrPositiveTransmitPointingLoss},
		{"zero bandwidth", func(e *Engine) { _ = e.SetNoiseBandwidth(units.MustParse("0 kHz")) }, "noise_bandwidth", ErrInvalidNoiseBandwidth},
		{"zero transmit power", func(e *Engine) { _ = e.SetTransmitPower(units.MustParse("0 W")) }, "transmit_power", ErrInvalidTransmitPower},
		{"NaN atmospheric loss", func(e *Engine) { e.SetAtmosphericLoss(math.NaN()) }, "atmospheric_loss", ErrPositiveAtmosphericLoss},
		{
			// transmit pointing is checked after atmospheric
			"two positive losses",
			func(e *Engine) { e.SetTransmitPointingLoss(3); e.SetAtmosphericLoss(0.75) },
			"atmospheric_loss", ErrPositiveAtmosphericLoss,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := noaaEngine(t)
			tc.mutate(e)
			err := e.Run()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
			if !errors.Is(err, tc.rule) {
				t.Fatalf("got %v, want rule %v", err, tc.rule)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("ValidationError field = %+v, want %q", ve, tc.field)
			}
			if e.Valid() {
				t.Fatalf("Valid() = true after rejected Run")
			}
		})
	}
}

func TestRun_ZeroGainsAndLossesAreAccepted(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	e.SetImplementationLoss(0)
	e.SetTransmitLosses(0)
	e.SetTransmitPointingLoss(0)
	e.SetPolarizationLosses(0)
	e.SetAtmosphericLoss(0)
	e.SetReceivingPointingLoss(0)
	e.SetSystemNoiseFigure(0)
	e.SetTransmitAntennaGain(-4)
	e.SetReceiveAntennaGain(-5.4)
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_FailureKeepsPreviousOutputs(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	good := e.Results()

	mustSet(t, e.SetOrbitElevationAngle(units.MustParse("-10 deg")))
	if err := e.Run(); err == nil {
		t.Fatalf("expected -10 deg to fail")
	}
	if e.Valid() {
		t.Fatalf("Valid() = true after failed Run")
	}
	stale := e.Results()
	stale.Valid = true
	if stale != good {
		t.Fatalf("outputs changed on failure:\n%+v\n%+v", good, stale)
	}

	// Fixing the input makes the engine valid again.
	mustSet(t, e.SetOrbitElevationAngle(units.MustParse("25 deg")))
	if err := e.Run(); err != nil {
		t.Fatalf("Run after fix: %v", err)
	}
	if !e.Valid() {
		t.Fatalf("Valid() = false after recovery")
	}
}

func TestRun_GeometryError(t *testing.T) {
	t.Parallel()

	// Satellite below the ground station at zenith.
	e := noaaEngine(t)
	mustSet(t, e.SetGroundStationAltitude(units.MustParse("2 km")))
	mustSet(t, e.SetSatelliteAltitude(units.MustParse("1 km")))
	mustSet(t, e.SetOrbitElevationAngle(units.MustParse("90 deg")))

	err := e.Run()
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("got %v, want ErrInvalidGeometry", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Fatalf("geometry failure must not read as a validation failure")
	}
	if e.Valid() {
		t.Fatalf("Valid() = true after geometry failure")
	}
}

func TestRun_NonFiniteMargin(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	e.SetReceiveAntennaGain(math.Inf(1))
	e.SetTargetEnergyNoiseRatio(math.Inf(1))

	if err := e.Run(); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("got %v, want ErrNonFinite", err)
	}
	if e.Valid() {
		t.Fatalf("Valid() = true with a NaN margin")
	}
}

func TestRun_ObserversSeeEveryStageInOrder(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)

	var stages []Stage
	values := map[Stage]float64{}
	obs := StageObserverFunc(func(s Stage, v float64) {
		stages = append(stages, s)
		values[s] = v
	})
	if err := e.Run(obs, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []Stage{
		StageWavelength,
		StageLinkDistance,
		StageTransmitPowerDBm,
		StageTransmitEIRP,
		StageDownlinkPathLoss,
		StageRequiredEbNo,
		StageReceivedPower,
		StageMinimumDetectableSignal,
		StageEnergyNoiseRatio,
		StageLinkMargin,
	}
	if len(stages) != len(want) {
		t.Fatalf("observed %d stages, want %d: %v", len(stages), len(want), stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("stage %d = %v, want %v", i, stages[i], want[i])
		}
	}
	if values[StageLinkMargin] != e.LinkMargin() {
		t.Errorf("observed margin %v, engine %v", values[StageLinkMargin], e.LinkMargin())
	}
	if values[StageLinkDistance] != e.LinkDistance().Magnitude {
		t.Errorf("observed distance %v, engine %v", values[StageLinkDistance], e.LinkDistance())
	}
}

func TestRun_ValidationFailureNotifiesNoStage(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	e.SetSystemNoiseFigure(-1)

	calls := 0
	_ = e.Run(StageObserverFunc(func(Stage, float64) { calls++ }))
	if calls != 0 {
		t.Fatalf("observer called %d times on a rejected Run", calls)
	}
}

func TestStage_NamesAndUnits(t *testing.T) {
	t.Parallel()

	if StageLinkMargin.String() != "link_margin" || StageLinkMargin.Unit() != "dB" {
		t.Errorf("link margin stage = %s [%s]", StageLinkMargin, StageLinkMargin.Unit())
	}
	if StageReceivedPower.Unit() != "dBm" {
		t.Errorf("received power unit = %s", StageReceivedPower.Unit())
	}
	if Stage(99).String() != "unknown" || Stage(-1).Unit() != "" {
		t.Errorf("out-of-range stage not handled")
	}
}

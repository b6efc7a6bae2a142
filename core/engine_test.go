package core

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/signalsfoundry/linkbudget/units"
)

const dbTol = 1e-3

// noaaEngine is the NOAA APT downlink every other case is varied from.
func noaaEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := NewEngine(opts...)
	mustSet(t, e.SetGroundStationAltitude(units.MustParse("400 m")))
	mustSet(t, e.SetSatelliteAltitude(units.MustParse("860 km")))
	mustSet(t, e.SetOrbitElevationAngle(units.MustParse("25 deg")))
	mustSet(t, e.SetDownlinkFrequency(units.MustParse("137.5 MHz")))
	mustSet(t, e.SetTransmitPower(units.MustParse("5 W")))
	mustSet(t, e.SetNoiseBandwidth(units.MustParse("34 kHz")))
	e.SetTargetEnergyNoiseRatio(20)
	e.SetImplementationLoss(-1)
	e.SetTransmitLosses(-1)
	e.SetTransmitAntennaGain(4)
	e.SetTransmitPointingLoss(-3)
	e.SetPolarizationLosses(0)
	e.SetAtmosphericLoss(-0.75)
	e.SetReceiveAntennaGain(5.4)
	e.SetReceivingPointingLoss(-3)
	e.SetSystemNoiseFigure(5)
	return e
}

func mustSet(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setter: %v", err)
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	e := NewEngine()
	if e.Valid() {
		t.Fatalf("fresh engine must not be valid")
	}
	if e.DownlinkWavelength().Unit != units.Meter || e.DownlinkWavelength().Magnitude != 0 {
		t.Errorf("DownlinkWavelength = %v, want 0 m", e.DownlinkWavelength())
	}
	if e.LinkDistance().Unit != units.Meter || e.LinkDistance().Magnitude != 0 {
		t.Errorf("LinkDistance = %v, want 0 m", e.LinkDistance())
	}
	if e.OrbitElevationAngle().Unit != units.Degree {
		t.Errorf("OrbitElevationAngle unit = %v, want deg", e.OrbitElevationAngle().Unit)
	}
	if got := e.LinkMargin(); got != 0 {
		t.Errorf("LinkMargin = %v, want 0", got)
	}
	if e.PlanetRadius() != units.Q(EarthRadiusKm, units.Kilometer) {
		t.Errorf("PlanetRadius = %v", e.PlanetRadius())
	}

	// All-zero inputs fail on the first rule.
	err := e.Run()
	if !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("Run on fresh engine: got %v, want ErrInvalidFrequency", err)
	}
}

func TestEngine_NOAAReference(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !e.Valid() {
		t.Fatalf("Valid() = false after successful Run")
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"wavelength_m", e.DownlinkWavelength().Magnitude, 2.180291, 1e-5},
		{"distance_km", e.LinkDistance().Magnitude / 1e3, 1659.697, 1e-2},
		{"transmit_power_dbm", e.TransmitPowerDBm(), 36.9897, dbTol},
		{"eirp", e.TransmitEIRP(), 36.9897, dbTol},
		{"fspl", e.DownlinkPathLoss(), -139.6145, dbTol},
		{"required_ebno", e.RequiredEbNo(), 21, dbTol},
		{"received_power", e.ReceivedPower(), -100.9748, dbTol},
		{"mds", e.MinimumDetectableSignal(), -123.6852, dbTol},
		{"ebno", e.EnergyNoiseRatio(), 22.7104, dbTol},
		{"margin", e.LinkMargin(), 1.7104, dbTol},
	}
	for _, c := range checks {
		if !scalar.EqualWithinAbs(c.got, c.want, c.tol) {
			t.Errorf("%s = %.6f, want %.6f (±%g)", c.name, c.got, c.want, c.tol)
		}
	}

	r := e.Results()
	if !r.Closes() {
		t.Errorf("NOAA link should close, margin %.3f", r.LinkMargin)
	}
	if r.Quality() != LinkQualityMarginal {
		t.Errorf("Quality = %v, want marginal", r.Quality())
	}
}

func TestEngine_DerivedIdentities(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got, want := e.LinkMargin(), e.EnergyNoiseRatio()-e.RequiredEbNo(); got != want {
		t.Errorf("margin %v != ebno - required %v", got, want)
	}
	if got, want := e.EnergyNoiseRatio(), e.ReceivedPower()-e.MinimumDetectableSignal(); got != want {
		t.Errorf("ebno %v != rx - mds %v", got, want)
	}
	wantEIRP := e.TransmitPowerDBm() + e.TransmitLosses() + e.TransmitAntennaGain() + e.TransmitPointingLoss()
	if e.TransmitEIRP() != wantEIRP {
		t.Errorf("eirp %v, want %v", e.TransmitEIRP(), wantEIRP)
	}
}

func TestEngine_RunIsIdempotent(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	if err := e.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	first := e.Results()
	if err := e.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second := e.Results(); second != first {
		t.Fatalf("results changed between runs:\n%+v\n%+v", first, second)
	}
}

func TestEngine_EquivalentUnitsGiveSameResults(t *testing.T) {
	t.Parallel()

	a := noaaEngine(t)
	b := noaaEngine(t)
	mustSet(t, b.SetGroundStationAltitude(units.MustParse("0.4 km")))
	mustSet(t, b.SetSatelliteAltitude(units.MustParse("860000 m")))
	mustSet(t, b.SetDownlinkFrequency(units.MustParse("0.1375 GHz")))
	mustSet(t, b.SetTransmitPower(units.MustParse("5000 mW")))
	mustSet(t, b.SetNoiseBandwidth(units.MustParse("34000 Hz")))
	mustSet(t, b.SetOrbitElevationAngle(units.Q(25*math.Pi/180, units.Radian)))

	if err := a.Run(); err != nil {
		t.Fatalf("Run a: %v", err)
	}
	if err := b.Run(); err != nil {
		t.Fatalf("Run b: %v", err)
	}
	if !scalar.EqualWithinAbs(a.LinkMargin(), b.LinkMargin(), 1e-9) {
		t.Fatalf("margin differs across equivalent units: %v vs %v", a.LinkMargin(), b.LinkMargin())
	}
}

func TestEngine_ZenithIgnoresPlanetRadius(t *testing.T) {
	t.Parallel()

	earth := noaaEngine(t)
	mars := noaaEngine(t, WithPlanetRadius(units.MustParse("3389.5 km")))
	for _, e := range []*Engine{earth, mars} {
		mustSet(t, e.SetOrbitElevationAngle(units.MustParse("90 deg")))
		if err := e.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	if earth.LinkDistance() != mars.LinkDistance() {
		t.Fatalf("zenith range depends on radius: %v vs %v", earth.LinkDistance(), mars.LinkDistance())
	}
	if got := earth.LinkDistance().Magnitude; got != 859600 {
		t.Fatalf("zenith range = %v m, want 859600", got)
	}
}

func TestWithPlanetRadius_IgnoresWrongFamily(t *testing.T) {
	t.Parallel()

	e := NewEngine(WithPlanetRadius(units.MustParse("5 W")), nil)
	if e.PlanetRadius() != units.Q(EarthRadiusKm, units.Kilometer) {
		t.Fatalf("PlanetRadius = %v, want default", e.PlanetRadius())
	}
}

func TestEngine_Monotonicity(t *testing.T) {
	t.Parallel()

	margin := func(t *testing.T, mutate func(e *Engine) error) float64 {
		t.Helper()
		e := noaaEngine(t)
		if err := mutate(e); err != nil {
			t.Fatalf("mutate: %v", err)
		}
		if err := e.Run(); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return e.LinkMargin()
	}
	base := margin(t, func(*Engine) error { return nil })

	tests := []struct {
		name   string
		mutate func(e *Engine) error
		higher bool
	}{
		{"more power", func(e *Engine) error { return e.SetTransmitPower(units.MustParse("10 W")) }, true},
		{"more receive gain", func(e *Engine) error { e.SetReceiveAntennaGain(8); return nil }, true},
		{"higher elevation", func(e *Engine) error { return e.SetOrbitElevationAngle(units.MustParse("60 deg")) }, true},
		{"higher orbit", func(e *Engine) error { return e.SetSatelliteAltitude(units.MustParse("1200 km")) }, false},
		{"higher frequency", func(e *Engine) error { return e.SetDownlinkFrequency(units.MustParse("435 MHz")) }, false},
		{"wider bandwidth", func(e *Engine) error { return e.SetNoiseBandwidth(units.MustParse("100 kHz")) }, false},
		{"noisier receiver", func(e *Engine) error { e.SetSystemNoiseFigure(8); return nil }, false},
		{"more atmosphere", func(e *Engine) error { e.SetAtmosphericLoss(-3); return nil }, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := margin(t, tc.mutate)
			if tc.higher && !(got > base) {
				t.Errorf("margin %v, want > %v", got, base)
			}
			if !tc.higher && !(got < base) {
				t.Errorf("margin %v, want < %v", got, base)
			}
		})
	}
}

func TestEngine_SetterRejectsWrongFamily(t *testing.T) {
	t.Parallel()

	e := noaaEngine(t)
	before := e.DownlinkFrequency()

	err := e.SetDownlinkFrequency(units.MustParse("5 km"))
	if !errors.Is(err, ErrUnitMismatch) {
		t.Fatalf("got %v, want ErrUnitMismatch", err)
	}
	var um *UnitMismatchError
	if !errors.As(err, &um) {
		t.Fatalf("error %T is not *UnitMismatchError", err)
	}
	if um.Field != "downlink_frequency" || um.Want != units.Frequency {
		t.Errorf("mismatch = %+v", um)
	}
	if e.DownlinkFrequency() != before {
		t.Errorf("field changed after rejected assignment: %v", e.DownlinkFrequency())
	}

	setters := map[string]func(units.Quantity) error{
		"ground_station_altitude": e.SetGroundStationAltitude,
		"satellite_altitude":      e.SetSatelliteAltitude,
		"orbit_elevation_angle":   e.SetOrbitElevationAngle,
		"transmit_power":          e.SetTransmitPower,
		"noise_bandwidth":         e.SetNoiseBandwidth,
	}
	for name, set := range setters {
		if err := set(units.Quantity{Magnitude: 1}); !errors.Is(err, ErrUnitMismatch) {
			t.Errorf("%s accepted a unitless value: %v", name, err)
		}
	}
}

package core

import (
	"github.com/signalsfoundry/linkbudget/units"
)

// Engine is a downlink link budget calculator.
//
// Inputs are assigned through the Set* methods, Run recomputes every
// output from the current inputs, and the output accessors report the
// results of the most recent Run. Valid must be consulted before any
// output is trusted: a failed Run leaves Valid false and the previous
// outputs in place.
//
// An Engine is single-owner state; use one Engine per concurrent
// evaluation.
type Engine struct {
	planetRadius units.Quantity

	// inputs
	groundStationAltitude  units.Quantity
	satelliteAltitude      units.Quantity
	orbitElevationAngle    units.Quantity
	downlinkFrequency      units.Quantity
	targetEnergyNoiseRatio float64
	implementationLoss     float64
	transmitPower          units.Quantity
	transmitLosses         float64
	transmitAntennaGain    float64
	transmitPointingLoss   float64
	polarizationLosses     float64
	atmosphericLoss        float64
	receiveAntennaGain     float64
	receivingPointingLoss  float64
	systemNoiseFigure      float64
	noiseBandwidth         units.Quantity

	out Results
}

// Option customises an Engine at construction.
type Option func(*Engine)

// WithPlanetRadius replaces the mean Earth radius used by the slant-range
// geometry, e.g. for bodies other than Earth.
func WithPlanetRadius(r units.Quantity) Option {
	return func(e *Engine) {
		if r.Check(units.Length) {
			e.planetRadius = r
		}
	}
}

// NewEngine returns an engine with all-zero inputs and Valid() == false.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		planetRadius: units.Q(EarthRadiusKm, units.Kilometer),

		groundStationAltitude: units.Q(0, units.Meter),
		satelliteAltitude:     units.Q(0, units.Meter),
		orbitElevationAngle:   units.Q(0, units.Degree),
		downlinkFrequency:     units.Q(0, units.Hertz),
		transmitPower:         units.Q(0, units.Watt),
		noiseBandwidth:        units.Q(0, units.Hertz),

		out: Results{
			DownlinkWavelength: units.Q(0, units.Meter),
			LinkDistance:       units.Q(0, units.Meter),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// PlanetRadius returns the mean planetary radius used by the geometry stage.
func (e *Engine) PlanetRadius() units.Quantity { return e.planetRadius }

func requireFamily(field string, q units.Quantity, want units.Family) error {
	if !q.Check(want) {
		return &UnitMismatchError{Field: field, Want: want, Got: q}
	}
	return nil
}

// ---- dimensioned inputs ----

func (e *Engine) GroundStationAltitude() units.Quantity { return e.groundStationAltitude }

// SetGroundStationAltitude sets the station height above sea level.
func (e *Engine) SetGroundStationAltitude(q units.Quantity) error {
	if err := requireFamily("ground_station_altitude", q, units.Length); err != nil {
		return err
	}
	e.groundStationAltitude = q
	return nil
}

func (e *Engine) SatelliteAltitude() units.Quantity { return e.satelliteAltitude }

// SetSatelliteAltitude sets the mean satellite altitude above sea level.
func (e *Engine) SetSatelliteAltitude(q units.Quantity) error {
	if err := requireFamily("satellite_altitude", q, units.Length); err != nil {
		return err
	}
	e.satelliteAltitude = q
	return nil
}

func (e *Engine) OrbitElevationAngle() units.Quantity { return e.orbitElevationAngle }

// SetOrbitElevationAngle sets the satellite elevation seen from the station.
func (e *Engine) SetOrbitElevationAngle(q units.Quantity) error {
	if err := requireFamily("orbit_elevation_angle", q, units.Angle); err != nil {
		return err
	}
	e.orbitElevationAngle = q
	return nil
}

func (e *Engine) DownlinkFrequency() units.Quantity { return e.downlinkFrequency }

func (e *Engine) SetDownlinkFrequency(q units.Quantity) error {
	if err := requireFamily("downlink_frequency", q, units.Frequency); err != nil {
		return err
	}
	e.downlinkFrequency = q
	return nil
}

func (e *Engine) TransmitPower() units.Quantity { return e.transmitPower }

func (e *Engine) SetTransmitPower(q units.Quantity) error {
	if err := requireFamily("transmit_power", q, units.Power); err != nil {
		return err
	}
	e.transmitPower = q
	return nil
}

func (e *Engine) NoiseBandwidth() units.Quantity { return e.noiseBandwidth }

func (e *Engine) SetNoiseBandwidth(q units.Quantity) error {
	if err := requireFamily("noise_bandwidth", q, units.Frequency); err != nil {
		return err
	}
	e.noiseBandwidth = q
	return nil
}

// ---- dB inputs ----

func (e *Engine) TargetEnergyNoiseRatio() float64      { return e.targetEnergyNoiseRatio }
func (e *Engine) SetTargetEnergyNoiseRatio(db float64) { e.targetEnergyNoiseRatio = db }
func (e *Engine) ImplementationLoss() float64          { return e.implementationLoss }
func (e *Engine) SetImplementationLoss(db float64)     { e.implementationLoss = db }
func (e *Engine) TransmitLosses() float64              { return e.transmitLosses }
func (e *Engine) SetTransmitLosses(db float64)         { e.transmitLosses = db }
func (e *Engine) TransmitAntennaGain() float64         { return e.transmitAntennaGain }
func (e *Engine) SetTransmitAntennaGain(db float64)    { e.transmitAntennaGain = db }
func (e *Engine) TransmitPointingLoss() float64        { return e.transmitPointingLoss }
func (e *Engine) SetTransmitPointingLoss(db float64)   { e.transmitPointingLoss = db }
func (e *Engine) PolarizationLosses() float64          { return e.polarizationLosses }
func (e *Engine) SetPolarizationLosses(db float64)     { e.polarizationLosses = db }
func (e *Engine) AtmosphericLoss() float64             { return e.atmosphericLoss }
func (e *Engine) SetAtmosphericLoss(db float64)        { e.atmosphericLoss = db }
func (e *Engine) ReceiveAntennaGain() float64          { return e.receiveAntennaGain }
func (e *Engine) SetReceiveAntennaGain(db float64)     { e.receiveAntennaGain = db }
func (e *Engine) ReceivingPointingLoss() float64       { return e.receivingPointingLoss }
func (e *Engine) SetReceivingPointingLoss(db float64)  { e.receivingPointingLoss = db }
func (e *Engine) SystemNoiseFigure() float64           { return e.systemNoiseFigure }
func (e *Engine) SetSystemNoiseFigure(db float64)      { e.systemNoiseFigure = db }

// ---- outputs ----

// DownlinkWavelength is the carrier wavelength in metres.
func (e *Engine) DownlinkWavelength() units.Quantity { return e.out.DownlinkWavelength }

// LinkDistance is the slant range in metres.
func (e *Engine) LinkDistance() units.Quantity { return e.out.LinkDistance }

func (e *Engine) RequiredEbNo() float64            { return e.out.RequiredEbNo }
func (e *Engine) TransmitPowerDBm() float64        { return e.out.TransmitPowerDBm }
func (e *Engine) TransmitEIRP() float64            { return e.out.TransmitEIRP }
func (e *Engine) DownlinkPathLoss() float64        { return e.out.DownlinkPathLoss }
func (e *Engine) ReceivedPower() float64           { return e.out.ReceivedPower }
func (e *Engine) MinimumDetectableSignal() float64 { return e.out.MinimumDetectableSignal }
func (e *Engine) EnergyNoiseRatio() float64        { return e.out.EnergyNoiseRatio }
func (e *Engine) LinkMargin() float64              { return e.out.LinkMargin }

// Valid reports whether the most recent Run completed.
func (e *Engine) Valid() bool { return e.out.Valid }

// Results returns a copy of the outputs of the most recent Run.
func (e *Engine) Results() Results { return e.out }

package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/linkbudget/units"
)

// Run recomputes every output from the current inputs.
//
// The pipeline validates the inputs, derives the slant range and then
// walks the dB budget in order. Observers, if any, are called with each
// intermediate value as it is produced. Outputs are committed only when
// the whole pipeline succeeds; on any error Valid() is false and the
// previous outputs are left untouched.
func (e *Engine) Run(observers ...StageObserver) error {
	e.out.Valid = false

	if err := e.validate(); err != nil {
		return err
	}

	notify := func(stage Stage, v float64) {
		for _, o := range observers {
			if o != nil {
				o.ObserveStage(stage, v)
			}
		}
	}

	var r Results

	// 1) geometry
	wavelength, err := Wavelength(e.downlinkFrequency)
	if err != nil {
		return err
	}
	r.DownlinkWavelength = units.Q(wavelength, units.Meter)
	notify(StageWavelength, wavelength)

	distance, err := e.linkDistance()
	if err != nil {
		return err
	}
	r.LinkDistance = units.Q(distance, units.Meter)
	notify(StageLinkDistance, distance)

	// 2) transmitter
	if r.TransmitPowerDBm, err = PowerToDBm(e.transmitPower); err != nil {
		return err
	}
	notify(StageTransmitPowerDBm, r.TransmitPowerDBm)

	r.TransmitEIRP = r.TransmitPowerDBm + e.transmitLosses + e.transmitAntennaGain + e.transmitPointingLoss
	notify(StageTransmitEIRP, r.TransmitEIRP)

	// 3) path
	r.DownlinkPathLoss = FreeSpacePathLoss(distance, wavelength)
	notify(StageDownlinkPathLoss, r.DownlinkPathLoss)

	// implementation loss is <= 0, so subtracting it raises the requirement
	r.RequiredEbNo = e.targetEnergyNoiseRatio - e.implementationLoss
	notify(StageRequiredEbNo, r.RequiredEbNo)

	// 4) receiver
	r.ReceivedPower = r.TransmitEIRP + r.DownlinkPathLoss + e.polarizationLosses +
		e.atmosphericLoss + e.receiveAntennaGain + e.receivingPointingLoss
	notify(StageReceivedPower, r.ReceivedPower)

	if r.MinimumDetectableSignal, err = NoiseFloorDBm(e.noiseBandwidth, e.systemNoiseFigure); err != nil {
		return err
	}
	notify(StageMinimumDetectableSignal, r.MinimumDetectableSignal)

	r.EnergyNoiseRatio = r.ReceivedPower - r.MinimumDetectableSignal
	notify(StageEnergyNoiseRatio, r.EnergyNoiseRatio)

	r.LinkMargin = r.EnergyNoiseRatio - r.RequiredEbNo
	notify(StageLinkMargin, r.LinkMargin)

	if math.IsNaN(r.LinkMargin) || math.IsInf(r.LinkMargin, 0) {
		return fmt.Errorf("%w: link margin = %v", ErrNonFinite, r.LinkMargin)
	}

	r.Valid = true
	e.out = r
	return nil
}

// linkDistance converts the geometry inputs to metres and degrees and
// derives the slant range.
func (e *Engine) linkDistance() (float64, error) {
	groundM, err := e.groundStationAltitude.In(units.Meter)
	if err != nil {
		return 0, err
	}
	satM, err := e.satelliteAltitude.In(units.Meter)
	if err != nil {
		return 0, err
	}
	elevationDeg, err := e.orbitElevationAngle.In(units.Degree)
	if err != nil {
		return 0, err
	}
	radiusM, err := e.planetRadius.In(units.Meter)
	if err != nil {
		return 0, err
	}
	return SlantRange(groundM, satM, elevationDeg, radiusM)
}

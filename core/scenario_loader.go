// core/scenario_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signalsfoundry/linkbudget/model"
	"github.com/signalsfoundry/linkbudget/units"
)

// LoadScenarios reads a JSON scenario catalogue of the form
// {"scenarios": [...]} from r.
//
// It fails on JSON / unit-parse errors and on blank or duplicate scenario
// names. Physical sanity is not checked here; that is Run's job, so a
// catalogue may deliberately carry invalid cases.
func LoadScenarios(r io.Reader) (*model.ScenarioSet, error) {
	var set model.ScenarioSet
	dec := json.NewDecoder(r)
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("LoadScenarios: decode failed: %w", err)
	}

	seen := make(map[string]struct{}, len(set.Scenarios))
	for i, s := range set.Scenarios {
		if s == nil {
			return nil, fmt.Errorf("LoadScenarios: scenario %d is null", i)
		}
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("LoadScenarios: scenario %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("LoadScenarios: duplicate scenario %q", name)
		}
		seen[name] = struct{}{}
		s.Name = name
	}
	return &set, nil
}

// ConfigureEngine copies every input of s onto e. The first unit
// mismatch aborts the copy and is returned wrapped with the scenario name.
func ConfigureEngine(e *Engine, s *model.Scenario) error {
	if e == nil {
		return fmt.Errorf("ConfigureEngine: engine is nil")
	}
	if s == nil {
		return fmt.Errorf("ConfigureEngine: scenario is nil")
	}

	dimensioned := []struct {
		set func(q units.Quantity) error
		q   units.Quantity
	}{
		{e.SetGroundStationAltitude, s.GroundStationAltitude},
		{e.SetSatelliteAltitude, s.SatelliteAltitude},
		{e.SetOrbitElevationAngle, s.OrbitElevationAngle},
		{e.SetDownlinkFrequency, s.DownlinkFrequency},
		{e.SetTransmitPower, s.TransmitPower},
		{e.SetNoiseBandwidth, s.NoiseBandwidth},
	}
	for _, d := range dimensioned {
		if err := d.set(d.q); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}

	e.SetTargetEnergyNoiseRatio(s.TargetEnergyNoiseRatio)
	e.SetImplementationLoss(s.ImplementationLoss)
	e.SetTransmitLosses(s.TransmitLosses)
	e.SetTransmitAntennaGain(s.TransmitAntennaGain)
	e.SetTransmitPointingLoss(s.TransmitPointingLoss)
	e.SetPolarizationLosses(s.PolarizationLosses)
	e.SetAtmosphericLoss(s.AtmosphericLoss)
	e.SetReceiveAntennaGain(s.ReceiveAntennaGain)
	e.SetReceivingPointingLoss(s.ReceivingPointingLoss)
	e.SetSystemNoiseFigure(s.SystemNoiseFigure)
	return nil
}

package model

import "github.com/signalsfoundry/linkbudget/units"

// Scenario is one downlink configuration: identity metadata plus every
// input the link budget engine consumes.
//
// Dimensioned inputs are quantities ("860 km", "137.5 MHz"); dB inputs
// are plain numbers. Losses are written as non-positive values.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Reference   string `json:"reference,omitempty"`

	GroundStationAltitude units.Quantity `json:"ground_station_altitude"`
	SatelliteAltitude     units.Quantity `json:"satellite_altitude"`
	OrbitElevationAngle   units.Quantity `json:"orbit_elevation_angle"`
	DownlinkFrequency     units.Quantity `json:"downlink_frequency"`

	TargetEnergyNoiseRatio float64 `json:"target_energy_noise_ratio"`
	ImplementationLoss     float64 `json:"implementation_loss"`

	TransmitPower        units.Quantity `json:"transmit_power"`
	TransmitLosses       float64        `json:"transmit_losses"`
	TransmitAntennaGain  float64        `json:"transmit_antenna_gain"`
	TransmitPointingLoss float64        `json:"transmit_pointing_loss"`

	PolarizationLosses    float64 `json:"polarization_losses"`
	AtmosphericLoss       float64 `json:"atmospheric_loss"`
	ReceiveAntennaGain    float64 `json:"receive_antenna_gain"`
	ReceivingPointingLoss float64 `json:"receiving_pointing_loss"`

	SystemNoiseFigure float64        `json:"system_noise_figure"`
	NoiseBandwidth    units.Quantity `json:"noise_bandwidth"`
}

// ScenarioSet is an ordered catalogue of scenarios keyed by name.
type ScenarioSet struct {
	Scenarios []*Scenario `json:"scenarios"`
}

// Find returns the scenario with the given name, or nil.
func (s *ScenarioSet) Find(name string) *Scenario {
	if s == nil {
		return nil
	}
	for _, sc := range s.Scenarios {
		if sc != nil && sc.Name == name {
			return sc
		}
	}
	return nil
}

// Names lists scenario names in catalogue order.
func (s *ScenarioSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		if sc != nil {
			out = append(out, sc.Name)
		}
	}
	return out
}

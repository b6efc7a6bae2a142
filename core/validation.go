package core

// validate checks every input against its physical-sanity rule and
// returns the first violation. Losses are encoded as non-positive dB
// values; gains and the target Eb/N0 are unrestricted.
func (e *Engine) validate() error {
	checks := []struct {
		field string
		value float64
		ok    bool
		rule  error
	}{
		{"downlink_frequency", e.downlinkFrequency.Magnitude, e.downlinkFrequency.Magnitude > 0, ErrInvalidFrequency},
		{"satellite_altitude", e.satelliteAltitude.Magnitude, e.satelliteAltitude.Magnitude > 0, ErrInvalidSatelliteAltitude},
		{"orbit_elevation_angle", e.orbitElevationAngle.Magnitude, e.orbitElevationAngle.Magnitude > 0, ErrInvalidElevationAngle},
		{"system_noise_figure", e.systemNoiseFigure, e.systemNoiseFigure >= 0, ErrNegativeNoiseFigure},
		{"atmospheric_loss", e.atmosphericLoss, e.atmosphericLoss <= 0, ErrPositiveAtmosphericLoss},
		{"implementation_loss", e.implementationLoss, e.implementationLoss <= 0, ErrPositiveImplementationLoss},
		{"polarization_losses", e.polarizationLosses, e.polarizationLosses <= 0, ErrPositivePolarizationLoss},
		{"receiving_pointing_loss", e.receivingPointingLoss, e.receivingPointingLoss <= 0, ErrPositiveReceivePointingLoss},
		{"transmit_losses", e.transmitLosses, e.transmitLosses <= 0, ErrPositiveTransmitLoss},
		{"transmit_pointing_loss", e.transmitPointingLoss, e.transmitPointingLoss <= 0, ErrPositiveTransmitPointingLoss},
		{"noise_bandwidth", e.noiseBandwidth.Magnitude, e.noiseBandwidth.Magnitude > 0, ErrInvalidNoiseBandwidth},
		{"transmit_power", e.transmitPower.Magnitude, e.transmitPower.Magnitude > 0, ErrInvalidTransmitPower},
	}

	for _, c := range checks {
		// NaN fails every comparison above, so it is rejected too.
		if !c.ok {
			return &ValidationError{Field: c.field, Value: c.value, Rule: c.rule}
		}
	}
	return nil
}

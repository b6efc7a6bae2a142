package core

import (
	"fmt"
	"strings"
)

// String renders the engine's inputs, intermediates and outputs as a
// human-readable report.
func (e *Engine) String() string {
	var b strings.Builder
	line := func(label string, value any) {
		fmt.Fprintf(&b, "%-28s %v\n", label+":", value)
	}
	db := func(v float64) string { return fmt.Sprintf("%g dB", v) }
	dbm := func(v float64) string { return fmt.Sprintf("%.2f dBm", v) }

	b.WriteString("---------------- inputs ----------------\n")
	line("Ground Station Altitude", e.groundStationAltitude)
	line("Orbit Elevation Angle", e.orbitElevationAngle)
	line("Satellite Altitude", e.satelliteAltitude)
	line("Downlink Frequency", e.downlinkFrequency)
	line("Target Eb/N0", db(e.targetEnergyNoiseRatio))
	line("Implementation Loss", db(e.implementationLoss))
	line("Atmospheric Loss", db(e.atmosphericLoss))
	line("Transmit Power", e.transmitPower)
	line("Transmit Losses", db(e.transmitLosses))
	line("Transmit Antenna Gain", db(e.transmitAntennaGain))
	line("Transmit Pointing Loss", db(e.transmitPointingLoss))
	line("Polarization Losses", db(e.polarizationLosses))
	line("Receive Antenna Gain", db(e.receiveAntennaGain))
	line("Receive Pointing Loss", db(e.receivingPointingLoss))
	line("System Noise Figure", db(e.systemNoiseFigure))
	line("Noise Bandwidth", e.noiseBandwidth)

	b.WriteString("---------------- intermediates ----------------\n")
	line("Downlink Wavelength", fmt.Sprintf("%.4f m", e.out.DownlinkWavelength.Magnitude))
	line("Link Distance", fmt.Sprintf("%.1f km", e.out.LinkDistance.Magnitude/1e3))
	line("Required Eb/N0", fmt.Sprintf("%.2f dB", e.out.RequiredEbNo))
	line("Transmit Power (dBm)", dbm(e.out.TransmitPowerDBm))
	line("Transmit EIRP", dbm(e.out.TransmitEIRP))
	line("Downlink Path Loss", fmt.Sprintf("%.2f dB", e.out.DownlinkPathLoss))

	b.WriteString("---------------- outputs ----------------\n")
	line("Received Power", dbm(e.out.ReceivedPower))
	line("Minimum Detectable Signal", dbm(e.out.MinimumDetectableSignal))
	line("Energy to Noise Ratio", fmt.Sprintf("%.2f dB", e.out.EnergyNoiseRatio))
	line("Link Margin", fmt.Sprintf("%.2f dB", e.out.LinkMargin))
	b.WriteString("\n")
	line("Valid Calculation", e.out.Valid)
	return b.String()
}

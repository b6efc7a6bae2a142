package core

import (
	"math"
	"strconv"

	"github.com/signalsfoundry/linkbudget/units"
)

const (
	// SpeedOfLight in metres per second.
	SpeedOfLight = 2.9979e8
	// ThermalNoiseDensityDBmHz is kTB per hertz at the 290 K reference
	// temperature.
	ThermalNoiseDensityDBmHz = -174.0
)

// PowerToDBm converts a power quantity to dBm.
func PowerToDBm(p units.Quantity) (float64, error) {
	if err := requireFamily("power", p, units.Power); err != nil {
		return 0, err
	}
	mW, err := p.In(units.Milliwatt)
	if err != nil {
		return 0, err
	}
	return 10 * math.Log10(mW), nil
}

// FormatDBm renders a dBm figure, e.g. "36.99 dBm".
func FormatDBm(dBm float64) string {
	return strconv.FormatFloat(dBm, 'f', 2, 64) + " dBm"
}

// Wavelength returns c / f in metres.
func Wavelength(f units.Quantity) (float64, error) {
	if err := requireFamily("frequency", f, units.Frequency); err != nil {
		return 0, err
	}
	hz, err := f.In(units.Hertz)
	if err != nil {
		return 0, err
	}
	return SpeedOfLight / hz, nil
}

// FreeSpacePathLoss returns the one-way free-space loss for a distance and
// wavelength in metres. The result is negative: it is a loss.
func FreeSpacePathLoss(distanceM, wavelengthM float64) float64 {
	return -20 * math.Log10(4*math.Pi*distanceM/wavelengthM)
}

// NoiseFloorDBm is the minimum detectable signal for a receiver with the
// given noise bandwidth and noise figure.
func NoiseFloorDBm(bandwidth units.Quantity, noiseFigureDB float64) (float64, error) {
	if err := requireFamily("noise_bandwidth", bandwidth, units.Frequency); err != nil {
		return 0, err
	}
	hz, err := bandwidth.In(units.Hertz)
	if err != nil {
		return 0, err
	}
	return ThermalNoiseDensityDBmHz + 10*math.Log10(hz) + noiseFigureDB, nil
}

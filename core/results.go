package core

import "github.com/signalsfoundry/linkbudget/units"

// Results is a snapshot of the outputs of one Run.
type Results struct {
	DownlinkWavelength      units.Quantity `json:"downlink_wavelength"`
	LinkDistance            units.Quantity `json:"link_distance"`
	RequiredEbNo            float64        `json:"required_ebno"`
	TransmitPowerDBm        float64        `json:"transmit_power_dbm"`
	TransmitEIRP            float64        `json:"transmit_eirp"`
	DownlinkPathLoss        float64        `json:"downlink_path_loss"`
	ReceivedPower           float64        `json:"received_power"`
	MinimumDetectableSignal float64        `json:"minimum_detectable_signal"`
	EnergyNoiseRatio        float64        `json:"energy_noise_ratio"`
	LinkMargin              float64        `json:"link_margin"`
	Valid                   bool           `json:"valid"`
}

// Closes reports whether a valid run left non-negative margin.
func (r Results) Closes() bool {
	return r.Valid && r.LinkMargin >= 0
}

// LinkQuality is a coarse bucket of the link margin.
type LinkQuality int

const (
	LinkQualityDown LinkQuality = iota
	LinkQualityMarginal
	LinkQualityFair
	LinkQualityGood
	LinkQualityExcellent
)

func (q LinkQuality) String() string {
	switch q {
	case LinkQualityMarginal:
		return "marginal"
	case LinkQualityFair:
		return "fair"
	case LinkQualityGood:
		return "good"
	case LinkQualityExcellent:
		return "excellent"
	default:
		return "down"
	}
}

// Quality buckets the margin. Anything below 0 dB does not close; 3 dB
// is the usual minimum design margin for a LEO downlink.
func (r Results) Quality() LinkQuality {
	switch {
	case !r.Valid || r.LinkMargin < 0:
		return LinkQualityDown
	case r.LinkMargin < 3:
		return LinkQualityMarginal
	case r.LinkMargin < 6:
		return LinkQualityFair
	case r.LinkMargin < 10:
		return LinkQualityGood
	default:
		return LinkQualityExcellent
	}
}
